package engine

import (
	"fmt"
	"math"
)

// Upper bounds accepted for lab values, matching the FLEX input form.
const (
	MaxRPVOTPct  = 200.0
	MaxAminicPct = 100.0
)

// Measurements are optional lab results for the sample being assessed.
// A nil field was not measured.
type Measurements struct {
	RPVOTPct  *float64 `json:"rpvot_pct,omitempty"`
	AminicPct *float64 `json:"aminic_pct,omitempty"`
	DeltaE    *float64 `json:"delta_e,omitempty"` // MPC varnish potential
}

// anchored reports whether any antioxidant value was measured.
func (m Measurements) anchored() bool {
	return m.RPVOTPct != nil || m.AminicPct != nil
}

func (m Measurements) validate() error {
	if err := checkRange("rpvot_pct", m.RPVOTPct, MaxRPVOTPct); err != nil {
		return err
	}
	if err := checkRange("aminic_pct", m.AminicPct, MaxAminicPct); err != nil {
		return err
	}
	if m.DeltaE != nil && (!(*m.DeltaE >= 0) || math.IsInf(*m.DeltaE, 0)) {
		return fmt.Errorf("%w: delta_e %v must be >= 0", ErrInvalidMeasurement, *m.DeltaE)
	}
	return nil
}

func checkRange(name string, v *float64, max float64) error {
	if v == nil {
		return nil
	}
	if !(*v >= 0 && *v <= max) {
		return fmt.Errorf("%w: %s %v must be in [0, %v]", ErrInvalidMeasurement, name, *v, max)
	}
	return nil
}

// measuredQuery overlays lab values on the modeled state. A track that was not
// measured keeps its modeled value. Fluids with a mirrored secondary track
// have a single independent signal, so only RPVOT counts for them.
func measuredQuery(p AdjustedProfile, modeled DegradationQuery, m Measurements) DegradationQuery {
	q := modeled
	if p.SecondaryMirrored {
		if m.RPVOTPct != nil {
			q.PrimaryPct = *m.RPVOTPct
			q.SecondaryPct = *m.RPVOTPct
		}
	} else {
		if m.RPVOTPct != nil {
			q.PrimaryPct = *m.RPVOTPct
		}
		if m.AminicPct != nil {
			q.SecondaryPct = *m.AminicPct
		}
	}
	q.HealthIndex = (q.PrimaryPct + q.SecondaryPct) / 2
	return q
}

// anchorAge converts a measured health index into the hour at which the
// adjusted curve reaches it. It falls back to elapsed when the curve never
// gets there (flat tracks) or the sample is fully depleted.
func anchorAge(p AdjustedProfile, measuredIndex, elapsed float64) float64 {
	if measuredIndex >= p.healthIndex(0) {
		return 0
	}
	if measuredIndex <= 0 {
		return elapsed
	}
	c := findCrossing(p, 0, measuredIndex)
	if c.Undetermined {
		return elapsed
	}
	return c.RemainingHours
}
