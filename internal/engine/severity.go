package engine

import (
	"fmt"
	"math"

	"flex_report/internal/models"
)

// AdjustedProfile is an OilProfile whose rates have been rescaled for a
// specific severity and temperature configuration. Amplitudes are unchanged.
type AdjustedProfile struct {
	Name              string
	Primary           models.Track
	Secondary         models.Track
	SecondaryMirrored bool
	SeverityRating    float64
	// RateScale is severity / arrhenius factor, the multiplier applied to both rates.
	RateScale float64
}

// Adjust rescales both decay rates of p by severity / cfg.ArrheniusFactor().
// A zero rate stays zero.
func Adjust(p models.OilProfile, severity float64, cfg Config) (AdjustedProfile, error) {
	if err := validateSeverity(severity); err != nil {
		return AdjustedProfile{}, err
	}
	scale := severity / cfg.ArrheniusFactor()
	return AdjustedProfile{
		Name:              p.Name,
		Primary:           scaleTrack(p.Primary, scale),
		Secondary:         scaleTrack(p.Secondary, scale),
		SecondaryMirrored: p.SecondaryMirrored,
		SeverityRating:    severity,
		RateScale:         scale,
	}, nil
}

func scaleTrack(t models.Track, scale float64) models.Track {
	return models.Track{Amplitude: t.Amplitude, Rate: t.Rate * scale}
}

func validateSeverity(severity float64) error {
	if !(severity > 0) || math.IsInf(severity, 0) {
		return fmt.Errorf("%w: got %v", ErrInvalidSeverity, severity)
	}
	return nil
}
