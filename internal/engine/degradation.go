package engine

import "math"

// DegradationQuery is the state of a profile at a given hour.
type DegradationQuery struct {
	Hours        float64 `json:"hours"`
	PrimaryPct   float64 `json:"primary_pct"`
	SecondaryPct float64 `json:"secondary_pct"`
	HealthIndex  float64 `json:"health_index"`
}

// Evaluate returns both track percentages and the health index at hours.
func Evaluate(p AdjustedProfile, hours float64) (DegradationQuery, error) {
	if err := validateHours(hours); err != nil {
		return DegradationQuery{}, err
	}
	return p.at(hours), nil
}

func (p AdjustedProfile) at(hours float64) DegradationQuery {
	primary := trackPct(p.Primary.Amplitude, p.Primary.Rate, hours)
	secondary := trackPct(p.Secondary.Amplitude, p.Secondary.Rate, hours)
	return DegradationQuery{
		Hours:        hours,
		PrimaryPct:   primary,
		SecondaryPct: secondary,
		HealthIndex:  (primary + secondary) / 2,
	}
}

// healthIndex is the solver's hot path.
func (p AdjustedProfile) healthIndex(hours float64) float64 {
	return (trackPct(p.Primary.Amplitude, p.Primary.Rate, hours) +
		trackPct(p.Secondary.Amplitude, p.Secondary.Rate, hours)) / 2
}

func trackPct(amplitude, rate, hours float64) float64 {
	if rate == 0 {
		return math.Max(amplitude, 0)
	}
	return math.Max(amplitude*math.Exp(-rate*hours), 0)
}
