package engine

import "math"

const (
	// BisectionIterations halves the bracket 50 times: 2^-50 of a 1e6 h
	// bracket is about 1e-9 h.
	BisectionIterations = 50
	// HorizonCeilingHours bounds bracket expansion. A curve still above the
	// threshold past this hour is reported as Undetermined.
	HorizonCeilingHours = 1e6
)

// Crossing is the solver outcome.
type Crossing struct {
	RemainingHours float64 `json:"remaining_hours"`
	// Undetermined means no crossing exists within HorizonCeilingHours;
	// RemainingHours is then zero and must not be read as "expired".
	Undetermined bool `json:"undetermined"`
	Evaluations  int  `json:"evaluations"`
}

// FindRemainingHours returns the hours left after currentHours until the
// health index of p is at or below threshold.
func FindRemainingHours(p AdjustedProfile, currentHours, threshold float64) (Crossing, error) {
	if err := validateThreshold(threshold); err != nil {
		return Crossing{}, err
	}
	if err := validateHours(currentHours); err != nil {
		return Crossing{}, err
	}
	return findCrossing(p, currentHours, threshold), nil
}

// findCrossing assumes validated inputs and a non-increasing health index.
func findCrossing(p AdjustedProfile, currentHours, threshold float64) Crossing {
	evals := 1
	if p.healthIndex(currentHours) <= threshold {
		return Crossing{Evaluations: evals}
	}

	low := currentHours
	high := currentHours + 1
	if currentHours > 0 {
		high = 2*currentHours + 1
	}
	for {
		evals++
		if p.healthIndex(high) <= threshold {
			break
		}
		if high > HorizonCeilingHours {
			return Crossing{Undetermined: true, Evaluations: evals}
		}
		low = high
		high *= 2
	}

	// healthIndex(low) > threshold >= healthIndex(high)
	for i := 0; i < BisectionIterations; i++ {
		mid := low + (high-low)/2
		evals++
		if p.healthIndex(mid) > threshold {
			low = mid
		} else {
			high = mid
		}
	}

	return Crossing{
		RemainingHours: math.Max(high-currentHours, 0),
		Evaluations:    evals,
	}
}
