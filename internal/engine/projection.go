package engine

import "flex_report/internal/models"

// Limits on the number of points returned by Project.
const (
	MinCurvePoints = 2
	MaxCurvePoints = 500
)

// Project samples the adjusted curve at evenly spaced hours in [0, horizon].
// points is clamped to [MinCurvePoints, MaxCurvePoints].
func Project(p AdjustedProfile, horizon float64, points int) ([]models.CurvePoint, error) {
	if err := validateHours(horizon); err != nil {
		return nil, err
	}
	if points < MinCurvePoints {
		points = MinCurvePoints
	}
	if points > MaxCurvePoints {
		points = MaxCurvePoints
	}

	step := horizon / float64(points-1)
	out := make([]models.CurvePoint, 0, points)
	for i := 0; i < points; i++ {
		q := p.at(step * float64(i))
		out = append(out, models.CurvePoint{
			Hours:        q.Hours,
			PrimaryPct:   q.PrimaryPct,
			SecondaryPct: q.SecondaryPct,
			HealthIndex:  q.HealthIndex,
		})
	}
	return out, nil
}
