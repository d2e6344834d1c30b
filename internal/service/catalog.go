package service

import (
	"fmt"

	"flex_report/internal/engine"
	"flex_report/internal/models"
)

// DefaultCurveHorizonHours is used for curves that never reach the threshold.
const DefaultCurveHorizonHours = 100000.0

// DefaultCurvePoints is used when a curve query does not name a point count.
const DefaultCurvePoints = 50

// CurveQuery selects a projected curve. A zero HorizonHours means "a quarter
// past the threshold crossing of new oil".
type CurveQuery struct {
	Fluid        string
	Severity     engine.SeverityInput
	HorizonHours float64
	Points       int
}

// Curve is a sampled degradation curve with the settings that produced it.
type Curve struct {
	Fluid          string              `json:"fluid"`
	SeverityRating float64             `json:"severity_rating"`
	SeveritySource string              `json:"severity_source"`
	ThresholdPct   float64             `json:"threshold_pct"`
	HorizonHours   float64             `json:"horizon_hours"`
	Points         []models.CurvePoint `json:"points"`
}

type CatalogService struct {
	estimator *engine.Estimator
}

func NewCatalogService(estimator *engine.Estimator) *CatalogService {
	return &CatalogService{estimator: estimator}
}

func (s *CatalogService) Fluids() []string { return s.estimator.ListKnownFluids() }

func (s *CatalogService) Fluid(name string) (models.OilProfile, error) {
	return s.estimator.Fluid(name)
}

func (s *CatalogService) Equipment() map[string]map[string][]string {
	return s.estimator.ListKnownEquipment()
}

func (s *CatalogService) Applications() []string { return s.estimator.ListApplications() }

// Curve projects the adjusted curve of q.Fluid.
func (s *CatalogService) Curve(q CurveQuery) (Curve, error) {
	adj, source, err := s.estimator.Adjusted(q.Fluid, q.Severity)
	if err != nil {
		return Curve{}, fmt.Errorf("curve %q: %w", q.Fluid, err)
	}
	threshold := s.estimator.Config().ThresholdPct

	horizon := q.HorizonHours
	if horizon == 0 {
		horizon = DefaultCurveHorizonHours
		c, err := engine.FindRemainingHours(adj, 0, threshold)
		if err != nil {
			return Curve{}, err
		}
		if !c.Undetermined && c.RemainingHours > 0 {
			horizon = c.RemainingHours * 1.25
		}
	}

	points := q.Points
	if points == 0 {
		points = DefaultCurvePoints
	}
	pts, err := engine.Project(adj, horizon, points)
	if err != nil {
		return Curve{}, err
	}
	return Curve{
		Fluid:          adj.Name,
		SeverityRating: adj.SeverityRating,
		SeveritySource: source,
		ThresholdPct:   threshold,
		HorizonHours:   horizon,
		Points:         pts,
	}, nil
}
