package service

import (
	"testing"

	"flex_report/internal/catalog"
	"flex_report/internal/engine"
	"flex_report/internal/models"
)

func ptr(v float64) *float64 { return &v }

// newTestEstimator builds an estimator whose Arrhenius factor is 1, so
// catalog rates are used as-is.
func newTestEstimator(t *testing.T) *engine.Estimator {
	t.Helper()

	fluids, err := catalog.NewFluidCatalog([]catalog.FluidRecord{
		{
			Name:      "Dual",
			Primary:   models.Track{Amplitude: 100, Rate: 0.0001},
			Secondary: &models.Track{Amplitude: 100, Rate: 0.0001},
		},
		{Name: "Flat", Primary: models.Track{Amplitude: 80, Rate: 0}},
		{Name: "Spent", Primary: models.Track{Amplitude: 20, Rate: 0.0001}},
	})
	if err != nil {
		t.Fatalf("fluid catalog: %v", err)
	}
	equipment, err := catalog.NewEquipmentCatalog([]catalog.EquipmentRecord{
		{Manufacturer: "GE", Category: "Large Gas Turbine", Model: "7HA", SeverityRating: 2},
	}, map[string]float64{"Large Gas Turbine": 1.6})
	if err != nil {
		t.Fatalf("equipment catalog: %v", err)
	}

	cfg := engine.DefaultConfig()
	cfg.BaselineTempC = cfg.ReferenceTempC
	e, err := engine.NewEstimator(fluids, equipment, cfg)
	if err != nil {
		t.Fatalf("estimator: %v", err)
	}
	return e
}
