package engine

import (
	"errors"
	"math"
	"sync"
	"testing"

	"flex_report/internal/catalog"
	"flex_report/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr(v float64) *float64 { return &v }

func testCatalogs(t *testing.T) (*catalog.FluidCatalog, *catalog.EquipmentCatalog) {
	t.Helper()
	fluids, err := catalog.NewFluidCatalog([]catalog.FluidRecord{
		{Name: "Reference", Primary: models.Track{Amplitude: 100, Rate: 0.0001}},
		{
			Name:      "Dual",
			Primary:   models.Track{Amplitude: 100, Rate: 0.0001},
			Secondary: &models.Track{Amplitude: 100, Rate: 0.0001},
		},
		{Name: "Flat", Primary: models.Track{Amplitude: 80, Rate: 0}},
		{Name: "Spent", Primary: models.Track{Amplitude: 20, Rate: 0.0001}},
	})
	require.NoError(t, err)

	equipment, err := catalog.NewEquipmentCatalog([]catalog.EquipmentRecord{
		{Manufacturer: "GE", Category: "Large Gas Turbine", Model: "7HA", SeverityRating: 2},
	}, map[string]float64{"Large Gas Turbine": 1.6, "Small Steam Turbine": 0.8})
	require.NoError(t, err)
	return fluids, equipment
}

func newTestEstimator(t *testing.T, cfg Config, opts ...Option) *Estimator {
	t.Helper()
	fluids, equipment := testCatalogs(t)
	e, err := NewEstimator(fluids, equipment, cfg, opts...)
	require.NoError(t, err)
	return e
}

func TestEstimate_ReferenceScenarioWithDefaults(t *testing.T) {
	cfg := DefaultConfig()
	fluids, err := catalog.NewFluidCatalog([]catalog.FluidRecord{{
		Name:    "Lab fitted",
		Primary: models.Track{Amplitude: 100, Rate: 0.0001 * cfg.ArrheniusFactor()},
	}})
	require.NoError(t, err)
	_, equipment := testCatalogs(t)
	e, err := NewEstimator(fluids, equipment, cfg)
	require.NoError(t, err)

	got, err := e.Estimate(Request{
		Fluid:         "Lab fitted",
		SeverityInput: SeverityInput{Override: ptr(1)},
	})
	require.NoError(t, err)
	assert.InDelta(t, 13862.9, got.RemainingHours, 50)
	assert.Equal(t, models.SeverityOverride, got.SeveritySource)
	assert.Equal(t, 25.0, got.ThresholdPct)
	assert.Equal(t, 0.0, got.UsedFraction)
}

func TestEstimate_UsedFraction(t *testing.T) {
	e := newTestEstimator(t, unitConfig())

	got, err := e.Estimate(Request{Fluid: "Dual", ElapsedHours: 5000})
	require.NoError(t, err)
	total := math.Log(4) / 0.0001
	assert.InDelta(t, total-5000, got.RemainingHours, 1e-3)
	assert.InDelta(t, 5000/total, got.UsedFraction, 1e-6)
	assert.InDelta(t, 100*math.Exp(-0.5), got.CurrentHealthIndex, 1e-9)
	assert.Equal(t, got.ElapsedHours, got.EffectiveHours)
}

func TestEstimate_AlreadyExpired(t *testing.T) {
	e := newTestEstimator(t, unitConfig())

	got, err := e.Estimate(Request{Fluid: "Spent"})
	require.NoError(t, err)
	rem, ok := got.Remaining()
	assert.True(t, ok)
	assert.Equal(t, 0.0, rem)
	assert.Equal(t, 1.0, got.UsedFraction)
}

func TestEstimate_FlatCurveUndetermined(t *testing.T) {
	e := newTestEstimator(t, unitConfig())

	got, err := e.Estimate(Request{Fluid: "Flat", ElapsedHours: 100})
	require.NoError(t, err)
	assert.True(t, got.Undetermined)
	_, ok := got.Remaining()
	assert.False(t, ok)
	assert.Equal(t, 0.0, got.UsedFraction)
}

func TestEstimate_SeverityPrecedence(t *testing.T) {
	e := newTestEstimator(t, unitConfig())
	ge := &models.EquipmentRef{Manufacturer: "GE", Category: "Large Gas Turbine", Model: "7HA"}

	cases := []struct {
		name   string
		in     SeverityInput
		rating float64
		source string
	}{
		{"neutral", SeverityInput{}, NeutralSeverity, models.SeverityNeutral},
		{"application", SeverityInput{Application: "Small Steam Turbine"}, 0.8, models.SeverityApplication},
		{"equipment beats application", SeverityInput{Equipment: ge, Application: "Small Steam Turbine"}, 2, models.SeverityEquipment},
		{"override beats all", SeverityInput{Equipment: ge, Application: "Small Steam Turbine", Override: ptr(3)}, 3, models.SeverityOverride},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := e.Estimate(Request{Fluid: "Dual", SeverityInput: tc.in})
			require.NoError(t, err)
			assert.Equal(t, tc.rating, got.SeverityRating)
			assert.Equal(t, tc.source, got.SeveritySource)
			assert.InDelta(t, math.Log(4)/(0.0001*tc.rating), got.RemainingHours, 1e-3)
		})
	}
}

func TestEstimate_ValidationErrors(t *testing.T) {
	e := newTestEstimator(t, unitConfig())

	cases := []struct {
		name string
		req  Request
		want error
	}{
		{"negative hours before unknown fluid", Request{Fluid: "nope", ElapsedHours: -1}, ErrInvalidElapsedHours},
		{"threshold zero", Request{Fluid: "Dual", ThresholdPct: ptr(0)}, ErrInvalidThreshold},
		{"threshold above 100", Request{Fluid: "Dual", ThresholdPct: ptr(101)}, ErrInvalidThreshold},
		{"override zero before unknown fluid", Request{Fluid: "nope", SeverityInput: SeverityInput{Override: ptr(0)}}, ErrInvalidSeverity},
		{"rpvot out of range", Request{Fluid: "Dual", Measured: Measurements{RPVOTPct: ptr(250)}}, ErrInvalidMeasurement},
		{"aminic negative", Request{Fluid: "Dual", Measured: Measurements{AminicPct: ptr(-1)}}, ErrInvalidMeasurement},
		{"delta e negative", Request{Fluid: "Dual", Measured: Measurements{DeltaE: ptr(-2)}}, ErrInvalidMeasurement},
		{"unknown fluid", Request{Fluid: "nope"}, catalog.ErrUnknownFluid},
		{"unknown equipment", Request{Fluid: "Dual", SeverityInput: SeverityInput{
			Equipment: &models.EquipmentRef{Manufacturer: "X", Category: "Y", Model: "Z"},
		}}, catalog.ErrUnknownEquipment},
		{"unknown application", Request{Fluid: "Dual", SeverityInput: SeverityInput{Application: "Hydro"}}, catalog.ErrUnknownApplication},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := e.Estimate(tc.req)
			assert.True(t, errors.Is(err, tc.want), "got %v, want %v", err, tc.want)
		})
	}
}

func TestEstimate_MeasuredValuesAnchorTheCurve(t *testing.T) {
	e := newTestEstimator(t, unitConfig())

	// Nameplate hours say new oil, lab says half depleted.
	got, err := e.Estimate(Request{
		Fluid:    "Dual",
		Measured: Measurements{RPVOTPct: ptr(50), AminicPct: ptr(50)},
	})
	require.NoError(t, err)
	assert.Equal(t, 0.0, got.ElapsedHours)
	assert.InDelta(t, math.Log(2)/0.0001, got.EffectiveHours, 1e-3)
	assert.InDelta(t, math.Log(2)/0.0001, got.RemainingHours, 1e-3)
	assert.InDelta(t, 50, got.CurrentHealthIndex, 1e-12)
	assert.InDelta(t, 0.5, got.UsedFraction, 1e-6)
}

func TestEstimate_PartialMeasurementUsesModelForMissingTrack(t *testing.T) {
	e := newTestEstimator(t, unitConfig())

	got, err := e.Estimate(Request{
		Fluid:        "Dual",
		ElapsedHours: 0,
		Measured:     Measurements{RPVOTPct: ptr(50)},
	})
	require.NoError(t, err)
	assert.Equal(t, 50.0, got.PrimaryPct)
	assert.Equal(t, 100.0, got.SecondaryPct)
	assert.Equal(t, 75.0, got.CurrentHealthIndex)
	assert.InDelta(t, math.Log(100.0/75)/0.0001, got.EffectiveHours, 1e-3)
}

func TestEstimate_MirroredFluidIgnoresAminic(t *testing.T) {
	e := newTestEstimator(t, unitConfig())

	got, err := e.Estimate(Request{
		Fluid:    "Reference",
		Measured: Measurements{AminicPct: ptr(10)},
	})
	require.NoError(t, err)
	assert.Equal(t, 100.0, got.CurrentHealthIndex)
	assert.Equal(t, 0.0, got.EffectiveHours)
}

func TestEstimate_MeasuredBelowThresholdIsExpired(t *testing.T) {
	e := newTestEstimator(t, unitConfig())

	got, err := e.Estimate(Request{
		Fluid:        "Flat",
		ElapsedHours: 4000,
		Measured:     Measurements{RPVOTPct: ptr(10)},
	})
	require.NoError(t, err)
	assert.False(t, got.Undetermined)
	assert.Equal(t, 0.0, got.RemainingHours)
	assert.Equal(t, 4000.0, got.EffectiveHours, "flat curve keeps nameplate hours")
}

func TestEstimate_Deposits(t *testing.T) {
	e := newTestEstimator(t, unitConfig())

	got, err := e.Estimate(Request{Fluid: "Dual", Measured: Measurements{DeltaE: ptr(33)}})
	require.NoError(t, err)
	require.NotNil(t, got.Deposits)
	assert.Equal(t, DepositAbnormal, got.Deposits.Class)
	assert.Equal(t, 0.0, got.EffectiveHours, "delta E does not anchor age")
}

func TestEstimate_ObserverAndConcurrency(t *testing.T) {
	var (
		mu    sync.Mutex
		calls int
	)
	e := newTestEstimator(t, unitConfig(), WithCrossingObserver(func(Crossing) {
		mu.Lock()
		calls++
		mu.Unlock()
	}))

	want, err := e.Estimate(Request{Fluid: "Dual", ElapsedHours: 1234})
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got, err := e.Estimate(Request{Fluid: "Dual", ElapsedHours: 1234})
			assert.NoError(t, err)
			assert.Equal(t, want, got)
		}()
	}
	wg.Wait()
	assert.Equal(t, 33, calls)
}

func TestEstimator_Listings(t *testing.T) {
	e := newTestEstimator(t, DefaultConfig())

	assert.Equal(t, []string{"Dual", "Flat", "Reference", "Spent"}, e.ListKnownFluids())
	assert.Equal(t, []string{"7HA"}, e.ListKnownEquipment()["GE"]["Large Gas Turbine"])
	assert.Equal(t, []string{"Large Gas Turbine", "Small Steam Turbine"}, e.ListApplications())
}

func TestNewEstimator_RejectsBadConfig(t *testing.T) {
	fluids, equipment := testCatalogs(t)
	cfg := DefaultConfig()
	cfg.ThresholdPct = 150
	_, err := NewEstimator(fluids, equipment, cfg)
	assert.True(t, errors.Is(err, ErrInvalidConfig))
}
