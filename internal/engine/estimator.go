package engine

import (
	"fmt"

	"flex_report/internal/models"
)

// FluidLookup resolves fluid names to decay parameters.
type FluidLookup interface {
	Lookup(name string) (models.OilProfile, error)
	Names() []string
}

// EquipmentLookup resolves equipment and application categories to severity
// ratings.
type EquipmentLookup interface {
	Lookup(ref models.EquipmentRef) (models.EquipmentProfile, error)
	ApplicationRating(category string) (float64, error)
	Applications() []string
	Tree() map[string]map[string][]string
}

// NeutralSeverity is used when a request names no equipment, application or
// override.
const NeutralSeverity = 1.0

// SeverityInput selects the severity rating. Precedence: Override, then
// Equipment, then Application, then NeutralSeverity.
type SeverityInput struct {
	Equipment   *models.EquipmentRef `json:"equipment,omitempty"`
	Application string               `json:"application,omitempty"`
	Override    *float64             `json:"severity_override,omitempty"`
}

// Request is one remaining-life query.
type Request struct {
	Fluid        string
	ElapsedHours float64
	SeverityInput
	// ThresholdPct overrides Config.ThresholdPct when set.
	ThresholdPct *float64
	Measured     Measurements
}

// Option configures an Estimator.
type Option func(*Estimator)

// WithCrossingObserver registers fn to receive every remaining-life solver
// result. fn must be safe for concurrent use.
func WithCrossingObserver(fn func(Crossing)) Option {
	return func(e *Estimator) { e.observe = fn }
}

// Estimator answers remaining-life queries against fixed catalogs.
type Estimator struct {
	fluids    FluidLookup
	equipment EquipmentLookup
	cfg       Config
	observe   func(Crossing)
}

// NewEstimator validates cfg and returns an Estimator.
func NewEstimator(fluids FluidLookup, equipment EquipmentLookup, cfg Config, opts ...Option) (*Estimator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	e := &Estimator{fluids: fluids, equipment: equipment, cfg: cfg}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Config returns the engine configuration.
func (e *Estimator) Config() Config { return e.cfg }

// ListKnownFluids returns the fluid names in ascending order.
func (e *Estimator) ListKnownFluids() []string { return e.fluids.Names() }

// ListKnownEquipment returns manufacturer -> category -> sorted models.
func (e *Estimator) ListKnownEquipment() map[string]map[string][]string {
	return e.equipment.Tree()
}

// ListApplications returns the application categories in ascending order.
func (e *Estimator) ListApplications() []string { return e.equipment.Applications() }

// Fluid returns the unadjusted profile for name.
func (e *Estimator) Fluid(name string) (models.OilProfile, error) {
	return e.fluids.Lookup(name)
}

// ResolveSeverity picks the severity rating for in and reports its source.
func (e *Estimator) ResolveSeverity(in SeverityInput) (float64, string, error) {
	switch {
	case in.Override != nil:
		if err := validateSeverity(*in.Override); err != nil {
			return 0, "", err
		}
		return *in.Override, models.SeverityOverride, nil
	case in.Equipment != nil:
		p, err := e.equipment.Lookup(*in.Equipment)
		if err != nil {
			return 0, "", err
		}
		return p.SeverityRating, models.SeverityEquipment, nil
	case in.Application != "":
		r, err := e.equipment.ApplicationRating(in.Application)
		if err != nil {
			return 0, "", err
		}
		return r, models.SeverityApplication, nil
	default:
		return NeutralSeverity, models.SeverityNeutral, nil
	}
}

// Adjusted resolves fluid and severity into an AdjustedProfile.
func (e *Estimator) Adjusted(fluid string, in SeverityInput) (AdjustedProfile, string, error) {
	if in.Override != nil {
		if err := validateSeverity(*in.Override); err != nil {
			return AdjustedProfile{}, "", err
		}
	}
	profile, err := e.fluids.Lookup(fluid)
	if err != nil {
		return AdjustedProfile{}, "", err
	}
	severity, source, err := e.ResolveSeverity(in)
	if err != nil {
		return AdjustedProfile{}, "", err
	}
	adj, err := Adjust(profile, severity, e.cfg)
	if err != nil {
		return AdjustedProfile{}, "", err
	}
	return adj, source, nil
}

// Estimate computes the remaining useful life for req. Input errors are
// returned before any model evaluation. A curve that never reaches the
// threshold within the horizon yields Undetermined=true and a nil error.
func (e *Estimator) Estimate(req Request) (models.RULEstimate, error) {
	threshold := e.cfg.ThresholdPct
	if req.ThresholdPct != nil {
		threshold = *req.ThresholdPct
	}
	if err := validateHours(req.ElapsedHours); err != nil {
		return models.RULEstimate{}, err
	}
	if err := validateThreshold(threshold); err != nil {
		return models.RULEstimate{}, err
	}
	if err := req.Measured.validate(); err != nil {
		return models.RULEstimate{}, err
	}

	adj, source, err := e.Adjusted(req.Fluid, req.SeverityInput)
	if err != nil {
		return models.RULEstimate{}, fmt.Errorf("estimate %q: %w", req.Fluid, err)
	}

	current := adj.at(req.ElapsedHours)
	effective := req.ElapsedHours
	if req.Measured.anchored() {
		current = measuredQuery(adj, current, req.Measured)
		effective = anchorAge(adj, current.HealthIndex, req.ElapsedHours)
	}

	var crossing Crossing
	if current.HealthIndex > threshold {
		crossing = findCrossing(adj, effective, threshold)
	}
	if e.observe != nil {
		e.observe(crossing)
	}

	out := models.RULEstimate{
		Fluid:              adj.Name,
		ElapsedHours:       req.ElapsedHours,
		EffectiveHours:     effective,
		SeverityRating:     adj.SeverityRating,
		SeveritySource:     source,
		ThresholdPct:       threshold,
		RemainingHours:     crossing.RemainingHours,
		Undetermined:       crossing.Undetermined,
		CurrentHealthIndex: current.HealthIndex,
		PrimaryPct:         current.PrimaryPct,
		SecondaryPct:       current.SecondaryPct,
		UsedFraction:       usedFraction(effective, crossing),
	}
	if req.Measured.DeltaE != nil {
		d, err := AssessDeposits(*req.Measured.DeltaE)
		if err != nil {
			return models.RULEstimate{}, err
		}
		out.Deposits = &d
	}
	return out, nil
}

func usedFraction(elapsed float64, c Crossing) float64 {
	if c.Undetermined {
		return 0
	}
	total := elapsed + c.RemainingHours
	if total <= 0 {
		return 1
	}
	return elapsed / total
}
