package models

// Severity sources reported on an estimate.
const (
	SeverityOverride    = "override"
	SeverityEquipment   = "equipment"
	SeverityApplication = "application"
	SeverityNeutral     = "neutral"
)

// DepositAssessment reports the MPC varnish potential reading.
type DepositAssessment struct {
	DeltaE     float64 `json:"delta_e"`
	DepositPct float64 `json:"deposit_pct"` // min(delta_e, 100)
	Class      string  `json:"class"`       // normal | monitor | abnormal | critical
}

// RULEstimate is the remaining useful life computed for one request.
type RULEstimate struct {
	AnalysisID     string  `json:"analysis_id,omitempty"`
	Fluid          string  `json:"fluid"`
	ElapsedHours   float64 `json:"elapsed_hours"`
	EffectiveHours float64 `json:"effective_hours"` // differs from ElapsedHours when lab values anchor the curve
	SeverityRating float64 `json:"severity_rating"`
	SeveritySource string  `json:"severity_source"`
	ThresholdPct   float64 `json:"threshold_pct"`

	// RemainingHours is meaningless when Undetermined is set.
	RemainingHours float64 `json:"remaining_hours"`
	Undetermined   bool    `json:"undetermined"`

	CurrentHealthIndex float64 `json:"current_health_index"`
	PrimaryPct         float64 `json:"primary_pct"`
	SecondaryPct       float64 `json:"secondary_pct"`
	UsedFraction       float64 `json:"used_fraction"`

	Deposits *DepositAssessment `json:"deposits,omitempty"`
}

// Remaining returns the remaining hours and whether a finite estimate exists.
func (e RULEstimate) Remaining() (float64, bool) {
	if e.Undetermined {
		return 0, false
	}
	return e.RemainingHours, true
}

// CurvePoint is one sample of a projected degradation curve.
type CurvePoint struct {
	Hours        float64 `json:"hours"`
	PrimaryPct   float64 `json:"primary_pct"`
	SecondaryPct float64 `json:"secondary_pct"`
	HealthIndex  float64 `json:"health_index"`
}
