package engine

import (
	"fmt"
	"math"

	"flex_report/internal/models"
)

// MPC varnish potential bands (ASTM D7843 delta E).
const (
	DepositMonitorDeltaE  = 15.0
	DepositAbnormalDeltaE = 30.0
	DepositCriticalDeltaE = 40.0
)

// Deposit classes.
const (
	DepositNormal   = "normal"
	DepositMonitor  = "monitor"
	DepositAbnormal = "abnormal"
	DepositCritical = "critical"
)

// AssessDeposits classifies an MPC delta E reading.
func AssessDeposits(deltaE float64) (models.DepositAssessment, error) {
	if !(deltaE >= 0) || math.IsInf(deltaE, 0) {
		return models.DepositAssessment{}, fmt.Errorf("%w: delta_e %v must be >= 0", ErrInvalidMeasurement, deltaE)
	}
	return models.DepositAssessment{
		DeltaE:     deltaE,
		DepositPct: math.Min(deltaE, 100),
		Class:      depositClass(deltaE),
	}, nil
}

func depositClass(deltaE float64) string {
	switch {
	case deltaE < DepositMonitorDeltaE:
		return DepositNormal
	case deltaE < DepositAbnormalDeltaE:
		return DepositMonitor
	case deltaE < DepositCriticalDeltaE:
		return DepositAbnormal
	default:
		return DepositCritical
	}
}
