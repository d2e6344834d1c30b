package engine

import (
	"fmt"
	"math"
)

// GasConstant is R in J/(mol*K).
const GasConstant = 8.314

const kelvinOffset = 273.15

// Defaults for Config.
const (
	DefaultReferenceTempC       = 120.0
	DefaultBaselineTempC        = 55.0
	DefaultActivationEnergyJmol = 90000.0
	DefaultThresholdPct         = 25.0
)

// Config carries the tunable constants of the severity correction and the
// default end-of-life threshold.
type Config struct {
	ReferenceTempC       float64 // temperature the catalog rates were fitted at
	BaselineTempC        float64 // nominal operating temperature
	ActivationEnergyJmol float64
	ThresholdPct         float64 // health index at end of useful life
}

// DefaultConfig returns the reference configuration.
func DefaultConfig() Config {
	return Config{
		ReferenceTempC:       DefaultReferenceTempC,
		BaselineTempC:        DefaultBaselineTempC,
		ActivationEnergyJmol: DefaultActivationEnergyJmol,
		ThresholdPct:         DefaultThresholdPct,
	}
}

// Validate checks that temperatures are above absolute zero, the activation
// energy is non-negative and the threshold is in (0, 100].
func (c Config) Validate() error {
	for _, t := range []struct {
		name string
		v    float64
	}{{"reference_temp_c", c.ReferenceTempC}, {"baseline_temp_c", c.BaselineTempC}} {
		if !(t.v > -kelvinOffset) || math.IsInf(t.v, 0) {
			return fmt.Errorf("%w: %s %v", ErrInvalidConfig, t.name, t.v)
		}
	}
	if !(c.ActivationEnergyJmol >= 0) || math.IsInf(c.ActivationEnergyJmol, 0) {
		return fmt.Errorf("%w: activation_energy_j_mol %v", ErrInvalidConfig, c.ActivationEnergyJmol)
	}
	if err := validateThreshold(c.ThresholdPct); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return nil
}

// ArrheniusFactor is exp((Ea/R) * (1/Tb - 1/Tr)) with temperatures in kelvin.
// It is > 1 when the baseline is cooler than the reference.
func (c Config) ArrheniusFactor() float64 {
	tb := c.BaselineTempC + kelvinOffset
	tr := c.ReferenceTempC + kelvinOffset
	return math.Exp((c.ActivationEnergyJmol / GasConstant) * (1/tb - 1/tr))
}

func validateThreshold(threshold float64) error {
	if !(threshold > 0 && threshold <= 100) {
		return fmt.Errorf("%w: got %v", ErrInvalidThreshold, threshold)
	}
	return nil
}

func validateHours(hours float64) error {
	if !(hours >= 0) || math.IsInf(hours, 0) {
		return fmt.Errorf("%w: got %v", ErrInvalidElapsedHours, hours)
	}
	return nil
}
