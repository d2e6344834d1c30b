// Package engine estimates the remaining useful life of a turbine oil.
//
// severity.go rescales a fluid's per-track decay rates for the host
// equipment: rate' = rate * severity / arrhenius, where the Arrhenius term
// re-expresses rates fitted at the reference temperature at the baseline
// operating temperature.
//
// degradation.go evaluates each track as max(A*e^(-k*h), 0) and combines the
// two into a health index (their unweighted mean).
//
// solver.go finds the hour at which the health index falls to a threshold
// by doubling a bracket and then bisecting it a fixed number of times. A
// curve that never reaches the threshold within HorizonCeilingHours yields an
// Undetermined crossing, which is a result and not an error.
//
// estimator.go ties the catalogs, severity resolution, lab-value anchoring
// and the solver together behind Estimator.Estimate.
//
// Everything here is pure and safe for concurrent use.
package engine
