package engine

import "errors"

// Input validation failures. They are raised before any model evaluation.
var (
	ErrInvalidSeverity     = errors.New("invalid severity rating: must be > 0")
	ErrInvalidElapsedHours = errors.New("invalid elapsed hours: must be >= 0")
	ErrInvalidThreshold    = errors.New("invalid threshold: must be in (0, 100]")
	ErrInvalidMeasurement  = errors.New("invalid measurement")
	ErrInvalidConfig       = errors.New("invalid engine config")
)
