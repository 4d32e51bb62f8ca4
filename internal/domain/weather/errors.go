package weather

import "errors"

var (
	ErrUnknownType     = errors.New("unknown weather type")
	ErrUnknownSeverity = errors.New("unknown weather severity")
	ErrInvalidWindow   = errors.New("weather end_time must be after start_time")
	ErrInvalidDelay    = errors.New("weather delay factor must be at least 1.0")
	ErrEmptyUniverse   = errors.New("no planets to bound a weather region")
)
