package montecarlo

import "errors"

// Errors reported by the engine. They are always wrapped with details, use
// errors.Is to test for them. None of them is recoverable within a request.
var (
	// ErrInvalidParameter reports malformed or out of range simulation inputs.
	ErrInvalidParameter = errors.New("invalid parameter")
	// ErrNumericOverflow reports parameters whose exponential growth would leave
	// the float64 range.
	ErrNumericOverflow = errors.New("numeric overflow")
	// ErrMissingCalibrationInput reports a request lacking the expected return
	// or the volatility, or a calibration without enough observations.
	ErrMissingCalibrationInput = errors.New("missing calibration input")
)
