package calculator

import "errors"

var (
	// ErrInvalidWindow is returned when window offsets fall outside the series
	// or select fewer than two points.
	ErrInvalidWindow = errors.New("invalid window")
	// ErrDegenerateWindow is returned when a window holds fewer than two points.
	ErrDegenerateWindow = errors.New("degenerate window")
	// ErrDivisionByZero is returned when a ratio would divide by zero.
	ErrDivisionByZero = errors.New("division by zero")
)
