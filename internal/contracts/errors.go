package contracts

import "errors"

var (
	// ErrInvalidInput marks a budget or shortlist that cannot be sized; fatal to the run
	ErrInvalidInput = errors.New("invalid input")

	// ErrInsufficientData marks a ticker with too few weekly observations; the ticker is excluded
	ErrInsufficientData = errors.New("insufficient data")
)
