package pharm

import "errors"

// Domain errors for parameter updates.
var (
	// ErrUnknownParam indicates a parameter key outside the recognized set.
	ErrUnknownParam = errors.New("pharm: unknown parameter")

	// ErrParamBounds indicates a parameter value outside its valid range.
	ErrParamBounds = errors.New("pharm: parameter out of valid bounds")
)
