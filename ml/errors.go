package ml

import "github.com/pkg/errors"

var (
	// ErrTrainingSizeMismatch is returned when a training batch has a different number of inputs
	// than outputs. The previously stored templates are left untouched.
	ErrTrainingSizeMismatch = errors.New("input/output count mismatch")

	// ErrEmptyStore is returned when predicting before any templates were stored. It is paired
	// with a zero vector of the configured output size.
	ErrEmptyStore = errors.New("no templates available")

	// ErrVectorLength is returned in strict mode when a vector does not have the declared size.
	ErrVectorLength = errors.New("vector length does not match declared size")
)
