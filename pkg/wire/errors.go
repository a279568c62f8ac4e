package wire

import (
	"k8s.io/apimachinery/pkg/util/validation/field"
)

// InputError reports malformed wire input with one entry per offending field
type InputError struct {
	errs  field.ErrorList
	cause error
}

func newInputError(errs field.ErrorList) *InputError {
	return &InputError{errs: errs}
}

func (e *InputError) Error() string {
	return e.errs.ToAggregate().Error()
}

// Fields returns the individual field errors
func (e *InputError) Fields() field.ErrorList {
	return e.errs
}

// Unwrap returns the reader or decoder error behind a body failure, if any
func (e *InputError) Unwrap() error {
	return e.cause
}
