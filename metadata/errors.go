package metadata

import (
	"errors"
	"fmt"
)

// Usage errors. Every one of them is a startup-time programming or
// ordering defect; none is recovered internally.
var (
	// ErrUnsetAttribute is returned when a derived attribute is read
	// before the engine has set it.
	ErrUnsetAttribute = errors.New("derived attribute not set")

	// ErrAlreadySet is returned when a derived attribute is set twice.
	// The first value is retained.
	ErrAlreadySet = errors.New("derived attribute already set")
)

// AttributeError names the model and derived attribute involved in a
// write-once violation.
type AttributeError struct {
	Model     string
	Attribute string
	Err       error
}

// Error implements the error interface.
func (e *AttributeError) Error() string {
	return fmt.Sprintf("model %s: attribute %s: %v", e.Model, e.Attribute, e.Err)
}

// Unwrap returns the underlying sentinel error.
func (e *AttributeError) Unwrap() error {
	return e.Err
}

func unsetError(model, attribute string) error {
	return &AttributeError{Model: model, Attribute: attribute, Err: ErrUnsetAttribute}
}

func alreadySetError(model, attribute string) error {
	return &AttributeError{Model: model, Attribute: attribute, Err: ErrAlreadySet}
}
