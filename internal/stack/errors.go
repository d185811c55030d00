package stack

import "errors"

var (
	// ErrForwardReference is returned when a resource depends on a resource
	// that has not been registered yet.
	ErrForwardReference = errors.New("dependency is not registered before its dependent")

	// ErrDuplicate is returned when a resource name is registered twice.
	ErrDuplicate = errors.New("resource is already registered")
)
