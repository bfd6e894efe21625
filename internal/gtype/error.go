package gtype

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidName is an error that occurs when a type is registered with
	// an empty name.
	ErrInvalidName = errors.New("invalid type name")

	// ErrTypeExists is an error that occurs when a type is registered under a
	// name that is already taken by another registered type.
	ErrTypeExists = errors.New("type name already registered")

	// ErrInvalidParent is an error that occurs when a type is registered with
	// a parent [Type] that is not known to the registry.
	ErrInvalidParent = errors.New("invalid parent type")

	// ErrAbstractType is an error that occurs when an instance of an abstract
	// [Type] is attempted to be created.
	ErrAbstractType = errors.New("cannot instantiate abstract type")
)

// ContractViolation is the value carried by a panic that signals a defect in
// how the object system is used (missing parent implementation, malformed
// instance layout, reference count underflow, ...). It is never a runtime
// condition and must not be recovered into a regular error.
type ContractViolation struct {
	Op  string
	Msg string
}

func (v *ContractViolation) Error() string {
	if v.Op == "" {
		return v.Msg
	}

	return fmt.Sprintf("%s: %s", v.Op, v.Msg)
}

// Violatef panics with a [ContractViolation] for the given operation.
func Violatef(op string, format string, args ...any) {
	panic(&ContractViolation{
		Op:  op,
		Msg: fmt.Sprintf(format, args...),
	})
}

// IsContractViolation reports whether a recovered panic value is a
// [ContractViolation].
func IsContractViolation(r any) bool {
	_, ok := r.(*ContractViolation)

	return ok
}
