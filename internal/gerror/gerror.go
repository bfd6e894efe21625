// Package gerror implements the native error object of the object system: a
// domain, a domain-specific code and a message, passed between class slots
// through error-out slots whose ownership moves to the receiver.
package gerror

import (
	"errors"
	"fmt"

	"github.com/desertwitch/gogio/internal/gtype"
)

// Quark names an error domain.
type Quark string

// Error is a native error object.
type Error struct {
	Domain  Quark
	Code    int
	Message string
}

// New returns a new [Error] with a formatted message.
func New(domain Quark, code int, format string, args ...any) *Error {
	return &Error{
		Domain:  domain,
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

func (e *Error) Error() string {
	return e.Message
}

// Matches reports whether the error belongs to the domain and has the code.
func (e *Error) Matches(domain Quark, code int) bool {
	return e != nil && e.Domain == domain && e.Code == code
}

// Is makes two errors of the same domain and code equal for [errors.Is],
// regardless of their messages.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}

	return e.Matches(t.Domain, t.Code)
}

// Copy returns an independent copy of the error.
func (e *Error) Copy() *Error {
	if e == nil {
		return nil
	}

	cp := *e

	return &cp
}

// Set stores err into an error-out slot, transferring ownership to whoever
// provided the slot. A nil slot means the caller is not interested and the
// error is dropped. Overwriting an error that is already set is a contract
// violation.
func Set(slot **Error, err *Error) {
	if slot == nil || err == nil {
		return
	}

	if *slot != nil {
		gtype.Violatef("gerror.Set", "error set over the top of a previous error (%q); new error was %q",
			(*slot).Message, err.Message)
	}

	*slot = err
}

// Take moves the error out of an error-out slot, leaving the slot empty.
func Take(slot **Error) *Error {
	if slot == nil {
		return nil
	}

	err := *slot
	*slot = nil

	return err
}

// AsError returns the slot's error as a Go error, avoiding the typed nil
// pitfall of returning a nil *Error as error.
func AsError(err *Error) error {
	if err == nil {
		return nil
	}

	return err
}

// Find returns the first [Error] in err's chain.
func Find(err error) (*Error, bool) {
	var gerr *Error
	if errors.As(err, &gerr) {
		return gerr, true
	}

	return nil, false
}
