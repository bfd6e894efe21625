// Package subclass lets Go types extend the native file enumerator, file
// monitor and vfs classes. Each overridable class has an interface listing
// its virtual methods and an embeddable base struct whose methods delegate
// to the parent class, so a subclass overrides exactly the methods it
// defines. Registering a subclass installs, at class initialization, one
// trampoline per virtual method into the class structure; the trampolines
// dispatch native calls into the Go implementation and translate results,
// ownership and errors back.
package subclass

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/desertwitch/gogio/internal/gerror"
	"github.com/desertwitch/gogio/internal/gio"
	"github.com/desertwitch/gogio/internal/gtype"
)

// ErrIncompatibleParent is returned when registering a subclass of a type
// that does not provide the class being extended.
var ErrIncompatibleParent = errors.New("parent type does not derive from the extended class")

func checkParent(parent, base gtype.Type, name string) error {
	if parent == gtype.Invalid || !parent.IsA(base) {
		return fmt.Errorf("(subclass) %q: %s is not a %s: %w", name, parent, base, ErrIncompatibleParent)
	}

	return nil
}

// missingParent reports a parent class without an implementation of a
// virtual method.
func missingParent(slot string) {
	gtype.Violatef("subclass", "no parent class implementation for %q", slot)
}

// setError moves a Go error into a native error slot.
func setError(errOut **gerror.Error, err error) {
	gerror.Set(errOut, gio.ErrorFrom(err))
}

// recoverToError is deferred by trampolines of methods with an error
// channel. A panic in the override becomes a failure of the operation;
// fail resets the trampoline's result to the failure sentinel.
func recoverToError(op string, errOut **gerror.Error, fail func()) {
	r := recover()
	if r == nil {
		return
	}

	if gtype.IsContractViolation(r) {
		panic(r)
	}

	slog.Error("Override panicked, failing the operation.", "op", op, "panic", r)

	fail()
	gerror.Set(errOut, gio.NewIOError(gio.IOErrorFailed, "%s: override panicked: %v", op, r))
}

// recoverToViolation is deferred by trampolines of methods without an error
// channel, where a panic in the override cannot be reported to the caller.
func recoverToViolation(op string) {
	r := recover()
	if r == nil {
		return
	}

	if gtype.IsContractViolation(r) {
		panic(r)
	}

	slog.Error("Override panicked without an error channel.", "op", op, "panic", r)

	gtype.Violatef(op, "override panicked: %v", r)
}

// objectFromParent applies the error channel convention to the result of a
// parent slot returning an object.
func objectFromParent(op string, res *gtype.Object, gerr *gerror.Error) (*gtype.Object, error) {
	if res != nil && gerr != nil {
		res.Unref()
		gtype.Violatef(op, "parent returned a value and set an error (%q)", gerr.Message)
	}

	return res, gerror.AsError(gerr)
}
