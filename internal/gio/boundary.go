package gio

import (
	"github.com/desertwitch/gogio/internal/gerror"
	"github.com/desertwitch/gogio/internal/gtype"
)

// objectResult applies the error channel convention to the result of a slot
// returning an object through a full transfer: a value and an error are
// mutually exclusive, and unless optional, one of them must be present.
func objectResult(op string, res *gtype.Object, gerr *gerror.Error, optional bool) (*gtype.Object, error) {
	switch {
	case res != nil && gerr != nil:
		res.Unref()
		gtype.Violatef(op, "returned a value and set an error (%q)", gerr.Message)
	case gerr != nil:
		return nil, gerr
	case res == nil && !optional:
		gtype.Violatef(op, "returned no value without setting an error")
	}

	return res, nil
}

// boolResult applies the error channel convention to the result of a slot
// returning a success flag.
func boolResult(op string, ok bool, gerr *gerror.Error) error {
	switch {
	case ok && gerr != nil:
		gtype.Violatef(op, "returned success and set an error (%q)", gerr.Message)
	case !ok && gerr == nil:
		gtype.Violatef(op, "returned failure without setting an error")
	case !ok:
		return gerr
	}

	return nil
}

// requireObject treats a nil instance received from a slot without error
// channel as a contract violation.
func requireObject(op string, obj *gtype.Object) *gtype.Object {
	if obj == nil {
		gtype.Violatef(op, "returned no value")
	}

	return obj
}
