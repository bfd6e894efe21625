package gtype

import "slices"

// Transfer classifies who owns a value crossing a class slot boundary.
type Transfer int

const (
	// TransferNone means the callee keeps ownership, the receiver borrows
	// the value for the duration of the call only.
	TransferNone Transfer = iota

	// TransferContainer means the receiver owns the container, but not the
	// elements it holds.
	TransferContainer

	// TransferFull means ownership of the value moves to the receiver, who
	// must eventually release it.
	TransferFull
)

func (t Transfer) String() string {
	switch t {
	case TransferNone:
		return "none"
	case TransferContainer:
		return "container"
	case TransferFull:
		return "full"
	default:
		return "unknown"
	}
}

// Handle owns one reference to an [Object]. It is embedded by the typed
// wrappers of the native classes.
type Handle struct {
	obj *Object
}

// HandleFrom wraps a raw instance according to the transfer tag of the
// position it was received from. A fully transferred reference is adopted,
// any other reference is borrowed and a new one is acquired.
func HandleFrom(obj *Object, transfer Transfer) Handle {
	if obj == nil {
		return Handle{}
	}

	if transfer != TransferFull {
		obj.Ref()
	}

	return Handle{obj: obj}
}

// Object returns the raw instance without transferring ownership.
func (h *Handle) Object() *Object {
	return h.obj
}

// IsValid reports whether the handle still owns an instance.
func (h *Handle) IsValid() bool {
	return h != nil && h.obj != nil
}

// Unref releases the handle's reference. The handle is unusable afterwards.
func (h *Handle) Unref() {
	if h.obj == nil {
		return
	}

	obj := h.obj
	h.obj = nil
	obj.Unref()
}

// Steal moves the handle's reference out, for returning it through a
// position tagged [TransferFull]. The handle is unusable afterwards.
func (h *Handle) Steal() *Object {
	obj := h.obj
	h.obj = nil

	return obj
}

// ToFull returns a new reference to the instance, for passing it through a
// position tagged [TransferFull] while keeping the handle's own reference.
func (h *Handle) ToFull() *Object {
	if h.obj == nil {
		return nil
	}

	return h.obj.Ref()
}

// StringsFrom converts a string slice received through a position with the
// given transfer tag into a slice owned by the caller.
func StringsFrom(src []string, transfer Transfer) []string {
	if src == nil {
		return nil
	}

	if transfer == TransferFull {
		return src
	}

	return slices.Clone(src)
}
