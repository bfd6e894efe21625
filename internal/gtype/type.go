// Package gtype implements a dynamic single-inheritance object system: a
// registry of named types, one class structure (virtual function table) per
// type, reference-counted instances with per-layer private data, and the
// generic machinery used to extend native types with Go implementations.
package gtype

import (
	"fmt"
	"sync"
	"sync/atomic"
)

// Type identifies a registered type. The zero value is [Invalid].
type Type uint32

// Invalid is the zero [Type], it never refers to a registered type.
const Invalid Type = 0

// TypeInfo describes a type at registration time.
type TypeInfo struct {
	// Name is the unique name of the type.
	Name string

	// Abstract types have a class but cannot be instantiated.
	Abstract bool

	// NewClass builds the class structure of the type from the (already
	// initialized) class of its parent. When nil, the parent's class is
	// copied as is, meaning the type shares its parent's class layout.
	NewClass func(parent Class) Class

	// ClassInit is run exactly once, on first use of the type, after the
	// class structure was derived from the parent's class.
	ClassInit func(class Class)

	// InstanceInit is run for every new instance, after the instance
	// initializers of all ancestors.
	InstanceInit func(obj *Object)
}

type typeNode struct {
	id     Type
	name   string
	parent Type
	depth  int
	info   TypeInfo

	classOnce sync.Once
	class     Class

	instances atomic.Int64
}

type registry struct {
	sync.RWMutex
	nodes  []*typeNode
	byName map[string]Type
}

//nolint:gochecknoglobals
var types = &registry{
	byName: make(map[string]Type),
}

// Register adds a new type deriving from parent to the registry. The class
// of the type is not created until it is first needed.
func Register(parent Type, info TypeInfo) (Type, error) {
	if info.Name == "" {
		return Invalid, ErrInvalidName
	}

	types.Lock()
	defer types.Unlock()

	if _, exists := types.byName[info.Name]; exists {
		return Invalid, fmt.Errorf("(gtype) %q: %w", info.Name, ErrTypeExists)
	}

	depth := 0
	if parent != Invalid {
		pnode := types.lookup(parent)
		if pnode == nil {
			return Invalid, fmt.Errorf("(gtype) %q: %w", info.Name, ErrInvalidParent)
		}
		depth = pnode.depth + 1
	} else if info.NewClass == nil {
		return Invalid, fmt.Errorf("(gtype) %q: fundamental type without class: %w", info.Name, ErrInvalidParent)
	}

	node := &typeNode{
		id:     Type(len(types.nodes) + 1),
		name:   info.Name,
		parent: parent,
		depth:  depth,
		info:   info,
	}

	types.nodes = append(types.nodes, node)
	types.byName[info.Name] = node.id

	return node.id, nil
}

// FromName returns the registered [Type] of the given name, or [Invalid].
func FromName(name string) Type {
	types.RLock()
	defer types.RUnlock()

	return types.byName[name]
}

// lookup needs to be called with the registry lock held.
func (r *registry) lookup(t Type) *typeNode {
	if t == Invalid || int(t) > len(r.nodes) {
		return nil
	}

	return r.nodes[t-1]
}

func (t Type) node() *typeNode {
	types.RLock()
	n := types.lookup(t)
	types.RUnlock()

	if n == nil {
		Violatef("gtype", "invalid type id %d", t)
	}

	return n
}

// Name returns the registered name of the type.
func (t Type) Name() string {
	if t == Invalid {
		return "<invalid>"
	}

	return t.node().name
}

func (t Type) String() string {
	return t.Name()
}

// Parent returns the direct parent of the type, or [Invalid] for a
// fundamental type. It is looked up in the registry on every call.
func (t Type) Parent() Type {
	return t.node().parent
}

// Depth returns the number of ancestors of the type.
func (t Type) Depth() int {
	return t.node().depth
}

// IsAbstract reports whether the type was registered as abstract.
func (t Type) IsAbstract() bool {
	return t.node().info.Abstract
}

// IsA reports whether t is other or derives from it.
func (t Type) IsA(other Type) bool {
	if t == Invalid || other == Invalid {
		return false
	}

	for cur := t; cur != Invalid; cur = cur.Parent() {
		if cur == other {
			return true
		}
	}

	return false
}

// Ancestors returns the type's lineage, starting at the fundamental type and
// ending with t itself.
func (t Type) Ancestors() []Type {
	lineage := make([]Type, t.Depth()+1)
	for cur, i := t, len(lineage)-1; cur != Invalid; cur, i = cur.Parent(), i-1 {
		lineage[i] = cur
	}

	return lineage
}

// Class returns the class structure of the type, creating it on first use.
// Class creation of a type first creates the classes of all its ancestors.
func (t Type) Class() Class {
	n := t.node()
	n.classOnce.Do(func() {
		n.class = n.initClass()
	})

	return n.class
}

// InstanceCount returns the number of live (not yet finalized) instances
// whose most derived type is t.
func (t Type) InstanceCount() int64 {
	return t.node().instances.Load()
}

func (n *typeNode) initClass() Class {
	var class Class

	if n.parent == Invalid {
		class = n.info.NewClass(nil)
	} else {
		parentClass := n.parent.Class()
		if n.info.NewClass != nil {
			class = n.info.NewClass(parentClass)
		} else {
			class = parentClass.Copy()
		}
	}

	class.setType(n.id)

	if n.info.ClassInit != nil {
		n.info.ClassInit(class)
	}

	return class
}
