package object

import (
	"fmt"
	"strings"
)

// Class is a runtime type. Method resolution walks the C3 linearization of
// its bases, so lookups are inheritance-aware.
type Class struct {
	Name  string
	Bases []*Class
	attrs map[string]Object
	mro   []*Class
}

func (*Class) Type() *Class       { return TypeClass }
func (c *Class) Inspect() string { return "<class '" + c.Name + "'>" }

var (
	BaseObjectClass = newBuiltinClass("object")
	TypeClass       = newBuiltinClass("type", BaseObjectClass)
	NoneTypeClass   = newBuiltinClass("NoneType", BaseObjectClass)
	IntClass        = newBuiltinClass("int", BaseObjectClass)
	BoolClass       = newBuiltinClass("bool", IntClass)
	FloatClass      = newBuiltinClass("float", BaseObjectClass)
	StrClass        = newBuiltinClass("str", BaseObjectClass)
	ListClass       = newBuiltinClass("list", BaseObjectClass)
	TupleClass      = newBuiltinClass("tuple", BaseObjectClass)
	ListIterClass   = newBuiltinClass("list_iterator", BaseObjectClass)
	BuiltinClass    = newBuiltinClass("builtin_function_or_method", BaseObjectClass)
	FunctionClass   = newBuiltinClass("method_descriptor", BaseObjectClass)
	MethodClass     = newBuiltinClass("method", BaseObjectClass)
)

func newBuiltinClass(name string, bases ...*Class) *Class {
	c, err := buildClass(name, bases)
	if err != nil {
		panic(err)
	}
	return c
}

// NewClass creates a class deriving from bases (object when empty).
func NewClass(name string, bases ...*Class) (*Class, error) {
	if len(bases) == 0 {
		bases = []*Class{BaseObjectClass}
	}
	return buildClass(name, bases)
}

func buildClass(name string, bases []*Class) (*Class, error) {
	c := &Class{Name: name, Bases: bases, attrs: map[string]Object{}}
	mro, err := linearize(c)
	if err != nil {
		return nil, err
	}
	c.mro = mro
	return c, nil
}

// linearize computes the C3 method resolution order of c.
func linearize(c *Class) ([]*Class, error) {
	seqs := make([][]*Class, 0, len(c.Bases)+1)
	for _, b := range c.Bases {
		seqs = append(seqs, append([]*Class(nil), b.mro...))
	}
	seqs = append(seqs, append([]*Class(nil), c.Bases...))

	out := []*Class{c}
	for {
		live := seqs[:0]
		for _, s := range seqs {
			if len(s) > 0 {
				live = append(live, s)
			}
		}
		seqs = live
		if len(seqs) == 0 {
			return out, nil
		}

		var head *Class
		for _, s := range seqs {
			if !inTail(s[0], seqs) {
				head = s[0]
				break
			}
		}
		if head == nil {
			names := make([]string, len(c.Bases))
			for i, b := range c.Bases {
				names[i] = b.Name
			}
			return nil, fmt.Errorf("cannot create a consistent method resolution order (MRO) for bases %s", strings.Join(names, ", "))
		}
		out = append(out, head)
		for i, s := range seqs {
			if s[0] == head {
				seqs[i] = s[1:]
			}
		}
	}
}

func inTail(c *Class, seqs [][]*Class) bool {
	for _, s := range seqs {
		for _, x := range s[1:] {
			if x == c {
				return true
			}
		}
	}
	return false
}

// MRO returns a copy of the method resolution order, starting with c.
func (c *Class) MRO() []*Class {
	return append([]*Class(nil), c.mro...)
}

// IsSubclass reports whether c is other or derives from it.
func (c *Class) IsSubclass(other *Class) bool {
	for _, k := range c.mro {
		if k == other {
			return true
		}
	}
	return false
}

// Lookup finds name along the MRO.
func (c *Class) Lookup(name string) (Object, bool) {
	for _, k := range c.mro {
		if v, ok := k.attrs[name]; ok {
			return v, true
		}
	}
	return nil, false
}

// SetAttr stores a class attribute. A nil value removes it.
func (c *Class) SetAttr(name string, value Object) {
	if value == nil {
		delete(c.attrs, name)
		return
	}
	c.attrs[name] = value
}

// SetMethod installs a native method on the class.
func (c *Class) SetMethod(name string, fn NativeMethod) {
	c.attrs[name] = &MethodDescriptor{Name: name, Owner: c, Fn: fn}
}
