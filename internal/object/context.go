package object

import (
	"errors"
	"fmt"

	"iterproto/internal/limits"
)

// Context is the execution context: it owns the type and exception
// registries and performs method lookup, invocation and error construction.
// A Context and the objects it drives belong to a single goroutine.
type Context struct {
	Exceptions *ExceptionClasses

	types   map[string]*Class
	globals *Environment
	budget  *limits.Budget
}

func NewContext() *Context {
	c := &Context{
		Exceptions: defaultExceptions(),
		types:      map[string]*Class{},
		globals:    NewEnvironment(),
	}
	for _, cls := range []*Class{
		BaseObjectClass, TypeClass, NoneTypeClass, IntClass, BoolClass, FloatClass,
		StrClass, ListClass, TupleClass, ListIterClass, BuiltinClass, FunctionClass, MethodClass,
	} {
		c.RegisterType(cls)
	}
	for _, cls := range c.Exceptions.all() {
		c.RegisterType(cls)
	}
	return c
}

// SetMaxMemory bounds the bytes Charge accepts. Zero means unlimited.
func (c *Context) SetMaxMemory(limit int64) {
	c.budget = limits.NewBudget(limit)
}

// Charge accounts n bytes against the memory budget, failing with a
// MemoryError once it is exhausted.
func (c *Context) Charge(n int64) error {
	if err := c.budget.Charge(n); err != nil {
		var memErr limits.MaxMemoryError
		if errors.As(err, &memErr) {
			return c.NewException(c.Exceptions.MemoryError, &String{Value: memErr.Error()})
		}
		return err
	}
	return nil
}

// Alloc charges the retained size of obj, as estimated by CostOf.
func (c *Context) Alloc(obj Object) error {
	return c.Charge(CostOf(obj))
}

// Release returns n previously charged bytes to the budget.
func (c *Context) Release(n int64) {
	c.budget.Release(n)
}

func (c *Context) MemoryUsed() int64 {
	return c.budget.Used()
}

// RegisterType makes cls visible by name through LookupType. Registering a
// second class under the same name replaces the first.
func (c *Context) RegisterType(cls *Class) {
	c.types[cls.Name] = cls
}

func (c *Context) LookupType(name string) (*Class, bool) {
	cls, ok := c.types[name]
	return cls, ok
}

// Globals is the namespace builtins and scenario values are installed into.
func (c *Context) Globals() *Environment {
	return c.globals
}

// GetMethod resolves name on obj's dynamic type and binds it to obj.
func (c *Context) GetMethod(obj Object, name string) (Object, bool) {
	attr, ok := obj.Type().Lookup(name)
	if !ok {
		return nil, false
	}
	if desc, ok := attr.(*MethodDescriptor); ok {
		return &BoundMethod{Self: obj, Method: desc}, true
	}
	return attr, true
}

// Invoke calls fn with args. A nil result from a native implementation reads
// back as None.
func (c *Context) Invoke(fn Object, args ...Object) (Object, error) {
	var (
		res Object
		err error
	)
	switch f := fn.(type) {
	case *BoundMethod:
		res, err = f.Method.Fn(c, f.Self, args)
	case *Builtin:
		res, err = f.Fn(c, args)
	case *MethodDescriptor:
		if len(args) == 0 {
			return nil, c.NewTypeError(fmt.Sprintf("descriptor '%s' of '%s' object needs an argument", f.Name, f.Owner.Name))
		}
		res, err = f.Fn(c, args[0], args[1:])
	default:
		call, ok := c.GetMethod(fn, "__call__")
		if !ok {
			return nil, c.NewTypeError(fmt.Sprintf("'%s' object is not callable", TypeName(fn)))
		}
		return c.Invoke(call, args...)
	}
	if err != nil {
		return nil, err
	}
	if res == nil {
		return None, nil
	}
	return res, nil
}

// CallMethod looks up name on obj and invokes it, failing with an
// AttributeError when the method does not resolve.
func (c *Context) CallMethod(obj Object, name string, args ...Object) (Object, error) {
	m, ok := c.GetMethod(obj, name)
	if !ok {
		return nil, c.NewAttributeError(fmt.Sprintf("'%s' object has no attribute '%s'", TypeName(obj), name))
	}
	return c.Invoke(m, args...)
}

// IsInstance reports whether obj's dynamic type is cls or a subclass of it.
func (c *Context) IsInstance(obj Object, cls *Class) bool {
	return obj != nil && obj.Type().IsSubclass(cls)
}

// Matches reports whether err is a runtime exception that is an instance of
// cls. Host errors never match.
func (c *Context) Matches(err error, cls *Class) bool {
	var exc *Exception
	if !errors.As(err, &exc) {
		return false
	}
	return c.IsInstance(exc, cls)
}

func (c *Context) NewException(cls *Class, args ...Object) *Exception {
	return &Exception{class: cls, Args: args}
}

func (c *Context) newMessageError(cls *Class, msg string) *Exception {
	return c.NewException(cls, &String{Value: msg})
}

func (c *Context) NewTypeError(msg string) *Exception {
	return c.newMessageError(c.Exceptions.TypeError, msg)
}

func (c *Context) NewValueError(msg string) *Exception {
	return c.newMessageError(c.Exceptions.ValueError, msg)
}

func (c *Context) NewIndexError(msg string) *Exception {
	return c.newMessageError(c.Exceptions.IndexError, msg)
}

func (c *Context) NewOverflowError(msg string) *Exception {
	return c.newMessageError(c.Exceptions.OverflowError, msg)
}

func (c *Context) NewAttributeError(msg string) *Exception {
	return c.newMessageError(c.Exceptions.AttributeError, msg)
}

// NewStopIteration builds the exhaustion signal, optionally carrying a
// single payload value.
func (c *Context) NewStopIteration(payload ...Object) *Exception {
	return c.NewException(c.Exceptions.StopIteration, payload...)
}

func (c *Context) NewInt(n int64) *Integer { return NewInt(n) }

func (c *Context) NewStr(s string) *String { return &String{Value: s} }

func (c *Context) NewList(elems []Object) *List { return &List{Elements: elems} }

func (c *Context) NewTuple(elems []Object) *Tuple { return &Tuple{Elements: elems} }
