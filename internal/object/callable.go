package object

// NativeMethod implements a method in Go. self is the receiver the method
// was bound to.
type NativeMethod func(c *Context, self Object, args []Object) (Object, error)

// BuiltinFunction implements a free function in Go.
type BuiltinFunction func(c *Context, args []Object) (Object, error)

// MethodDescriptor is an unbound method stored on a class.
type MethodDescriptor struct {
	Name  string
	Owner *Class
	Fn    NativeMethod
}

func (*MethodDescriptor) Type() *Class { return FunctionClass }
func (m *MethodDescriptor) Inspect() string {
	return "<method '" + m.Name + "' of '" + m.Owner.Name + "' objects>"
}

// BoundMethod is a method descriptor bound to a receiver.
type BoundMethod struct {
	Self   Object
	Method *MethodDescriptor
}

func (*BoundMethod) Type() *Class { return MethodClass }
func (b *BoundMethod) Inspect() string {
	return "<bound method " + b.Method.Owner.Name + "." + b.Method.Name + " of " + b.Self.Inspect() + ">"
}

type Builtin struct {
	Name string
	Fn   BuiltinFunction
}

func (*Builtin) Type() *Class       { return BuiltinClass }
func (b *Builtin) Inspect() string { return "<built-in function " + b.Name + ">" }
