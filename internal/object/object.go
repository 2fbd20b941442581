package object

import (
	"math/big"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// Object is a shared handle to any runtime value. Its dynamic type drives
// method resolution.
type Object interface {
	Type() *Class
	Inspect() string
}

// TypeName returns the name of obj's dynamic type, for error messages.
func TypeName(obj Object) string {
	if obj == nil {
		return "NULL"
	}
	return obj.Type().Name
}

type Nil struct{}

// None is the canonical "no value" singleton.
var None = &Nil{}

func (*Nil) Type() *Class    { return NoneTypeClass }
func (*Nil) Inspect() string { return "None" }

type Boolean struct{ Value bool }

var (
	True  = &Boolean{Value: true}
	False = &Boolean{Value: false}
)

func NativeBool(b bool) *Boolean {
	if b {
		return True
	}
	return False
}

func (*Boolean) Type() *Class { return BoolClass }
func (b *Boolean) Inspect() string {
	if b.Value {
		return "True"
	}
	return "False"
}

// Integer is an arbitrary precision int. The Value must not be mutated once
// the Integer is shared.
type Integer struct{ Value *big.Int }

func NewInt(n int64) *Integer {
	return &Integer{Value: big.NewInt(n)}
}

func NewBigInt(n *big.Int) *Integer {
	return &Integer{Value: new(big.Int).Set(n)}
}

func (*Integer) Type() *Class       { return IntClass }
func (i *Integer) Inspect() string { return i.Value.String() }

// AsBigInt reports the integer value of obj. bool counts as int.
func AsBigInt(obj Object) (*big.Int, bool) {
	switch v := obj.(type) {
	case *Integer:
		return v.Value, true
	case *Boolean:
		if v.Value {
			return big.NewInt(1), true
		}
		return big.NewInt(0), true
	}
	return nil, false
}

type Float struct{ Value float64 }

func (*Float) Type() *Class { return FloatClass }
func (f *Float) Inspect() string {
	return strconv.FormatFloat(f.Value, 'g', -1, 64)
}

type String struct{ Value string }

func (*String) Type() *Class       { return StrClass }
func (s *String) Inspect() string { return s.Value }

type List struct {
	Elements []Object
}

func (*List) Type() *Class { return ListClass }
func (l *List) Inspect() string {
	return "[" + joinInspect(l.Elements) + "]"
}

type Tuple struct {
	Elements []Object
}

func (*Tuple) Type() *Class { return TupleClass }
func (t *Tuple) Inspect() string {
	if len(t.Elements) == 1 {
		return "(" + t.Elements[0].Inspect() + ",)"
	}
	return "(" + joinInspect(t.Elements) + ")"
}

func joinInspect(elems []Object) string {
	var out strings.Builder
	for i, el := range elems {
		if i > 0 {
			out.WriteString(", ")
		}
		if s, ok := el.(*String); ok {
			out.WriteString(strconv.Quote(s.Value))
			continue
		}
		out.WriteString(el.Inspect())
	}
	return out.String()
}

// Instance is a value of a user-defined class.
type Instance struct {
	class *Class
	attrs map[string]Object
	id    uuid.UUID
}

func NewInstance(class *Class) *Instance {
	return &Instance{class: class, attrs: map[string]Object{}, id: uuid.New()}
}

func (i *Instance) Type() *Class { return i.class }
func (i *Instance) Inspect() string {
	return "<" + i.class.Name + " object " + i.id.String()[:8] + ">"
}

// ID is the identity of the instance for its whole lifetime.
func (i *Instance) ID() uuid.UUID { return i.id }
