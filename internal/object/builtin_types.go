package object

import (
	"fmt"
	"unicode/utf8"
)

// ListIterator is the explicit iterator returned by list.__iter__.
type ListIterator struct {
	list  *List
	index int
}

func (*ListIterator) Type() *Class    { return ListIterClass }
func (*ListIterator) Inspect() string { return "<list_iterator object>" }

func init() {
	StrClass.SetMethod("__getitem__", strGetItem)
	StrClass.SetMethod("__len__", strLen)

	ListClass.SetMethod("__getitem__", listGetItem)
	ListClass.SetMethod("__len__", listLen)
	ListClass.SetMethod("__iter__", listIter)

	TupleClass.SetMethod("__getitem__", tupleGetItem)
	TupleClass.SetMethod("__len__", tupleLen)

	ListIterClass.SetMethod("__iter__", returnSelf)
	ListIterClass.SetMethod("__next__", listIterNext)
	ListIterClass.SetMethod("__length_hint__", listIterLengthHint)
}

func returnSelf(c *Context, self Object, args []Object) (Object, error) {
	if err := arity(c, "__iter__", args, 0); err != nil {
		return nil, err
	}
	return self, nil
}

func arity(c *Context, name string, args []Object, want int) error {
	if len(args) != want {
		return c.NewTypeError(fmt.Sprintf("%s() takes %d arguments, got %d", name, want, len(args)))
	}
	return nil
}

func badSelf(c *Context, name string, want *Class, self Object) error {
	return c.NewTypeError(fmt.Sprintf("descriptor '%s' requires a '%s' object but received a '%s'", name, want.Name, TypeName(self)))
}

// seqIndex normalizes a subscript against a sequence of length n.
func seqIndex(c *Context, kind string, args []Object, n int) (int, error) {
	if err := arity(c, "__getitem__", args, 1); err != nil {
		return 0, err
	}
	v, ok := AsBigInt(args[0])
	if !ok {
		return 0, c.NewTypeError(fmt.Sprintf("%s indices must be integers, not %s", kind, TypeName(args[0])))
	}
	if !v.IsInt64() {
		return 0, c.NewIndexError("cannot fit 'int' into an index-sized integer")
	}
	i := v.Int64()
	if i < 0 {
		i += int64(n)
	}
	if i < 0 || i >= int64(n) {
		return 0, c.NewIndexError(kind + " index out of range")
	}
	return int(i), nil
}

func strGetItem(c *Context, self Object, args []Object) (Object, error) {
	str, ok := self.(*String)
	if !ok {
		return nil, badSelf(c, "__getitem__", StrClass, self)
	}
	runes := []rune(str.Value)
	i, err := seqIndex(c, "string", args, len(runes))
	if err != nil {
		return nil, err
	}
	return &String{Value: string(runes[i])}, nil
}

func strLen(c *Context, self Object, args []Object) (Object, error) {
	if err := arity(c, "__len__", args, 0); err != nil {
		return nil, err
	}
	str, ok := self.(*String)
	if !ok {
		return nil, badSelf(c, "__len__", StrClass, self)
	}
	return NewInt(int64(utf8.RuneCountInString(str.Value))), nil
}

func listGetItem(c *Context, self Object, args []Object) (Object, error) {
	l, ok := self.(*List)
	if !ok {
		return nil, badSelf(c, "__getitem__", ListClass, self)
	}
	i, err := seqIndex(c, "list", args, len(l.Elements))
	if err != nil {
		return nil, err
	}
	return l.Elements[i], nil
}

func listLen(c *Context, self Object, args []Object) (Object, error) {
	if err := arity(c, "__len__", args, 0); err != nil {
		return nil, err
	}
	l, ok := self.(*List)
	if !ok {
		return nil, badSelf(c, "__len__", ListClass, self)
	}
	return NewInt(int64(len(l.Elements))), nil
}

func listIter(c *Context, self Object, args []Object) (Object, error) {
	if err := arity(c, "__iter__", args, 0); err != nil {
		return nil, err
	}
	l, ok := self.(*List)
	if !ok {
		return nil, badSelf(c, "__iter__", ListClass, self)
	}
	return &ListIterator{list: l}, nil
}

func tupleGetItem(c *Context, self Object, args []Object) (Object, error) {
	t, ok := self.(*Tuple)
	if !ok {
		return nil, badSelf(c, "__getitem__", TupleClass, self)
	}
	i, err := seqIndex(c, "tuple", args, len(t.Elements))
	if err != nil {
		return nil, err
	}
	return t.Elements[i], nil
}

func tupleLen(c *Context, self Object, args []Object) (Object, error) {
	if err := arity(c, "__len__", args, 0); err != nil {
		return nil, err
	}
	t, ok := self.(*Tuple)
	if !ok {
		return nil, badSelf(c, "__len__", TupleClass, self)
	}
	return NewInt(int64(len(t.Elements))), nil
}

func listIterNext(c *Context, self Object, args []Object) (Object, error) {
	if err := arity(c, "__next__", args, 0); err != nil {
		return nil, err
	}
	it, ok := self.(*ListIterator)
	if !ok {
		return nil, badSelf(c, "__next__", ListIterClass, self)
	}
	if it.list == nil || it.index >= len(it.list.Elements) {
		it.list = nil
		return nil, c.NewStopIteration()
	}
	v := it.list.Elements[it.index]
	it.index++
	return v, nil
}

func listIterLengthHint(c *Context, self Object, args []Object) (Object, error) {
	if err := arity(c, "__length_hint__", args, 0); err != nil {
		return nil, err
	}
	it, ok := self.(*ListIterator)
	if !ok {
		return nil, badSelf(c, "__length_hint__", ListIterClass, self)
	}
	if it.list == nil {
		return NewInt(0), nil
	}
	n := len(it.list.Elements) - it.index
	if n < 0 {
		n = 0
	}
	return NewInt(int64(n)), nil
}
