// Package builtins exposes the iteration layer to runtime code as builtin
// functions.
package builtins

import (
	"fmt"

	"iterproto/internal/iterate"
	"iterproto/internal/object"
)

var table = []*object.Builtin{
	{Name: "iter", Fn: builtinIter},
	{Name: "next", Fn: builtinNext},
	{Name: "len", Fn: builtinLen},
	{Name: "list", Fn: builtinList},
	{Name: "tuple", Fn: builtinTuple},
	{Name: "reversed", Fn: builtinReversed},
	{Name: "length_hint", Fn: builtinLengthHint},
}

// Install registers the iteration types and binds the builtin functions in
// the globals of c.
func Install(c *object.Context) {
	iterate.Install(c)
	for _, b := range table {
		c.Globals().Set(b.Name, b)
	}
}

// Names lists the installed builtins in declaration order.
func Names() []string {
	out := make([]string, len(table))
	for i, b := range table {
		out[i] = b.Name
	}
	return out
}

func argCount(c *object.Context, name string, args []object.Object, lo, hi int) error {
	if len(args) < lo || len(args) > hi {
		if lo == hi {
			return c.NewTypeError(fmt.Sprintf("%s() takes exactly %d argument(s) (%d given)", name, lo, len(args)))
		}
		return c.NewTypeError(fmt.Sprintf("%s() takes %d to %d arguments (%d given)", name, lo, hi, len(args)))
	}
	return nil
}

func builtinIter(c *object.Context, args []object.Object) (object.Object, error) {
	if err := argCount(c, "iter", args, 1, 1); err != nil {
		return nil, err
	}
	return iterate.GetIter(c, args[0])
}

func builtinNext(c *object.Context, args []object.Object) (object.Object, error) {
	if err := argCount(c, "next", args, 1, 2); err != nil {
		return nil, err
	}
	if len(args) == 1 {
		return iterate.CallNext(c, args[0])
	}
	v, ok, err := iterate.Next(c, args[0])
	if err != nil {
		return nil, err
	}
	if !ok {
		return args[1], nil
	}
	return v, nil
}

func builtinLen(c *object.Context, args []object.Object) (object.Object, error) {
	if err := argCount(c, "len", args, 1, 1); err != nil {
		return nil, err
	}
	n, ok, err := iterate.Len(c, args[0])
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, c.NewTypeError(fmt.Sprintf("object of type '%s' has no len()", object.TypeName(args[0])))
	}
	return object.NewInt(int64(n)), nil
}

func collect(c *object.Context, name string, args []object.Object) ([]object.Object, error) {
	if err := argCount(c, name, args, 0, 1); err != nil {
		return nil, err
	}
	if len(args) == 0 {
		return nil, nil
	}
	it, err := iterate.GetIter(c, args[0])
	if err != nil {
		return nil, err
	}
	return iterate.GetAll(c, it, iterate.Identity)
}

// chargeHead accounts the container header of a freshly built list or
// tuple. GetAll already charged the element slots; they are given back when
// the header does not fit.
func chargeHead(c *object.Context, head int64, elems []object.Object) error {
	if err := c.Charge(head); err != nil {
		c.Release(object.CostElements(len(elems)))
		return err
	}
	return nil
}

func builtinList(c *object.Context, args []object.Object) (object.Object, error) {
	elems, err := collect(c, "list", args)
	if err != nil {
		return nil, err
	}
	if err := chargeHead(c, object.CostList(0), elems); err != nil {
		return nil, err
	}
	return c.NewList(elems), nil
}

func builtinTuple(c *object.Context, args []object.Object) (object.Object, error) {
	elems, err := collect(c, "tuple", args)
	if err != nil {
		return nil, err
	}
	if err := chargeHead(c, object.CostTuple(0), elems); err != nil {
		return nil, err
	}
	return c.NewTuple(elems), nil
}

func builtinReversed(c *object.Context, args []object.Object) (object.Object, error) {
	if err := argCount(c, "reversed", args, 1, 1); err != nil {
		return nil, err
	}
	return iterate.Reversed(c, args[0])
}

func builtinLengthHint(c *object.Context, args []object.Object) (object.Object, error) {
	if err := argCount(c, "length_hint", args, 1, 2); err != nil {
		return nil, err
	}
	var def object.Object = object.NewInt(0)
	if len(args) == 2 {
		if _, ok := object.AsBigInt(args[1]); !ok {
			return nil, c.NewTypeError(fmt.Sprintf("'%s' object cannot be interpreted as an integer", object.TypeName(args[1])))
		}
		def = args[1]
	}
	n, ok, err := iterate.LengthHint(c, args[0])
	if err != nil {
		return nil, err
	}
	if !ok {
		return def, nil
	}
	return object.NewInt(int64(n)), nil
}
