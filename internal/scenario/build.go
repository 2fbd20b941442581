package scenario

import (
	"fmt"
	"math/big"

	"github.com/pkg/errors"

	"iterproto/internal/iterate"
	"iterproto/internal/object"
)

// ToObject converts a decoded YAML/TOML value into a runtime value.
func ToObject(v any) (object.Object, error) {
	switch x := v.(type) {
	case nil:
		return object.None, nil
	case bool:
		return object.NativeBool(x), nil
	case int:
		return object.NewInt(int64(x)), nil
	case int64:
		return object.NewInt(x), nil
	case uint64:
		return object.NewBigInt(new(big.Int).SetUint64(x)), nil
	case float64:
		return &object.Float{Value: x}, nil
	case string:
		return &object.String{Value: x}, nil
	case map[string]any:
		// {int: "..."} spells integers too wide for the decoders
		s, ok := x["int"].(string)
		if !ok || len(x) != 1 {
			return nil, errors.Errorf("unsupported mapping %v", x)
		}
		n, ok := new(big.Int).SetString(s, 0)
		if !ok {
			return nil, errors.Errorf("invalid integer %q", s)
		}
		return object.NewBigInt(n), nil
	case []any:
		elems, err := toObjects(x)
		if err != nil {
			return nil, err
		}
		return &object.List{Elements: elems}, nil
	}
	return nil, errors.Errorf("unsupported value %v (%T)", v, v)
}

func toObjects(vals []any) ([]object.Object, error) {
	out := make([]object.Object, len(vals))
	for i, v := range vals {
		obj, err := ToObject(v)
		if err != nil {
			return nil, err
		}
		out[i] = obj
	}
	return out, nil
}

// raiser builds an exception of the named registered class.
func raiser(c *object.Context, name, msg string) error {
	cls, ok := c.LookupType(name)
	if !ok || !cls.IsSubclass(c.Exceptions.BaseException) {
		return c.NewTypeError(fmt.Sprintf("%s is not an exception class", name))
	}
	return c.NewException(cls, c.NewStr(msg))
}

// declare creates the runtime classes of sc in c and binds them by name in
// env.
func declare(c *object.Context, env *object.Environment, decls []ClassDecl) error {
	for _, d := range decls {
		cls, err := buildClass(c, env, d)
		if err != nil {
			return errors.Wrapf(err, "class %s", d.Name)
		}
		c.RegisterType(cls)
		env.Set(d.Name, cls)
	}
	return nil
}

func buildClass(c *object.Context, env *object.Environment, d ClassDecl) (*object.Class, error) {
	bases := make([]*object.Class, 0, len(d.Bases))
	for _, name := range d.Bases {
		v, ok := env.Get(name)
		base, isClass := v.(*object.Class)
		if !ok || !isClass {
			return nil, errors.Errorf("unknown base %q", name)
		}
		bases = append(bases, base)
	}
	cls, err := object.NewClass(d.Name, bases...)
	if err != nil {
		return nil, err
	}

	if d.Items != nil {
		items, err := toObjects(d.Items)
		if err != nil {
			return nil, err
		}
		cls.SetMethod("__getitem__", getItem(d, items))
	}
	if d.IterItems != nil {
		items, err := toObjects(d.IterItems)
		if err != nil {
			return nil, err
		}
		stop, err := optionalObject(d.StopValue)
		if err != nil {
			return nil, err
		}
		itCls, err := iteratorClass(d, items, stop)
		if err != nil {
			return nil, err
		}
		cls.SetMethod("__iter__", func(c *object.Context, self object.Object, args []object.Object) (object.Object, error) {
			it := object.NewInstance(itCls)
			it.SetMember("pos", object.NewInt(0))
			if err := c.Alloc(it); err != nil {
				return nil, err
			}
			return it, nil
		})
	}
	if d.Len != nil || d.LenError != "" {
		cls.SetMethod("__len__", constant(d.Len, d.LenError, "__len__"))
	}
	if d.LengthHint != nil || d.LengthHintError != "" {
		cls.SetMethod("__length_hint__", constant(d.LengthHint, d.LengthHintError, "__length_hint__"))
	}
	if d.ReversedItems != nil {
		items, err := toObjects(d.ReversedItems)
		if err != nil {
			return nil, err
		}
		cls.SetMethod("__reversed__", func(c *object.Context, self object.Object, args []object.Object) (object.Object, error) {
			return iterate.GetIter(c, c.NewList(items))
		})
	}
	return cls, nil
}

func optionalObject(v any) (object.Object, error) {
	if v == nil {
		return nil, nil
	}
	return ToObject(v)
}

func getItem(d ClassDecl, items []object.Object) object.NativeMethod {
	return func(c *object.Context, self object.Object, args []object.Object) (object.Object, error) {
		if len(args) != 1 {
			return nil, c.NewTypeError(fmt.Sprintf("__getitem__() takes 1 argument, got %d", len(args)))
		}
		i, err := iterate.ToInt64(c, args[0])
		if err != nil {
			return nil, err
		}
		if e := d.GetItemError; e != nil && e.Index == i {
			return nil, raiser(c, e.Error, fmt.Sprintf("%s[%d]", d.Name, i))
		}
		if i < 0 || i >= int64(len(items)) {
			return nil, c.NewIndexError(d.Name + " index out of range")
		}
		return items[i], nil
	}
}

// iteratorClass builds the explicit iterator type backing iter_items. Its
// instances keep their position in the "pos" attribute.
func iteratorClass(d ClassDecl, items []object.Object, stop object.Object) (*object.Class, error) {
	cls, err := object.NewClass(d.Name + "Iterator")
	if err != nil {
		return nil, err
	}
	cls.SetMethod("__iter__", func(c *object.Context, self object.Object, args []object.Object) (object.Object, error) {
		return self, nil
	})
	cls.SetMethod("__next__", func(c *object.Context, self object.Object, args []object.Object) (object.Object, error) {
		if d.NextError != "" {
			return nil, raiser(c, d.NextError, d.Name+" iterator failed")
		}
		inst, ok := self.(*object.Instance)
		if !ok {
			return nil, c.NewTypeError("expected an instance")
		}
		pos := int64(0)
		if v, ok := inst.GetMember("pos"); ok {
			pos, _ = iterate.ToInt64(c, v)
		}
		if pos >= int64(len(items)) {
			if stop == nil {
				return nil, c.NewStopIteration()
			}
			return nil, c.NewStopIteration(stop)
		}
		inst.SetMember("pos", object.NewInt(pos+1))
		return items[pos], nil
	})
	cls.SetMethod("__length_hint__", func(c *object.Context, self object.Object, args []object.Object) (object.Object, error) {
		inst, ok := self.(*object.Instance)
		if !ok {
			return nil, c.NewTypeError("expected an instance")
		}
		pos := int64(0)
		if v, ok := inst.GetMember("pos"); ok {
			pos, _ = iterate.ToInt64(c, v)
		}
		return object.NewInt(max(int64(len(items))-pos, 0)), nil
	})
	return cls, nil
}

func constant(v any, raise, name string) object.NativeMethod {
	return func(c *object.Context, self object.Object, args []object.Object) (object.Object, error) {
		if raise != "" {
			return nil, raiser(c, raise, name+" failed")
		}
		return ToObject(v)
	}
}
