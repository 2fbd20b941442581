package iterate

import (
	"testing"

	"iterproto/internal/object"
)

func newContext() *object.Context {
	c := object.NewContext()
	Install(c)
	return c
}

func newClass(t *testing.T, name string, bases ...*object.Class) *object.Class {
	t.Helper()
	cls, err := object.NewClass(name, bases...)
	if err != nil {
		t.Fatalf("NewClass(%s): %v", name, err)
	}
	return cls
}

func ints(vals ...int64) []object.Object {
	out := make([]object.Object, len(vals))
	for i, v := range vals {
		out[i] = object.NewInt(v)
	}
	return out
}

// indexOnly builds a class whose instances answer __getitem__ over items and
// raise IndexError past the end. calls counts every access.
func indexOnly(t *testing.T, items []object.Object, calls *int) *object.Class {
	t.Helper()
	cls := newClass(t, "Seq")
	cls.SetMethod("__getitem__", func(c *object.Context, self object.Object, args []object.Object) (object.Object, error) {
		if calls != nil {
			*calls++
		}
		i, err := ToInt64(c, args[0])
		if err != nil {
			return nil, err
		}
		if i < 0 || i >= int64(len(items)) {
			return nil, c.NewIndexError("Seq index out of range")
		}
		return items[i], nil
	})
	return cls
}

func withLen(cls *object.Class, n int64) *object.Class {
	cls.SetMethod("__len__", func(c *object.Context, self object.Object, args []object.Object) (object.Object, error) {
		return object.NewInt(n), nil
	})
	return cls
}

func drainInts(t *testing.T, c *object.Context, it object.Object) []int64 {
	t.Helper()
	out := []int64{}
	for {
		v, ok, err := Next(c, it)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !ok {
			return out
		}
		n, err := ToInt64(c, v)
		if err != nil {
			t.Fatalf("unexpected value %s: %v", v.Inspect(), err)
		}
		out = append(out, n)
	}
}
