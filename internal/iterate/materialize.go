package iterate

import (
	"fmt"
	"math"
	"slices"

	"iterproto/internal/object"
)

// maxPresize caps the capacity taken from a length hint. Hints are advisory
// and a user-defined __length_hint__ may return anything.
const maxPresize = 1 << 16

// Converter turns a runtime value into a host value of type T.
type Converter[T any] func(c *object.Context, obj object.Object) (T, error)

// Identity keeps runtime values as they are.
func Identity(_ *object.Context, obj object.Object) (object.Object, error) {
	return obj, nil
}

// ToInt64 accepts ints (and bools) that fit in an int64.
func ToInt64(c *object.Context, obj object.Object) (int64, error) {
	v, ok := object.AsBigInt(obj)
	if !ok {
		return 0, c.NewTypeError(fmt.Sprintf("expected an integer, got '%s'", object.TypeName(obj)))
	}
	if !v.IsInt64() {
		return 0, c.NewOverflowError(fmt.Sprintf("int too large to convert (max %d)", int64(math.MaxInt64)))
	}
	return v.Int64(), nil
}

// ToString accepts str values only.
func ToString(c *object.Context, obj object.Object) (string, error) {
	s, ok := obj.(*object.String)
	if !ok {
		return "", c.NewTypeError(fmt.Sprintf("expected a string, got '%s'", object.TypeName(obj)))
	}
	return s.Value, nil
}

// GetAll drains it, converting every value with convert. The length hint of
// it only presizes the result. Each collected element is charged to the
// memory budget of c; on any failure the partial result is dropped and its
// charge released.
func GetAll[T any](c *object.Context, it object.Object, convert Converter[T]) ([]T, error) {
	hint, ok, err := LengthHint(c, it)
	if err != nil {
		return nil, err
	}
	if !ok {
		hint = 0
	}
	out := make([]T, 0, min(hint, maxPresize))

	var charged int64
	fail := func(err error) ([]T, error) {
		c.Release(charged)
		return nil, err
	}
	for {
		v, ok, err := Next(c, it)
		if err != nil {
			return fail(err)
		}
		if !ok {
			break
		}
		elem, err := convert(c, v)
		if err != nil {
			return fail(err)
		}
		cost := object.CostElements(1)
		if err := c.Charge(cost); err != nil {
			return fail(err)
		}
		charged += cost
		out = append(out, elem)
	}
	return slices.Clip(out), nil
}
