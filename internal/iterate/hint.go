package iterate

import (
	"fmt"
	"math"
	"math/big"

	"iterproto/internal/object"
)

var maxLength = big.NewInt(math.MaxInt)

// Len reports the definite length of obj through __len__. ok is false when
// obj has no __len__ at all.
func Len(c *object.Context, obj object.Object) (n int, ok bool, err error) {
	m, ok := c.GetMethod(obj, lenMethod)
	if !ok {
		return 0, false, nil
	}
	res, err := c.Invoke(m)
	if err != nil {
		return 0, true, err
	}
	v, isInt := object.AsBigInt(res)
	if !isInt {
		return 0, true, c.NewTypeError(fmt.Sprintf("'%s' object cannot be interpreted as an integer", object.TypeName(res)))
	}
	if v.Sign() < 0 {
		return 0, true, c.NewValueError("__len__() should return >= 0")
	}
	if v.Cmp(maxLength) > 0 {
		return 0, true, c.NewOverflowError("cannot fit 'int' into an index-sized integer")
	}
	return int(v.Int64()), true, nil
}

// LengthHint estimates how many values iterating obj will produce. ok is
// false when no estimate is available.
//
// A definite length from __len__ wins. A TypeError from __len__ falls
// through to __length_hint__, any other failure is returned. A TypeError
// raised by __length_hint__ itself means "unknown"; its result must be a
// non-negative int that fits an int.
func LengthHint(c *object.Context, obj object.Object) (n int, ok bool, err error) {
	n, ok, err = Len(c, obj)
	switch {
	case err == nil && ok:
		return n, true, nil
	case err != nil && !c.Matches(err, c.Exceptions.TypeError):
		return 0, false, err
	case err != nil:
		log.Debugf("__len__ of %s raised TypeError, trying %s", object.TypeName(obj), lengthHintMethod)
	}

	hint, found := c.GetMethod(obj, lengthHintMethod)
	if !found {
		return 0, false, nil
	}
	res, err := c.Invoke(hint)
	if err != nil {
		if c.Matches(err, c.Exceptions.TypeError) {
			return 0, false, nil
		}
		return 0, false, err
	}
	v, isInt := object.AsBigInt(res)
	if !isInt {
		return 0, false, c.NewTypeError(fmt.Sprintf("'%s' object cannot be interpreted as an integer", object.TypeName(res)))
	}
	if v.Sign() < 0 {
		return 0, false, c.NewValueError(fmt.Sprintf("__length_hint__() of '%s' object should return >= 0", object.TypeName(obj)))
	}
	if v.Cmp(maxLength) > 0 {
		return 0, false, c.NewValueError(fmt.Sprintf("__length_hint__() of '%s' object returned a value too large to use as a length", object.TypeName(obj)))
	}
	return int(v.Int64()), true, nil
}
