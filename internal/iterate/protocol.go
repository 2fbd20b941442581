package iterate

import (
	"fmt"

	"iterproto/internal/object"
)

// Protocol is the iteration capability an object exposes.
type Protocol int

const (
	Neither Protocol = iota
	ExplicitIterable
	IndexAccessible
)

func (p Protocol) String() string {
	switch p {
	case ExplicitIterable:
		return "explicit"
	case IndexAccessible:
		return "index"
	default:
		return "none"
	}
}

// Classify resolves which protocol obj supports. The returned method is bound
// to obj: __iter__ for ExplicitIterable, __getitem__ for IndexAccessible.
func Classify(c *object.Context, obj object.Object) (Protocol, object.Object) {
	if m, ok := c.GetMethod(obj, iterMethod); ok {
		return ExplicitIterable, m
	}
	if m, ok := c.GetMethod(obj, getItemMethod); ok {
		return IndexAccessible, m
	}
	return Neither, nil
}

// GetIter returns an iterator over obj. An explicit __iter__ result is
// returned as is; whether it really implements __next__ is only discovered
// when it is first advanced.
func GetIter(c *object.Context, obj object.Object) (object.Object, error) {
	proto, method := Classify(c, obj)
	log.Debugf("iter over %s: %s protocol", object.TypeName(obj), proto)
	switch proto {
	case ExplicitIterable:
		return c.Invoke(method)
	case IndexAccessible:
		return newSequenceIterator(obj, method, 0, false), nil
	}
	return nil, NotIterable(c, obj)
}

// NotIterable builds the TypeError raised for values with neither protocol.
func NotIterable(c *object.Context, obj object.Object) error {
	return c.NewTypeError(fmt.Sprintf("'%s' object is not iterable", object.TypeName(obj)))
}
