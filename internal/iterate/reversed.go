package iterate

import (
	"fmt"

	"iterproto/internal/object"
)

// Reversed returns an iterator walking obj backwards. An own __reversed__
// takes precedence; otherwise obj needs both __getitem__ and __len__ and is
// walked from index len-1 down to 0.
func Reversed(c *object.Context, obj object.Object) (object.Object, error) {
	if m, ok := c.GetMethod(obj, reversedMethod); ok {
		return c.Invoke(m)
	}
	getitem, hasItem := c.GetMethod(obj, getItemMethod)
	_, hasLen := c.GetMethod(obj, lenMethod)
	if !hasItem || !hasLen {
		return nil, c.NewTypeError(fmt.Sprintf("'%s' object is not reversible", object.TypeName(obj)))
	}
	n, _, err := Len(c, obj)
	if err != nil {
		return nil, err
	}
	start := n - 1
	if start < 0 {
		start = exhaustedPosition
	}
	return newSequenceIterator(obj, getitem, start, true), nil
}
