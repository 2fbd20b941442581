package iterate

import (
	"iter"

	"iterproto/internal/object"
)

// Values ranges over the runtime iterator it from Go:
//
//	for v, err := range iterate.Values(c, it) {
//		if err != nil {
//			return err
//		}
//		...
//	}
//
// Exhaustion ends the loop. Any other failure is yielded once with a nil
// value and ends the loop as well.
func Values(c *object.Context, it object.Object) iter.Seq2[object.Object, error] {
	return func(yield func(object.Object, error) bool) {
		for {
			v, ok, err := Next(c, it)
			if err != nil {
				yield(nil, err)
				return
			}
			if !ok || !yield(v, nil) {
				return
			}
		}
	}
}

// Each obtains an iterator over obj and calls fn for every value, stopping
// early when fn returns false.
func Each(c *object.Context, obj object.Object, fn func(object.Object) bool) error {
	it, err := GetIter(c, obj)
	if err != nil {
		return err
	}
	for v, err := range Values(c, it) {
		if err != nil {
			return err
		}
		if !fn(v) {
			return nil
		}
	}
	return nil
}
