package iterate

import (
	"fmt"

	"iterproto/internal/object"
)

// exhaustedPosition marks a SequenceIterator that will never produce again.
const exhaustedPosition = -1

// SequenceIteratorClass is the runtime type of SequenceIterator.
var SequenceIteratorClass = func() *object.Class {
	cls, err := object.NewClass("iterator")
	if err != nil {
		panic(err)
	}
	return cls
}()

func init() {
	SequenceIteratorClass.SetMethod(iterMethod, seqIterIter)
	SequenceIteratorClass.SetMethod(nextMethod, seqIterNext)
	SequenceIteratorClass.SetMethod(lengthHintMethod, seqIterLengthHint)
}

// Install registers the iteration types with c.
func Install(c *object.Context) {
	c.RegisterType(SequenceIteratorClass)
}

// SequenceIterator iterates a value that only supports __getitem__. It walks
// the position by one per produced value and stops for good at the first
// IndexError (or StopIteration) from the underlying access.
//
// A SequenceIterator is not safe for concurrent use; it belongs to the
// goroutine that drives its Context.
type SequenceIterator struct {
	obj      object.Object
	getitem  object.Object
	position int
	reversed bool
}

func newSequenceIterator(obj, getitem object.Object, start int, reversed bool) *SequenceIterator {
	return &SequenceIterator{obj: obj, getitem: getitem, position: start, reversed: reversed}
}

// NewSequenceIterator wraps obj for forward iteration from index 0.
func NewSequenceIterator(c *object.Context, obj object.Object) (*SequenceIterator, error) {
	return NewSequenceIteratorAt(c, obj, 0, false)
}

// NewSequenceIteratorAt wraps obj starting at index start. A reversed
// iterator walks down to index 0; a negative start yields an iterator that
// is already exhausted.
func NewSequenceIteratorAt(c *object.Context, obj object.Object, start int, reversed bool) (*SequenceIterator, error) {
	getitem, ok := c.GetMethod(obj, getItemMethod)
	if !ok {
		return nil, c.NewTypeError(fmt.Sprintf("'%s' object is not subscriptable", object.TypeName(obj)))
	}
	if start < 0 {
		start = exhaustedPosition
	}
	return newSequenceIterator(obj, getitem, start, reversed), nil
}

func (*SequenceIterator) Type() *object.Class { return SequenceIteratorClass }
func (it *SequenceIterator) Inspect() string {
	return "<iterator object over " + object.TypeName(it.obj) + ">"
}

// Position is the next index to be accessed, or a negative value once the
// iterator is exhausted.
func (it *SequenceIterator) Position() int { return it.position }

// Reversed reports whether the iterator walks down towards index 0.
func (it *SequenceIterator) Reversed() bool { return it.reversed }

func (it *SequenceIterator) Exhausted() bool { return it.position < 0 }

func (it *SequenceIterator) step(c *object.Context) (Outcome, error) {
	if it.position < 0 {
		return exhausted(nil), nil
	}
	step := 1
	if it.reversed {
		step = -1
	}
	v, err := c.Invoke(it.getitem, object.NewInt(int64(it.position)))
	if err != nil {
		if c.Matches(err, c.Exceptions.IndexError) || c.Matches(err, c.Exceptions.StopIteration) {
			log.Debugf("sequence iterator over %s exhausted at %d", object.TypeName(it.obj), it.position)
			it.position = exhaustedPosition
			return exhausted(nil), nil
		}
		// the position stays put so a retry repeats the same access
		return Outcome{}, err
	}
	it.position += step
	return produced(v), nil
}

func asSequenceIterator(c *object.Context, name string, self object.Object, args []object.Object) (*SequenceIterator, error) {
	if len(args) != 0 {
		return nil, c.NewTypeError(fmt.Sprintf("%s() takes 0 arguments, got %d", name, len(args)))
	}
	it, ok := self.(*SequenceIterator)
	if !ok {
		return nil, c.NewTypeError(fmt.Sprintf("descriptor '%s' requires a 'iterator' object but received a '%s'", name, object.TypeName(self)))
	}
	return it, nil
}

func seqIterIter(c *object.Context, self object.Object, args []object.Object) (object.Object, error) {
	if _, err := asSequenceIterator(c, iterMethod, self, args); err != nil {
		return nil, err
	}
	return self, nil
}

func seqIterNext(c *object.Context, self object.Object, args []object.Object) (object.Object, error) {
	it, err := asSequenceIterator(c, nextMethod, self, args)
	if err != nil {
		return nil, err
	}
	out, err := it.step(c)
	if err != nil {
		return nil, err
	}
	if out.Done {
		return nil, NewStopIteration(c)
	}
	return out.Value, nil
}

// seqIterLengthHint never fails hard: when the wrapped object has no usable
// length it raises TypeError, which LengthHint reads as "unknown".
func seqIterLengthHint(c *object.Context, self object.Object, args []object.Object) (object.Object, error) {
	it, err := asSequenceIterator(c, lengthHintMethod, self, args)
	if err != nil {
		return nil, err
	}
	if it.Exhausted() {
		return object.NewInt(0), nil
	}
	if it.Reversed() {
		return object.NewInt(int64(it.position) + 1), nil
	}
	n, ok, err := Len(c, it.obj)
	if err != nil {
		log.Debugf("no length hint for iterator over %s: %v", object.TypeName(it.obj), err)
		return nil, c.NewTypeError(fmt.Sprintf("object of type '%s' has no usable len()", object.TypeName(it.obj)))
	}
	if !ok {
		return nil, c.NewTypeError(fmt.Sprintf("object of type '%s' has no len()", object.TypeName(it.obj)))
	}
	return object.NewInt(int64(max(n-it.position, 0))), nil
}
