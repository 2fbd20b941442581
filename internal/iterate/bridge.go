package iterate

import (
	"errors"

	"iterproto/internal/object"
)

// Outcome is the result of advancing an iterator without going through the
// error channel: either a Value, or Done with the exhaustion payload.
type Outcome struct {
	Value   object.Object
	Done    bool
	Payload object.Object
}

func produced(v object.Object) Outcome { return Outcome{Value: v} }

func exhausted(payload object.Object) Outcome {
	if payload == nil {
		payload = object.None
	}
	return Outcome{Done: true, Payload: payload}
}

// stepper is implemented by iterators that can report exhaustion as an
// Outcome instead of raising StopIteration.
type stepper interface {
	step(c *object.Context) (Outcome, error)
}

// CallNext invokes __next__ on it and returns the raw result, StopIteration
// included.
func CallNext(c *object.Context, it object.Object) (object.Object, error) {
	return c.CallMethod(it, nextMethod)
}

// Advance moves it forward one step and reports the outcome. StopIteration
// becomes a Done outcome carrying its payload; every other failure is
// returned unchanged.
func Advance(c *object.Context, it object.Object) (Outcome, error) {
	if s, ok := it.(stepper); ok {
		return s.step(c)
	}
	v, err := CallNext(c, it)
	if err == nil {
		return produced(v), nil
	}
	var exc *object.Exception
	if errors.As(err, &exc) && c.IsInstance(exc, c.Exceptions.StopIteration) {
		return exhausted(StopValue(exc)), nil
	}
	return Outcome{}, err
}

// Next returns the next value of it, or ok=false once it is exhausted.
func Next(c *object.Context, it object.Object) (object.Object, bool, error) {
	out, err := Advance(c, it)
	if err != nil {
		return nil, false, err
	}
	if out.Done {
		return nil, false, nil
	}
	return out.Value, true, nil
}

// NewStopIteration builds a fresh exhaustion signal without payload.
func NewStopIteration(c *object.Context) *object.Exception {
	return c.NewStopIteration()
}

// StopValue returns the payload of an exhaustion signal, or None when it was
// raised without one.
func StopValue(exc *object.Exception) object.Object {
	if exc == nil || len(exc.Args) == 0 || exc.Args[0] == nil {
		return object.None
	}
	return exc.Args[0]
}
