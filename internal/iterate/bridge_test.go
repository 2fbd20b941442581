package iterate

import (
	"errors"
	"testing"

	"iterproto/internal/object"
)

// countdown builds an explicit iterator class yielding n-1 .. 0 and then
// raising StopIteration with payload, or failing with fail when set.
func countdown(t *testing.T, n int64, payload object.Object, fail error) object.Object {
	t.Helper()
	cls := newClass(t, "Countdown")
	cls.SetMethod("__iter__", func(c *object.Context, self object.Object, args []object.Object) (object.Object, error) {
		return self, nil
	})
	cls.SetMethod("__next__", func(c *object.Context, self object.Object, args []object.Object) (object.Object, error) {
		if fail != nil {
			return nil, fail
		}
		if n == 0 {
			if payload == nil {
				return nil, c.NewStopIteration()
			}
			return nil, c.NewStopIteration(payload)
		}
		n--
		return object.NewInt(n), nil
	})
	return object.NewInstance(cls)
}

func TestNextMapsExhaustionToAbsence(t *testing.T) {
	c := newContext()
	it := countdown(t, 2, nil, nil)
	for _, want := range []string{"1", "0"} {
		v, ok, err := Next(c, it)
		if err != nil || !ok {
			t.Fatalf("expected a value, got ok=%v err=%v", ok, err)
		}
		if v.Inspect() != want {
			t.Fatalf("expected %s, got %s", want, v.Inspect())
		}
	}
	v, ok, err := Next(c, it)
	if v != nil || ok || err != nil {
		t.Fatalf("expected absence, got %v %v %v", v, ok, err)
	}
}

func TestNextPropagatesOtherFailures(t *testing.T) {
	c := newContext()
	keyErr := c.NewException(c.Exceptions.KeyError, c.NewStr("k"))
	_, ok, err := Next(c, countdown(t, 3, nil, keyErr))
	if ok || err != error(keyErr) {
		t.Fatalf("expected the KeyError unchanged, got %v", err)
	}

	host := errors.New("disk on fire")
	_, _, err = Next(c, countdown(t, 3, nil, host))
	if err != host {
		t.Fatalf("expected host error unchanged, got %v", err)
	}

	cls := newClass(t, "Sparse")
	cls.SetMethod("__getitem__", func(c *object.Context, self object.Object, args []object.Object) (object.Object, error) {
		return nil, c.NewException(c.Exceptions.KeyError, args[0])
	})
	it, _ := GetIter(c, object.NewInstance(cls))
	if _, _, err := Next(c, it); !c.Matches(err, c.Exceptions.KeyError) {
		t.Fatalf("expected KeyError from index access, got %v", err)
	}
}

func TestCallNextReturnsRawSignal(t *testing.T) {
	c := newContext()
	_, err := CallNext(c, countdown(t, 0, object.NewInt(5), nil))
	if !c.Matches(err, c.Exceptions.StopIteration) {
		t.Fatalf("expected StopIteration, got %v", err)
	}
}

func TestAdvanceCarriesPayload(t *testing.T) {
	c := newContext()
	out, err := Advance(c, countdown(t, 0, object.NewInt(7), nil))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !out.Done || out.Payload.Inspect() != "7" {
		t.Fatalf("expected exhaustion with payload 7, got %+v", out)
	}
	out, _ = Advance(c, countdown(t, 0, nil, nil))
	if out.Payload != object.None {
		t.Fatalf("expected None payload, got %v", out.Payload)
	}
}

func TestStopValue(t *testing.T) {
	c := newContext()
	if got := StopValue(c.NewStopIteration(object.NewInt(42))); got.Inspect() != "42" {
		t.Fatalf("expected 42, got %s", got.Inspect())
	}
	if got := StopValue(NewStopIteration(c)); got != object.None {
		t.Fatalf("expected None, got %v", got)
	}
	if !c.IsInstance(NewStopIteration(c), c.Exceptions.StopIteration) {
		t.Fatal("expected a StopIteration instance")
	}
}
