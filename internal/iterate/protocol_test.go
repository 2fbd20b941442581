package iterate

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"iterproto/internal/object"
)

func TestGetIterFallsBackToIndexAccess(t *testing.T) {
	c := newContext()
	obj := object.NewInstance(indexOnly(t, ints(1, 2, 3), nil))

	it, err := GetIter(c, obj)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := it.(*SequenceIterator); !ok {
		t.Fatalf("expected *SequenceIterator, got %T", it)
	}
	if diff := cmp.Diff([]int64{1, 2, 3}, drainInts(t, c, it)); diff != "" {
		t.Fatalf("values mismatch (-want +got):\n%s", diff)
	}
	for i := 0; i < 3; i++ {
		if _, ok, err := Next(c, it); ok || err != nil {
			t.Fatalf("expected permanent exhaustion, got ok=%v err=%v", ok, err)
		}
	}
}

func TestGetIterPrefersExplicitIterator(t *testing.T) {
	c := newContext()
	l := c.NewList(ints(4, 5))
	it, err := GetIter(c, l)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := it.(*object.ListIterator); !ok {
		t.Fatalf("expected list_iterator, got %T", it)
	}
	if diff := cmp.Diff([]int64{4, 5}, drainInts(t, c, it)); diff != "" {
		t.Fatalf("values mismatch (-want +got):\n%s", diff)
	}
}

func TestGetIterInheritsProtocol(t *testing.T) {
	c := newContext()
	base := indexOnly(t, ints(7, 8), nil)
	child := newClass(t, "Child", base)
	proto, _ := Classify(c, object.NewInstance(child))
	if proto != IndexAccessible {
		t.Fatalf("expected index protocol through inheritance, got %s", proto)
	}
	it, err := GetIter(c, object.NewInstance(child))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if diff := cmp.Diff([]int64{7, 8}, drainInts(t, c, it)); diff != "" {
		t.Fatalf("values mismatch (-want +got):\n%s", diff)
	}
}

func TestGetIterNotIterable(t *testing.T) {
	c := newContext()
	obj := object.NewInstance(newClass(t, "Opaque"))
	it, err := GetIter(c, obj)
	if it != nil {
		t.Fatalf("expected no iterator, got %s", it.Inspect())
	}
	if !c.Matches(err, c.Exceptions.TypeError) {
		t.Fatalf("expected TypeError, got %v", err)
	}
	if !strings.Contains(err.Error(), "'Opaque' object is not iterable") {
		t.Fatalf("expected type name in message, got %q", err.Error())
	}
	if _, err := GetIter(c, object.NewInt(3)); !c.Matches(err, c.Exceptions.TypeError) {
		t.Fatalf("expected TypeError for int, got %v", err)
	}
}

func TestGetIterIsIdentityOnIterators(t *testing.T) {
	c := newContext()
	it, err := NewSequenceIterator(c, c.NewStr("ab"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	again, err := GetIter(c, it)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if again != object.Object(it) {
		t.Fatal("expected the same iterator instance back")
	}
}

func TestGetIterDoesNotCheckIteratorConformance(t *testing.T) {
	c := newContext()
	cls := newClass(t, "Liar")
	cls.SetMethod("__iter__", func(c *object.Context, self object.Object, args []object.Object) (object.Object, error) {
		return object.NewInt(1), nil
	})
	it, err := GetIter(c, object.NewInstance(cls))
	if err != nil {
		t.Fatalf("GetIter must return __iter__ results verbatim: %v", err)
	}
	if _, _, err := Next(c, it); !c.Matches(err, c.Exceptions.AttributeError) {
		t.Fatalf("expected AttributeError on first advance, got %v", err)
	}
}

func TestGetIterPropagatesIterFailure(t *testing.T) {
	c := newContext()
	cls := newClass(t, "Broken")
	cls.SetMethod("__iter__", func(c *object.Context, self object.Object, args []object.Object) (object.Object, error) {
		return nil, c.NewValueError("no")
	})
	if _, err := GetIter(c, object.NewInstance(cls)); !c.Matches(err, c.Exceptions.ValueError) {
		t.Fatalf("expected ValueError, got %v", err)
	}
}

func TestStringUsesSequenceIterator(t *testing.T) {
	c := newContext()
	it, err := GetIter(c, c.NewStr("xyz"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, err := GetAll(c, it, ToString)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if diff := cmp.Diff([]string{"x", "y", "z"}, got); diff != "" {
		t.Fatalf("values mismatch (-want +got):\n%s", diff)
	}
}
