package iterate

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"iterproto/internal/object"
)

func TestValuesRangesUntilExhaustion(t *testing.T) {
	c := newContext()
	it, _ := GetIter(c, c.NewList(ints(1, 2, 3)))
	var got []string
	for v, err := range Values(c, it) {
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		got = append(got, v.Inspect())
	}
	if diff := cmp.Diff([]string{"1", "2", "3"}, got); diff != "" {
		t.Fatalf("values mismatch (-want +got):\n%s", diff)
	}
}

func TestValuesStopsOnBreak(t *testing.T) {
	c := newContext()
	it, _ := GetIter(c, c.NewList(ints(1, 2, 3)))
	for range Values(c, it) {
		break
	}
	v, ok, err := Next(c, it)
	if err != nil || !ok || v.Inspect() != "2" {
		t.Fatalf("expected iteration to resume at 2, got %v %v %v", v, ok, err)
	}
}

func TestValuesYieldsFailureOnce(t *testing.T) {
	c := newContext()
	it := countdown(t, 5, nil, c.NewValueError("bad"))
	n := 0
	for v, err := range Values(c, it) {
		n++
		if v != nil || !c.Matches(err, c.Exceptions.ValueError) {
			t.Fatalf("expected ValueError, got %v %v", v, err)
		}
	}
	if n != 1 {
		t.Fatalf("expected one yield, got %d", n)
	}
}

func TestEach(t *testing.T) {
	c := newContext()
	var got []string
	err := Each(c, c.NewStr("abc"), func(v object.Object) bool {
		got = append(got, v.Inspect())
		return len(got) < 2
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if diff := cmp.Diff([]string{"a", "b"}, got); diff != "" {
		t.Fatalf("values mismatch (-want +got):\n%s", diff)
	}
	if err := Each(c, object.NewInt(1), func(object.Object) bool { return true }); !c.Matches(err, c.Exceptions.TypeError) {
		t.Fatalf("expected TypeError, got %v", err)
	}
}
