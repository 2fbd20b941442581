package object

import "iterproto/internal/limits"

const (
	memStringHead    int64 = 24
	memListHead      int64 = 24
	memTupleHead     int64 = 24
	memIntHead       int64 = 32
	memInstanceHead  int64 = 48
)

func CostStringBytes(n int) int64 {
	if n < 0 {
		return memStringHead
	}
	return memStringHead + int64(n)
}

func CostList(n int) int64 {
	if n < 0 {
		return memListHead
	}
	return memListHead + int64(n)*limits.PointerSize
}

func CostTuple(n int) int64 {
	if n < 0 {
		return memTupleHead
	}
	return memTupleHead + int64(n)*limits.PointerSize
}

// CostElements is the cost of n references held by a collection.
func CostElements(n int) int64 {
	if n <= 0 {
		return 0
	}
	return int64(n) * limits.PointerSize
}

func CostInt(bits int) int64 {
	if bits <= 64 {
		return memIntHead
	}
	return memIntHead + int64((bits+63)/64)*8
}

func CostInstance(nattrs int) int64 {
	return memInstanceHead + CostElements(nattrs)
}

// CostOf estimates the retained size of obj, not counting objects it
// references.
func CostOf(obj Object) int64 {
	switch v := obj.(type) {
	case *String:
		return CostStringBytes(len(v.Value))
	case *List:
		return CostList(len(v.Elements))
	case *Tuple:
		return CostTuple(len(v.Elements))
	case *Integer:
		return CostInt(v.Value.BitLen())
	case *Instance:
		return CostInstance(len(v.attrs))
	}
	return limits.PointerSize
}
