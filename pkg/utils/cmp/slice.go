package cmp

// a == b as BiPredicator function
func EqEq[T comparable](a, b T) bool {
	return a == b
}

func SliceEq[T comparable](a []T, b []T) bool {
	if len(a) != len(b) {
		return false
	}
	for nth, va := range a {
		if va != b[nth] {
			return false
		}
	}
	return true
}

func SliceEqWith[T any, U any](a []T, b []U, pred func(a T, b U) bool) bool {
	if len(a) != len(b) {
		return false
	}
	for nth := range a {
		if !pred(a[nth], b[nth]) {
			return false
		}
	}
	return true
}

// check 2 slices has same content but its ordering.
//
// In other words, this function answers equality of two bags (or multi-sets).
//
// example:
//
//	SliceContentEq([]string{"a", "b", "c"}, []string{"c", "b", "a"})       // ==> true
//	SliceContentEq([]string{"a", "b", "c"}, []string{"c", "b", "z"})       // ==> false
//	SliceContentEq([]string{"a", "b", "c", "c"}, []string{"a", "b", "c"})  // ==> false
func SliceContentEq[T comparable](a, b []T) bool {
	return SliceContentEqWith(a, b, EqEq[T])
}

// check 2 slice has equivarent content but its ordering.
//
// args:
//   - a []S, b []T: slices to be compaired
//   - equiv: predicator says that two instance of T are equiverent or not.
func SliceContentEqWith[S, T any](a []S, b []T, equiv BiPredicator[S, T]) bool {
	if len(a) != len(b) {
		return false
	}
	if len(a) == 0 {
		return true
	}

	bm := make(map[int]*T, len(b))
	for i := range b {
		bm[i] = &b[i]
	}

NEXT_A:
	for _, va := range a {
		for k, vb := range bm {
			if equiv(va, *vb) {
				delete(bm, k)
				continue NEXT_A
			}
		}
		return false
	}

	return len(bm) == 0
}
