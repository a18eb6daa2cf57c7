package slices

// map each element in sli.
//
// return:
//
//	slice of `R`s. each element indexed `N` is given with `mapper(sli[N])` .
func Map[T any, R any](sli []T, mapper func(v T) R) []R {
	ret := make([]R, len(sli))
	for nth, v := range sli {
		ret[nth] = mapper(v)
	}
	return ret
}

// convert slice to map.
//
// If keys given with getkey collides, a value coming latter takes over previous.
func ToMap[T any, K comparable](sli []T, getkey func(v T) K) map[K]T {
	m := map[K]T{}
	for _, v := range sli {
		m[getkey(v)] = v
	}
	return m
}

// flatten map to slice of its keys
func KeysOf[T any, K comparable](m map[K]T) []K {
	sli := make([]K, 0, len(m))
	for k := range m {
		sli = append(sli, k)
	}
	return sli
}

// find the first element matching predicator.
//
// returns the element and true when found, zero-value and false otherwise.
func First[T any](sli []T, pred func(v T) bool) (T, bool) {
	for _, v := range sli {
		if pred(v) {
			return v, true
		}
	}
	return *new(T), false
}

// filter elements match with predicator
func Filter[T any](sli []T, pred func(v T) bool) []T {
	ret := make([]T, 0, len(sli))
	for _, v := range sli {
		if pred(v) {
			ret = append(ret, v)
		}
	}
	return ret
}
