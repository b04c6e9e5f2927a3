package cmp

// SliceEq checks a and b have equal elements in equal order.
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

// SliceEqWith checks a and b are element-wise equivalent under pred.
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

// SliceContentEq checks a and b have the same elements, ignoring order.
func SliceContentEq[T comparable](a, b []T) bool {
	if len(a) != len(b) {
		return false
	}
	pool := make(map[T]int, len(a))
	for _, va := range a {
		pool[va] += 1
	}
	for _, vb := range b {
		rest, ok := pool[vb]
		if !ok || rest <= 0 {
			return false
		}
		pool[vb] = rest - 1
	}
	return true
}

// MapEq checks a and b have equal key sets and equal values per key.
func MapEq[K comparable, V comparable](a map[K]V, b map[K]V) bool {
	if len(a) != len(b) {
		return false
	}
	for ka, va := range a {
		vb, ok := b[ka]
		if !ok || vb != va {
			return false
		}
	}
	return true
}
