package infra

import "cmp"

type Signed interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64
}

// Unsigned is a constraint that permits any unsigned integer type.
type Unsigned interface {
	~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 | ~uintptr
}

type Integer interface {
	Signed | Unsigned
}

type Float interface {
	~float32 | ~float64
}

// OrderedKey
// byte => ~uint8
type OrderedKey interface {
	Integer | Float | ~string
}

// Comparator
// Assume i is the new key.
//  1. i == j (return 0)
//  2. i > j (return positive), turn to right part.
//  3. i < j (return negative), turn to left part.
//
// It must be a total order over K.
type Comparator[K any] func(i, j K) int64

// NaturalOrder compares keys by their builtin order.
// NaN is ordered before any other float and equal to itself,
// otherwise a float keyed tree loses its total order.
func NaturalOrder[K OrderedKey]() Comparator[K] {
	return func(i, j K) int64 {
		return int64(cmp.Compare(i, j))
	}
}

// Reverse flips the order of c.
func Reverse[K any](c Comparator[K]) Comparator[K] {
	return func(i, j K) int64 {
		return c(j, i)
	}
}
