package tree

import "github.com/benz9527/xtree/lib/infra"

type RBColor uint8

const (
	Black RBColor = iota
	Red
)

func (c RBColor) String() string {
	switch c {
	case Black:
		return "Black"
	case Red:
		return "Red"
	default:
	}
	return "Unknown"
}

type RBDirection int8

const (
	Left RBDirection = -1 + iota
	Root
	Right
)

func (d RBDirection) String() string {
	switch d {
	case Left:
		return "left"
	case Right:
		return "right"
	default:
	}
	return "root"
}

// SortedSet is the ordered set contract shared by the balanced trees.
//
// Keys are compared by the tree comparator only, two keys with
// compare result 0 are the same element.
// Range views and the sequence production are not supported and
// always return ErrOperationNotSupported.
type SortedSet[K any] interface {
	// Add inserts key if absent and reports whether it was newly added.
	Add(key K) bool
	// Remove deletes key if present and reports whether it was removed.
	Remove(key K) bool
	Contains(key K) bool
	// First returns the minimum key, ErrKeyNotFound if empty.
	First() (K, error)
	// Last returns the maximum key, ErrKeyNotFound if empty.
	Last() (K, error)
	Len() int64
	// Comparator returns the order in effect, never nil.
	Comparator() infra.Comparator[K]
	SubSet(from, to K) (SortedSet[K], error)
	HeadSet(to K) (SortedSet[K], error)
	TailSet(from K) (SortedSet[K], error)
	Iterator() (func(yield func(K) bool), error)
	// String is a diagnostic rendering, not a stable format.
	String() string
}

type BalancedSortedSet[K any] interface {
	SortedSet[K]
	// CheckBalanced walks the whole tree and returns the first
	// invariant violation as *BalanceViolationError.
	// Verification only, it costs O(n).
	CheckBalanced() error
}
