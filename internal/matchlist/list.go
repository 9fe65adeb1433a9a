// Package matchlist is the list collaborator match_all hands results
// back through: append-to-tail, a running count, and forward iteration.
// It is a thin generic wrapper around container/list, the same
// container/list shape WireGuard's AllowedIPs.EntriesForPeer uses to
// walk a peer's matched trie entries.
package matchlist

import "container/list"

// List is an append-only, forward-iterable sequence of T.
type List[T any] struct {
	l list.List
}

// New returns an empty List.
func New[T any]() *List[T] {
	ml := &List[T]{}
	ml.l.Init()
	return ml
}

// PushBack appends v to the tail of the list.
func (ml *List[T]) PushBack(v T) {
	ml.l.PushBack(v)
}

// Len returns the number of elements currently stored.
func (ml *List[T]) Len() int {
	return ml.l.Len()
}

// Each calls fn once per element, front to back, stopping early if fn
// returns false.
func (ml *List[T]) Each(fn func(T) bool) {
	for e := ml.l.Front(); e != nil; e = e.Next() {
		if !fn(e.Value.(T)) {
			return
		}
	}
}

// Slice materializes the list into a plain slice, in iteration order.
func (ml *List[T]) Slice() []T {
	out := make([]T, 0, ml.Len())
	ml.Each(func(v T) bool {
		out = append(out, v)
		return true
	})
	return out
}
