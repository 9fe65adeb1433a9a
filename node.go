package ptrie

import "github.com/pilcrow/ironbee/internal/arena"

// node is an internal vertex of the trie. edge is the bit-string
// consumed when traversing to this node from its parent (empty only at
// the root); zero and one are the optional children selected by the
// next bit after edge; data is the payload for a key that ends exactly
// here, or nil if this node exists purely to fan out its children.
//
// Invariant: a node with both children nil and data nil must not exist
// — insert never creates one and split never leaves one behind.
//
// node holds child pointers and an opaque payload, so — unlike
// Prefix.bits — it is not carved out of the arena's raw byte slabs (see
// arena.Alloc's doc comment for why that would be unsafe for
// pointer-bearing types). It lives on the regular Go heap instead; the
// arena handle is still threaded through newNode to keep the call sites
// in trie.go uniform and to leave room for a future GC-aware arena
// implementation without changing callers.
type node struct {
	edge    Prefix
	zero    *node
	one     *node
	hasData bool
	data    any
}

// newNode allocates a zeroed node. a is accepted for API symmetry with
// the rest of the package's constructors (NewPrefix, CreatePrefix)
// even though node storage itself is not arena-backed; see the node
// struct's doc comment.
func newNode(a *arena.Arena) (*node, error) {
	_ = a
	return &node{}, nil
}

// child returns the child selected by bit (0 or 1).
func (n *node) child(bit byte) *node {
	if bit == 0 {
		return n.zero
	}
	return n.one
}

// childSlot returns the address of n's bit-selected child pointer field,
// so a caller descending the trie can later overwrite it — e.g. to
// attach a new interior node — without the trie needing back-pointers
// from child to parent. The descent routine keeps this on its own stack
// instead (spec design note: "back-pointers from child to parent are
// deliberately absent").
func (n *node) childSlot(bit byte) **node {
	if bit == 0 {
		return &n.zero
	}
	return &n.one
}

// setChild attaches child as n's bit-selected child.
func (n *node) setChild(bit byte, child *node) {
	if bit == 0 {
		n.zero = child
	} else {
		n.one = child
	}
}

// isEmpty reports whether n carries neither data nor any children — the
// state every trie operation must avoid producing.
func (n *node) isEmpty() bool {
	return !n.hasData && n.zero == nil && n.one == nil
}
