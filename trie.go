package ptrie

import (
	"fmt"
	"io"
	"strings"

	"github.com/pilcrow/ironbee/internal/arena"
	"github.com/pilcrow/ironbee/internal/matchlist"
)

// UpdateFunc resolves an insertion that targets a node already carrying a
// payload. It receives the old and new values and returns the value to
// store. If nil, the default behavior applies: the old value is passed
// to FreeFunc (if configured and the two values differ) and then
// unconditionally overwritten.
type UpdateFunc func(old, new any) any

// FreeFunc is invoked when a stored payload is displaced — by an
// overwriting insert under the default update behavior, or never
// otherwise, since the trie supports no deletion.
type FreeFunc func(old any)

// PrintFunc renders a single stored value during Dump. key is the node's
// edge (the bits consumed from its parent), not the full stored key.
type PrintFunc func(w io.Writer, key Prefix, data any)

// Option configures a Trie at construction time.
type Option func(*Trie)

// WithUpdateFunc installs a custom resolution for insert-into-occupied-node.
func WithUpdateFunc(fn UpdateFunc) Option { return func(t *Trie) { t.update = fn } }

// WithFreeFunc installs the payload-retirement callback.
func WithFreeFunc(fn FreeFunc) Option { return func(t *Trie) { t.free = fn } }

// WithPrintFunc installs the callback Dump renders each entry with.
func WithPrintFunc(fn PrintFunc) Option { return func(t *Trie) { t.print = fn } }

// Trie is a binary radix (Patricia) trie keyed by bit-strings, specialized
// for IPv4/IPv6 longest-prefix matching. The zero value is not usable;
// construct with New. A Trie is not safe for concurrent mutation.
type Trie struct {
	root   *node
	count  int
	update UpdateFunc
	free   FreeFunc
	print  PrintFunc
	arena  *arena.Arena
}

// New returns an empty Trie backed by a. Edge-prefix storage for this
// trie's lifetime is served from a; nodes are allocated on the regular Go
// heap, not from a (see node).
func New(a *arena.Arena, opts ...Option) *Trie {
	t := &Trie{arena: a}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Count returns the number of distinct keys currently holding a payload.
func (t *Trie) Count() int {
	if t == nil {
		return 0
	}
	return t.count
}

// Insert stores data under key, creating or splitting nodes as needed.
// Re-inserting an existing key replaces its payload (via UpdateFunc, or
// the default overwrite-and-free behavior) without changing Count.
func (t *Trie) Insert(key Prefix, data any) error {
	if t == nil {
		return ErrInvalidArg
	}
	if key.Len() == 0 {
		return fmt.Errorf("%w: zero-length prefix", ErrInvalidArg)
	}

	if t.root == nil {
		edge, err := copyBitRange(t.arena, key, 0)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrAllocFailed, err)
		}
		n, err := newNode(t.arena)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrAllocFailed, err)
		}
		n.edge = edge
		n.hasData = true
		n.data = data
		t.root = n
		t.count++
		return nil
	}

	slot := &t.root
	off := 0

	for {
		n := *slot
		edgeLen := n.edge.Len()
		keyRem := key.Len() - off
		common := commonPrefixLen(n.edge, 0, key, off)

		switch {
		case common == edgeLen && common == keyRem:
			// Case B: K equals E exactly. n is the target node.
			t.resolveExisting(n, data)
			return nil

		case common == edgeLen && common < keyRem:
			// Case A: E is a proper prefix of K. Consume it and descend.
			off += edgeLen
			bit := key.Bit(off)
			child := n.child(bit)
			if child == nil {
				suffix, err := copyBitRange(t.arena, key, off)
				if err != nil {
					return fmt.Errorf("%w: %v", ErrAllocFailed, err)
				}
				leaf, err := newNode(t.arena)
				if err != nil {
					return fmt.Errorf("%w: %v", ErrAllocFailed, err)
				}
				leaf.edge = suffix
				leaf.hasData = true
				leaf.data = data
				n.setChild(bit, leaf)
				t.count++
				return nil
			}
			slot = n.childSlot(bit)
			continue

		default:
			// common < edgeLen: either K is a proper prefix of E (Case D,
			// common == keyRem) or the two diverge strictly inside both
			// (Case C, common < keyRem). Both are a split at bit offset
			// common, differing only in whether the new node also gets a
			// sibling leaf (C) or is the split point itself (D).
			return t.split(slot, n, key, off, common, data)
		}
	}
}

// resolveExisting applies the update/free policy for an insert that
// lands exactly on an existing node.
func (t *Trie) resolveExisting(n *node, data any) {
	if !n.hasData {
		n.hasData = true
		n.data = data
		t.count++
		return
	}
	if t.update != nil {
		n.data = t.update(n.data, data)
		return
	}
	old := n.data
	if t.free != nil && differs(old, data) {
		t.free(old)
	}
	n.data = data
}

// split handles insertion Cases C and D: the key diverges from n's edge
// at bit offset (off+common). It allocates every new Prefix and node
// before mutating any existing pointer, so that an ErrAllocFailed part
// way through leaves the trie exactly as it was (spec: splits are
// transactional with respect to allocation failure).
func (t *Trie) split(slot **node, n *node, key Prefix, off, common int, data any) error {
	// I's edge is the shared prefix: bits [off, off+common) of key
	// (equivalently of n.edge, since they agree up to common).
	sharedEdge, err := copyBitSubrange(t.arena, key, off, off+common)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrAllocFailed, err)
	}

	keyRem := key.Len() - off
	if common == keyRem {
		// Case D: K is a proper prefix of E. I is the new node carrying
		// the inserted data directly; M is n with its edge truncated to
		// the bits after the split point, attached as I's only child.
		truncatedEdge, err := copyBitRange(t.arena, n.edge, common)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrAllocFailed, err)
		}
		interior, err := newNode(t.arena)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrAllocFailed, err)
		}

		bit := n.edge.Bit(common)
		n.edge = truncatedEdge
		interior.edge = sharedEdge
		interior.hasData = true
		interior.data = data
		interior.setChild(bit, n)

		*slot = interior
		t.count++
		return nil
	}

	// Case C: both n's edge and the key extend past the split point and
	// disagree at bit (off+common). I gets two children: M (n, edge
	// truncated) and L, a fresh leaf for the key's own remaining suffix.
	truncatedEdge, err := copyBitRange(t.arena, n.edge, common)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrAllocFailed, err)
	}
	leafEdge, err := copyBitRange(t.arena, key, off+common)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrAllocFailed, err)
	}
	interior, err := newNode(t.arena)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrAllocFailed, err)
	}
	leaf, err := newNode(t.arena)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrAllocFailed, err)
	}

	mBit := n.edge.Bit(common)
	lBit := key.Bit(off + common)

	n.edge = truncatedEdge
	leaf.edge = leafEdge
	leaf.hasData = true
	leaf.data = data

	interior.edge = sharedEdge
	interior.setChild(mBit, n)
	interior.setChild(lBit, leaf)

	*slot = interior
	t.count++
	return nil
}

// differs reports whether a and b are unequal, treating incomparable
// dynamic types (e.g. a slice-typed payload) as always different so the
// default update policy errs toward calling FreeFunc rather than
// silently skipping it.
func differs(a, b any) (ok bool) {
	defer func() {
		if recover() != nil {
			ok = true
		}
	}()
	return a != b
}

// MatchExact returns the payload stored for exactly key — not a covering
// or covered prefix. ErrNotFound if no key-ending node matches exactly
// and carries a payload.
func (t *Trie) MatchExact(key Prefix) (any, error) {
	if t == nil || t.root == nil {
		return nil, ErrNotFound
	}

	n := t.root
	off := 0
	for n != nil {
		edgeLen := n.edge.Len()
		common := commonPrefixLen(n.edge, 0, key, off)
		if common != edgeLen {
			return nil, ErrNotFound
		}
		off += edgeLen
		if off == key.Len() {
			if n.hasData {
				return n.data, nil
			}
			return nil, ErrNotFound
		}
		bit := key.Bit(off)
		n = n.child(bit)
	}
	return nil, ErrNotFound
}

// MatchClosest performs longest-prefix match: it returns the payload of
// the deepest stored key that is a bit-prefix of key. ErrNotFound if no
// stored key qualifies.
func (t *Trie) MatchClosest(key Prefix) (any, error) {
	if t == nil {
		return nil, ErrNotFound
	}

	n := t.root
	off := 0
	var found any
	ok := false

	for n != nil {
		edgeLen := n.edge.Len()
		common := commonPrefixLen(n.edge, 0, key, off)
		if common != edgeLen {
			break
		}
		off += edgeLen
		if n.hasData {
			found, ok = n.data, true
		}
		if off >= key.Len() {
			break
		}
		bit := key.Bit(off)
		n = n.child(bit)
	}

	if ok {
		return found, nil
	}
	return nil, ErrNotFound
}

// MatchAll returns every stored payload whose key is matched by key,
// i.e. every stored key K' such that key is a bit-prefix of K'. The
// returned list collaborator is freshly allocated per call; its iteration
// order is unspecified (depth-first, left child before right). If the
// descent diverges before all of key's bits are consumed, the result is
// an empty list with ErrNotFound; otherwise the list (possibly empty) is
// returned with a nil error.
func (t *Trie) MatchAll(key Prefix) (*matchlist.List[any], error) {
	out := matchlist.New[any]()
	if t == nil {
		return out, ErrNotFound
	}

	n := t.root
	off := 0
	for {
		if n == nil {
			return matchlist.New[any](), ErrNotFound
		}
		edgeLen := n.edge.Len()
		keyRem := key.Len() - off
		common := commonPrefixLen(n.edge, 0, key, off)

		switch {
		case common == keyRem:
			collectSubtree(n, out)
			return out, nil
		case common == edgeLen:
			off += edgeLen
			bit := key.Bit(off)
			n = n.child(bit)
			continue
		default:
			return matchlist.New[any](), ErrNotFound
		}
	}
}

func collectSubtree(n *node, out *matchlist.List[any]) {
	if n == nil {
		return
	}
	if n.hasData {
		out.PushBack(n.data)
	}
	collectSubtree(n.zero, out)
	collectSubtree(n.one, out)
}

// Clone produces a structurally identical trie whose edge Prefixes are
// bitwise copies allocated in dst; its nodes are allocated on the regular
// Go heap, not in dst. Payload references are copied
// verbatim (shallow — the trie never owns payloads). After a successful
// Clone, the source trie's arena may be destroyed without affecting the
// clone.
func (t *Trie) Clone(dst *arena.Arena) (*Trie, error) {
	return t.cloneWith(dst, nil)
}

// CloneWith is Clone, but rewrites every payload through xform as it
// copies — useful for deep-copying payloads into the destination arena's
// lifetime instead of sharing references with the source trie.
func (t *Trie) CloneWith(dst *arena.Arena, xform func(old any) any) (*Trie, error) {
	return t.cloneWith(dst, xform)
}

func (t *Trie) cloneWith(dst *arena.Arena, xform func(old any) any) (*Trie, error) {
	if t == nil {
		return nil, ErrInvalidArg
	}
	nt := &Trie{arena: dst, update: t.update, free: t.free, print: t.print}
	root, err := cloneNode(dst, t.root, xform)
	if err != nil {
		return nil, err
	}
	nt.root = root
	nt.count = t.count
	return nt, nil
}

func cloneNode(dst *arena.Arena, n *node, xform func(old any) any) (*node, error) {
	if n == nil {
		return nil, nil
	}

	var edgeCopy Prefix
	if n.edge.Len() > 0 {
		var err error
		edgeCopy, err = CreatePrefix(dst, n.edge.Bytes(), n.edge.Len())
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrAllocFailed, err)
		}
	}

	newN, err := newNode(dst)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAllocFailed, err)
	}
	newN.edge = edgeCopy
	newN.hasData = n.hasData
	if n.hasData {
		if xform != nil {
			newN.data = xform(n.data)
		} else {
			newN.data = n.data
		}
	}

	newN.zero, err = cloneNode(dst, n.zero, xform)
	if err != nil {
		return nil, err
	}
	newN.one, err = cloneNode(dst, n.one, xform)
	if err != nil {
		return nil, err
	}
	return newN, nil
}

// Dump writes a depth-indented rendering of the trie to w, one line per
// visited node, calling PrintFunc for each data-bearing node. It exists
// for development and debugging, in the spirit of the original radix
// implementation's recursive node printer.
func (t *Trie) Dump(w io.Writer) error {
	if t == nil || t.root == nil {
		_, err := fmt.Fprintln(w, "(empty)")
		return err
	}
	return dumpRec(w, t.print, t.root, 0)
}

func dumpRec(w io.Writer, print PrintFunc, n *node, depth int) error {
	indent := strings.Repeat(".", depth)
	tag := "[NODE]"
	if n.hasData {
		tag = "[DATA]"
	}
	if _, err := fmt.Fprintf(w, "%s%s edge=%s\n", indent, tag, n.edge); err != nil {
		return err
	}
	if n.hasData && print != nil {
		print(w, n.edge, n.data)
	}
	if n.zero != nil {
		if err := dumpRec(w, print, n.zero, depth+1); err != nil {
			return err
		}
	}
	if n.one != nil {
		if err := dumpRec(w, print, n.one, depth+1); err != nil {
			return err
		}
	}
	return nil
}
