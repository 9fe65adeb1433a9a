// Package arena implements the bump/pool allocator collaborator the trie
// relies on: many small, same-lifetime allocations carved out of a handful
// of large slabs and released all at once, instead of one-by-one.
package arena

import (
	"errors"
	"fmt"
	"reflect"
	"unsafe"
)

// ErrExhausted is returned when a bounded Arena has no room left for a
// request. Unbounded arenas (the default) never return it.
var ErrExhausted = errors.New("arena: exhausted")

// Logger is the minimal diagnostic sink an Arena can be given. It is
// satisfied by *zerolog.Logger (via a small adapter in the ptrie package)
// and by nil, which disables diagnostics entirely.
type Logger interface {
	Warn(format string, args ...any)
}

const defaultSlabSize = 4096

// Arena is a growable bump allocator. Allocations are served from the tail
// of the current slab; when a slab can't satisfy a request a fresh one is
// grown (or, for a bounded arena, ErrExhausted is returned). Destroy drops
// every slab at once; there is no per-object free.
type Arena struct {
	slab     []byte // current slab, not yet fully handed out
	used     int    // bytes handed out of slab
	slabSize int
	maxTotal int // 0 means unbounded
	total    int // bytes vended across the arena's lifetime
	log      Logger
}

// Option configures an Arena at construction time.
type Option func(*Arena)

// WithSlabSize overrides the default slab size used when growing.
func WithSlabSize(n int) Option {
	return func(a *Arena) {
		if n > 0 {
			a.slabSize = n
		}
	}
}

// WithLogger attaches a diagnostic sink for slab growth and exhaustion.
func WithLogger(l Logger) Option {
	return func(a *Arena) { a.log = l }
}

// New returns an unbounded Arena.
func New(opts ...Option) *Arena {
	a := &Arena{slabSize: defaultSlabSize}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// NewBounded returns an Arena that fails AllocBytes/Alloc with
// ErrExhausted once maxTotal bytes have been vended. This exists so that
// split-transactionality under allocation failure (spec: AllocFailed) can
// be exercised deterministically in tests.
func NewBounded(maxTotal int, opts ...Option) *Arena {
	a := New(opts...)
	a.maxTotal = maxTotal
	return a
}

func (a *Arena) grow(want int) bool {
	size := a.slabSize
	if want > size {
		size = want
	}
	if a.maxTotal > 0 && a.total+size > a.maxTotal {
		// try to fit exactly what's left instead of a full slab
		size = a.maxTotal - a.total
		if size < want {
			return false
		}
	}
	a.slab = make([]byte, size)
	a.used = 0
	if a.log != nil {
		a.log.Warn("arena: grew slab of %d bytes (total now %d)", size, a.total+size)
	}
	return true
}

// AllocBytes returns n zeroed bytes carved out of the arena's current
// slab, growing a new slab if necessary. The returned slice is only valid
// for the lifetime of the arena.
func (a *Arena) AllocBytes(n int) ([]byte, error) {
	if n == 0 {
		return nil, nil
	}
	if a.used+n > len(a.slab) {
		if !a.grow(n) {
			if a.log != nil {
				a.log.Warn("arena: exhausted requesting %d bytes", n)
			}
			return nil, ErrExhausted
		}
	}
	b := a.slab[a.used : a.used+n : a.used+n]
	a.used += n
	a.total += n
	return b, nil
}

// Alloc returns a zeroed *T carved out of the arena's raw byte slabs.
//
// T must be pointer-free (no pointers, slices, interfaces, maps, chans,
// or funcs anywhere in its layout, recursively). A []byte slab is
// allocated without pointer metadata, so the garbage collector never
// scans it for interior pointers; casting such a slab to a *T that
// contains pointers would let the collector reclaim objects still only
// reachable through that cast, corrupting memory. Alloc panics if T
// fails that check — this is a programmer error, caught via reflection
// on every call, not a runtime data condition. Types that
// hold pointers (ptrie's node, with its child pointers and any payload)
// are deliberately allocated on the regular Go heap instead; see
// node.go for that decision.
func Alloc[T any](a *Arena) (*T, error) {
	var zero T
	if !isPointerFree(reflect.TypeOf(zero)) {
		panic(fmt.Sprintf("arena: %T contains pointers and cannot be arena-allocated", zero))
	}
	size := int(unsafe.Sizeof(zero))
	if size == 0 {
		return new(T), nil
	}
	buf, err := a.AllocBytes(size)
	if err != nil {
		return nil, err
	}
	return (*T)(unsafe.Pointer(&buf[0])), nil
}

func isPointerFree(t reflect.Type) bool {
	if t == nil {
		return true
	}
	switch t.Kind() {
	case reflect.Pointer, reflect.Slice, reflect.Interface, reflect.Map, reflect.Chan, reflect.Func, reflect.UnsafePointer, reflect.String:
		return false
	case reflect.Array:
		return isPointerFree(t.Elem())
	case reflect.Struct:
		for i := 0; i < t.NumField(); i++ {
			if !isPointerFree(t.Field(i).Type) {
				return false
			}
		}
		return true
	default:
		return true
	}
}

// Destroy releases every slab. The Arena is left empty and reusable; Go's
// garbage collector reclaims the underlying memory once nothing else
// references slices carved out of it.
func (a *Arena) Destroy() {
	a.slab = nil
	a.used = 0
	a.total = 0
}

// Allocated reports the total number of bytes vended so far, for tests and
// diagnostics.
func (a *Arena) Allocated() int {
	return a.total
}
