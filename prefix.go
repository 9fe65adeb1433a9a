package ptrie

import (
	"fmt"
	"math/bits"

	"github.com/pilcrow/ironbee/internal/arena"
)

// Prefix is an immutable bit-string with an explicit significant length.
// Bits are stored MSB-first within each byte, matching the network byte
// order the CIDR parser produces. Bits at or beyond bitLen are never
// inspected and are not guaranteed to be zero.
type Prefix struct {
	bits   []byte
	bitLen int
}

// Len returns the number of significant bits.
func (p Prefix) Len() int { return p.bitLen }

// Bytes returns the raw backing bytes. The caller must not mutate them;
// Prefix is value-semantic after construction.
func (p Prefix) Bytes() []byte { return p.bits }

// Bit returns the bit at position i (0 = MSB of byte 0), as 0 or 1. It
// panics if i is out of [0, bitLen).
func (p Prefix) Bit(i int) byte {
	if i < 0 || i >= p.bitLen {
		panic("ptrie: bit index out of range")
	}
	return (p.bits[i/8] >> (7 - uint(i%8))) & 1
}

// NewPrefix returns an empty prefix (no bits, Len()==0).
func NewPrefix(a *arena.Arena) Prefix {
	return Prefix{}
}

// CreatePrefix copies ceil(bitLen/8) bytes out of raw and returns a Prefix
// of the given significant length. The arena owns the copy; raw may be
// reused or discarded by the caller immediately after this call returns.
func CreatePrefix(a *arena.Arena, raw []byte, bitLen int) (Prefix, error) {
	if bitLen < 0 {
		return Prefix{}, fmt.Errorf("%w: negative bit length %d", ErrInvalidArg, bitLen)
	}
	nbytes := (bitLen + 7) / 8
	if nbytes > len(raw) {
		return Prefix{}, fmt.Errorf("%w: bit length %d exceeds %d available bytes", ErrInvalidArg, bitLen, len(raw))
	}
	if nbytes == 0 {
		return Prefix{bitLen: bitLen}, nil
	}
	buf, err := a.AllocBytes(nbytes)
	if err != nil {
		return Prefix{}, fmt.Errorf("%w: %v", ErrAllocFailed, err)
	}
	copy(buf, raw[:nbytes])
	return Prefix{bits: buf, bitLen: bitLen}, nil
}

// commonPrefixLen returns the number of leading bits that agree between a
// (starting at bit offset aFrom) and b (starting at bit offset bFrom), up
// to the shorter of the two remaining lengths. This is the bit-compare
// helper spec'd as the basis of every traversal decision: insertion,
// exact match, closest match, and match-all all resolve on top of it.
func commonPrefixLen(a Prefix, aFrom int, b Prefix, bFrom int) int {
	aRem := a.bitLen - aFrom
	bRem := b.bitLen - bFrom
	max := aRem
	if bRem < max {
		max = bRem
	}
	if max <= 0 {
		return 0
	}

	n := 0
	for n < max {
		ai := aFrom + n
		bi := bFrom + n
		// Fast path: both indices are byte-aligned and at least a full
		// byte remains to compare, so compare whole bytes via XOR +
		// LeadingZeros8 instead of bit by bit.
		if ai%8 == 0 && bi%8 == 0 && max-n >= 8 {
			x := a.bits[ai/8] ^ b.bits[bi/8]
			if x != 0 {
				lz := bits.LeadingZeros8(x)
				return n + lz
			}
			n += 8
			continue
		}
		if a.Bit(ai) != b.Bit(bi) {
			return n
		}
		n++
	}
	return max
}

// Contains reports whether p is a bit-prefix of other: p.Len() <=
// other.Len() and their first p.Len() bits agree. An empty prefix (Len()
// == 0) is contained in every prefix, including itself.
func (p Prefix) Contains(other Prefix) bool {
	if p.bitLen > other.bitLen {
		return false
	}
	return commonPrefixLen(p, 0, other, 0) >= p.bitLen
}

// copyBitSubrange copies bits [from, to) of p into a new arena-owned
// Prefix of length to-from. Used by insert's split logic to carve out
// the interior node's shared edge and the "remaining" suffixes of an
// edge or key on either side of a divergence point.
func copyBitSubrange(a *arena.Arena, p Prefix, from, to int) (Prefix, error) {
	newLen := to - from
	if newLen <= 0 {
		return Prefix{}, nil
	}
	nbytes := (newLen + 7) / 8
	buf, err := a.AllocBytes(nbytes)
	if err != nil {
		return Prefix{}, fmt.Errorf("%w: %v", ErrAllocFailed, err)
	}
	for i := 0; i < newLen; i++ {
		if p.Bit(from+i) == 1 {
			buf[i/8] |= 1 << (7 - uint(i%8))
		}
	}
	return Prefix{bits: buf, bitLen: newLen}, nil
}

// copyBitRange copies bits [from, p.Len()) of p into a new arena-owned
// Prefix whose own Len() is p.Len()-from.
func copyBitRange(a *arena.Arena, p Prefix, from int) (Prefix, error) {
	return copyBitSubrange(a, p, from, p.bitLen)
}

// String renders p as a "bits/len" debug representation; it is not a
// canonical CIDR text form (host bits beyond Len() are never masked, per
// the package's documented comparison semantics).
func (p Prefix) String() string {
	s := make([]byte, p.bitLen)
	for i := 0; i < p.bitLen; i++ {
		if p.Bit(i) == 1 {
			s[i] = '1'
		} else {
			s[i] = '0'
		}
	}
	return fmt.Sprintf("%s/%d", s, p.bitLen)
}
