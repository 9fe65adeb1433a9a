package ptrie

import (
	"fmt"
	"net/netip"
	"strings"

	"github.com/pilcrow/ironbee/internal/arena"
)

// ParseCIDR converts textual IPv4 ("A.B.C.D[/N]") or IPv6
// ("H:H:...:H[/N]", RFC 4291 §2.2, including "::" compression) into a
// Prefix of the address family's bit width, allocated from a. Without a
// "/N" suffix the prefix length is the full address width (32 or 128).
// Family is detected by the presence of ':' versus '.', the same job
// WireGuard's uapi.go "allowed_ip" handler uses net/netip.ParsePrefix
// for.
//
// Bytes beyond the declared prefix length are preserved, not masked:
// callers wanting a canonical network address must mask externally.
func ParseCIDR(a *arena.Arena, text string) (Prefix, error) {
	if text == "" {
		return Prefix{}, fmt.Errorf("%w: empty CIDR text", ErrInvalidInput)
	}

	if strings.ContainsRune(text, '/') {
		p, err := netip.ParsePrefix(text)
		if err != nil {
			return Prefix{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		raw := addrBytes(p.Addr())
		pfx, err := CreatePrefix(a, raw, len(raw)*8)
		if err != nil {
			return Prefix{}, err
		}
		pfx.bitLen = p.Bits()
		return pfx, nil
	}

	addr, err := netip.ParseAddr(text)
	if err != nil {
		return Prefix{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	raw := addrBytes(addr)
	return CreatePrefix(a, raw, len(raw)*8)
}

func addrBytes(addr netip.Addr) []byte {
	if addr.Is4() {
		b := addr.As4()
		return b[:]
	}
	b := addr.As16()
	return b[:]
}
