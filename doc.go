// Package ptrie implements a binary radix (Patricia) trie keyed by
// arbitrary bit-strings, specialized for longest-prefix matching of IPv4
// and IPv6 CIDR ranges.
//
// The trie supports insertion of (prefix, value) pairs, exact-prefix
// lookup, closest-enclosing-prefix lookup (longest-prefix match), and
// enumeration of every value whose key is matched by a query prefix. It
// is not safe for concurrent mutation; callers needing concurrent reads
// and writes must provide their own synchronization.
package ptrie
