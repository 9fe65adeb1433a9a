package ptrie

import "errors"

// ErrNotFound indicates that a query found no matching entry. It is a
// normal, expected outcome, not a failure: callers distinguish it from
// real errors with errors.Is.
var ErrNotFound = errors.New("ptrie: not found")

// ErrInvalidInput indicates malformed CIDR text or a mask length outside
// the address family's valid range.
var ErrInvalidInput = errors.New("ptrie: invalid input")

// ErrAllocFailed indicates the backing arena could not satisfy an
// allocation. The trie is guaranteed to be left in its prior,
// well-formed state: a split that fails partway through never leaves a
// half-attached node.
var ErrAllocFailed = errors.New("ptrie: allocation failed")

// ErrInvalidArg indicates a nil trie, a nil prefix, or a zero-length
// prefix passed to Insert.
var ErrInvalidArg = errors.New("ptrie: invalid argument")
