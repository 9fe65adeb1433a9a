package ptrie

import "github.com/rs/zerolog"

// zerologAdapter satisfies arena.Logger with a *zerolog.Logger, the way
// optakt/flow-dps wires a package-level zerolog.Logger into its trie
// package for structured diagnostics (ledger/forest/trie/trie.go).
type zerologAdapter struct {
	log zerolog.Logger
}

// NewArenaLogger wraps log so it can be passed to arena.WithLogger. Arena
// growth and exhaustion are logged at warn level; neither is fatal, but
// exhaustion usually means a caller should size its arenas more generously.
func NewArenaLogger(log zerolog.Logger) *zerologAdapter {
	return &zerologAdapter{log: log}
}

func (z *zerologAdapter) Warn(format string, args ...any) {
	z.log.Warn().Msgf(format, args...)
}
