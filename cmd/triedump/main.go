// Command triedump builds a trie from CIDR/value pairs read on stdin and
// answers longest-prefix-match queries for each argument, printing a dump
// of the final trie to stderr. It exists to exercise the ptrie package
// end-to-end and as a worked example of wiring an Arena and a Trie
// together, in the spirit of gaissmai/bart's cmd/main.go driver.
package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog"

	ptrie "github.com/pilcrow/ironbee"
	"github.com/pilcrow/ironbee/internal/arena"
)

func main() {
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: triedump <query-cidr> [<query-cidr> ...] < pairs.txt")
		os.Exit(2)
	}

	a := arena.New(arena.WithLogger(ptrie.NewArenaLogger(log)))
	trie := ptrie.New(a)

	n, err := loadPairs(a, trie, os.Stdin, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load CIDR/value pairs")
	}
	log.Info().Int("count", n).Msg("trie populated")

	for _, q := range os.Args[1:] {
		qp, err := ptrie.ParseCIDR(a, q)
		if err != nil {
			log.Error().Err(err).Str("query", q).Msg("invalid query CIDR")
			continue
		}
		val, err := trie.MatchClosest(qp)
		if err != nil {
			log.Warn().Str("query", q).Msg("no match")
			continue
		}
		fmt.Printf("%s -> %v\n", q, val)
	}

	if err := trie.Dump(os.Stderr); err != nil {
		log.Error().Err(err).Msg("dump failed")
	}
}

// loadPairs reads "<cidr> <value>" lines from r, one pair per line, and
// inserts each into trie. Blank lines and lines starting with '#' are
// skipped.
func loadPairs(a *arena.Arena, trie *ptrie.Trie, r *os.File, log zerolog.Logger) (int, error) {
	scanner := bufio.NewScanner(r)
	n := 0
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) != 2 {
			log.Warn().Str("line", line).Msg("skipping malformed line, want \"<cidr> <value>\"")
			continue
		}
		p, err := ptrie.ParseCIDR(a, fields[0])
		if err != nil {
			log.Warn().Err(err).Str("cidr", fields[0]).Msg("skipping unparseable CIDR")
			continue
		}
		if err := trie.Insert(p, fields[1]); err != nil {
			return n, fmt.Errorf("inserting %s: %w", fields[0], err)
		}
		n++
	}
	return n, scanner.Err()
}
