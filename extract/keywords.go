// SPDX-License-Identifier: MIT

// Package extract implements the heuristic, dependency-free keyword,
// summary, and snippet extraction applied to a page's title and body before
// it reaches the graph store (component C2).
package extract

import (
	"regexp"
	"sort"
	"strings"
)

// MaxKeywords is the number of top-scoring terms Keywords returns.
const MaxKeywords = 12

// minTokenLen excludes words too short to carry topical signal.
const minTokenLen = 3

var nonWordRun = regexp.MustCompile(`[^\p{L}\p{N}]+`)

// tokenize lowercases text and splits it into contiguous runs of letters and
// digits, discarding punctuation and whitespace.
func tokenize(text string) []string {
	lower := strings.ToLower(text)
	fields := nonWordRun.Split(lower, -1)
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		if f != "" {
			out = append(out, f)
		}
	}
	return out
}

// Keywords extracts up to MaxKeywords candidate topic terms from title and
// body: tokens are scored by raw frequency plus a bonus for appearing in the
// title, stop words and short tokens are discarded, and ties are broken
// lexicographically for determinism.
func Keywords(title, body string) []string {
	titleTokens := tokenize(title)
	inTitle := make(map[string]bool, len(titleTokens))
	for _, t := range titleTokens {
		inTitle[t] = true
	}

	counts := make(map[string]int)
	for _, t := range append(titleTokens, tokenize(body)...) {
		if len(t) < minTokenLen || stopWords[t] {
			continue
		}
		counts[t]++
	}

	type scored struct {
		term  string
		score float64
	}
	ranked := make([]scored, 0, len(counts))
	for term, count := range counts {
		score := float64(count)
		if inTitle[term] {
			score += 3
		}
		ranked = append(ranked, scored{term: term, score: score})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].score != ranked[j].score {
			return ranked[i].score > ranked[j].score
		}
		return ranked[i].term < ranked[j].term
	})

	n := MaxKeywords
	if n > len(ranked) {
		n = len(ranked)
	}
	out := make([]string, n)
	for i := 0; i < n; i++ {
		out[i] = ranked[i].term
	}
	return out
}
