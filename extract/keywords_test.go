// SPDX-License-Identifier: MIT
package extract_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/haldane-labs/browsectx/extract"
)

func TestKeywords_TitleWordsRankHigher(t *testing.T) {
	kws := extract.Keywords(
		"Concurrency Patterns in Go",
		"Go provides goroutines and channels. Channels enable communication between goroutines.",
	)
	require.NotEmpty(t, kws)
	require.Contains(t, kws[:3], "concurrency")
}

func TestKeywords_StopWordsExcluded(t *testing.T) {
	kws := extract.Keywords("", "the and for with that this from")
	require.Empty(t, kws)
}

func TestKeywords_DeterministicOrdering(t *testing.T) {
	title := "Graph Theory Basics"
	body := "graph theory studies graphs. a graph has nodes and edges. theory underlies many algorithms."
	a := extract.Keywords(title, body)
	b := extract.Keywords(title, body)
	require.Equal(t, a, b)
}

func TestKeywords_CappedAtMax(t *testing.T) {
	body := ""
	for i := 0; i < 30; i++ {
		body += string(rune('a'+i%26)) + string(rune('a'+i%26)) + string(rune('a'+i%26)) + " "
	}
	kws := extract.Keywords("", body)
	require.LessOrEqual(t, len(kws), extract.MaxKeywords)
}
