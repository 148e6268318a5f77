// SPDX-License-Identifier: MIT
package graphstore_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/haldane-labs/browsectx/graphstore"
)

func TestEnforceCap_EvictsDownToMax(t *testing.T) {
	g := graphstore.NewGraph(graphstore.WithMaxNodes(5))
	for i := 0; i < 4; i++ {
		url := "https://example.com/p" + string(rune('a'+i))
		term := "kw" + string(rune('a'+i))
		require.NoError(t, g.Ingest(graphstore.VisitInput{
			URL: url, Keywords: []string{term}, Timestamp: float64(i),
		}))
	}
	require.LessOrEqual(t, g.NodeCount(), 5)
}

func TestEnforceCap_PrefersEvictingStaleOverFresh(t *testing.T) {
	g := graphstore.NewGraph(graphstore.WithMaxNodes(3), graphstore.WithDecayRate(0.0))
	require.NoError(t, g.Ingest(graphstore.VisitInput{
		URL: "https://old.com", Keywords: []string{"ancient"}, Timestamp: 0,
	}))
	require.NoError(t, g.Ingest(graphstore.VisitInput{
		URL: "https://new.com", Keywords: []string{"fresh"}, Timestamp: 1_000_000,
	}))
	_, freshStillPresent := g.Node(graphstore.PageID("https://new.com"))
	require.True(t, freshStillPresent)
}
