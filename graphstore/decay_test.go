// SPDX-License-Identifier: MIT
package graphstore_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/haldane-labs/browsectx/graphstore"
)

func TestDecaySweep_WeightShrinksWithAge(t *testing.T) {
	g := graphstore.NewGraph(graphstore.WithDecayRate(0.1), graphstore.WithPruneThreshold(1e-6))
	require.NoError(t, g.Ingest(graphstore.VisitInput{
		URL: "https://a.com", Keywords: []string{"one", "two"}, Timestamp: 0,
	}))

	w0, _ := g.EdgeWeight(graphstore.KeywordID("one"), graphstore.KeywordID("two"))
	require.Equal(t, 1.0, w0)

	require.NoError(t, g.DecaySweep(3600)) // 1 hour later
	w1, ok := g.EdgeWeight(graphstore.KeywordID("one"), graphstore.KeywordID("two"))
	require.True(t, ok)
	require.InDelta(t, math.Exp(-0.1), w1, 1e-9)
}

func TestDecaySweep_PrunesBelowThresholdAndOrphans(t *testing.T) {
	g := graphstore.NewGraph(graphstore.WithDecayRate(1.0), graphstore.WithPruneThreshold(0.5))
	require.NoError(t, g.Ingest(graphstore.VisitInput{
		URL: "https://a.com", Keywords: []string{"stale"}, Timestamp: 0,
	}))
	require.NoError(t, g.DecaySweep(36000)) // far enough that exp(-λΔt) << 0.5

	_, ok := g.EdgeWeight(graphstore.PageID("https://a.com"), graphstore.KeywordID("stale"))
	require.False(t, ok, "edge should have been pruned")
	_, ok = g.Node(graphstore.KeywordID("stale"))
	require.False(t, ok, "orphaned keyword should have been removed")
	_, ok = g.Node(graphstore.PageID("https://a.com"))
	require.True(t, ok, "page nodes survive orphaning")
}
