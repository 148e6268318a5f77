// SPDX-License-Identifier: MIT
package graphstore_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/haldane-labs/browsectx/graphstore"
)

func TestSnapshotRoundTrip(t *testing.T) {
	g := graphstore.NewGraph()
	require.NoError(t, g.Ingest(graphstore.VisitInput{
		URL: "https://a.com", Title: "A", Keywords: []string{"one", "two"}, Timestamp: 10,
	}))
	require.NoError(t, g.Ingest(graphstore.VisitInput{
		URL: "https://b.com", Keywords: []string{"two", "three"}, Timestamp: 20,
	}))

	path := filepath.Join(t.TempDir(), "graph.snap")
	require.NoError(t, g.Snapshot(path))

	g2 := graphstore.NewGraph()
	require.NoError(t, g2.Hydrate(path))

	require.Equal(t, g.NodeCount(), g2.NodeCount())
	require.Equal(t, g.EdgeCount(), g2.EdgeCount())

	w1, ok1 := g.EdgeWeight(graphstore.KeywordID("two"), graphstore.KeywordID("three"))
	w2, ok2 := g2.EdgeWeight(graphstore.KeywordID("two"), graphstore.KeywordID("three"))
	require.True(t, ok1)
	require.True(t, ok2)
	require.Equal(t, w1, w2)
}

func TestHydrate_MissingFileIsNotError(t *testing.T) {
	g := graphstore.NewGraph()
	err := g.Hydrate(filepath.Join(t.TempDir(), "does-not-exist.snap"))
	require.NoError(t, err)
	require.Equal(t, 0, g.NodeCount())
}

func TestHydrate_CorruptFileLeavesGraphUntouched(t *testing.T) {
	g := graphstore.NewGraph()
	require.NoError(t, g.Ingest(graphstore.VisitInput{URL: "https://a.com", Keywords: []string{"x"}, Timestamp: 1}))

	path := filepath.Join(t.TempDir(), "bad.snap")
	require.NoError(t, writeGarbage(path))

	err := g.Hydrate(path)
	require.Error(t, err)
	require.Equal(t, 2, g.NodeCount()) // untouched
}
