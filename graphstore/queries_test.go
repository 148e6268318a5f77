// SPDX-License-Identifier: MIT
package graphstore_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/haldane-labs/browsectx/graphstore"
)

func TestKStrongestKeywordKeywordEdges_ScopesToCommunityMembers(t *testing.T) {
	g := graphstore.NewGraph(graphstore.WithDecayRate(0))
	require.NoError(t, g.Ingest(graphstore.VisitInput{
		URL: "https://a.com", Keywords: []string{"golang", "goroutines"}, Timestamp: 0,
	}))
	require.NoError(t, g.Ingest(graphstore.VisitInput{
		URL: "https://b.com", Keywords: []string{"recipe", "baking"}, Timestamp: 1,
	}))

	golangCommunity := []string{graphstore.KeywordID("golang"), graphstore.KeywordID("goroutines")}
	edges := g.KStrongestKeywordKeywordEdges(golangCommunity, 10)
	require.Len(t, edges, 1)
	require.ElementsMatch(t, []string{edges[0].A, edges[0].B},
		[]string{graphstore.KeywordID("golang"), graphstore.KeywordID("goroutines")})

	// An edge with an endpoint outside the given community (even if both
	// endpoints exist in the graph) must not appear.
	cross := []string{graphstore.KeywordID("golang"), graphstore.KeywordID("recipe")}
	require.Empty(t, g.KStrongestKeywordKeywordEdges(cross, 10))
}

func TestKStrongestKeywordKeywordEdges_CapsAtK(t *testing.T) {
	g := graphstore.NewGraph(graphstore.WithDecayRate(0))
	require.NoError(t, g.Ingest(graphstore.VisitInput{
		URL: "https://a.com", Keywords: []string{"a", "b", "c", "d"}, Timestamp: 0,
	}))
	members := []string{
		graphstore.KeywordID("a"), graphstore.KeywordID("b"),
		graphstore.KeywordID("c"), graphstore.KeywordID("d"),
	}
	edges := g.KStrongestKeywordKeywordEdges(members, 2)
	require.Len(t, edges, 2)
}

func TestInducedSubgraph_IncludesOnlyRequestedNodes(t *testing.T) {
	g := graphstore.NewGraph(graphstore.WithDecayRate(0))
	require.NoError(t, g.Ingest(graphstore.VisitInput{
		URL: "https://a.com", Keywords: []string{"golang"}, Timestamp: 0,
	}))
	require.NoError(t, g.Ingest(graphstore.VisitInput{
		URL: "https://b.com", Keywords: []string{"recipe"}, Timestamp: 1,
	}))

	nodes, edges := g.InducedSubgraph([]string{graphstore.PageID("https://a.com"), graphstore.KeywordID("golang")})
	require.Len(t, nodes, 2)
	require.Len(t, edges, 1)
}

func TestBridgingKeywords_RequiresTwoDistinctCommunities(t *testing.T) {
	g := graphstore.NewGraph(graphstore.WithDecayRate(0))
	require.NoError(t, g.Ingest(graphstore.VisitInput{
		URL: "https://a.com", Keywords: []string{"golang", "shared"}, Timestamp: 0,
	}))
	require.NoError(t, g.Ingest(graphstore.VisitInput{
		URL: "https://b.com", Keywords: []string{"recipe", "shared"}, Timestamp: 1,
	}))

	assignment := map[string]int{
		graphstore.PageID("https://a.com"):    0,
		graphstore.KeywordID("golang"):        0,
		graphstore.PageID("https://b.com"):    1,
		graphstore.KeywordID("recipe"):        1,
		graphstore.KeywordID("shared"):        0, // shared's own assignment is irrelevant; its neighbors span both
	}
	bridges := g.BridgingKeywords(assignment)
	require.Contains(t, bridges, graphstore.KeywordID("shared"))
	require.NotContains(t, bridges, graphstore.KeywordID("golang"))
}
