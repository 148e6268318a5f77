// SPDX-License-Identifier: MIT
package enrich_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/haldane-labs/browsectx/community"
	"github.com/haldane-labs/browsectx/enrich"
	"github.com/haldane-labs/browsectx/graphstore"
	"github.com/haldane-labs/browsectx/infer"
)

func buildGraph(t *testing.T) *graphstore.Graph {
	t.Helper()
	g := graphstore.NewGraph(graphstore.WithDecayRate(0))
	for i := 0; i < 6; i++ {
		require.NoError(t, g.Ingest(graphstore.VisitInput{
			URL:       "https://golang.example/" + string(rune('a'+i)),
			Keywords:  []string{"golang", "goroutines"},
			Timestamp: float64(i),
		}))
	}
	for i := 0; i < 6; i++ {
		require.NoError(t, g.Ingest(graphstore.VisitInput{
			URL:       "https://cooking.example/" + string(rune('a'+i)),
			Keywords:  []string{"recipe", "baking"},
			Timestamp: float64(100 + i),
		}))
	}
	return g
}

func TestBuild_ConfidentInferenceSetsActiveTask(t *testing.T) {
	g := buildGraph(t)
	p := community.Detect(g)
	res := infer.Infer(g, p, []string{"golang", "goroutines"}, infer.DefaultConfig())

	doc := enrich.Build(g, p, res, []string{"golang", "goroutines"}, 200, enrich.DefaultConfig())
	require.False(t, doc.Degraded)
	require.NotNil(t, doc.ActiveTask)
	require.NotEmpty(t, doc.AllTasks)
}

func TestBuild_ColdStartDegradesToRecencyFallback(t *testing.T) {
	g := graphstore.NewGraph()
	require.NoError(t, g.Ingest(graphstore.VisitInput{URL: "https://a.com", Keywords: []string{"x"}, Timestamp: 1}))
	p := community.Detect(g)
	res := infer.Infer(g, p, []string{"x"}, infer.DefaultConfig())

	doc := enrich.Build(g, p, res, []string{"x"}, 1, enrich.DefaultConfig())
	require.True(t, doc.Degraded)
}

func TestBuild_TrajectoryRendersEvenWhenDegraded(t *testing.T) {
	g := graphstore.NewGraph()
	require.NoError(t, g.Ingest(graphstore.VisitInput{URL: "https://a.com", Keywords: []string{"x"}, Timestamp: 1}))
	p := community.Detect(g)
	res := infer.Infer(g, p, []string{"x"}, infer.DefaultConfig())

	doc := enrich.Build(g, p, res, []string{"x"}, 1, enrich.DefaultConfig())
	require.True(t, doc.Degraded)
	require.NotEmpty(t, doc.Trajectory)
	require.Equal(t, infer.ExploringLabel, doc.ActiveTask.Label)
	require.Nil(t, doc.Cluster)
	require.Empty(t, doc.Bridges)
}

func TestBuild_TrajectorySnippetOnlyForDeepPages(t *testing.T) {
	g := buildGraph(t)
	p := community.Detect(g)
	res := infer.Infer(g, p, []string{"golang"}, infer.DefaultConfig())

	cfg := enrich.Config{MaxTrajectoryPages: 8, MaxDeepPages: 2}
	doc := enrich.Build(g, p, res, []string{"golang"}, 200, cfg)
	require.Len(t, doc.Trajectory, 8)
	for i, page := range doc.Trajectory {
		if i < 2 {
			require.NotNil(t, page.Snippet)
		} else {
			require.Nil(t, page.Snippet)
		}
	}
}

func TestDocument_JSONRoundTrips(t *testing.T) {
	g := buildGraph(t)
	p := community.Detect(g)
	res := infer.Infer(g, p, []string{"golang"}, infer.DefaultConfig())
	doc := enrich.Build(g, p, res, []string{"golang"}, 200, enrich.DefaultConfig())

	b, err := doc.JSON()
	require.NoError(t, err)
	require.NotEmpty(t, b)
	require.Contains(t, string(b), "all_tasks")
}
