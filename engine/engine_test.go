// SPDX-License-Identifier: MIT
package engine_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/haldane-labs/browsectx/engine"
	"github.com/haldane-labs/browsectx/internal/config"
)

func waitForContext(t *testing.T, e *engine.Engine) {
	t.Helper()
	require.Eventually(t, func() bool {
		doc, err := e.GetContext(context.Background())
		return err == nil && doc != nil
	}, 2*time.Second, 10*time.Millisecond)
}

func testConfig(t *testing.T) config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.DebounceMS = 10
	cfg.SnapshotPath = filepath.Join(t.TempDir(), "graph.bctx")
	return cfg
}

func TestEngine_AnalyzeProducesContextAndStats(t *testing.T) {
	e, err := engine.Bootstrap(testConfig(t), nil)
	require.NoError(t, err)
	defer func() { _ = e.Shutdown(context.Background()) }()

	require.NoError(t, e.Analyze(engine.AnalyzeRequest{
		URL: "https://example.com/go", Title: "Learning Go", Content: "goroutines channels concurrency patterns",
		Timestamp: 1000,
	}))

	waitForContext(t, e)

	stats := e.GetStats()
	require.Greater(t, stats.NodeCount, 0)
	require.True(t, stats.ExtractorHealthy)

	graph := e.GetGraph()
	require.NotEmpty(t, graph.Nodes)

	events := e.GetPipelineEvents()
	require.Len(t, events.Runs, 1)
	require.Equal(t, "success", events.Runs[0].Status)
	require.NotEmpty(t, events.Runs[0].Steps)
}

func TestEngine_ResetGraphClearsStateAndContext(t *testing.T) {
	e, err := engine.Bootstrap(testConfig(t), nil)
	require.NoError(t, err)
	defer func() { _ = e.Shutdown(context.Background()) }()

	require.NoError(t, e.Analyze(engine.AnalyzeRequest{URL: "https://example.com/a", Timestamp: 1}))
	waitForContext(t, e)

	e.ResetGraph()

	stats := e.GetStats()
	require.Equal(t, 0, stats.NodeCount)
	require.Equal(t, 0, stats.EdgeCount)

	doc, err := e.GetContext(context.Background())
	require.NoError(t, err)
	require.Nil(t, doc)
}

func TestEngine_ChatContextReturnsQueryAndDocument(t *testing.T) {
	e, err := engine.Bootstrap(testConfig(t), nil)
	require.NoError(t, err)
	defer func() { _ = e.Shutdown(context.Background()) }()

	require.NoError(t, e.Analyze(engine.AnalyzeRequest{
		URL: "https://example.com/a", Title: "Go", Content: "goroutines", Timestamp: 1,
	}))
	waitForContext(t, e)

	resp, err := e.ChatContext(context.Background(), "what am I working on?")
	require.NoError(t, err)
	require.Equal(t, "what am I working on?", resp.Query)
	require.NotNil(t, resp.ContextDocument)
}

func TestEngine_ShutdownPersistsSnapshotForNextBootstrap(t *testing.T) {
	cfg := testConfig(t)

	e1, err := engine.Bootstrap(cfg, nil)
	require.NoError(t, err)
	require.NoError(t, e1.Analyze(engine.AnalyzeRequest{URL: "https://example.com/a", Timestamp: 1}))
	waitForContext(t, e1)
	require.NoError(t, e1.Shutdown(context.Background()))

	_, statErr := os.Stat(cfg.SnapshotPath)
	require.NoError(t, statErr)

	e2, err := engine.Bootstrap(cfg, nil)
	require.NoError(t, err)
	defer func() { _ = e2.Shutdown(context.Background()) }()

	stats := e2.GetStats()
	require.Greater(t, stats.NodeCount, 0, "hydrated graph should carry over the prior process's nodes")
}

func TestEngine_AnalyzeRejectsEmptyURL(t *testing.T) {
	e, err := engine.Bootstrap(testConfig(t), nil)
	require.NoError(t, err)
	defer func() { _ = e.Shutdown(context.Background()) }()

	err = e.Analyze(engine.AnalyzeRequest{URL: "", Timestamp: 1})
	require.Error(t, err)
}
