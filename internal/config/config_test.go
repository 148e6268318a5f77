// SPDX-License-Identifier: MIT
package config_test

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/haldane-labs/browsectx/internal/config"
)

func TestDefault_MatchesSpec(t *testing.T) {
	c := config.Default()
	assert.Equal(t, 0.01, c.DecayRate)
	assert.Equal(t, 1.0, c.CommunityResolution)
	assert.EqualValues(t, 42, c.CommunitySeed)
	assert.Equal(t, 0.1, c.LaplaceSmoothing)
	assert.Equal(t, 500, c.MaxGraphNodes)
	assert.Equal(t, 0.01, c.EdgePruneThreshold)
	assert.Equal(t, 0.25, c.ConfidenceColdStart)
	assert.Equal(t, 12, c.MaxKeywordsPerPage)
	assert.Equal(t, 8000, c.MaxContentLength)
	assert.Equal(t, 3000, c.MaxSnippetLength)
	assert.Equal(t, 1500, c.MaxSummaryLength)
	assert.Equal(t, 8, c.MaxTrajectoryPages)
	assert.Equal(t, 4, c.MaxDeepContentPages)
	assert.Equal(t, 5000, c.DebounceMS)
	assert.Equal(t, 3000, c.MinIntervalMS)
}

func TestFromEnv_Override(t *testing.T) {
	t.Setenv("MAX_GRAPH_NODES", "5")
	t.Setenv("DECAY_RATE", "0.5")
	t.Setenv("COMMUNITY_SEED", "7")
	c := config.FromEnv(nil)
	assert.Equal(t, 5, c.MaxGraphNodes)
	assert.Equal(t, 0.5, c.DecayRate)
	assert.EqualValues(t, 7, c.CommunitySeed)
}

func TestFromEnv_InvalidFallsBackToDefault(t *testing.T) {
	t.Setenv("MAX_GRAPH_NODES", "not-a-number")
	c := config.FromEnv(nil)
	assert.Equal(t, config.Default().MaxGraphNodes, c.MaxGraphNodes)
}

func TestLoadYAML_MissingFileIsNotError(t *testing.T) {
	c := config.Default()
	out, err := c.LoadYAML("/nonexistent/path/does-not-exist.yaml")
	require.NoError(t, err)
	assert.Equal(t, c, out)
}

func TestLoadYAML_Overlay(t *testing.T) {
	dir := t.TempDir()
	path := dir + "/cfg.yaml"
	require.NoError(t, os.WriteFile(path, []byte("max_graph_nodes: 10\ndecay_rate: 0.2\n"), 0o644))
	c := config.Default()
	out, err := c.LoadYAML(path)
	require.NoError(t, err)
	assert.Equal(t, 10, out.MaxGraphNodes)
	assert.Equal(t, 0.2, out.DecayRate)
}
