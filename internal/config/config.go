// SPDX-License-Identifier: MIT
// Package config defines the engine's configuration surface (spec §6) and
// the two ways to populate it: environment variables and a YAML overlay.
// Neither constitutes a settings UI or CLI — both are out of scope — this is
// simply how a Go embedder builds the Config value it passes to
// engine.Bootstrap.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/haldane-labs/browsectx/internal/obslog"
)

// Config holds every recognized option from spec §6.
type Config struct {
	DecayRate           float64 `yaml:"decay_rate"`
	CommunityResolution float64 `yaml:"community_resolution"`
	CommunitySeed       int64   `yaml:"community_seed"`
	LaplaceSmoothing    float64 `yaml:"laplace_smoothing"`
	MaxGraphNodes       int     `yaml:"max_graph_nodes"`
	EdgePruneThreshold  float64 `yaml:"edge_prune_threshold"`
	ConfidenceColdStart float64 `yaml:"confidence_cold_start"`
	MaxKeywordsPerPage  int     `yaml:"max_keywords_per_page"`
	MaxContentLength    int     `yaml:"max_content_length"`
	MaxSnippetLength    int     `yaml:"max_context_snippet_length"`
	MaxSummaryLength    int     `yaml:"max_summary_length"`
	MaxTrajectoryPages  int     `yaml:"max_trajectory_pages"`
	MaxDeepContentPages int     `yaml:"max_deep_content_pages"`
	DebounceMS          int     `yaml:"debounce_ms"`
	MinIntervalMS       int     `yaml:"min_interval_ms"`
	SnapshotPath        string  `yaml:"snapshot_path"`
}

// Default returns the spec-mandated defaults.
func Default() Config {
	return Config{
		DecayRate:           0.01,
		CommunityResolution: 1.0,
		CommunitySeed:       42,
		LaplaceSmoothing:    0.1,
		MaxGraphNodes:       500,
		EdgePruneThreshold:  0.01,
		ConfidenceColdStart: 0.25,
		MaxKeywordsPerPage:  12,
		MaxContentLength:    8000,
		MaxSnippetLength:    3000,
		MaxSummaryLength:    1500,
		MaxTrajectoryPages:  8,
		MaxDeepContentPages: 4,
		DebounceMS:          5000,
		MinIntervalMS:       3000,
		SnapshotPath:        "graph.bctx",
	}
}

// MinInterval and Debounce as time.Duration convenience accessors.
func (c Config) MinInterval() time.Duration { return time.Duration(c.MinIntervalMS) * time.Millisecond }
func (c Config) Debounce() time.Duration    { return time.Duration(c.DebounceMS) * time.Millisecond }

// FromEnv overlays environment variables on top of defaults, logging every
// override. Built the way neurobridge-backend's internal/app/config.go +
// internal/utils env helpers load configuration: env wins, default is the
// fallback, every override is logged once.
func FromEnv(log *obslog.Logger) Config {
	c := Default()
	c.DecayRate = getEnvFloat("DECAY_RATE", c.DecayRate, log)
	c.CommunityResolution = getEnvFloat("COMMUNITY_RESOLUTION", c.CommunityResolution, log)
	c.CommunitySeed = getEnvInt64("COMMUNITY_SEED", c.CommunitySeed, log)
	c.LaplaceSmoothing = getEnvFloat("LAPLACE_SMOOTHING", c.LaplaceSmoothing, log)
	c.MaxGraphNodes = getEnvInt("MAX_GRAPH_NODES", c.MaxGraphNodes, log)
	c.EdgePruneThreshold = getEnvFloat("EDGE_PRUNE_THRESHOLD", c.EdgePruneThreshold, log)
	c.ConfidenceColdStart = getEnvFloat("CONFIDENCE_COLD_START", c.ConfidenceColdStart, log)
	c.MaxKeywordsPerPage = getEnvInt("MAX_KEYWORDS_PER_PAGE", c.MaxKeywordsPerPage, log)
	c.MaxContentLength = getEnvInt("MAX_CONTENT_LENGTH", c.MaxContentLength, log)
	c.MaxSnippetLength = getEnvInt("MAX_CONTEXT_SNIPPET_LENGTH", c.MaxSnippetLength, log)
	c.MaxSummaryLength = getEnvInt("MAX_SUMMARY_LENGTH", c.MaxSummaryLength, log)
	c.MaxTrajectoryPages = getEnvInt("MAX_TRAJECTORY_PAGES", c.MaxTrajectoryPages, log)
	c.MaxDeepContentPages = getEnvInt("MAX_DEEP_CONTENT_PAGES", c.MaxDeepContentPages, log)
	c.DebounceMS = getEnvInt("DEBOUNCE_MS", c.DebounceMS, log)
	c.MinIntervalMS = getEnvInt("MIN_INTERVAL_MS", c.MinIntervalMS, log)
	c.SnapshotPath = getEnvString("SNAPSHOT_PATH", c.SnapshotPath, log)
	return c
}

// LoadYAML overlays a YAML file's fields on top of c's current values. Zero
// values in the file are applied verbatim (the file is expected to be
// complete); an absent file is not an error — the caller's Config stands.
func (c Config) LoadYAML(path string) (Config, error) {
	b, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return c, nil
	}
	if err != nil {
		return c, fmt.Errorf("config: read %s: %w", path, err)
	}
	out := c
	if err := yaml.Unmarshal(b, &out); err != nil {
		return c, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return out, nil
}

func getEnvString(key, def string, log *obslog.Logger) string {
	v, ok := os.LookupEnv(key)
	if !ok || strings.TrimSpace(v) == "" {
		return def
	}
	if log != nil {
		log.Info("config: env override", "key", key, "value", v)
	}
	return v
}

func getEnvInt(key string, def int, log *obslog.Logger) int {
	v, ok := os.LookupEnv(key)
	if !ok || strings.TrimSpace(v) == "" {
		return def
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		if log != nil {
			log.Warn("config: invalid int env, keeping default", "key", key, "value", v, "default", def)
		}
		return def
	}
	if log != nil {
		log.Info("config: env override", "key", key, "value", n)
	}
	return n
}

func getEnvInt64(key string, def int64, log *obslog.Logger) int64 {
	v, ok := os.LookupEnv(key)
	if !ok || strings.TrimSpace(v) == "" {
		return def
	}
	n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
	if err != nil {
		if log != nil {
			log.Warn("config: invalid int64 env, keeping default", "key", key, "value", v, "default", def)
		}
		return def
	}
	if log != nil {
		log.Info("config: env override", "key", key, "value", n)
	}
	return n
}

func getEnvFloat(key string, def float64, log *obslog.Logger) float64 {
	v, ok := os.LookupEnv(key)
	if !ok || strings.TrimSpace(v) == "" {
		return def
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil {
		if log != nil {
			log.Warn("config: invalid float env, keeping default", "key", key, "value", v, "default", def)
		}
		return def
	}
	if log != nil {
		log.Info("config: env override", "key", key, "value", f)
	}
	return f
}
