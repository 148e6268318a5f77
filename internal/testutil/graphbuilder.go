// SPDX-License-Identifier: MIT

// Package testutil builds synthetic browsing graphs for tests across
// graphstore, community, and infer, adapted from the teacher's
// builder.RandomSparse: an Erdős–Rényi-style independent-trial sampler, here
// sampling which keywords a synthetic page visit touches instead of which
// vertex pairs a plain graph connects.
package testutil

import (
	"fmt"
	"math/rand"

	"github.com/haldane-labs/browsectx/graphstore"
)

// IDFn names the i-th synthetic page, mirroring the teacher's cfg.idFn hook.
type IDFn func(i int) string

// DefaultPageIDFn produces https://example.test/page-<i>.
func DefaultPageIDFn(i int) string { return fmt.Sprintf("https://example.test/page-%d", i) }

// SyntheticConfig parametrizes BuildSyntheticGraph.
type SyntheticConfig struct {
	NumPages    int
	NumKeywords int
	// EdgeProbability is the independent Bernoulli trial probability that
	// page i is tagged with keyword j, exactly as RandomSparse samples
	// vertex-pair inclusion.
	EdgeProbability float64
	Seed            int64
	// BaseTimestamp and TimestampStep control each visit's clock; visit i
	// lands at BaseTimestamp + i*TimestampStep seconds, letting callers exercise
	// decay/cap logic deterministically.
	BaseTimestamp float64
	TimestampStep float64
	PageIDFn      IDFn
}

// DefaultSyntheticConfig matches a modest, fast-to-ingest graph.
func DefaultSyntheticConfig() SyntheticConfig {
	return SyntheticConfig{
		NumPages:        20,
		NumKeywords:     12,
		EdgeProbability: 0.3,
		Seed:            1,
		BaseTimestamp:   0,
		TimestampStep:   1,
		PageIDFn:        DefaultPageIDFn,
	}
}

// BuildSyntheticGraph ingests NumPages synthetic visits into g, each tagged
// with an independently sampled subset of a shared NumKeywords-word
// vocabulary — producing realistic page–keyword and keyword–keyword
// structure for community/infer tests without hand-assembling graphState.
// Returns the ordered list of page URLs and the keyword vocabulary used, for
// assertions.
func BuildSyntheticGraph(g *graphstore.Graph, cfg SyntheticConfig) (pages []string, vocabulary []string) {
	if cfg.PageIDFn == nil {
		cfg.PageIDFn = DefaultPageIDFn
	}
	rng := rand.New(rand.NewSource(cfg.Seed))

	vocabulary = make([]string, cfg.NumKeywords)
	for j := 0; j < cfg.NumKeywords; j++ {
		vocabulary[j] = fmt.Sprintf("topic%d", j)
	}

	pages = make([]string, 0, cfg.NumPages)
	for i := 0; i < cfg.NumPages; i++ {
		url := cfg.PageIDFn(i)
		pages = append(pages, url)

		var kws []string
		for j := 0; j < cfg.NumKeywords; j++ {
			if rng.Float64() <= cfg.EdgeProbability {
				kws = append(kws, vocabulary[j])
			}
		}
		if len(kws) == 0 {
			kws = []string{vocabulary[i%cfg.NumKeywords]}
		}

		_ = g.Ingest(graphstore.VisitInput{
			URL:       url,
			Title:     fmt.Sprintf("Synthetic Page %d", i),
			Keywords:  kws,
			Timestamp: cfg.BaseTimestamp + float64(i)*cfg.TimestampStep,
		})
	}
	return pages, vocabulary
}

// TwoClusterConfig builds two disjoint keyword neighborhoods (e.g. "go"-ish
// vs "cooking"-ish pages) sharing no keywords, useful for asserting that
// community detection actually separates unrelated topics rather than
// merely running without error.
type TwoClusterConfig struct {
	PagesPerCluster int
	KeywordsA       []string
	KeywordsB       []string
	BaseTimestamp   float64
	TimestampStep   float64
}

// DefaultTwoClusterConfig returns a small Go-vs-cooking split.
func DefaultTwoClusterConfig() TwoClusterConfig {
	return TwoClusterConfig{
		PagesPerCluster: 6,
		KeywordsA:       []string{"golang", "goroutine", "channel", "concurrency"},
		KeywordsB:       []string{"recipe", "oven", "simmer", "seasoning"},
		TimestampStep:   1,
	}
}

// BuildTwoClusterGraph ingests two visibly separable clusters of synthetic
// visits and returns their page URLs.
func BuildTwoClusterGraph(g *graphstore.Graph, cfg TwoClusterConfig) (clusterA, clusterB []string) {
	t := cfg.BaseTimestamp
	for i := 0; i < cfg.PagesPerCluster; i++ {
		url := fmt.Sprintf("https://example.test/a-%d", i)
		clusterA = append(clusterA, url)
		_ = g.Ingest(graphstore.VisitInput{URL: url, Title: "Go topic", Keywords: cfg.KeywordsA, Timestamp: t})
		t += cfg.TimestampStep
	}
	for i := 0; i < cfg.PagesPerCluster; i++ {
		url := fmt.Sprintf("https://example.test/b-%d", i)
		clusterB = append(clusterB, url)
		_ = g.Ingest(graphstore.VisitInput{URL: url, Title: "Cooking topic", Keywords: cfg.KeywordsB, Timestamp: t})
		t += cfg.TimestampStep
	}
	return clusterA, clusterB
}
