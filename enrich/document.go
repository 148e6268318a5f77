// SPDX-License-Identifier: MIT

// Package enrich assembles the structured context document a ChatBackend
// consumes to ground its replies in the user's recent browsing (component
// C5): the active task, the page trajectory that led to it, the cluster of
// related topics, a roster of all known tasks, and keywords that bridge
// between them (spec §4.5).
package enrich

import (
	"sort"

	"github.com/goccy/go-json"

	"github.com/haldane-labs/browsectx/community"
	"github.com/haldane-labs/browsectx/graphstore"
	"github.com/haldane-labs/browsectx/infer"
)

// Caps named by spec §4.5 that have no corresponding entry in the
// configuration surface (spec §6) — unlike MaxTrajectoryPages and
// MaxDeepPages, which are configurable via Config, these are fixed.
const (
	maxActiveTaskKeywords     = 8
	maxTrajectoryTopics       = 8
	maxKeyPages               = 6
	maxKeyRelationships       = 10
	maxBridges                = 10
	minPagesForFullEnrichment = 3
)

// Config tunes Build's trajectory/deep-content limits (spec §6's
// MAX_TRAJECTORY_PAGES / MAX_DEEP_CONTENT_PAGES).
type Config struct {
	MaxTrajectoryPages int
	MaxDeepPages       int
}

// DefaultConfig matches spec §6 defaults.
func DefaultConfig() Config {
	return Config{MaxTrajectoryPages: 8, MaxDeepPages: 4}
}

// ActiveTask is context-document section 1 (spec §4.5.1).
type ActiveTask struct {
	Label      string   `json:"label"`
	Confidence float64  `json:"confidence"`
	Entropy    float64  `json:"entropy"`
	Keywords   []string `json:"keywords,omitempty"`
}

// TrajectoryPage is one entry of context-document section 2 (spec §4.5.2).
type TrajectoryPage struct {
	Title      string   `json:"title"`
	URL        string   `json:"url"`
	Summary    string   `json:"summary"`
	Snippet    *string  `json:"snippet"`
	Topics     []string `json:"topics,omitempty"`
	AgeSeconds float64  `json:"age_seconds"`
}

// ClusterPage is one entry of Cluster.KeyPages (spec §4.5.3).
type ClusterPage struct {
	Title      string  `json:"title"`
	URL        string  `json:"url"`
	Summary    string  `json:"summary"`
	Snippet    *string `json:"snippet"`
	VisitCount int     `json:"visit_count"`
}

// KeywordRelationship is one entry of Cluster.KeyRelationships (spec §4.5.3).
type KeywordRelationship struct {
	KeywordA string  `json:"keyword_a"`
	KeywordB string  `json:"keyword_b"`
	Weight   float64 `json:"weight"`
}

// Cluster is context-document section 3 (spec §4.5.3), describing the
// active task's community in the graph.
type Cluster struct {
	PageCount         int                   `json:"page_count"`
	KeywordCount      int                   `json:"keyword_count"`
	InternalEdgeCount int                   `json:"internal_edge_count"`
	KeyPages          []ClusterPage         `json:"key_pages,omitempty"`
	KeyRelationships  []KeywordRelationship `json:"key_relationships,omitempty"`
}

// TaskSummary is one entry of context-document section 4 (spec §4.5.4).
type TaskSummary struct {
	Label       string  `json:"label"`
	Probability float64 `json:"probability"`
}

// Bridge is one entry of context-document section 5 (spec §4.5.5).
type Bridge struct {
	Keyword     string   `json:"keyword"`
	Communities []string `json:"communities"`
}

// Document is the complete context payload (spec §4.5's five sections).
type Document struct {
	ActiveTask *ActiveTask      `json:"active_task,omitempty"`
	Trajectory []TrajectoryPage `json:"trajectory,omitempty"`
	Cluster    *Cluster         `json:"cluster,omitempty"`
	AllTasks   []TaskSummary    `json:"all_tasks"`
	Bridges    []Bridge         `json:"bridges,omitempty"`

	// Degraded is true when the graph has fewer than minPagesForFullEnrichment
	// pages or the inference was a cold start — sections 3-5 are empty and
	// ActiveTask reports infer.ExploringLabel (spec §4.5 graceful degradation).
	Degraded bool `json:"degraded"`
}

// JSON serializes Document using goccy/go-json, matching the throughput
// profile the rest of the ingest/query path expects from its JSON layer.
func (d *Document) JSON() ([]byte, error) {
	return json.Marshal(d)
}

// Build assembles a Document from the graph, its current partition, and an
// inference result for keywords. now anchors trajectory age_seconds the same
// way the rest of the graph treats "now" — the timestamp of the most
// recently ingested visit, not wall-clock time (spec §4.1's recency_factor
// uses the same convention).
func Build(g *graphstore.Graph, partition *community.Partition, infResult infer.Result, keywords []string, now float64, cfg Config) *Document {
	if cfg.MaxTrajectoryPages <= 0 {
		cfg.MaxTrajectoryPages = DefaultConfig().MaxTrajectoryPages
	}
	if cfg.MaxDeepPages <= 0 {
		cfg.MaxDeepPages = DefaultConfig().MaxDeepPages
	}

	degraded := infResult.ColdStart || totalPageCount(g) < minPagesForFullEnrichment

	label, confidence := infResult.ActiveLabel, infResult.Confidence
	if degraded {
		label, confidence = infer.ExploringLabel, 0
	}

	doc := &Document{
		ActiveTask: &ActiveTask{Label: label, Confidence: confidence, Entropy: infResult.EntropyBits},
		Trajectory: buildTrajectory(g, cfg, now),
		AllTasks:   []TaskSummary{},
		Degraded:   degraded,
	}

	if !degraded && infResult.TopCommunity >= 0 {
		members := partition.Members[infResult.TopCommunity]
		doc.ActiveTask.Keywords = topKeywordsByWeightedDegree(g, members, maxActiveTaskKeywords)
		doc.Cluster = buildCluster(g, members, cfg)
		doc.AllTasks = buildAllTasks(partition, infResult)
		doc.Bridges = buildBridges(g, partition)
	}

	return doc
}

func totalPageCount(g *graphstore.Graph) int {
	return len(g.RecentPages(-1))
}

// buildTrajectory renders the MaxTrajectoryPages most recently visited pages
// graph-wide (spec §4.5.2 names no community restriction), including a
// content snippet only for the MaxDeepPages most recent of those.
func buildTrajectory(g *graphstore.Graph, cfg Config, now float64) []TrajectoryPage {
	pages := g.RecentPages(cfg.MaxTrajectoryPages)
	out := make([]TrajectoryPage, 0, len(pages))
	for i, p := range pages {
		var snippet *string
		if i < cfg.MaxDeepPages {
			s := p.Page.ContentSnippet
			snippet = &s
		}
		age := now - p.Page.LastVisited
		if age < 0 {
			age = 0
		}
		out = append(out, TrajectoryPage{
			Title:      p.Page.Title,
			URL:        p.Page.URL,
			Summary:    p.Page.Summary,
			Snippet:    snippet,
			Topics:     neighborKeywordLabels(g, p.ID, maxTrajectoryTopics),
			AgeSeconds: age,
		})
	}
	return out
}

// buildCluster describes the active task's community (spec §4.5.3).
func buildCluster(g *graphstore.Graph, members []string, cfg Config) *Cluster {
	nodes, edges := g.InducedSubgraph(members)

	var pages []graphstore.NodeView
	keywordCount := 0
	for _, n := range nodes {
		if n.Kind == graphstore.KindPage {
			pages = append(pages, n)
		} else {
			keywordCount++
		}
	}
	pageCount := len(pages)
	sort.Slice(pages, func(i, j int) bool {
		if pages[i].Page.VisitCount != pages[j].Page.VisitCount {
			return pages[i].Page.VisitCount > pages[j].Page.VisitCount
		}
		return pages[i].Page.LastVisited > pages[j].Page.LastVisited
	})
	if len(pages) > maxKeyPages {
		pages = pages[:maxKeyPages]
	}

	keyPages := make([]ClusterPage, 0, len(pages))
	for i, p := range pages {
		var snippet *string
		if i < cfg.MaxDeepPages {
			s := p.Page.ContentSnippet
			snippet = &s
		}
		keyPages = append(keyPages, ClusterPage{
			Title:      p.Page.Title,
			URL:        p.Page.URL,
			Summary:    p.Page.Summary,
			Snippet:    snippet,
			VisitCount: p.Page.VisitCount,
		})
	}

	kwEdges := g.KStrongestKeywordKeywordEdges(members, maxKeyRelationships)
	relationships := make([]KeywordRelationship, 0, len(kwEdges))
	for _, e := range kwEdges {
		relationships = append(relationships, KeywordRelationship{
			KeywordA: graphstore.KeywordTerm(e.A),
			KeywordB: graphstore.KeywordTerm(e.B),
			Weight:   e.Weight,
		})
	}

	return &Cluster{
		PageCount:         pageCount,
		KeywordCount:      keywordCount,
		InternalEdgeCount: len(edges),
		KeyPages:          keyPages,
		KeyRelationships:  relationships,
	}
}

func buildAllTasks(p *community.Partition, infResult infer.Result) []TaskSummary {
	ids := sortedIDs(p)
	out := make([]TaskSummary, 0, len(ids))
	for _, c := range ids {
		out = append(out, TaskSummary{Label: p.Names[c], Probability: infResult.Posterior[c]})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Probability != out[j].Probability {
			return out[i].Probability > out[j].Probability
		}
		return out[i].Label < out[j].Label
	})
	return out
}

func buildBridges(g *graphstore.Graph, p *community.Partition) []Bridge {
	ids := g.BridgingKeywords(p.Labels)
	if len(ids) > maxBridges {
		ids = ids[:maxBridges]
	}
	out := make([]Bridge, 0, len(ids))
	for _, id := range ids {
		labelSet := make(map[string]bool)
		for nbr := range g.Neighbors(id) {
			if c, ok := p.Labels[nbr]; ok {
				labelSet[p.Names[c]] = true
			}
		}
		labels := make([]string, 0, len(labelSet))
		for l := range labelSet {
			labels = append(labels, l)
		}
		sort.Strings(labels)
		out = append(out, Bridge{Keyword: graphstore.KeywordTerm(id), Communities: labels})
	}
	return out
}

func sortedIDs(p *community.Partition) []int {
	ids := make([]int, 0, len(p.Members))
	for c := range p.Members {
		ids = append(ids, c)
	}
	sort.Ints(ids)
	return ids
}

// topKeywordsByWeightedDegree returns up to limit keyword terms from members,
// ranked by weighted degree desc then lexicographically (spec §4.5.1).
func topKeywordsByWeightedDegree(g *graphstore.Graph, members []string, limit int) []string {
	type scored struct {
		term   string
		degree float64
	}
	var list []scored
	for _, id := range members {
		if !graphstore.IsKeywordID(id) {
			continue
		}
		var degree float64
		for _, w := range g.Neighbors(id) {
			degree += w
		}
		list = append(list, scored{term: graphstore.KeywordTerm(id), degree: degree})
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].degree != list[j].degree {
			return list[i].degree > list[j].degree
		}
		return list[i].term < list[j].term
	})
	if len(list) > limit {
		list = list[:limit]
	}
	out := make([]string, len(list))
	for i, s := range list {
		out[i] = s.term
	}
	return out
}

// neighborKeywordLabels returns up to limit keyword terms adjacent to id,
// ranked by edge weight desc then lexicographically (spec §4.5.2's topics).
func neighborKeywordLabels(g *graphstore.Graph, id string, limit int) []string {
	type scored struct {
		term   string
		weight float64
	}
	var list []scored
	for nbr, w := range g.Neighbors(id) {
		if graphstore.IsKeywordID(nbr) {
			list = append(list, scored{term: graphstore.KeywordTerm(nbr), weight: w})
		}
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].weight != list[j].weight {
			return list[i].weight > list[j].weight
		}
		return list[i].term < list[j].term
	})
	if len(list) > limit {
		list = list[:limit]
	}
	out := make([]string, len(list))
	for i, s := range list {
		out[i] = s.term
	}
	return out
}
