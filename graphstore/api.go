// SPDX-License-Identifier: MIT
package graphstore

import (
	"sync"
	"sync/atomic"

	"github.com/haldane-labs/browsectx/internal/obslog"
)

// graphConfig holds the tunables named in spec §6 that bear on C1.
type graphConfig struct {
	decayRate float64 // λ per hour
	epsilon   float64 // edge prune threshold
	maxNodes  int
}

func defaultGraphConfig() graphConfig {
	return graphConfig{decayRate: 0.01, epsilon: 0.01, maxNodes: 500}
}

// GraphOption configures a Graph before construction, mirroring the
// teacher's WithDirected/WithWeighted functional-option shape.
type GraphOption func(*Graph)

// WithDecayRate sets λ (per hour); default 0.01.
func WithDecayRate(lambda float64) GraphOption {
	return func(g *Graph) { g.cfg.decayRate = lambda }
}

// WithPruneThreshold sets ε; default 0.01.
func WithPruneThreshold(eps float64) GraphOption {
	return func(g *Graph) { g.cfg.epsilon = eps }
}

// WithMaxNodes sets N_max; default 500.
func WithMaxNodes(n int) GraphOption {
	return func(g *Graph) { g.cfg.maxNodes = n }
}

// WithLogger attaches a logger used for non-fatal recoverable errors.
func WithLogger(l *obslog.Logger) GraphOption {
	return func(g *Graph) { g.log = l }
}

// Graph is the thread-safe, copy-on-write heterogeneous graph store.
type Graph struct {
	mu    sync.Mutex // serializes writers (spec §5)
	state atomic.Pointer[graphState]
	cfg   graphConfig
	log   *obslog.Logger
}

// NewGraph returns an empty Graph ready to Ingest visits.
func NewGraph(opts ...GraphOption) *Graph {
	g := &Graph{cfg: defaultGraphConfig(), log: obslog.Noop()}
	for _, o := range opts {
		o(g)
	}
	g.state.Store(newGraphState())
	return g
}

// snapshotState returns the currently published state — safe to read
// without holding mu, per spec §5's reader contract.
func (g *Graph) snapshotState() *graphState {
	return g.state.Load()
}

// NodeCount and EdgeCount are O(1) reader queries.
func (g *Graph) NodeCount() int { return len(g.snapshotState().nodes) }
func (g *Graph) EdgeCount() int { return len(g.snapshotState().edges) }

// DecayRate, PruneThreshold, MaxNodes expose the active configuration for
// other components (e.g. community/infer use DecayRate-derived weights
// indirectly via Neighbors, which already reflects decay).
func (g *Graph) DecayRate() float64      { return g.cfg.decayRate }
func (g *Graph) PruneThreshold() float64 { return g.cfg.epsilon }
func (g *Graph) MaxNodes() int           { return g.cfg.maxNodes }

// Reset empties the graph (spec §6 reset_graph).
func (g *Graph) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.state.Store(newGraphState())
}

// validate checks spec §3's invariants against a candidate state. Called
// before every write is published; a violation aborts the transaction
// without mutating g.state.
func (s *graphState) validate(maxNodes int) error {
	for key, e := range s.edges {
		if e.Weight < 0 || e.Weight > e.BaseWeight+1e-9 {
			return invariantErr("I1", "edge "+key+" has weight outside [0, base_weight]")
		}
		if e.LastActive < e.Created {
			return invariantErr("I6", "edge "+key+" last_active before created")
		}
		na, oka := s.nodes[e.A]
		nb, okb := s.nodes[e.B]
		if !oka || !okb {
			return invariantErr("I3", "edge "+key+" references a missing node")
		}
		if e.A == e.B {
			return invariantErr("I4", "self-loop on "+e.A)
		}
		if isPagePage(na.Kind, nb.Kind) {
			return invariantErr("I4", "page-page edge "+key)
		}
	}
	if len(s.nodes) > maxNodes {
		return invariantErr("I2", "node count exceeds MAX_GRAPH_NODES")
	}
	for id, n := range s.nodes {
		if n.Kind == KindPage && n.Page.LastVisited < n.Page.FirstVisited {
			return invariantErr("I6", "page "+id+" last_visited before first_visited")
		}
		if n.Kind == KindKeyword {
			if n.Keyword.LastSeen < n.Keyword.FirstSeen {
				return invariantErr("I6", "keyword "+id+" last_seen before first_seen")
			}
			if len(n.Keyword.PageRefs) > MaxPageRefs {
				return invariantErr("I5", "keyword "+id+" has too many page_refs")
			}
			seen := make(map[string]bool, len(n.Keyword.PageRefs))
			for _, r := range n.Keyword.PageRefs {
				if seen[r] {
					return invariantErr("I5", "keyword "+id+" has duplicate page_refs")
				}
				seen[r] = true
			}
		}
	}
	return nil
}
