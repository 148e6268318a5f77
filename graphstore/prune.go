// SPDX-License-Identifier: MIT
package graphstore

import (
	"math"
	"sort"
)

// EnforceCap trims the graph down to at most MAX_GRAPH_NODES by evicting the
// lowest-scoring nodes (spec §4.1 step f, invariant I2).
func (g *Graph) EnforceCap() error {
	return g.transact(func(s *graphState) error {
		enforceCap(s, g.cfg.maxNodes, g.cfg.decayRate)
		return nil
	})
}

// enforceCap evicts nodes scored by weighted_degree · recency_factor, lowest
// first, until len(s.nodes) <= maxNodes. recency_factor uses the same decay
// law as edge weights, anchored on the most recent timestamp observed
// anywhere in the state (enforceCap is never given an explicit "now" — it
// runs as the tail step of Ingest or from EnforceCap, so the latest touched
// node is the freshest reference point available).
func enforceCap(s *graphState, maxNodes int, lambda float64) {
	if len(s.nodes) <= maxNodes {
		return
	}
	now := latestTouch(s)

	type scored struct {
		id    string
		score float64
	}
	ranked := make([]scored, 0, len(s.nodes))
	for id, n := range s.nodes {
		ageHours := (now - n.lastTouch()) / 3600.0
		if ageHours < 0 {
			ageHours = 0
		}
		recency := math.Exp(-lambda * ageHours)
		ranked = append(ranked, scored{id: id, score: weightedDegree(s, id) * recency})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].score != ranked[j].score {
			return ranked[i].score < ranked[j].score
		}
		return ranked[i].id < ranked[j].id // deterministic tiebreak
	})

	excess := len(s.nodes) - maxNodes
	for i := 0; i < excess && i < len(ranked); i++ {
		s.removeNode(ranked[i].id)
	}

	// Cascading-removed edges can leave a surviving keyword node at degree
	// zero (e.g. a page evicted out from under its only keyword link); spec
	// §4.1 step f re-runs orphan removal after eviction, same as decay's
	// sweep.
	for id, n := range s.nodes {
		if n.Kind == KindKeyword && s.degree(id) == 0 {
			s.removeNode(id)
		}
	}
}

func weightedDegree(s *graphState, id string) float64 {
	var sum float64
	for _, key := range s.adj[id] {
		sum += s.edges[key].Weight
	}
	return sum
}

func latestTouch(s *graphState) float64 {
	var max float64
	first := true
	for _, n := range s.nodes {
		t := n.lastTouch()
		if first || t > max {
			max = t
			first = false
		}
	}
	return max
}
