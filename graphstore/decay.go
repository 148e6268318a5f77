// SPDX-License-Identifier: MIT
package graphstore

import "math"

// DecaySweep recomputes every edge weight from its base_weight using
// exponential temporal decay, prunes edges below ε, and drops keyword nodes
// left with no edges (spec §4.1 step e). It is exposed standalone for
// callers that want decay applied outside of an Ingest (e.g. a periodic
// maintenance tick), and is also invoked internally at the end of Ingest.
func (g *Graph) DecaySweep(now float64) error {
	return g.transact(func(s *graphState) error {
		applyDecaySweep(s, now, g.cfg.decayRate, g.cfg.epsilon)
		return nil
	})
}

// applyDecaySweep mutates s in place: weight = base_weight * exp(-λ·Δt_hours).
// Edges whose recomputed weight falls below eps are pruned; keyword nodes
// that end up with no surviving edges are removed as orphans. Page nodes are
// never removed here — a page's visit history outlives its keyword links.
func applyDecaySweep(s *graphState, now, lambda, eps float64) {
	var pruned []*Edge
	for _, e := range s.edges {
		deltaHours := (now - e.LastActive) / 3600.0
		if deltaHours < 0 {
			deltaHours = 0
		}
		e.Weight = e.BaseWeight * math.Exp(-lambda*deltaHours)
		if e.Weight < eps {
			pruned = append(pruned, e)
		}
	}
	for _, e := range pruned {
		_, _, key := edgeKey(e.A, e.B)
		s.unlinkEdge(e)
		delete(s.edges, key)
	}

	for id, n := range s.nodes {
		if n.Kind == KindKeyword && s.degree(id) == 0 {
			s.removeNode(id)
		}
	}
}
