// SPDX-License-Identifier: MIT
package graphstore

// graphState is the immutable-once-published snapshot of the graph. Writers
// build the next graphState from a deep clone of the current one; once
// published via Graph.state.Store, a graphState is never mutated again.
type graphState struct {
	nodes map[string]*Node
	edges map[string]*Edge // keyed by edgeKey's canonical key
	// adj[nodeID][neighborID] = edge key, mirrored both directions.
	adj map[string]map[string]string
}

func newGraphState() *graphState {
	return &graphState{
		nodes: make(map[string]*Node),
		edges: make(map[string]*Edge),
		adj:   make(map[string]map[string]string),
	}
}

func (s *graphState) clone() *graphState {
	out := newGraphState()
	for id, n := range s.nodes {
		out.nodes[id] = n.clone()
	}
	for k, e := range s.edges {
		out.edges[k] = e.clone()
	}
	for id, nbrs := range s.adj {
		cp := make(map[string]string, len(nbrs))
		for nbr, key := range nbrs {
			cp[nbr] = key
		}
		out.adj[id] = cp
	}
	return out
}

func (s *graphState) ensureAdj(id string) {
	if _, ok := s.adj[id]; !ok {
		s.adj[id] = make(map[string]string)
	}
}

// linkEdge records e in both endpoints' adjacency entries.
func (s *graphState) linkEdge(e *Edge) {
	lo, hi, key := edgeKey(e.A, e.B)
	s.ensureAdj(lo)
	s.ensureAdj(hi)
	s.adj[lo][hi] = key
	s.adj[hi][lo] = key
}

func (s *graphState) unlinkEdge(e *Edge) {
	lo, hi, _ := edgeKey(e.A, e.B)
	delete(s.adj[lo], hi)
	delete(s.adj[hi], lo)
}

func (s *graphState) removeNode(id string) {
	delete(s.nodes, id)
	for nbr := range s.adj[id] {
		key := s.adj[id][nbr]
		delete(s.edges, key)
		delete(s.adj[nbr], id)
	}
	delete(s.adj, id)
}

func (s *graphState) degree(id string) int { return len(s.adj[id]) }
