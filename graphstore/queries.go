// SPDX-License-Identifier: MIT
package graphstore

import "sort"

// NodeView and EdgeView are read-only projections returned to callers
// outside the package — they never alias internal pointers, so a caller
// mutating one cannot corrupt a published graphState.
type NodeView struct {
	ID      string
	Kind    Kind
	Page    *PageData
	Keyword *KeywordData
}

type EdgeView struct {
	A, B       string
	Weight     float64
	BaseWeight float64
	LastActive float64
}

func toNodeView(n *Node) NodeView {
	return NodeView{ID: n.ID, Kind: n.Kind, Page: n.Page.clone(), Keyword: n.Keyword.clone()}
}

func toEdgeView(e *Edge) EdgeView {
	return EdgeView{A: e.A, B: e.B, Weight: e.Weight, BaseWeight: e.BaseWeight, LastActive: e.LastActive}
}

// Node returns a view of the node with id, if present.
func (g *Graph) Node(id string) (NodeView, bool) {
	n, ok := g.snapshotState().nodes[id]
	if !ok {
		return NodeView{}, false
	}
	return toNodeView(n), true
}

// AllNodes returns every node in the graph, order unspecified.
func (g *Graph) AllNodes() []NodeView {
	s := g.snapshotState()
	out := make([]NodeView, 0, len(s.nodes))
	for _, n := range s.nodes {
		out = append(out, toNodeView(n))
	}
	return out
}

// AllEdges returns every edge in the graph, order unspecified.
func (g *Graph) AllEdges() []EdgeView {
	s := g.snapshotState()
	out := make([]EdgeView, 0, len(s.edges))
	for _, e := range s.edges {
		out = append(out, toEdgeView(e))
	}
	return out
}

// Neighbors returns the node IDs adjacent to id, with their edge weights.
func (g *Graph) Neighbors(id string) map[string]float64 {
	s := g.snapshotState()
	nbrs := s.adj[id]
	out := make(map[string]float64, len(nbrs))
	for nbr, key := range nbrs {
		out[nbr] = s.edges[key].Weight
	}
	return out
}

// EdgeWeight returns the current decayed weight between a and b, if an edge
// exists.
func (g *Graph) EdgeWeight(a, b string) (float64, bool) {
	s := g.snapshotState()
	_, _, key := edgeKey(a, b)
	e, ok := s.edges[key]
	if !ok {
		return 0, false
	}
	return e.Weight, true
}

// InducedSubgraph returns the nodes and edges induced by ids: every edge
// whose both endpoints are in ids.
func (g *Graph) InducedSubgraph(ids []string) ([]NodeView, []EdgeView) {
	s := g.snapshotState()
	want := make(map[string]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	nodes := make([]NodeView, 0, len(ids))
	for id := range want {
		if n, ok := s.nodes[id]; ok {
			nodes = append(nodes, toNodeView(n))
		}
	}
	edges := make([]EdgeView, 0)
	for _, e := range s.edges {
		if want[e.A] && want[e.B] {
			edges = append(edges, toEdgeView(e))
		}
	}
	return nodes, edges
}

// RecentPages returns up to n page nodes, most recently visited first.
func (g *Graph) RecentPages(n int) []NodeView {
	s := g.snapshotState()
	pages := make([]NodeView, 0)
	for _, node := range s.nodes {
		if node.Kind == KindPage {
			pages = append(pages, toNodeView(node))
		}
	}
	sort.Slice(pages, func(i, j int) bool {
		return pages[i].Page.LastVisited > pages[j].Page.LastVisited
	})
	if n >= 0 && n < len(pages) {
		pages = pages[:n]
	}
	return pages
}

// KStrongestKeywordKeywordEdges returns the k highest-weight edges between
// two keyword nodes that are both members of community (spec §4.1's
// k_strongest_keyword_keyword_edges(community, k)), used by C5's cluster
// key_relationships section.
func (g *Graph) KStrongestKeywordKeywordEdges(community []string, k int) []EdgeView {
	s := g.snapshotState()
	member := make(map[string]bool, len(community))
	for _, id := range community {
		member[id] = true
	}
	out := make([]EdgeView, 0)
	for _, e := range s.edges {
		na, oka := s.nodes[e.A]
		nb, okb := s.nodes[e.B]
		if oka && okb && na.Kind == KindKeyword && nb.Kind == KindKeyword && member[e.A] && member[e.B] {
			out = append(out, toEdgeView(e))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Weight != out[j].Weight {
			return out[i].Weight > out[j].Weight
		}
		return out[i].A+out[i].B < out[j].A+out[j].B
	})
	if k >= 0 && k < len(out) {
		out = out[:k]
	}
	return out
}

// BridgingKeywords returns keyword nodes adjacent to nodes in two or more
// distinct community labels, given a node->community assignment. It is a
// thin graph-layer primitive; C5 composes it with C3's partition to produce
// the "bridges" context-document section.
func (g *Graph) BridgingKeywords(assignment map[string]int) []string {
	s := g.snapshotState()
	var out []string
	for id, n := range s.nodes {
		if n.Kind != KindKeyword {
			continue
		}
		labels := make(map[int]bool)
		for nbr := range s.adj[id] {
			if c, ok := assignment[nbr]; ok {
				labels[c] = true
			}
		}
		if len(labels) >= 2 {
			out = append(out, id)
		}
	}
	sort.Strings(out)
	return out
}
