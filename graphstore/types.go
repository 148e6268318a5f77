// SPDX-License-Identifier: MIT
// Package graphstore owns the heterogeneous weighted graph of visited pages
// and topic keywords (spec §3, §4.1 — component C1).
//
// Identity and uniqueness: a node's ID is unique within the graph and
// encodes its kind as a prefix ("page:"/"kw:"). At most one edge exists
// between any pair of nodes; reinforcement mutates it in place.
//
// Concurrency model: writers (Ingest, DecaySweep, EnforceCap, Hydrate, Reset)
// are serialized by a single logical mutex (mu). Every write builds the next
// graphState as a copy-on-write clone of the current one, validates spec §3's
// invariants against the clone, and only then publishes it via an
// atomic.Pointer swap — so readers (Neighbors, Snapshot, the queries used by
// C3/C4/C5) never block behind a writer beyond the cost of one pointer load,
// matching spec §5's reader/writer split.
package graphstore

import "strings"

// Kind distinguishes the two node variants (spec §3).
type Kind uint8

const (
	KindPage Kind = iota
	KindKeyword
)

func (k Kind) String() string {
	if k == KindPage {
		return "page"
	}
	return "keyword"
}

const (
	pagePrefix = "page:"
	kwPrefix   = "kw:"

	// MaxPageRefs bounds the ordered sequence of referring URLs kept per
	// keyword node (spec §3, invariant I5).
	MaxPageRefs = 10
)

// PageID returns the canonical node ID for a page at url.
func PageID(url string) string { return pagePrefix + url }

// KeywordID returns the canonical node ID for a normalized keyword term.
func KeywordID(term string) string { return kwPrefix + NormalizeKeyword(term) }

// IsPageID reports whether id names a Page node.
func IsPageID(id string) bool { return strings.HasPrefix(id, pagePrefix) }

// IsKeywordID reports whether id names a Keyword node.
func IsKeywordID(id string) bool { return strings.HasPrefix(id, kwPrefix) }

// KeywordTerm strips the keyword-node ID prefix, returning the bare term.
// It is a no-op (returns id unchanged) if id is not a keyword node ID.
func KeywordTerm(id string) string {
	if !IsKeywordID(id) {
		return id
	}
	return id[len(kwPrefix):]
}

// NormalizeKeyword lowercases and collapses interior whitespace, matching
// the normalization spec §3 requires of a keyword's label.
func NormalizeKeyword(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

// PageData holds the attributes of a Page node.
type PageData struct {
	URL            string
	Title          string
	Summary        string
	ContentSnippet string
	VisitCount     int
	FirstVisited   float64
	LastVisited    float64
}

func (p *PageData) clone() *PageData {
	if p == nil {
		return nil
	}
	cp := *p
	return &cp
}

// KeywordData holds the attributes of a Keyword node.
type KeywordData struct {
	Term      string
	Frequency int
	// PageRefs is bounded to MaxPageRefs entries, newest first, unique.
	PageRefs  []string
	FirstSeen float64
	LastSeen  float64
}

func (k *KeywordData) clone() *KeywordData {
	if k == nil {
		return nil
	}
	cp := *k
	cp.PageRefs = append([]string(nil), k.PageRefs...)
	return &cp
}

// pushPageRef prepends url (deduplicated, exact match) and trims to
// MaxPageRefs, newest first.
func pushPageRef(refs []string, url string) []string {
	out := make([]string, 0, len(refs)+1)
	out = append(out, url)
	for _, r := range refs {
		if r != url {
			out = append(out, r)
		}
	}
	if len(out) > MaxPageRefs {
		out = out[:MaxPageRefs]
	}
	return out
}

// Node is a tagged union of Page/Keyword, carrying only the attributes
// relevant to its Kind (spec §9 "tagged variants instead of structural
// typing").
type Node struct {
	ID      string
	Kind    Kind
	Page    *PageData
	Keyword *KeywordData
}

func (n *Node) clone() *Node {
	if n == nil {
		return nil
	}
	return &Node{ID: n.ID, Kind: n.Kind, Page: n.Page.clone(), Keyword: n.Keyword.clone()}
}

// lastTouch returns last_visited (pages) or last_seen (keywords), used by
// the recency factor in cap enforcement (spec §4.1).
func (n *Node) lastTouch() float64 {
	if n.Kind == KindPage {
		return n.Page.LastVisited
	}
	return n.Keyword.LastSeen
}

// edgeKey returns the two endpoints in stable (lexicographic) order and the
// canonical map key for the pair, so a page–keyword or keyword–keyword pair
// always maps to one edge regardless of argument order.
func edgeKey(a, b string) (lo, hi, key string) {
	if a <= b {
		lo, hi = a, b
	} else {
		lo, hi = b, a
	}
	return lo, hi, lo + "\x00" + hi
}

// Edge is an undirected association (page–keyword) or co-occurrence
// (keyword–keyword) relation. A and B are stored in lexicographic order.
type Edge struct {
	A, B       string
	BaseWeight float64
	Weight     float64
	LastActive float64
	Created    float64
}

func (e *Edge) clone() *Edge {
	if e == nil {
		return nil
	}
	cp := *e
	return &cp
}

// isPagePage reports whether both endpoints of an edge between nodes of
// kinds ka, kb would be pages — forbidden by spec §3 invariant I4.
func isPagePage(ka, kb Kind) bool { return ka == KindPage && kb == KindPage }
