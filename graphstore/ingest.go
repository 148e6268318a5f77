// SPDX-License-Identifier: MIT
package graphstore

import (
	"math"
	"strings"
)

// VisitInput is the payload C1.ingest consumes (spec §4.1).
type VisitInput struct {
	URL            string
	Title          string
	Summary        string
	ContentSnippet string
	Keywords       []string
	Timestamp      float64
}

// transact runs fn against a clone of the current state; if fn succeeds and
// the result still satisfies spec §3's invariants, the clone is published.
// Otherwise g.state is untouched — the pipeline orchestrator's "no partial
// commit" rule (spec §7) holds at the graph layer by construction.
func (g *Graph) transact(fn func(s *graphState) error) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	next := g.snapshotState().clone()
	if err := fn(next); err != nil {
		return err
	}
	if err := next.validate(g.cfg.maxNodes); err != nil {
		g.log.Error("graphstore: invariant violated, aborting transaction", "error", err)
		return err
	}
	g.state.Store(next)
	return nil
}

// Ingest atomically applies one page visit (spec §4.1 steps a-f).
func (g *Graph) Ingest(v VisitInput) error {
	if strings.TrimSpace(v.URL) == "" {
		return validationErr("url", "must not be empty")
	}
	if math.IsNaN(v.Timestamp) || math.IsInf(v.Timestamp, 0) {
		return validationErr("timestamp", "must be finite")
	}
	keywords := dedupeKeywords(v.Keywords)

	return g.transact(func(s *graphState) error {
		pageID := upsertPage(s, v)
		kwIDs := make([]string, 0, len(keywords))
		for _, kw := range keywords {
			kwIDs = append(kwIDs, upsertKeyword(s, kw, v.URL, v.Timestamp))
		}
		for _, kwID := range kwIDs {
			reinforceEdge(s, pageID, kwID, v.Timestamp)
		}
		for i := 0; i < len(kwIDs); i++ {
			for j := i + 1; j < len(kwIDs); j++ {
				reinforceEdge(s, kwIDs[i], kwIDs[j], v.Timestamp)
			}
		}
		applyDecaySweep(s, v.Timestamp, g.cfg.decayRate, g.cfg.epsilon)
		enforceCap(s, g.cfg.maxNodes, g.cfg.decayRate)
		return nil
	})
}

// dedupeKeywords normalizes and removes duplicates within one visit
// (Open Question decision #1, SPEC_FULL.md), preserving first-seen order,
// then caps at MaxKeywordsPerPage's spec-default ceiling of 12. The
// orchestrator passes caller-supplied keywords through uncapped and the
// configured MaxKeywordsPerPage is not applied anywhere, so this fixed cap
// is the only one on the ingest path.
func dedupeKeywords(raw []string) []string {
	seen := make(map[string]bool, len(raw))
	out := make([]string, 0, len(raw))
	for _, k := range raw {
		norm := NormalizeKeyword(k)
		if norm == "" || seen[norm] {
			continue
		}
		seen[norm] = true
		out = append(out, norm)
		if len(out) == 12 {
			break
		}
	}
	return out
}

func upsertPage(s *graphState, v VisitInput) string {
	id := PageID(v.URL)
	n, exists := s.nodes[id]
	if !exists {
		n = &Node{ID: id, Kind: KindPage, Page: &PageData{
			URL:          v.URL,
			FirstVisited: v.Timestamp,
		}}
		s.nodes[id] = n
		s.ensureAdj(id)
	}
	p := n.Page
	p.VisitCount++
	if v.Timestamp > p.LastVisited || !exists {
		p.LastVisited = v.Timestamp
	}
	if strings.TrimSpace(v.Title) != "" {
		p.Title = v.Title
	}
	if strings.TrimSpace(v.Summary) != "" {
		p.Summary = v.Summary
	}
	if strings.TrimSpace(v.ContentSnippet) != "" {
		p.ContentSnippet = v.ContentSnippet
	}
	return id
}

func upsertKeyword(s *graphState, term, url string, ts float64) string {
	id := KeywordID(term)
	n, exists := s.nodes[id]
	if !exists {
		n = &Node{ID: id, Kind: KindKeyword, Keyword: &KeywordData{
			Term:      NormalizeKeyword(term),
			FirstSeen: ts,
		}}
		s.nodes[id] = n
		s.ensureAdj(id)
	}
	k := n.Keyword
	k.Frequency++
	if ts > k.LastSeen || !exists {
		k.LastSeen = ts
	}
	k.PageRefs = pushPageRef(k.PageRefs, url)
	return id
}

// reinforceEdge upserts the edge between a and b: base_weight += 1,
// last_active = ts, created on first sight.
func reinforceEdge(s *graphState, a, b string, ts float64) {
	if a == b {
		return
	}
	lo, hi, key := edgeKey(a, b)
	e, exists := s.edges[key]
	if !exists {
		e = &Edge{A: lo, B: hi, Created: ts}
		s.edges[key] = e
		s.linkEdge(e)
	}
	e.BaseWeight++
	e.Weight = e.BaseWeight
	e.LastActive = ts
}
