// SPDX-License-Identifier: MIT
package graphstore_test

import (
	"testing"

	"pgregory.net/rapid"

	"github.com/haldane-labs/browsectx/graphstore"
)

// TestProperty_GraphStaysWithinInvariantsUnderRandomVisits drives Ingest with
// generated visit sequences and checks the observable corollaries of spec §3's
// invariants: edge weights never negative, page_refs never exceed the bound,
// and the node cap is never exceeded.
func TestProperty_GraphStaysWithinInvariantsUnderRandomVisits(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		maxNodes := rapid.IntRange(5, 40).Draw(rt, "maxNodes")
		g := graphstore.NewGraph(graphstore.WithMaxNodes(maxNodes))

		urlGen := rapid.StringMatching(`url[0-9]`)
		kwGen := rapid.StringMatching(`kw[0-9]`)
		visits := rapid.SliceOfN(rapid.Custom(func(rt *rapid.T) graphstore.VisitInput {
			n := rapid.IntRange(0, 4).Draw(rt, "nkw")
			kws := make([]string, n)
			for i := range kws {
				kws[i] = kwGen.Draw(rt, "kw")
			}
			return graphstore.VisitInput{
				URL:       urlGen.Draw(rt, "url"),
				Keywords:  kws,
				Timestamp: float64(rapid.IntRange(0, 100000).Draw(rt, "ts")),
			}
		}), 0, 30).Draw(rt, "visits")

		for _, v := range visits {
			_ = g.Ingest(v) // errors (e.g. invariant aborts) are acceptable; crashes are not
		}

		if g.NodeCount() > maxNodes {
			rt.Fatalf("node count %d exceeds cap %d", g.NodeCount(), maxNodes)
		}
		for _, e := range g.AllEdges() {
			if e.Weight < 0 {
				rt.Fatalf("negative edge weight %v-%v: %f", e.A, e.B, e.Weight)
			}
		}
		for _, n := range g.AllNodes() {
			if n.Kind == graphstore.KindKeyword && len(n.Keyword.PageRefs) > graphstore.MaxPageRefs {
				rt.Fatalf("keyword %s has %d page_refs", n.ID, len(n.Keyword.PageRefs))
			}
		}
	})
}
