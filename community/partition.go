// SPDX-License-Identifier: MIT

// Package community implements Louvain-style modularity-optimizing
// community detection over the browsing graph (component C3), producing a
// deterministic partition of nodes into labeled topic clusters given a
// fixed seed.
package community

import (
	"sort"

	"github.com/haldane-labs/browsectx/graphstore"
)

// Config tunes Detect. A zero Config is valid: resolution defaults to 1.0
// and seed defaults to DefaultSeed.
type Config struct {
	Resolution float64
	Seed       int64
}

// Option configures Detect.
type Option func(*Config)

// WithResolution sets the Louvain resolution parameter γ; values above 1.0
// favor more, smaller communities, values below favor fewer, larger ones.
func WithResolution(gamma float64) Option {
	return func(c *Config) { c.Resolution = gamma }
}

// WithSeed fixes the PRNG seed used to order node visitation between passes.
func WithSeed(seed int64) Option {
	return func(c *Config) { c.Seed = seed }
}

// Partition is the result of community detection.
type Partition struct {
	// Labels maps every graph node ID to a community index.
	Labels map[string]int
	// Members maps a community index to its member node IDs.
	Members map[int][]string
	// Names maps a community index to a human-readable label.
	Names map[int]string
}

// Communities returns the number of distinct communities found.
func (p *Partition) Communities() int { return len(p.Members) }

// Detect partitions g's current snapshot into communities. An empty graph
// yields an empty Partition; a graph with fewer than two nodes yields one
// trivial singleton community per node, since modularity optimization is
// undefined below that size.
func Detect(g *graphstore.Graph, opts ...Option) *Partition {
	cfg := Config{Resolution: 1.0, Seed: DefaultSeed}
	for _, o := range opts {
		o(&cfg)
	}
	if cfg.Resolution == 0 {
		cfg.Resolution = 1.0
	}

	views := g.AllNodes()
	if len(views) == 0 {
		return &Partition{Labels: map[string]int{}, Members: map[int][]string{}, Names: map[int]string{}}
	}

	ids := make([]string, 0, len(views))
	kindByID := make(map[string]graphstore.Kind, len(views))
	termByID := make(map[string]string, len(views))
	for _, v := range views {
		ids = append(ids, v.ID)
		kindByID[v.ID] = v.Kind
		if v.Kind == graphstore.KindKeyword {
			termByID[v.ID] = v.Keyword.Term
		}
	}
	sort.Strings(ids) // stable base ordering before the RNG reorders passes

	wg := buildWeightedGraph(ids, g.Neighbors)
	rng := rngFromSeed(cfg.Seed)
	rawLabels := louvainAssign(wg, cfg.Resolution, rng)

	return finalize(rawLabels, ids, kindByID, termByID, g)
}

// finalize renumbers raw Louvain labels into contiguous, size-ordered
// community indices (largest first, ties by lowest member ID — deterministic
// regardless of map iteration order) and assigns each a display name.
func finalize(rawLabels map[string]int, ids []string, kindByID map[string]graphstore.Kind, termByID map[string]string, g *graphstore.Graph) *Partition {
	grouped := make(map[int][]string)
	for _, id := range ids {
		grouped[rawLabels[id]] = append(grouped[rawLabels[id]], id)
	}

	type group struct {
		rawLabel int
		members  []string
	}
	groups := make([]group, 0, len(grouped))
	for raw, members := range grouped {
		sort.Strings(members)
		groups = append(groups, group{rawLabel: raw, members: members})
	}
	sort.Slice(groups, func(i, j int) bool {
		if len(groups[i].members) != len(groups[j].members) {
			return len(groups[i].members) > len(groups[j].members)
		}
		return groups[i].members[0] < groups[j].members[0]
	})

	p := &Partition{
		Labels:  make(map[string]int, len(ids)),
		Members: make(map[int][]string, len(groups)),
		Names:   make(map[int]string, len(groups)),
	}
	for idx, grp := range groups {
		p.Members[idx] = grp.members
		for _, id := range grp.members {
			p.Labels[id] = idx
		}
		p.Names[idx] = communityName(grp.members, kindByID, termByID, g)
	}
	return p
}

// communityName picks the member keyword node with the highest weighted
// degree as the community's label, falling back to "(pages)" when the
// community contains no keyword nodes.
func communityName(members []string, kindByID map[string]graphstore.Kind, termByID map[string]string, g *graphstore.Graph) string {
	bestTerm := ""
	bestDegree := -1.0
	for _, id := range members {
		if kindByID[id] != graphstore.KindKeyword {
			continue
		}
		var degree float64
		for _, w := range g.Neighbors(id) {
			degree += w
		}
		if degree > bestDegree || (degree == bestDegree && termByID[id] < bestTerm) {
			bestDegree = degree
			bestTerm = termByID[id]
		}
	}
	if bestTerm == "" {
		return "(pages)"
	}
	return bestTerm
}
