// SPDX-License-Identifier: MIT
package community

import "math/rand"

const maxPasses = 20

// weightedGraph is a compact adjacency view of the graph store's snapshot,
// built once per Partition call.
type weightedGraph struct {
	nodes       []string
	adj         map[string]map[string]float64
	strength    map[string]float64 // sum of incident edge weights
	totalWeight float64            // sum over all edges (each counted once)
}

// louvainAssign runs one greedy modularity-optimization sweep over wg,
// moving each node to the neighboring community that yields the largest
// modularity gain (resolution-adjusted), iterating until no node moves or
// maxPasses is reached. It mirrors the single-level greedy form of Louvain:
// every node starts in its own community and communities only merge, they
// never split again within a call.
func louvainAssign(wg *weightedGraph, resolution float64, rng *rand.Rand) map[string]int {
	label := make(map[string]int, len(wg.nodes))
	for i, id := range wg.nodes {
		label[id] = i
	}
	if wg.totalWeight == 0 || len(wg.nodes) < 2 {
		return label
	}
	m2 := 2.0 * wg.totalWeight

	commStrength := make(map[int]float64, len(wg.nodes))
	for _, id := range wg.nodes {
		commStrength[label[id]] += wg.strength[id]
	}

	order := append([]string(nil), wg.nodes...)
	for pass := 0; pass < maxPasses; pass++ {
		shuffleStringsInPlace(order, rng)
		moved := false
		for _, id := range order {
			commWeights := make(map[int]float64)
			for nbr, w := range wg.adj[id] {
				commWeights[label[nbr]] += w
			}
			current := label[id]
			ki := wg.strength[id]
			kiIn := commWeights[current]
			sigmaCurrent := commStrength[current]
			removeDelta := kiIn/m2 - resolution*(sigmaCurrent*ki)/(m2*m2)

			best := current
			bestGain := 0.0
			for c, wic := range commWeights {
				if c == current {
					continue
				}
				sigmaC := commStrength[c]
				gain := (wic/m2 - resolution*(sigmaC*ki)/(m2*m2)) - removeDelta
				if gain > bestGain || (gain == bestGain && gain > 0 && c < best) {
					bestGain = gain
					best = c
				}
			}
			if best != current {
				commStrength[current] -= ki
				commStrength[best] += ki
				label[id] = best
				moved = true
			}
		}
		if !moved {
			break
		}
	}
	return label
}

// buildWeightedGraph snapshots the nodes/edges relevant to community
// detection: every node, every edge weight above zero.
func buildWeightedGraph(nodeIDs []string, neighbors func(id string) map[string]float64) *weightedGraph {
	wg := &weightedGraph{
		nodes:    nodeIDs,
		adj:      make(map[string]map[string]float64, len(nodeIDs)),
		strength: make(map[string]float64, len(nodeIDs)),
	}
	seen := make(map[string]bool)
	for _, id := range nodeIDs {
		nbrs := neighbors(id)
		wg.adj[id] = nbrs
		for nbr, w := range nbrs {
			wg.strength[id] += w
			key := id + "\x00" + nbr
			revKey := nbr + "\x00" + id
			if !seen[key] && !seen[revKey] {
				wg.totalWeight += w
				seen[key] = true
			}
		}
	}
	return wg
}
