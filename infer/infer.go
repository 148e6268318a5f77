// SPDX-License-Identifier: MIT
package infer

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/haldane-labs/browsectx/community"
	"github.com/haldane-labs/browsectx/graphstore"
)

// Infer computes the posterior distribution over partition's communities
// given the observed keywords (spec §4.4): a Laplace-smoothed prior over
// each community's internal decayed edge-weight mass, combined with a
// per-keyword overlap likelihood, normalized into a full posterior. Below
// two communities, or when the top posterior falls under cfg's cold-start
// floor, the result is reported as the synthetic "Exploring" task while
// still carrying the full posterior for telemetry.
func Infer(g *graphstore.Graph, partition *community.Partition, keywords []string, cfg Config) Result {
	if cfg.Alpha <= 0 {
		cfg.Alpha = DefaultConfig().Alpha
	}
	if cfg.ColdStartThreshold <= 0 {
		cfg.ColdStartThreshold = DefaultConfig().ColdStartThreshold
	}

	ids := sortedCommunityIDs(partition)
	if len(ids) == 0 {
		return Result{TopCommunity: -1, ActiveLabel: ExploringLabel, ColdStart: true, Posterior: map[int]float64{}}
	}

	strengths := make(map[int]float64, len(ids))
	var sumStrength float64
	for _, c := range ids {
		w := communityInternalStrength(g, partition.Members[c])
		strengths[c] = w
		sumStrength += w
	}
	priorDenom := sumStrength + cfg.Alpha*float64(len(ids))

	overlaps := make(map[int]float64, len(ids))
	var sumOverlap float64
	for _, c := range ids {
		o := overlapScore(g, partition.Members[c], keywords)
		overlaps[c] = o
		sumOverlap += o
	}
	likelihoodDenom := sumOverlap + cfg.Alpha*float64(len(ids))

	posterior := make(map[int]float64, len(ids))
	var sumPosterior float64
	for _, c := range ids {
		prior := (strengths[c] + cfg.Alpha) / priorDenom
		likelihood := (overlaps[c] + cfg.Alpha) / likelihoodDenom
		p := prior * likelihood
		posterior[c] = p
		sumPosterior += p
	}
	if sumPosterior == 0 || math.IsNaN(sumPosterior) {
		uniform := 1.0 / float64(len(ids))
		for _, c := range ids {
			posterior[c] = uniform
		}
	} else {
		for _, c := range ids {
			posterior[c] /= sumPosterior
		}
	}

	top, topP := argmaxByLabel(posterior, ids, partition)
	entropy := shannonEntropyBits(posterior, ids)

	result := Result{
		Posterior:    posterior,
		TopCommunity: top,
		ActiveLabel:  partition.Names[top],
		Confidence:   topP,
		EntropyBits:  entropy,
		Confident:    true,
	}

	if len(ids) < 2 || topP < cfg.ColdStartThreshold {
		result.ColdStart = true
		result.Confident = false
		result.ActiveLabel = ExploringLabel
		result.Confidence = 0
	}

	return result
}

func sortedCommunityIDs(p *community.Partition) []int {
	ids := make([]int, 0, len(p.Members))
	for c := range p.Members {
		ids = append(ids, c)
	}
	sort.Ints(ids)
	return ids
}

// communityInternalStrength sums the weighted degree of every member node,
// restricted to edges whose other endpoint is also a member, and halves it
// since each internal edge is seen from both endpoints — W_i, the
// community's total internal decayed-weight mass (spec §4.4's prior).
func communityInternalStrength(g *graphstore.Graph, members []string) float64 {
	memberSet := make(map[string]bool, len(members))
	for _, id := range members {
		memberSet[id] = true
	}
	var sum float64
	for _, id := range members {
		for nbr, w := range g.Neighbors(id) {
			if memberSet[nbr] {
				sum += w
			}
		}
	}
	return sum / 2
}

// overlapScore sums, over keywords, the per-keyword overlap contribution
// into one community (spec §4.4's overlap(E, C_i)): 3.0 if the keyword is
// itself a member node, else the sum of its edge weights into members, else
// 0 if the keyword is absent from the graph entirely.
func overlapScore(g *graphstore.Graph, members []string, keywords []string) float64 {
	memberSet := make(map[string]bool, len(members))
	for _, id := range members {
		memberSet[id] = true
	}
	var sum float64
	for _, kw := range keywords {
		id := graphstore.KeywordID(kw)
		if memberSet[id] {
			sum += 3.0
			continue
		}
		if _, ok := g.Node(id); !ok {
			continue
		}
		for nbr, w := range g.Neighbors(id) {
			if memberSet[nbr] {
				sum += w
			}
		}
	}
	return sum
}

// argmaxByLabel returns the community with the highest posterior, ties
// broken by the community's display label lexicographically (spec §4.4).
func argmaxByLabel(posterior map[int]float64, ids []int, p *community.Partition) (int, float64) {
	best, bestP := -1, -1.0
	for _, c := range ids {
		pc := posterior[c]
		switch {
		case pc > bestP:
			best, bestP = c, pc
		case pc == bestP && best != -1 && p.Names[c] < p.Names[best]:
			best = c
		}
	}
	return best, bestP
}

func shannonEntropyBits(posterior map[int]float64, ids []int) float64 {
	if len(ids) == 0 {
		return 0
	}
	vals := make([]float64, len(ids))
	for i, c := range ids {
		vals[i] = posterior[c]
	}
	return stat.Entropy(vals) / math.Ln2
}
