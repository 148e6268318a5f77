// SPDX-License-Identifier: MIT

// Package infer computes a Bayesian posterior over the graph's detected
// communities given the keywords observed on a visit, i.e. "which ongoing
// task does this page most likely belong to" (component C4).
package infer

// Config tunes Infer. Zero or negative fields are replaced by DefaultConfig's
// values.
type Config struct {
	// Alpha is the Laplace smoothing constant added to every community's
	// internal strength (prior) and keyword overlap score (likelihood).
	Alpha float64
	// ColdStartThreshold is the minimum top-community posterior probability
	// below which a result is reported as not confident — too close to the
	// uniform prior to act on.
	ColdStartThreshold float64
}

// DefaultConfig matches spec §6 defaults: alpha=0.1, cold-start floor 0.25.
func DefaultConfig() Config {
	return Config{Alpha: 0.1, ColdStartThreshold: 0.25}
}

// ExploringLabel is the synthetic active-task label the cold-start guard
// substitutes when evidence is too weak to commit to a specific task
// (spec §4.4).
const ExploringLabel = "Exploring"

// Result is the outcome of one Infer call.
type Result struct {
	// Posterior maps community index to its posterior probability; sums to 1.
	// Preserved even under ColdStart, for telemetry (spec §4.4).
	Posterior map[int]float64
	// TopCommunity is the community index with the highest posterior, or -1
	// if the partition has no communities at all.
	TopCommunity int
	// ActiveLabel is the partition's label for TopCommunity, or ExploringLabel
	// when ColdStart is true.
	ActiveLabel string
	// Confidence is Posterior[TopCommunity], or 0 when ColdStart is true.
	Confidence float64
	// EntropyBits is the Shannon entropy of Posterior, in bits — low entropy
	// means the evidence strongly favors one community.
	EntropyBits float64
	// ColdStart is true when there are fewer than two communities to choose
	// between, or the top posterior falls below ColdStartThreshold; callers
	// should fall back to recency-based heuristics.
	ColdStart bool
	// Confident is the negation of ColdStart, kept as a separate named field
	// for callers that read it as a predicate rather than a double negative.
	Confident bool
}
