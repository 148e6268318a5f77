// SPDX-License-Identifier: MIT
// Package browsectx turns a stream of page-visit events into a weighted
// heterogeneous graph of visited pages and topic keywords, infers the
// latent task the graph's owner is currently engaged in, and assembles a
// structured context document describing that task.
//
// The engine is a single-process, single-user, in-memory component with
// periodic snapshot persistence. It performs no network I/O, no semantic
// embedding, and no cross-user aggregation.
//
// Under the hood it is organized as:
//
//	graphstore/   — the weighted graph of pages and keywords (decay, pruning, queries)
//	extract/      — deterministic keyword/summary/snippet extraction fallback
//	community/    — modularity-optimizing partition over the graph (Louvain)
//	infer/        — Bayesian posterior over communities given visit evidence
//	enrich/       — assembly of the structured context document
//	orchestrator/ — the serial per-visit pipeline and its telemetry
//	engine/       — bootstrap/shutdown and the capability-oriented API surface
//
//	go get github.com/haldane-labs/browsectx/engine
package browsectx
