// SPDX-License-Identifier: MIT

// Package orchestrator drives the serial, single-consumer visit pipeline
// that turns a raw page visit into graph updates, a refreshed community
// partition, a Bayesian inference, and a context document (component C6).
package orchestrator

import (
	"time"

	"github.com/google/uuid"
)

// VisitRequest is a raw page visit submitted to the pipeline. Keywords, if
// non-empty, are trusted verbatim and C2's extraction step only derives the
// summary/snippet — matching spec §6's `analyze` request, where the caller
// may supply its own keyword hints instead of relying on the heuristic pass.
type VisitRequest struct {
	URL       string
	Title     string
	Body      string
	Keywords  []string
	Timestamp float64
}

// Step names the ordered stages of the visit pipeline (spec §4.6).
type Step string

const (
	StepDebounce  Step = "debounce"
	StepExtract   Step = "extract"
	StepIngest    Step = "ingest"
	StepPartition Step = "partition"
	StepInfer     Step = "infer"
	StepEnrich    Step = "enrich"
	StepNotify    Step = "notify"
)

// PipelineEvent is one step-level telemetry record.
type PipelineEvent struct {
	RunID      uuid.UUID
	URL        string
	Title      string
	Step       Step
	Err        error
	StartedAt  time.Time
	FinishedAt time.Time
}

// Duration returns how long the step took.
func (e PipelineEvent) Duration() time.Duration { return e.FinishedAt.Sub(e.StartedAt) }

// Clock abstracts the wall-clock time stamped on pipeline telemetry events.
// Visit timestamps come from the request itself, and debounce timers run on
// the real clock via time.AfterFunc.
type Clock interface {
	Now() time.Time
}

// SystemClock is the production Clock backed by time.Now.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// SnapshotStore persists and restores the graph's binary snapshot. Its
// methods have the same (path string) error shape as graphstore.Graph's
// Snapshot/Hydrate but different names, so *graphstore.Graph does not
// satisfy it directly; nothing in this package consumes it.
type SnapshotStore interface {
	Save(path string) error
	Load(path string) error
}
