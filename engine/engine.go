// SPDX-License-Identifier: MIT
package engine

import (
	"context"
	"time"

	"github.com/haldane-labs/browsectx/enrich"
	"github.com/haldane-labs/browsectx/errs"
	"github.com/haldane-labs/browsectx/extract"
	"github.com/haldane-labs/browsectx/graphstore"
	"github.com/haldane-labs/browsectx/infer"
	"github.com/haldane-labs/browsectx/internal/config"
	"github.com/haldane-labs/browsectx/internal/obslog"
	"github.com/haldane-labs/browsectx/orchestrator"
)

// Engine is the top-level, long-lived object an embedder constructs once per
// process: the graph, the pipeline orchestrator, and the configuration and
// logging that bind them, matching how neurobridge-backend's internal/app
// wires its own long-lived service object from a loaded Config.
type Engine struct {
	cfg   config.Config
	log   *obslog.Logger
	graph *graphstore.Graph
	orch  *orchestrator.Orchestrator
}

// Option customizes Bootstrap beyond what Config carries — a pluggable
// ExternalExtractor or ChatBackend, primarily for tests and embedders that
// have their own LLM-backed implementations.
type Option = orchestrator.Option

// WithExtractor plugs in an external keyword extractor ahead of C2's
// built-in heuristic fallback.
func WithExtractor(x extract.ExternalExtractor) Option { return orchestrator.WithExtractor(x) }

// WithChatBackend plugs in a capability that receives every freshly built
// context document.
func WithChatBackend(c orchestrator.ChatBackend) Option { return orchestrator.WithChatBackend(c) }

// Bootstrap constructs an Engine from cfg: builds the graph with cfg's
// tunables, hydrates it from cfg.SnapshotPath if a snapshot exists (a
// missing file is not an error — spec §6 persistent state), and starts the
// pipeline orchestrator. Call Shutdown to drain in-flight visits and persist
// a fresh snapshot.
func Bootstrap(cfg config.Config, log *obslog.Logger, opts ...Option) (*Engine, error) {
	if log == nil {
		log = obslog.Noop()
	}

	graph := graphstore.NewGraph(
		graphstore.WithDecayRate(cfg.DecayRate),
		graphstore.WithPruneThreshold(cfg.EdgePruneThreshold),
		graphstore.WithMaxNodes(cfg.MaxGraphNodes),
		graphstore.WithLogger(log),
	)

	if cfg.SnapshotPath != "" {
		if err := graph.Hydrate(cfg.SnapshotPath); err != nil {
			log.Warn("engine: snapshot hydrate failed, starting from an empty graph", "path", cfg.SnapshotPath, "error", err)
		}
	}

	ocfg := orchestrator.DefaultConfig()
	ocfg.DebounceWindow = cfg.Debounce()
	ocfg.InferConfig = infer.Config{Alpha: cfg.LaplaceSmoothing, ColdStartThreshold: cfg.ConfidenceColdStart}
	ocfg.EnrichConfig = enrich.Config{MaxTrajectoryPages: cfg.MaxTrajectoryPages, MaxDeepPages: cfg.MaxDeepContentPages}
	ocfg.PartitionResolution = cfg.CommunityResolution
	ocfg.PartitionSeed = cfg.CommunitySeed

	orchOpts := append([]orchestrator.Option{orchestrator.WithLogger(log)}, opts...)
	orch := orchestrator.New(graph, ocfg, orchOpts...)
	orch.Start()

	return &Engine{cfg: cfg, log: log, graph: graph, orch: orch}, nil
}

// Shutdown drains the pipeline (or gives up once ctx expires), then writes a
// fresh snapshot to cfg.SnapshotPath in either case, and returns ctx's error
// if the drain was cut short. A snapshot write failure is a
// TransientIOError: logged, not returned, per spec §7.
func (e *Engine) Shutdown(ctx context.Context) error {
	drainErr := e.orch.Shutdown(ctx)
	if e.cfg.SnapshotPath != "" {
		if err := e.graph.Snapshot(e.cfg.SnapshotPath); err != nil {
			e.log.Warn("engine: snapshot write failed", "path", e.cfg.SnapshotPath, "error", &errs.TransientIOError{Op: "snapshot", Cause: err})
		}
	}
	e.log.Sync()
	return drainErr
}

// Analyze submits a page visit to the pipeline (spec §6 `analyze`).
func (e *Engine) Analyze(req AnalyzeRequest) error {
	if req.URL == "" {
		return &errs.ValidationError{Field: "url", Reason: "must be non-empty"}
	}
	return e.orch.Submit(orchestrator.VisitRequest{
		URL:       req.URL,
		Title:     req.Title,
		Body:      req.Content,
		Keywords:  req.Keywords,
		Timestamp: req.Timestamp,
	})
}

// GetContext returns a context document rebuilt against the current graph
// from the last completed visit's partition and inference, or nil if no
// visit has completed yet (spec §6 `get_context`).
func (e *Engine) GetContext(ctx context.Context) (*enrich.Document, error) {
	doc, err := e.orch.GetContext(ctx)
	if err != nil {
		// "no context document available yet" is the expected empty state,
		// not a failure the caller needs to see.
		return nil, nil
	}
	return doc, nil
}

// GetGraph renders the full graph plus its current community assignment
// (spec §6 `get_graph`).
func (e *Engine) GetGraph() GraphView {
	partition := e.orch.Partition()
	nodes := e.graph.AllNodes()
	edges := e.graph.AllEdges()

	view := GraphView{
		Nodes:          make([]GraphNode, 0, len(nodes)),
		Edges:          make([]GraphEdge, 0, len(edges)),
		CommunityCount: partition.Communities(),
	}
	for _, n := range nodes {
		comm := -1
		if partition != nil {
			comm = partition.Labels[n.ID]
		}
		view.Nodes = append(view.Nodes, toGraphNode(n, comm))
	}
	for _, e := range edges {
		view.Edges = append(view.Edges, toGraphEdge(e))
	}
	return view
}

// ResetGraph empties the graph and the cached context document (spec §6
// `reset_graph`).
func (e *Engine) ResetGraph() {
	e.graph.Reset()
	e.orch.ResetState()
}

// GetStats reports graph size and health (spec §6 `get_stats`).
func (e *Engine) GetStats() Stats {
	return Stats{
		NodeCount:        e.graph.NodeCount(),
		EdgeCount:        e.graph.EdgeCount(),
		CommunityCount:   e.orch.Partition().Communities(),
		MaxNodes:         e.graph.MaxNodes(),
		ExtractorHealthy: e.orch.ExtractorHealthy(),
	}
}

// GetPipelineEvents returns the recent pipeline run history (spec §6
// `get_pipeline_events`). The buffer is in-memory only and reset on every
// Bootstrap (Open Question 4, SPEC_FULL.md).
func (e *Engine) GetPipelineEvents() PipelineEventsView {
	return PipelineEventsView{Runs: groupRuns(e.orch.PipelineEvents())}
}

// ChatContext re-enriches the context document against the current graph
// state and pairs it with the caller's query (spec §6 `chat_context`, §4.6's
// chat pipeline). The engine has no query-understanding component of its
// own — §1's non-goals exclude NLU — so the query passes through untouched
// for a downstream ChatBackend to interpret; GetContext already reruns C5
// fresh on every call, so the returned document always reflects the latest
// graph rather than a document cached from the last visit.
func (e *Engine) ChatContext(ctx context.Context, query string) (ChatContextResponse, error) {
	doc, err := e.GetContext(ctx)
	if err != nil {
		return ChatContextResponse{}, err
	}
	return ChatContextResponse{ContextDocument: doc, Query: query}, nil
}

func secondsSince(t time.Time) float64 {
	return float64(t.UnixNano()) / 1e9
}
