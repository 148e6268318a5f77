// SPDX-License-Identifier: MIT

// Package engine bootstraps and exposes the browsing-context engine as a
// single Go type, wiring C1–C6 together the way an embedder would: build a
// Config, call Bootstrap, then drive the capability surface in spec §6
// (Analyze, GetContext, GetGraph, ResetGraph, GetStats, GetPipelineEvents,
// ChatContext) until Shutdown.
package engine

import (
	"sort"

	"github.com/haldane-labs/browsectx/enrich"
	"github.com/haldane-labs/browsectx/graphstore"
	"github.com/haldane-labs/browsectx/orchestrator"
)

// AnalyzeRequest is one page visit submitted through the `analyze`
// capability (spec §6).
type AnalyzeRequest struct {
	URL       string
	Title     string
	Content   string
	Keywords  []string
	Timestamp float64
}

// GraphNode is one entry of `get_graph`'s nodes array.
type GraphNode struct {
	ID             string   `json:"id"`
	Type           string   `json:"type"`
	Label          string   `json:"label"`
	Community      int      `json:"community"`
	Frequency      int      `json:"frequency,omitempty"`
	VisitCount     int      `json:"visit_count,omitempty"`
	Summary        string   `json:"summary,omitempty"`
	ContentSnippet string   `json:"content_snippet,omitempty"`
	URL            string   `json:"url,omitempty"`
	PageRefs       []string `json:"page_refs,omitempty"`
}

// GraphEdge is one entry of `get_graph`'s edges array.
type GraphEdge struct {
	Source     string  `json:"source"`
	Target     string  `json:"target"`
	Weight     float64 `json:"weight"`
	BaseWeight float64 `json:"base_weight"`
}

// GraphView is the full response to `get_graph`.
type GraphView struct {
	Nodes          []GraphNode `json:"nodes"`
	Edges          []GraphEdge `json:"edges"`
	CommunityCount int         `json:"community_count"`
}

// Stats is the response to `get_stats`.
type Stats struct {
	NodeCount        int  `json:"node_count"`
	EdgeCount        int  `json:"edge_count"`
	CommunityCount   int  `json:"community_count"`
	MaxNodes         int  `json:"max_nodes"`
	ExtractorHealthy bool `json:"extractor_healthy"`
}

// StepEvent is one entry of a Run's steps array.
type StepEvent struct {
	Step       string  `json:"step"`
	StartedAt  float64 `json:"started_at"`
	FinishedAt float64 `json:"finished_at"`
	Error      string  `json:"error,omitempty"`
}

// Run groups every StepEvent recorded for one pipeline invocation, matching
// spec §6's get_pipeline_events response shape.
type Run struct {
	ID          string      `json:"id"`
	URL         string      `json:"url"`
	Title       string      `json:"title"`
	StartedAt   float64     `json:"started_at"`
	CompletedAt *float64    `json:"completed_at"`
	Status      string      `json:"status"`
	Steps       []StepEvent `json:"steps"`
}

// PipelineEventsView is the response to `get_pipeline_events`.
type PipelineEventsView struct {
	Runs []Run `json:"runs"`
}

// ChatContextResponse is the response to `chat_context`.
type ChatContextResponse struct {
	ContextDocument *enrich.Document `json:"context_document"`
	Query           string           `json:"query"`
}

func toGraphNode(n graphstore.NodeView, community int) GraphNode {
	gn := GraphNode{ID: n.ID, Community: community}
	if n.Kind == graphstore.KindPage {
		gn.Type = "page"
		gn.Label = n.Page.Title
		gn.VisitCount = n.Page.VisitCount
		gn.Summary = n.Page.Summary
		gn.ContentSnippet = n.Page.ContentSnippet
		gn.URL = n.Page.URL
	} else {
		gn.Type = "keyword"
		gn.Label = n.Keyword.Term
		gn.Frequency = n.Keyword.Frequency
		gn.PageRefs = n.Keyword.PageRefs
	}
	return gn
}

func toGraphEdge(e graphstore.EdgeView) GraphEdge {
	return GraphEdge{Source: e.A, Target: e.B, Weight: e.Weight, BaseWeight: e.BaseWeight}
}

// groupRuns reconstructs spec §6's run/step tree from the orchestrator's
// flat, chronological telemetry ring. Events for the same RunID are always
// contiguous in Recent()'s output since a run's seven steps are recorded
// back-to-back by the single consumer goroutine, but grouping by ID rather
// than assuming contiguity keeps this correct even if that ever changes.
func groupRuns(events []orchestrator.PipelineEvent) []Run {
	order := make([]string, 0)
	byID := make(map[string]*Run)

	for _, e := range events {
		id := e.RunID.String()
		r, ok := byID[id]
		if !ok {
			r = &Run{ID: id, URL: e.URL, Title: e.Title, StartedAt: secondsSince(e.StartedAt), Status: "in_progress"}
			byID[id] = r
			order = append(order, id)
		}
		step := StepEvent{Step: string(e.Step), StartedAt: secondsSince(e.StartedAt), FinishedAt: secondsSince(e.FinishedAt)}
		if e.Err != nil {
			step.Error = e.Err.Error()
			r.Status = "failed"
		}
		r.Steps = append(r.Steps, step)
		if e.Err != nil || e.Step == orchestrator.StepNotify {
			finished := secondsSince(e.FinishedAt)
			r.CompletedAt = &finished
			if e.Err == nil {
				r.Status = "success"
			}
		}
	}

	runs := make([]Run, 0, len(order))
	for _, id := range order {
		runs = append(runs, *byID[id])
	}
	sort.SliceStable(runs, func(i, j int) bool { return runs[i].StartedAt < runs[j].StartedAt })
	return runs
}
