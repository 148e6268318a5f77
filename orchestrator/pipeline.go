// SPDX-License-Identifier: MIT
package orchestrator

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/haldane-labs/browsectx/community"
	"github.com/haldane-labs/browsectx/enrich"
	"github.com/haldane-labs/browsectx/errs"
	"github.com/haldane-labs/browsectx/extract"
	"github.com/haldane-labs/browsectx/graphstore"
	"github.com/haldane-labs/browsectx/infer"
	"github.com/haldane-labs/browsectx/internal/obslog"
)

// ChatBackend receives a freshly built context document after each
// pipeline run, e.g. to keep an LLM chat session grounded in the user's
// current browsing context. Notify is best-effort: its error is logged, not
// propagated, so a flaky downstream chat integration never blocks ingest.
type ChatBackend interface {
	Notify(ctx context.Context, doc *enrich.Document) error
}

// noopChatBackend is used when no ChatBackend is configured.
type noopChatBackend struct{}

func (noopChatBackend) Notify(context.Context, *enrich.Document) error { return nil }

// Config tunes the Orchestrator.
type Config struct {
	DebounceWindow      time.Duration // default 5s
	QueueCapacity       int           // default 256
	MaxConcurrentReads  int           // default 8, bounds concurrent GetContext calls
	InferConfig         infer.Config
	EnrichConfig        enrich.Config
	PartitionResolution float64
	PartitionSeed       int64
}

// DefaultConfig matches spec §6 defaults.
func DefaultConfig() Config {
	return Config{
		DebounceWindow:      5 * time.Second,
		QueueCapacity:       256,
		MaxConcurrentReads:  8,
		InferConfig:         infer.DefaultConfig(),
		EnrichConfig:        enrich.DefaultConfig(),
		PartitionResolution: 1.0,
		PartitionSeed:       community.DefaultSeed,
	}
}

// Orchestrator is the serial, single-consumer visit pipeline (component C6).
// Exactly one goroutine drains the visit queue and drives graphstore
// writes, so C1's writer-mutex is never contended from this path; callers
// only ever see read traffic run concurrently, and concurrent GetContext
// calls are bounded by Config.MaxConcurrentReads.
type Orchestrator struct {
	cfg       Config
	graph     *graphstore.Graph
	extractor extract.ExternalExtractor
	chat      ChatBackend
	clock     Clock
	log       *obslog.Logger

	queue     chan VisitRequest
	debouncer *debouncer
	telemetry *telemetryRing
	readGroup errgroup.Group

	extractorHealthy atomic.Bool

	mu              sync.RWMutex
	partition       *community.Partition
	lastDoc         *enrich.Document
	lastInferResult infer.Result
	lastKeywords    []string
	hasResult       bool

	// extractScratch holds the current visit's extraction result between
	// pipeline steps. Touched only by the single consumer goroutine inside
	// process(), so it needs no lock.
	extractScratch extract.Result

	wg       sync.WaitGroup
	shutdown chan struct{}
	once     sync.Once
}

// Option configures an Orchestrator before Start.
type Option func(*Orchestrator)

func WithExtractor(x extract.ExternalExtractor) Option { return func(o *Orchestrator) { o.extractor = x } }
func WithChatBackend(c ChatBackend) Option             { return func(o *Orchestrator) { o.chat = c } }
func WithClock(c Clock) Option                         { return func(o *Orchestrator) { o.clock = c } }
func WithLogger(l *obslog.Logger) Option               { return func(o *Orchestrator) { o.log = l } }

// New constructs an Orchestrator bound to graph. Call Start to begin
// processing visits.
func New(graph *graphstore.Graph, cfg Config, opts ...Option) *Orchestrator {
	if cfg.DebounceWindow <= 0 {
		cfg.DebounceWindow = 5 * time.Second
	}
	if cfg.QueueCapacity <= 0 {
		cfg.QueueCapacity = 256
	}
	if cfg.MaxConcurrentReads <= 0 {
		cfg.MaxConcurrentReads = 8
	}
	o := &Orchestrator{
		cfg:       cfg,
		graph:     graph,
		extractor: extract.Default(),
		chat:      noopChatBackend{},
		clock:     SystemClock{},
		log:       obslog.Noop(),
		queue:     make(chan VisitRequest, cfg.QueueCapacity),
		telemetry: newTelemetryRing(),
		shutdown:  make(chan struct{}),
	}
	o.readGroup.SetLimit(cfg.MaxConcurrentReads)
	o.extractorHealthy.Store(true)
	for _, opt := range opts {
		opt(o)
	}
	o.debouncer = newDebouncer(cfg.DebounceWindow, o.clock, o.enqueue)
	o.partition = &community.Partition{Labels: map[string]int{}, Members: map[int][]string{}, Names: map[int]string{}}
	return o
}

// Start launches the single consumer goroutine. Safe to call once.
func (o *Orchestrator) Start() {
	o.wg.Add(1)
	go o.run()
}

// Submit enqueues a page visit through the debouncer; it never blocks the
// caller on graph I/O.
func (o *Orchestrator) Submit(req VisitRequest) error {
	select {
	case <-o.shutdown:
		return &errs.ShutdownInProgress{}
	default:
	}
	now := o.clock.Now()
	o.telemetry.record(PipelineEvent{RunID: uuid.New(), URL: req.URL, Title: req.Title, Step: StepDebounce, StartedAt: now, FinishedAt: now})
	o.debouncer.Submit(req)
	return nil
}

// enqueue hands a (post-debounce) visit to the consumer goroutine. It is
// only ever called before o.queue is closed: either by a live debounce
// timer (which only fires while Submit is still accepting new visits) or by
// Shutdown's own Drain call, which runs strictly before the queue is
// closed — so a plain blocking send is safe and never races a closed
// channel.
func (o *Orchestrator) enqueue(req VisitRequest) {
	o.queue <- req
}

// Shutdown stops accepting new visits, drains any debounced ones
// immediately, processes everything already queued, and returns once the
// consumer goroutine exits or ctx's deadline elapses first.
func (o *Orchestrator) Shutdown(ctx context.Context) error {
	var err error
	o.once.Do(func() {
		close(o.shutdown) // Submit now rejects new visits
		o.debouncer.Drain()
		close(o.queue)
		done := make(chan struct{})
		go func() { o.wg.Wait(); close(done) }()
		select {
		case <-done:
		case <-ctx.Done():
			err = ctx.Err()
		}
	})
	return err
}

func (o *Orchestrator) run() {
	defer o.wg.Done()
	for req := range o.queue {
		o.process(req)
	}
}

// process runs the full pipeline for one (already debounced) visit.
func (o *Orchestrator) process(req VisitRequest) {
	runID := uuid.New()

	err := o.step(runID, req, StepExtract, func() error {
		r, extractErr := o.extractor.ExtractPage(req.Title, req.Body)
		if extractErr != nil {
			return &errs.ExtractionUnavailable{Cause: extractErr}
		}
		o.extractScratch = r
		return nil
	})
	if err != nil {
		o.extractorHealthy.Store(false)
		o.log.Warn("pipeline: extraction failed, falling back to the heuristic extractor", "url", req.URL, "error", err)
		o.extractScratch = extract.Extract(req.Title, req.Body)
	} else {
		o.extractorHealthy.Store(true)
	}
	extracted := o.extractScratch
	if len(req.Keywords) > 0 {
		extracted.Keywords = req.Keywords
	}

	err = o.step(runID, req, StepIngest, func() error {
		return o.graph.Ingest(graphstore.VisitInput{
			URL:            req.URL,
			Title:          req.Title,
			Summary:        extracted.Summary,
			ContentSnippet: extracted.Snippet,
			Keywords:       extracted.Keywords,
			Timestamp:      req.Timestamp,
		})
	})
	if err != nil {
		o.log.Error("pipeline: ingest failed", "url", req.URL, "error", err)
		return
	}

	var partition *community.Partition
	err = o.step(runID, req, StepPartition, func() error {
		partition = community.Detect(o.graph, community.WithResolution(o.cfg.PartitionResolution), community.WithSeed(o.cfg.PartitionSeed))
		return nil
	})
	if err != nil {
		return
	}
	o.mu.Lock()
	o.partition = partition
	o.mu.Unlock()

	var infResult infer.Result
	err = o.step(runID, req, StepInfer, func() error {
		infResult = infer.Infer(o.graph, partition, extracted.Keywords, o.cfg.InferConfig)
		return nil
	})
	if err != nil {
		return
	}

	var doc *enrich.Document
	err = o.step(runID, req, StepEnrich, func() error {
		doc = enrich.Build(o.graph, partition, infResult, extracted.Keywords, o.now(), o.cfg.EnrichConfig)
		return nil
	})
	if err != nil {
		return
	}
	o.mu.Lock()
	o.lastDoc = doc
	o.lastInferResult = infResult
	o.lastKeywords = extracted.Keywords
	o.hasResult = true
	o.mu.Unlock()

	err = o.step(runID, req, StepNotify, func() error {
		notifyCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return o.chat.Notify(notifyCtx, doc)
	})
	if err != nil {
		o.log.Warn("pipeline: chat backend notify failed", "url", req.URL, "error", err)
	}
}

// step runs fn, recording a PipelineEvent with its duration and outcome.
func (o *Orchestrator) step(runID uuid.UUID, req VisitRequest, name Step, fn func() error) error {
	started := o.clock.Now()
	err := fn()
	o.telemetry.record(PipelineEvent{
		RunID: runID, URL: req.URL, Title: req.Title, Step: name, Err: err,
		StartedAt: started, FinishedAt: o.clock.Now(),
	})
	return err
}

// PipelineEvents returns the most recent step-level telemetry, oldest first.
func (o *Orchestrator) PipelineEvents() []PipelineEvent { return o.telemetry.Recent() }

// Partition returns the most recently computed community partition.
func (o *Orchestrator) Partition() *community.Partition {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.partition
}

// ExtractorHealthy reports whether the most recently completed visit's
// extraction step succeeded (spec §6 get_stats.extractor_healthy).
func (o *Orchestrator) ExtractorHealthy() bool { return o.extractorHealthy.Load() }

// ResetState clears the cached partition and context document, used by
// reset_graph so a stale task summary never outlives the graph it described.
func (o *Orchestrator) ResetState() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.partition = &community.Partition{Labels: map[string]int{}, Members: map[int][]string{}, Names: map[int]string{}}
	o.lastDoc = nil
	o.lastInferResult = infer.Result{}
	o.lastKeywords = nil
	o.hasResult = false
}

// now anchors enrich's age_seconds calculations in the graph's own timestamp
// domain (caller-supplied, spec §4.1's recency_factor convention) rather than
// wall-clock time: the most recently visited page's timestamp, or 0 before
// any visit has landed.
func (o *Orchestrator) now() float64 {
	recent := o.graph.RecentPages(1)
	if len(recent) == 0 {
		return 0
	}
	return recent[0].Page.LastVisited
}

// GetContext re-enriches against the current graph state and returns a
// fresh context document, or an error if no visit has completed yet. Spec
// §4.6 requires every chat-context call to reflect the latest graph rather
// than a document cached from the last ingest, so C5 reruns here using the
// current graph plus the last computed partition and inference result.
// Concurrent callers are bounded by Config.MaxConcurrentReads via an
// errgroup semaphore, shielding the orchestrator from an unbounded fan-in of
// chat-context requests.
func (o *Orchestrator) GetContext(ctx context.Context) (*enrich.Document, error) {
	var doc *enrich.Document
	var fetchErr error
	done := make(chan struct{})
	o.readGroup.Go(func() error {
		defer close(done)
		o.mu.RLock()
		hasResult := o.hasResult
		partition := o.partition
		infResult := o.lastInferResult
		keywords := o.lastKeywords
		o.mu.RUnlock()
		if !hasResult {
			fetchErr = fmt.Errorf("no context document available yet")
			return nil
		}
		doc = enrich.Build(o.graph, partition, infResult, keywords, o.now(), o.cfg.EnrichConfig)
		return nil
	})
	select {
	case <-done:
		return doc, fetchErr
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
