// SPDX-License-Identifier: MIT
package orchestrator

import (
	"sync"
	"time"
)

// debouncer coalesces rapid repeat visits to the same URL (e.g. a SPA
// re-rendering the same page, or a user idling on a tab that keeps firing
// heartbeat visits) into a single pipeline run, flushing after the page has
// been quiet for window.
type debouncer struct {
	mu      sync.Mutex
	window  time.Duration
	clock   Clock
	pending map[string]*pendingVisit
	flush   func(VisitRequest)
}

type pendingVisit struct {
	req   VisitRequest
	timer *time.Timer
}

func newDebouncer(window time.Duration, clock Clock, flush func(VisitRequest)) *debouncer {
	return &debouncer{
		window:  window,
		clock:   clock,
		pending: make(map[string]*pendingVisit),
		flush:   flush,
	}
}

// Submit coalesces req into any in-flight debounce window for req.URL,
// taking the latest non-empty Title/Body and the latest Timestamp, and
// (re)starts the quiet-period timer.
func (d *debouncer) Submit(req VisitRequest) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if p, ok := d.pending[req.URL]; ok {
		p.timer.Stop()
		merged := p.req
		merged.Timestamp = req.Timestamp
		if req.Title != "" {
			merged.Title = req.Title
		}
		if req.Body != "" {
			merged.Body = req.Body
		}
		if len(req.Keywords) > 0 {
			merged.Keywords = req.Keywords
		}
		p.req = merged
	} else {
		d.pending[req.URL] = &pendingVisit{req: req}
	}

	url := req.URL
	d.pending[url].timer = time.AfterFunc(d.window, func() { d.fire(url) })
}

func (d *debouncer) fire(url string) {
	d.mu.Lock()
	p, ok := d.pending[url]
	if ok {
		delete(d.pending, url)
	}
	d.mu.Unlock()
	if ok {
		d.flush(p.req)
	}
}

// Drain immediately flushes every pending visit, bypassing the quiet-period
// wait — used during Shutdown so no debounced visit is silently lost.
func (d *debouncer) Drain() {
	d.mu.Lock()
	pending := d.pending
	d.pending = make(map[string]*pendingVisit)
	d.mu.Unlock()

	for _, p := range pending {
		p.timer.Stop()
		d.flush(p.req)
	}
}
