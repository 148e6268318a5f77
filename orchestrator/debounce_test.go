// SPDX-License-Identifier: MIT
package orchestrator

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestDebouncer_CoalescesAndUsesLatestFields(t *testing.T) {
	var mu sync.Mutex
	var flushed []VisitRequest

	d := newDebouncer(20*time.Millisecond, SystemClock{}, func(v VisitRequest) {
		mu.Lock()
		flushed = append(flushed, v)
		mu.Unlock()
	})

	d.Submit(VisitRequest{URL: "https://a.com", Title: "first", Timestamp: 1})
	d.Submit(VisitRequest{URL: "https://a.com", Title: "", Timestamp: 2})
	d.Submit(VisitRequest{URL: "https://a.com", Title: "latest", Timestamp: 3})

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(flushed) == 1
	}, time.Second, 5*time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	require.Equal(t, "latest", flushed[0].Title)
	require.Equal(t, 3.0, flushed[0].Timestamp)
}

func TestDebouncer_Drain_FlushesImmediately(t *testing.T) {
	var mu sync.Mutex
	var flushed []VisitRequest

	d := newDebouncer(10*time.Second, SystemClock{}, func(v VisitRequest) {
		mu.Lock()
		flushed = append(flushed, v)
		mu.Unlock()
	})
	d.Submit(VisitRequest{URL: "https://a.com", Timestamp: 1})
	d.Submit(VisitRequest{URL: "https://b.com", Timestamp: 1})
	d.Drain()

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, flushed, 2)
}

func TestTelemetryRing_WrapsAtCapacity(t *testing.T) {
	r := newTelemetryRing()
	for i := 0; i < telemetryCapacity+5; i++ {
		r.record(PipelineEvent{URL: "u", Step: StepIngest})
	}
	require.Len(t, r.Recent(), telemetryCapacity)
}
