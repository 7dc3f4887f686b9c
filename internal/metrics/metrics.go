// Package metrics keeps a request-latency histogram for the stats endpoint.
package metrics

import (
	"sync"
	"time"

	"github.com/HdrHistogram/hdrhistogram-go"
)

// Recorder tracks request latencies in milliseconds. hdrhistogram is not
// safe for concurrent writers, so every access holds the mutex.
type Recorder struct {
	mu        sync.Mutex
	histogram *hdrhistogram.Histogram
}

func NewRecorder() *Recorder {
	return &Recorder{
		histogram: hdrhistogram.New(1, 60_000, 3),
	}
}

func (r *Recorder) Record(d time.Duration) {
	ms := d.Milliseconds()
	if ms < 1 {
		ms = 1
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.histogram.RecordValue(ms)
}

type Snapshot struct {
	Requests int64 `json:"requests"`
	P50Ms    int64 `json:"p50_ms"`
	P95Ms    int64 `json:"p95_ms"`
	P99Ms    int64 `json:"p99_ms"`
	MaxMs    int64 `json:"max_ms"`
}

func (r *Recorder) Snapshot() Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	return Snapshot{
		Requests: r.histogram.TotalCount(),
		P50Ms:    r.histogram.ValueAtQuantile(50),
		P95Ms:    r.histogram.ValueAtQuantile(95),
		P99Ms:    r.histogram.ValueAtQuantile(99),
		MaxMs:    r.histogram.Max(),
	}
}
