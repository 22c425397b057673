// Package metrics exposes process counters in Prometheus text format
// without pulling in a client library.
package metrics

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"
)

var (
	diagnosticStartedTotal   atomic.Uint64
	diagnosticCompletedTotal atomic.Uint64
	diagnosticFailedTotal    atomic.Uint64
	assistantRetriesTotal    atomic.Uint64
	analysisEvictionsTotal   atomic.Uint64
	projectPublishedTotal    atomic.Uint64
	matchesEmittedTotal      atomic.Uint64

	diagnosticDuration = newHistogram([]float64{100, 250, 500, 1000, 2000, 5000, 10000, 30000, 60000})
)

// IncDiagnosticStarted increments the started counter.
func IncDiagnosticStarted() {
	diagnosticStartedTotal.Add(1)
}

// IncDiagnosticCompleted increments the completed counter.
func IncDiagnosticCompleted() {
	diagnosticCompletedTotal.Add(1)
}

// IncDiagnosticFailed increments the failed counter.
func IncDiagnosticFailed() {
	diagnosticFailedTotal.Add(1)
}

// IncAssistantRetries increments the assistant retry counter.
func IncAssistantRetries() {
	assistantRetriesTotal.Add(1)
}

// AddAnalysisEvictions records n retention evictions.
func AddAnalysisEvictions(n int) {
	if n > 0 {
		analysisEvictionsTotal.Add(uint64(n))
	}
}

// IncProjectPublished increments the publish counter.
func IncProjectPublished() {
	projectPublishedTotal.Add(1)
}

// AddMatchesEmitted records n emitted expert matches.
func AddMatchesEmitted(n int) {
	if n > 0 {
		matchesEmittedTotal.Add(uint64(n))
	}
}

// ObserveDiagnosticDurationMs records a diagnostic run duration in milliseconds.
func ObserveDiagnosticDurationMs(value float64) {
	if value < 0 {
		value = 0
	}
	diagnosticDuration.Observe(value)
}

// Handler exposes metrics in Prometheus text format.
func Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Content-Type", "text/plain; version=0.0.4")
		c.String(http.StatusOK, Render())
	}
}

// Render renders metrics in Prometheus text format.
func Render() string {
	var buf bytes.Buffer
	writeCounter(&buf, "diagnostic_started_total", "Total diagnostic runs started", diagnosticStartedTotal.Load())
	writeCounter(&buf, "diagnostic_completed_total", "Total diagnostic runs completed", diagnosticCompletedTotal.Load())
	writeCounter(&buf, "diagnostic_failed_total", "Total diagnostic runs failed", diagnosticFailedTotal.Load())
	writeCounter(&buf, "assistant_retries_total", "Total assistant poll retries", assistantRetriesTotal.Load())
	writeCounter(&buf, "analysis_evictions_total", "Total analysis retention evictions", analysisEvictionsTotal.Load())
	writeCounter(&buf, "project_published_total", "Total projects published", projectPublishedTotal.Load())
	writeCounter(&buf, "matches_emitted_total", "Total expert matches emitted", matchesEmittedTotal.Load())
	writeHistogram(&buf, "diagnostic_duration_ms", "Diagnostic run duration in milliseconds", diagnosticDuration.Snapshot())
	return buf.String()
}

type histogram struct {
	mu      sync.Mutex
	buckets []float64
	counts  []uint64
	sum     float64
	count   uint64
}

type histogramSnapshot struct {
	buckets []float64
	counts  []uint64
	sum     float64
	count   uint64
}

func newHistogram(buckets []float64) *histogram {
	return &histogram{
		buckets: buckets,
		counts:  make([]uint64, len(buckets)),
	}
}

func (h *histogram) Observe(value float64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.count++
	h.sum += value
	for i, bound := range h.buckets {
		if value <= bound {
			h.counts[i]++
		}
	}
}

func (h *histogram) Snapshot() histogramSnapshot {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := histogramSnapshot{
		buckets: append([]float64(nil), h.buckets...),
		counts:  append([]uint64(nil), h.counts...),
		sum:     h.sum,
		count:   h.count,
	}
	return out
}

func writeCounter(buf *bytes.Buffer, name, help string, value uint64) {
	fmt.Fprintf(buf, "# HELP %s %s\n", name, help)
	fmt.Fprintf(buf, "# TYPE %s counter\n", name)
	fmt.Fprintf(buf, "%s %d\n", name, value)
}

func writeHistogram(buf *bytes.Buffer, name, help string, snap histogramSnapshot) {
	fmt.Fprintf(buf, "# HELP %s %s\n", name, help)
	fmt.Fprintf(buf, "# TYPE %s histogram\n", name)
	var cumulative uint64
	for i, bound := range snap.buckets {
		cumulative += snap.counts[i]
		fmt.Fprintf(buf, "%s_bucket{le=\"%s\"} %d\n", name, formatFloat(bound), cumulative)
	}
	fmt.Fprintf(buf, "%s_bucket{le=\"+Inf\"} %d\n", name, snap.count)
	fmt.Fprintf(buf, "%s_sum %s\n", name, formatFloat(snap.sum))
	fmt.Fprintf(buf, "%s_count %d\n", name, snap.count)
}

func formatFloat(value float64) string {
	if value == float64(int64(value)) {
		return strconv.FormatInt(int64(value), 10)
	}
	return strconv.FormatFloat(value, 'f', -1, 64)
}

// NowMillis returns current time in milliseconds, useful for callers without time utilities.
func NowMillis() float64 {
	return float64(time.Now().UnixNano()) / float64(time.Millisecond)
}
