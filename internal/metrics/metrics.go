// Package metrics defines the minimal backend interface the ingestion tools
// emit observability data through. The pipeline itself stays pure; only the
// command-line entry points record metrics.
package metrics

// Labels are optional key/value tags attached to a metric point.
type Labels map[string]string

// Backend is the minimal sink interface. Implementations must be safe for
// concurrent use.
type Backend interface {
	// IncCounter adds delta to a monotonically increasing counter.
	IncCounter(name string, delta float64, labels Labels)

	// ObserveHistogram records one sample of a distribution (durations,
	// confidence scores, row counts).
	ObserveHistogram(name string, value float64, labels Labels)

	// Flush submits buffered metrics immediately.
	Flush() error

	// Close flushes a final time and releases resources.
	Close() error
}

// Nop is a Backend that discards everything. It is the default so callers
// never need nil checks.
type Nop struct{}

func (Nop) IncCounter(string, float64, Labels)       {}
func (Nop) ObserveHistogram(string, float64, Labels) {}
func (Nop) Flush() error                             { return nil }
func (Nop) Close() error                             { return nil }
