package metrics

import "time"

// ErrorLabel enumerates fatal parse error kinds for counters.
type ErrorLabel string

const (
	ErrorNoMatchingRule ErrorLabel = "no_matching_rule"
	ErrorStalledRule    ErrorLabel = "stalled_rule"
	ErrorOther          ErrorLabel = "other"
)

// Recorder defines observability hooks for tokenizer metrics. Implementations
// may forward to Prometheus or any other backend.
type Recorder interface {
	ObserveParseDuration(d time.Duration)
	ObserveTokens(n int)
	IncRuleFired(rule string)
	IncParseError(kind ErrorLabel)
}

// NoopRecorder is a Recorder that does nothing (default when metrics are not configured).
type NoopRecorder struct{}

func (NoopRecorder) ObserveParseDuration(time.Duration) {}
func (NoopRecorder) ObserveTokens(int)                  {}
func (NoopRecorder) IncRuleFired(string)                {}
func (NoopRecorder) IncParseError(ErrorLabel)           {}
