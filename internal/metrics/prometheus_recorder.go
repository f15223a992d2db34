package metrics

import (
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	parseDuration prom.Histogram
	tokens        prom.Histogram
	rulesFired    *prom.CounterVec
	parseErrors   *prom.CounterVec
}

// NewPrometheusRecorder constructs the collectors and registers them on reg.
// A nil reg gets a fresh private registry.
func NewPrometheusRecorder(reg prom.Registerer) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{
		parseDuration: prom.NewHistogram(prom.HistogramOpts{
			Namespace: "mdblock",
			Name:      "parse_duration_seconds",
			Help:      "Duration of block tokenization per document",
			Buckets:   prom.ExponentialBuckets(0.0001, 4, 8),
		}),
		tokens: prom.NewHistogram(prom.HistogramOpts{
			Namespace: "mdblock",
			Name:      "tokens_per_parse",
			Help:      "Number of block tokens emitted per document",
			Buckets:   prom.ExponentialBuckets(1, 4, 8),
		}),
		rulesFired: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "mdblock",
			Name:      "rules_fired_total",
			Help:      "Block rule acceptances by rule name",
		}, []string{"rule"}),
		parseErrors: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "mdblock",
			Name:      "parse_errors_total",
			Help:      "Fatal tokenizer errors by kind",
		}, []string{"kind"}),
	}
	reg.MustRegister(pr.parseDuration, pr.tokens, pr.rulesFired, pr.parseErrors)
	return pr
}

func (p *PrometheusRecorder) ObserveParseDuration(d time.Duration) {
	if p == nil {
		return
	}
	p.parseDuration.Observe(d.Seconds())
}

func (p *PrometheusRecorder) ObserveTokens(n int) {
	if p == nil {
		return
	}
	p.tokens.Observe(float64(n))
}

func (p *PrometheusRecorder) IncRuleFired(rule string) {
	if p == nil {
		return
	}
	p.rulesFired.WithLabelValues(rule).Inc()
}

func (p *PrometheusRecorder) IncParseError(kind ErrorLabel) {
	if p == nil {
		return
	}
	p.parseErrors.WithLabelValues(string(kind)).Inc()
}
