package metrics

import (
	"testing"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrometheusRecorder(t *testing.T) {
	reg := prom.NewRegistry()
	pr := NewPrometheusRecorder(reg)
	pr.ObserveParseDuration(150 * time.Microsecond)
	pr.ObserveTokens(12)
	pr.IncRuleFired("paragraph")
	pr.IncRuleFired("paragraph")
	pr.IncRuleFired("list")
	pr.IncParseError(ErrorNoMatchingRule)

	mfs, err := reg.Gather()
	require.NoError(t, err)
	require.Len(t, mfs, 4)

	fired := map[string]float64{}
	for _, mf := range mfs {
		if mf.GetName() != "mdblock_rules_fired_total" {
			continue
		}
		for _, m := range mf.GetMetric() {
			for _, l := range m.GetLabel() {
				if l.GetName() == "rule" {
					fired[l.GetValue()] = m.GetCounter().GetValue()
				}
			}
		}
	}
	assert.InDelta(t, 2, fired["paragraph"], 0)
	assert.InDelta(t, 1, fired["list"], 0)
}

func TestPrometheusRecorder_NilRegistry(t *testing.T) {
	assert.NotPanics(t, func() {
		NewPrometheusRecorder(nil).IncRuleFired("code")
	})
}

func TestPrometheusRecorder_NilReceiver(t *testing.T) {
	var pr *PrometheusRecorder
	assert.NotPanics(t, func() {
		pr.ObserveParseDuration(time.Second)
		pr.ObserveTokens(1)
		pr.IncRuleFired("x")
		pr.IncParseError(ErrorOther)
	})
}
