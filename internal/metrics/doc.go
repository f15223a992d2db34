// Package metrics provides parse metrics for mdblock.
//
// Components receive a Recorder through dependency injection. NoopRecorder is
// the default and does nothing, so the tokenizer never needs nil checks:
//
//	p := block.NewParser(block.WithRecorder(metrics.NoopRecorder{}))
//
// To collect metrics, inject a PrometheusRecorder and expose its registry
// with HTTPHandler:
//
//	reg := prometheus.NewRegistry()
//	p := block.NewParser(block.WithRecorder(metrics.NewPrometheusRecorder(reg)))
//	http.Handle("/metrics", metrics.HTTPHandler(reg))
package metrics
