package metrics

import (
	"net/http"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	promhttp "github.com/prometheus/client_golang/prometheus/promhttp"
)

// Path is where NewServer exposes metrics.
const Path = "/metrics"

// HTTPHandler returns an http.Handler that serves the metrics gathered by reg.
// A nil reg serves the default gatherer.
func HTTPHandler(reg prom.Gatherer) http.Handler {
	if reg == nil {
		reg = prom.DefaultGatherer
	}
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{EnableOpenMetrics: true})
}

// NewServer returns an unstarted server exposing reg on Path at addr.
func NewServer(addr string, reg prom.Gatherer) *http.Server {
	mux := http.NewServeMux()
	mux.Handle(Path, HTTPHandler(reg))
	return &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
}
