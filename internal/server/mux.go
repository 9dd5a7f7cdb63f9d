package server

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"lrpalns/internal/metrics"
)

// Mux assembles the §13 HTTP surface. withMetrics also exposes
// /metrics (§12) so a single serve command carries both.
func (s *Server) Mux(withMetrics bool) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/runs", s.RunsHandler)
	mux.HandleFunc("/v1/runs/", s.RunByIDHandler)
	mux.HandleFunc("/healthz", s.HealthHandler)
	mux.HandleFunc("/readyz", s.ReadyHandler)
	if withMetrics {
		metrics.RegisterDefault()
		mux.Handle("/metrics", promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}))
	}
	return mux
}
