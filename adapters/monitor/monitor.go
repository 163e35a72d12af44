// Package monitor exposes read-only runtime snapshots over HTTP. It is the
// boundary a monitoring page consumes; rendering and storage live elsewhere.
package monitor

import (
	"encoding/json"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/codewandler/actors-go/core/actor"
)

// Handler serves the system's stats snapshot as JSON.
func Handler(sys *actor.System) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(sys.Stats()); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	})
}

// Mux bundles the stats snapshot under /stats and Prometheus exposition
// under /metrics.
func Mux(sys *actor.System, g prometheus.Gatherer) *http.ServeMux {
	mux := http.NewServeMux()
	mux.Handle("/stats", getOnly(Handler(sys)))
	mux.Handle("/metrics", getOnly(promhttp.HandlerFor(g, promhttp.HandlerOpts{})))
	return mux
}

// getOnly restricts a handler to GET requests, matching the behavior of the
// "GET /path" ServeMux patterns available from Go 1.22 onward.
func getOnly(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			w.Header().Set("Allow", http.MethodGet)
			http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
			return
		}
		h.ServeHTTP(w, r)
	})
}
