package middleware

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/turtacn/druglike/internal/infrastructure/monitoring/prometheus"
)

// Metrics records request counts, latency and in-flight requests. The path
// label is the matched chi route pattern so IDs never explode cardinality.
func Metrics(m *prometheus.AppMetrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if m == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			m.HTTPActiveRequests.WithLabelValues().Inc()
			defer m.HTTPActiveRequests.WithLabelValues().Dec()

			start := time.Now()
			rec := recordResponse(w)
			next.ServeHTTP(rec, r)

			prometheus.RecordHTTPRequest(m, r.Method, routePattern(r), rec.status, time.Since(start))
		})
	}
}

func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if p := rctx.RoutePattern(); p != "" {
			return p
		}
	}
	return "unmatched"
}
