package middleware

import (
	"net/http"
	"strconv"

	"clubmanager/application/ports"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// MetricHTTPRequests counts served requests by route and status class
const MetricHTTPRequests = "HttpRequests"

// RequestMetrics records one counter per request. The route pattern is used
// instead of the raw path to keep label cardinality bounded.
func RequestMetrics(metrics ports.MetricsRecorder) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			route := "unmatched"
			if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
				route = rctx.RoutePattern()
			}
			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			metrics.IncrementCounter(r.Context(), MetricHTTPRequests, 1, map[string]string{
				"Method": r.Method,
				"Route":  route,
				"Status": strconv.Itoa(status/100) + "xx",
			})
		})
	}
}
