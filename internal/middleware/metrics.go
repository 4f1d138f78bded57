package middleware

import (
	"net/http"
	"strconv"

	"pharmacy-be/internal/metrics"

	"github.com/gorilla/mux"
)

// Metrics records request counts and latency per route template so ids in
// the path do not explode label cardinality.
func Metrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		timer := metrics.StartTimer()
		metrics.IncInFlight()
		defer metrics.DecInFlight()

		rec := &responseRecorder{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(rec, r)

		metrics.RecordHTTPRequest(r.Method, routeTemplate(r), strconv.Itoa(rec.statusCode), timer.Duration())
	})
}

func routeTemplate(r *http.Request) string {
	if route := mux.CurrentRoute(r); route != nil {
		if tpl, err := route.GetPathTemplate(); err == nil {
			return tpl
		}
	}
	return "unmatched"
}
