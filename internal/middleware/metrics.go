package middleware

import (
	"net/http"
	"time"

	"github.com/IndraW01/API-Contact-Management/internal/metrics"
)

// Metrics records one observation per request, labeled by the chi route
// pattern so that ids in paths do not explode label cardinality.
func Metrics(recorder metrics.Recorder) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := newStatusRecorder(w)

			next.ServeHTTP(rec, r)

			recorder.ObserveHTTPRequest(r.Method, routePattern(r), rec.status, time.Since(start))
		})
	}
}
