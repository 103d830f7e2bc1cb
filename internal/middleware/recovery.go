package middleware

import (
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/IndraW01/API-Contact-Management/internal/apperror"
)

// Recoverer is a middleware that recovers from panics.
// It logs the panic with its stack and answers with the generic 500 body.
func Recoverer(logger *slog.Logger, writeError ErrorWriter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rvr := recover()
				if rvr == nil {
					return
				}
				if rvr == http.ErrAbortHandler {
					panic(rvr)
				}

				logger.Error("panic recovered",
					slog.String("request_id", GetRequestID(r.Context())),
					slog.Any("panic", rvr),
					slog.String("stack", string(debug.Stack())),
				)

				writeError(w, r, apperror.Internal(fmt.Errorf("panic: %v", rvr)))
			}()

			next.ServeHTTP(w, r)
		})
	}
}
