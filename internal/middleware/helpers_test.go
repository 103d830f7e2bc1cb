package middleware

import (
	"encoding/json"
	"net/http"

	"github.com/IndraW01/API-Contact-Management/internal/apperror"
)

// stubErrorWriter mirrors the production translator closely enough for
// middleware tests.
func stubErrorWriter(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	msg := apperror.MsgInternal
	if appErr, ok := apperror.As(err); ok {
		msg = appErr.Message
		switch appErr.Kind {
		case apperror.KindValidation:
			status = http.StatusBadRequest
		case apperror.KindUnauthenticated:
			status = http.StatusUnauthorized
		case apperror.KindRateLimited:
			status = http.StatusTooManyRequests
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"errors": msg})
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}
