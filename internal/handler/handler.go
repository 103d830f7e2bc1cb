// Package handler provides HTTP request handlers.
package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"reflect"
	"strings"

	"github.com/IndraW01/API-Contact-Management/internal/apperror"
	"github.com/IndraW01/API-Contact-Management/internal/auth"
	"github.com/IndraW01/API-Contact-Management/internal/handler/dto"
	"github.com/IndraW01/API-Contact-Management/internal/middleware"
)

// ErrorWriter translates errors into HTTP responses. It is the only place
// that maps an apperror.Kind to a status code.
type ErrorWriter struct {
	logger *slog.Logger
}

// NewErrorWriter creates an ErrorWriter.
func NewErrorWriter(logger *slog.Logger) *ErrorWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &ErrorWriter{logger: logger}
}

// Write sends err as {"errors": message}. Errors that are not an
// *apperror.Error are treated as internal; their cause is logged and never
// sent to the client.
func (e *ErrorWriter) Write(w http.ResponseWriter, r *http.Request, err error) {
	appErr, ok := apperror.As(err)
	if !ok {
		appErr = apperror.Internal(err)
	}

	status := StatusFor(appErr.Kind)
	if status >= http.StatusInternalServerError {
		e.logger.Error("request failed",
			slog.String("request_id", middleware.GetRequestID(r.Context())),
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Any("error", err),
		)
	}

	writeJSON(w, status, dto.ErrorResponse{Errors: appErr.Message})
}

// StatusFor maps an error kind to its HTTP status.
func StatusFor(kind apperror.Kind) int {
	switch kind {
	case apperror.KindValidation, apperror.KindAlreadyExists:
		return http.StatusBadRequest
	case apperror.KindUnauthenticated:
		return http.StatusUnauthorized
	case apperror.KindNotFound:
		return http.StatusNotFound
	case apperror.KindRateLimited:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// NotFound handles 404 responses.
func NotFound(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusNotFound, dto.ErrorResponse{Errors: "Not Found"})
}

// MethodNotAllowed handles 405 responses.
func MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusMethodNotAllowed, dto.ErrorResponse{Errors: "Method Not Allowed"})
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	// The status line is already sent; an encode error means the client went away.
	_ = json.NewEncoder(w).Encode(data)
}

// writeData writes {"data": v}.
func writeData(w http.ResponseWriter, status int, v any) {
	writeJSON(w, status, dto.DataResponse{Data: v})
}

// decodeJSON strictly decodes the request body into v. An empty body
// decodes as {} so that the validator reports missing fields.
func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return decodeError(err)
	}
	if dec.More() {
		return apperror.Validation("Request body must be a single JSON object")
	}
	return nil
}

func decodeError(err error) error {
	var (
		maxErr  *http.MaxBytesError
		typeErr *json.UnmarshalTypeError
		synErr  *json.SyntaxError
	)
	switch {
	case errors.As(err, &maxErr):
		return apperror.Validation(fmt.Sprintf("Request body must not exceed %d bytes", maxErr.Limit))
	case errors.As(err, &typeErr):
		if typeErr.Field == "" {
			return apperror.Validation("Request body must be a JSON object")
		}
		return apperror.Validation(fmt.Sprintf("%q must be a %s", typeErr.Field, jsonType(typeErr.Type)))
	case errors.As(err, &synErr), errors.Is(err, io.ErrUnexpectedEOF):
		return apperror.Validation("Request body is not valid JSON")
	case strings.HasPrefix(err.Error(), "json: unknown field "):
		field := strings.TrimPrefix(err.Error(), "json: unknown field ")
		return apperror.Validation(field + " is not allowed")
	default:
		return apperror.Validation("Request body is not valid JSON")
	}
}

func jsonType(t reflect.Type) string {
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	switch t.Kind() {
	case reflect.String:
		return "string"
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return "number"
	case reflect.Bool:
		return "boolean"
	default:
		return "valid value"
	}
}

// principal returns the caller's username. The auth middleware guarantees
// it is set on protected routes.
func principal(r *http.Request) (string, error) {
	username := auth.UsernameFromContext(r.Context())
	if username == "" {
		return "", apperror.Unauthenticated(apperror.MsgUnauthorized)
	}
	return username, nil
}
