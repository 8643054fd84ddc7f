package httpx

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/alexmurray/portfolio-backend/pkg/logging"
)

// Envelope is the uniform JSON shape for every API response body.
type Envelope struct {
	Success bool              `json:"success"`
	Message string            `json:"message"`
	Errors  map[string]string `json:"errors,omitempty"`
}

// HandlerFunc is an HTTP handler that reports failures as errors
// instead of writing them itself.
type HandlerFunc func(w http.ResponseWriter, r *http.Request) error

// Boundary catches handler failures, classifies them, and writes the
// matching status with a uniform JSON body. Nothing escapes it as a
// raw error or stack trace.
type Boundary struct {
	logger      *logging.Logger
	development bool
}

// NewBoundary creates the error boundary. In development the original
// error message is exposed on 500s; elsewhere it is suppressed.
func NewBoundary(logger *logging.Logger, development bool) *Boundary {
	if logger == nil {
		logger = logging.Default()
	}
	return &Boundary{logger: logger, development: development}
}

// Handle adapts a HandlerFunc into a std http.HandlerFunc.
func (b *Boundary) Handle(fn HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := fn(w, r)
		if err == nil {
			return
		}

		status, env := b.classify(err)

		b.logger.Error("request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"request_id", middleware.GetReqID(r.Context()),
			"status", status,
			"error", err,
		)

		WriteJSON(w, status, env)
	}
}

func (b *Boundary) classify(err error) (int, Envelope) {
	var fieldErrs FieldErrors
	if errors.As(err, &fieldErrs) {
		return http.StatusBadRequest, Envelope{
			Success: false,
			Message: "Validation failed",
			Errors:  fieldErrs.Fields(),
		}
	}

	if isMalformed(err) {
		return http.StatusBadRequest, Envelope{
			Success: false,
			Message: "Invalid request body",
		}
	}

	if isUnavailable(err) {
		return http.StatusServiceUnavailable, Envelope{
			Success: false,
			Message: "Service temporarily unavailable, please try again later",
		}
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505": // unique_violation
			return http.StatusBadRequest, Envelope{
				Success: false,
				Message: "Duplicate entry",
			}
		case "22P02", "22001", "23514": // cast, truncation, check violation
			return http.StatusBadRequest, Envelope{
				Success: false,
				Message: "Invalid data",
			}
		}
	}

	msg := "Internal server error"
	if b.development {
		msg = err.Error()
	}
	return http.StatusInternalServerError, Envelope{Success: false, Message: msg}
}

func isMalformed(err error) bool {
	if errors.Is(err, ErrMalformed) {
		return true
	}
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	var maxBytesErr *http.MaxBytesError
	return errors.As(err, &syntaxErr) || errors.As(err, &typeErr) || errors.As(err, &maxBytesErr)
}

func isUnavailable(err error) bool {
	if errors.Is(err, ErrUnavailable) {
		return true
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		// Class 08: connection exception; 57P03: cannot_connect_now.
		if len(pgErr.Code) >= 2 && pgErr.Code[:2] == "08" || pgErr.Code == "57P03" {
			return true
		}
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}

// WriteJSON writes v with the given status. Encoding failures are
// ignored: headers are already gone at that point.
func WriteJSON(w http.ResponseWriter, status int, v any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
	return nil
}
