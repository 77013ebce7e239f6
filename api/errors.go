package api

import (
	"errors"
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/rs/zerolog"

	"movieapp/apperror"
)

const genericErrorDetails = "An unexpected error occurred"

// errorResponse is the body written for every failed request
type errorResponse struct {
	Message string `json:"message"`
	Details string `json:"details"`
}

// handlerFunc is an HTTP handler that reports failures by returning them
type handlerFunc func(w http.ResponseWriter, r *http.Request) error

// handle adapts a handlerFunc, turning a returned error into a JSON error response
func (s *Server) handle(fn handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := fn(w, r); err != nil {
			s.writeError(w, r, err)
		}
	}
}

// panicError carries a recovered panic value together with the stack it was raised on
type panicError struct {
	value any
	stack []byte
}

func (e *panicError) Error() string {
	return fmt.Sprintf("panic: %v", e.value)
}

// recoverPanics treats a panicking handler like one that returned an unclassified error
func (s *Server) recoverPanics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				s.writeError(w, r, &panicError{value: rec, stack: debug.Stack()})
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// writeError logs err with a stack and writes the classified JSON response.
// Returned errors carry no origin stack, so theirs is taken where the handler gave up.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, body := classifyError(err)

	stack := debug.Stack()
	var pe *panicError
	if errors.As(err, &pe) {
		stack = pe.stack
	}

	s.requestLogger(r).Error().
		Err(err).
		Str("error_type", fmt.Sprintf("%T", err)).
		Str("kind", apperror.KindOf(err).String()).
		Int("status", status).
		Str("stack", string(stack)).
		Msg("An unhandled error occurred")

	s.respondJSON(w, r, status, body)
}

// classifyError maps an error to its status code and response body
func classifyError(err error) (int, errorResponse) {
	var appErr *apperror.Error
	if !errors.As(err, &appErr) {
		return http.StatusInternalServerError, errorResponse{Message: "Internal server error", Details: genericErrorDetails}
	}

	switch appErr.Kind {
	case apperror.MovieNotFound:
		return http.StatusNotFound, errorResponse{Message: "Movie not found", Details: appErr.Message}
	case apperror.PlaylistNotFound:
		return http.StatusNotFound, errorResponse{Message: "Playlist not found", Details: appErr.Message}
	case apperror.Upstream:
		status := appErr.StatusCode
		if status == 0 {
			status = http.StatusServiceUnavailable
		}
		return status, errorResponse{Message: "TMDB API error", Details: appErr.Message}
	case apperror.InvalidArgument:
		return http.StatusBadRequest, errorResponse{Message: "Invalid argument", Details: appErr.Message}
	case apperror.Unclassified:
		fallthrough
	default:
		return http.StatusInternalServerError, errorResponse{Message: "Internal server error", Details: genericErrorDetails}
	}
}

func (s *Server) requestLogger(r *http.Request) *zerolog.Logger {
	if l := zerolog.Ctx(r.Context()); l.GetLevel() != zerolog.Disabled {
		return l
	}
	return &s.logger
}
