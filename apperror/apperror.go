// Package apperror defines the closed set of error kinds the API knows how to
// translate into client responses.
package apperror

import (
	"errors"
	"fmt"
)

// Kind classifies an application error
type Kind int

// Error kinds. Anything that is not an *Error is Unclassified.
const (
	Unclassified Kind = iota
	MovieNotFound
	PlaylistNotFound
	Upstream
	InvalidArgument
)

// String returns a short name for the kind
func (k Kind) String() string {
	switch k {
	case MovieNotFound:
		return "movie_not_found"
	case PlaylistNotFound:
		return "playlist_not_found"
	case Upstream:
		return "upstream"
	case InvalidArgument:
		return "invalid_argument"
	default:
		return "unclassified"
	}
}

// Error is a classified application error
type Error struct {
	Kind    Kind
	Message string
	// StatusCode is the upstream HTTP status for Upstream errors, zero when unknown.
	StatusCode int
	Err        error
}

// Error implements the error interface
func (e *Error) Error() string {
	return e.Message
}

// Unwrap returns the underlying cause
func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is an *Error of the same kind, so callers can
// write errors.Is(err, apperror.ErrPlaylistNotFound).
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Message == "" && t.Kind == e.Kind
}

// Sentinels for errors.Is comparisons against a kind.
var (
	ErrMovieNotFound    = &Error{Kind: MovieNotFound}
	ErrPlaylistNotFound = &Error{Kind: PlaylistNotFound}
	ErrUpstream         = &Error{Kind: Upstream}
	ErrInvalidArgument  = &Error{Kind: InvalidArgument}
)

// NewMovieNotFound returns a MovieNotFound error
func NewMovieNotFound(format string, args ...any) *Error {
	return &Error{Kind: MovieNotFound, Message: fmt.Sprintf(format, args...)}
}

// NewPlaylistNotFound returns a PlaylistNotFound error
func NewPlaylistNotFound(format string, args ...any) *Error {
	return &Error{Kind: PlaylistNotFound, Message: fmt.Sprintf(format, args...)}
}

// NewUpstream returns an Upstream error carrying the upstream status code
func NewUpstream(statusCode int, message string) *Error {
	return &Error{Kind: Upstream, Message: message, StatusCode: statusCode}
}

// NewInvalidArgument returns an InvalidArgument error wrapping err (may be nil)
func NewInvalidArgument(message string, err error) *Error {
	return &Error{Kind: InvalidArgument, Message: message, Err: err}
}

// KindOf returns the kind of the first *Error in err's chain
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return Unclassified
}
