package models

import (
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
)

var (
	// ErrNotFound means the complaint is not in the loaded list.
	ErrNotFound = errors.New("complaint not found")
	// ErrLocked means the complaint no longer accepts status changes.
	ErrLocked = errors.New("complaint is locked for updates")
	// ErrInvalidState means feedback was attempted before resolution or twice.
	ErrInvalidState = errors.New("complaint is not awaiting feedback")
	// ErrBusy is returned instead of issuing a duplicate submission while the
	// previous one of the same kind is still outstanding.
	ErrBusy = errors.New("a submission of this kind is already in flight")
)

// FetchError is a transport failure or a non-2xx response.
type FetchError struct {
	Op         string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: unexpected status %d", e.Op, e.StatusCode)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// Unauthorized reports whether the session has expired.
func (e *FetchError) Unauthorized() bool { return e.StatusCode == http.StatusUnauthorized }

// NotFound reports a 404 from the backend.
func (e *FetchError) NotFound() bool { return e.StatusCode == http.StatusNotFound }

// ServerRejection carries the backend's own message, shown verbatim.
type ServerRejection struct {
	StatusCode int
	Message    string
}

func (e *ServerRejection) Error() string { return e.Message }

// MalformedResponseError means a body matched none of the accepted shapes.
type MalformedResponseError struct {
	Op string
}

func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("%s: received invalid data format from server", e.Op)
}

// ValidationError maps field names to messages. It is produced before any
// request is sent.
type ValidationError map[string]string

func (e ValidationError) Error() string {
	fields := make([]string, 0, len(e))
	for f := range e {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, f+": "+e[f])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}
