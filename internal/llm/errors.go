package llm

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	// ErrRetriesExhausted is returned once every attempt of a call failed transiently.
	ErrRetriesExhausted = errors.New("llm: retries exhausted")
	// ErrPermanent marks failures that are never retried.
	ErrPermanent = errors.New("llm: permanent failure")
)

// APIError is an error object embedded in a response body, possibly under HTTP 200.
type APIError struct {
	Backend  string
	Code     string
	Message  string
	Metadata map[string]any
}

func (e *APIError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = "unknown API error"
	}
	if len(e.Metadata) > 0 {
		keys := make([]string, 0, len(e.Metadata))
		for k := range e.Metadata {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := make([]string, len(keys))
		for i, k := range keys {
			parts[i] = fmt.Sprintf("%s=%v", k, e.Metadata[k])
		}
		msg = fmt.Sprintf("%s (%s)", msg, strings.Join(parts, ", "))
	}
	return fmt.Sprintf("%s API error [%s]: %s", e.Backend, e.Code, msg)
}

// Is reports APIError as permanent.
func (e *APIError) Is(target error) bool { return target == ErrPermanent }

// StatusError is a non-2xx HTTP response without a usable error payload.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d: %s", e.StatusCode, e.Body)
}

// Transient reports whether the status is worth retrying: rate limiting or a server fault.
func (e *StatusError) Transient() bool {
	return e.StatusCode == 429 || e.StatusCode >= 500
}

// Is reports non-transient statuses as permanent.
func (e *StatusError) Is(target error) bool {
	return target == ErrPermanent && !e.Transient()
}

// TransportError wraps a network failure, which is always retried.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string { return "transport: " + e.Err.Error() }

func (e *TransportError) Unwrap() error { return e.Err }

// exhaustedError ends a retry loop. Nothing above the retrier tries again, so
// it counts as permanent too.
type exhaustedError struct {
	attempts int
	last     error
}

func (e *exhaustedError) Error() string {
	return fmt.Sprintf("%v after %d attempts: %v", ErrRetriesExhausted, e.attempts, e.last)
}

func (e *exhaustedError) Unwrap() error { return e.last }

func (e *exhaustedError) Is(target error) bool {
	return target == ErrRetriesExhausted || target == ErrPermanent
}

// IsTransient reports whether err may succeed on a later attempt.
func IsTransient(err error) bool {
	if errors.Is(err, ErrPermanent) {
		return false
	}
	var status *StatusError
	if errors.As(err, &status) {
		return status.Transient()
	}
	var transport *TransportError
	return errors.As(err, &transport)
}
