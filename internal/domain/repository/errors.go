package repository

import "fmt"

// Upstream failure taxonomy. The gateway wraps every failure into exactly
// one of these; the facade propagates them unchanged.

// NetworkError indicates the transport call itself failed.
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("upstream network error: %v", e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// StatusError indicates a non-success HTTP status from the provider.
type StatusError struct {
	Status int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("upstream returned status %d", e.Status)
}

// APIError indicates a provider-reported business error, such as a rate
// limit note or an unknown symbol.
type APIError struct {
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("upstream api error: %s", e.Message)
}

// MalformedError indicates the payload lacked the expected time-series
// structure.
type MalformedError struct {
	Reason string
}

func (e *MalformedError) Error() string {
	return fmt.Sprintf("malformed upstream response: %s", e.Reason)
}
