// Package errors defines the error types used throughout the Ruqqus API wrapper.
package errors

import (
	"fmt"
	"strings"
)

// InvalidArgumentError indicates bad or missing caller input. It is always
// raised before any network activity takes place.
type InvalidArgumentError struct {
	// Argument is the name of the offending argument.
	Argument string
	// Message contains the detailed error message.
	Message string
}

func (e *InvalidArgumentError) Error() string {
	if e.Argument != "" {
		return fmt.Sprintf("invalid argument %s: %s", e.Argument, e.Message)
	}
	return fmt.Sprintf("invalid argument: %s", e.Message)
}

// AuthError indicates a token grant or refresh failure.
type AuthError struct {
	// StatusCode is the HTTP status code (if from an HTTP response).
	StatusCode int
	// Body contains the raw response body, which may hold more details.
	Body string
	// OAuthError is the provider's oauth_error field, when present.
	OAuthError string
	// Err is the underlying error, e.g. a network or JSON parsing error.
	Err error
}

func (e *AuthError) Error() string {
	var sb strings.Builder
	sb.WriteString("auth error")

	if e.StatusCode != 0 {
		fmt.Fprintf(&sb, ": status code %d", e.StatusCode)
	}
	if e.OAuthError != "" {
		fmt.Fprintf(&sb, ", oauth_error: %s", e.OAuthError)
	}
	if e.Body != "" {
		fmt.Fprintf(&sb, ", body: %q", e.Body)
	}
	if e.Err != nil {
		fmt.Fprintf(&sb, ", err: %v", e.Err)
	}

	return sb.String()
}

func (e *AuthError) Unwrap() error { return e.Err }

// NotFoundError indicates the provider reported that the requested object
// does not exist.
type NotFoundError struct {
	// Kind names the object type that was requested ("user", "guild", ...).
	Kind string
	// ID is the identifier that was looked up.
	ID string
	// StatusCode is the HTTP status code the provider returned.
	StatusCode int
}

func (e *NotFoundError) Error() string {
	if e.Kind != "" && e.ID != "" {
		return fmt.Sprintf("%s %q not found (status %d)", e.Kind, e.ID, e.StatusCode)
	}
	return fmt.Sprintf("object not found (status %d)", e.StatusCode)
}

// APIError represents any other non-success HTTP or network outcome.
type APIError struct {
	// StatusCode is the HTTP status code, 0 for transport-level failures.
	StatusCode int
	// URL is the URL that was being accessed.
	URL string
	// Message contains the detailed error message.
	Message string
	// Err is the underlying error, if available.
	Err error
}

func (e *APIError) Error() string {
	msg := e.Message
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	if e.StatusCode != 0 {
		return fmt.Sprintf("API request failed with status %d: %s", e.StatusCode, msg)
	}
	return fmt.Sprintf("API request failed: %s", msg)
}

func (e *APIError) Unwrap() error { return e.Err }

// ParseError indicates a response body that could not be decoded.
type ParseError struct {
	// Operation is the name of the API operation where parsing failed.
	Operation string
	// Err is the underlying decoding error.
	Err error
}

func (e *ParseError) Error() string {
	if e.Operation != "" {
		return fmt.Sprintf("parse error during %s: %v", e.Operation, e.Err)
	}
	return fmt.Sprintf("parse error: %v", e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }
