package airalo

import (
	"errors"
	"fmt"
)

// Failure kinds. Match them with errors.Is.
var (
	ErrTransport       = errors.New("transport failure")
	ErrInvalidResponse = errors.New("invalid response")
	ErrMissingConfig   = errors.New("missing configuration")
)

// AuthError is returned by AuthClient.FetchToken.
type AuthError struct {
	Kind error
	Err  error
}

func (e *AuthError) Error() string {
	return formatError("token request", e.Kind, e.Err)
}

// Unwrap exposes both the kind and the underlying cause.
func (e *AuthError) Unwrap() []error {
	return unwrapPair(e.Kind, e.Err)
}

// CatalogError is returned by CatalogClient.FetchDevices.
type CatalogError struct {
	Kind error
	Err  error
}

func (e *CatalogError) Error() string {
	return formatError("compatible-devices request", e.Kind, e.Err)
}

// Unwrap exposes both the kind and the underlying cause.
func (e *CatalogError) Unwrap() []error {
	return unwrapPair(e.Kind, e.Err)
}

// KindLabel returns a short label for the failure kind carried by err, for
// use in metrics and log fields.
func KindLabel(err error) string {
	switch {
	case err == nil:
		return "none"
	case errors.Is(err, ErrTransport):
		return "transport"
	case errors.Is(err, ErrInvalidResponse):
		return "invalid_response"
	case errors.Is(err, ErrMissingConfig):
		return "missing_config"
	default:
		return "unknown"
	}
}

func formatError(op string, kind, err error) string {
	if err == nil {
		return fmt.Sprintf("%s: %v", op, kind)
	}
	return fmt.Sprintf("%s: %v: %v", op, kind, err)
}

func unwrapPair(kind, err error) []error {
	errs := make([]error, 0, 2)
	if kind != nil {
		errs = append(errs, kind)
	}
	if err != nil {
		errs = append(errs, err)
	}
	return errs
}
