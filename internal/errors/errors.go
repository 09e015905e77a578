// Package errors provides standardized domain errors that express business intent
// rather than infrastructure details. These errors should be used by services
// and use cases and inspected by callers via errors.Is.
package errors

import (
	"errors"
	"fmt"
)

// Standard domain errors that can be used across all domain modules.
var (
	// ErrNotFound indicates the requested resource does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates the input data is invalid or fails validation.
	ErrInvalidInput = errors.New("invalid input")

	// ErrAuthenticationFailed indicates an AEAD authentication tag check failed.
	// The envelope was parsed correctly but cannot be trusted: the ciphertext
	// was tampered with, corrupted, or produced under a different key.
	ErrAuthenticationFailed = errors.New("authentication failed")

	// ErrKeyConfiguration indicates the master key is missing or fails strength
	// validation at startup. This error is fatal: the process must not serve
	// traffic without a valid key.
	ErrKeyConfiguration = errors.New("key configuration error")
)

// New creates a new error with the given message.
// This is a convenience wrapper around errors.New for consistency.
func New(message string) error {
	return errors.New(message)
}

// Wrap wraps an error with additional context while preserving the error chain.
// Use this to add context at each layer without losing the original error type.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf wraps an error with a formatted message while preserving the error chain.
func Wrapf(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}

// Is reports whether any error in err's tree matches target.
// This is a convenience wrapper around errors.Is.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's tree that matches target.
// This is a convenience wrapper around errors.As.
func As(err error, target any) bool {
	return errors.As(err, target)
}
