package domain

import (
	"github.com/allisson/phicrypt/internal/errors"
)

// Cryptographic operation error definitions.
//
// These domain-specific errors wrap standard errors from internal/errors
// so callers can branch on the error class with errors.Is while still
// reading a precise message.
var (
	// ErrUnsupportedAlgorithm indicates an envelope declares an algorithm the
	// running process is not configured for. Typically means the envelope was
	// produced by a newer or older deployment.
	ErrUnsupportedAlgorithm = errors.Wrap(errors.ErrInvalidInput, "unsupported algorithm")

	// ErrInvalidKeySize indicates the cryptographic key size is invalid.
	// Derived keys must be exactly 32 bytes for both supported algorithms.
	ErrInvalidKeySize = errors.Wrap(errors.ErrInvalidInput, "invalid key size")

	// ErrInvalidEnvelope indicates an envelope string failed to parse into its
	// components. This is a format failure, distinct from an authentication
	// failure: the bytes were garbage before any key was involved.
	ErrInvalidEnvelope = errors.Wrap(errors.ErrInvalidInput, "invalid envelope")

	// ErrEmptyPlaintext indicates an encryption call received no data.
	ErrEmptyPlaintext = errors.Wrap(errors.ErrInvalidInput, "empty plaintext")

	// ErrDecryptionFailed indicates the AEAD tag check failed: the ciphertext
	// was tampered with, corrupted, or encrypted under a different master key.
	// The specific cause is not disclosed to prevent information leakage.
	ErrDecryptionFailed = errors.Wrap(errors.ErrAuthenticationFailed, "decryption failed")

	// ErrMasterKeyNotSet indicates the MASTER_KEY environment variable is absent.
	ErrMasterKeyNotSet = errors.Wrap(errors.ErrKeyConfiguration, "MASTER_KEY is not set")

	// ErrInvalidMasterKeyBase64 indicates the master key is not valid base64.
	ErrInvalidMasterKeyBase64 = errors.Wrap(errors.ErrKeyConfiguration, "master key is not valid base64")

	// ErrWeakMasterKey indicates the master key failed strength validation.
	ErrWeakMasterKey = errors.Wrap(errors.ErrKeyConfiguration, "master key fails strength validation")

	// ErrMasterKeyUnwrap indicates the KMS keeper could not unwrap the master key.
	ErrMasterKeyUnwrap = errors.Wrap(errors.ErrKeyConfiguration, "master key unwrap failed")
)
