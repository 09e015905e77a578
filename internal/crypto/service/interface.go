// Package service provides the cryptographic services behind field-level
// envelope encryption: AEAD ciphers, per-envelope key derivation, credential
// hashing, secure token generation, and key lifecycle management.
package service

import (
	"context"

	cryptoDomain "github.com/allisson/phicrypt/internal/crypto/domain"
)

// AEAD defines the interface for Authenticated Encryption with Associated Data.
type AEAD interface {
	// Encrypt encrypts plaintext with optional AAD and returns ciphertext
	// (authentication tag appended) and the nonce used.
	Encrypt(plaintext, aad []byte) (ciphertext, nonce []byte, err error)

	// Decrypt decrypts ciphertext using the provided nonce and AAD.
	Decrypt(ciphertext, nonce, aad []byte) ([]byte, error)

	// Overhead returns the size in bytes of the authentication tag appended
	// to the ciphertext by Encrypt.
	Overhead() int
}

// AEADManager defines the interface for creating AEAD cipher instances.
type AEADManager interface {
	// CreateCipher creates an AEAD cipher instance for the specified algorithm.
	CreateCipher(key []byte, alg cryptoDomain.Algorithm) (AEAD, error)
}

// Encryptor defines the envelope encryption contract: a self-describing
// envelope per call, with key material derived from the master key and a
// fresh random salt.
type Encryptor interface {
	// Encrypt produces an Envelope for a non-empty plaintext.
	Encrypt(plaintext string, aad []byte) (cryptoDomain.Envelope, error)

	// EncryptToString produces a serialized envelope string ready for storage.
	EncryptToString(plaintext string, aad []byte) (string, error)

	// Decrypt recovers the plaintext from an Envelope.
	Decrypt(env cryptoDomain.Envelope, aad []byte) (string, error)

	// DecryptString parses a serialized envelope and decrypts it.
	DecryptString(content string, aad []byte) (string, error)

	// Algorithm returns the algorithm this encryptor is configured for.
	Algorithm() cryptoDomain.Algorithm
}

// Hasher defines one-way slow hashing for credentials. Not used anywhere in
// the envelope path.
type Hasher interface {
	// Hash produces a salted, slow hash of the given data.
	Hash(data string) (cryptoDomain.CredentialHash, error)

	// Verify reports whether data matches the encoded hash. It returns false
	// (never an error) on malformed input so that verification failures are
	// indistinguishable from wrong-credential failures.
	Verify(data, encodedHash string) bool
}

// TokenGenerator defines secure random token and string generation.
type TokenGenerator interface {
	// GenerateToken returns a URL-safe base64 token built from lengthBytes
	// random bytes.
	GenerateToken(lengthBytes int) (string, error)

	// GenerateSecureString returns a random string of the given length over a
	// caller-supplied alphabet. Intended for one-time codes, not for keys.
	GenerateSecureString(length int, charset string) (string, error)
}

// KeyManager defines master key lifecycle operations: strength validation and
// rotation artifact generation. It never touches persisted data.
type KeyManager interface {
	// ValidateKeyStrength checks a candidate master key against the length
	// and distinct-byte thresholds.
	ValidateKeyStrength(key []byte) cryptoDomain.KeyStrengthReport

	// RotateKeys generates a new high-entropy master key and returns it with
	// the retained old key and a rotation timestamp.
	RotateKeys(oldKey string) (cryptoDomain.RotationRecord, error)
}

// KMSService defines the interface for opening KMS keepers used to unwrap
// the master key.
type KMSService interface {
	// OpenKeeper opens a keeper for the configured KMS provider.
	OpenKeeper(ctx context.Context, keyURI string) (cryptoDomain.KMSKeeper, error)
}
