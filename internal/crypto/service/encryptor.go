package service

import (
	"crypto/rand"
	"crypto/sha256"
	"fmt"
	"time"

	"golang.org/x/crypto/pbkdf2"

	cryptoDomain "github.com/allisson/phicrypt/internal/crypto/domain"
)

// EncryptorService implements the Encryptor interface with per-envelope key
// derivation.
//
// Every Encrypt call draws a fresh random salt and derives its own 32-byte
// key from the master key via PBKDF2-SHA256, so identical plaintexts never
// produce identical ciphertexts and no per-record keys are ever stored. The
// service holds no mutable state beyond the master key reference and is safe
// for concurrent use; the only shared resource it consumes is the process's
// secure random source.
//
// The KDF iteration count is fixed at construction. Changing it later is a
// breaking change: envelopes do not record the count, so all stored envelopes
// must be re-encrypted under the new setting.
type EncryptorService struct {
	masterKey   *cryptoDomain.MasterKey
	algorithm   cryptoDomain.Algorithm
	iterations  int
	aeadManager AEADManager
}

// NewEncryptor creates an EncryptorService bound to a master key, algorithm,
// and KDF iteration count. A non-positive iteration count falls back to
// DefaultKDFIterations. Returns ErrUnsupportedAlgorithm for an unknown
// algorithm and ErrWeakMasterKey if the master key is absent.
func NewEncryptor(
	masterKey *cryptoDomain.MasterKey,
	alg cryptoDomain.Algorithm,
	iterations int,
	aeadManager AEADManager,
) (*EncryptorService, error) {
	if masterKey == nil || len(masterKey.Key) == 0 {
		return nil, cryptoDomain.ErrWeakMasterKey
	}
	if alg != cryptoDomain.AESGCM && alg != cryptoDomain.ChaCha20 {
		return nil, fmt.Errorf("%w: %q", cryptoDomain.ErrUnsupportedAlgorithm, alg)
	}
	if iterations <= 0 {
		iterations = cryptoDomain.DefaultKDFIterations
	}

	return &EncryptorService{
		masterKey:   masterKey,
		algorithm:   alg,
		iterations:  iterations,
		aeadManager: aeadManager,
	}, nil
}

// Algorithm returns the algorithm this encryptor is configured for.
func (e *EncryptorService) Algorithm() cryptoDomain.Algorithm {
	return e.algorithm
}

// Encrypt produces a self-describing Envelope for a non-empty plaintext.
//
// A fresh 16-byte salt and a fresh cipher nonce are drawn from crypto/rand on
// every call, so the (salt, nonce) pair is never reused under the same master
// key. The optional aad is authenticated but not stored in the envelope; the
// caller must supply the same bytes at decryption time.
func (e *EncryptorService) Encrypt(plaintext string, aad []byte) (cryptoDomain.Envelope, error) {
	if plaintext == "" {
		return cryptoDomain.Envelope{}, cryptoDomain.ErrEmptyPlaintext
	}

	salt := make([]byte, cryptoDomain.SaltSize)
	if _, err := rand.Read(salt); err != nil {
		return cryptoDomain.Envelope{}, fmt.Errorf("failed to generate salt: %w", err)
	}

	key := e.deriveKey(salt)
	defer cryptoDomain.Zero(key)

	aead, err := e.aeadManager.CreateCipher(key, e.algorithm)
	if err != nil {
		return cryptoDomain.Envelope{}, err
	}

	sealed, nonce, err := aead.Encrypt([]byte(plaintext), aad)
	if err != nil {
		return cryptoDomain.Envelope{}, fmt.Errorf("failed to encrypt: %w", err)
	}

	// Seal appends the tag; the envelope stores tag and ciphertext separately.
	tagSize := aead.Overhead()
	if len(sealed) < tagSize {
		return cryptoDomain.Envelope{}, fmt.Errorf("sealed output shorter than tag size")
	}

	return cryptoDomain.Envelope{
		Algorithm:  e.algorithm,
		Salt:       salt,
		Nonce:      nonce,
		AuthTag:    sealed[len(sealed)-tagSize:],
		Ciphertext: sealed[:len(sealed)-tagSize],
		CreatedAt:  time.Now().UTC(),
	}, nil
}

// EncryptToString produces a serialized envelope string ready for storage in
// a text column.
func (e *EncryptorService) EncryptToString(plaintext string, aad []byte) (string, error) {
	env, err := e.Encrypt(plaintext, aad)
	if err != nil {
		return "", err
	}
	return env.String(), nil
}

// Decrypt recovers the plaintext from an Envelope.
//
// The key is re-derived from the envelope's salt with the same KDF
// parameters. Returns ErrUnsupportedAlgorithm if the envelope declares an
// algorithm other than the configured one, and ErrDecryptionFailed (wrapping
// ErrAuthenticationFailed) when the tag check fails. The tag comparison
// happens inside the cipher library in constant time.
func (e *EncryptorService) Decrypt(env cryptoDomain.Envelope, aad []byte) (string, error) {
	if env.Algorithm != e.algorithm {
		return "", fmt.Errorf("%w: envelope declares %q, configured %q",
			cryptoDomain.ErrUnsupportedAlgorithm, env.Algorithm, e.algorithm)
	}
	if len(env.Salt) == 0 || len(env.Nonce) == 0 {
		return "", cryptoDomain.ErrInvalidEnvelope
	}

	key := e.deriveKey(env.Salt)
	defer cryptoDomain.Zero(key)

	aead, err := e.aeadManager.CreateCipher(key, e.algorithm)
	if err != nil {
		return "", err
	}

	sealed := make([]byte, 0, len(env.Ciphertext)+len(env.AuthTag))
	sealed = append(sealed, env.Ciphertext...)
	sealed = append(sealed, env.AuthTag...)

	plaintext, err := aead.Decrypt(sealed, env.Nonce, aad)
	if err != nil {
		return "", cryptoDomain.ErrDecryptionFailed
	}

	return string(plaintext), nil
}

// DecryptString parses a serialized envelope and decrypts it. A parse failure
// surfaces as ErrInvalidEnvelope, distinct from the ErrDecryptionFailed
// returned when the format was fine but the tag check failed.
func (e *EncryptorService) DecryptString(content string, aad []byte) (string, error) {
	env, err := cryptoDomain.NewEnvelope(content)
	if err != nil {
		return "", err
	}
	return e.Decrypt(env, aad)
}

// deriveKey derives a 32-byte per-envelope key from the master key and salt.
func (e *EncryptorService) deriveKey(salt []byte) []byte {
	return pbkdf2.Key(e.masterKey.Key, salt, e.iterations, cryptoDomain.DerivedKeySize, sha256.New)
}
