// Package domain defines core encryption domain models: algorithms, envelopes,
// master key material, and key lifecycle artifacts.
package domain

// Algorithm represents the cryptographic algorithm used for envelope encryption.
//
// All supported algorithms provide Authenticated Encryption with Associated Data
// (AEAD), ensuring both confidentiality and authenticity of encrypted field values.
//
// Algorithm selection guidelines:
//   - Use AESGCM on modern CPUs with AES-NI hardware acceleration
//   - Use ChaCha20 on mobile devices or systems without AES-NI
//   - Both provide equivalent 256-bit security when used correctly
type Algorithm string

const (
	// AESGCM represents the AES-256-GCM authenticated encryption algorithm.
	AESGCM Algorithm = "aes-gcm"

	// ChaCha20 represents the ChaCha20-Poly1305 authenticated encryption algorithm.
	ChaCha20 Algorithm = "chacha20-poly1305"
)

const (
	// EnvelopeVersion is the serialization version prefix written into every
	// envelope. Bumping it is a format change that requires a migration path
	// for stored envelopes.
	EnvelopeVersion = "v1"

	// SaltSize is the number of random salt bytes generated per encryption
	// call and fed into the key derivation function.
	SaltSize = 16

	// DerivedKeySize is the size in bytes of keys derived from the master key.
	// Both supported AEAD algorithms use 256-bit keys.
	DerivedKeySize = 32

	// DefaultKDFIterations is the default PBKDF2-SHA256 iteration count used
	// to derive per-envelope keys from the master key. Changing this value is
	// a breaking change: envelopes record no iteration count, so every stored
	// envelope must be re-encrypted when it changes.
	DefaultKDFIterations = 600_000

	// MinMasterKeySize is the minimum master key length in bytes.
	MinMasterKeySize = 32

	// MinMasterKeyDistinctBytes is the minimum number of distinct byte values
	// a master key must contain. This is an entropy floor heuristic, not a
	// full entropy estimator.
	MinMasterKeyDistinctBytes = 16

	// RotationKeySize is the number of random bytes generated for a new master
	// key during rotation, before base64 encoding.
	RotationKeySize = 64
)
