package service

import (
	"fmt"
	"time"

	"github.com/allisson/go-pwdhash"

	cryptoDomain "github.com/allisson/phicrypt/internal/crypto/domain"
)

// HashService implements the Hasher interface using Argon2id.
//
// Credential hashing is a one-way path: it shares no code or key material
// with envelope encryption. The salt and cost parameters are embedded in the
// PHC-encoded hash string, so CredentialHash.Hash is the only value that
// needs to be stored.
type HashService struct {
	hasher *pwdhash.PasswordHasher
	policy string
}

// NewHashService creates a HashService with the given cost policy
// ("interactive" or "moderate"). An empty policy defaults to moderate, the
// balance point between login latency and brute-force resistance.
func NewHashService(policy string) (*HashService, error) {
	var opt pwdhash.Option
	switch policy {
	case "interactive":
		opt = pwdhash.WithPolicy(pwdhash.PolicyInteractive)
	case "moderate", "":
		policy = "moderate"
		opt = pwdhash.WithPolicy(pwdhash.PolicyModerate)
	default:
		return nil, fmt.Errorf("unknown hash policy: %q", policy)
	}

	hasher, err := pwdhash.New(opt)
	if err != nil {
		return nil, fmt.Errorf("failed to create password hasher: %w", err)
	}

	return &HashService{hasher: hasher, policy: policy}, nil
}

// Hash produces a salted Argon2id hash of the given data.
// Returns ErrEmptyPlaintext if data is empty.
func (h *HashService) Hash(data string) (cryptoDomain.CredentialHash, error) {
	if data == "" {
		return cryptoDomain.CredentialHash{}, cryptoDomain.ErrEmptyPlaintext
	}

	encoded, err := h.hasher.Hash([]byte(data))
	if err != nil {
		return cryptoDomain.CredentialHash{}, fmt.Errorf("failed to hash: %w", err)
	}

	return cryptoDomain.CredentialHash{
		Hash:      encoded,
		Algorithm: "argon2id",
		Policy:    h.policy,
		CreatedAt: time.Now().UTC(),
	}, nil
}

// Verify performs a constant-time comparison between data and the encoded
// hash. It returns false, never an error, on malformed input: a caller must
// not be able to distinguish a broken hash from a wrong credential.
func (h *HashService) Verify(data, encodedHash string) bool {
	ok, err := h.hasher.Verify([]byte(data), encodedHash)
	if err != nil {
		return false
	}
	return ok
}
