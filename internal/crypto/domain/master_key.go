package domain

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"
)

// MasterKey holds the process-wide master key material.
//
// The master key is the single secret from which all per-envelope keys are
// derived. It is supplied by the operating environment, loaded once at
// startup, and treated as immutable read-only state for the process lifetime.
// It is never stored in an envelope or written to a log; only derived,
// salt-specific keys ever touch a cipher, and those are ephemeral.
type MasterKey struct {
	Key []byte
}

// KMSKeeper abstracts the subset of a KMS keeper used to unwrap the master
// key. *secrets.Keeper from gocloud.dev implements it.
type KMSKeeper interface {
	Decrypt(ctx context.Context, ciphertext []byte) ([]byte, error)
	Close() error
}

// Close zeroes the key material. The MasterKey must not be used afterwards.
func (m *MasterKey) Close() {
	Zero(m.Key)
	m.Key = nil
}

// LoadMasterKeyFromEnv loads and validates the master key from the MASTER_KEY
// environment variable.
//
// The variable holds the base64-encoded key material. When keeper is non-nil
// the decoded bytes are treated as KMS-wrapped ciphertext and unwrapped first;
// this lets deployments keep only a KMS reference in their environment instead
// of the raw key.
//
// The loaded key must pass strength validation (length and distinct-byte
// floor). All failures wrap ErrKeyConfiguration: the caller is expected to
// treat them as fatal and refuse to start.
func LoadMasterKeyFromEnv(ctx context.Context, keeper KMSKeeper) (*MasterKey, error) {
	raw := os.Getenv("MASTER_KEY")
	if raw == "" {
		return nil, ErrMasterKeyNotSet
	}

	decoded, err := decodeKey(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidMasterKeyBase64, err)
	}

	key := decoded
	if keeper != nil {
		unwrapped, err := keeper.Decrypt(ctx, decoded)
		Zero(decoded)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMasterKeyUnwrap, err)
		}
		key = unwrapped
	}

	if report := ValidateKeyStrength(key); !report.Valid {
		Zero(key)
		return nil, fmt.Errorf("%w: %s", ErrWeakMasterKey, report.Reason)
	}

	return &MasterKey{Key: key}, nil
}

// decodeKey decodes base64 key material, accepting both standard and URL-safe
// alphabets. Keys minted by the rotation command are URL-safe encoded; keys
// provisioned by hand are usually standard base64.
func decodeKey(raw string) ([]byte, error) {
	if decoded, err := base64.StdEncoding.DecodeString(raw); err == nil {
		return decoded, nil
	}
	return base64.URLEncoding.DecodeString(raw)
}
