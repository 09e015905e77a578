package service

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	cryptoDomain "github.com/allisson/phicrypt/internal/crypto/domain"
)

// KeyManagerService implements the KeyManager interface.
//
// It validates master key strength and produces rotation artifacts. It has no
// access to storage: re-encrypting existing envelopes under a rotated key is
// the operator-driven rewrap batch job, and activating the new key requires a
// process restart with the new configuration.
type KeyManagerService struct {
	tokens TokenGenerator
}

// NewKeyManager creates a KeyManagerService using the provided token
// generator for new key material.
func NewKeyManager(tokens TokenGenerator) *KeyManagerService {
	return &KeyManagerService{tokens: tokens}
}

// ValidateKeyStrength checks a candidate master key against the minimum
// length and distinct-byte thresholds. These are heuristics for catching
// operational mistakes, not an entropy estimator.
func (km *KeyManagerService) ValidateKeyStrength(key []byte) cryptoDomain.KeyStrengthReport {
	return cryptoDomain.ValidateKeyStrength(key)
}

// RotateKeys generates a new 64-byte master key and returns it together with
// the retained old key and a rotation timestamp.
//
// The returned record is ephemeral: nothing is persisted and the in-process
// key is not swapped. The operator feeds both keys to the rewrap batch job
// and then restarts the process configured with the new key.
func (km *KeyManagerService) RotateKeys(oldKey string) (cryptoDomain.RotationRecord, error) {
	newKey, err := km.tokens.GenerateToken(cryptoDomain.RotationKeySize)
	if err != nil {
		return cryptoDomain.RotationRecord{}, fmt.Errorf("failed to generate new master key: %w", err)
	}

	return cryptoDomain.RotationRecord{
		ID:        uuid.Must(uuid.NewV7()),
		NewKey:    newKey,
		OldKey:    oldKey,
		RotatedAt: time.Now().UTC(),
	}, nil
}
