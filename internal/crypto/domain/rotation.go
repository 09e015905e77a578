package domain

import (
	"time"

	"github.com/google/uuid"
)

// RotationRecord is the artifact produced by a key rotation.
//
// It is an ephemeral value handed to the operator: this core performs no
// re-encryption itself. The operator runs the rewrap batch job, which
// decrypts every stored envelope with OldKey and re-encrypts it with NewKey,
// then reconfigures the process with the new key and restarts it. Rotation
// never hot-swaps the in-process key.
//
// Both keys are base64-encoded. The record is never persisted by this core.
type RotationRecord struct {
	ID        uuid.UUID
	NewKey    string
	OldKey    string
	RotatedAt time.Time
}
