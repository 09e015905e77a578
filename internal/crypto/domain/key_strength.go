package domain

import "fmt"

// KeyStrengthReport is the result of master key strength validation.
type KeyStrengthReport struct {
	Valid  bool
	Reason string
}

// ValidateKeyStrength checks a candidate master key against the minimum
// length and distinct-byte thresholds.
//
// These checks are heuristics, not a full entropy estimator: a key can pass
// them and still be guessable if it was not drawn from a secure random
// source. They exist to catch the obvious operational mistakes (empty keys,
// short keys, repeated-character filler).
func ValidateKeyStrength(key []byte) KeyStrengthReport {
	if len(key) == 0 {
		return KeyStrengthReport{Valid: false, Reason: "key is empty"}
	}

	if len(key) < MinMasterKeySize {
		return KeyStrengthReport{
			Valid: false,
			Reason: fmt.Sprintf(
				"key must be at least %d bytes, got %d",
				MinMasterKeySize,
				len(key),
			),
		}
	}

	var seen [256]bool
	distinct := 0
	for _, b := range key {
		if !seen[b] {
			seen[b] = true
			distinct++
		}
	}
	if distinct < MinMasterKeyDistinctBytes {
		return KeyStrengthReport{
			Valid: false,
			Reason: fmt.Sprintf(
				"key must contain at least %d distinct byte values, got %d",
				MinMasterKeyDistinctBytes,
				distinct,
			),
		}
	}

	return KeyStrengthReport{Valid: true}
}
