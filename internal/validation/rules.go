// Package validation provides custom validation rules for the application.
package validation

import (
	"strings"

	validation "github.com/jellydator/validation"

	cryptoDomain "github.com/allisson/phicrypt/internal/crypto/domain"
	apperrors "github.com/allisson/phicrypt/internal/errors"
)

// WrapValidationError wraps validation errors as domain ErrInvalidInput
func WrapValidationError(err error) error {
	if err == nil {
		return nil
	}
	return apperrors.Wrap(apperrors.ErrInvalidInput, err.Error())
}

// KeyStrength validates that a value holds master-key material that passes
// the strength heuristics (minimum length and distinct-byte floor).
var KeyStrength = validation.By(func(value interface{}) error {
	var key []byte
	switch v := value.(type) {
	case string:
		key = []byte(v)
	case []byte:
		key = v
	default:
		return validation.NewError("validation_key_strength_type", "key must be a string or byte slice")
	}

	report := cryptoDomain.ValidateKeyStrength(key)
	if !report.Valid {
		return validation.NewError("validation_key_strength", report.Reason)
	}
	return nil
})

// Algorithm validates that a string names a supported AEAD algorithm.
var Algorithm = validation.NewStringRuleWithError(
	func(s string) bool {
		switch cryptoDomain.Algorithm(s) {
		case cryptoDomain.AESGCM, cryptoDomain.ChaCha20:
			return true
		default:
			return false
		}
	},
	validation.NewError("validation_algorithm", "must be a supported encryption algorithm"),
)

// NoWhitespace validates that string doesn't contain leading/trailing whitespace
var NoWhitespace = validation.NewStringRuleWithError(
	func(s string) bool {
		return s == strings.TrimSpace(s)
	},
	validation.NewError("validation_no_whitespace", "must not contain leading or trailing whitespace"),
)

// NotBlank validates that a string is not empty after trimming whitespace
var NotBlank = validation.NewStringRuleWithError(
	func(s string) bool {
		return strings.TrimSpace(s) != ""
	},
	validation.NewError("validation_not_blank", "must not be blank"),
)
