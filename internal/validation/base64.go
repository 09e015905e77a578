// Package validation provides custom validation rules for the application.
package validation

import (
	"encoding/base64"

	validation "github.com/jellydator/validation"
)

// Base64 validates that a string is valid base64-encoded data. Both standard
// and URL-safe alphabets are accepted, matching the master-key loader.
var Base64 = validation.By(func(value interface{}) error {
	s, ok := value.(string)
	if !ok {
		return validation.NewError("validation_base64_type", "must be a string")
	}
	if s == "" {
		return nil // Let Required handle empty strings
	}
	if _, err := base64.StdEncoding.DecodeString(s); err == nil {
		return nil
	}
	if _, err := base64.URLEncoding.DecodeString(s); err == nil {
		return nil
	}
	return validation.NewError("validation_base64", "must be valid base64-encoded data")
})
