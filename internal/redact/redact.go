// Package redact provides sanitization helpers that keep sensitive values out
// of logs and audit trails.
//
// The package is independent of the encryption path: it never decrypts and
// operates only on plaintext the caller already holds. SanitizeForLogging is
// the full-redaction form for log sinks; MaskSensitiveData is the partial
// masking form for UI and audit display. Masked output must never be fed back
// into the encryption path, it is lossy by construction.
package redact

import "strings"

// Redacted replaces the value of every sensitive key in sanitized output.
const Redacted = "[REDACTED]"

// sensitiveKeys is the fixed set of key names whose values are fully redacted
// in logs. Matching is case-insensitive on the whole key.
var sensitiveKeys = map[string]struct{}{
	"password":      {},
	"token":         {},
	"secret":        {},
	"key":           {},
	"apikey":        {},
	"authorization": {},
	"nationalid":    {},
	"ssn":           {},
	"phone":         {},
	"address":       {},
	"licensenumber": {},
	"bankaccount":   {},
	"cardnumber":    {},
	"cvv":           {},
	"diagnosis":     {},
	"prescription":  {},
}

// SanitizeForLogging returns a copy of data where every sensitive key has its
// value replaced by "[REDACTED]". Nested map[string]any values are sanitized
// recursively; all other values pass through unchanged. The input map is
// never mutated.
func SanitizeForLogging(data map[string]any) map[string]any {
	if data == nil {
		return nil
	}

	out := make(map[string]any, len(data))
	for k, v := range data {
		if _, sensitive := sensitiveKeys[strings.ToLower(k)]; sensitive {
			out[k] = Redacted
			continue
		}
		if nested, ok := v.(map[string]any); ok {
			out[k] = SanitizeForLogging(nested)
			continue
		}
		out[k] = v
	}
	return out
}

// Field kinds understood by MaskSensitiveData. Unknown kinds fall back to the
// generic full mask.
const (
	KindNationalID    = "nationalId"
	KindPhone         = "phone"
	KindEmail         = "email"
	KindCardNumber    = "cardNumber"
	KindBankAccount   = "bankAccount"
	KindLicenseNumber = "licenseNumber"
)

// MaskSensitiveData partially masks a value for display, keeping just enough
// of it to be recognizable:
//
//	nationalId     first 4 and last 4 kept
//	phone          leading +CC and last 3 digits kept
//	email          first 2 characters of the local part and the domain kept
//	cardNumber     last 4 kept
//	bankAccount    last 4 kept
//	licenseNumber  first 2 kept
//	anything else  fully masked
//
// Values too short for their format are fully masked rather than leaking a
// larger fraction of the original.
func MaskSensitiveData(value, fieldKind string) string {
	if value == "" {
		return ""
	}

	switch fieldKind {
	case KindNationalID:
		return maskKeepEnds(value, 4, 4)
	case KindPhone:
		return maskPhone(value)
	case KindEmail:
		return maskEmail(value)
	case KindCardNumber, KindBankAccount:
		return maskKeepEnds(value, 0, 4)
	case KindLicenseNumber:
		return maskKeepEnds(value, 2, 0)
	default:
		return mask(len(value))
	}
}

func mask(n int) string {
	return strings.Repeat("*", n)
}

// maskKeepEnds keeps the first `lead` and last `trail` characters and masks
// the rest. If the value is not strictly longer than lead+trail it is fully
// masked.
func maskKeepEnds(value string, lead, trail int) string {
	if len(value) <= lead+trail {
		return mask(len(value))
	}
	return value[:lead] + mask(len(value)-lead-trail) + value[len(value)-trail:]
}

// maskPhone keeps the international prefix (+ and two country-code digits)
// and the last three digits. Numbers without a + prefix keep only the last
// three digits.
func maskPhone(value string) string {
	lead := 0
	if strings.HasPrefix(value, "+") {
		lead = 3
	}
	return maskKeepEnds(value, lead, 3)
}

// maskEmail keeps the first two characters of the local part and the full
// domain. Values without an @ get the generic mask.
func maskEmail(value string) string {
	at := strings.LastIndex(value, "@")
	if at < 0 {
		return mask(len(value))
	}
	local, domain := value[:at], value[at:]
	return maskKeepEnds(local, 2, 0) + domain
}
