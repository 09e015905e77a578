// Package domain defines the record model and the field encryption policy
// registry for the records module.
package domain

const (
	// EncryptedMarkerSuffix is appended to a field name to form the marker key
	// that flags the field as holding a serialized envelope instead of
	// plaintext. The marker is added by EncryptFields and removed by
	// DecryptFields; it never survives a full round trip.
	EncryptedMarkerSuffix = "_encrypted"

	// EncryptedSentinel replaces a field value when decryption fails. The
	// caller gets a usable record with one masked field instead of an aborted
	// read or raw ciphertext leaking into a response.
	EncryptedSentinel = "[ENCRYPTED]"
)

// Record is a flat mapping of field names to values for one logical record
// type. Values are strings or values the caller has already serialized to
// strings; non-string values pass through the codec untouched.
type Record map[string]any

// Clone returns a shallow copy of the record. The codec never mutates its
// input record.
func (r Record) Clone() Record {
	if r == nil {
		return nil
	}
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// MarkerKey returns the marker key name for a field.
func MarkerKey(field string) string {
	return field + EncryptedMarkerSuffix
}
