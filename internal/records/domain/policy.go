package domain

import "sort"

// FieldPolicy declares which fields of one record type must be encrypted at
// rest. Fields are listed in the order they should be processed.
type FieldPolicy struct {
	RecordType string
	Fields     []string
}

// PolicyRegistry maps record-type names to the ordered set of field names
// subject to encryption.
//
// The registry is a configuration artifact: it is built once at process start
// and read-only afterwards. There is deliberately no runtime mutation API;
// changing the policy means redeploying. A field is only ever encrypted
// because an explicit registry entry names it, never because its name happens
// to look sensitive.
type PolicyRegistry struct {
	policies map[string][]string
}

// NewPolicyRegistry builds a registry from the given policies. Input slices
// are copied, so later mutation of the arguments does not affect the registry.
// A duplicate record type keeps the last declaration.
func NewPolicyRegistry(policies []FieldPolicy) *PolicyRegistry {
	m := make(map[string][]string, len(policies))
	for _, p := range policies {
		fields := make([]string, len(p.Fields))
		copy(fields, p.Fields)
		m[p.RecordType] = fields
	}
	return &PolicyRegistry{policies: m}
}

// FieldsFor returns a copy of the encrypted-field names for a record type, in
// declaration order. Unknown record types return nil: they are not an error,
// the codec simply passes such records through untouched.
func (r *PolicyRegistry) FieldsFor(recordType string) []string {
	fields, ok := r.policies[recordType]
	if !ok {
		return nil
	}
	out := make([]string, len(fields))
	copy(out, fields)
	return out
}

// Contains reports whether the registry has an entry for the record type.
func (r *PolicyRegistry) Contains(recordType string) bool {
	_, ok := r.policies[recordType]
	return ok
}

// Len returns the number of registered record types.
func (r *PolicyRegistry) Len() int {
	return len(r.policies)
}

// Types returns the registered record-type names in sorted order.
func (r *PolicyRegistry) Types() []string {
	types := make([]string, 0, len(r.policies))
	for t := range r.policies {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}

// DefaultPolicyRegistry returns the platform field policy: for each record
// type, the fields carrying personally identifiable or medical data that must
// never reach storage as plaintext. Display-name fields are intentionally
// absent; they are protected by access control, and encrypting them would
// add overhead on every high-read path.
func DefaultPolicyRegistry() *PolicyRegistry {
	return NewPolicyRegistry([]FieldPolicy{
		{
			RecordType: "User",
			Fields:     []string{"nationalId", "phone", "address", "licenseNumber", "bankAccount"},
		},
		{
			RecordType: "MedicalRecord",
			Fields:     []string{"diagnosis", "prescription", "notes", "vitals"},
		},
		{
			RecordType: "Payment",
			Fields:     []string{"bankAccount", "cardNumber"},
		},
		{
			RecordType: "Chat",
			Fields:     []string{"content"},
		},
	})
}
