package domain

import "time"

// CredentialHash is the result of a one-way slow hash over a credential.
//
// Hash holds the PHC-encoded string produced by the hasher; the salt and cost
// parameters are embedded in it, so the single string is all that needs to be
// stored for later verification. This path is for credentials only and is not
// used anywhere in the envelope encryption flow.
type CredentialHash struct {
	Hash      string
	Algorithm string
	Policy    string
	CreatedAt time.Time
}
