package domain

import (
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Envelope represents one encrypted field value at rest.
//
// It is self-describing: together with the master key, the envelope carries
// everything needed to decrypt it. Envelopes are immutable once created;
// updating a field means producing a brand-new envelope and discarding the
// old one.
//
// Fields:
//   - Algorithm: the AEAD algorithm used (stored so migrations can detect
//     legacy envelopes)
//   - Salt: random bytes, unique per encryption call, input to key derivation
//   - Nonce: random bytes, unique per encryption call, input to the cipher
//   - AuthTag: authentication tag produced by the AEAD cipher
//   - Ciphertext: the encrypted payload bytes (tag excluded)
//   - CreatedAt: time the envelope was produced, diagnostic only
type Envelope struct {
	Algorithm  Algorithm
	Salt       []byte
	Nonce      []byte
	AuthTag    []byte
	Ciphertext []byte
	CreatedAt  time.Time
}

// NewEnvelope creates an Envelope from its string representation.
//
// The input must be in the format produced by String:
//
//	v1:<algorithm>:<salt-b64>:<nonce-b64>:<tag-b64>:<ciphertext-b64>:<unix-seconds>
//
// Returns ErrInvalidEnvelope (wrapping ErrInvalidInput) if the content is
// empty, has the wrong number of parts, an unknown version, an empty
// component, or invalid base64. No key material is involved at this stage:
// a parse failure means the bytes were garbage, not that trust failed.
func NewEnvelope(content string) (Envelope, error) {
	if content == "" {
		return Envelope{}, ErrInvalidEnvelope
	}

	parts := strings.Split(content, ":")
	if len(parts) != 7 {
		return Envelope{}, fmt.Errorf(
			"%w: expected 7 parts, got %d",
			ErrInvalidEnvelope,
			len(parts),
		)
	}

	if parts[0] != EnvelopeVersion {
		return Envelope{}, fmt.Errorf("%w: unknown version %q", ErrInvalidEnvelope, parts[0])
	}

	if parts[1] == "" {
		return Envelope{}, fmt.Errorf("%w: empty algorithm", ErrInvalidEnvelope)
	}

	salt, err := decodePart("salt", parts[2])
	if err != nil {
		return Envelope{}, err
	}
	nonce, err := decodePart("nonce", parts[3])
	if err != nil {
		return Envelope{}, err
	}
	tag, err := decodePart("auth tag", parts[4])
	if err != nil {
		return Envelope{}, err
	}
	ciphertext, err := decodePart("ciphertext", parts[5])
	if err != nil {
		return Envelope{}, err
	}

	createdAt, err := strconv.ParseInt(parts[6], 10, 64)
	if err != nil {
		return Envelope{}, fmt.Errorf("%w: invalid timestamp: %v", ErrInvalidEnvelope, err)
	}

	return Envelope{
		Algorithm:  Algorithm(parts[1]),
		Salt:       salt,
		Nonce:      nonce,
		AuthTag:    tag,
		Ciphertext: ciphertext,
		CreatedAt:  time.Unix(createdAt, 0).UTC(),
	}, nil
}

// String serializes the Envelope to its text-safe string representation.
//
// The output round-trips through NewEnvelope and is suitable for storage in a
// text/varchar column. Base64 standard encoding never contains ":", so the
// colon-separated format is unambiguous.
func (e Envelope) String() string {
	return strings.Join([]string{
		EnvelopeVersion,
		string(e.Algorithm),
		base64.StdEncoding.EncodeToString(e.Salt),
		base64.StdEncoding.EncodeToString(e.Nonce),
		base64.StdEncoding.EncodeToString(e.AuthTag),
		base64.StdEncoding.EncodeToString(e.Ciphertext),
		strconv.FormatInt(e.CreatedAt.Unix(), 10),
	}, ":")
}

// decodePart decodes one base64 envelope component, requiring it to be non-empty.
func decodePart(name, value string) ([]byte, error) {
	if value == "" {
		return nil, fmt.Errorf("%w: empty %s", ErrInvalidEnvelope, name)
	}
	decoded, err := base64.StdEncoding.DecodeString(value)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid %s base64: %v", ErrInvalidEnvelope, name, err)
	}
	return decoded, nil
}
