package service

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"math/big"
)

// TokenService implements the TokenGenerator interface using crypto/rand.
type TokenService struct{}

// NewTokenService creates a new TokenService.
func NewTokenService() *TokenService {
	return &TokenService{}
}

// GenerateToken creates a cryptographically secure random token from
// lengthBytes random bytes, URL-safe base64 encoded.
func (t *TokenService) GenerateToken(lengthBytes int) (string, error) {
	if lengthBytes < 1 {
		return "", errors.New("length must be at least 1 byte")
	}
	if lengthBytes > 1024 {
		return "", errors.New("length must not exceed 1024 bytes")
	}

	randomBytes := make([]byte, lengthBytes)
	if _, err := rand.Read(randomBytes); err != nil {
		return "", fmt.Errorf("failed to generate random token: %w", err)
	}

	return base64.URLEncoding.EncodeToString(randomBytes), nil
}

// GenerateSecureString creates a random string of the given length over a
// caller-supplied alphabet, drawing each character independently from
// crypto/rand. Intended for one-time codes and confirmation strings, not for
// key material: the per-character rejection-free sampling keeps the output
// uniform over the charset but the charset itself bounds the entropy.
func (t *TokenService) GenerateSecureString(length int, charset string) (string, error) {
	if length < 1 {
		return "", errors.New("length must be at least 1")
	}
	if length > 255 {
		return "", errors.New("length must not exceed 255")
	}
	if len(charset) < 2 {
		return "", errors.New("charset must contain at least 2 characters")
	}
	if len(charset) > 256 {
		return "", errors.New("charset must not exceed 256 characters")
	}

	out := make([]byte, length)
	charsLen := big.NewInt(int64(len(charset)))

	for i := 0; i < length; i++ {
		n, err := rand.Int(rand.Reader, charsLen)
		if err != nil {
			return "", fmt.Errorf("failed to generate random character: %w", err)
		}
		out[i] = charset[n.Int64()]
	}

	return string(out), nil
}
