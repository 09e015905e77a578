package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cryptoDomain "github.com/allisson/phicrypt/internal/crypto/domain"
)

func TestNewHashService(t *testing.T) {
	t.Run("interactive policy", func(t *testing.T) {
		svc, err := NewHashService("interactive")
		require.NoError(t, err)
		assert.NotNil(t, svc)
	})

	t.Run("empty policy defaults to moderate", func(t *testing.T) {
		svc, err := NewHashService("")
		require.NoError(t, err)
		assert.NotNil(t, svc)
	})

	t.Run("unknown policy", func(t *testing.T) {
		_, err := NewHashService("turbo")
		assert.Error(t, err)
	})
}

func TestHashServiceHashAndVerify(t *testing.T) {
	svc, err := NewHashService("interactive")
	require.NoError(t, err)

	t.Run("verify matches original data", func(t *testing.T) {
		hashed, err := svc.Hash("correct horse battery staple")
		require.NoError(t, err)
		assert.NotEmpty(t, hashed.Hash)
		assert.Equal(t, "argon2id", hashed.Algorithm)
		assert.Equal(t, "interactive", hashed.Policy)
		assert.False(t, hashed.CreatedAt.IsZero())

		assert.True(t, svc.Verify("correct horse battery staple", hashed.Hash))
	})

	t.Run("verify rejects wrong data", func(t *testing.T) {
		hashed, err := svc.Hash("password-one")
		require.NoError(t, err)

		assert.False(t, svc.Verify("password-two", hashed.Hash))
	})

	t.Run("hashes are salted", func(t *testing.T) {
		first, err := svc.Hash("same input")
		require.NoError(t, err)
		second, err := svc.Hash("same input")
		require.NoError(t, err)

		assert.NotEqual(t, first.Hash, second.Hash)
	})

	t.Run("empty input is rejected", func(t *testing.T) {
		_, err := svc.Hash("")
		assert.ErrorIs(t, err, cryptoDomain.ErrEmptyPlaintext)
	})

	t.Run("malformed hash verifies false without error", func(t *testing.T) {
		assert.False(t, svc.Verify("anything", "not-a-phc-string"))
		assert.False(t, svc.Verify("anything", ""))
	})
}
