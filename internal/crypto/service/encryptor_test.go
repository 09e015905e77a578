package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cryptoDomain "github.com/allisson/phicrypt/internal/crypto/domain"
	apperrors "github.com/allisson/phicrypt/internal/errors"
)

// testIterations keeps the KDF cheap in tests. Production uses
// cryptoDomain.DefaultKDFIterations.
const testIterations = 1000

func newTestEncryptor(t *testing.T, alg cryptoDomain.Algorithm) *EncryptorService {
	t.Helper()
	masterKey := &cryptoDomain.MasterKey{Key: []byte("a1B2c3D4e5F6g7H8i9J0kLmNoPqRsTuV")}
	encryptor, err := NewEncryptor(masterKey, alg, testIterations, NewAEADManager())
	require.NoError(t, err)
	return encryptor
}

func TestNewEncryptor(t *testing.T) {
	masterKey := &cryptoDomain.MasterKey{Key: []byte("a1B2c3D4e5F6g7H8i9J0kLmNoPqRsTuV")}

	t.Run("valid configuration", func(t *testing.T) {
		encryptor, err := NewEncryptor(masterKey, cryptoDomain.AESGCM, 0, NewAEADManager())
		require.NoError(t, err)
		assert.Equal(t, cryptoDomain.AESGCM, encryptor.Algorithm())
	})

	t.Run("nil master key", func(t *testing.T) {
		_, err := NewEncryptor(nil, cryptoDomain.AESGCM, testIterations, NewAEADManager())
		assert.ErrorIs(t, err, cryptoDomain.ErrWeakMasterKey)
	})

	t.Run("unknown algorithm", func(t *testing.T) {
		_, err := NewEncryptor(masterKey, cryptoDomain.Algorithm("rot13"), testIterations, NewAEADManager())
		assert.ErrorIs(t, err, cryptoDomain.ErrUnsupportedAlgorithm)
	})
}

func TestEncryptorRoundTrip(t *testing.T) {
	for _, alg := range []cryptoDomain.Algorithm{cryptoDomain.AESGCM, cryptoDomain.ChaCha20} {
		t.Run(string(alg), func(t *testing.T) {
			encryptor := newTestEncryptor(t, alg)

			for _, plaintext := range []string{
				"1234567890123456",
				"diagnosis: seasonal allergic rhinitis",
				"ü", // multibyte
				"a",
			} {
				env, err := encryptor.Encrypt(plaintext, nil)
				require.NoError(t, err)
				assert.Equal(t, alg, env.Algorithm)
				assert.Len(t, env.Salt, cryptoDomain.SaltSize)
				assert.NotEmpty(t, env.Nonce)
				assert.NotEmpty(t, env.AuthTag)
				assert.False(t, env.CreatedAt.IsZero())

				decrypted, err := encryptor.Decrypt(env, nil)
				require.NoError(t, err)
				assert.Equal(t, plaintext, decrypted)
			}
		})
	}
}

func TestEncryptorSerializedRoundTrip(t *testing.T) {
	encryptor := newTestEncryptor(t, cryptoDomain.AESGCM)

	serialized, err := encryptor.EncryptToString("secret value", nil)
	require.NoError(t, err)

	decrypted, err := encryptor.DecryptString(serialized, nil)
	require.NoError(t, err)
	assert.Equal(t, "secret value", decrypted)
}

func TestEncryptorEnvelopeUniqueness(t *testing.T) {
	encryptor := newTestEncryptor(t, cryptoDomain.AESGCM)

	first, err := encryptor.Encrypt("same plaintext", nil)
	require.NoError(t, err)
	second, err := encryptor.Encrypt("same plaintext", nil)
	require.NoError(t, err)

	assert.NotEqual(t, first.Salt, second.Salt)
	assert.NotEqual(t, first.Nonce, second.Nonce)
	assert.NotEqual(t, first.Ciphertext, second.Ciphertext)

	for _, env := range []cryptoDomain.Envelope{first, second} {
		decrypted, err := encryptor.Decrypt(env, nil)
		require.NoError(t, err)
		assert.Equal(t, "same plaintext", decrypted)
	}
}

func TestEncryptorEmptyPlaintext(t *testing.T) {
	encryptor := newTestEncryptor(t, cryptoDomain.AESGCM)

	_, err := encryptor.Encrypt("", nil)
	assert.ErrorIs(t, err, cryptoDomain.ErrEmptyPlaintext)
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
}

func TestEncryptorTamperDetection(t *testing.T) {
	encryptor := newTestEncryptor(t, cryptoDomain.AESGCM)

	env, err := encryptor.Encrypt("patient record content", nil)
	require.NoError(t, err)

	t.Run("flipped ciphertext byte", func(t *testing.T) {
		tampered := env
		tampered.Ciphertext = append([]byte(nil), env.Ciphertext...)
		tampered.Ciphertext[0] ^= 0x01

		_, err := encryptor.Decrypt(tampered, nil)
		assert.ErrorIs(t, err, cryptoDomain.ErrDecryptionFailed)
		assert.ErrorIs(t, err, apperrors.ErrAuthenticationFailed)
	})

	t.Run("flipped auth tag byte", func(t *testing.T) {
		tampered := env
		tampered.AuthTag = append([]byte(nil), env.AuthTag...)
		tampered.AuthTag[len(tampered.AuthTag)-1] ^= 0x80

		_, err := encryptor.Decrypt(tampered, nil)
		assert.ErrorIs(t, err, cryptoDomain.ErrDecryptionFailed)
	})

	t.Run("flipped salt byte derives the wrong key", func(t *testing.T) {
		tampered := env
		tampered.Salt = append([]byte(nil), env.Salt...)
		tampered.Salt[0] ^= 0xff

		_, err := encryptor.Decrypt(tampered, nil)
		assert.ErrorIs(t, err, cryptoDomain.ErrDecryptionFailed)
	})
}

func TestEncryptorAlgorithmMismatch(t *testing.T) {
	aesEncryptor := newTestEncryptor(t, cryptoDomain.AESGCM)
	chachaEncryptor := newTestEncryptor(t, cryptoDomain.ChaCha20)

	env, err := aesEncryptor.Encrypt("cross-algorithm", nil)
	require.NoError(t, err)

	_, err = chachaEncryptor.Decrypt(env, nil)
	assert.ErrorIs(t, err, cryptoDomain.ErrUnsupportedAlgorithm)
}

func TestEncryptorAssociatedData(t *testing.T) {
	encryptor := newTestEncryptor(t, cryptoDomain.AESGCM)

	env, err := encryptor.Encrypt("bound to a record", []byte("record-42"))
	require.NoError(t, err)

	t.Run("matching aad decrypts", func(t *testing.T) {
		decrypted, err := encryptor.Decrypt(env, []byte("record-42"))
		require.NoError(t, err)
		assert.Equal(t, "bound to a record", decrypted)
	})

	t.Run("mismatched aad fails authentication", func(t *testing.T) {
		_, err := encryptor.Decrypt(env, []byte("record-43"))
		assert.ErrorIs(t, err, cryptoDomain.ErrDecryptionFailed)
	})

	t.Run("missing aad fails authentication", func(t *testing.T) {
		_, err := encryptor.Decrypt(env, nil)
		assert.ErrorIs(t, err, cryptoDomain.ErrDecryptionFailed)
	})
}

func TestEncryptorDecryptStringParseFailure(t *testing.T) {
	encryptor := newTestEncryptor(t, cryptoDomain.AESGCM)

	_, err := encryptor.DecryptString("not an envelope at all", nil)
	assert.ErrorIs(t, err, cryptoDomain.ErrInvalidEnvelope)
	// A parse failure must be distinguishable from a failed tag check.
	assert.NotErrorIs(t, err, apperrors.ErrAuthenticationFailed)
}

func TestEncryptorWrongMasterKey(t *testing.T) {
	encryptor := newTestEncryptor(t, cryptoDomain.AESGCM)

	otherKey := &cryptoDomain.MasterKey{Key: []byte("zZ9yY8xX7wW6vV5uU4tT3sS2rR1qQ0pP")}
	other, err := NewEncryptor(otherKey, cryptoDomain.AESGCM, testIterations, NewAEADManager())
	require.NoError(t, err)

	env, err := encryptor.Encrypt("keyed material", nil)
	require.NoError(t, err)

	_, err = other.Decrypt(env, nil)
	assert.ErrorIs(t, err, cryptoDomain.ErrDecryptionFailed)
}
