package usecase_test

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cryptoDomain "github.com/allisson/phicrypt/internal/crypto/domain"
	cryptoService "github.com/allisson/phicrypt/internal/crypto/service"
	apperrors "github.com/allisson/phicrypt/internal/errors"
	recordsDomain "github.com/allisson/phicrypt/internal/records/domain"
	recordsService "github.com/allisson/phicrypt/internal/records/service"
	"github.com/allisson/phicrypt/internal/records/usecase"
)

func newTestUseCase(t *testing.T) usecase.RecordUseCase {
	t.Helper()
	masterKey := &cryptoDomain.MasterKey{Key: []byte("a1B2c3D4e5F6g7H8i9J0kLmNoPqRsTuV")}
	encryptor, err := cryptoService.NewEncryptor(
		masterKey,
		cryptoDomain.AESGCM,
		1000,
		cryptoService.NewAEADManager(),
	)
	require.NoError(t, err)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	registry := recordsDomain.DefaultPolicyRegistry()
	codec := recordsService.NewFieldCodec(encryptor, registry, logger, 0)

	return usecase.NewRecordUseCase(codec, registry, logger)
}

func TestRecordUseCaseRoundTrip(t *testing.T) {
	uc := newTestUseCase(t)
	ctx := context.Background()

	original := recordsDomain.Record{
		"name":       "Jane",
		"nationalId": "1234567890123456",
	}

	encrypted, err := uc.EncryptRecord(ctx, "User", original)
	require.NoError(t, err)
	assert.Equal(t, true, encrypted["nationalId_encrypted"])
	assert.NotEqual(t, original["nationalId"], encrypted["nationalId"])

	decrypted, err := uc.DecryptRecord(ctx, "User", encrypted)
	require.NoError(t, err)
	assert.Equal(t, original, decrypted)
}

func TestRecordUseCaseValidation(t *testing.T) {
	uc := newTestUseCase(t)
	ctx := context.Background()
	rec := recordsDomain.Record{"content": "hello"}

	t.Run("empty record type", func(t *testing.T) {
		_, err := uc.EncryptRecord(ctx, "", rec)
		assert.ErrorIs(t, err, apperrors.ErrInvalidInput)

		_, err = uc.DecryptRecord(ctx, "  ", rec)
		assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	})

	t.Run("nil record", func(t *testing.T) {
		_, err := uc.EncryptRecord(ctx, "Chat", nil)
		assert.ErrorIs(t, err, apperrors.ErrInvalidInput)

		_, err = uc.DecryptRecord(ctx, "Chat", nil)
		assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	})

	t.Run("empty batch", func(t *testing.T) {
		_, err := uc.EncryptRecords(ctx, "Chat", nil)
		assert.ErrorIs(t, err, apperrors.ErrInvalidInput)

		_, err = uc.DecryptRecords(ctx, "Chat", []recordsDomain.Record{})
		assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	})

	t.Run("unregistered type passes through", func(t *testing.T) {
		out, err := uc.EncryptRecord(ctx, "NotARealType", rec)
		assert.NoError(t, err)
		assert.Equal(t, rec, out)
	})
}

func TestRecordUseCaseBatch(t *testing.T) {
	uc := newTestUseCase(t)
	ctx := context.Background()

	recs := []recordsDomain.Record{
		{"content": "first"},
		{"content": "second"},
	}

	encrypted, err := uc.EncryptRecords(ctx, "Chat", recs)
	require.NoError(t, err)
	require.Len(t, encrypted, 2)

	decrypted, err := uc.DecryptRecords(ctx, "Chat", encrypted)
	require.NoError(t, err)
	require.Len(t, decrypted, 2)
	assert.Equal(t, "first", decrypted[0]["content"])
	assert.Equal(t, "second", decrypted[1]["content"])
}
