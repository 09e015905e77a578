package commands

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"regexp"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	cryptoDomain "github.com/allisson/phicrypt/internal/crypto/domain"
)

type mockKMSKeeper struct {
	mock.Mock
}

func (m *mockKMSKeeper) Decrypt(ctx context.Context, ciphertext []byte) ([]byte, error) {
	args := m.Called(ctx, ciphertext)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *mockKMSKeeper) Encrypt(ctx context.Context, plaintext []byte) ([]byte, error) {
	args := m.Called(ctx, plaintext)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *mockKMSKeeper) Close() error {
	args := m.Called()
	return args.Error(0)
}

type mockKMSService struct {
	mock.Mock
}

func (m *mockKMSService) OpenKeeper(ctx context.Context, keyURI string) (cryptoDomain.KMSKeeper, error) {
	args := m.Called(ctx, keyURI)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(cryptoDomain.KMSKeeper), args.Error(1)
}

func TestRunGenerateKey(t *testing.T) {
	ctx := context.Background()
	kmsKeyURI := "base64key://YWJjZGVmZ2hpamtsbW5vcHFyc3R1dnd4eXoxMjM0NTY="

	t.Run("plain-mode", func(t *testing.T) {
		var out bytes.Buffer
		err := RunGenerateKey(ctx, &mockKMSService{}, &out, "", "")

		require.NoError(t, err)
		require.Contains(t, out.String(), "development only")

		matches := regexp.MustCompile(`MASTER_KEY="([^"]+)"`).FindStringSubmatch(out.String())
		require.Len(t, matches, 2)

		key, err := base64.StdEncoding.DecodeString(matches[1])
		require.NoError(t, err)
		require.Len(t, key, 32)
	})

	t.Run("kms-mode", func(t *testing.T) {
		mockService := &mockKMSService{}
		mockKeeper := &mockKMSKeeper{}

		mockService.On("OpenKeeper", ctx, kmsKeyURI).Return(mockKeeper, nil)
		mockKeeper.On("Encrypt", ctx, mock.AnythingOfType("[]uint8")).Return([]byte("wrapped-key"), nil)
		mockKeeper.On("Close").Return(nil)

		var out bytes.Buffer
		err := RunGenerateKey(ctx, mockService, &out, "localsecrets", kmsKeyURI)

		require.NoError(t, err)
		require.Contains(t, out.String(), `KMS_PROVIDER="localsecrets"`)
		require.Contains(t, out.String(), `KMS_KEY_URI="`+kmsKeyURI+`"`)
		require.Contains(t, out.String(), `MASTER_KEY="d3JhcHBlZC1rZXk="`)

		mockService.AssertExpectations(t)
		mockKeeper.AssertExpectations(t)
	})

	t.Run("mismatched-kms-flags", func(t *testing.T) {
		var out bytes.Buffer
		err := RunGenerateKey(ctx, &mockKMSService{}, &out, "localsecrets", "")

		require.Error(t, err)
		require.Contains(t, err.Error(), "must be set together")
	})

	t.Run("kms-open-error", func(t *testing.T) {
		mockService := &mockKMSService{}
		mockService.On("OpenKeeper", ctx, kmsKeyURI).Return(nil, errors.New("kms error"))

		var out bytes.Buffer
		err := RunGenerateKey(ctx, mockService, &out, "localsecrets", kmsKeyURI)

		require.Error(t, err)
		require.Contains(t, err.Error(), "failed to open KMS keeper")
		mockService.AssertExpectations(t)
	})

	t.Run("kms-encrypt-error", func(t *testing.T) {
		mockService := &mockKMSService{}
		mockKeeper := &mockKMSKeeper{}

		mockService.On("OpenKeeper", ctx, kmsKeyURI).Return(mockKeeper, nil)
		mockKeeper.On("Encrypt", ctx, mock.AnythingOfType("[]uint8")).Return(nil, errors.New("encrypt error"))
		mockKeeper.On("Close").Return(nil)

		var out bytes.Buffer
		err := RunGenerateKey(ctx, mockService, &out, "localsecrets", kmsKeyURI)

		require.Error(t, err)
		require.Contains(t, err.Error(), "failed to encrypt master key with KMS")
		mockService.AssertExpectations(t)
		mockKeeper.AssertExpectations(t)
	})
}
