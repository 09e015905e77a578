package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	recordsDomain "github.com/allisson/phicrypt/internal/records/domain"
)

type mockRecordUseCase struct {
	mock.Mock
}

func (m *mockRecordUseCase) EncryptRecord(
	ctx context.Context,
	recordType string,
	rec recordsDomain.Record,
) (recordsDomain.Record, error) {
	args := m.Called(ctx, recordType, rec)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(recordsDomain.Record), args.Error(1)
}

func (m *mockRecordUseCase) DecryptRecord(
	ctx context.Context,
	recordType string,
	rec recordsDomain.Record,
) (recordsDomain.Record, error) {
	args := m.Called(ctx, recordType, rec)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(recordsDomain.Record), args.Error(1)
}

func (m *mockRecordUseCase) EncryptRecords(
	ctx context.Context,
	recordType string,
	recs []recordsDomain.Record,
) ([]recordsDomain.Record, error) {
	args := m.Called(ctx, recordType, recs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]recordsDomain.Record), args.Error(1)
}

func (m *mockRecordUseCase) DecryptRecords(
	ctx context.Context,
	recordType string,
	recs []recordsDomain.Record,
) ([]recordsDomain.Record, error) {
	args := m.Called(ctx, recordType, recs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]recordsDomain.Record), args.Error(1)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(bytes.NewBuffer(nil), nil))
}

func TestRunEncryptRecord(t *testing.T) {
	ctx := context.Background()

	t.Run("single-record", func(t *testing.T) {
		input := recordsDomain.Record{"id": "u1", "phone": "+15551234567"}
		output := recordsDomain.Record{"id": "u1", "phone": "v1:...", "phone_encrypted": true}

		mockUseCase := &mockRecordUseCase{}
		mockUseCase.On("EncryptRecord", ctx, "User", input).Return(output, nil)

		var out bytes.Buffer
		io := IOTuple{Reader: strings.NewReader(`{"id": "u1", "phone": "+15551234567"}`), Writer: &out}
		err := RunEncryptRecord(ctx, mockUseCase, testLogger(), io, "User", "")

		require.NoError(t, err)

		var got recordsDomain.Record
		require.NoError(t, json.Unmarshal(out.Bytes(), &got))
		require.Equal(t, "v1:...", got["phone"])
		require.Equal(t, true, got["phone_encrypted"])
		mockUseCase.AssertExpectations(t)
	})

	t.Run("record-array", func(t *testing.T) {
		input := []recordsDomain.Record{{"id": "u1"}, {"id": "u2"}}
		output := []recordsDomain.Record{{"id": "u1"}, {"id": "u2"}}

		mockUseCase := &mockRecordUseCase{}
		mockUseCase.On("EncryptRecords", ctx, "User", input).Return(output, nil)

		var out bytes.Buffer
		io := IOTuple{Reader: strings.NewReader(`[{"id": "u1"}, {"id": "u2"}]`), Writer: &out}
		err := RunEncryptRecord(ctx, mockUseCase, testLogger(), io, "User", "")

		require.NoError(t, err)

		var got []recordsDomain.Record
		require.NoError(t, json.Unmarshal(out.Bytes(), &got))
		require.Len(t, got, 2)
		mockUseCase.AssertExpectations(t)
	})

	t.Run("file-input", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "record.json")
		require.NoError(t, os.WriteFile(path, []byte(`{"id": "u1"}`), 0o600))

		mockUseCase := &mockRecordUseCase{}
		mockUseCase.On("EncryptRecord", ctx, "User", recordsDomain.Record{"id": "u1"}).
			Return(recordsDomain.Record{"id": "u1"}, nil)

		var out bytes.Buffer
		io := IOTuple{Reader: strings.NewReader(""), Writer: &out}
		err := RunEncryptRecord(ctx, mockUseCase, testLogger(), io, "User", path)

		require.NoError(t, err)
		mockUseCase.AssertExpectations(t)
	})

	t.Run("invalid-json", func(t *testing.T) {
		io := IOTuple{Reader: strings.NewReader(`{"id":`), Writer: &bytes.Buffer{}}
		err := RunEncryptRecord(ctx, &mockRecordUseCase{}, testLogger(), io, "User", "")

		require.Error(t, err)
		require.Contains(t, err.Error(), "failed to parse record")
	})

	t.Run("empty-input", func(t *testing.T) {
		io := IOTuple{Reader: strings.NewReader("  \n"), Writer: &bytes.Buffer{}}
		err := RunEncryptRecord(ctx, &mockRecordUseCase{}, testLogger(), io, "User", "")

		require.Error(t, err)
		require.Contains(t, err.Error(), "input is empty")
	})

	t.Run("use-case-error", func(t *testing.T) {
		mockUseCase := &mockRecordUseCase{}
		mockUseCase.On("EncryptRecord", ctx, "", recordsDomain.Record{"id": "u1"}).
			Return(nil, errors.New("record type is required"))

		io := IOTuple{Reader: strings.NewReader(`{"id": "u1"}`), Writer: &bytes.Buffer{}}
		err := RunEncryptRecord(ctx, mockUseCase, testLogger(), io, "", "")

		require.Error(t, err)
		require.Contains(t, err.Error(), "failed to encrypt record")
		mockUseCase.AssertExpectations(t)
	})
}
