package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	cryptoDomain "github.com/allisson/phicrypt/internal/crypto/domain"
	cryptoService "github.com/allisson/phicrypt/internal/crypto/service"
	recordsDomain "github.com/allisson/phicrypt/internal/records/domain"
	recordsService "github.com/allisson/phicrypt/internal/records/service"
)

func newTestRewrapCodec(t *testing.T, key string) *recordsService.FieldCodecService {
	t.Helper()

	encryptor, err := cryptoService.NewEncryptor(
		&cryptoDomain.MasterKey{Key: []byte(key)},
		cryptoDomain.AESGCM,
		1000,
		cryptoService.NewAEADManager(),
	)
	require.NoError(t, err)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return recordsService.NewFieldCodec(encryptor, recordsDomain.DefaultPolicyRegistry(), logger, 2)
}

func TestRunRewrap(t *testing.T) {
	ctx := context.Background()
	oldCodec := newTestRewrapCodec(t, "a1B2c3D4e5F6g7H8i9J0kLmNoPqRsTuV")
	newCodec := newTestRewrapCodec(t, "Zz9Yy8Xx7Ww6Vv5Uu4Tt3Ss2Rr1Qq0Pp")
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	encryptLine := func(t *testing.T, recordType string, rec recordsDomain.Record) string {
		t.Helper()
		encrypted := oldCodec.EncryptFields(ctx, recordType, rec)
		line, err := json.Marshal(rewrapLine{RecordType: recordType, Record: encrypted})
		require.NoError(t, err)
		return string(line)
	}

	t.Run("rewraps-records-under-new-key", func(t *testing.T) {
		input := encryptLine(t, "Chat", recordsDomain.Record{"id": "c1", "content": "hello"}) + "\n" +
			encryptLine(t, "User", recordsDomain.Record{"id": "u1", "phone": "+15551234567"}) + "\n"

		var out bytes.Buffer
		err := RunRewrap(ctx, oldCodec, newCodec, logger, strings.NewReader(input), &out, 2, 0)
		require.NoError(t, err)

		lines := strings.Split(strings.TrimSpace(out.String()), "\n")
		require.Len(t, lines, 2)

		var first rewrapLine
		require.NoError(t, json.Unmarshal([]byte(lines[0]), &first))
		require.Equal(t, "Chat", first.RecordType)

		decrypted := newCodec.DecryptFields(ctx, first.RecordType, first.Record)
		require.Equal(t, "hello", decrypted["content"])

		stillOldKey := oldCodec.DecryptFields(ctx, first.RecordType, first.Record)
		require.Equal(t, recordsDomain.EncryptedSentinel, stillOldKey["content"])
	})

	t.Run("preserves-input-order", func(t *testing.T) {
		var input strings.Builder
		for _, id := range []string{"c1", "c2", "c3", "c4", "c5"} {
			input.WriteString(encryptLine(t, "Chat", recordsDomain.Record{"id": id, "content": "msg-" + id}) + "\n")
		}

		var out bytes.Buffer
		err := RunRewrap(ctx, oldCodec, newCodec, logger, strings.NewReader(input.String()), &out, 4, 0)
		require.NoError(t, err)

		lines := strings.Split(strings.TrimSpace(out.String()), "\n")
		require.Len(t, lines, 5)
		for i, id := range []string{"c1", "c2", "c3", "c4", "c5"} {
			var line rewrapLine
			require.NoError(t, json.Unmarshal([]byte(lines[i]), &line))
			require.Equal(t, id, line.Record["id"])
		}
	})

	t.Run("undecryptable-record-left-unchanged", func(t *testing.T) {
		rec := oldCodec.EncryptFields(ctx, "Chat", recordsDomain.Record{"id": "c1", "content": "hello"})
		rec["content"] = "v1:aes-gcm:bad:bad:bad:bad:0"
		line, err := json.Marshal(rewrapLine{RecordType: "Chat", Record: rec})
		require.NoError(t, err)

		var out bytes.Buffer
		err = RunRewrap(ctx, oldCodec, newCodec, logger, bytes.NewReader(append(line, '\n')), &out, 1, 0)
		require.NoError(t, err)

		var got rewrapLine
		require.NoError(t, json.Unmarshal(bytes.TrimSpace(out.Bytes()), &got))
		require.Equal(t, "v1:aes-gcm:bad:bad:bad:bad:0", got.Record["content"])
		require.Equal(t, true, got.Record["content_encrypted"])
	})

	t.Run("skips-blank-lines", func(t *testing.T) {
		input := "\n" + encryptLine(t, "Chat", recordsDomain.Record{"id": "c1", "content": "hi"}) + "\n\n"

		var out bytes.Buffer
		err := RunRewrap(ctx, oldCodec, newCodec, logger, strings.NewReader(input), &out, 1, 0)
		require.NoError(t, err)
		require.Len(t, strings.Split(strings.TrimSpace(out.String()), "\n"), 1)
	})

	t.Run("invalid-json-line", func(t *testing.T) {
		err := RunRewrap(ctx, oldCodec, newCodec, logger, strings.NewReader("{bad\n"), &bytes.Buffer{}, 1, 0)

		require.Error(t, err)
		require.Contains(t, err.Error(), "invalid JSON on line 1")
	})

	t.Run("missing-record-type", func(t *testing.T) {
		err := RunRewrap(ctx, oldCodec, newCodec, logger, strings.NewReader(`{"record": {"id": "c1"}}`+"\n"), &bytes.Buffer{}, 1, 0)

		require.Error(t, err)
		require.Contains(t, err.Error(), "missing record_type on line 1")
	})

	t.Run("invalid-workers", func(t *testing.T) {
		err := RunRewrap(ctx, oldCodec, newCodec, logger, strings.NewReader(""), &bytes.Buffer{}, 0, 0)

		require.Error(t, err)
		require.Contains(t, err.Error(), "workers must be greater than 0")
	})

	t.Run("empty-input", func(t *testing.T) {
		var out bytes.Buffer
		err := RunRewrap(ctx, oldCodec, newCodec, logger, strings.NewReader(""), &out, 1, 0)

		require.NoError(t, err)
		require.Empty(t, out.String())
	})

	t.Run("rate-limited", func(t *testing.T) {
		input := encryptLine(t, "Chat", recordsDomain.Record{"id": "c1", "content": "hi"}) + "\n"

		var out bytes.Buffer
		err := RunRewrap(ctx, oldCodec, newCodec, logger, strings.NewReader(input), &out, 1, 1000)
		require.NoError(t, err)
		require.NotEmpty(t, out.String())
	})
}
