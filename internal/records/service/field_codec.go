// Package service implements the field envelope codec: the translation
// between plaintext records and records whose policy-selected fields are
// replaced by serialized envelopes.
package service

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"

	cryptoDomain "github.com/allisson/phicrypt/internal/crypto/domain"
	cryptoService "github.com/allisson/phicrypt/internal/crypto/service"
	apperrors "github.com/allisson/phicrypt/internal/errors"
	recordsDomain "github.com/allisson/phicrypt/internal/records/domain"
)

// DefaultBatchConcurrency bounds the number of records processed in parallel
// by the batch operations. Key derivation is CPU-bound, so more workers than
// cores buys nothing.
const DefaultBatchConcurrency = 8

// FieldCodecService encrypts and decrypts policy-selected fields of records.
//
// The codec is stateless apart from its immutable collaborators and is safe
// for concurrent use. Its two failure policies are deliberate and asymmetric:
//
//   - Encryption fails closed. A field that cannot be encrypted is dropped
//     from the output entirely; plaintext is never written through to storage
//     as a fallback.
//   - Decryption fails soft. A field that cannot be decrypted is replaced by
//     the "[ENCRYPTED]" sentinel so the rest of the record stays usable; raw
//     ciphertext never reaches the caller and one corrupt field never aborts
//     the whole record.
//
// Both outcomes are logged with the field name and error class, never the
// value.
type FieldCodecService struct {
	encryptor   cryptoService.Encryptor
	registry    *recordsDomain.PolicyRegistry
	logger      *slog.Logger
	concurrency int
}

// NewFieldCodec creates a FieldCodecService. A non-positive concurrency falls
// back to DefaultBatchConcurrency.
func NewFieldCodec(
	encryptor cryptoService.Encryptor,
	registry *recordsDomain.PolicyRegistry,
	logger *slog.Logger,
	concurrency int,
) *FieldCodecService {
	if concurrency <= 0 {
		concurrency = DefaultBatchConcurrency
	}
	return &FieldCodecService{
		encryptor:   encryptor,
		registry:    registry,
		logger:      logger,
		concurrency: concurrency,
	}
}

// fieldOutcome is the explicit per-field result threaded through the codec
// instead of exception-style control flow.
type fieldOutcome struct {
	field string
	value string
	err   error
}

// EncryptFields returns a copy of rec where each policy field that is present
// and holds a non-empty string is replaced by a serialized envelope and
// accompanied by a "<field>_encrypted = true" marker.
//
// Fields not in the policy, absent, or non-string pass through unchanged.
// Unknown record types have no policy entry, so the record passes through
// untouched. If encryption of a field fails, the field is dropped from the
// output (fail closed) and the failure is logged.
func (s *FieldCodecService) EncryptFields(
	ctx context.Context,
	recordType string,
	rec recordsDomain.Record,
) recordsDomain.Record {
	if rec == nil {
		return nil
	}

	out := rec.Clone()
	for _, field := range s.registry.FieldsFor(recordType) {
		value, ok := rec[field]
		if !ok {
			continue
		}
		plaintext, ok := value.(string)
		if !ok || plaintext == "" {
			continue
		}

		outcome := s.encryptField(recordType, field, plaintext)
		if outcome.err != nil {
			// Never persist plaintext as a fallback: drop the field.
			delete(out, field)
			s.logger.ErrorContext(ctx, "field encryption failed, field dropped from output",
				slog.String("record_type", recordType),
				slog.String("field", field),
				slog.String("error_class", errorClass(outcome.err)),
			)
			continue
		}

		out[field] = outcome.value
		out[recordsDomain.MarkerKey(field)] = true
	}

	return out
}

// DecryptFields returns a copy of rec where each policy field flagged by a
// "<field>_encrypted = true" marker is restored to plaintext and the marker
// removed.
//
// If a field cannot be decrypted, its value becomes the "[ENCRYPTED]"
// sentinel and processing continues with the remaining fields. An
// authentication failure is logged at error level because it may indicate
// tampering or a key mismatch; format failures are logged at warning level
// since they usually mean benign drift on legacy data.
func (s *FieldCodecService) DecryptFields(
	ctx context.Context,
	recordType string,
	rec recordsDomain.Record,
) recordsDomain.Record {
	if rec == nil {
		return nil
	}

	out := rec.Clone()
	for _, field := range s.registry.FieldsFor(recordType) {
		marker := recordsDomain.MarkerKey(field)
		flagged, ok := rec[marker].(bool)
		if !ok || !flagged {
			continue
		}

		value, present := rec[field]
		if !present {
			s.logger.WarnContext(ctx, "encrypted marker without companion field, skipped",
				slog.String("record_type", recordType),
				slog.String("field", field),
			)
			continue
		}

		delete(out, marker)

		outcome := s.decryptField(recordType, field, value)
		if outcome.err != nil {
			out[field] = recordsDomain.EncryptedSentinel

			level := slog.LevelWarn
			if apperrors.Is(outcome.err, apperrors.ErrAuthenticationFailed) {
				level = slog.LevelError
			}
			s.logger.Log(ctx, level, "field decryption failed, value masked",
				slog.String("record_type", recordType),
				slog.String("field", field),
				slog.String("error_class", errorClass(outcome.err)),
			)
			continue
		}

		out[field] = outcome.value
	}

	return out
}

// EncryptBatch applies EncryptFields to each record in parallel. The output
// preserves input order and each element's failures are independent.
func (s *FieldCodecService) EncryptBatch(
	ctx context.Context,
	recordType string,
	recs []recordsDomain.Record,
) []recordsDomain.Record {
	return s.mapBatch(ctx, recs, func(rec recordsDomain.Record) recordsDomain.Record {
		return s.EncryptFields(ctx, recordType, rec)
	})
}

// DecryptBatch applies DecryptFields to each record in parallel. The output
// preserves input order and each element's failures are independent.
func (s *FieldCodecService) DecryptBatch(
	ctx context.Context,
	recordType string,
	recs []recordsDomain.Record,
) []recordsDomain.Record {
	return s.mapBatch(ctx, recs, func(rec recordsDomain.Record) recordsDomain.Record {
		return s.DecryptFields(ctx, recordType, rec)
	})
}

// mapBatch runs fn over recs with bounded concurrency, writing results into
// an index-addressed slice so parallel execution cannot reorder the output.
func (s *FieldCodecService) mapBatch(
	ctx context.Context,
	recs []recordsDomain.Record,
	fn func(recordsDomain.Record) recordsDomain.Record,
) []recordsDomain.Record {
	if recs == nil {
		return nil
	}

	results := make([]recordsDomain.Record, len(recs))
	g, _ := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)

	for i, rec := range recs {
		g.Go(func() error {
			results[i] = fn(rec)
			return nil
		})
	}

	// Workers never return errors; per-field failures are handled inside fn.
	_ = g.Wait()
	return results
}

// encryptField encrypts one field value, binding the record type and field
// name as associated data so an envelope cannot be replayed into a different
// field.
func (s *FieldCodecService) encryptField(recordType, field, plaintext string) fieldOutcome {
	serialized, err := s.encryptor.EncryptToString(plaintext, fieldAAD(recordType, field))
	if err != nil {
		return fieldOutcome{field: field, err: err}
	}
	return fieldOutcome{field: field, value: serialized}
}

// decryptField decrypts one field value. A non-string value under a true
// marker violates the "fully plaintext or fully enveloped" invariant and is
// treated as an invalid envelope.
func (s *FieldCodecService) decryptField(recordType, field string, value any) fieldOutcome {
	serialized, ok := value.(string)
	if !ok {
		return fieldOutcome{field: field, err: apperrors.Wrap(apperrors.ErrInvalidInput, "marked field is not a string")}
	}

	plaintext, err := s.encryptor.DecryptString(serialized, fieldAAD(recordType, field))
	if err != nil {
		return fieldOutcome{field: field, err: err}
	}
	return fieldOutcome{field: field, value: plaintext}
}

// fieldAAD builds the associated data binding an envelope to its record type
// and field name.
func fieldAAD(recordType, field string) []byte {
	return []byte(recordType + ":" + field)
}

// errorClass maps an error to a stable label for logs and metrics. Field
// values never appear here.
func errorClass(err error) string {
	switch {
	case err == nil:
		return "none"
	case apperrors.Is(err, apperrors.ErrAuthenticationFailed):
		return "authentication_failed"
	case apperrors.Is(err, cryptoDomain.ErrUnsupportedAlgorithm):
		return "unsupported_algorithm"
	case apperrors.Is(err, cryptoDomain.ErrInvalidEnvelope):
		return "invalid_envelope"
	case apperrors.Is(err, apperrors.ErrInvalidInput):
		return "invalid_input"
	case apperrors.Is(err, apperrors.ErrKeyConfiguration):
		return "key_configuration"
	default:
		return "internal"
	}
}
