// Package usecase implements business logic orchestration for record
// encryption operations.
//
// The use case layer validates input, applies the field envelope codec, and
// surfaces operational signals (logs, metrics via decorator) around the codec.
// Field-level failure handling lives in the codec itself; the use case only
// rejects requests that are malformed before any cryptography runs.
package usecase

import (
	"context"
	"log/slog"
	"strings"

	apperrors "github.com/allisson/phicrypt/internal/errors"
	recordsDomain "github.com/allisson/phicrypt/internal/records/domain"
)

// recordUseCase implements the RecordUseCase interface.
type recordUseCase struct {
	codec    FieldCodec
	registry *recordsDomain.PolicyRegistry
	logger   *slog.Logger
}

// NewRecordUseCase creates a new record use case instance.
func NewRecordUseCase(
	codec FieldCodec,
	registry *recordsDomain.PolicyRegistry,
	logger *slog.Logger,
) RecordUseCase {
	return &recordUseCase{
		codec:    codec,
		registry: registry,
		logger:   logger,
	}
}

// checkRecordType validates the record type and warns when it has no policy
// entry. An unregistered type is not an error, the codec passes such records
// through, but on the encrypt path a typo in the type name would silently
// skip encryption, so it is worth a log line.
func (r *recordUseCase) checkRecordType(ctx context.Context, recordType string) error {
	if strings.TrimSpace(recordType) == "" {
		return apperrors.Wrap(apperrors.ErrInvalidInput, "record type is required")
	}
	if !r.registry.Contains(recordType) {
		r.logger.WarnContext(ctx, "record type has no field policy, record passes through unchanged",
			slog.String("record_type", recordType),
			slog.String("registered_types", strings.Join(r.registry.Types(), ",")),
		)
	}
	return nil
}

// EncryptRecord encrypts the policy fields of a single record.
func (r *recordUseCase) EncryptRecord(
	ctx context.Context,
	recordType string,
	rec recordsDomain.Record,
) (recordsDomain.Record, error) {
	if err := r.checkRecordType(ctx, recordType); err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, apperrors.Wrap(apperrors.ErrInvalidInput, "record is required")
	}
	return r.codec.EncryptFields(ctx, recordType, rec), nil
}

// DecryptRecord decrypts the marked policy fields of a single record.
func (r *recordUseCase) DecryptRecord(
	ctx context.Context,
	recordType string,
	rec recordsDomain.Record,
) (recordsDomain.Record, error) {
	if err := r.checkRecordType(ctx, recordType); err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, apperrors.Wrap(apperrors.ErrInvalidInput, "record is required")
	}
	return r.codec.DecryptFields(ctx, recordType, rec), nil
}

// EncryptRecords encrypts a batch of records of the same type.
func (r *recordUseCase) EncryptRecords(
	ctx context.Context,
	recordType string,
	recs []recordsDomain.Record,
) ([]recordsDomain.Record, error) {
	if err := r.checkRecordType(ctx, recordType); err != nil {
		return nil, err
	}
	if len(recs) == 0 {
		return nil, apperrors.Wrap(apperrors.ErrInvalidInput, "at least one record is required")
	}
	return r.codec.EncryptBatch(ctx, recordType, recs), nil
}

// DecryptRecords decrypts a batch of records of the same type.
func (r *recordUseCase) DecryptRecords(
	ctx context.Context,
	recordType string,
	recs []recordsDomain.Record,
) ([]recordsDomain.Record, error) {
	if err := r.checkRecordType(ctx, recordType); err != nil {
		return nil, err
	}
	if len(recs) == 0 {
		return nil, apperrors.Wrap(apperrors.ErrInvalidInput, "at least one record is required")
	}
	return r.codec.DecryptBatch(ctx, recordType, recs), nil
}
