package usecase

import (
	"context"

	recordsDomain "github.com/allisson/phicrypt/internal/records/domain"
)

// FieldCodec defines the field encryption contract the use case depends on.
type FieldCodec interface {
	EncryptFields(ctx context.Context, recordType string, rec recordsDomain.Record) recordsDomain.Record
	DecryptFields(ctx context.Context, recordType string, rec recordsDomain.Record) recordsDomain.Record
	EncryptBatch(ctx context.Context, recordType string, recs []recordsDomain.Record) []recordsDomain.Record
	DecryptBatch(ctx context.Context, recordType string, recs []recordsDomain.Record) []recordsDomain.Record
}

// RecordUseCase defines the interface for record encryption operations.
type RecordUseCase interface {
	EncryptRecord(ctx context.Context, recordType string, rec recordsDomain.Record) (recordsDomain.Record, error)
	DecryptRecord(ctx context.Context, recordType string, rec recordsDomain.Record) (recordsDomain.Record, error)
	EncryptRecords(ctx context.Context, recordType string, recs []recordsDomain.Record) ([]recordsDomain.Record, error)
	DecryptRecords(ctx context.Context, recordType string, recs []recordsDomain.Record) ([]recordsDomain.Record, error)
}
