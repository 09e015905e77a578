package usecase

import (
	"context"
	"time"

	"github.com/allisson/phicrypt/internal/metrics"
	recordsDomain "github.com/allisson/phicrypt/internal/records/domain"
)

// recordUseCaseWithMetrics decorates RecordUseCase with metrics instrumentation.
type recordUseCaseWithMetrics struct {
	next    RecordUseCase
	metrics metrics.BusinessMetrics
}

// NewRecordUseCaseWithMetrics wraps a RecordUseCase with metrics recording.
func NewRecordUseCaseWithMetrics(useCase RecordUseCase, m metrics.BusinessMetrics) RecordUseCase {
	return &recordUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

// EncryptRecord records metrics for single-record encryption operations.
func (r *recordUseCaseWithMetrics) EncryptRecord(
	ctx context.Context,
	recordType string,
	rec recordsDomain.Record,
) (recordsDomain.Record, error) {
	start := time.Now()
	out, err := r.next.EncryptRecord(ctx, recordType, rec)

	status := "success"
	if err != nil {
		status = "error"
	}

	r.metrics.RecordOperation(ctx, "records", "record_encrypt", status)
	r.metrics.RecordDuration(ctx, "records", "record_encrypt", time.Since(start), status)

	return out, err
}

// DecryptRecord records metrics for single-record decryption operations.
func (r *recordUseCaseWithMetrics) DecryptRecord(
	ctx context.Context,
	recordType string,
	rec recordsDomain.Record,
) (recordsDomain.Record, error) {
	start := time.Now()
	out, err := r.next.DecryptRecord(ctx, recordType, rec)

	status := "success"
	if err != nil {
		status = "error"
	}

	r.metrics.RecordOperation(ctx, "records", "record_decrypt", status)
	r.metrics.RecordDuration(ctx, "records", "record_decrypt", time.Since(start), status)

	return out, err
}

// EncryptRecords records metrics for batch encryption operations.
func (r *recordUseCaseWithMetrics) EncryptRecords(
	ctx context.Context,
	recordType string,
	recs []recordsDomain.Record,
) ([]recordsDomain.Record, error) {
	start := time.Now()
	out, err := r.next.EncryptRecords(ctx, recordType, recs)

	status := "success"
	if err != nil {
		status = "error"
	}

	r.metrics.RecordOperation(ctx, "records", "record_encrypt_batch", status)
	r.metrics.RecordDuration(ctx, "records", "record_encrypt_batch", time.Since(start), status)

	return out, err
}

// DecryptRecords records metrics for batch decryption operations.
func (r *recordUseCaseWithMetrics) DecryptRecords(
	ctx context.Context,
	recordType string,
	recs []recordsDomain.Record,
) ([]recordsDomain.Record, error) {
	start := time.Now()
	out, err := r.next.DecryptRecords(ctx, recordType, recs)

	status := "success"
	if err != nil {
		status = "error"
	}

	r.metrics.RecordOperation(ctx, "records", "record_decrypt_batch", status)
	r.metrics.RecordDuration(ctx, "records", "record_decrypt_batch", time.Since(start), status)

	return out, err
}
