package commands

import (
	"context"
	"fmt"
	"log/slog"

	recordsDomain "github.com/allisson/phicrypt/internal/records/domain"
	recordsUsecase "github.com/allisson/phicrypt/internal/records/usecase"
)

// RunEncryptRecord encrypts the policy fields of a JSON record read from
// filePath or from the reader. The input may be a single object or an array
// of objects; the output mirrors the input shape.
func RunEncryptRecord(
	ctx context.Context,
	useCase recordsUsecase.RecordUseCase,
	logger *slog.Logger,
	io IOTuple,
	recordType, filePath string,
) error {
	records, isArray, err := readRecordInput(io.Reader, filePath)
	if err != nil {
		return err
	}

	logger.Info("encrypting records",
		slog.String("record_type", recordType),
		slog.Int("count", len(records)),
	)

	if isArray {
		encrypted, err := useCase.EncryptRecords(ctx, recordType, records)
		if err != nil {
			return fmt.Errorf("failed to encrypt records: %w", err)
		}
		return writeRecordOutput(io.Writer, encrypted, true)
	}

	encrypted, err := useCase.EncryptRecord(ctx, recordType, records[0])
	if err != nil {
		return fmt.Errorf("failed to encrypt record: %w", err)
	}
	return writeRecordOutput(io.Writer, []recordsDomain.Record{encrypted}, false)
}
