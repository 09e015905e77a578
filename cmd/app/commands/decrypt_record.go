package commands

import (
	"context"
	"fmt"
	"log/slog"

	recordsDomain "github.com/allisson/phicrypt/internal/records/domain"
	recordsUsecase "github.com/allisson/phicrypt/internal/records/usecase"
)

// RunDecryptRecord decrypts the marked policy fields of a JSON record read
// from filePath or from the reader. The input may be a single object or an
// array of objects; the output mirrors the input shape. Fields that cannot
// be decrypted come back as the "[ENCRYPTED]" sentinel.
func RunDecryptRecord(
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

	logger.Info("decrypting records",
		slog.String("record_type", recordType),
		slog.Int("count", len(records)),
	)

	if isArray {
		decrypted, err := useCase.DecryptRecords(ctx, recordType, records)
		if err != nil {
			return fmt.Errorf("failed to decrypt records: %w", err)
		}
		return writeRecordOutput(io.Writer, decrypted, true)
	}

	decrypted, err := useCase.DecryptRecord(ctx, recordType, records[0])
	if err != nil {
		return fmt.Errorf("failed to decrypt record: %w", err)
	}
	return writeRecordOutput(io.Writer, []recordsDomain.Record{decrypted}, false)
}
