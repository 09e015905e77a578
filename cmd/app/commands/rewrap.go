package commands

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	recordsDomain "github.com/allisson/phicrypt/internal/records/domain"
	recordsUsecase "github.com/allisson/phicrypt/internal/records/usecase"
)

// rewrapScanBuffer bounds a single JSONL line; large records with many
// encrypted fields can run long.
const rewrapScanBuffer = 4 * 1024 * 1024

// rewrapLine is one unit of rewrap work: a record together with the policy
// type that governs its fields.
type rewrapLine struct {
	RecordType string               `json:"record_type"`
	Record     recordsDomain.Record `json:"record"`
}

// RunRewrap re-encrypts exported records under a new master key. Input is
// JSONL on reader, one {"record_type": ..., "record": ...} object per line;
// output is the same shape on writer, in input order.
//
// Each record is decrypted with the current-key codec and re-encrypted with
// the new-key codec. Records where any field failed to decrypt are written
// back UNCHANGED, still under the old key: encrypting the failure sentinel
// would destroy the original ciphertext. Such records are counted and logged
// so the operator can retry them before retiring the old key.
//
// Work runs on a bounded errgroup throttled by a shared rate limiter. A
// non-positive ratePerSec disables throttling.
func RunRewrap(
	ctx context.Context,
	oldCodec, newCodec recordsUsecase.FieldCodec,
	logger *slog.Logger,
	reader io.Reader,
	writer io.Writer,
	workers int,
	ratePerSec float64,
) error {
	if workers <= 0 {
		return fmt.Errorf("workers must be greater than 0")
	}

	limit := rate.Inf
	if ratePerSec > 0 {
		limit = rate.Limit(ratePerSec)
	}
	limiter := rate.NewLimiter(limit, workers)

	var lines []rewrapLine
	scanner := bufio.NewScanner(reader)
	scanner.Buffer(make([]byte, 0, 64*1024), rewrapScanBuffer)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		raw := scanner.Bytes()
		if len(raw) == 0 {
			continue
		}

		var line rewrapLine
		if err := json.Unmarshal(raw, &line); err != nil {
			return fmt.Errorf("invalid JSON on line %d: %w", lineNo, err)
		}
		if line.RecordType == "" {
			return fmt.Errorf("missing record_type on line %d", lineNo)
		}
		lines = append(lines, line)
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read input: %w", err)
	}

	logger.Info("starting rewrap",
		slog.Int("records", len(lines)),
		slog.Int("workers", workers),
	)

	results := make([]recordsDomain.Record, len(lines))
	skipped := make([]bool, len(lines))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i := range lines {
		g.Go(func() error {
			if err := limiter.Wait(gctx); err != nil {
				return err
			}

			decrypted := oldCodec.DecryptFields(gctx, lines[i].RecordType, lines[i].Record)
			if hasSentinel(decrypted) {
				results[i] = lines[i].Record
				skipped[i] = true
				return nil
			}

			results[i] = newCodec.EncryptFields(gctx, lines[i].RecordType, decrypted)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return fmt.Errorf("rewrap aborted: %w", err)
	}

	encoder := json.NewEncoder(writer)
	skippedCount := 0
	for i := range results {
		if skipped[i] {
			skippedCount++
		}
		if err := encoder.Encode(rewrapLine{RecordType: lines[i].RecordType, Record: results[i]}); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}

	logger.Info("rewrap completed",
		slog.Int("rewrapped", len(results)-skippedCount),
		slog.Int("skipped", skippedCount),
	)
	if skippedCount > 0 {
		logger.Warn("some records could not be decrypted and were left under the old key",
			slog.Int("skipped", skippedCount),
		)
	}

	return nil
}

// hasSentinel reports whether any top-level field holds the decrypt-failure
// sentinel.
func hasSentinel(rec recordsDomain.Record) bool {
	for _, value := range rec {
		if s, ok := value.(string); ok && s == recordsDomain.EncryptedSentinel {
			return true
		}
	}
	return false
}
