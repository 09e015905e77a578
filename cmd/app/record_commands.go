package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/allisson/phicrypt/cmd/app/commands"
	"github.com/allisson/phicrypt/internal/app"
	cryptoDomain "github.com/allisson/phicrypt/internal/crypto/domain"
	cryptoService "github.com/allisson/phicrypt/internal/crypto/service"
	recordsService "github.com/allisson/phicrypt/internal/records/service"
)

func getRecordCommands() []*cli.Command {
	return []*cli.Command{
		{
			Name:  "encrypt-record",
			Usage: "Encrypt the policy fields of a JSON record or array of records",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     "type",
					Aliases:  []string{"t"},
					Required: true,
					Usage:    "Record type that selects the field policy (e.g., User, MedicalRecord)",
				},
				&cli.StringFlag{
					Name:    "file",
					Aliases: []string{"f"},
					Value:   "",
					Usage:   "Input file path (defaults to stdin)",
				},
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg, err := loadConfig()
				if err != nil {
					return err
				}
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				useCase, err := container.RecordUseCase()
				if err != nil {
					return fmt.Errorf("failed to initialize record use case: %w", err)
				}

				return commands.RunEncryptRecord(
					ctx,
					useCase,
					container.Logger(),
					commands.DefaultIO(),
					cmd.String("type"),
					cmd.String("file"),
				)
			},
		},
		{
			Name:  "decrypt-record",
			Usage: "Decrypt the marked fields of a JSON record or array of records",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     "type",
					Aliases:  []string{"t"},
					Required: true,
					Usage:    "Record type that selects the field policy (e.g., User, MedicalRecord)",
				},
				&cli.StringFlag{
					Name:    "file",
					Aliases: []string{"f"},
					Value:   "",
					Usage:   "Input file path (defaults to stdin)",
				},
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg, err := loadConfig()
				if err != nil {
					return err
				}
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				useCase, err := container.RecordUseCase()
				if err != nil {
					return fmt.Errorf("failed to initialize record use case: %w", err)
				}

				return commands.RunDecryptRecord(
					ctx,
					useCase,
					container.Logger(),
					commands.DefaultIO(),
					cmd.String("type"),
					cmd.String("file"),
				)
			},
		},
		{
			Name:  "rewrap",
			Usage: "Re-encrypt exported records (JSONL) under a new master key",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     "new-key",
					Required: true,
					Usage:    "Base64 master key to re-encrypt with",
				},
				&cli.StringFlag{
					Name:    "input",
					Aliases: []string{"i"},
					Value:   "",
					Usage:   "Input JSONL file path (defaults to stdin)",
				},
				&cli.StringFlag{
					Name:    "output",
					Aliases: []string{"o"},
					Value:   "",
					Usage:   "Output JSONL file path (defaults to stdout)",
				},
				&cli.IntFlag{
					Name:    "workers",
					Aliases: []string{"w"},
					Value:   0,
					Usage:   "Concurrent workers (defaults to REWRAP_WORKERS)",
				},
				&cli.FloatFlag{
					Name:    "rate",
					Aliases: []string{"r"},
					Value:   0,
					Usage:   "Records per second (defaults to REWRAP_RATE_PER_SEC, 0 uses the config value)",
				},
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg, err := loadConfig()
				if err != nil {
					return err
				}
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				logger := container.Logger()

				oldCodec, err := container.FieldCodec()
				if err != nil {
					return fmt.Errorf("failed to initialize field codec: %w", err)
				}

				newCodec, err := newKeyCodec(container, cmd.String("new-key"))
				if err != nil {
					return err
				}

				io := commands.DefaultIO()
				if path := cmd.String("input"); path != "" {
					file, err := os.Open(path)
					if err != nil {
						return fmt.Errorf("failed to open input file: %w", err)
					}
					defer func() { _ = file.Close() }()
					io.Reader = file
				}
				if path := cmd.String("output"); path != "" {
					file, err := os.Create(path)
					if err != nil {
						return fmt.Errorf("failed to create output file: %w", err)
					}
					defer func() { _ = file.Close() }()
					io.Writer = file
				}

				if cfg.MetricsEnabled {
					metricsServer, err := container.MetricsServer()
					if err != nil {
						return fmt.Errorf("failed to initialize metrics server: %w", err)
					}
					go func() {
						if err := metricsServer.Start(ctx); err != nil {
							logger.Error("metrics server error", slog.Any("error", err))
						}
					}()
				}

				workers := int(cmd.Int("workers"))
				if workers <= 0 {
					workers = cfg.RewrapWorkers
				}
				ratePerSec := cmd.Float("rate")
				if ratePerSec <= 0 {
					ratePerSec = cfg.RewrapRatePerSec
				}

				return commands.RunRewrap(ctx, oldCodec, newCodec, logger, io.Reader, io.Writer, workers, ratePerSec)
			},
		},
		{
			Name:  "sanitize",
			Usage: "Redact sensitive values in a JSON document",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:    "file",
					Aliases: []string{"f"},
					Value:   "",
					Usage:   "Input file path (defaults to stdin)",
				},
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				return commands.RunSanitize(commands.DefaultIO(), cmd.String("file"))
			},
		},
	}
}

// newKeyCodec builds a field codec bound to a replacement master key so the
// rewrap command can re-encrypt with it while the container's codec still
// decrypts with the current key.
func newKeyCodec(container *app.Container, encodedKey string) (*recordsService.FieldCodecService, error) {
	key, err := commands.ParseMasterKey(encodedKey)
	if err != nil {
		return nil, fmt.Errorf("invalid new key: %w", err)
	}

	cfg := container.Config()
	encryptor, err := cryptoService.NewEncryptor(
		&cryptoDomain.MasterKey{Key: key},
		cryptoDomain.Algorithm(cfg.EncryptionAlgorithm),
		cfg.KDFIterations,
		container.AEADManager(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create encryptor for new key: %w", err)
	}

	return recordsService.NewFieldCodec(
		encryptor,
		container.PolicyRegistry(),
		container.Logger(),
		cfg.RewrapWorkers,
	), nil
}
