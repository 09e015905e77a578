package main

import (
	"context"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/allisson/phicrypt/cmd/app/commands"
	"github.com/allisson/phicrypt/internal/app"
)

func getKeyCommands() []*cli.Command {
	return []*cli.Command{
		{
			Name:  "generate-key",
			Usage: "Generate a new master key for envelope encryption",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:  "kms-provider",
					Value: "",
					Usage: "KMS provider to wrap the key with (gcpkms, awskms, azurekeyvault, hashivault, localsecrets)",
				},
				&cli.StringFlag{
					Name:  "kms-key-uri",
					Value: "",
					Usage: "KMS key URI (e.g., gcpkms://projects/.../cryptoKeys/...)",
				},
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg, err := loadConfig()
				if err != nil {
					return err
				}
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				return commands.RunGenerateKey(
					ctx,
					container.KMSService(),
					commands.DefaultIO().Writer,
					cmd.String("kms-provider"),
					cmd.String("kms-key-uri"),
				)
			},
		},
		{
			Name:  "validate-key",
			Usage: "Check a master key against the strength thresholds",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:    "key",
					Aliases: []string{"k"},
					Value:   "",
					Usage:   "Base64 key to validate (defaults to MASTER_KEY)",
				},
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg, err := loadConfig()
				if err != nil {
					return err
				}
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				key := cmd.String("key")
				if key == "" {
					key = os.Getenv("MASTER_KEY")
				}

				return commands.RunValidateKey(container.KeyManager(), commands.DefaultIO().Writer, key)
			},
		},
		{
			Name:  "rotate-key",
			Usage: "Generate a replacement master key and print the rotation runbook",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:  "kms-provider",
					Value: "",
					Usage: "KMS provider to wrap the new key with",
				},
				&cli.StringFlag{
					Name:  "kms-key-uri",
					Value: "",
					Usage: "KMS key URI for wrapping the new key",
				},
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg, err := loadConfig()
				if err != nil {
					return err
				}
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				return commands.RunRotateKey(
					ctx,
					container.KeyManager(),
					container.KMSService(),
					commands.DefaultIO().Writer,
					os.Getenv("MASTER_KEY"),
					cmd.String("kms-provider"),
					cmd.String("kms-key-uri"),
				)
			},
		},
	}
}
