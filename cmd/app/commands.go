package main

import (
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/allisson/phicrypt/internal/config"
)

func getCommands() []*cli.Command {
	cmds := []*cli.Command{}
	cmds = append(cmds, getKeyCommands()...)
	cmds = append(cmds, getRecordCommands()...)
	return cmds
}

// loadConfig loads and validates the configuration. Commands refuse to run
// on an invalid configuration instead of failing later inside the container.
func loadConfig() (*config.Config, error) {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}
