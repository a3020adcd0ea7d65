// Package main is the entrypoint for the phone service. It validates,
// formats and deduplicates Liberian numbers and enforces their uniqueness.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/libmarket/phonecheck/internal/config"
	"github.com/libmarket/phonecheck/internal/server"
)

func main() {
	ctx := context.Background()
	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	return server.Run(ctx, server.Params{
		Name:               "phoned",
		PortFromConfig:     func(cfg *config.Config) int { return cfg.Phoned.HTTPPort },
		GRPCPortFromConfig: func(cfg *config.Config) int { return cfg.Phoned.GRPCPort },
		Setup:              setup,
	}, server.Listeners{})
}
