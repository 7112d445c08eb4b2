package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hickst/qmtools/internal/fetcher"
)

// NewHealthCmd creates the health command.
func NewHealthCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check that the MRIQC Web API is reachable",
		Long: `Health sends a one-record query to the MRIQC Web API and reports the HTTP
status and the number of BOLD records the server holds.

The command exits with status 69 when the server reports that it is
temporarily unavailable (HTTP 503).

Examples:
  qmtools health
  qmtools health --server http://localhost:5000/api/v1`,
		Args: cobra.NoArgs,
		RunE: runHealthCmd,
	}
}

// runHealthCmd executes the health command.
func runHealthCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger := setupLogger(cmd, cfg)

	ctx, cancel := signalContext(cmd)
	defer cancel()

	client, err := newClient(cfg, nil, logger)
	if err != nil {
		return err
	}

	status, err := client.Health(ctx)
	if err != nil {
		if errors.Is(err, fetcher.ErrServiceUnavailable) {
			return fmt.Errorf("%s is temporarily unavailable, try again later: %w", cfg.ServerURL, err)
		}
		return fmt.Errorf("health check of %s failed: %w", cfg.ServerURL, err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s is up (HTTP %d), %d bold records available\n",
		cfg.ServerURL, status.StatusCode, status.Total)
	return nil
}
