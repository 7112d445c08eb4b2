package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for qmtools.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "qmtools",
		Short: "Tools for MRIQC image quality metrics",
		Long: `qmtools works with image quality metrics (IQMs) produced by MRIQC.

It fetches IQM records from the MRIQC Web API, turns MRIQC group files into
colour-coded traffic-light reports, and compares fetched records with a
local group.

Settings are read from a .qmtools YAML file in the current directory, the
XDG config directory or the home directory. Use 'qmtools init' to create one.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")
	cmd.PersistentFlags().StringP("config", "c", "",
		"Configuration file path (default: .qmtools in current, XDG config or home directory)")
	cmd.PersistentFlags().StringP("server", "s", "",
		"MRIQC API base URL (overrides the configuration file)")
	cmd.PersistentFlags().Bool("log-json", false, "Write log messages to stderr as JSON")

	cmd.AddCommand(NewFetchCmd())
	cmd.AddCommand(NewHealthCmd())
	cmd.AddCommand(NewTrafficCmd())
	cmd.AddCommand(NewCompareCmd())
	cmd.AddCommand(NewHistoryCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command and exits with the code matching the error.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(exitCode(err))
	}
}
