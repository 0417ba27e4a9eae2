// Package cmd provides command-line interface commands for Golden Ticket.
package cmd

import (
	"encoding/json"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// CLI output formatters
var (
	successColor = color.New(color.FgGreen, color.Bold)
	errorColor   = color.New(color.FgRed, color.Bold)
	warningColor = color.New(color.FgYellow)
	infoColor    = color.New(color.FgCyan)
	headerColor  = color.New(color.FgBlue, color.Bold)
)

// Global flags
var (
	configFile string
	noColor    bool
)

// NewRootCmd creates the goldenticket command. Without a subcommand it serves.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "goldenticket",
		Short: "Golden Ticket school lottery API",
		Long: `Golden Ticket serves the school lottery application API.

On startup the database schema is migrated to the newest version. In the
Development environment empty tables are seeded with sample schools.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if noColor {
				color.NoColor = true
			}
		},
		RunE: runServe,
	}

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Config file path (default: appsettings.yaml in . or ./config)")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")

	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newMigrateCmd())

	return rootCmd
}

// Execute runs the root command against os.Args
func Execute() error {
	return NewRootCmd().Execute()
}

// outputAsJSON writes data as indented JSON
func outputAsJSON(w io.Writer, data interface{}) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}
