package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/nao1215/edureport/internal/config"
)

// NewRootCmd creates the root command for edureport.
// Running it without a subcommand prints the report.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "edureport",
		Short: "Daily EduPage overview for parents and students",
		Long: `edureport logs in to EduPage school portals and prints the timetable,
the most recent grades and the latest notices. For a parent account every
child is reported in turn.

Credentials are read from USERNAME, PASSWORD and SUBDOMAINS. They are
loaded from a .env file (current directory, then ~/.config/edureport,
then the home directory) which overrides the process environment.

Examples:
  # Today's report (weekends show Monday's timetable)
  edureport

  # Report for a specific day
  edureport --date 23.02.2026

  # Ordered lunch for a day
  edureport --lunch --date 23.02.2026

  # Markdown output with English labels
  edureport --format markdown --lang en`,
		Version:       getVersion(),
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runReportCmd,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	cmd.Flags().StringP("date", "d", "",
		"Report date in DD.MM.YYYY format (default: today, Monday on weekends)")
	cmd.Flags().BoolP("lunch", "l", false,
		"Show only the ordered lunch (requires --date)")
	cmd.Flags().StringP("env-file", "e", "",
		"Path to the .env file (default: search .env in the usual locations)")
	cmd.Flags().StringP("format", "f", config.DefaultFormat,
		"Output format: text or markdown")
	cmd.Flags().String("lang", config.DefaultLanguage,
		"Label language: sk or en")
	cmd.Flags().DurationP("timeout", "t", config.DefaultTimeout,
		"Timeout for each portal request")
	cmd.Flags().String("proxy", "",
		"Proxy URL for portal traffic (http://, https://, socks5://)")
	cmd.Flags().Bool("ask-password", false,
		"Prompt for the password when PASSWORD is not set")

	// Add subcommands
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
