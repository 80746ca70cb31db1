package main

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/nao1215/edureport/internal/config"
)

//go:embed templates/env.example
var envTemplate embed.FS

const envTemplatePath = "templates/env.example"

// NewInitCmd creates the init command.
func NewInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a .env file for the portal credentials",
		Long: `Init writes a .env template with the USERNAME, PASSWORD and SUBDOMAINS
variables edureport needs. The file is created with owner-only permissions.

Examples:
  # Create .env in the current directory
  edureport init

  # Create it where edureport looks for it from any directory
  edureport init --xdg

  # Force overwrite an existing file
  edureport init -f`,
		Args: cobra.NoArgs,
		RunE: runInitCmd,
	}

	cmd.Flags().StringP("output", "o", config.DefaultEnvFile,
		"Output file path for the .env file")
	cmd.Flags().Bool("xdg", false,
		"Write to the XDG config directory (e.g. ~/.config/edureport/.env)")
	cmd.Flags().BoolP("force", "f", false,
		"Overwrite an existing file")

	return cmd
}

// runInitCmd executes the init command.
func runInitCmd(cmd *cobra.Command, _ []string) error {
	outputPath, err := cmd.Flags().GetString("output")
	if err != nil {
		return err
	}

	useXDG, err := cmd.Flags().GetBool("xdg")
	if err != nil {
		return err
	}
	if useXDG {
		outputPath = filepath.Join(config.XDGConfigDir(), config.DefaultEnvFile)
	}

	force, err := cmd.Flags().GetBool("force")
	if err != nil {
		return err
	}

	if !force {
		if _, err := os.Stat(outputPath); err == nil {
			return fmt.Errorf("env file already exists: %s (use -f to overwrite)", outputPath)
		}
	}

	content, err := envTemplate.ReadFile(envTemplatePath)
	if err != nil {
		return fmt.Errorf("failed to read env template: %w", err)
	}

	dir := filepath.Dir(outputPath)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0700); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	// The file holds a password.
	if err := os.WriteFile(outputPath, content, 0600); err != nil {
		return fmt.Errorf("failed to write env file: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Created env file: %s\n", outputPath)
	fmt.Fprintln(out, "\nFill in USERNAME, PASSWORD and SUBDOMAINS, then run 'edureport'.")

	return nil
}
