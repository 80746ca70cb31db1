package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/nao1215/edureport/internal/config"
	"github.com/nao1215/edureport/internal/edupage"
	edulog "github.com/nao1215/edureport/internal/log"
	"github.com/nao1215/edureport/internal/model"
	"github.com/nao1215/edureport/internal/pipeline"
	"github.com/nao1215/edureport/internal/report"
)

// runReportCmd executes the root command.
func runReportCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := buildConfig(cmd, os.Getenv)
	if err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	if cfg.AskPassword && cfg.Credentials.Password == "" {
		password, err := promptPassword(cmd.ErrOrStderr(), cfg.Credentials.Username)
		if err != nil {
			return fmt.Errorf("configuration error: %w", err)
		}
		cfg.Credentials.Password = password
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logger := edulog.NewSecureLogger(cmd.ErrOrStderr(), cfg.Verbose)
	slog.SetDefault(logger)

	// Cancel the run on Ctrl-C; the active dependent is still switched back.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return runReport(ctx, cfg, newConnector(cfg, logger), cmd.OutOrStdout(), logger)
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// buildConfig creates a Config from the .env file, the environment and
// the command flags. lookup is usually os.Getenv.
func buildConfig(cmd *cobra.Command, lookup func(string) string) (*config.Config, error) {
	cfg := config.NewConfig()

	var err error

	cfg.EnvFile, err = cmd.Flags().GetString("env-file")
	if err != nil {
		return nil, err
	}

	// An explicit --env-file must exist; otherwise a missing file is fine.
	if _, err := config.LoadEnvFile(cfg.EnvFile); err != nil {
		return nil, err
	}
	cfg.LoadFromEnv(lookup)

	dateValue, err := cmd.Flags().GetString("date")
	if err != nil {
		return nil, err
	}
	if dateValue != "" {
		cfg.Date, err = config.ParseDate(dateValue)
		if err != nil {
			return nil, err
		}
	}

	cfg.LunchOnly, err = cmd.Flags().GetBool("lunch")
	if err != nil {
		return nil, err
	}

	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return nil, err
	}
	cfg.Format = strings.ToLower(strings.TrimSpace(format))

	cfg.Language, err = cmd.Flags().GetString("lang")
	if err != nil {
		return nil, err
	}

	cfg.Timeout, err = cmd.Flags().GetDuration("timeout")
	if err != nil {
		return nil, err
	}

	cfg.ProxyURL, err = cmd.Flags().GetString("proxy")
	if err != nil {
		return nil, err
	}

	cfg.AskPassword, err = cmd.Flags().GetBool("ask-password")
	if err != nil {
		return nil, err
	}

	cfg.Verbose = getVerboseFlag(cmd)

	return cfg, nil
}

// promptPassword reads the password without echo. It refuses to prompt
// when stdin is not a terminal, so scripted runs fail fast.
func promptPassword(w io.Writer, username string) (string, error) {
	fd := int(os.Stdin.Fd()) //nolint:gosec // file descriptors fit in int
	if !term.IsTerminal(fd) {
		return "", config.ErrMissingCredentials
	}

	fmt.Fprintf(w, "EduPage password for %s: ", username)
	password, err := term.ReadPassword(fd)
	fmt.Fprintln(w)
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	return string(password), nil
}

// newConnector logs in to a subdomain with the configured transport settings.
func newConnector(cfg *config.Config, logger *slog.Logger) pipeline.Connector {
	return func(ctx context.Context, subdomain string) (pipeline.Portal, error) {
		client, err := edupage.Login(ctx, cfg.Credentials, subdomain,
			edupage.WithProxy(cfg.ProxyURL),
			edupage.WithUserAgent(cfg.UserAgent),
			edupage.WithLanguage(cfg.Language),
			edupage.WithTimeout(cfg.Timeout),
			edupage.WithMaxBodySize(cfg.MaxBodySize),
			edupage.WithLogger(logger),
		)
		if err != nil {
			return nil, err
		}
		return client, nil
	}
}

// runReport processes every school in order and streams each school's
// report to out as soon as it is complete. Per-school and per-child
// failures are part of the report; only cancellation and write errors
// are returned.
func runReport(ctx context.Context, cfg *config.Config, connect pipeline.Connector, out io.Writer, logger *slog.Logger) error {
	writer, err := report.NewWriter(cfg.Format, out, report.LabelsFor(cfg.Language))
	if err != nil {
		return err
	}

	plan := pipeline.Plan{
		Date:      cfg.Date,
		LunchOnly: cfg.LunchOnly,
	}
	runner := pipeline.NewRunner(connect,
		pipeline.NewPipelineFactory(plan, logger),
		pipeline.WithRunnerLogger(logger),
	)

	var writeErr error
	err = runner.RunWithCallback(ctx, cfg.Targets, func(school *model.SchoolReport, index int) {
		if writeErr != nil {
			return
		}
		if index > 0 {
			if _, writeErr = fmt.Fprintln(out); writeErr != nil {
				return
			}
		}
		if _, err := writer.Write(school); err != nil {
			writeErr = fmt.Errorf("failed to write report for %s: %w", school.Subdomain, err)
		}
	})
	if err != nil {
		return err
	}
	return writeErr
}
