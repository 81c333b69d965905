package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/s0up4200/followsync/batch"
	"github.com/s0up4200/followsync/config"
	"github.com/s0up4200/followsync/filter"
	"github.com/s0up4200/followsync/github"
)

var (
	version   = "dev"
	buildTime = "unknown"
)

// SetVersion records build metadata injected by main
func SetVersion(v, bt string) {
	version = v
	buildTime = bt
}

// app is the state shared by one command invocation
type app struct {
	cfgFile string
	dryRun  bool

	cfg       *config.Config
	logger    zerolog.Logger
	client    *github.Client
	processor *batch.Processor
	exclusion *filter.Exclusion
}

// Execute runs the root command and exits non-zero on failure
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := execute(ctx, newRootCmd(), os.Stderr)
	stop()
	os.Exit(code)
}

// execute runs rootCmd under ctx and maps the outcome to an exit code. An
// interrupt lets a running batch finish its summary and still exits 0.
func execute(ctx context.Context, rootCmd *cobra.Command, stderr io.Writer) int {
	err := rootCmd.ExecuteContext(ctx)
	if ctx.Err() != nil {
		fmt.Fprintln(stderr, "\nInterrupted.")
		return 0
	}
	if err != nil {
		fmt.Fprintf(stderr, "❌ %s\n", describeError(err))
		return 1
	}
	return 0
}

// newRootCmd builds the command tree around a fresh app
func newRootCmd() *cobra.Command {
	a := &app{logger: zerolog.Nop()}

	rootCmd := &cobra.Command{
		Use:   "followsync",
		Short: "Reconcile who you follow on GitHub with who follows you",
		Long: `followsync compares the accounts you follow on GitHub with the accounts
following you, then lets you unfollow users who don't follow you back and
follow back your followers, either all at once or by picking from a list.

The token is read from TOKEN (or GITHUB_TOKEN), a .env file in the current
directory, or github.token in the config file.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		PreRunE:       a.initialize,
		RunE:          a.runSync,
	}

	rootCmd.SetVersionTemplate(fmt.Sprintf("followsync %s (built %s)\n", version, buildTime))
	rootCmd.PersistentFlags().StringVar(&a.cfgFile, "config", "", "config file (default is ./config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&a.dryRun, "dry-run", "d", false, "show what would change without following or unfollowing")

	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newUpdateCmd(a))

	return rootCmd
}

// initialize loads the configuration and builds the API client
func (a *app) initialize(cmd *cobra.Command, args []string) error {
	// Load configuration
	var err error
	a.cfg, err = config.Load(a.cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Setup logger
	a.logger = setupLogger(a.cfg.Logging, os.Stderr)

	// Override dry-run from command line if specified
	if cmd.Flags().Changed("dry-run") {
		a.cfg.Safety.DryRun = a.dryRun
	}

	a.client, err = github.NewClient(a.cfg.GitHub.Token, a.logger,
		github.WithBaseURL(a.cfg.GitHub.APIURL),
		github.WithAPIVersion(a.cfg.GitHub.APIVersion),
		github.WithPageSize(a.cfg.GitHub.PerPage),
		github.WithTimeout(a.cfg.GitHub.Timeout),
		github.WithUserAgent("followsync/"+version),
	)
	if err != nil {
		return fmt.Errorf("failed to create GitHub client: %w", err)
	}

	a.processor = batch.NewProcessor(a.client, a.logger)
	a.processor.SetDryRun(a.cfg.Safety.DryRun)

	a.exclusion, err = filter.Compile(a.cfg.Sync.Exclude)
	if err != nil {
		return fmt.Errorf("invalid sync.exclude: %w", err)
	}
	if a.exclusion != nil {
		a.logger.Info().Str("expression", a.exclusion.String()).Msg("Exclusion filter enabled")
	}

	return nil
}

// setupLogger configures the zerolog logger
func setupLogger(cfg config.LoggingConfig, out io.Writer) zerolog.Logger {
	// Set log level
	level := zerolog.InfoLevel
	switch strings.ToLower(cfg.Level) {
	case "debug":
		level = zerolog.DebugLevel
	case "warn":
		level = zerolog.WarnLevel
	case "error":
		level = zerolog.ErrorLevel
	}

	// Configure output format
	if cfg.Format == "json" {
		return zerolog.New(out).Level(level).With().Timestamp().Logger()
	}

	// Console format
	output := zerolog.ConsoleWriter{
		Out:        out,
		TimeFormat: time.RFC3339,
		NoColor:    !cfg.Color || !isTerminal(out),
	}

	return zerolog.New(output).Level(level).With().Timestamp().Logger()
}

// isTerminal reports whether w is an interactive terminal
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// describeError turns the fatal error classes into user-facing messages
func describeError(err error) string {
	var apiErr *github.APIError
	switch {
	case errors.Is(err, config.ErrMissingToken):
		return config.ErrMissingToken.Error()
	case errors.Is(err, github.ErrUnauthorized):
		return "Invalid token or insufficient scopes."
	case errors.As(err, &apiErr):
		return fmt.Sprintf("GitHub API error %d: %s", apiErr.StatusCode, strings.TrimSpace(apiErr.Body))
	default:
		return err.Error()
	}
}
