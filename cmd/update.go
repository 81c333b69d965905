package cmd

import (
	"context"
	"fmt"

	"github.com/blang/semver"
	"github.com/creativeprojects/go-selfupdate"
	"github.com/spf13/cobra"

	"github.com/s0up4200/followsync/config"
)

const repositorySlug = "s0up4200/followsync"

func newUpdateCmd(a *app) *cobra.Command {
	var checkOnly bool

	updateCmd := &cobra.Command{
		Use:   "update",
		Short: "Update followsync to the latest release",
		Long: `Check GitHub releases for a newer followsync and replace the running
binary with it. Development builds cannot be updated.`,
		Args: cobra.NoArgs,
		PreRun: func(cmd *cobra.Command, args []string) {
			a.logger = setupLogger(config.LoggingConfig{Level: "info", Format: "console", Color: true}, cmd.ErrOrStderr())
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runUpdate(cmd.Context(), cmd, checkOnly)
		},
	}

	updateCmd.Flags().BoolVar(&checkOnly, "check", false, "only report whether an update is available")

	return updateCmd
}

func (a *app) runUpdate(ctx context.Context, cmd *cobra.Command, checkOnly bool) error {
	out := cmd.OutOrStdout()

	current, err := semver.ParseTolerant(version)
	if err != nil {
		return fmt.Errorf("cannot update a development build (version %q)", version)
	}

	latest, found, err := selfupdate.DetectLatest(ctx, selfupdate.ParseSlug(repositorySlug))
	if err != nil {
		return fmt.Errorf("failed to detect latest release: %w", err)
	}
	if !found {
		fmt.Fprintln(out, "No release found for this platform.")
		return nil
	}

	if latest.LessOrEqual(current.String()) {
		fmt.Fprintf(out, "✓ followsync %s is up to date\n", current)
		return nil
	}

	if checkOnly {
		fmt.Fprintf(out, "Update available: %s → %s\n", current, latest.Version())
		return nil
	}

	exe, err := selfupdate.ExecutablePath()
	if err != nil {
		return fmt.Errorf("failed to locate executable: %w", err)
	}

	a.logger.Info().
		Str("from", current.String()).
		Str("to", latest.Version()).
		Str("asset", latest.AssetName).
		Msg("Updating")

	if err := selfupdate.UpdateTo(ctx, latest.AssetURL, latest.AssetName, exe); err != nil {
		return fmt.Errorf("failed to update binary: %w", err)
	}

	fmt.Fprintf(out, "✓ Updated to %s\n", latest.Version())
	return nil
}
