package cmd

import (
	"errors"
	"fmt"
	"io"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/s0up4200/followsync/github"
	"github.com/s0up4200/followsync/reconcile"
	"github.com/s0up4200/followsync/selector"
)

// runSync fetches both collections and hands them to the interactive session
func (a *app) runSync(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	renderIntro(out)

	if a.cfg.Safety.DryRun {
		fmt.Fprintln(out, "[DRY RUN] No accounts will be followed or unfollowed.")
	}

	// Pre-flight check
	me, err := a.client.CurrentUser(ctx)
	switch {
	case err == nil:
		fmt.Fprintf(out, "🔐 Authenticated as %s\n\n", me.Login)
	case errors.Is(err, github.ErrUnauthorized):
		return err
	default:
		a.logger.Warn().Err(err).Msg("GitHub pre-flight check failed, continuing")
	}

	fmt.Fprintln(out, "📥 Fetching from GitHub...")

	following, err := a.client.Following(ctx)
	if err != nil {
		return err
	}
	followers, err := a.client.Followers(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "✅ Fetched %s following and %s followers\n",
		humanize.Comma(int64(len(following))), humanize.Comma(int64(len(followers))))
	a.logger.Debug().
		Int("following", len(following)).
		Int("followers", len(followers)).
		Msg("Fetched follow graph")

	sets := reconcile.NewSets(following, followers)

	runner := selector.NewRunner(cmd.InOrStdin(), out, sets, a.processor, a.logger,
		selector.WithExclusion(a.exclusion.Predicate(a.logger)),
		selector.WithConfirmAll(a.cfg.Safety.ConfirmAll),
	)

	return runner.Run(ctx)
}

func renderIntro(out io.Writer) {
	fmt.Fprintln(out, "🔄 GitHub Follow Sync")
	fmt.Fprintln(out, "🧹 Unfollow non-followers, 🤝 follow back your supporters")
	fmt.Fprintln(out)
}
