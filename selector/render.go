package selector

import (
	"errors"
	"fmt"
	"strings"

	"github.com/s0up4200/followsync/batch"
	"github.com/s0up4200/followsync/github"
)

const tableWidth = 80

// FormatMenu renders the main menu
func FormatMenu(opts []MenuOption) string {
	var sb strings.Builder

	sb.WriteString("\n📋 Menu\n")
	sb.WriteString(strings.Repeat("━", tableWidth))
	sb.WriteString("\n")

	for _, opt := range opts {
		if opt.Exit {
			fmt.Fprintf(&sb, "%s) 🚪 %s\n", opt.Key, opt.Label)
			continue
		}
		fmt.Fprintf(&sb, "%s) %s %s [%d]\n", opt.Key, actionEmoji(opt.Action), opt.Label, opt.Count)
	}

	return sb.String()
}

// FormatCandidates renders the numbered candidate table for an action
func FormatCandidates(accounts []github.Account, action batch.Action) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "\n%s %s candidates (%d)\n\n", actionEmoji(action), capitalize(action.String()), len(accounts))
	sb.WriteString(strings.Repeat("━", tableWidth))
	sb.WriteString("\n")
	fmt.Fprintf(&sb, "%-4s %-39s %s\n", "#", "USERNAME", "PROFILE")
	sb.WriteString(strings.Repeat("━", tableWidth))
	sb.WriteString("\n")

	for i, account := range accounts {
		login := account.Login
		if len(login) > 39 {
			login = login[:36] + "..."
		}
		fmt.Fprintf(&sb, "%-4d %-39s %s\n", i+1, login, account.ProfileURL())
	}

	sb.WriteString(strings.Repeat("━", tableWidth))
	sb.WriteString("\n")
	return sb.String()
}

// FormatResult renders the summary line of a batch, listing failures
func FormatResult(result batch.Result) string {
	var sb strings.Builder

	if result.DryRun {
		fmt.Fprintf(&sb, "[DRY RUN] Would have %s %d %s\n",
			strings.ToLower(result.Action.PastTense()), len(result.Succeeded), plural(len(result.Succeeded), "user", "users"))
		return sb.String()
	}

	fmt.Fprintf(&sb, "✅ %s %d • ❌ failed %d\n", result.Action.PastTense(), len(result.Succeeded), len(result.Failed))
	rateLimited := false
	for _, failure := range result.Failed {
		note := ""
		var apiErr *github.APIError
		if errors.As(failure.Err, &apiErr) {
			switch {
			case apiErr.IsNotFound():
				note = " (account not found)"
			case apiErr.IsRateLimited():
				rateLimited = true
			}
		}
		fmt.Fprintf(&sb, "   ✗ %s: %v%s\n", failure.Login, failure.Err, note)
	}
	if rateLimited {
		sb.WriteString("⏳ GitHub may be rate limiting you. Wait for the limit to reset, then retry the failed users.\n")
	}

	return sb.String()
}

func actionEmoji(action batch.Action) string {
	if action == batch.Follow {
		return "➕"
	}
	return "🚫"
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
