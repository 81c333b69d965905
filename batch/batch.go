// Package batch applies a follow or unfollow action to a list of logins,
// one call at a time, and reports which calls succeeded.
package batch

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/s0up4200/followsync/github"
)

// Action is a follow-graph mutation
type Action int

const (
	// Unfollow removes a following relationship (DELETE)
	Unfollow Action = iota
	// Follow creates a following relationship (PUT)
	Follow
)

// String returns the imperative form used in prompts
func (a Action) String() string {
	switch a {
	case Follow:
		return "follow"
	case Unfollow:
		return "unfollow"
	default:
		return "unknown"
	}
}

// PastTense returns the label used in summaries
func (a Action) PastTense() string {
	switch a {
	case Follow:
		return "Followed"
	case Unfollow:
		return "Unfollowed"
	default:
		return "Processed"
	}
}

// Mutator performs single follow-graph mutations
type Mutator interface {
	Follow(ctx context.Context, login string) error
	Unfollow(ctx context.Context, login string) error
}

// Result contains the results of a batch operation
type Result struct {
	Action    Action
	Requested int
	Succeeded []string
	Failed    []ItemError
	DryRun    bool
	// Aborted is set when an authorization failure stopped the batch
	Aborted error
}

// FailedLogins returns the logins of every failed item
func (r Result) FailedLogins() []string {
	logins := make([]string, 0, len(r.Failed))
	for _, f := range r.Failed {
		logins = append(logins, f.Login)
	}
	return logins
}

// ItemError contains information about a failed mutation
type ItemError struct {
	Login string
	Err   error
}

// Error implements the error interface
func (e ItemError) Error() string {
	return fmt.Sprintf("failed to process %s: %v", e.Login, e.Err)
}

// Unwrap returns the underlying error
func (e ItemError) Unwrap() error {
	return e.Err
}

// ProgressFunc is called after each item with its 1-based position
type ProgressFunc func(done, total int, login string, err error)

// Processor runs batches against a Mutator
type Processor struct {
	mutator  Mutator
	logger   zerolog.Logger
	dryRun   bool
	progress ProgressFunc
}

// NewProcessor creates a new Processor
func NewProcessor(mutator Mutator, logger zerolog.Logger) *Processor {
	return &Processor{
		mutator: mutator,
		logger:  logger,
	}
}

// SetDryRun makes Apply report every item as planned without calling the API
func (p *Processor) SetDryRun(dryRun bool) {
	p.dryRun = dryRun
}

// SetProgress registers a per-item callback
func (p *Processor) SetProgress(fn ProgressFunc) {
	p.progress = fn
}

// Apply runs action for each login in order. Item failures are collected and
// do not stop the batch. A 401 or a cancelled ctx stops it and marks the
// remaining items failed.
func (p *Processor) Apply(ctx context.Context, action Action, logins []string) Result {
	result := Result{
		Action:    action,
		Requested: len(logins),
		Succeeded: make([]string, 0, len(logins)),
		DryRun:    p.dryRun,
	}

	if p.dryRun {
		p.logger.Info().Msg("DRY RUN MODE - No accounts will be changed")
		for i, login := range logins {
			p.logger.Info().Str("login", login).Str("action", action.String()).Msg("Would apply")
			result.Succeeded = append(result.Succeeded, login)
			p.report(i+1, len(logins), login, nil)
		}
		return result
	}

	for i, login := range logins {
		err := result.Aborted
		if err == nil {
			err = ctx.Err()
		}
		if err == nil {
			err = p.apply(ctx, action, login)
			if errors.Is(err, github.ErrUnauthorized) {
				result.Aborted = err
			}
		}

		if err != nil {
			result.Failed = append(result.Failed, ItemError{Login: login, Err: err})
			p.logger.Debug().Err(err).Str("login", login).Str("action", action.String()).Msg("Mutation failed")
		} else {
			result.Succeeded = append(result.Succeeded, login)
		}
		p.report(i+1, len(logins), login, err)
	}

	p.logger.Info().
		Str("action", action.String()).
		Int("succeeded", len(result.Succeeded)).
		Int("failed", len(result.Failed)).
		Msg("Batch complete")

	return result
}

func (p *Processor) apply(ctx context.Context, action Action, login string) error {
	switch action {
	case Follow:
		return p.mutator.Follow(ctx, login)
	case Unfollow:
		return p.mutator.Unfollow(ctx, login)
	default:
		return fmt.Errorf("unsupported action %d", action)
	}
}

func (p *Processor) report(done, total int, login string, err error) {
	if p.progress != nil {
		p.progress(done, total, login, err)
	}
}
