package selector

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/s0up4200/followsync/batch"
	"github.com/s0up4200/followsync/github"
	"github.com/s0up4200/followsync/reconcile"
)

// Runner connects a Machine to a terminal and the batch processor
type Runner struct {
	in         *bufio.Scanner
	out        io.Writer
	sets       *reconcile.Sets
	processor  *batch.Processor
	exclude    func(github.Account) bool
	confirmAll bool
	logger     zerolog.Logger
}

// RunnerOption configures a Runner
type RunnerOption func(*Runner)

// WithExclusion hides accounts for which excluded returns true
func WithExclusion(excluded func(github.Account) bool) RunnerOption {
	return func(r *Runner) {
		r.exclude = excluded
	}
}

// WithConfirmAll requires a y/N confirmation before acting on every candidate
func WithConfirmAll(confirm bool) RunnerOption {
	return func(r *Runner) {
		r.confirmAll = confirm
	}
}

// NewRunner creates a Runner reading answers from in and writing to out
func NewRunner(in io.Reader, out io.Writer, sets *reconcile.Sets, processor *batch.Processor, logger zerolog.Logger, opts ...RunnerOption) *Runner {
	r := &Runner{
		in:         bufio.NewScanner(in),
		out:        out,
		sets:       sets,
		processor:  processor,
		confirmAll: true,
		logger:     logger,
	}
	for _, opt := range opts {
		opt(r)
	}
	processor.SetProgress(r.printProgress)
	return r
}

// Run drives the session until the user exits, input ends, or every
// candidate has been handled. It returns an error only for failures that
// must stop the process: an authorization failure, a cancelled ctx or an
// unreadable input stream.
func (r *Runner) Run(ctx context.Context) error {
	m := NewMachine(r.candidates(), r.confirmAll)
	if m.State() == StateDone {
		r.printSynced()
		return nil
	}

	for {
		switch m.State() {
		case StateDone:
			if r.candidates().InSync() {
				r.printSynced()
			}
			return nil
		case StateApply:
			if err := r.apply(ctx, m); err != nil {
				return err
			}
			continue
		}

		r.prompt(m)

		text, err := r.readLine(ctx)
		if errors.Is(err, io.EOF) {
			// EOF behaves like exit
			fmt.Fprintln(r.out)
			return nil
		}
		if err != nil {
			return err
		}

		if err := m.Handle(text); err != nil {
			fmt.Fprintf(r.out, "✗ %v\n", err)
		}
		if notice := m.Notice(); notice != "" {
			fmt.Fprintf(r.out, "🛑 %s\n", notice)
		}
	}
}

// apply runs the selected batch and folds the successes into the sets
func (r *Runner) apply(ctx context.Context, m *Machine) error {
	action := m.Action()
	selection := m.Selection()

	fmt.Fprintf(r.out, "\n%s %s %d %s...\n", actionEmoji(action), capitalize(action.String()), len(selection), plural(len(selection), "user", "users"))

	result := r.processor.Apply(ctx, action, selection)
	fmt.Fprint(r.out, FormatResult(result))
	if len(result.Failed) > 0 {
		r.logger.Warn().
			Str("action", action.String()).
			Strs("logins", result.FailedLogins()).
			Msg("Some accounts could not be processed")
	}

	if result.Aborted != nil {
		return result.Aborted
	}

	if !result.DryRun {
		switch action {
		case batch.Unfollow:
			r.sets.Unfollowed(result.Succeeded)
		case batch.Follow:
			r.sets.Followed(result.Succeeded)
		}
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	m.Applied(r.candidates())
	return nil
}

// readLine waits for the next input line. It returns io.EOF when input ends
// and ctx.Err() when ctx is cancelled first.
func (r *Runner) readLine(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	type line struct {
		text string
		ok   bool
	}
	lines := make(chan line, 1)
	go func() {
		ok := r.in.Scan()
		lines <- line{text: r.in.Text(), ok: ok}
	}()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case l := <-lines:
		if l.ok {
			return l.text, nil
		}
		if err := r.in.Err(); err != nil {
			return "", fmt.Errorf("failed to read input: %w", err)
		}
		return "", io.EOF
	}
}

func (r *Runner) printProgress(done, total int, login string, err error) {
	mark := "✓"
	if err != nil {
		mark = "✗"
	}
	fmt.Fprintf(r.out, "  [%*d/%d] %s %s\n", len(strconv.Itoa(total)), done, total, login, mark)
}

// printSynced distinguishes a real sync from one where exclusions hid the rest
func (r *Runner) printSynced() {
	if r.sets.Candidates().InSync() {
		fmt.Fprintln(r.out, "🎉 You and your followers are in perfect sync!")
		return
	}
	fmt.Fprintln(r.out, "🙈 Nothing left to reconcile after exclusions.")
}

func (r *Runner) candidates() reconcile.Result {
	return r.sets.Candidates().Without(r.exclude)
}

func (r *Runner) prompt(m *Machine) {
	switch m.State() {
	case StateMenu:
		fmt.Fprint(r.out, FormatMenu(m.Options()))
		fmt.Fprintf(r.out, "Choose an option [%s]: ", m.Options()[len(m.Options())-1].Key)
	case StateChooseScope:
		fmt.Fprint(r.out, FormatCandidates(m.Candidates(), m.Action()))
		fmt.Fprintf(r.out, "Choose mode: 1) %s all  2) 🎯 Pick by index range  3) Cancel [3]: ", capitalize(m.Action().String()))
	case StateConfirm:
		fmt.Fprintf(r.out, "Are you sure you want to %s ALL %d listed users? %s [y/N]: ", m.Action(), len(m.Candidates()), actionEmoji(m.Action()))
	case StateChooseSubset:
		fmt.Fprintf(r.out, "🎯 Enter indexes to %s (e.g. 1-3,5,8). Press Enter to cancel.\n> ", m.Action())
	}
}
