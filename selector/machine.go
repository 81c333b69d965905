// Package selector drives the interactive follow/unfollow session.
//
// The session is a finite state machine. Machine holds the transition logic
// and never touches the terminal; Runner renders prompts, reads answers and
// runs batches for the apply state.
package selector

import (
	"errors"
	"fmt"
	"strings"

	"github.com/s0up4200/followsync/batch"
	"github.com/s0up4200/followsync/github"
	"github.com/s0up4200/followsync/reconcile"
)

// State is a session state
type State int

const (
	// StateMenu offers the available actions
	StateMenu State = iota
	// StateChooseScope asks whether to act on all candidates or a subset
	StateChooseScope
	// StateConfirm asks for confirmation before acting on all candidates
	StateConfirm
	// StateChooseSubset reads the indexes or logins to act on
	StateChooseSubset
	// StateApply means a batch is ready to run
	StateApply
	// StateDone is terminal
	StateDone
)

// String returns the state name
func (s State) String() string {
	switch s {
	case StateMenu:
		return "menu"
	case StateChooseScope:
		return "choose-scope"
	case StateConfirm:
		return "confirm"
	case StateChooseSubset:
		return "choose-subset"
	case StateApply:
		return "apply"
	case StateDone:
		return "done"
	default:
		return "unknown"
	}
}

// ErrInvalidChoice is returned for input that does not match any choice.
// The machine stays in its current state.
var ErrInvalidChoice = errors.New("invalid choice")

// MenuOption is one entry of the main menu
type MenuOption struct {
	Key    string
	Label  string
	Action batch.Action
	Count  int
	Exit   bool
}

// Machine is the session state machine
type Machine struct {
	state      State
	candidates reconcile.Result
	confirmAll bool

	action    batch.Action
	selection []string
	notice    string
}

// NewMachine starts a session over candidates. A session with nothing to
// reconcile starts in StateDone.
func NewMachine(candidates reconcile.Result, confirmAll bool) *Machine {
	m := &Machine{
		candidates: candidates,
		confirmAll: confirmAll,
	}
	if candidates.InSync() {
		m.state = StateDone
	}
	return m
}

// State returns the current state
func (m *Machine) State() State {
	return m.state
}

// Action returns the action chosen in the menu
func (m *Machine) Action() batch.Action {
	return m.action
}

// Selection returns the logins to apply the action to. Only meaningful in
// StateApply.
func (m *Machine) Selection() []string {
	return m.selection
}

// Notice returns feedback about the last transition, such as a cancelled
// selection. It is cleared by the next Handle call.
func (m *Machine) Notice() string {
	return m.notice
}

// Candidates returns the candidate list for the chosen action
func (m *Machine) Candidates() []github.Account {
	if m.action == batch.Follow {
		return m.candidates.NotFollowedByMe
	}
	return m.candidates.NotFollowingBack
}

// Options lists the menu entries. Actions without candidates are omitted;
// exit is always last.
func (m *Machine) Options() []MenuOption {
	var opts []MenuOption
	if n := len(m.candidates.NotFollowingBack); n > 0 {
		opts = append(opts, MenuOption{
			Label:  "Show and optionally unfollow users who don't follow you back",
			Action: batch.Unfollow,
			Count:  n,
		})
	}
	if n := len(m.candidates.NotFollowedByMe); n > 0 {
		opts = append(opts, MenuOption{
			Label:  "Show and optionally follow users you don't follow back",
			Action: batch.Follow,
			Count:  n,
		})
	}
	opts = append(opts, MenuOption{Label: "Exit", Exit: true})

	for i := range opts {
		opts[i].Key = fmt.Sprint(i + 1)
	}
	return opts
}

// Handle feeds one line of user input to the machine
func (m *Machine) Handle(input string) error {
	m.notice = ""
	input = strings.TrimSpace(input)

	switch m.state {
	case StateMenu:
		return m.handleMenu(input)
	case StateChooseScope:
		return m.handleScope(input)
	case StateConfirm:
		m.handleConfirm(input)
		return nil
	case StateChooseSubset:
		m.handleSubset(input)
		return nil
	default:
		return fmt.Errorf("no input expected in state %s", m.state)
	}
}

// Applied finishes StateApply with the recomputed candidates
func (m *Machine) Applied(candidates reconcile.Result) {
	m.candidates = candidates
	m.selection = nil
	if candidates.InSync() {
		m.state = StateDone
		return
	}
	m.state = StateMenu
}

func (m *Machine) handleMenu(input string) error {
	opts := m.Options()
	if input == "" {
		input = opts[len(opts)-1].Key
	}

	for _, opt := range opts {
		if opt.Key != input {
			continue
		}
		if opt.Exit {
			m.state = StateDone
			return nil
		}
		m.action = opt.Action
		m.state = StateChooseScope
		return nil
	}

	return fmt.Errorf("%w %q: choose 1-%d", ErrInvalidChoice, input, len(opts))
}

func (m *Machine) handleScope(input string) error {
	switch strings.ToLower(input) {
	case "1", "all":
		if m.confirmAll {
			m.state = StateConfirm
			return nil
		}
		m.selection = github.Logins(m.Candidates())
		m.state = StateApply
	case "2", "pick":
		m.state = StateChooseSubset
	case "", "3", "cancel":
		m.notice = "Cancelled."
		m.state = StateMenu
	default:
		return fmt.Errorf("%w %q: choose 1, 2 or 3", ErrInvalidChoice, input)
	}
	return nil
}

func (m *Machine) handleConfirm(input string) {
	switch strings.ToLower(input) {
	case "y", "yes":
		m.selection = github.Logins(m.Candidates())
		m.state = StateApply
	default:
		m.notice = "Cancelled."
		m.state = StateMenu
	}
}

func (m *Machine) handleSubset(input string) {
	if input == "" {
		m.notice = "No selection."
		m.state = StateMenu
		return
	}

	selected := ParseSelection(input, m.Candidates())
	if len(selected) == 0 {
		m.notice = "No valid indexes selected."
		m.state = StateMenu
		return
	}

	m.selection = selected
	m.state = StateApply
}
