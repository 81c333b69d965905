// Package filter compiles exclusion expressions that hide accounts from the
// follow/unfollow candidate lists.
//
// Expressions use the expr language and must evaluate to a boolean. The
// environment exposes the account fields Login, ID, Type, SiteAdmin and
// HTMLURL plus a few helpers:
//
//	Login in ["torvalds", "gvanrossum"]
//	isOrg() or isBot()
//	lower(Login) startsWith "bot-" or Login matches "^ci-"
package filter

import (
	"strings"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	"github.com/rs/zerolog"

	"github.com/s0up4200/followsync/github"
)

// Exclusion is a compiled exclusion expression
type Exclusion struct {
	expression string
	program    *vm.Program
}

// Compile compiles an exclusion expression. An empty expression yields a nil
// Exclusion, which excludes nothing.
func Compile(expression string) (*Exclusion, error) {
	expression = strings.TrimSpace(expression)
	if expression == "" {
		return nil, nil
	}

	program, err := expr.Compile(expression,
		expr.Env(newEnvironment(github.Account{})),
		expr.AsBool(),
	)
	if err != nil {
		return nil, &CompilationError{
			Expression: expression,
			Reason:     "failed to compile expression",
			Err:        err,
		}
	}

	return &Exclusion{
		expression: expression,
		program:    program,
	}, nil
}

// String returns the source expression
func (e *Exclusion) String() string {
	if e == nil {
		return ""
	}
	return e.expression
}

// Match reports whether account is excluded
func (e *Exclusion) Match(account github.Account) (bool, error) {
	if e == nil {
		return false, nil
	}

	result, err := expr.Run(e.program, newEnvironment(account))
	if err != nil {
		return false, &EvaluationError{
			Expression: e.expression,
			Login:      account.Login,
			Err:        err,
		}
	}

	// AsBool at compile time guarantees the type
	return result.(bool), nil
}

// Predicate adapts Match for reconcile.Result.Without. Accounts that fail to
// evaluate stay visible and the error is logged.
func (e *Exclusion) Predicate(logger zerolog.Logger) func(github.Account) bool {
	if e == nil {
		return nil
	}
	return func(account github.Account) bool {
		excluded, err := e.Match(account)
		if err != nil {
			logger.Warn().Err(err).Str("login", account.Login).Msg("Failed to evaluate exclusion")
			return false
		}
		if excluded {
			logger.Debug().Str("login", account.Login).Msg("Account excluded")
		}
		return excluded
	}
}

// newEnvironment builds the evaluation environment for one account
func newEnvironment(account github.Account) map[string]any {
	return map[string]any{
		"Login":     account.Login,
		"ID":        account.ID,
		"Type":      account.Type,
		"SiteAdmin": account.SiteAdmin,
		"HTMLURL":   account.HTMLURL,

		"isOrg": func() bool { return account.IsOrganization() },
		"isBot": func() bool { return account.IsBot() },
	}
}
