// Package reconcile computes which follow relationships are one-sided and
// keeps the in-memory following and follower sets current between actions.
package reconcile

import (
	"slices"

	"github.com/s0up4200/followsync/github"
)

// Result holds the two candidate lists derived from a following/followers pair
type Result struct {
	// NotFollowingBack are accounts followed by the user that do not follow back
	NotFollowingBack []github.Account
	// NotFollowedByMe are followers the user does not follow
	NotFollowedByMe []github.Account
}

// InSync reports whether both candidate lists are empty
func (r Result) InSync() bool {
	return len(r.NotFollowingBack) == 0 && len(r.NotFollowedByMe) == 0
}

// Without drops every candidate for which excluded returns true
func (r Result) Without(excluded func(github.Account) bool) Result {
	if excluded == nil {
		return r
	}
	keep := func(accounts []github.Account) []github.Account {
		return slices.DeleteFunc(slices.Clone(accounts), excluded)
	}
	return Result{
		NotFollowingBack: keep(r.NotFollowingBack),
		NotFollowedByMe:  keep(r.NotFollowedByMe),
	}
}

// Diff compares following against followers. Order follows the source list.
func Diff(following, followers []github.Account) Result {
	return Result{
		NotFollowingBack: difference(following, followers),
		NotFollowedByMe:  difference(followers, following),
	}
}

// difference returns the accounts of a whose login is absent from b
func difference(a, b []github.Account) []github.Account {
	exclude := loginSet(b)
	out := make([]github.Account, 0)
	for _, account := range a {
		if _, ok := exclude[account.Login]; ok {
			continue
		}
		exclude[account.Login] = struct{}{}
		out = append(out, account)
	}
	return out
}

func loginSet(accounts []github.Account) map[string]struct{} {
	set := make(map[string]struct{}, len(accounts))
	for _, account := range accounts {
		set[account.Login] = struct{}{}
	}
	return set
}
