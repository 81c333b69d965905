package reconcile

import (
	"slices"

	"github.com/s0up4200/followsync/github"
)

// Sets is the in-memory state of one session. It is updated after each
// batch so candidates can be recomputed without fetching again.
type Sets struct {
	following []github.Account
	followers []github.Account
}

// NewSets copies the fetched collections, dropping duplicate logins
func NewSets(following, followers []github.Account) *Sets {
	return &Sets{
		following: dedupe(following),
		followers: dedupe(followers),
	}
}

// Following returns a copy of the following set
func (s *Sets) Following() []github.Account {
	return slices.Clone(s.following)
}

// Followers returns a copy of the follower set
func (s *Sets) Followers() []github.Account {
	return slices.Clone(s.followers)
}

// Candidates recomputes the diff from the current state
func (s *Sets) Candidates() Result {
	return Diff(s.following, s.followers)
}

// Unfollowed removes the given logins from the following set
func (s *Sets) Unfollowed(logins []string) {
	if len(logins) == 0 {
		return
	}
	gone := make(map[string]struct{}, len(logins))
	for _, login := range logins {
		gone[login] = struct{}{}
	}
	s.following = slices.DeleteFunc(s.following, func(a github.Account) bool {
		_, ok := gone[a.Login]
		return ok
	})
}

// Followed adds the given followers to the following set. Logins that are
// not followers are added with only their login known.
func (s *Sets) Followed(logins []string) {
	known := loginSet(s.following)
	byLogin := make(map[string]github.Account, len(s.followers))
	for _, a := range s.followers {
		byLogin[a.Login] = a
	}

	for _, login := range logins {
		if _, ok := known[login]; ok {
			continue
		}
		account, ok := byLogin[login]
		if !ok {
			account = github.Account{Login: login}
		}
		s.following = append(s.following, account)
		known[login] = struct{}{}
	}
}

func dedupe(accounts []github.Account) []github.Account {
	seen := make(map[string]struct{}, len(accounts))
	out := make([]github.Account, 0, len(accounts))
	for _, a := range accounts {
		if _, ok := seen[a.Login]; ok {
			continue
		}
		seen[a.Login] = struct{}{}
		out = append(out, a)
	}
	return out
}
