package github

import (
	"context"
)

// API defines the follow-graph operations used by followsync
type API interface {
	// CurrentUser returns the account the token belongs to
	CurrentUser(ctx context.Context) (*Account, error)

	// Following returns every account the authenticated user follows
	Following(ctx context.Context) ([]Account, error)

	// Followers returns every account following the authenticated user
	Followers(ctx context.Context) ([]Account, error)

	// Follow follows the given login
	Follow(ctx context.Context, login string) error

	// Unfollow unfollows the given login
	Unfollow(ctx context.Context, login string) error
}

var _ API = (*Client)(nil)
