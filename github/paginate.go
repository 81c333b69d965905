package github

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
)

const (
	followingPath = "/user/following"
	followersPath = "/user/followers"
)

// Following retrieves every account the authenticated user follows
func (c *Client) Following(ctx context.Context) ([]Account, error) {
	accounts, err := c.listAccounts(ctx, followingPath)
	if err != nil {
		return nil, fmt.Errorf("failed to get following: %w", err)
	}
	return accounts, nil
}

// Followers retrieves every account following the authenticated user
func (c *Client) Followers(ctx context.Context) ([]Account, error) {
	accounts, err := c.listAccounts(ctx, followersPath)
	if err != nil {
		return nil, fmt.Errorf("failed to get followers: %w", err)
	}
	return accounts, nil
}

// listAccounts walks a collection endpoint page by page through rel="next"
// links. Any non-200 page aborts the walk and discards what was collected.
func (c *Client) listAccounts(ctx context.Context, path string) ([]Account, error) {
	params := url.Values{}
	params.Set("per_page", strconv.Itoa(c.pageSize))
	params.Set("page", "1")

	next := c.baseURL + path + "?" + params.Encode()
	accounts := make([]Account, 0, c.pageSize)
	seen := make(map[string]struct{})
	page := 0

	for next != "" {
		resp, err := c.doRequest(ctx, http.MethodGet, next)
		if err != nil {
			return nil, err
		}
		if err := resp.expect(http.StatusOK); err != nil {
			return nil, err
		}

		var batch []Account
		if len(resp.body) > 0 {
			if err := json.Unmarshal(resp.body, &batch); err != nil {
				return nil, fmt.Errorf("failed to parse page %d: %w", page+1, err)
			}
		}

		// The list can shift between page requests, repeating an entry.
		for _, account := range batch {
			if account.Login == "" {
				continue
			}
			if _, dup := seen[account.Login]; dup {
				continue
			}
			seen[account.Login] = struct{}{}
			accounts = append(accounts, account)
		}

		page++
		c.logger.Debug().
			Str("path", path).
			Int("page", page).
			Int("count", len(batch)).
			Int("total", len(accounts)).
			Msg("Retrieved page from GitHub")

		next = nextPageURL(next, resp.header)
	}

	return accounts, nil
}
