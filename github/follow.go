package github

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

// Follow follows login. GitHub answers 204, some proxies 200.
func (c *Client) Follow(ctx context.Context, login string) error {
	endpoint, err := c.followingURL(login)
	if err != nil {
		return err
	}

	resp, err := c.doRequest(ctx, http.MethodPut, endpoint)
	if err != nil {
		return err
	}
	if err := resp.expect(http.StatusNoContent, http.StatusOK); err != nil {
		return err
	}

	c.logger.Debug().Str("login", login).Msg("Followed account")
	return nil
}

// Unfollow unfollows login. Only 204 counts as success.
func (c *Client) Unfollow(ctx context.Context, login string) error {
	endpoint, err := c.followingURL(login)
	if err != nil {
		return err
	}

	resp, err := c.doRequest(ctx, http.MethodDelete, endpoint)
	if err != nil {
		return err
	}
	if err := resp.expect(http.StatusNoContent); err != nil {
		return err
	}

	c.logger.Debug().Str("login", login).Msg("Unfollowed account")
	return nil
}

func (c *Client) followingURL(login string) (string, error) {
	login = strings.TrimSpace(login)
	if login == "" || strings.ContainsAny(login, "/?#") {
		return "", fmt.Errorf("%w: %q", ErrInvalidLogin, login)
	}
	return c.baseURL + followingPath + "/" + url.PathEscape(login), nil
}
