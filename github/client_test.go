package github

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, server *httptest.Server, opts ...Option) *Client {
	t.Helper()
	opts = append([]Option{WithBaseURL(server.URL)}, opts...)
	client, err := NewClient("test-token", zerolog.Nop(), opts...)
	require.NoError(t, err)
	return client
}

// pagedServer serves logins in pages of size, linking each page to the next
func pagedServer(t *testing.T, path string, logins []string, size int, requests *int32) *httptest.Server {
	t.Helper()
	var server *httptest.Server
	server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(requests, 1)
		assert.Equal(t, path, r.URL.Path)
		assert.Equal(t, strconv.Itoa(size), r.URL.Query().Get("per_page"))

		page, err := strconv.Atoi(r.URL.Query().Get("page"))
		if !assert.NoError(t, err) {
			page = 1
		}

		start := (page - 1) * size
		end := min(start+size, len(logins))
		items := make([]Account, 0, size)
		for i := start; i < end; i++ {
			items = append(items, Account{Login: logins[i], ID: int64(i + 1), Type: "User"})
		}

		if end < len(logins) {
			w.Header().Set("Link", fmt.Sprintf(`<%s%s?per_page=%d&page=%d>; rel="next"`, server.URL, path, size, page+1))
		}
		json.NewEncoder(w).Encode(items)
	}))
	return server
}

func TestNewClient(t *testing.T) {
	t.Run("missing token", func(t *testing.T) {
		_, err := NewClient("", zerolog.Nop())
		require.ErrorIs(t, err, ErrMissingToken)
	})

	t.Run("whitespace token", func(t *testing.T) {
		_, err := NewClient("   ", zerolog.Nop())
		require.ErrorIs(t, err, ErrMissingToken)
	})

	t.Run("defaults", func(t *testing.T) {
		client, err := NewClient("abc", zerolog.Nop())
		require.NoError(t, err)
		assert.Equal(t, DefaultBaseURL, client.baseURL)
		assert.Equal(t, DefaultAPIVersion, client.apiVersion)
		assert.Equal(t, DefaultPageSize, client.pageSize)
	})
}

func TestClientOptions(t *testing.T) {
	logger := zerolog.Nop()

	t.Run("with timeout", func(t *testing.T) {
		client, err := NewClient("abc", logger, WithTimeout(5*time.Second))
		require.NoError(t, err)
		assert.Equal(t, 5*time.Second, client.httpClient.Timeout)
	})

	t.Run("with page size", func(t *testing.T) {
		client, err := NewClient("abc", logger, WithPageSize(50))
		require.NoError(t, err)
		assert.Equal(t, 50, client.pageSize)
	})

	t.Run("page size above cap ignored", func(t *testing.T) {
		client, err := NewClient("abc", logger, WithPageSize(500))
		require.NoError(t, err)
		assert.Equal(t, DefaultPageSize, client.pageSize)
	})

	t.Run("base url trailing slash", func(t *testing.T) {
		client, err := NewClient("abc", logger, WithBaseURL("https://ghe.example.com/api/v3/"))
		require.NoError(t, err)
		assert.Equal(t, "https://ghe.example.com/api/v3", client.baseURL)
	})

	t.Run("with custom http client", func(t *testing.T) {
		customClient := &http.Client{Timeout: 10 * time.Second}
		client, err := NewClient("abc", logger, WithHTTPClient(customClient))
		require.NoError(t, err)
		assert.Equal(t, customClient, client.httpClient)
	})
}

func TestRequestHeaders(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/user", r.URL.Path)
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
		assert.Equal(t, "2022-11-28", r.Header.Get("X-GitHub-Api-Version"))
		assert.Equal(t, "application/vnd.github+json", r.Header.Get("Accept"))
		assert.Equal(t, "followsync-test", r.Header.Get("User-Agent"))
		json.NewEncoder(w).Encode(map[string]any{"login": "octocat", "id": 1})
	}))
	defer server.Close()

	client := newTestClient(t, server, WithUserAgent("followsync-test"))
	me, err := client.CurrentUser(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "octocat", me.Login)
}

func TestCurrentUserUnauthorized(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"message":"Bad credentials"}`))
	}))
	defer server.Close()

	_, err := newTestClient(t, server).CurrentUser(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnauthorized)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, "Bad credentials", apiErr.Message)
}

func TestFollowingPagination(t *testing.T) {
	logins := []string{"a", "b", "c", "d", "e", "f", "g"}
	var requests int32
	server := pagedServer(t, "/user/following", logins, 3, &requests)
	defer server.Close()

	accounts, err := newTestClient(t, server, WithPageSize(3)).Following(context.Background())
	require.NoError(t, err)
	assert.Equal(t, logins, Logins(accounts))
	assert.Equal(t, int32(3), atomic.LoadInt32(&requests))
}

func TestFollowersPaginationExactMultiple(t *testing.T) {
	logins := []string{"a", "b", "c", "d"}
	var requests int32
	server := pagedServer(t, "/user/followers", logins, 2, &requests)
	defer server.Close()

	accounts, err := newTestClient(t, server, WithPageSize(2)).Followers(context.Background())
	require.NoError(t, err)
	assert.Equal(t, logins, Logins(accounts))
	assert.Equal(t, int32(2), atomic.LoadInt32(&requests))
}

func TestFollowersEmpty(t *testing.T) {
	var requests int32
	server := pagedServer(t, "/user/followers", nil, 100, &requests)
	defer server.Close()

	accounts, err := newTestClient(t, server).Followers(context.Background())
	require.NoError(t, err)
	assert.Empty(t, accounts)
	assert.Equal(t, int32(1), atomic.LoadInt32(&requests))
}

func TestPaginationDropsRepeatedEntries(t *testing.T) {
	var server *httptest.Server
	server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("page") == "1" {
			w.Header().Set("Link", fmt.Sprintf(`<%s/user/following?page=2>; rel="next"`, server.URL))
			w.Write([]byte(`[{"login":"a"},{"login":"b"}]`))
			return
		}
		w.Write([]byte(`[{"login":"b"},{"login":"c"}]`))
	}))
	defer server.Close()

	accounts, err := newTestClient(t, server).Following(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, Logins(accounts))
}

func TestPaginationUnauthorizedHalts(t *testing.T) {
	var requests int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&requests, 1)
		w.Header().Set("Link", `<http://example.invalid/user/following?page=2>; rel="next"`)
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"message":"Bad credentials"}`))
	}))
	defer server.Close()

	accounts, err := newTestClient(t, server).Following(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnauthorized)
	assert.Nil(t, accounts)
	assert.Equal(t, int32(1), atomic.LoadInt32(&requests))
}

func TestPaginationErrorOnLaterPage(t *testing.T) {
	var requests int32
	var server *httptest.Server
	server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&requests, 1)
		if r.URL.Query().Get("page") == "1" {
			w.Header().Set("Link", fmt.Sprintf(`<%s/user/followers?page=2>; rel="next"`, server.URL))
			w.Write([]byte(`[{"login":"a"}]`))
			return
		}
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("upstream unavailable"))
	}))
	defer server.Close()

	accounts, err := newTestClient(t, server).Followers(context.Background())
	require.Error(t, err)
	assert.Nil(t, accounts)
	assert.NotErrorIs(t, err, ErrUnauthorized)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusBadGateway, apiErr.StatusCode)
	assert.Equal(t, "upstream unavailable", apiErr.Body)
	assert.Equal(t, int32(2), atomic.LoadInt32(&requests))
}

func TestFollowUnfollow(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		follow  bool
		wantErr bool
	}{
		{name: "follow 204", status: http.StatusNoContent, follow: true},
		{name: "follow 200", status: http.StatusOK, follow: true},
		{name: "follow 404", status: http.StatusNotFound, follow: true, wantErr: true},
		{name: "unfollow 204", status: http.StatusNoContent},
		{name: "unfollow 200", status: http.StatusOK, wantErr: true},
		{name: "unfollow 403", status: http.StatusForbidden, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wantMethod := http.MethodDelete
			if tt.follow {
				wantMethod = http.MethodPut
			}

			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, wantMethod, r.Method)
				assert.Equal(t, "/user/following/octocat", r.URL.Path)
				w.WriteHeader(tt.status)
			}))
			defer server.Close()

			client := newTestClient(t, server)
			var err error
			if tt.follow {
				err = client.Follow(context.Background(), "octocat")
			} else {
				err = client.Unfollow(context.Background(), "octocat")
			}

			if tt.wantErr {
				var apiErr *APIError
				require.True(t, errors.As(err, &apiErr))
				assert.Equal(t, tt.status, apiErr.StatusCode)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestFollowInvalidLogin(t *testing.T) {
	client, err := NewClient("abc", zerolog.Nop())
	require.NoError(t, err)

	for _, login := range []string{"", "  ", "a/b", "x?y"} {
		err := client.Follow(context.Background(), login)
		assert.ErrorIs(t, err, ErrInvalidLogin, login)
	}
}

func TestAPIError(t *testing.T) {
	t.Run("Error message", func(t *testing.T) {
		err := &APIError{
			StatusCode: 404,
			Method:     "GET",
			URL:        "https://api.github.com/user",
			Message:    "Not Found",
		}
		assert.Equal(t, "github API error: GET https://api.github.com/user: status 404: Not Found", err.Error())
	})

	t.Run("classification", func(t *testing.T) {
		tests := []struct {
			code         int
			unauthorized bool
			notFound     bool
			rateLimited  bool
		}{
			{401, true, false, false},
			{403, false, false, true},
			{404, false, true, false},
			{429, false, false, true},
			{500, false, false, false},
		}

		for _, tt := range tests {
			err := &APIError{StatusCode: tt.code}
			assert.Equal(t, tt.unauthorized, err.IsUnauthorized(), tt.code)
			assert.Equal(t, tt.notFound, err.IsNotFound(), tt.code)
			assert.Equal(t, tt.rateLimited, err.IsRateLimited(), tt.code)
			assert.Equal(t, tt.unauthorized, errors.Is(err, ErrUnauthorized), tt.code)
		}
	})

	t.Run("message falls back to status text", func(t *testing.T) {
		assert.Equal(t, "Bad Gateway", errorMessage(502, []byte("<html>")))
	})
}

func TestAccount(t *testing.T) {
	assert.Equal(t, "https://github.com/octocat", Account{Login: "octocat"}.ProfileURL())
	assert.Equal(t, "https://ghe.example.com/octocat", Account{Login: "octocat", HTMLURL: "https://ghe.example.com/octocat"}.ProfileURL())
	assert.True(t, Account{Type: "Organization"}.IsOrganization())
	assert.True(t, Account{Type: "Bot"}.IsBot())
	assert.False(t, Account{Type: "User"}.IsBot())
}
