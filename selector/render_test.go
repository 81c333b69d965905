package selector

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/s0up4200/followsync/batch"
	"github.com/s0up4200/followsync/github"
)

func TestFormatResult(t *testing.T) {
	tests := []struct {
		name        string
		result      batch.Result
		contains    []string
		notContains []string
	}{
		{
			name: "all succeeded",
			result: batch.Result{
				Action:    batch.Unfollow,
				Succeeded: []string{"a", "b"},
			},
			contains:    []string{"✅ Unfollowed 2 • ❌ failed 0"},
			notContains: []string{"rate limit"},
		},
		{
			name: "not found failure",
			result: batch.Result{
				Action: batch.Follow,
				Failed: []batch.ItemError{{Login: "ghost", Err: &github.APIError{StatusCode: http.StatusNotFound}}},
			},
			contains:    []string{"✗ ghost:", "(account not found)"},
			notContains: []string{"rate limit"},
		},
		{
			name: "rate limited failure",
			result: batch.Result{
				Action:    batch.Follow,
				Succeeded: []string{"a"},
				Failed: []batch.ItemError{
					{Login: "b", Err: &github.APIError{StatusCode: http.StatusTooManyRequests}},
					{Login: "c", Err: errors.New("connection reset")},
				},
			},
			contains: []string{"Followed 1 • ❌ failed 2", "✗ c: connection reset", "rate limiting you"},
		},
		{
			name: "dry run",
			result: batch.Result{
				Action:    batch.Unfollow,
				Succeeded: []string{"a"},
				DryRun:    true,
			},
			contains: []string{"[DRY RUN] Would have unfollowed 1 user"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FormatResult(tt.result)
			for _, want := range tt.contains {
				assert.Contains(t, got, want)
			}
			for _, unwanted := range tt.notContains {
				assert.NotContains(t, got, unwanted)
			}
		})
	}
}
