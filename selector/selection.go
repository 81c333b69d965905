package selector

import (
	"slices"
	"strconv"
	"strings"

	"github.com/s0up4200/followsync/github"
)

// ParseSelection resolves a selection such as "1-3,5,8" or "2 octocat"
// against candidates (1-based). Ranges, single indexes and logins may be
// mixed. Out-of-range indexes, reversed ranges and unknown tokens are
// ignored. The result is deduplicated and ordered like candidates.
func ParseSelection(input string, candidates []github.Account) []string {
	byLogin := make(map[string]int, len(candidates))
	for i, c := range candidates {
		byLogin[strings.ToLower(c.Login)] = i
	}

	chosen := make(map[int]struct{})
	add := func(idx int) {
		if idx >= 1 && idx <= len(candidates) {
			chosen[idx-1] = struct{}{}
		}
	}

	fields := strings.FieldsFunc(input, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t'
	})
	for _, field := range fields {
		if start, end, ok := parseRange(field); ok {
			// Clamp so a huge upper bound does not loop for nothing
			end = min(end, len(candidates))
			for i := start; i <= end; i++ {
				add(i)
			}
			continue
		}
		if n, err := strconv.Atoi(field); err == nil {
			add(n)
			continue
		}
		if i, ok := byLogin[strings.ToLower(strings.TrimPrefix(field, "@"))]; ok {
			chosen[i] = struct{}{}
		}
	}

	indexes := make([]int, 0, len(chosen))
	for i := range chosen {
		indexes = append(indexes, i)
	}
	slices.Sort(indexes)

	logins := make([]string, 0, len(indexes))
	for _, i := range indexes {
		logins = append(logins, candidates[i].Login)
	}
	return logins
}

// parseRange parses "a-b" with a <= b, both non-negative integers
func parseRange(field string) (int, int, bool) {
	a, b, found := strings.Cut(field, "-")
	if !found || a == "" || b == "" {
		return 0, 0, false
	}
	start, err := strconv.Atoi(a)
	if err != nil || start < 0 {
		return 0, 0, false
	}
	end, err := strconv.Atoi(b)
	if err != nil || end < start {
		return 0, 0, false
	}
	return start, end, true
}
