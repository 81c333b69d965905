package github

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/peterhellberg/link"
)

// ParseLinks maps each relation in a Link header value to its target URL.
// Relation names are lower-cased; a link carrying several space-separated
// relations is registered under each of them.
func ParseLinks(header string) map[string]string {
	links := make(map[string]string)
	for _, l := range link.Parse(header) {
		if l == nil || l.URI == "" {
			continue
		}
		for _, rel := range strings.Fields(strings.ToLower(l.Rel)) {
			if _, ok := links[rel]; !ok {
				links[rel] = l.URI
			}
		}
	}
	return links
}

// nextPageURL returns the absolute rel="next" target, or "" on the last page
func nextPageURL(current string, header http.Header) string {
	next, ok := ParseLinks(strings.Join(header.Values("Link"), ", "))["next"]
	if !ok {
		return ""
	}

	base, err := url.Parse(current)
	if err != nil {
		return next
	}
	ref, err := url.Parse(next)
	if err != nil {
		return ""
	}
	return base.ResolveReference(ref).String()
}
