// Package github provides a client for the follow-graph endpoints of the GitHub REST API.
//
// The package covers exactly what followsync needs: the authenticated user's
// following and followers collections, and the follow/unfollow mutations.
//
// # Usage
//
//	logger := zerolog.New(os.Stderr)
//	client, err := github.NewClient(
//		os.Getenv("TOKEN"),
//		logger,
//		github.WithPageSize(100),
//		github.WithTimeout(30*time.Second),
//	)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	following, err := client.Following(ctx)
//
// # Pagination
//
// Collections are requested with a per_page parameter and followed through
// the Link response header. The fetch stops when no rel="next" relation is
// advertised. Requests are issued one at a time.
//
// # Error Handling
//
//   - ErrMissingToken: the client was created without a token
//   - ErrUnauthorized: the API answered 401
//   - APIError: any other non-success status, with the response body
//
//	var apiErr *github.APIError
//	if errors.As(err, &apiErr) && apiErr.IsUnauthorized() {
//		// Handle auth failure
//	}
package github
