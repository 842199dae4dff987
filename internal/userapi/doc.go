// Package userapi provides the HTTP client for the remote users API.
//
// # Overview
//
// The Client is the only code in roster that performs network I/O for
// profile data. It wraps three endpoints of a JSONPlaceholder-style API:
//
//   - GET {base}/users: the whole collection
//   - GET {base}/users/{id}: one record
//   - PUT {base}/users/{id}: write a Patch, the response is the new record
//
// There is no retry, no caching and no authentication. The store decides
// what a failure means; the client only reports it.
//
// # Client Usage
//
//	client, err := userapi.NewClient("https://jsonplaceholder.typicode.com", userapi.Options{})
//	if err != nil {
//		return err
//	}
//	users, err := client.ListUsers(ctx)
//
// # Error Handling
//
// Every failure is returned as *NetworkError, whatever its cause:
//
//   - "list users: execute request: dial tcp: connection refused"
//   - "update user: api https://host/users/7 returned status 500"
//   - "get user: decode response: unexpected EOF"
//
// A 404 additionally wraps ErrNotFound, so errors.Is(err, ErrNotFound) holds,
// but the store surfaces it like any other network failure.
//
// # Ids
//
// The API is expected to send numeric ids. The decoder also accepts numeric
// strings ("3") so that loosely typed upstreams compare equal; every id is
// stored as int64 from the moment it crosses this package.
//
// # Unknown Fields
//
// User models the fields roster displays. Anything else the API sends is
// kept in User.Extra and written back on marshal, so cached snapshots stay
// faithful to what the server returned.
//
// # Request Handling
//
// Each request carries Accept: application/json, a roster User-Agent and a
// fresh X-Request-Id that also appears in debug logs. An optional rate
// limiter paces requests when Options.RequestsPerSecond is set.
package userapi
