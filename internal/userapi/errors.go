package userapi

import (
	"errors"
	"fmt"
)

// ErrNotFound marks a 404 from the API. It is always carried inside a
// NetworkError; callers that do not care can treat both alike.
var ErrNotFound = errors.New("user not found")

// NetworkError is the single failure kind returned by Client: transport
// failures, non-2xx statuses and undecodable bodies all end up here.
type NetworkError struct {
	Op     string
	URL    string
	Status int // zero when no response was received
	Err    error
}

func (e *NetworkError) Error() string {
	switch {
	case e.Status != 0 && e.Err != nil:
		return fmt.Sprintf("%s: api %s returned status %d: %v", e.Op, e.URL, e.Status, e.Err)
	case e.Status != 0:
		return fmt.Sprintf("%s: api %s returned status %d", e.Op, e.URL, e.Status)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	default:
		return e.Op + ": network error"
	}
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// IsNetworkError reports whether err came from the gateway.
func IsNetworkError(err error) bool {
	var netErr *NetworkError
	return errors.As(err, &netErr)
}
