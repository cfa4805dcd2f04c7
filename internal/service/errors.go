package service

import (
	"fmt"
)

// AuthExchangeError means the authorization code was missing or LinkedIn
// refused to exchange it. Codes are single-use, so the pass cannot be retried
// with the same code.
type AuthExchangeError struct {
	// Payload is the provider's raw error body, when one was returned.
	Payload string
	Err     error
}

func (e *AuthExchangeError) Error() string {
	if e.Payload != "" {
		return fmt.Sprintf("token exchange failed: %s", e.Payload)
	}
	return fmt.Sprintf("token exchange failed: %v", e.Err)
}

func (e *AuthExchangeError) Unwrap() error {
	return e.Err
}

// FetchError means the posts listing call failed on the network or returned a
// non-success status.
type FetchError struct {
	StatusCode int
	Body       string
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetch posts: status %d: %s", e.StatusCode, e.Body)
	}
	return fmt.Sprintf("fetch posts: %v", e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}
