package service

import (
	"time"
)

// LinkedIn access tokens live for 60 days unless the response says otherwise.
const defaultTokenLifetime = 60 * 24 * time.Hour

func GetExpiresAt(expiry time.Time) time.Time {
	if expiry.IsZero() {
		return time.Now().Add(defaultTokenLifetime)
	}
	return expiry
}
