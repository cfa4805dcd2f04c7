package transfer

import (
	"encoding/json"
	"time"
)

type LinkedInToken struct {
	AccessToken string    `json:"access_token"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// LinkedInPostsPage is one page of the /rest/posts listing. Elements are kept
// raw so every entry can be normalized independently; Raw is the full body.
type LinkedInPostsPage struct {
	Elements []json.RawMessage
	Raw      []byte
}

type LinkedInErrorResponse struct {
	Status           int    `json:"status"`
	ServiceErrorCode int    `json:"serviceErrorCode"`
	Code             string `json:"code"`
	Message          string `json:"message"`
}
