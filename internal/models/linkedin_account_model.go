package models

import "time"

// LinkedInAccount holds the encrypted bearer token obtained for an
// organization so scheduled syncs can reuse it until it expires.
type LinkedInAccount struct {
	ID              int64     `db:"id" json:"id"`
	OrganizationURN string    `db:"organization_urn" json:"organization_urn"`
	AccessToken     string    `db:"access_token" json:"-"`
	TokenExpiresAt  time.Time `db:"token_expires_at" json:"token_expires_at"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time `db:"updated_at" json:"updated_at"`
}
