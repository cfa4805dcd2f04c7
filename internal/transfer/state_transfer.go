package transfer

import "github.com/golang-jwt/jwt/v5"

// StateClaims is the payload of the signed OAuth state parameter.
type StateClaims struct {
	OrganizationURN string `json:"org"`
	jwt.RegisteredClaims
}
