package utils

import (
	"errors"
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/maheshrc27/linkedin-sync/internal/transfer"
)

const stateIssuer = "linkedin-sync"

// GenerateState signs the OAuth state sent with the authorization redirect.
func GenerateState(secretKey, organizationURN string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := transfer.StateClaims{
		OrganizationURN: organizationURN,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    stateIssuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secretKey))
	if err != nil {
		slog.Info(err.Error())
		return "", err
	}

	return signed, nil
}

// ValidateState checks the state returned to the callback.
func ValidateState(secretKey, state string) (*transfer.StateClaims, error) {
	token, err := jwt.ParseWithClaims(state, &transfer.StateClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid state signing method")
		}
		return []byte(secretKey), nil
	}, jwt.WithIssuer(stateIssuer))
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}

	if claims, ok := token.Claims.(*transfer.StateClaims); ok && token.Valid {
		return claims, nil
	}

	return nil, errors.New("invalid state")
}
