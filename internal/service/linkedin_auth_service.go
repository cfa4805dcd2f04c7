package service

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	config "github.com/maheshrc27/linkedin-sync/configs"
	"github.com/maheshrc27/linkedin-sync/internal/transfer"
	"golang.org/x/oauth2"
)

var linkedInScopes = []string{"r_organization_social", "rw_organization_admin"}

type LinkedInAuthService interface {
	AuthURL(state string) string
	ExchangeCode(ctx context.Context, code string) (*transfer.LinkedInToken, error)
}

type linkedInAuthService struct {
	cfg    config.Config
	oauth  *oauth2.Config
	client *http.Client
}

func NewLinkedInAuthService(cfg config.Config, client *http.Client) LinkedInAuthService {
	if client == nil {
		client = http.DefaultClient
	}

	return &linkedInAuthService{
		cfg: cfg,
		oauth: &oauth2.Config{
			ClientID:     cfg.LinkedIn.ClientID,
			ClientSecret: cfg.LinkedIn.ClientSecret,
			RedirectURL:  cfg.LinkedIn.RedirectURI,
			Scopes:       linkedInScopes,
			Endpoint: oauth2.Endpoint{
				AuthURL:  cfg.LinkedIn.AuthURL,
				TokenURL: cfg.LinkedIn.TokenURL,
				// LinkedIn expects client_id and client_secret in the form body.
				AuthStyle: oauth2.AuthStyleInParams,
			},
		},
		client: client,
	}
}

func (s *linkedInAuthService) AuthURL(state string) string {
	return s.oauth.AuthCodeURL(state)
}

// ExchangeCode trades a single-use authorization code for a bearer token with
// one form-encoded POST. It never retries.
func (s *linkedInAuthService) ExchangeCode(ctx context.Context, code string) (*transfer.LinkedInToken, error) {
	if code == "" {
		err := errors.New("authorization code is empty")
		slog.Info(err.Error())
		return nil, &AuthExchangeError{Err: err}
	}

	if s.oauth.ClientID == "" || s.oauth.ClientSecret == "" || s.oauth.RedirectURL == "" {
		err := errors.New("OAuth2 configuration is incomplete")
		slog.Info(err.Error())
		return nil, &AuthExchangeError{Err: err}
	}

	if s.cfg.Sync.ExchangeTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.Sync.ExchangeTimeout)
		defer cancel()
	}
	ctx = context.WithValue(ctx, oauth2.HTTPClient, s.client)

	token, err := s.oauth.Exchange(ctx, code)
	if err != nil {
		exchangeErr := &AuthExchangeError{Err: err}
		var retrieveErr *oauth2.RetrieveError
		if errors.As(err, &retrieveErr) && len(retrieveErr.Body) > 0 {
			exchangeErr.Payload = string(retrieveErr.Body)
		}
		slog.Info("linkedin token exchange failed", "error", exchangeErr.Error())
		return nil, exchangeErr
	}

	return &transfer.LinkedInToken{
		AccessToken: token.AccessToken,
		ExpiresAt:   GetExpiresAt(token.Expiry),
	}, nil
}
