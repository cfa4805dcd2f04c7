package service

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	config "github.com/maheshrc27/linkedin-sync/configs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func boolPtr(b bool) *bool { return &b }

func testConfig(baseURL string) config.Config {
	return config.Config{
		LinkedIn: config.LinkedIn{
			ClientID:        "client-id",
			ClientSecret:    "client-secret",
			RedirectURI:     "http://localhost:3000/callback",
			OrganizationURN: "urn:li:organization:30474",
			APIVersion:      "202507",
			PageSize:        10,
			AuthURL:         baseURL + "/oauth/v2/authorization",
			TokenURL:        baseURL + "/oauth/v2/accessToken",
			APIURL:          baseURL,
		},
		Sync: config.Sync{
			ExchangeTimeout: 5 * time.Second,
			FetchTimeout:    5 * time.Second,
			UpsertTimeout:   time.Second,
		},
		SecretKey: "test-secret",
	}
}

func TestExchangeCode(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/oauth/v2/accessToken", r.URL.Path)
		assert.Equal(t, "application/x-www-form-urlencoded", r.Header.Get("Content-Type"))
		assert.NoError(t, r.ParseForm())
		assert.Equal(t, "authorization_code", r.PostForm.Get("grant_type"))
		assert.Equal(t, "the-code", r.PostForm.Get("code"))
		assert.Equal(t, "http://localhost:3000/callback", r.PostForm.Get("redirect_uri"))
		assert.Equal(t, "client-id", r.PostForm.Get("client_id"))
		assert.Equal(t, "client-secret", r.PostForm.Get("client_secret"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"AQX-token","expires_in":5184000}`))
	}))
	defer server.Close()

	auth := NewLinkedInAuthService(testConfig(server.URL), server.Client())
	token, err := auth.ExchangeCode(context.Background(), "the-code")
	require.NoError(t, err)
	assert.Equal(t, "AQX-token", token.AccessToken)
	assert.WithinDuration(t, time.Now().Add(60*24*time.Hour), token.ExpiresAt, time.Minute)
}

func TestExchangeCodeRejected(t *testing.T) {
	payload := `{"error":"invalid_request","error_description":"Unable to retrieve access token: appid/redirect uri/code verifier does not match authorization code"}`
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(payload))
	}))
	defer server.Close()

	auth := NewLinkedInAuthService(testConfig(server.URL), server.Client())
	_, err := auth.ExchangeCode(context.Background(), "used-code")

	var exchangeErr *AuthExchangeError
	require.True(t, errors.As(err, &exchangeErr))
	assert.Equal(t, payload, exchangeErr.Payload)
	assert.Contains(t, err.Error(), "invalid_request")
}

func TestExchangeCodeMissingCode(t *testing.T) {
	auth := NewLinkedInAuthService(testConfig("http://127.0.0.1:0"), nil)
	_, err := auth.ExchangeCode(context.Background(), "")

	var exchangeErr *AuthExchangeError
	assert.True(t, errors.As(err, &exchangeErr))
}

func TestAuthURL(t *testing.T) {
	auth := NewLinkedInAuthService(testConfig("https://www.linkedin.com"), nil)
	u, err := url.Parse(auth.AuthURL("signed-state"))
	require.NoError(t, err)

	assert.Equal(t, "/oauth/v2/authorization", u.Path)
	q := u.Query()
	assert.Equal(t, "code", q.Get("response_type"))
	assert.Equal(t, "client-id", q.Get("client_id"))
	assert.Equal(t, "http://localhost:3000/callback", q.Get("redirect_uri"))
	assert.Equal(t, "r_organization_social rw_organization_admin", q.Get("scope"))
	assert.Equal(t, "signed-state", q.Get("state"))
}

func TestFetchPosts(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/rest/posts", r.URL.Path)
		assert.Equal(t, "Bearer AQX-token", r.Header.Get("Authorization"))
		assert.Equal(t, "202507", r.Header.Get("LinkedIn-Version"))
		assert.Equal(t, "2.0.0", r.Header.Get("X-Restli-Protocol-Version"))

		q := r.URL.Query()
		assert.Equal(t, "author", q.Get("q"))
		assert.Equal(t, "urn:li:organization:30474", q.Get("author"))
		assert.Equal(t, "0", q.Get("start"))
		assert.Equal(t, "10", q.Get("count"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"elements":[{"id":"urn:li:share:1"},{"id":"urn:li:share:2"}],"paging":{"start":0,"count":10}}`))
	}))
	defer server.Close()

	posts := NewLinkedInPostService(testConfig(server.URL), server.Client())
	page, err := posts.FetchPosts(context.Background(), "AQX-token", "urn:li:organization:30474")
	require.NoError(t, err)
	require.Len(t, page.Elements, 2)
	assert.JSONEq(t, `{"id":"urn:li:share:2"}`, string(page.Elements[1]))
	assert.Contains(t, string(page.Raw), "paging")
}

func TestFetchPostsUnexpectedShapes(t *testing.T) {
	for _, body := range []string{`{}`, `{"elements":null}`, `{"elements":{"id":"x"}}`, `[]`, `"ok"`} {
		t.Run(body, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(body))
			}))
			defer server.Close()

			posts := NewLinkedInPostService(testConfig(server.URL), server.Client())
			page, err := posts.FetchPosts(context.Background(), "token", "urn:li:organization:1")
			require.NoError(t, err)
			assert.NotNil(t, page.Elements)
			assert.Empty(t, page.Elements)
		})
	}
}

func TestFetchPostsErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"status":403,"serviceErrorCode":100,"code":"ACCESS_DENIED","message":"Not enough permissions"}`))
	}))
	defer server.Close()

	posts := NewLinkedInPostService(testConfig(server.URL), server.Client())
	_, err := posts.FetchPosts(context.Background(), "token", "urn:li:organization:1")

	var fetchErr *FetchError
	require.True(t, errors.As(err, &fetchErr))
	assert.Equal(t, http.StatusForbidden, fetchErr.StatusCode)
	assert.Contains(t, fetchErr.Body, "ACCESS_DENIED")
}

func TestFetchPostsNetworkFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	baseURL := server.URL
	server.Close()

	posts := NewLinkedInPostService(testConfig(baseURL), nil)
	_, err := posts.FetchPosts(context.Background(), "token", "urn:li:organization:1")

	var fetchErr *FetchError
	require.True(t, errors.As(err, &fetchErr))
	assert.Zero(t, fetchErr.StatusCode)
}

func TestFetchPostsInvalidJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html>maintenance</html>`))
	}))
	defer server.Close()

	posts := NewLinkedInPostService(testConfig(server.URL), server.Client())
	_, err := posts.FetchPosts(context.Background(), "token", "urn:li:organization:1")

	var fetchErr *FetchError
	assert.True(t, errors.As(err, &fetchErr))
}

func TestExchangeCodeWithoutExpiry(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"AQX-token"}`))
	}))
	defer server.Close()

	auth := NewLinkedInAuthService(testConfig(server.URL), server.Client())
	token, err := auth.ExchangeCode(context.Background(), "the-code")
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(defaultTokenLifetime), token.ExpiresAt, time.Minute)
}
