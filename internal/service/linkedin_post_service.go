package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	config "github.com/maheshrc27/linkedin-sync/configs"
	"github.com/maheshrc27/linkedin-sync/internal/transfer"
)

const restliProtocolVersion = "2.0.0"

type LinkedInPostService interface {
	FetchPosts(ctx context.Context, accessToken, organizationURN string) (*transfer.LinkedInPostsPage, error)
}

type linkedInPostService struct {
	cfg    config.Config
	client *http.Client
}

func NewLinkedInPostService(cfg config.Config, client *http.Client) LinkedInPostService {
	if client == nil {
		client = http.DefaultClient
	}
	return &linkedInPostService{cfg: cfg, client: client}
}

// FetchPosts requests the first page of posts authored by the organization.
// There is no follow-on pagination.
func (s *linkedInPostService) FetchPosts(ctx context.Context, accessToken, organizationURN string) (*transfer.LinkedInPostsPage, error) {
	if s.cfg.Sync.FetchTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.Sync.FetchTimeout)
		defer cancel()
	}

	params := url.Values{}
	params.Set("q", "author")
	params.Set("author", organizationURN)
	params.Set("start", "0")
	params.Set("count", strconv.Itoa(s.cfg.LinkedIn.PageSize))

	reqURL := fmt.Sprintf("%s/rest/posts?%s", strings.TrimRight(s.cfg.LinkedIn.APIURL, "/"), params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, &FetchError{Err: fmt.Errorf("error creating request: %w", err)}
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("LinkedIn-Version", s.cfg.LinkedIn.APIVersion)
	req.Header.Set("X-Restli-Protocol-Version", restliProtocolVersion)

	resp, err := s.client.Do(req)
	if err != nil {
		slog.Info(err.Error())
		return nil, &FetchError{Err: fmt.Errorf("HTTP request error: %w", err)}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		slog.Info(err.Error())
		return nil, &FetchError{Err: fmt.Errorf("error reading response body: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		fetchErr := &FetchError{StatusCode: resp.StatusCode, Body: string(body)}
		var apiErr transfer.LinkedInErrorResponse
		if json.Unmarshal(body, &apiErr) == nil && apiErr.Message != "" {
			slog.Info("linkedin posts request rejected", "status", resp.StatusCode, "code", apiErr.Code, "message", apiErr.Message)
		} else {
			slog.Info("linkedin posts request rejected", "status", resp.StatusCode, "body", string(body))
		}
		return nil, fetchErr
	}

	if !json.Valid(body) {
		slog.Info("linkedin posts response is not JSON", "body", string(body))
		return nil, &FetchError{Body: string(body), Err: fmt.Errorf("response is not valid JSON")}
	}

	return &transfer.LinkedInPostsPage{
		Elements: decodeElements(body),
		Raw:      body,
	}, nil
}

// decodeElements returns the elements array of a listing body, or an empty
// slice when the body is not an object or elements is missing or not an array.
func decodeElements(body []byte) []json.RawMessage {
	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(body, &envelope); err != nil {
		return []json.RawMessage{}
	}

	raw, ok := envelope["elements"]
	if !ok {
		return []json.RawMessage{}
	}

	var elements []json.RawMessage
	if err := json.Unmarshal(raw, &elements); err != nil || elements == nil {
		return []json.RawMessage{}
	}
	return elements
}
