package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	config "github.com/maheshrc27/linkedin-sync/configs"
	"github.com/maheshrc27/linkedin-sync/internal/models"
	"github.com/maheshrc27/linkedin-sync/internal/repository"
	"github.com/maheshrc27/linkedin-sync/pkg/utils"
	gonanoid "github.com/matoous/go-nanoid/v2"
)

var (
	ErrNoStoredToken = errors.New("no stored token for organization")
	ErrTokenExpired  = errors.New("stored token has expired")
)

// SyncResult summarizes one pass. Skipped counts elements that were malformed
// or had no derivable post id; they are never upserted.
type SyncResult struct {
	RunID           string `json:"run_id"`
	OrganizationURN string `json:"organization_urn"`
	Trigger         string `json:"trigger"`
	Fetched         int    `json:"fetched"`
	Skipped         int    `json:"skipped"`
	Upserted        int    `json:"upserted"`
}

type SyncService interface {
	SyncFromCallback(ctx context.Context, code string) (*SyncResult, error)
	SyncStoredAccount(ctx context.Context, organizationURN, trigger string) (*SyncResult, error)
	SyncWithToken(ctx context.Context, accessToken, organizationURN, trigger string) (*SyncResult, error)
	RecentRuns(ctx context.Context, limit int) ([]*models.SyncRun, error)
}

type syncService struct {
	cfg      config.Config
	auth     LinkedInAuthService
	posts    LinkedInPostService
	store    repository.LinkedInPostRepository
	accounts repository.LinkedInAccountRepository
	runs     repository.SyncRunRepository
	archive  PageArchiver
	now      func() time.Time
}

// NewSyncService wires a pass. archive may be nil when no bucket is configured.
func NewSyncService(
	cfg config.Config,
	auth LinkedInAuthService,
	posts LinkedInPostService,
	store repository.LinkedInPostRepository,
	accounts repository.LinkedInAccountRepository,
	runs repository.SyncRunRepository,
	archive PageArchiver) SyncService {
	return &syncService{
		cfg:      cfg,
		auth:     auth,
		posts:    posts,
		store:    store,
		accounts: accounts,
		runs:     runs,
		archive:  archive,
		now:      time.Now,
	}
}

// SyncFromCallback runs a full pass for the configured organization starting
// from an authorization code. The token is stored for scheduled syncs.
func (s *syncService) SyncFromCallback(ctx context.Context, code string) (*SyncResult, error) {
	token, err := s.auth.ExchangeCode(ctx, code)
	if err != nil {
		return nil, err
	}

	organizationURN := s.cfg.LinkedIn.OrganizationURN
	s.storeToken(ctx, organizationURN, token.AccessToken, token.ExpiresAt)

	return s.SyncWithToken(ctx, token.AccessToken, organizationURN, models.SyncTriggerCallback)
}

func (s *syncService) SyncStoredAccount(ctx context.Context, organizationURN, trigger string) (*SyncResult, error) {
	acc, err := s.accounts.GetByOrganization(ctx, organizationURN)
	if err != nil {
		return nil, fmt.Errorf("load stored token: %w", err)
	}
	if acc == nil {
		slog.Info(ErrNoStoredToken.Error(), "organization", organizationURN)
		return nil, ErrNoStoredToken
	}
	if !acc.TokenExpiresAt.After(s.now()) {
		slog.Info(ErrTokenExpired.Error(), "organization", organizationURN, "expired_at", acc.TokenExpiresAt)
		return nil, ErrTokenExpired
	}

	accessToken, err := utils.OpenToken(acc.AccessToken, s.cfg.SecretKey)
	if err != nil {
		return nil, fmt.Errorf("decrypt stored token: %w", err)
	}

	return s.SyncWithToken(ctx, accessToken, organizationURN, trigger)
}

// SyncWithToken fetches one page, normalizes it and upserts the result. A
// fetch failure aborts before any write. An upsert failure keeps the rows
// already committed and reports them in the result.
func (s *syncService) SyncWithToken(ctx context.Context, accessToken, organizationURN, trigger string) (*SyncResult, error) {
	runID, err := gonanoid.New()
	if err != nil {
		return nil, fmt.Errorf("generate run id: %w", err)
	}

	result := &SyncResult{
		RunID:           runID,
		OrganizationURN: organizationURN,
		Trigger:         trigger,
	}
	logger := slog.With("run_id", runID, "organization", organizationURN, "trigger", trigger)

	page, err := s.posts.FetchPosts(ctx, accessToken, organizationURN)
	if err != nil {
		logger.Info("sync aborted", "stage", "fetch", "error", err.Error())
		s.recordRun(ctx, result, err)
		return result, err
	}
	result.Fetched = len(page.Elements)

	if s.archive != nil {
		if err := s.archive.ArchivePage(ctx, organizationURN, runID, page.Raw); err != nil {
			logger.Info("archive raw page failed", "error", err.Error())
		}
	}

	posts, skipped := NormalizePosts(page.Elements)
	result.Skipped = skipped

	upserted, err := s.store.UpsertBatch(ctx, posts)
	result.Upserted = upserted
	if err != nil {
		logger.Info("sync aborted", "stage", "upsert", "upserted", upserted, "error", err.Error())
		s.recordRun(ctx, result, err)
		return result, err
	}

	logger.Info("sync complete", "fetched", result.Fetched, "skipped", result.Skipped, "upserted", result.Upserted)
	s.recordRun(ctx, result, nil)
	return result, nil
}

func (s *syncService) RecentRuns(ctx context.Context, limit int) ([]*models.SyncRun, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.runs.ListRecent(ctx, limit)
}

// storeToken keeps the bearer token for scheduled syncs. Failures are logged
// and do not affect the pass.
func (s *syncService) storeToken(ctx context.Context, organizationURN, accessToken string, expiresAt time.Time) {
	if s.cfg.SecretKey == "" {
		slog.Info("SECRET_KEY not set; token not stored for scheduled syncs")
		return
	}

	sealed, err := utils.SealToken(accessToken, s.cfg.SecretKey)
	if err != nil {
		return
	}

	_, err = s.accounts.Save(ctx, &models.LinkedInAccount{
		OrganizationURN: organizationURN,
		AccessToken:     sealed,
		TokenExpiresAt:  expiresAt,
	})
	if err != nil {
		slog.Info("store token failed", "organization", organizationURN, "error", err.Error())
	}
}

func (s *syncService) recordRun(ctx context.Context, result *SyncResult, syncErr error) {
	run := &models.SyncRun{
		RunID:           result.RunID,
		OrganizationURN: result.OrganizationURN,
		Trigger:         result.Trigger,
		Fetched:         result.Fetched,
		Skipped:         result.Skipped,
		Upserted:        result.Upserted,
	}
	if syncErr != nil {
		run.ErrorMessage = syncErr.Error()
	}

	if _, err := s.runs.Create(ctx, run); err != nil {
		slog.Info("record sync run failed", "run_id", result.RunID, "error", err.Error())
	}
}
