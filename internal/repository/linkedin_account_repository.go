package repository

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/maheshrc27/linkedin-sync/internal/models"
)

type LinkedInAccountRepository interface {
	Save(ctx context.Context, acc *models.LinkedInAccount) (int64, error)
	GetByOrganization(ctx context.Context, organizationURN string) (*models.LinkedInAccount, error)
	ListActive(ctx context.Context, now time.Time) ([]*models.LinkedInAccount, error)
}

type linkedInAccountRepository struct {
	db *sql.DB
}

func NewLinkedInAccountRepository(db *sql.DB) LinkedInAccountRepository {
	return &linkedInAccountRepository{db: db}
}

// Save stores the latest token for an organization, replacing any older one.
func (r *linkedInAccountRepository) Save(ctx context.Context, acc *models.LinkedInAccount) (int64, error) {
	query := `
		INSERT INTO linkedin_accounts (organization_urn, access_token, token_expires_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (organization_urn) DO UPDATE SET
			access_token = EXCLUDED.access_token,
			token_expires_at = EXCLUDED.token_expires_at,
			updated_at = CURRENT_TIMESTAMP
		RETURNING id
	`

	var id int64
	err := r.db.QueryRowContext(ctx, query, acc.OrganizationURN, acc.AccessToken, acc.TokenExpiresAt).Scan(&id)
	if err != nil {
		slog.Info(err.Error())
		return 0, err
	}

	return id, nil
}

func (r *linkedInAccountRepository) GetByOrganization(ctx context.Context, organizationURN string) (*models.LinkedInAccount, error) {
	query := `SELECT id, organization_urn, access_token, token_expires_at, created_at, updated_at
		FROM linkedin_accounts WHERE organization_urn = $1`
	row := r.db.QueryRowContext(ctx, query, organizationURN)

	var acc models.LinkedInAccount
	err := row.Scan(&acc.ID, &acc.OrganizationURN, &acc.AccessToken, &acc.TokenExpiresAt, &acc.CreatedAt, &acc.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		slog.Info(err.Error())
		return nil, err
	}

	return &acc, nil
}

// ListActive returns accounts whose token is still valid at now. Expired
// tokens are left alone; a new authorization replaces them.
func (r *linkedInAccountRepository) ListActive(ctx context.Context, now time.Time) ([]*models.LinkedInAccount, error) {
	query := `SELECT id, organization_urn, access_token, token_expires_at, created_at, updated_at
		FROM linkedin_accounts
		WHERE token_expires_at > $1`
	rows, err := r.db.QueryContext(ctx, query, now)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer rows.Close()

	var accounts []*models.LinkedInAccount
	for rows.Next() {
		var acc models.LinkedInAccount
		err := rows.Scan(&acc.ID, &acc.OrganizationURN, &acc.AccessToken, &acc.TokenExpiresAt, &acc.CreatedAt, &acc.UpdatedAt)
		if err != nil {
			slog.Info(err.Error())
			return nil, err
		}
		accounts = append(accounts, &acc)
	}

	if err := rows.Err(); err != nil {
		slog.Info(err.Error())
		return nil, err
	}

	return accounts, nil
}
