package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/maheshrc27/linkedin-sync/internal/models"
)

// LinkedInPostRepository is the only writer of linkedin_posts. Rows are never
// deleted: posts that disappear upstream stay in the mirror.
type LinkedInPostRepository interface {
	UpsertBatch(ctx context.Context, posts []*models.LinkedInPost) (int, error)
}

// UpsertError reports the post that failed and how many rows were committed
// before it. Committed rows are not rolled back.
type UpsertError struct {
	PostID    string
	Committed int
	Err       error
}

func (e *UpsertError) Error() string {
	if e.PostID == "" {
		return fmt.Sprintf("upsert posts (%d committed): %v", e.Committed, e.Err)
	}
	return fmt.Sprintf("upsert post %s (%d committed): %v", e.PostID, e.Committed, e.Err)
}

func (e *UpsertError) Unwrap() error {
	return e.Err
}

var errMissingPostID = errors.New("post id is empty")

const upsertPostQuery = `
	INSERT INTO linkedin_posts (
		post_id,
		post_urn,
		post_type,
		activity,
		text,
		author,
		visibility,
		lifecycle_state,
		is_edited_by_author,
		is_reshare_disabled_by_author,
		feed_distribution,
		reshare_parent,
		reshare_root,
		media_id,
		media_alt_text,
		poll_question,
		created_at,
		last_modified_at,
		published_at,
		synced_at
	)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, CURRENT_TIMESTAMP)
	ON CONFLICT (post_id) DO UPDATE SET
		post_urn = EXCLUDED.post_urn,
		post_type = EXCLUDED.post_type,
		activity = EXCLUDED.activity,
		text = EXCLUDED.text,
		author = EXCLUDED.author,
		visibility = EXCLUDED.visibility,
		lifecycle_state = EXCLUDED.lifecycle_state,
		is_edited_by_author = EXCLUDED.is_edited_by_author,
		is_reshare_disabled_by_author = EXCLUDED.is_reshare_disabled_by_author,
		feed_distribution = EXCLUDED.feed_distribution,
		reshare_parent = EXCLUDED.reshare_parent,
		reshare_root = EXCLUDED.reshare_root,
		media_id = EXCLUDED.media_id,
		media_alt_text = EXCLUDED.media_alt_text,
		poll_question = EXCLUDED.poll_question,
		created_at = EXCLUDED.created_at,
		last_modified_at = EXCLUDED.last_modified_at,
		published_at = EXCLUDED.published_at,
		synced_at = CURRENT_TIMESTAMP
`

type linkedInPostRepository struct {
	db            *sql.DB
	upsertTimeout time.Duration
}

func NewLinkedInPostRepository(db *sql.DB, upsertTimeout time.Duration) LinkedInPostRepository {
	return &linkedInPostRepository{db: db, upsertTimeout: upsertTimeout}
}

// UpsertBatch writes posts in order on one pooled connection. Each post is a
// single INSERT ... ON CONFLICT statement, so concurrent batches touching the
// same post_id serialize in Postgres. The first failure stops the batch.
func (r *linkedInPostRepository) UpsertBatch(ctx context.Context, posts []*models.LinkedInPost) (int, error) {
	if len(posts) == 0 {
		return 0, nil
	}

	conn, err := r.db.Conn(ctx)
	if err != nil {
		slog.Info(err.Error())
		return 0, &UpsertError{Err: fmt.Errorf("acquire connection: %w", err)}
	}
	defer conn.Close()

	upserted := 0
	for _, post := range posts {
		if err := r.upsert(ctx, conn, post); err != nil {
			postID := ""
			if post != nil {
				postID = post.PostID
			}
			slog.Info("upsert failed", "post_id", postID, "committed", upserted, "error", err.Error())
			return upserted, &UpsertError{PostID: postID, Committed: upserted, Err: err}
		}
		upserted++
	}

	return upserted, nil
}

func (r *linkedInPostRepository) upsert(ctx context.Context, conn *sql.Conn, post *models.LinkedInPost) error {
	if post == nil || post.PostID == "" {
		return errMissingPostID
	}

	if r.upsertTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.upsertTimeout)
		defer cancel()
	}

	_, err := conn.ExecContext(ctx, upsertPostQuery,
		post.PostID,
		nullString(post.PostURN),
		nullString(post.PostType),
		nullString(post.Activity),
		post.Text,
		nullString(post.Author),
		nullString(post.Visibility),
		nullString(post.LifecycleState),
		nullBool(post.IsEditedByAuthor),
		nullBool(post.IsReshareDisabledByAuthor),
		nullString(post.FeedDistribution),
		nullString(post.ReshareParent),
		nullString(post.ReshareRoot),
		nullString(post.MediaID),
		nullString(post.MediaAltText),
		nullString(post.PollQuestion),
		nullTime(post.CreatedAt),
		nullTime(post.LastModifiedAt),
		nullTime(post.PublishedAt),
	)
	return err
}

func nullString(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}

func nullBool(b *bool) any {
	if b == nil {
		return nil
	}
	return *b
}

func nullTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return *t
}
