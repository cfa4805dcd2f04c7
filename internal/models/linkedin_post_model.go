package models

import "time"

// LinkedInPost is the canonical, provider-version-independent shape of an
// organization post. PostID is the only identity; every other field is
// overwritten on each sync.
type LinkedInPost struct {
	PostID                    string     `db:"post_id" json:"post_id"`
	PostURN                   *string    `db:"post_urn" json:"post_urn"`
	PostType                  *string    `db:"post_type" json:"post_type"` // share, ugcPost, linkedInArticle
	Activity                  *string    `db:"activity" json:"activity"`
	Text                      string     `db:"text" json:"text"`
	Author                    *string    `db:"author" json:"author"`
	Visibility                *string    `db:"visibility" json:"visibility"`
	LifecycleState            *string    `db:"lifecycle_state" json:"lifecycle_state"`
	IsEditedByAuthor          *bool      `db:"is_edited_by_author" json:"is_edited_by_author"`
	IsReshareDisabledByAuthor *bool      `db:"is_reshare_disabled_by_author" json:"is_reshare_disabled_by_author"`
	FeedDistribution          *string    `db:"feed_distribution" json:"feed_distribution"`
	ReshareParent             *string    `db:"reshare_parent" json:"reshare_parent"`
	ReshareRoot               *string    `db:"reshare_root" json:"reshare_root"`
	MediaID                   *string    `db:"media_id" json:"media_id"`
	MediaAltText              *string    `db:"media_alt_text" json:"media_alt_text"`
	PollQuestion              *string    `db:"poll_question" json:"poll_question"`
	CreatedAt                 *time.Time `db:"created_at" json:"created_at"`
	LastModifiedAt            *time.Time `db:"last_modified_at" json:"last_modified_at"`
	PublishedAt               *time.Time `db:"published_at" json:"published_at"`
}
