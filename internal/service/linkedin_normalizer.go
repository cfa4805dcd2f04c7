package service

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"runtime"
	"strings"
	"time"

	"github.com/maheshrc27/linkedin-sync/internal/models"
	"golang.org/x/sync/errgroup"
)

var ErrMalformedPost = errors.New("linkedin post is not a JSON object")

// rawPost is one provider-native element of the posts listing.
type rawPost map[string]any

// rule extracts one candidate value from a raw post. Rules for a field are
// tried in order and the first usable value wins.
type rule func(p rawPost) (any, bool)

// at follows a path of object keys (string) and array indexes (int).
func at(path ...any) rule {
	return func(p rawPost) (any, bool) {
		var cur any = map[string]any(p)
		for _, key := range path {
			switch k := key.(type) {
			case string:
				obj, ok := cur.(map[string]any)
				if !ok {
					return nil, false
				}
				if cur, ok = obj[k]; !ok {
					return nil, false
				}
			case int:
				arr, ok := cur.([]any)
				if !ok || k < 0 || k >= len(arr) {
					return nil, false
				}
				cur = arr[k]
			default:
				return nil, false
			}
		}
		return cur, cur != nil
	}
}

// Field rules, newest API shape first. Older shapes come from the ugcPosts
// and shares APIs that earlier LinkedIn-Version values returned.
var (
	urnRules = []rule{at("id"), at("entityUrn"), at("urn")}

	activityRules = []rule{at("socialDetail", "urn"), at("activity")}

	textRules = []rule{
		at("text"),
		at("commentary"),
		at("commentary", "text"),
		at("content", "commentary", "text"),
		at("specificContent", "com.linkedin.ugc.ShareContent", "shareCommentary", "text"),
	}

	authorRules         = []rule{at("author")}
	visibilityRules     = []rule{at("visibility"), at("visibility", "com.linkedin.ugc.MemberNetworkVisibility")}
	lifecycleStateRules = []rule{at("lifecycleState")}

	isEditedRules         = []rule{at("lifecycleStateInfo", "isEditedByAuthor"), at("isEditedByAuthor")}
	isReshareDisabledRule = []rule{at("isReshareDisabledByAuthor")}

	feedDistributionRules = []rule{at("distribution", "feedDistribution")}
	reshareParentRules    = []rule{at("reshareContext", "parent")}
	reshareRootRules      = []rule{at("reshareContext", "root")}

	mediaIDRules = []rule{
		at("content", "media", "id"),
		at("content", "reference", "id"),
		at("content", "multiImage", "images", 0, "id"),
	}
	mediaAltTextRules = []rule{
		at("content", "media", "altText"),
		at("content", "multiImage", "images", 0, "altText"),
	}
	pollQuestionRules = []rule{at("content", "poll", "question")}

	createdAtRules      = []rule{at("createdAt"), at("created", "time")}
	lastModifiedAtRules = []rule{at("lastModifiedAt"), at("lastModified", "time")}
	publishedAtRules    = []rule{at("publishedAt"), at("firstPublishedAt")}
)

// NormalizePost maps one listing element to the canonical post. Missing or
// oddly typed fields resolve to nil; only a non-object element is an error.
// The returned post may have an empty PostID, which callers must drop.
func NormalizePost(raw json.RawMessage) (*models.LinkedInPost, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var p rawPost
	if err := dec.Decode(&p); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedPost, err)
	}
	if p == nil {
		return nil, ErrMalformedPost
	}

	return normalize(p), nil
}

func normalize(p rawPost) *models.LinkedInPost {
	post := &models.LinkedInPost{
		Activity:                  resolveString(p, activityRules),
		Text:                      strings.TrimSpace(valueOr(resolveString(p, textRules), "")),
		Author:                    resolveString(p, authorRules),
		Visibility:                resolveString(p, visibilityRules),
		LifecycleState:            resolveString(p, lifecycleStateRules),
		IsEditedByAuthor:          resolveBool(p, isEditedRules),
		IsReshareDisabledByAuthor: resolveBool(p, isReshareDisabledRule),
		FeedDistribution:          resolveString(p, feedDistributionRules),
		ReshareParent:             resolveString(p, reshareParentRules),
		ReshareRoot:               resolveString(p, reshareRootRules),
		MediaID:                   resolveString(p, mediaIDRules),
		MediaAltText:              resolveString(p, mediaAltTextRules),
		PollQuestion:              resolveString(p, pollQuestionRules),
		CreatedAt:                 resolveMillis(p, createdAtRules),
		LastModifiedAt:            resolveMillis(p, lastModifiedAtRules),
		PublishedAt:               resolveMillis(p, publishedAtRules),
	}

	if urn := resolveString(p, urnRules); urn != nil {
		post.PostURN = urn
		post.PostID, post.PostType = splitURN(*urn)
	}

	return post
}

// splitURN returns the trailing segment of a colon-delimited URN as the post
// id, and the category segment (index 2, e.g. "share" in urn:li:share:1).
func splitURN(urn string) (string, *string) {
	parts := strings.Split(urn, ":")
	postID := parts[len(parts)-1]

	var postType *string
	if len(parts) > 2 && parts[2] != "" {
		category := parts[2]
		postType = &category
	}
	return postID, postType
}

func resolveString(p rawPost, rules []rule) *string {
	for _, r := range rules {
		v, ok := r(p)
		if !ok {
			continue
		}
		if s, ok := v.(string); ok && s != "" {
			return &s
		}
	}
	return nil
}

func resolveBool(p rawPost, rules []rule) *bool {
	for _, r := range rules {
		v, ok := r(p)
		if !ok {
			continue
		}
		if b, ok := v.(bool); ok {
			return &b
		}
	}
	return nil
}

// resolveMillis parses epoch-millisecond numbers. Non-numeric and non-positive
// values are skipped, so an unusable timestamp stays nil.
func resolveMillis(p rawPost, rules []rule) *time.Time {
	for _, r := range rules {
		v, ok := r(p)
		if !ok {
			continue
		}

		var millis int64
		switch n := v.(type) {
		case json.Number:
			if i, err := n.Int64(); err == nil {
				millis = i
			} else if f, err := n.Float64(); err == nil && !math.IsInf(f, 0) {
				millis = int64(f)
			} else {
				continue
			}
		case float64:
			millis = int64(n)
		case int64:
			millis = n
		case int:
			millis = int64(n)
		default:
			continue
		}

		if millis <= 0 {
			continue
		}
		t := time.UnixMilli(millis).UTC()
		return &t
	}
	return nil
}

func valueOr(s *string, fallback string) string {
	if s == nil {
		return fallback
	}
	return *s
}

// NormalizePosts normalizes elements in parallel and keeps their order.
// Malformed elements and elements without a post id are dropped and counted
// in skipped.
func NormalizePosts(elements []json.RawMessage) (posts []*models.LinkedInPost, skipped int) {
	normalized := make([]*models.LinkedInPost, len(elements))

	var g errgroup.Group
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, raw := range elements {
		i, raw := i, raw
		g.Go(func() error {
			post, err := NormalizePost(raw)
			if err != nil {
				slog.Info("skipping malformed linkedin post", "index", i, "error", err.Error(), "payload", string(raw))
				return nil
			}
			normalized[i] = post
			return nil
		})
	}
	_ = g.Wait()

	posts = make([]*models.LinkedInPost, 0, len(normalized))
	for _, post := range normalized {
		if post == nil || post.PostID == "" {
			skipped++
			continue
		}
		posts = append(posts, post)
	}
	return posts, skipped
}
