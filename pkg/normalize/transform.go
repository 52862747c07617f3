package normalize

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/codeGROOVE-dev/xscrape/pkg/extract"
	"github.com/codeGROOVE-dev/xscrape/pkg/record"
)

// BuildProfile converts raw scraped profile fields into a typed Profile.
// Unparseable counts fall back to zero with a warning rather than failing
// the whole scrape.
func BuildProfile(raw *extract.RawProfile, handle string, now time.Time) (*record.Profile, []string) {
	if raw == nil {
		return nil, nil
	}

	var warnings []string
	p := &record.Profile{
		Handle:      Handle(firstNonEmpty(raw.Handle, handle)),
		DisplayName: raw.DisplayName,
		Bio:         raw.Bio,
		Website:     raw.Website,
		Verified:    raw.Verified,
		ScrapedAt:   now,
	}

	p.Followers = countOrZero(raw.Followers, "followers", &warnings)
	p.Following = countOrZero(raw.Following, "following", &warnings)
	p.PostCount = countOrZero(raw.PostCount, "post count", &warnings)

	if raw.JoinedDate != "" {
		if t, ok := JoinDate(raw.JoinedDate, now); ok {
			p.JoinedAt = &t
		} else {
			warnings = append(warnings, fmt.Sprintf("unparseable join date %q", raw.JoinedDate))
		}
	}

	return p, warnings
}

// BuildPosts converts raw posts into typed records, dropping any without a
// status ID. Posts missing a permalink get the canonical URL for handle.
// Ordering is applied by OrderPosts afterward.
func BuildPosts(raws []extract.RawPost, handle string, now time.Time) ([]record.Post, []string) {
	var warnings []string
	posts := make([]record.Post, 0, len(raws))

	for _, raw := range raws {
		if raw.ID == "" {
			warnings = append(warnings, "dropped post without ID")
			continue
		}
		post := record.Post{
			ID:           raw.ID,
			Text:         raw.Text,
			Pinned:       raw.Pinned,
			IsReply:      raw.IsReply,
			ReplyTo:      Handle(raw.ReplyTo),
			IsQuote:      raw.IsQuote,
			QuotedID:     raw.QuotedID,
			IsRepost:     raw.IsRepost,
			RepostedFrom: Handle(raw.RepostedFrom),
			MediaURLs:    raw.MediaURLs,
			URL:          raw.URL,
		}
		if post.URL == "" {
			post.URL = "https://x.com/" + Handle(handle) + "/status/" + raw.ID
		}

		post.Replies = countOrZero(raw.Replies, "replies on "+raw.ID, &warnings)
		post.Reposts = countOrZero(raw.Reposts, "reposts on "+raw.ID, &warnings)
		post.Likes = countOrZero(raw.Likes, "likes on "+raw.ID, &warnings)
		if raw.Views != "" {
			if v, err := Count(raw.Views); err == nil {
				post.Views = &v
			} else {
				warnings = append(warnings, fmt.Sprintf("unparseable views on %s: %q", raw.ID, raw.Views))
			}
		}

		if raw.CreatedAt != "" {
			if t, ok := FlexibleDate(raw.CreatedAt, now); ok {
				post.CreatedAt = &t
			} else {
				warnings = append(warnings, fmt.Sprintf("unparseable timestamp on %s: %q", raw.ID, raw.CreatedAt))
			}
		}

		posts = append(posts, post)
	}

	return posts, warnings
}

// OrderPosts sorts posts in place: pinned posts first in their original
// order, then the rest newest first. Posts without a timestamp sort after
// timestamped ones, keeping their original relative order.
func OrderPosts(posts []record.Post) {
	sort.SliceStable(posts, func(i, j int) bool {
		a, b := posts[i], posts[j]
		if a.Pinned != b.Pinned {
			return a.Pinned
		}
		if a.Pinned {
			return false
		}
		switch {
		case a.CreatedAt != nil && b.CreatedAt != nil:
			return a.CreatedAt.After(*b.CreatedAt)
		case a.CreatedAt != nil:
			return true
		default:
			return false
		}
	})
}

// Handle normalizes a user handle: strip the @ prefix, trim, lowercase.
func Handle(s string) string {
	return strings.ToLower(strings.TrimPrefix(strings.TrimSpace(s), "@"))
}

// countOrZero parses a count, recording a warning and substituting zero when
// the field is missing or malformed. Missing engagement counters are common
// enough that only non-empty failures mention the raw value.
func countOrZero(s, field string, warnings *[]string) int64 {
	n, err := Count(s)
	if err == nil {
		return n
	}
	if s == "" {
		*warnings = append(*warnings, "missing "+field)
	} else {
		*warnings = append(*warnings, fmt.Sprintf("unparseable %s: %q", field, s))
	}
	return 0
}

func firstNonEmpty(a, b string) string {
	if a != "" {
		return a
	}
	return b
}
