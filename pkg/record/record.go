// Package record defines the typed data model for scraped X/Twitter profiles.
package record

import "time"

// Profile represents scraped profile metadata after normalization.
//
//nolint:govet // fieldalignment: intentional layout for readability
type Profile struct {
	Handle      string     `json:"handle"`                 // Normalized lowercase handle (without @ prefix)
	DisplayName string     `json:"display_name"`           // Display name with original casing
	Bio         string     `json:"bio,omitempty"`          // Profile bio/description
	Website     string     `json:"website,omitempty"`      // Personal website URL
	JoinedAt    *time.Time `json:"joined_at,omitempty"`    // Account creation month, if shown
	Followers   int64      `json:"followers"`              // Follower count
	Following   int64      `json:"following"`              // Following count
	PostCount   int64      `json:"post_count"`             // Total posts on the account
	Verified    bool       `json:"verified"`               // Verification badge present
	ScrapedAt   time.Time  `json:"scraped_at"`             // When this profile was captured
}

// Post represents a single scraped post after normalization.
//
//nolint:govet // fieldalignment: intentional layout for readability
type Post struct {
	ID        string     `json:"id"`                   // Status ID, unique within a result
	Text      string     `json:"text"`                 // Body text
	CreatedAt *time.Time `json:"created_at,omitempty"` // Post timestamp, nil when unknown
	Pinned    bool       `json:"pinned"`               // Pinned to the top of the profile

	// Post type indicators
	IsReply      bool   `json:"is_reply,omitempty"`
	ReplyTo      string `json:"reply_to,omitempty"` // Handle being replied to
	IsQuote      bool   `json:"is_quote,omitempty"`
	QuotedID     string `json:"quoted_id,omitempty"` // Status ID of the quoted post
	IsRepost     bool   `json:"is_repost,omitempty"`
	RepostedFrom string `json:"reposted_from,omitempty"` // Original author handle

	// Engagement metrics
	Replies   int64    `json:"replies"`
	Reposts   int64    `json:"reposts"`
	Likes     int64    `json:"likes"`
	Views     *int64   `json:"views,omitempty"` // Absent when the view counter is not shown
	MediaURLs []string `json:"media_urls,omitempty"`
	URL       string   `json:"url"` // Canonical post URL
}

// Result wraps a complete scrape operation outcome.
//
// If Success is false, Profile is nil and Posts is empty. If Cached is true,
// the result is a verbatim deserialization of a prior Result with Cached,
// CacheAge, and Duration updated.
//
//nolint:govet // fieldalignment: intentional layout for readability
type Result struct {
	Success   bool          `json:"success"`
	Handle    string        `json:"handle"`
	Profile   *Profile      `json:"profile,omitempty"`
	Posts     []Post        `json:"posts,omitempty"`
	Cached    bool          `json:"cached"`
	CacheAge  time.Duration `json:"cache_age,omitempty"` // Age of the cache entry served
	Warnings  []string      `json:"warnings,omitempty"`  // Non-fatal extraction/normalization issues
	Error     string        `json:"error,omitempty"`     // Populated when Success is false
	ScrapedAt time.Time     `json:"scraped_at"`
	Duration  time.Duration `json:"duration"`
}
