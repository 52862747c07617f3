// Package extract pulls raw profile and post fields out of rendered X/Twitter
// profile markup. All values are returned as scraped strings; normalization
// into typed records happens elsewhere. Selectors are centralized so they can
// be updated in one place when the site changes its DOM.
package extract

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Selectors keyed by the data-testid hooks the site renders.
const (
	selUserName      = `[data-testid="UserName"]`
	selUserBio       = `[data-testid="UserDescription"]`
	selUserJoinDate  = `[data-testid="UserJoinDate"]`
	selUserURL       = `[data-testid="UserUrl"]`
	selVerifiedIcon  = `[data-testid="icon-verified"]`
	selFollowersLink = `a[href$="/verified_followers"]`
	selFollowingLink = `a[href$="/following"]`
	selTweet         = `[data-testid="tweet"]`
	selTweetText     = `[data-testid="tweetText"]`
	selSocialContext = `[data-testid="socialContext"]`
	selReplyButton   = `[data-testid="reply"]`
	selRepostButton  = `[data-testid="retweet"]`
	selLikeButton    = `[data-testid="like"]`
	selViewsLink     = `a[href*="/analytics"]`
	selQuoteTweet    = `[data-testid="quoteTweet"]`
	selCardWrapper   = `[data-testid="card.wrapper"]`
)

// RawProfile holds profile fields exactly as scraped, before normalization.
type RawProfile struct {
	Handle      string
	DisplayName string
	Bio         string
	Website     string
	JoinedDate  string // e.g. "Joined March 2009"
	Followers   string // e.g. "1.2M"
	Following   string
	PostCount   string
	Verified    bool
}

// RawPost holds one post's fields exactly as scraped.
//
//nolint:govet // fieldalignment: intentional layout for readability
type RawPost struct {
	ID        string
	Text      string
	CreatedAt string // datetime attribute or display text
	URL       string
	Pinned    bool

	IsReply      bool
	ReplyTo      string
	IsQuote      bool
	QuotedID     string
	IsRepost     bool
	RepostedFrom string

	Replies   string
	Reposts   string
	Likes     string
	Views     string
	MediaURLs []string
}

// Extraction is the loosely-typed output of parsing one profile page.
type Extraction struct {
	Profile  *RawProfile
	Posts    []RawPost
	Warnings []string
}

// Parser extracts raw fields from rendered HTML.
type Parser struct{}

var (
	statusIDRe = regexp.MustCompile(`/status/(\d+)`)
	mentionRe  = regexp.MustCompile(`@(\w+)`)
)

// Parse extracts profile and post fields from rendered HTML. Missing optional
// fields produce warnings, never errors; a page with no recognizable profile
// block still returns an Extraction with Profile set to nil.
func (Parser) Parse(html, handle string) *Extraction {
	ex := &Extraction{}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		ex.Warnings = append(ex.Warnings, "parse html: "+err.Error())
		return ex
	}

	ex.Profile = parseProfile(doc, ex)
	if ex.Profile != nil && ex.Profile.Handle == "" {
		ex.Profile.Handle = handle
	}
	ex.Posts = parsePosts(doc, ex)
	return ex
}

func parseProfile(doc *goquery.Document, ex *Extraction) *RawProfile {
	raw := &RawProfile{PostCount: "0"}

	nameBlock := doc.Find(selUserName).First()
	if nameBlock.Length() == 0 {
		ex.Warnings = append(ex.Warnings, "profile name block not found")
		return nil
	}

	// Display name is the first substantial span not starting with @;
	// the handle is the @-prefixed span.
	nameBlock.Find("span").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		text := strings.TrimSpace(s.Text())
		if text != "" && !strings.HasPrefix(text, "@") && raw.DisplayName == "" {
			raw.DisplayName = text
		}
		if strings.HasPrefix(text, "@") && raw.Handle == "" {
			raw.Handle = strings.TrimPrefix(text, "@")
		}
		return raw.DisplayName == "" || raw.Handle == ""
	})
	if raw.DisplayName == "" {
		raw.DisplayName = raw.Handle
	}

	raw.Bio = strings.TrimSpace(doc.Find(selUserBio).First().Text())
	raw.JoinedDate = strings.TrimSpace(doc.Find(selUserJoinDate).First().Text())

	if link := doc.Find(selUserURL).Find("a").First(); link.Length() > 0 {
		raw.Website = link.AttrOr("href", "")
		if raw.Website == "" {
			raw.Website = strings.TrimSpace(link.Text())
		}
	}

	if span := doc.Find(selFollowersLink).Find("span").First(); span.Length() > 0 {
		raw.Followers = strings.TrimSpace(span.Text())
	} else {
		ex.Warnings = append(ex.Warnings, "follower count not found")
	}
	if span := doc.Find(selFollowingLink).Find("span").First(); span.Length() > 0 {
		raw.Following = strings.TrimSpace(span.Text())
	} else {
		ex.Warnings = append(ex.Warnings, "following count not found")
	}

	raw.Verified = doc.Find(selVerifiedIcon).Length() > 0

	return raw
}

func parsePosts(doc *goquery.Document, ex *Extraction) []RawPost {
	var posts []RawPost

	doc.Find(selTweet).Each(func(_ int, cell *goquery.Selection) {
		post := RawPost{}

		post.Text = strings.TrimSpace(cell.Find(selTweetText).First().Text())

		// Status ID and canonical URL from the first permalink.
		cell.Find(`a[href*="/status/"]`).EachWithBreak(func(_ int, link *goquery.Selection) bool {
			href := link.AttrOr("href", "")
			m := statusIDRe.FindStringSubmatch(href)
			if m == nil {
				return true
			}
			post.ID = m[1]
			post.URL = "https://x.com" + strings.SplitN(href, "?", 2)[0]
			return false
		})
		if post.ID == "" {
			ex.Warnings = append(ex.Warnings, "post without status link skipped")
			return
		}

		context := strings.TrimSpace(cell.Find(selSocialContext).First().Text())
		post.Pinned = strings.Contains(context, "Pinned")
		parseReplyContext(cell, context, &post)
		parseRepostContext(cell, context, &post)
		post.QuotedID = findQuotedID(cell, post.ID)
		post.IsQuote = post.QuotedID != ""

		post.Replies = buttonMetric(cell.Find(selReplyButton).First())
		post.Reposts = buttonMetric(cell.Find(selRepostButton).First())
		post.Likes = buttonMetric(cell.Find(selLikeButton).First())
		post.Views = strings.TrimSpace(cell.Find(selViewsLink).First().Text())

		post.CreatedAt = cell.Find("time[datetime]").First().AttrOr("datetime", "")

		cell.Find(`img[src*="pbs.twimg.com/media"]`).Each(func(_ int, img *goquery.Selection) {
			if src := img.AttrOr("src", ""); src != "" {
				post.MediaURLs = append(post.MediaURLs, src)
			}
		})

		posts = append(posts, post)
	})

	return posts
}

// parseReplyContext detects "Replying to @handle" banners.
func parseReplyContext(cell *goquery.Selection, context string, post *RawPost) {
	source := context
	if !strings.Contains(source, "Replying to") {
		banner := cell.Find(`div:contains("Replying to")`).Last()
		source = strings.TrimSpace(banner.Text())
	}
	if !strings.Contains(source, "Replying to") {
		return
	}
	if m := mentionRe.FindStringSubmatch(source); m != nil {
		post.IsReply = true
		post.ReplyTo = m[1]
	}
}

// parseRepostContext detects "<user> reposted" banners and resolves the
// original author from the post's profile links.
func parseRepostContext(cell *goquery.Selection, context string, post *RawPost) {
	lower := strings.ToLower(context)
	if !strings.Contains(lower, "reposted") && !strings.Contains(lower, "retweeted") {
		return
	}
	post.IsRepost = true
	cell.Find(`a[href^="/"]`).EachWithBreak(func(_ int, link *goquery.Selection) bool {
		href := link.AttrOr("href", "")
		if strings.Contains(href, "/status/") || strings.Count(href, "/") != 1 {
			return true
		}
		post.RepostedFrom = strings.TrimPrefix(href, "/")
		return false
	})
}

// findQuotedID returns the status ID of an embedded quoted post, if any.
func findQuotedID(cell *goquery.Selection, selfID string) string {
	for _, sel := range []string{selQuoteTweet, selCardWrapper} {
		id := ""
		cell.Find(sel).Find(`a[href*="/status/"]`).EachWithBreak(func(_ int, link *goquery.Selection) bool {
			m := statusIDRe.FindStringSubmatch(link.AttrOr("href", ""))
			if m == nil || m[1] == selfID {
				return true
			}
			id = m[1]
			return false
		})
		if id != "" {
			return id
		}
	}
	return ""
}

// buttonMetric extracts a count from an engagement button: the first token of
// its aria-label ("123 Replies", "1.2K Likes"), falling back to span text.
// Buttons with no visible count mean zero.
func buttonMetric(button *goquery.Selection) string {
	if button.Length() == 0 {
		return "0"
	}
	if label := button.AttrOr("aria-label", ""); label != "" {
		if fields := strings.Fields(label); len(fields) > 0 {
			return fields[0]
		}
	}
	if text := strings.TrimSpace(button.Find("span").First().Text()); text != "" {
		return text
	}
	return "0"
}
