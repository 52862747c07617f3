package extract

import (
	"strings"
	"testing"
)

const fixture = `
<html><body>
<div data-testid="UserName">
  <span>Jack Dorsey</span>
  <span>@jack</span>
</div>
<div data-testid="UserDescription">bluesky guy</div>
<div data-testid="UserJoinDate">Joined March 2006</div>
<div data-testid="UserUrl"><a href="https://bsky.app">bsky.app</a></div>
<svg data-testid="icon-verified"></svg>
<a href="/jack/verified_followers"><span>6.4M</span></a>
<a href="/jack/following"><span>4,321</span></a>

<article data-testid="tweet">
  <div data-testid="socialContext">Pinned</div>
  <a href="/jack/status/100?ref=src"><time datetime="2026-01-01T00:00:00.000Z">Jan 1</time></a>
  <div data-testid="tweetText">pinned post</div>
  <button data-testid="reply" aria-label="12 Replies"></button>
  <button data-testid="retweet" aria-label="1.2K reposts"></button>
  <button data-testid="like" aria-label="3,400 Likes"></button>
  <a href="/jack/status/100/analytics">56K</a>
  <img src="https://pbs.twimg.com/media/abc.jpg">
</article>

<article data-testid="tweet">
  <a href="/jack/status/101"><time datetime="2026-02-01T00:00:00.000Z">Feb 1</time></a>
  <div>Replying to <a>@someone</a></div>
  <div data-testid="tweetText">a reply</div>
  <button data-testid="reply"></button>
  <button data-testid="retweet"></button>
  <button data-testid="like"></button>
</article>

<article data-testid="tweet">
  <div data-testid="socialContext">Jack Dorsey reposted</div>
  <a href="/original_author"></a>
  <a href="/jack/status/102"><time datetime="2026-02-02T00:00:00.000Z">Feb 2</time></a>
  <div data-testid="tweetText">a repost</div>
  <button data-testid="reply"></button>
  <button data-testid="retweet"></button>
  <button data-testid="like"></button>
</article>

<article data-testid="tweet">
  <a href="/jack/status/103"><time datetime="2026-02-03T00:00:00.000Z">Feb 3</time></a>
  <div data-testid="tweetText">a quote</div>
  <div data-testid="quoteTweet"><a href="/other/status/555">quoted</a></div>
  <button data-testid="reply"></button>
  <button data-testid="retweet"></button>
  <button data-testid="like"></button>
</article>
</body></html>`

func TestParseProfile(t *testing.T) {
	ex := Parser{}.Parse(fixture, "jack")
	if ex.Profile == nil {
		t.Fatalf("no profile extracted, warnings: %v", ex.Warnings)
	}

	p := ex.Profile
	if p.DisplayName != "Jack Dorsey" {
		t.Errorf("display name = %q", p.DisplayName)
	}
	if p.Handle != "jack" {
		t.Errorf("handle = %q", p.Handle)
	}
	if p.Bio != "bluesky guy" {
		t.Errorf("bio = %q", p.Bio)
	}
	if p.Website != "https://bsky.app" {
		t.Errorf("website = %q", p.Website)
	}
	if p.JoinedDate != "Joined March 2006" {
		t.Errorf("join date = %q", p.JoinedDate)
	}
	if p.Followers != "6.4M" || p.Following != "4,321" {
		t.Errorf("counts = %q / %q", p.Followers, p.Following)
	}
	if !p.Verified {
		t.Error("verified badge not detected")
	}
}

func TestParsePosts(t *testing.T) {
	ex := Parser{}.Parse(fixture, "jack")
	if len(ex.Posts) != 4 {
		t.Fatalf("got %d posts, want 4", len(ex.Posts))
	}

	pinned := ex.Posts[0]
	if pinned.ID != "100" {
		t.Errorf("id = %q", pinned.ID)
	}
	if !pinned.Pinned {
		t.Error("pinned banner not detected")
	}
	if pinned.URL != "https://x.com/jack/status/100" {
		t.Errorf("url = %q, query string should be stripped", pinned.URL)
	}
	if pinned.Replies != "12" || pinned.Reposts != "1.2K" || pinned.Likes != "3,400" {
		t.Errorf("metrics = %q/%q/%q", pinned.Replies, pinned.Reposts, pinned.Likes)
	}
	if pinned.Views != "56K" {
		t.Errorf("views = %q", pinned.Views)
	}
	if pinned.CreatedAt != "2026-01-01T00:00:00.000Z" {
		t.Errorf("created at = %q", pinned.CreatedAt)
	}
	if len(pinned.MediaURLs) != 1 || !strings.Contains(pinned.MediaURLs[0], "abc.jpg") {
		t.Errorf("media = %v", pinned.MediaURLs)
	}

	reply := ex.Posts[1]
	if !reply.IsReply || reply.ReplyTo != "someone" {
		t.Errorf("reply detection: is_reply=%v reply_to=%q", reply.IsReply, reply.ReplyTo)
	}
	// Buttons with no label mean zero engagement.
	if reply.Likes != "0" {
		t.Errorf("likes = %q, want 0", reply.Likes)
	}

	repost := ex.Posts[2]
	if !repost.IsRepost || repost.RepostedFrom != "original_author" {
		t.Errorf("repost detection: is_repost=%v from=%q", repost.IsRepost, repost.RepostedFrom)
	}

	quote := ex.Posts[3]
	if !quote.IsQuote || quote.QuotedID != "555" {
		t.Errorf("quote detection: is_quote=%v quoted=%q", quote.IsQuote, quote.QuotedID)
	}
}

func TestParseMissingProfile(t *testing.T) {
	ex := Parser{}.Parse("<html><body><p>nothing here</p></body></html>", "jack")
	if ex.Profile != nil {
		t.Errorf("profile = %+v, want nil", ex.Profile)
	}
	if len(ex.Warnings) == 0 {
		t.Error("missing profile should produce a warning")
	}
}

func TestParseDefaultsHandle(t *testing.T) {
	html := `<div data-testid="UserName"><span>Only Name</span></div>`
	ex := Parser{}.Parse(html, "fallback")
	if ex.Profile == nil || ex.Profile.Handle != "fallback" {
		t.Errorf("profile = %+v, want handle fallback", ex.Profile)
	}
}
