package normalize

import (
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/codeGROOVE-dev/xscrape/pkg/extract"
	"github.com/codeGROOVE-dev/xscrape/pkg/record"
)

func TestBuildProfile(t *testing.T) {
	now := time.Date(2026, time.March, 15, 12, 0, 0, 0, time.UTC)
	raw := &extract.RawProfile{
		Handle:      "Jack",
		DisplayName: "jack",
		Bio:         "bio here",
		Website:     "https://example.com",
		JoinedDate:  "Joined March 2009",
		Followers:   "6.4M",
		Following:   "4,321",
		PostCount:   "29.1K",
		Verified:    true,
	}

	got, warnings := BuildProfile(raw, "jack", now)
	if len(warnings) != 0 {
		t.Fatalf("unexpected warnings: %v", warnings)
	}

	joined := time.Date(2009, time.March, 1, 0, 0, 0, 0, time.UTC)
	want := &record.Profile{
		Handle:      "jack",
		DisplayName: "jack",
		Bio:         "bio here",
		Website:     "https://example.com",
		JoinedAt:    &joined,
		Followers:   6_400_000,
		Following:   4321,
		PostCount:   29_100,
		Verified:    true,
		ScrapedAt:   now,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("BuildProfile mismatch (-want +got):\n%s", diff)
	}
}

func TestBuildProfileWarnsOnBadCounts(t *testing.T) {
	now := time.Now().UTC()
	raw := &extract.RawProfile{
		Handle:    "someone",
		Followers: "",
		Following: "???",
		PostCount: "0",
	}

	got, warnings := BuildProfile(raw, "someone", now)
	if got.Followers != 0 || got.Following != 0 {
		t.Errorf("bad counts should default to zero, got followers=%d following=%d",
			got.Followers, got.Following)
	}
	if len(warnings) != 2 {
		t.Fatalf("want 2 warnings, got %d: %v", len(warnings), warnings)
	}
	if !strings.Contains(warnings[0], "followers") {
		t.Errorf("first warning should mention followers: %q", warnings[0])
	}
}

func TestBuildProfileNil(t *testing.T) {
	got, warnings := BuildProfile(nil, "jack", time.Now())
	if got != nil || warnings != nil {
		t.Errorf("BuildProfile(nil) = %v, %v; want nil, nil", got, warnings)
	}
}

func TestBuildPosts(t *testing.T) {
	now := time.Date(2026, time.March, 15, 12, 0, 0, 0, time.UTC)
	raws := []extract.RawPost{
		{
			ID:        "100",
			Text:      "hello",
			CreatedAt: "2026-03-14T08:00:00.000Z",
			Replies:   "12",
			Reposts:   "1.2K",
			Likes:     "3,400",
			Views:     "56K",
			URL:       "https://x.com/jack/status/100",
		},
		{
			// No ID: dropped with a warning.
			Text: "ghost",
		},
		{
			ID:      "101",
			Text:    "reply post",
			IsReply: true,
			ReplyTo: "@Someone",
			Replies: "0",
			Reposts: "0",
			Likes:   "0",
		},
	}

	posts, warnings := BuildPosts(raws, "jack", now)
	if len(posts) != 2 {
		t.Fatalf("want 2 posts, got %d", len(posts))
	}

	first := posts[0]
	if first.Replies != 12 || first.Reposts != 1200 || first.Likes != 3400 {
		t.Errorf("metrics = %d/%d/%d, want 12/1200/3400",
			first.Replies, first.Reposts, first.Likes)
	}
	if first.Views == nil || *first.Views != 56_000 {
		t.Errorf("views = %v, want 56000", first.Views)
	}
	if first.CreatedAt == nil || !first.CreatedAt.Equal(time.Date(2026, time.March, 14, 8, 0, 0, 0, time.UTC)) {
		t.Errorf("created at = %v", first.CreatedAt)
	}

	if posts[1].ReplyTo != "someone" {
		t.Errorf("reply target should be normalized, got %q", posts[1].ReplyTo)
	}
	if posts[1].URL != "https://x.com/jack/status/101" {
		t.Errorf("missing permalink should default to canonical URL, got %q", posts[1].URL)
	}

	foundDrop := false
	for _, w := range warnings {
		if strings.Contains(w, "without ID") {
			foundDrop = true
		}
	}
	if !foundDrop {
		t.Errorf("expected a dropped-post warning, got %v", warnings)
	}
}

func TestOrderPosts(t *testing.T) {
	ts := func(day int) *time.Time {
		t := time.Date(2026, time.March, day, 0, 0, 0, 0, time.UTC)
		return &t
	}

	posts := []record.Post{
		{ID: "A", Pinned: true, CreatedAt: ts(1)},
		{ID: "B", CreatedAt: ts(5)},
		{ID: "C", Pinned: true, CreatedAt: ts(2)},
		{ID: "D", CreatedAt: ts(3)},
	}

	OrderPosts(posts)

	var got []string
	for _, p := range posts {
		got = append(got, p.ID)
	}
	want := []string{"A", "C", "B", "D"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("order mismatch (-want +got):\n%s", diff)
	}
}

func TestOrderPostsNilTimestampsLast(t *testing.T) {
	ts := func(day int) *time.Time {
		t := time.Date(2026, time.March, day, 0, 0, 0, 0, time.UTC)
		return &t
	}

	posts := []record.Post{
		{ID: "X"},
		{ID: "Y", CreatedAt: ts(2)},
		{ID: "Z"},
		{ID: "W", CreatedAt: ts(9)},
	}

	OrderPosts(posts)

	var got []string
	for _, p := range posts {
		got = append(got, p.ID)
	}
	// Timestamped posts newest first, then nil timestamps in original order.
	want := []string{"W", "Y", "X", "Z"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("order mismatch (-want +got):\n%s", diff)
	}
}
