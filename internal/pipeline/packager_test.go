package pipeline

import (
	"strings"
	"testing"

	"clipforge/internal/domain"
	"clipforge/internal/domain/tuning"
)

func packagerScript() *domain.Script {
	return &domain.Script{
		Hook: "urban beekeeping will change how you see cities",
		Scenes: []domain.Scene{
			{ID: "scene-01", Title: "The Setup", Narration: "Rooftops make ideal hive sites.", VisualIdea: "Rooftop hives"},
		},
		Closing:  "Start small, start now.",
		Keywords: []string{"urban", "beekeeping", "honey", "Urban", "city life"},
	}
}

func TestPackageOnePostPerPlatformInOrder(t *testing.T) {
	p := NewPackager(tuning.Default())
	posts := p.Package(packagerScript(), "Follow for more.", []domain.Platform{
		domain.PlatformTikTok,
		domain.PlatformYouTube,
	})
	if len(posts) != 2 {
		t.Fatalf("posts = %d, want 2", len(posts))
	}
	if posts[0].Platform != domain.PlatformTikTok || posts[1].Platform != domain.PlatformYouTube {
		t.Fatalf("post order = [%s, %s], want caller order", posts[0].Platform, posts[1].Platform)
	}
}

func TestPackageDropsDuplicatePlatforms(t *testing.T) {
	p := NewPackager(tuning.Default())
	posts := p.Package(packagerScript(), "", []domain.Platform{
		domain.PlatformYouTube,
		domain.PlatformYouTube,
		domain.PlatformTikTok,
	})
	if len(posts) != 2 {
		t.Fatalf("posts = %d, want 2 after dedupe", len(posts))
	}
	if posts[0].Platform != domain.PlatformYouTube || posts[1].Platform != domain.PlatformTikTok {
		t.Fatal("dedupe did not preserve first-occurrence order")
	}
}

func TestPackageEmptyPlatformsTargetsAll(t *testing.T) {
	p := NewPackager(tuning.Default())
	posts := p.Package(packagerScript(), "", nil)
	if len(posts) != len(domain.AllPlatforms) {
		t.Fatalf("posts = %d, want %d", len(posts), len(domain.AllPlatforms))
	}
	for i, platform := range domain.AllPlatforms {
		if posts[i].Platform != platform {
			t.Fatalf("posts[%d].Platform = %s, want %s", i, posts[i].Platform, platform)
		}
	}
}

func TestPackageHeadlineCasing(t *testing.T) {
	p := NewPackager(tuning.Default())
	posts := p.Package(packagerScript(), "", []domain.Platform{
		domain.PlatformYouTube,
		domain.PlatformTikTok,
	})
	if !strings.HasPrefix(posts[0].Headline, "Urban Beekeeping") {
		t.Fatalf("youtube headline = %q, want title case", posts[0].Headline)
	}
	if !strings.HasPrefix(posts[1].Headline, "urban beekeeping") {
		t.Fatalf("tiktok headline = %q, want the hook's original voice", posts[1].Headline)
	}
}

func TestPackageHeadlineTruncation(t *testing.T) {
	p := NewPackager(tuning.Default())
	scr := packagerScript()
	scr.Hook = strings.Repeat("very long hook ", 10)
	posts := p.Package(scr, "", []domain.Platform{domain.PlatformTikTok})
	headline := []rune(posts[0].Headline)
	if len(headline) > maxHeadlineLen {
		t.Fatalf("headline runs %d runes, want at most %d", len(headline), maxHeadlineLen)
	}
	if !strings.HasSuffix(posts[0].Headline, "…") {
		t.Fatal("truncated headline has no ellipsis")
	}
}

func TestPackageHashtags(t *testing.T) {
	cfg := tuning.Default()
	p := NewPackager(cfg)
	posts := p.Package(packagerScript(), "", []domain.Platform{
		domain.PlatformYouTube,
		domain.PlatformTikTok,
		domain.PlatformInstagram,
	})
	for _, post := range posts {
		if len(post.Hashtags) == 0 {
			t.Fatalf("%s post has no hashtags", post.Platform)
		}
		seen := map[string]struct{}{}
		for _, tag := range post.Hashtags {
			if !strings.HasPrefix(tag, "#") {
				t.Fatalf("%s tag %q missing # prefix", post.Platform, tag)
			}
			if strings.ContainsAny(tag[1:], " -_.") {
				t.Fatalf("%s tag %q carries separator characters", post.Platform, tag)
			}
			key := strings.ToLower(tag)
			if _, dup := seen[key]; dup {
				t.Fatalf("%s tag %q duplicated", post.Platform, tag)
			}
			seen[key] = struct{}{}
		}
	}
	youtube, tiktok, instagram := posts[0], posts[1], posts[2]
	if len(youtube.Hashtags) > cfg.Hashtags.YouTube {
		t.Fatalf("youtube tags = %d, limit %d", len(youtube.Hashtags), cfg.Hashtags.YouTube)
	}
	if len(tiktok.Hashtags) > cfg.Hashtags.TikTok {
		t.Fatalf("tiktok tags = %d, limit %d", len(tiktok.Hashtags), cfg.Hashtags.TikTok)
	}
	if tiktok.Hashtags[0] != strings.ToLower(tiktok.Hashtags[0]) {
		t.Fatalf("tiktok tag %q not lowercase", tiktok.Hashtags[0])
	}
	joined := strings.Join(instagram.Hashtags, " ")
	if !strings.Contains(joined, "#instagood") {
		t.Fatalf("instagram tags %v missing discovery padding", instagram.Hashtags)
	}
}

func TestPackageCaptionAppendsCallToActionOnce(t *testing.T) {
	p := NewPackager(tuning.Default())
	posts := p.Package(packagerScript(), "Subscribe today.", []domain.Platform{domain.PlatformYouTube})
	caption := posts[0].Caption
	if !strings.Contains(caption, "Start small, start now.") {
		t.Fatalf("caption %q lost the closing", caption)
	}
	if strings.Count(strings.ToLower(caption), "subscribe today") != 1 {
		t.Fatalf("caption %q does not carry the call to action exactly once", caption)
	}

	scr := packagerScript()
	scr.Closing = "Subscribe today and start small."
	posts = p.Package(scr, "Subscribe today.", []domain.Platform{domain.PlatformYouTube})
	if strings.Count(strings.ToLower(posts[0].Caption), "subscribe today") != 1 {
		t.Fatalf("caption %q duplicated the call to action", posts[0].Caption)
	}
}

func TestPackageScheduleHints(t *testing.T) {
	cfg := tuning.Default()
	p := NewPackager(cfg)
	posts := p.Package(packagerScript(), "", nil)
	want := map[domain.Platform]string{
		domain.PlatformYouTube:   cfg.Schedule.YouTube,
		domain.PlatformTikTok:    cfg.Schedule.TikTok,
		domain.PlatformReels:     cfg.Schedule.Reels,
		domain.PlatformInstagram: cfg.Schedule.Instagram,
	}
	for _, post := range posts {
		if post.ScheduleHint == "" {
			t.Fatalf("%s post has no schedule hint", post.Platform)
		}
		if post.ScheduleHint != want[post.Platform] {
			t.Fatalf("%s hint = %q, want %q", post.Platform, post.ScheduleHint, want[post.Platform])
		}
	}
}
