package pipeline

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"clipforge/internal/domain"
	"clipforge/internal/domain/tuning"
)

// Packager turns one script into platform-tailored social posts.
type Packager struct {
	hashtags tuning.HashtagPolicy
	schedule tuning.SchedulePolicy
	caser    cases.Caser
}

func NewPackager(cfg tuning.Config) *Packager {
	return &Packager{
		hashtags: cfg.Hashtags,
		schedule: cfg.Schedule,
		caser:    cases.Title(language.English),
	}
}

const maxHeadlineLen = 70

// Package produces one post per requested platform, preserving the caller's
// order and dropping duplicates past the first occurrence.
func (p *Packager) Package(script *domain.Script, callToAction string, platforms []domain.Platform) []domain.SocialPost {
	normalized := domain.NormalizePlatforms(platforms)
	posts := make([]domain.SocialPost, 0, len(normalized))
	for _, platform := range normalized {
		posts = append(posts, domain.SocialPost{
			Platform:     platform,
			Headline:     p.headline(platform, script.Hook),
			Caption:      p.caption(script.Closing, callToAction),
			Hashtags:     p.hashtagsFor(platform, script.Keywords),
			ScheduleHint: p.scheduleFor(platform),
		})
	}
	return posts
}

func (p *Packager) headline(platform domain.Platform, hook string) string {
	hook = strings.TrimSpace(hook)
	if platform == domain.PlatformYouTube {
		// YouTube titles read better title-cased; the short-video feeds
		// keep the hook's original voice.
		hook = p.caser.String(hook)
	}
	runes := []rune(hook)
	if len(runes) > maxHeadlineLen {
		hook = strings.TrimSpace(string(runes[:maxHeadlineLen-1])) + "…"
	}
	return hook
}

func (p *Packager) caption(closing, callToAction string) string {
	closing = strings.TrimSpace(closing)
	cta := strings.TrimSpace(callToAction)
	if cta == "" || strings.Contains(strings.ToLower(closing), strings.ToLower(strings.TrimSuffix(cta, "."))) {
		return closing
	}
	if closing == "" {
		return cta
	}
	return closing + " " + strings.TrimSuffix(cta, ".") + "."
}

func (p *Packager) hashtagsFor(platform domain.Platform, keywords []string) []string {
	limit := p.limitFor(platform)
	tags := make([]string, 0, limit)
	seen := make(map[string]struct{}, limit)
	add := func(raw string) {
		if len(tags) >= limit {
			return
		}
		tag := sanitizeTag(raw)
		if tag == "" {
			return
		}
		if platform == domain.PlatformYouTube {
			tag = p.caser.String(tag)
		} else {
			tag = strings.ToLower(tag)
		}
		key := strings.ToLower(tag)
		if _, dup := seen[key]; dup {
			return
		}
		seen[key] = struct{}{}
		tags = append(tags, "#"+tag)
	}
	for _, kw := range keywords {
		add(kw)
	}
	for _, trend := range trendTags(platform) {
		add(trend)
	}
	return tags
}

func (p *Packager) limitFor(platform domain.Platform) int {
	switch platform {
	case domain.PlatformYouTube:
		return p.hashtags.YouTube
	case domain.PlatformTikTok:
		return p.hashtags.TikTok
	case domain.PlatformReels:
		return p.hashtags.Reels
	default:
		return p.hashtags.Instagram
	}
}

func (p *Packager) scheduleFor(platform domain.Platform) string {
	switch platform {
	case domain.PlatformYouTube:
		return p.schedule.YouTube
	case domain.PlatformTikTok:
		return p.schedule.TikTok
	case domain.PlatformReels:
		return p.schedule.Reels
	default:
		return p.schedule.Instagram
	}
}

// trendTags pads each platform's tag list with its evergreen discovery tags.
func trendTags(platform domain.Platform) []string {
	switch platform {
	case domain.PlatformYouTube:
		return []string{"shorts"}
	case domain.PlatformTikTok:
		return []string{"fyp", "foryou"}
	case domain.PlatformReels:
		return []string{"reels"}
	default:
		return []string{"instagood", "explore"}
	}
}

func sanitizeTag(raw string) string {
	var sb strings.Builder
	for _, r := range raw {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			sb.WriteRune(r)
		}
	}
	return sb.String()
}
