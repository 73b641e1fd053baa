package domain

import (
	"strings"
)

// Platform identifies a target social destination.
type Platform string

const (
	PlatformYouTube   Platform = "youtube"
	PlatformTikTok    Platform = "tiktok"
	PlatformReels     Platform = "reels"
	PlatformInstagram Platform = "instagram"
)

// AllPlatforms lists every supported platform in canonical order. The order
// matters: an empty platform request expands to exactly this sequence.
var AllPlatforms = []Platform{PlatformYouTube, PlatformTikTok, PlatformReels, PlatformInstagram}

// ParsePlatform sanitizes free-form input into a supported platform key.
func ParsePlatform(raw string) (Platform, bool) {
	switch Platform(strings.ToLower(strings.TrimSpace(raw))) {
	case PlatformYouTube:
		return PlatformYouTube, true
	case PlatformTikTok:
		return PlatformTikTok, true
	case PlatformReels:
		return PlatformReels, true
	case PlatformInstagram:
		return PlatformInstagram, true
	default:
		return "", false
	}
}

// NormalizePlatforms deduplicates while preserving first occurrence and
// substitutes the full platform set when the caller supplied none.
func NormalizePlatforms(platforms []Platform) []Platform {
	seen := make(map[Platform]struct{}, len(platforms))
	var result []Platform
	for _, p := range platforms {
		key, ok := ParsePlatform(string(p))
		if !ok {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		result = append(result, key)
	}
	if len(result) == 0 {
		result = append(result, AllPlatforms...)
	}
	return result
}

// DurationPreference controls how long the narrated video should run.
type DurationPreference string

const (
	DurationShort  DurationPreference = "short"
	DurationMedium DurationPreference = "medium"
	DurationLong   DurationPreference = "long"
)

// NormalizeDuration maps free-form input onto a supported preference,
// defaulting to medium.
func NormalizeDuration(raw string) DurationPreference {
	switch DurationPreference(strings.ToLower(strings.TrimSpace(raw))) {
	case DurationShort:
		return DurationShort
	case DurationLong:
		return DurationLong
	default:
		return DurationMedium
	}
}

const (
	// DefaultTone is applied when the request omits a tone preference.
	DefaultTone = "energetic and bold"
	// DefaultAudience is applied when the request omits an audience.
	DefaultAudience = "general audience"
	// DefaultCallToAction is applied when the request omits a CTA.
	DefaultCallToAction = "Follow for more content like this"
)

// GenerationRequest captures everything the pipeline needs to build a bundle.
type GenerationRequest struct {
	Topic        string             `json:"topic"`
	Tone         string             `json:"tone,omitempty"`
	Audience     string             `json:"audience,omitempty"`
	CallToAction string             `json:"call_to_action,omitempty"`
	Duration     DurationPreference `json:"duration_preference,omitempty"`
	Platforms    []Platform         `json:"platforms,omitempty"`
}

// Normalize applies documented defaults in place.
func (r *GenerationRequest) Normalize() {
	if r == nil {
		return
	}
	r.Topic = strings.TrimSpace(r.Topic)
	if strings.TrimSpace(r.Tone) == "" {
		r.Tone = DefaultTone
	}
	if strings.TrimSpace(r.Audience) == "" {
		r.Audience = DefaultAudience
	}
	if strings.TrimSpace(r.CallToAction) == "" {
		r.CallToAction = DefaultCallToAction
	}
	r.Duration = NormalizeDuration(string(r.Duration))
	r.Platforms = NormalizePlatforms(r.Platforms)
}

// Validate ensures the request satisfies the contract before any stage runs.
func (r GenerationRequest) Validate() error {
	if strings.TrimSpace(r.Topic) == "" {
		return ErrInvalidTopic
	}
	return nil
}

// Scene is one visual beat of the narration script.
type Scene struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	Narration  string `json:"narration"`
	VisualIdea string `json:"visual_idea"`
}

// Script is the structured narration produced by the script stage.
type Script struct {
	Hook     string   `json:"hook"`
	Scenes   []Scene  `json:"scenes"`
	Closing  string   `json:"closing"`
	Keywords []string `json:"keywords"`
}

// SpokenText concatenates hook, scene narrations, and closing in order.
// This is the exact text handed to the voiceover stage.
func (s Script) SpokenText() string {
	parts := make([]string, 0, len(s.Scenes)+2)
	if hook := strings.TrimSpace(s.Hook); hook != "" {
		parts = append(parts, hook)
	}
	for _, scene := range s.Scenes {
		if n := strings.TrimSpace(scene.Narration); n != "" {
			parts = append(parts, n)
		}
	}
	if closing := strings.TrimSpace(s.Closing); closing != "" {
		parts = append(parts, closing)
	}
	return strings.Join(parts, " ")
}

// MediaAsset is a binary artifact carried inline as base64 text.
type MediaAsset struct {
	Format string `json:"format"`
	Base64 string `json:"base64"`
}

// ThumbnailAsset is a still image plus the prompt that requested it. Prompt
// is populated on every path so the user can regenerate manually.
type ThumbnailAsset struct {
	Format string `json:"format"`
	Base64 string `json:"base64"`
	Prompt string `json:"prompt"`
}

// SocialPost is platform-tailored copy for one destination.
type SocialPost struct {
	Platform     Platform `json:"platform"`
	Headline     string   `json:"headline"`
	Caption      string   `json:"caption"`
	Hashtags     []string `json:"hashtags"`
	ScheduleHint string   `json:"schedule_hint"`
}

// GenerationResult is the complete bundle for one request.
type GenerationResult struct {
	Script        Script         `json:"script"`
	Voiceover     MediaAsset     `json:"voiceover"`
	Video         MediaAsset     `json:"video"`
	Thumbnail     ThumbnailAsset `json:"thumbnail"`
	SocialPosts   []SocialPost   `json:"social_posts"`
	WorkflowNotes []string       `json:"workflow_notes"`
}
