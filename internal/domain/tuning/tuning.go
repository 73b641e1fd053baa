package tuning

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ScenePolicy controls how many scenes each duration preference yields.
type ScenePolicy struct {
	Short  int `yaml:"short"`
	Medium int `yaml:"medium"`
	Long   int `yaml:"long"`
}

// HashtagPolicy caps hashtag counts per platform.
type HashtagPolicy struct {
	YouTube   int `yaml:"youtube"`
	TikTok    int `yaml:"tiktok"`
	Reels     int `yaml:"reels"`
	Instagram int `yaml:"instagram"`
}

// SchedulePolicy holds the human-readable posting window hint per platform.
type SchedulePolicy struct {
	YouTube   string `yaml:"youtube"`
	TikTok    string `yaml:"tiktok"`
	Reels     string `yaml:"reels"`
	Instagram string `yaml:"instagram"`
}

// Config tunes the generation stages. Every field has a compiled-in default
// so the file is optional.
type Config struct {
	Scenes   ScenePolicy    `yaml:"scenes"`
	Hashtags HashtagPolicy  `yaml:"hashtags"`
	Schedule SchedulePolicy `yaml:"schedule"`
	// MaxKeywords caps the script keyword list.
	MaxKeywords int `yaml:"max_keywords"`
}

// Default returns the compiled-in tuning values.
func Default() Config {
	return Config{
		Scenes: ScenePolicy{Short: 3, Medium: 4, Long: 6},
		Hashtags: HashtagPolicy{
			YouTube:   5,
			TikTok:    6,
			Reels:     5,
			Instagram: 8,
		},
		Schedule: SchedulePolicy{
			YouTube:   "Post 2-4pm local; YouTube Shorts surface best in the afternoon browse feed",
			TikTok:    "Post 7-9am local for peak TikTok engagement",
			Reels:     "Post 11am-1pm local when Reels browsing spikes over lunch",
			Instagram: "Post 6-8pm local; evening feeds reward carousel-adjacent clips",
		},
		MaxKeywords: 8,
	}
}

// Load reads a YAML tuning file and overlays it on the defaults. A missing
// path returns the defaults unchanged.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read tuning file: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse tuning file: %w", err)
	}
	cfg.applyFloors()
	return cfg, nil
}

// applyFloors keeps user-supplied values inside the documented invariants:
// short scenes stay at 3 or more and counts never shrink across durations.
func (c *Config) applyFloors() {
	def := Default()
	if c.Scenes.Short < 3 {
		c.Scenes.Short = def.Scenes.Short
	}
	if c.Scenes.Medium < c.Scenes.Short {
		c.Scenes.Medium = c.Scenes.Short
	}
	if c.Scenes.Long < c.Scenes.Medium {
		c.Scenes.Long = c.Scenes.Medium
	}
	if c.MaxKeywords <= 0 {
		c.MaxKeywords = def.MaxKeywords
	}
	if c.Hashtags.YouTube <= 0 {
		c.Hashtags.YouTube = def.Hashtags.YouTube
	}
	if c.Hashtags.TikTok <= 0 {
		c.Hashtags.TikTok = def.Hashtags.TikTok
	}
	if c.Hashtags.Reels <= 0 {
		c.Hashtags.Reels = def.Hashtags.Reels
	}
	if c.Hashtags.Instagram <= 0 {
		c.Hashtags.Instagram = def.Hashtags.Instagram
	}
	if c.Schedule.YouTube == "" {
		c.Schedule.YouTube = def.Schedule.YouTube
	}
	if c.Schedule.TikTok == "" {
		c.Schedule.TikTok = def.Schedule.TikTok
	}
	if c.Schedule.Reels == "" {
		c.Schedule.Reels = def.Schedule.Reels
	}
	if c.Schedule.Instagram == "" {
		c.Schedule.Instagram = def.Schedule.Instagram
	}
}
