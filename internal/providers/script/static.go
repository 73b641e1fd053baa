package script

import (
	"context"
	"fmt"
	"strings"

	"clipforge/internal/domain"
	"clipforge/internal/domain/tuning"
)

// StaticGenerator writes a complete script locally with no external call.
// It is deterministic for identical inputs and never fails for a non-empty
// topic, which makes it both the offline default and the fallback target for
// the remote generator.
type StaticGenerator struct {
	scenes      tuning.ScenePolicy
	maxKeywords int
}

func NewStaticGenerator(cfg tuning.Config) *StaticGenerator {
	return &StaticGenerator{scenes: cfg.Scenes, maxKeywords: cfg.MaxKeywords}
}

// Scene beats are ordered so that any prefix still reads as a coherent
// narrative arc.
var sceneBeats = []struct {
	title  string
	angle  string
	visual string
}{
	{"The setup", "Here is the part of %s everyone skips", "fast cuts of the subject with bold captions"},
	{"Why it matters", "This is why %s matters more than people admit", "split screen comparing before and after"},
	{"The surprise", "The surprising thing about %s is how quickly it compounds", "zoom on a single striking detail"},
	{"What most miss", "Most people get %s wrong in the same predictable way", "overlay of a common mistake crossed out"},
	{"Make it work", "Turning %s into a habit takes one small change", "hands-on demonstration shot from above"},
	{"The proof", "The numbers behind %s back this up", "animated chart rising over footage"},
	{"Avoid the trap", "One trap around %s undoes all the progress", "red warning frame with slow motion"},
	{"Level up", "Once %s clicks, the next step is obvious", "montage speeding up toward the closing shot"},
}

var narrationFillers = []string{
	"Keep this in mind for %s.",
	"It works for a %s too.",
}

func (s *StaticGenerator) Generate(ctx context.Context, req Request) (*domain.Script, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	topic := strings.TrimSpace(req.Topic)
	if topic == "" {
		return nil, domain.ErrInvalidTopic
	}

	cta := strings.TrimSpace(req.CallToAction)
	if cta == "" {
		cta = domain.DefaultCallToAction
	}

	count, sentences := s.scale(req.Duration)
	scenes := make([]domain.Scene, 0, count)
	for i := 0; i < count; i++ {
		beat := sceneBeats[i%len(sceneBeats)]
		narration := fmt.Sprintf(beat.angle+".", topic)
		if sentences >= 2 {
			narration += " " + fmt.Sprintf(narrationFillers[0], topic)
		}
		if sentences >= 3 {
			narration += " " + fmt.Sprintf(narrationFillers[1], req.Audience)
		}
		scenes = append(scenes, domain.Scene{
			ID:         fmt.Sprintf("scene-%02d", i+1),
			Title:      beat.title,
			Narration:  narration,
			VisualIdea: beat.visual,
		})
	}

	keywords := normalizeKeywords(
		append(append(tokenize(topic), tokenize(req.Tone)...), tokenize(req.Audience)...),
		s.maxKeywords,
		"shorts",
	)

	return &domain.Script{
		Hook:     fmt.Sprintf("%s — here's what nobody tells you.", topicSnippet(topic)),
		Scenes:   scenes,
		Closing:  fmt.Sprintf("Now you see %s differently. %s.", topicSnippet(topic), strings.TrimSuffix(cta, ".")),
		Keywords: keywords,
	}, nil
}

// scale maps the duration preference onto scene count and sentences per
// scene: fewer and shorter scenes for short clips, more and longer for long.
func (s *StaticGenerator) scale(d domain.DurationPreference) (count, sentences int) {
	switch d {
	case domain.DurationShort:
		return s.scenes.Short, 1
	case domain.DurationLong:
		return s.scenes.Long, 3
	default:
		return s.scenes.Medium, 2
	}
}

var _ Generator = (*StaticGenerator)(nil)
