package image

import (
	"context"
	"fmt"
	"strings"

	"clipforge/internal/domain"
)

// Request carries the inputs for thumbnail design.
type Request struct {
	Topic string
	Tone  string
	Hook  string
}

// Designer is the contract implemented by all thumbnail providers. Every
// implementation populates ThumbnailAsset.Prompt with BuildPrompt so the
// user can regenerate manually regardless of which path executed.
type Designer interface {
	Design(ctx context.Context, req Request) (*domain.ThumbnailAsset, error)
}

// BuildPrompt derives the image prompt deterministically from the inputs.
// Two calls with identical topic, tone, and hook produce an identical string.
func BuildPrompt(topic, tone, hook string) string {
	topic = strings.TrimSpace(topic)
	tone = strings.TrimSpace(tone)
	hook = strings.TrimSpace(hook)
	sb := &strings.Builder{}
	fmt.Fprintf(sb, "Vertical 9:16 thumbnail for a short-form video about %q.", topic)
	if tone != "" {
		fmt.Fprintf(sb, " Visual mood: %s.", tone)
	}
	if hook != "" {
		fmt.Fprintf(sb, " The image should echo the opening line: %q.", hook)
	}
	sb.WriteString(" High contrast, bold composition, large readable text area, no watermark.")
	return sb.String()
}
