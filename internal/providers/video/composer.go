package video

import (
	"context"
	"fmt"
	"strings"

	"clipforge/internal/domain"
)

// Composer renders the final vertical video from the script's visual beats
// and the finished voiceover track.
type Composer interface {
	Compose(ctx context.Context, script *domain.Script, voiceover *domain.MediaAsset) (*domain.MediaAsset, error)
}

// buildRenderPrompt describes the composition for a rendering model: one
// line per scene pairing the visual direction with its narration.
func buildRenderPrompt(script *domain.Script) string {
	sb := &strings.Builder{}
	sb.WriteString("Render a vertical 9:16 short-form video following these beats in order.\n")
	fmt.Fprintf(sb, "Opening hook: %s\n", script.Hook)
	for i, scene := range script.Scenes {
		fmt.Fprintf(sb, "Beat %d (%s): visuals — %s; narration — %s\n", i+1, scene.Title, scene.VisualIdea, scene.Narration)
	}
	fmt.Fprintf(sb, "Closing: %s\n", script.Closing)
	sb.WriteString("Sync cuts to the attached voiceover track.")
	return sb.String()
}
