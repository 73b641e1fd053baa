package pipeline

import (
	"fmt"

	"clipforge/internal/domain"
	"clipforge/internal/providers/video"
)

// buildWorkflowNotes assembles ordered editing tips for the finished bundle.
// Fallback assets get a note telling the editor what to replace.
func buildWorkflowNotes(result *domain.GenerationResult) []string {
	notes := []string{
		fmt.Sprintf("Script runs %d scenes; re-read the hook aloud before cutting the first frame.", len(result.Script.Scenes)),
		"Burned-in captions outperform auto-subtitles on every vertical feed.",
		"Reuse the script keywords as upload tags and search terms.",
	}
	if result.Voiceover.Format == "wav" {
		notes = append(notes, "Voiceover is a placeholder tone. Record or synthesize a real track before publishing.")
	}
	if video.IsPlaceholder(&result.Video) {
		notes = append(notes, "Video is a silent placeholder container. Render the scenes against the voiceover in your editor.")
	}
	if result.Thumbnail.Format == "svg" {
		notes = append(notes, "Thumbnail is a generated placeholder. Rerun the saved prompt through an image model for production art.")
	}
	return notes
}
