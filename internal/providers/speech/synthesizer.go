package speech

import (
	"context"

	"clipforge/internal/domain"
)

// Synthesizer converts spoken text into a playable audio asset.
type Synthesizer interface {
	Synthesize(ctx context.Context, text string) (*domain.MediaAsset, error)
}
