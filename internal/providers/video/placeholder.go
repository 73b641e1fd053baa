package video

import (
	"context"
	"encoding/base64"
	"encoding/binary"

	"clipforge/internal/domain"
)

// PlaceholderComposer emits a minimal valid MP4 container with no external
// call, so the bundle is always complete even when both the voiceover and
// the renderer fell back.
type PlaceholderComposer struct{}

func NewPlaceholderComposer() *PlaceholderComposer {
	return &PlaceholderComposer{}
}

func (p *PlaceholderComposer) Compose(ctx context.Context, script *domain.Script, voiceover *domain.MediaAsset) (*domain.MediaAsset, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return &domain.MediaAsset{
		Format: "mp4",
		Base64: base64.StdEncoding.EncodeToString(renderPlaceholderMP4()),
	}, nil
}

// IsPlaceholder reports whether the asset carries the deterministic
// placeholder composition rather than a rendered video.
func IsPlaceholder(asset *domain.MediaAsset) bool {
	return asset != nil && asset.Base64 == base64.StdEncoding.EncodeToString(renderPlaceholderMP4())
}

// renderPlaceholderMP4 writes the smallest box structure players accept as
// an MP4 file: an ftyp box declaring the isom brand, a free box, and an
// empty mdat box.
func renderPlaceholderMP4() []byte {
	var buf []byte
	buf = appendBox(buf, "ftyp", []byte("isom\x00\x00\x02\x00isomiso2mp41"))
	buf = appendBox(buf, "free", nil)
	buf = appendBox(buf, "mdat", nil)
	return buf
}

func appendBox(buf []byte, boxType string, payload []byte) []byte {
	buf = binary.BigEndian.AppendUint32(buf, uint32(8+len(payload)))
	buf = append(buf, boxType...)
	return append(buf, payload...)
}

var _ Composer = (*PlaceholderComposer)(nil)
