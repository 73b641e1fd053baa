package speech

import (
	"context"
	"encoding/base64"
	"encoding/binary"
	"math"

	"clipforge/internal/domain"
)

const (
	toneSampleRate = 8000
	toneSeconds    = 2
	toneFrequency  = 440.0
)

// ToneSynthesizer produces a deterministic placeholder clip: a short sine
// tone in a WAV container. It guarantees the bundle always carries a playable
// voiceover even with no speech credential configured.
type ToneSynthesizer struct{}

func NewToneSynthesizer() *ToneSynthesizer {
	return &ToneSynthesizer{}
}

func (t *ToneSynthesizer) Synthesize(ctx context.Context, text string) (*domain.MediaAsset, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return &domain.MediaAsset{
		Format: "wav",
		Base64: base64.StdEncoding.EncodeToString(renderToneWAV()),
	}, nil
}

// renderToneWAV writes a mono 16-bit PCM RIFF/WAVE file with a fixed-length
// 440 Hz tone faded at both ends to avoid clicks.
func renderToneWAV() []byte {
	samples := toneSampleRate * toneSeconds
	dataSize := samples * 2
	buf := make([]byte, 0, 44+dataSize)

	buf = append(buf, 'R', 'I', 'F', 'F')
	buf = binary.LittleEndian.AppendUint32(buf, uint32(36+dataSize))
	buf = append(buf, 'W', 'A', 'V', 'E')

	buf = append(buf, 'f', 'm', 't', ' ')
	buf = binary.LittleEndian.AppendUint32(buf, 16)
	buf = binary.LittleEndian.AppendUint16(buf, 1) // PCM
	buf = binary.LittleEndian.AppendUint16(buf, 1) // mono
	buf = binary.LittleEndian.AppendUint32(buf, toneSampleRate)
	buf = binary.LittleEndian.AppendUint32(buf, toneSampleRate*2)
	buf = binary.LittleEndian.AppendUint16(buf, 2)
	buf = binary.LittleEndian.AppendUint16(buf, 16)

	buf = append(buf, 'd', 'a', 't', 'a')
	buf = binary.LittleEndian.AppendUint32(buf, uint32(dataSize))

	fade := toneSampleRate / 20
	for i := 0; i < samples; i++ {
		amp := 0.3
		if i < fade {
			amp *= float64(i) / float64(fade)
		} else if remaining := samples - i; remaining < fade {
			amp *= float64(remaining) / float64(fade)
		}
		v := amp * math.Sin(2*math.Pi*toneFrequency*float64(i)/toneSampleRate)
		buf = binary.LittleEndian.AppendUint16(buf, uint16(int16(v*math.MaxInt16)))
	}
	return buf
}

var _ Synthesizer = (*ToneSynthesizer)(nil)
