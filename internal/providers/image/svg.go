package image

import (
	"context"
	"encoding/base64"
	"encoding/xml"
	"fmt"
	"hash/fnv"
	"strings"

	"clipforge/internal/domain"
)

// SVGDesigner procedurally renders a vertical placeholder thumbnail with no
// external call. Vector output keeps the asset deterministic and renderable
// everywhere.
type SVGDesigner struct{}

func NewSVGDesigner() *SVGDesigner {
	return &SVGDesigner{}
}

// palettes are paired background gradient stops; the topic hash picks one so
// distinct topics get visually distinct placeholders.
var palettes = [][2]string{
	{"#1a2a6c", "#b21f1f"},
	{"#0f2027", "#2c5364"},
	{"#42275a", "#734b6d"},
	{"#141e30", "#243b55"},
	{"#232526", "#414345"},
	{"#1f4037", "#99f2c8"},
}

func (d *SVGDesigner) Design(ctx context.Context, req Request) (*domain.ThumbnailAsset, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return &domain.ThumbnailAsset{
		Format: "svg",
		Base64: base64.StdEncoding.EncodeToString([]byte(renderSVG(req))),
		Prompt: BuildPrompt(req.Topic, req.Tone, req.Hook),
	}, nil
}

func renderSVG(req Request) string {
	h := fnv.New32a()
	_, _ = h.Write([]byte(strings.ToLower(strings.TrimSpace(req.Topic))))
	palette := palettes[h.Sum32()%uint32(len(palettes))]

	title := escapeXML(trimForDisplay(req.Topic, 48))
	subtitle := escapeXML(trimForDisplay(req.Hook, 64))

	sb := &strings.Builder{}
	sb.WriteString(`<svg xmlns="http://www.w3.org/2000/svg" width="1080" height="1920" viewBox="0 0 1080 1920">`)
	fmt.Fprintf(sb, `<defs><linearGradient id="bg" x1="0" y1="0" x2="1" y2="1"><stop offset="0%%" stop-color="%s"/><stop offset="100%%" stop-color="%s"/></linearGradient></defs>`, palette[0], palette[1])
	sb.WriteString(`<rect width="1080" height="1920" fill="url(#bg)"/>`)
	sb.WriteString(`<rect x="60" y="700" width="960" height="520" rx="32" fill="rgba(0,0,0,0.45)"/>`)
	fmt.Fprintf(sb, `<text x="540" y="920" font-family="Arial, sans-serif" font-size="88" font-weight="bold" fill="#ffffff" text-anchor="middle">%s</text>`, title)
	if subtitle != "" {
		fmt.Fprintf(sb, `<text x="540" y="1060" font-family="Arial, sans-serif" font-size="44" fill="#e0e0e0" text-anchor="middle">%s</text>`, subtitle)
	}
	sb.WriteString(`</svg>`)
	return sb.String()
}

func trimForDisplay(text string, limit int) string {
	text = strings.TrimSpace(text)
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return string(runes[:limit-1]) + "…"
}

func escapeXML(text string) string {
	var sb strings.Builder
	_ = xml.EscapeText(&sb, []byte(text))
	return sb.String()
}

var _ Designer = (*SVGDesigner)(nil)
