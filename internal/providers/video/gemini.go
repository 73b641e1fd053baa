package video

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"clipforge/internal/domain"
)

type GeminiOptions struct {
	APIKey     string
	Model      string
	BaseURL    string
	HTTPClient *http.Client
	Retries    int
	Fallback   Composer
	OnFallback func(reason string, err error)
}

// GeminiComposer sends the script beats and the voiceover track to the
// Gemini video model and degrades to its fallback composer on any failure.
type GeminiComposer struct {
	apiKey     string
	model      string
	baseURL    string
	client     *http.Client
	retries    int
	fallback   Composer
	onFallback func(reason string, err error)
}

const geminiDefaultTimeout = 120 * time.Second

type geminiGenerateRequest struct {
	Contents []geminiContent `json:"contents"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts,omitempty"`
}

type geminiPart struct {
	Text       string            `json:"text,omitempty"`
	InlineData *geminiInlineData `json:"inlineData,omitempty"`
}

type geminiInlineData struct {
	MimeType string `json:"mimeType,omitempty"`
	Data     string `json:"data,omitempty"`
}

type geminiGenerateResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
}

func NewGeminiComposer(opts GeminiOptions) (*GeminiComposer, error) {
	if strings.TrimSpace(opts.APIKey) == "" {
		return nil, errors.New("gemini api key is required")
	}
	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = "https://generativelanguage.googleapis.com/v1beta"
	}
	model := strings.TrimSpace(opts.Model)
	if model == "" {
		model = "veo-3.0-generate-preview"
	}
	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: geminiDefaultTimeout}
	}
	retries := opts.Retries
	if retries < 0 {
		retries = 0
	}
	return &GeminiComposer{
		apiKey:     strings.TrimSpace(opts.APIKey),
		model:      model,
		baseURL:    baseURL,
		client:     client,
		retries:    retries,
		fallback:   opts.Fallback,
		onFallback: opts.OnFallback,
	}, nil
}

func (g *GeminiComposer) Compose(ctx context.Context, script *domain.Script, voiceover *domain.MediaAsset) (*domain.MediaAsset, error) {
	if g.apiKey == "" {
		return g.useFallback(ctx, script, voiceover, "missing_api_key", nil)
	}
	parts := []geminiPart{{Text: buildRenderPrompt(script)}}
	if voiceover != nil && voiceover.Base64 != "" {
		parts = append(parts, geminiPart{InlineData: &geminiInlineData{
			MimeType: audioMime(voiceover.Format),
			Data:     voiceover.Base64,
		}})
	}
	payload, err := json.Marshal(geminiGenerateRequest{
		Contents: []geminiContent{{Role: "user", Parts: parts}},
	})
	if err != nil {
		return g.useFallback(ctx, script, voiceover, "encode_request", err)
	}

	var out geminiGenerateResponse
	var lastErr error
	for attempt := 0; attempt <= g.retries; attempt++ {
		out = geminiGenerateResponse{}
		lastErr = g.invoke(ctx, payload, &out)
		if lastErr == nil {
			break
		}
		if ctx.Err() != nil {
			break
		}
	}
	if lastErr != nil {
		return g.useFallback(ctx, script, voiceover, "http_request", lastErr)
	}

	for _, cand := range out.Candidates {
		for _, part := range cand.Content.Parts {
			if part.InlineData == nil || part.InlineData.Data == "" {
				continue
			}
			return &domain.MediaAsset{
				Format: "mp4",
				Base64: part.InlineData.Data,
			}, nil
		}
	}
	return g.useFallback(ctx, script, voiceover, "empty_response", errors.New("no video content returned"))
}

func (g *GeminiComposer) invoke(ctx context.Context, payload []byte, out *geminiGenerateResponse) error {
	endpoint := fmt.Sprintf("%s/models/%s:generateContent", g.baseURL, url.PathEscape(g.model))
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-goog-api-key", g.apiKey)
	resp, err := g.client.Do(httpReq)
	if err != nil {
		return err
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("gemini status %d", resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func (g *GeminiComposer) useFallback(ctx context.Context, script *domain.Script, voiceover *domain.MediaAsset, reason string, err error) (*domain.MediaAsset, error) {
	if g.onFallback != nil {
		g.onFallback(reason, err)
	}
	fallback := g.fallback
	if fallback == nil {
		fallback = NewPlaceholderComposer()
	}
	// The remote call may have consumed the whole stage deadline. The local
	// fallback must still complete, so it runs detached from that deadline.
	return fallback.Compose(context.WithoutCancel(ctx), script, voiceover)
}

func audioMime(format string) string {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "wav":
		return "audio/wav"
	default:
		return "audio/mpeg"
	}
}

var _ Composer = (*GeminiComposer)(nil)
