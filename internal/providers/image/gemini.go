package image

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
	Fallback   Designer
	OnFallback func(reason string, err error)
}

// GeminiDesigner requests a rendered thumbnail from the Gemini image model
// and degrades to its fallback designer on any failure.
type GeminiDesigner struct {
	apiKey     string
	model      string
	baseURL    string
	client     *http.Client
	retries    int
	fallback   Designer
	onFallback func(reason string, err error)
}

const geminiDefaultTimeout = 45 * time.Second

type geminiGenerateRequest struct {
	Contents         []geminiContent  `json:"contents"`
	GenerationConfig *geminiGenConfig `json:"generationConfig,omitempty"`
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

type geminiGenConfig struct {
	ResponseModalities []string `json:"responseModalities,omitempty"`
}

type geminiGenerateResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
}

func NewGeminiDesigner(opts GeminiOptions) (*GeminiDesigner, error) {
	if strings.TrimSpace(opts.APIKey) == "" {
		return nil, errors.New("gemini api key is required")
	}
	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = "https://generativelanguage.googleapis.com/v1beta"
	}
	model := strings.TrimSpace(opts.Model)
	if model == "" {
		model = "gemini-2.5-flash-image"
	}
	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: geminiDefaultTimeout}
	}
	retries := opts.Retries
	if retries < 0 {
		retries = 0
	}
	return &GeminiDesigner{
		apiKey:     strings.TrimSpace(opts.APIKey),
		model:      model,
		baseURL:    baseURL,
		client:     client,
		retries:    retries,
		fallback:   opts.Fallback,
		onFallback: opts.OnFallback,
	}, nil
}

func (g *GeminiDesigner) Design(ctx context.Context, req Request) (*domain.ThumbnailAsset, error) {
	prompt := BuildPrompt(req.Topic, req.Tone, req.Hook)
	if g.apiKey == "" {
		return g.useFallback(ctx, req, "missing_api_key", nil)
	}
	payload, err := json.Marshal(geminiGenerateRequest{
		Contents: []geminiContent{{
			Role:  "user",
			Parts: []geminiPart{{Text: prompt}},
		}},
		GenerationConfig: &geminiGenConfig{ResponseModalities: []string{"IMAGE"}},
	})
	if err != nil {
		return g.useFallback(ctx, req, "encode_request", err)
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
		return g.useFallback(ctx, req, "http_request", lastErr)
	}

	for _, cand := range out.Candidates {
		for _, part := range cand.Content.Parts {
			if part.InlineData == nil || part.InlineData.Data == "" {
				continue
			}
			return &domain.ThumbnailAsset{
				Format: formatFromMime(part.InlineData.MimeType),
				Base64: part.InlineData.Data,
				Prompt: prompt,
			}, nil
		}
	}
	return g.useFallback(ctx, req, "empty_response", errors.New("no image content returned"))
}

func (g *GeminiDesigner) invoke(ctx context.Context, payload []byte, out *geminiGenerateResponse) error {
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

func (g *GeminiDesigner) useFallback(ctx context.Context, req Request, reason string, err error) (*domain.ThumbnailAsset, error) {
	if g.onFallback != nil {
		g.onFallback(reason, err)
	}
	fallback := g.fallback
	if fallback == nil {
		fallback = NewSVGDesigner()
	}
	// The remote call may have consumed the whole stage deadline. The local
	// fallback must still complete, so it runs detached from that deadline.
	return fallback.Design(context.WithoutCancel(ctx), req)
}

func formatFromMime(mime string) string {
	switch strings.ToLower(strings.TrimSpace(mime)) {
	case "image/jpeg", "image/jpg":
		return "jpg"
	default:
		return "png"
	}
}

var _ Designer = (*GeminiDesigner)(nil)
