package script

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
	"clipforge/internal/domain/tuning"
)

type GeminiOptions struct {
	APIKey      string
	Model       string
	BaseURL     string
	HTTPClient  *http.Client
	Retries     int
	MaxKeywords int
	Fallback    Generator
	OnFallback  func(reason string, err error)
}

// GeminiGenerator drafts scripts through the Gemini generateContent API and
// degrades to its fallback generator on any failure.
type GeminiGenerator struct {
	apiKey      string
	model       string
	baseURL     string
	client      *http.Client
	retries     int
	maxKeywords int
	fallback    Generator
	onFallback  func(reason string, err error)
}

const geminiDefaultTimeout = 30 * time.Second

type geminiRequest struct {
	Contents         []geminiContent         `json:"contents"`
	GenerationConfig *geminiGenerationConfig `json:"generationConfig,omitempty"`
}

type geminiContent struct {
	Role  string       `json:"role"`
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text,omitempty"`
}

type geminiGenerationConfig struct {
	Temperature      float64 `json:"temperature,omitempty"`
	CandidateCount   int     `json:"candidateCount,omitempty"`
	ResponseMimeType string  `json:"responseMimeType,omitempty"`
}

type geminiResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
}

func NewGeminiGenerator(opts GeminiOptions) (*GeminiGenerator, error) {
	if strings.TrimSpace(opts.APIKey) == "" {
		return nil, errors.New("gemini api key is required")
	}
	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = "https://generativelanguage.googleapis.com/v1beta"
	}
	model := strings.TrimSpace(opts.Model)
	if model == "" {
		model = "gemini-2.5-flash"
	}
	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: geminiDefaultTimeout}
	}
	retries := opts.Retries
	if retries < 0 {
		retries = 0
	}
	maxKeywords := opts.MaxKeywords
	if maxKeywords <= 0 {
		maxKeywords = tuning.Default().MaxKeywords
	}
	return &GeminiGenerator{
		apiKey:      strings.TrimSpace(opts.APIKey),
		model:       model,
		baseURL:     baseURL,
		client:      client,
		retries:     retries,
		maxKeywords: maxKeywords,
		fallback:    opts.Fallback,
		onFallback:  opts.OnFallback,
	}, nil
}

func (g *GeminiGenerator) Generate(ctx context.Context, req Request) (*domain.Script, error) {
	if g.apiKey == "" {
		return g.useFallback(ctx, req, "missing_api_key", nil)
	}
	payload := geminiRequest{
		Contents: []geminiContent{{
			Role:  "user",
			Parts: []geminiPart{{Text: g.buildPrompt(req)}},
		}},
		GenerationConfig: &geminiGenerationConfig{
			Temperature:      0.6,
			CandidateCount:   1,
			ResponseMimeType: "application/json",
		},
	}
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(payload); err != nil {
		return g.useFallback(ctx, req, "encode_request", err)
	}
	body := buf.Bytes()

	var out geminiResponse
	var lastErr error
	for attempt := 0; attempt <= g.retries; attempt++ {
		out = geminiResponse{}
		lastErr = g.invoke(ctx, body, &out)
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

	text := g.extractText(out)
	if text == "" {
		return g.useFallback(ctx, req, "empty_response", errors.New("no text candidates"))
	}
	parsed, err := parseModelPayload[modelScriptPayload](text)
	if err != nil {
		return g.useFallback(ctx, req, "parse_payload", err)
	}
	if len(parsed.Scenes) == 0 {
		return g.useFallback(ctx, req, "empty_scenes", errors.New("no scenes returned"))
	}

	scenes := make([]domain.Scene, 0, len(parsed.Scenes))
	for i, scene := range parsed.Scenes {
		scenes = append(scenes, domain.Scene{
			ID:         fmt.Sprintf("scene-%02d", i+1),
			Title:      coalesce(scene.Title, fmt.Sprintf("Beat %d", i+1)),
			Narration:  strings.TrimSpace(scene.Narration),
			VisualIdea: coalesce(scene.VisualIdea, "b-roll matching the narration"),
		})
	}
	return &domain.Script{
		Hook:     ensureHookMentions(req.Topic, parsed.Hook),
		Scenes:   scenes,
		Closing:  coalesce(parsed.Closing, req.CallToAction),
		Keywords: normalizeKeywords(parsed.Keywords, g.maxKeywords, tokenize(req.Topic)...),
	}, nil
}

func (g *GeminiGenerator) invoke(ctx context.Context, body []byte, out *geminiResponse) error {
	endpoint := fmt.Sprintf("%s/models/%s:generateContent", g.baseURL, url.PathEscape(g.model))
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
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

func (g *GeminiGenerator) extractText(resp geminiResponse) string {
	for _, cand := range resp.Candidates {
		for _, part := range cand.Content.Parts {
			if strings.TrimSpace(part.Text) != "" {
				return part.Text
			}
		}
	}
	return ""
}

func (g *GeminiGenerator) useFallback(ctx context.Context, req Request, reason string, err error) (*domain.Script, error) {
	if g.onFallback != nil {
		g.onFallback(reason, err)
	}
	fallback := g.fallback
	if fallback == nil {
		fallback = NewStaticGenerator(tuning.Default())
	}
	// The remote call may have consumed the whole stage deadline. The local
	// fallback must still complete, so it runs detached from that deadline.
	return fallback.Generate(context.WithoutCancel(ctx), req)
}

func (g *GeminiGenerator) buildPrompt(req Request) string {
	sceneRange := "4 to 5"
	switch req.Duration {
	case domain.DurationShort:
		sceneRange = "exactly 3"
	case domain.DurationLong:
		sceneRange = "6 or more"
	}
	sb := &strings.Builder{}
	sb.WriteString("You are a short-form video scriptwriter for vertical content. Respond strictly with JSON matching this schema: ")
	sb.WriteString(`{"hook":string,"scenes":[{"title":string,"narration":string,"visual_idea":string}],"closing":string,"keywords":string[]}`)
	fmt.Fprintf(sb, ". Write %s scenes. The hook must mention the topic directly within its first eight words.", sceneRange)
	fmt.Fprintf(sb, " Keep each narration speakable in under fifteen seconds. Topic=%q, tone=%q, audience=%q, call_to_action=%q.",
		req.Topic, req.Tone, req.Audience, req.CallToAction)
	fmt.Fprintf(sb, " Keywords: at most %d lowercase search terms.", g.maxKeywords)
	return sb.String()
}

var _ Generator = (*GeminiGenerator)(nil)
