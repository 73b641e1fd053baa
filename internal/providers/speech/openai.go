package speech

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"clipforge/internal/domain"
)

type OpenAIOptions struct {
	APIKey     string
	Model      string
	Voice      string
	BaseURL    string
	HTTPClient *http.Client
	Retries    int
	Fallback   Synthesizer
	OnFallback func(reason string, err error)
}

// OpenAISynthesizer calls the OpenAI speech endpoint and returns mp3 audio.
// Any failure degrades to the fallback synthesizer.
type OpenAISynthesizer struct {
	apiKey     string
	model      string
	voice      string
	baseURL    string
	client     *http.Client
	retries    int
	fallback   Synthesizer
	onFallback func(reason string, err error)
}

const openAIDefaultTimeout = 60 * time.Second

// maxSpeechInput bounds request size; the endpoint rejects longer inputs.
const maxSpeechInput = 4096

type speechRequest struct {
	Model          string `json:"model"`
	Voice          string `json:"voice"`
	Input          string `json:"input"`
	ResponseFormat string `json:"response_format,omitempty"`
}

func NewOpenAISynthesizer(opts OpenAIOptions) (*OpenAISynthesizer, error) {
	if strings.TrimSpace(opts.APIKey) == "" {
		return nil, errors.New("openai api key is required")
	}
	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = "https://api.openai.com/v1"
	}
	model := strings.TrimSpace(opts.Model)
	if model == "" {
		model = "gpt-4o-mini-tts"
	}
	voice := strings.TrimSpace(opts.Voice)
	if voice == "" {
		voice = "alloy"
	}
	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: openAIDefaultTimeout}
	}
	retries := opts.Retries
	if retries < 0 {
		retries = 0
	}
	return &OpenAISynthesizer{
		apiKey:     strings.TrimSpace(opts.APIKey),
		model:      model,
		voice:      voice,
		baseURL:    baseURL,
		client:     client,
		retries:    retries,
		fallback:   opts.Fallback,
		onFallback: opts.OnFallback,
	}, nil
}

func (o *OpenAISynthesizer) Synthesize(ctx context.Context, text string) (*domain.MediaAsset, error) {
	if o.apiKey == "" {
		return o.useFallback(ctx, text, "missing_api_key", nil)
	}
	input := strings.TrimSpace(text)
	if input == "" {
		return o.useFallback(ctx, text, "empty_input", errors.New("no text to speak"))
	}
	input = truncateSpeechInput(input)
	payload, err := json.Marshal(speechRequest{
		Model:          o.model,
		Voice:          o.voice,
		Input:          input,
		ResponseFormat: "mp3",
	})
	if err != nil {
		return o.useFallback(ctx, text, "encode_request", err)
	}

	var audio []byte
	var lastErr error
	for attempt := 0; attempt <= o.retries; attempt++ {
		audio, lastErr = o.invoke(ctx, payload)
		if lastErr == nil {
			break
		}
		if ctx.Err() != nil {
			break
		}
	}
	if lastErr != nil {
		return o.useFallback(ctx, text, "http_request", lastErr)
	}
	if len(audio) == 0 {
		return o.useFallback(ctx, text, "empty_response", errors.New("no audio bytes"))
	}
	return &domain.MediaAsset{
		Format: "mp3",
		Base64: base64.StdEncoding.EncodeToString(audio),
	}, nil
}

func (o *OpenAISynthesizer) invoke(ctx context.Context, payload []byte) ([]byte, error) {
	endpoint := fmt.Sprintf("%s/audio/speech", o.baseURL)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+o.apiKey)
	resp, err := o.client.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("openai status %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}

func (o *OpenAISynthesizer) useFallback(ctx context.Context, text, reason string, err error) (*domain.MediaAsset, error) {
	if o.onFallback != nil {
		o.onFallback(reason, err)
	}
	fallback := o.fallback
	if fallback == nil {
		fallback = NewToneSynthesizer()
	}
	// The remote call may have consumed the whole stage deadline. The local
	// fallback must still complete, so it runs detached from that deadline.
	return fallback.Synthesize(context.WithoutCancel(ctx), text)
}

// truncateSpeechInput bounds the input to maxSpeechInput bytes without
// splitting a multi-byte rune at the cut point.
func truncateSpeechInput(input string) string {
	if len(input) <= maxSpeechInput {
		return input
	}
	cut := maxSpeechInput
	for cut > 0 && !utf8.RuneStart(input[cut]) {
		cut--
	}
	return input[:cut]
}

var _ Synthesizer = (*OpenAISynthesizer)(nil)
