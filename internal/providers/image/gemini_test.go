package image

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"
)

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

func jsonResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(strings.NewReader(body)),
		Header:     http.Header{"Content-Type": []string{"application/json"}},
	}
}

func TestGeminiDesignerReturnsInlineImage(t *testing.T) {
	client := &http.Client{Transport: roundTripFunc(func(req *http.Request) (*http.Response, error) {
		if got := req.Header.Get("x-goog-api-key"); got != "test-key" {
			t.Fatalf("x-goog-api-key = %q, want test-key", got)
		}
		var payload geminiGenerateRequest
		if err := json.NewDecoder(req.Body).Decode(&payload); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if len(payload.Contents) == 0 || len(payload.Contents[0].Parts) == 0 {
			t.Fatal("request has no prompt parts")
		}
		if !strings.Contains(payload.Contents[0].Parts[0].Text, "urban beekeeping") {
			t.Fatal("prompt does not mention the topic")
		}
		return jsonResponse(http.StatusOK, `{
			"candidates": [{
				"content": {"parts": [{"inlineData": {"mimeType": "image/png", "data": "aW1hZ2U="}}]}
			}]
		}`), nil
	})}

	designer, err := NewGeminiDesigner(GeminiOptions{APIKey: "test-key", HTTPClient: client})
	if err != nil {
		t.Fatalf("NewGeminiDesigner returned error: %v", err)
	}
	asset, err := designer.Design(context.Background(), Request{Topic: "urban beekeeping", Tone: "calm", Hook: "hook"})
	if err != nil {
		t.Fatalf("Design returned error: %v", err)
	}
	if asset.Format != "png" {
		t.Fatalf("Format = %q, want png", asset.Format)
	}
	if asset.Base64 != "aW1hZ2U=" {
		t.Fatalf("Base64 = %q, want inline payload", asset.Base64)
	}
	if !strings.Contains(asset.Prompt, "urban beekeeping") {
		t.Fatal("Prompt does not mention the topic")
	}
}

func TestGeminiDesignerMapsJPEGMime(t *testing.T) {
	client := &http.Client{Transport: roundTripFunc(func(req *http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusOK, `{
			"candidates": [{
				"content": {"parts": [{"inlineData": {"mimeType": "image/jpeg", "data": "aW1hZ2U="}}]}
			}]
		}`), nil
	})}
	designer, err := NewGeminiDesigner(GeminiOptions{APIKey: "test-key", HTTPClient: client})
	if err != nil {
		t.Fatalf("NewGeminiDesigner returned error: %v", err)
	}
	asset, err := designer.Design(context.Background(), Request{Topic: "urban beekeeping"})
	if err != nil {
		t.Fatalf("Design returned error: %v", err)
	}
	if asset.Format != "jpg" {
		t.Fatalf("Format = %q, want jpg", asset.Format)
	}
}

func TestGeminiDesignerFallsBackOnTransportError(t *testing.T) {
	client := &http.Client{Transport: roundTripFunc(func(req *http.Request) (*http.Response, error) {
		return nil, errors.New("connection refused")
	})}
	var reason string
	designer, err := NewGeminiDesigner(GeminiOptions{
		APIKey:     "test-key",
		HTTPClient: client,
		OnFallback: func(r string, err error) { reason = r },
	})
	if err != nil {
		t.Fatalf("NewGeminiDesigner returned error: %v", err)
	}
	asset, err := designer.Design(context.Background(), Request{Topic: "urban beekeeping", Hook: "hook"})
	if err != nil {
		t.Fatalf("Design returned error: %v", err)
	}
	if asset.Format != "svg" {
		t.Fatalf("fallback Format = %q, want svg", asset.Format)
	}
	if reason != "http_request" {
		t.Fatalf("fallback reason = %q, want http_request", reason)
	}
	if !strings.Contains(asset.Prompt, "urban beekeeping") {
		t.Fatal("fallback asset lost the design prompt")
	}
}

func TestGeminiDesignerFallsBackOnEmptyCandidates(t *testing.T) {
	client := &http.Client{Transport: roundTripFunc(func(req *http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusOK, `{"candidates": []}`), nil
	})}
	var reason string
	designer, err := NewGeminiDesigner(GeminiOptions{
		APIKey:     "test-key",
		HTTPClient: client,
		OnFallback: func(r string, err error) { reason = r },
	})
	if err != nil {
		t.Fatalf("NewGeminiDesigner returned error: %v", err)
	}
	asset, err := designer.Design(context.Background(), Request{Topic: "urban beekeeping"})
	if err != nil {
		t.Fatalf("Design returned error: %v", err)
	}
	if asset.Format != "svg" {
		t.Fatalf("fallback Format = %q, want svg", asset.Format)
	}
	if reason != "empty_response" {
		t.Fatalf("fallback reason = %q, want empty_response", reason)
	}
}

func TestGeminiDesignerRetriesBeforeFallback(t *testing.T) {
	attempts := 0
	client := &http.Client{Transport: roundTripFunc(func(req *http.Request) (*http.Response, error) {
		attempts++
		return jsonResponse(http.StatusServiceUnavailable, `{}`), nil
	})}
	designer, err := NewGeminiDesigner(GeminiOptions{APIKey: "test-key", HTTPClient: client, Retries: 2})
	if err != nil {
		t.Fatalf("NewGeminiDesigner returned error: %v", err)
	}
	if _, err := designer.Design(context.Background(), Request{Topic: "urban beekeeping"}); err != nil {
		t.Fatalf("Design returned error: %v", err)
	}
	if attempts != 3 {
		t.Fatalf("attempts = %d, want 3", attempts)
	}
}

func TestGeminiDesignerRequiresAPIKey(t *testing.T) {
	if _, err := NewGeminiDesigner(GeminiOptions{}); err == nil {
		t.Fatal("expected error for missing api key")
	}
}

func TestGeminiDesignerFallsBackAfterDeadlineExpires(t *testing.T) {
	client := &http.Client{Transport: roundTripFunc(func(req *http.Request) (*http.Response, error) {
		<-req.Context().Done()
		return nil, req.Context().Err()
	})}
	designer, err := NewGeminiDesigner(GeminiOptions{APIKey: "test-key", HTTPClient: client})
	if err != nil {
		t.Fatalf("NewGeminiDesigner returned error: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()
	asset, err := designer.Design(ctx, Request{Topic: "urban beekeeping"})
	if err != nil {
		t.Fatalf("Design returned error after deadline, want fallback: %v", err)
	}
	if asset.Format != "svg" {
		t.Fatalf("fallback Format = %q, want svg", asset.Format)
	}
}
