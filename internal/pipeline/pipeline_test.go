package pipeline

import (
	"context"
	"errors"
	"strings"
	"testing"

	"clipforge/internal/domain"
	"clipforge/internal/domain/tuning"
	"clipforge/internal/providers/image"
	"clipforge/internal/providers/script"
	"clipforge/internal/providers/speech"
	"clipforge/internal/providers/video"
)

type fakeScriptGenerator struct {
	calls int
	err   error
}

func (f *fakeScriptGenerator) Generate(ctx context.Context, req script.Request) (*domain.Script, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return &domain.Script{
		Hook: req.Topic + " will surprise you",
		Scenes: []domain.Scene{
			{ID: "scene-01", Title: "Opening", Narration: "First beat.", VisualIdea: "Wide shot"},
			{ID: "scene-02", Title: "Payoff", Narration: "Second beat.", VisualIdea: "Close up"},
		},
		Closing:  "Closing line.",
		Keywords: []string{"topic", "test"},
	}, nil
}

type fakeSynthesizer struct {
	calls  int
	format string
	err    error
}

func (f *fakeSynthesizer) Synthesize(ctx context.Context, text string) (*domain.MediaAsset, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	format := f.format
	if format == "" {
		format = "mp3"
	}
	return &domain.MediaAsset{Format: format, Base64: "dm9pY2U="}, nil
}

type fakeComposer struct {
	calls     int
	voiceover *domain.MediaAsset
	err       error
}

func (f *fakeComposer) Compose(ctx context.Context, scr *domain.Script, voiceover *domain.MediaAsset) (*domain.MediaAsset, error) {
	f.calls++
	f.voiceover = voiceover
	if f.err != nil {
		return nil, f.err
	}
	return &domain.MediaAsset{Format: "mp4", Base64: "dmlkZW8="}, nil
}

type fakeDesigner struct {
	calls  int
	format string
	err    error
}

func (f *fakeDesigner) Design(ctx context.Context, req image.Request) (*domain.ThumbnailAsset, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	format := f.format
	if format == "" {
		format = "png"
	}
	return &domain.ThumbnailAsset{Format: format, Base64: "dGh1bWI=", Prompt: "prompt for " + req.Topic}, nil
}

var (
	_ script.Generator   = (*fakeScriptGenerator)(nil)
	_ speech.Synthesizer = (*fakeSynthesizer)(nil)
	_ video.Composer     = (*fakeComposer)(nil)
	_ image.Designer     = (*fakeDesigner)(nil)
)

func newTestPipeline(t *testing.T, scripts *fakeScriptGenerator, synth *fakeSynthesizer, composer *fakeComposer, designer *fakeDesigner) *Pipeline {
	t.Helper()
	p, err := New(Options{
		Script:   scripts,
		Speech:   synth,
		Video:    composer,
		Image:    designer,
		Packager: NewPackager(tuning.Default()),
	})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	return p
}

func TestRunProducesCompleteBundle(t *testing.T) {
	scripts := &fakeScriptGenerator{}
	synth := &fakeSynthesizer{}
	composer := &fakeComposer{}
	designer := &fakeDesigner{}
	p := newTestPipeline(t, scripts, synth, composer, designer)

	result, err := p.Run(context.Background(), domain.GenerationRequest{
		Topic:     "urban beekeeping",
		Platforms: []domain.Platform{domain.PlatformYouTube, domain.PlatformTikTok},
	})
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if len(result.Script.Scenes) != 2 {
		t.Fatalf("scenes = %d, want 2", len(result.Script.Scenes))
	}
	if result.Voiceover.Base64 == "" || result.Video.Base64 == "" || result.Thumbnail.Base64 == "" {
		t.Fatal("bundle carries an empty media payload")
	}
	if len(result.SocialPosts) != 2 {
		t.Fatalf("posts = %d, want one per requested platform", len(result.SocialPosts))
	}
	if len(result.WorkflowNotes) == 0 {
		t.Fatal("bundle has no workflow notes")
	}
	if scripts.calls != 1 || synth.calls != 1 || composer.calls != 1 || designer.calls != 1 {
		t.Fatalf("stage calls = script %d, speech %d, video %d, image %d; want 1 each",
			scripts.calls, synth.calls, composer.calls, designer.calls)
	}
}

func TestRunPassesVoiceoverToComposer(t *testing.T) {
	composer := &fakeComposer{}
	p := newTestPipeline(t, &fakeScriptGenerator{}, &fakeSynthesizer{}, composer, &fakeDesigner{})
	if _, err := p.Run(context.Background(), domain.GenerationRequest{Topic: "urban beekeeping"}); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if composer.voiceover == nil || composer.voiceover.Base64 != "dm9pY2U=" {
		t.Fatal("composer did not receive the synthesized voiceover")
	}
}

func TestRunEmptyPlatformsExpandToAll(t *testing.T) {
	p := newTestPipeline(t, &fakeScriptGenerator{}, &fakeSynthesizer{}, &fakeComposer{}, &fakeDesigner{})
	result, err := p.Run(context.Background(), domain.GenerationRequest{Topic: "urban beekeeping"})
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if len(result.SocialPosts) != len(domain.AllPlatforms) {
		t.Fatalf("posts = %d, want %d", len(result.SocialPosts), len(domain.AllPlatforms))
	}
}

func TestRunRejectsEmptyTopicBeforeAnyStage(t *testing.T) {
	scripts := &fakeScriptGenerator{}
	synth := &fakeSynthesizer{}
	composer := &fakeComposer{}
	designer := &fakeDesigner{}
	p := newTestPipeline(t, scripts, synth, composer, designer)

	_, err := p.Run(context.Background(), domain.GenerationRequest{Topic: "   "})
	if !errors.Is(err, domain.ErrInvalidTopic) {
		t.Fatalf("err = %v, want ErrInvalidTopic", err)
	}
	if scripts.calls != 0 || synth.calls != 0 || composer.calls != 0 || designer.calls != 0 {
		t.Fatal("a stage ran despite validation failure")
	}
}

func TestRunWrapsStageErrors(t *testing.T) {
	stageErr := errors.New("synthesis exploded")
	p := newTestPipeline(t, &fakeScriptGenerator{}, &fakeSynthesizer{err: stageErr}, &fakeComposer{}, &fakeDesigner{})
	_, err := p.Run(context.Background(), domain.GenerationRequest{Topic: "urban beekeeping"})
	if !errors.Is(err, domain.ErrPipelineFailed) {
		t.Fatalf("err = %v, want ErrPipelineFailed", err)
	}
	if !strings.Contains(err.Error(), "voiceover stage") {
		t.Fatalf("err = %v, want the failing stage named", err)
	}
}

func TestRunScriptErrorStopsRun(t *testing.T) {
	synth := &fakeSynthesizer{}
	p := newTestPipeline(t, &fakeScriptGenerator{err: errors.New("model offline")}, synth, &fakeComposer{}, &fakeDesigner{})
	_, err := p.Run(context.Background(), domain.GenerationRequest{Topic: "urban beekeeping"})
	if !errors.Is(err, domain.ErrPipelineFailed) {
		t.Fatalf("err = %v, want ErrPipelineFailed", err)
	}
	if synth.calls != 0 {
		t.Fatal("voiceover ran after the script stage failed")
	}
}

func TestRunWorkflowNotesFlagFallbackAssets(t *testing.T) {
	p := newTestPipeline(t, &fakeScriptGenerator{}, &fakeSynthesizer{format: "wav"}, &fakeComposer{}, &fakeDesigner{format: "svg"})
	result, err := p.Run(context.Background(), domain.GenerationRequest{Topic: "urban beekeeping"})
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	joined := strings.Join(result.WorkflowNotes, "\n")
	if !strings.Contains(joined, "placeholder tone") {
		t.Fatalf("notes %v missing the voiceover placeholder tip", result.WorkflowNotes)
	}
	if !strings.Contains(joined, "Thumbnail is a generated placeholder") {
		t.Fatalf("notes %v missing the thumbnail placeholder tip", result.WorkflowNotes)
	}
}

func TestRunWorkflowNotesFlagPlaceholderVideo(t *testing.T) {
	p, err := New(Options{
		Script:   &fakeScriptGenerator{},
		Speech:   &fakeSynthesizer{},
		Video:    video.NewPlaceholderComposer(),
		Image:    &fakeDesigner{},
		Packager: NewPackager(tuning.Default()),
	})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	result, err := p.Run(context.Background(), domain.GenerationRequest{Topic: "urban beekeeping"})
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	joined := strings.Join(result.WorkflowNotes, "\n")
	if !strings.Contains(joined, "silent placeholder") {
		t.Fatalf("notes %v missing the video placeholder tip", result.WorkflowNotes)
	}
}

func TestNewRequiresAllProviders(t *testing.T) {
	_, err := New(Options{
		Script:   &fakeScriptGenerator{},
		Speech:   &fakeSynthesizer{},
		Video:    &fakeComposer{},
		Packager: NewPackager(tuning.Default()),
	})
	if err == nil {
		t.Fatal("expected error for missing image designer")
	}
}
