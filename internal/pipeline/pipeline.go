package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"clipforge/internal/domain"
	"clipforge/internal/infra"
	"clipforge/internal/providers/image"
	"clipforge/internal/providers/script"
	"clipforge/internal/providers/speech"
	"clipforge/internal/providers/video"
)

// Options wires the stage providers into the orchestrator. Which provider
// backs each stage (remote with fallback, or local only) is decided once at
// construction from credential availability; the pipeline itself never
// inspects the environment.
type Options struct {
	Script       script.Generator
	Speech       speech.Synthesizer
	Video        video.Composer
	Image        image.Designer
	Packager     *Packager
	StageTimeout time.Duration
	Logger       *infra.Logger
}

// Pipeline sequences the five generation stages and assembles the bundle.
type Pipeline struct {
	script       script.Generator
	speech       speech.Synthesizer
	video        video.Composer
	image        image.Designer
	packager     *Packager
	stageTimeout time.Duration
	logger       infra.Logger
}

const defaultStageTimeout = 30 * time.Second

func New(opts Options) (*Pipeline, error) {
	if opts.Script == nil || opts.Speech == nil || opts.Video == nil || opts.Image == nil || opts.Packager == nil {
		return nil, fmt.Errorf("pipeline: all stage providers are required")
	}
	timeout := opts.StageTimeout
	if timeout <= 0 {
		timeout = defaultStageTimeout
	}
	var logger infra.Logger
	if opts.Logger != nil {
		logger = *opts.Logger
	}
	return &Pipeline{
		script:       opts.Script,
		speech:       opts.Speech,
		video:        opts.Video,
		image:        opts.Image,
		packager:     opts.Packager,
		stageTimeout: timeout,
		logger:       logger,
	}, nil
}

// Run executes one generation request to completion. Collaborator-level
// failures are absorbed by the providers; only validation and internal
// errors surface here, and a partial bundle is never returned.
func (p *Pipeline) Run(ctx context.Context, req domain.GenerationRequest) (*domain.GenerationResult, error) {
	runID := uuid.NewString()
	state := domain.StateReceived
	transition := func(next domain.PipelineState) {
		state = next
		p.logger.Debug().Str("run_id", runID).Str("state", string(state)).Msg("pipeline: state transition")
	}
	fail := func(err error) (*domain.GenerationResult, error) {
		transition(domain.StateFailed)
		p.logger.Error().Str("run_id", runID).Err(err).Msg("pipeline: run failed")
		return nil, err
	}
	transition(domain.StateReceived)

	if err := req.Validate(); err != nil {
		return fail(err)
	}
	req.Normalize()

	scr, err := p.draftScript(ctx, req)
	if err != nil {
		return fail(fmt.Errorf("%w: script stage: %v", domain.ErrPipelineFailed, err))
	}
	if len(scr.Scenes) == 0 {
		return fail(fmt.Errorf("%w: script has no scenes", domain.ErrPipelineFailed))
	}
	transition(domain.StateScriptDrafted)
	transition(domain.StateMediaSynthesizing)

	// Voiceover+video, thumbnail, and packaging have no cross-dependency
	// and run concurrently. Video strictly awaits the voiceover inside its
	// goroutine. Each consumer gets the same script and must not mutate it.
	var (
		voiceover *domain.MediaAsset
		composed  *domain.MediaAsset
		thumbnail *domain.ThumbnailAsset
		posts     []domain.SocialPost
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var stageErr error
		voiceover, stageErr = p.synthesizeVoiceover(gctx, scr)
		if stageErr != nil {
			return fmt.Errorf("voiceover stage: %w", stageErr)
		}
		composed, stageErr = p.composeVideo(gctx, scr, voiceover)
		if stageErr != nil {
			return fmt.Errorf("video stage: %w", stageErr)
		}
		return nil
	})
	g.Go(func() error {
		var stageErr error
		thumbnail, stageErr = p.designThumbnail(gctx, req, scr)
		if stageErr != nil {
			return fmt.Errorf("thumbnail stage: %w", stageErr)
		}
		return nil
	})
	g.Go(func() error {
		posts = p.packager.Package(scr, req.CallToAction, req.Platforms)
		return nil
	})
	if err := g.Wait(); err != nil {
		return fail(fmt.Errorf("%w: %v", domain.ErrPipelineFailed, err))
	}
	transition(domain.StateVideoComposed)
	transition(domain.StateThumbnailDesigned)
	transition(domain.StatePackaged)

	if voiceover == nil || composed == nil || thumbnail == nil {
		return fail(fmt.Errorf("%w: incomplete media bundle", domain.ErrPipelineFailed))
	}
	if voiceover.Base64 == "" || composed.Base64 == "" || thumbnail.Base64 == "" {
		return fail(fmt.Errorf("%w: empty media payload", domain.ErrPipelineFailed))
	}
	if len(posts) != len(req.Platforms) {
		return fail(fmt.Errorf("%w: expected %d posts, packaged %d", domain.ErrPipelineFailed, len(req.Platforms), len(posts)))
	}

	result := &domain.GenerationResult{
		Script:      *scr,
		Voiceover:   *voiceover,
		Video:       *composed,
		Thumbnail:   *thumbnail,
		SocialPosts: posts,
	}
	result.WorkflowNotes = buildWorkflowNotes(result)
	transition(domain.StateComplete)
	p.logger.Info().
		Str("run_id", runID).
		Int("scenes", len(scr.Scenes)).
		Int("posts", len(posts)).
		Str("voiceover_format", voiceover.Format).
		Str("thumbnail_format", thumbnail.Format).
		Msg("pipeline: bundle complete")
	return result, nil
}

func (p *Pipeline) draftScript(ctx context.Context, req domain.GenerationRequest) (*domain.Script, error) {
	stageCtx, cancel := context.WithTimeout(ctx, p.stageTimeout)
	defer cancel()
	return p.script.Generate(stageCtx, script.Request{
		Topic:        req.Topic,
		Tone:         req.Tone,
		Audience:     req.Audience,
		CallToAction: req.CallToAction,
		Duration:     req.Duration,
	})
}

func (p *Pipeline) synthesizeVoiceover(ctx context.Context, scr *domain.Script) (*domain.MediaAsset, error) {
	stageCtx, cancel := context.WithTimeout(ctx, p.stageTimeout)
	defer cancel()
	return p.speech.Synthesize(stageCtx, scr.SpokenText())
}

func (p *Pipeline) composeVideo(ctx context.Context, scr *domain.Script, voiceover *domain.MediaAsset) (*domain.MediaAsset, error) {
	stageCtx, cancel := context.WithTimeout(ctx, p.stageTimeout)
	defer cancel()
	return p.video.Compose(stageCtx, scr, voiceover)
}

func (p *Pipeline) designThumbnail(ctx context.Context, req domain.GenerationRequest, scr *domain.Script) (*domain.ThumbnailAsset, error) {
	stageCtx, cancel := context.WithTimeout(ctx, p.stageTimeout)
	defer cancel()
	return p.image.Design(stageCtx, image.Request{
		Topic: req.Topic,
		Tone:  req.Tone,
		Hook:  scr.Hook,
	})
}
