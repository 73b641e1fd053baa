package pipeline

import (
	"clipforge/internal/domain/tuning"
	"clipforge/internal/infra"
	"clipforge/internal/providers/image"
	"clipforge/internal/providers/script"
	"clipforge/internal/providers/speech"
	"clipforge/internal/providers/video"
)

// FromConfig selects remote or local providers per stage from credential
// availability and assembles the pipeline. Every remote provider is chained
// onto its local fallback, so the bundle completes regardless of outages.
func FromConfig(cfg *infra.Config, tune tuning.Config, logger *infra.Logger) (*Pipeline, error) {
	warnFallback := func(stage string) func(reason string, err error) {
		return func(reason string, err error) {
			logger.Warn().Str("stage", stage).Str("reason", reason).Err(err).Msg("stage fell back to local generator")
		}
	}

	var scriptGen script.Generator = script.NewStaticGenerator(tune)
	if cfg.GeminiAPIKey != "" {
		gen, err := script.NewGeminiGenerator(script.GeminiOptions{
			APIKey:      cfg.GeminiAPIKey,
			Model:       cfg.GeminiModel,
			BaseURL:     cfg.GeminiBaseURL,
			Retries:     cfg.RemoteRetries,
			MaxKeywords: tune.MaxKeywords,
			Fallback:    scriptGen,
			OnFallback:  warnFallback("script"),
		})
		if err != nil {
			return nil, err
		}
		scriptGen = gen
	}

	var synth speech.Synthesizer = speech.NewToneSynthesizer()
	if cfg.OpenAIAPIKey != "" {
		s, err := speech.NewOpenAISynthesizer(speech.OpenAIOptions{
			APIKey:     cfg.OpenAIAPIKey,
			Model:      cfg.OpenAITTSModel,
			Voice:      cfg.OpenAITTSVoice,
			BaseURL:    cfg.OpenAIBaseURL,
			Retries:    cfg.RemoteRetries,
			Fallback:   synth,
			OnFallback: warnFallback("voiceover"),
		})
		if err != nil {
			return nil, err
		}
		synth = s
	}

	var composer video.Composer = video.NewPlaceholderComposer()
	if cfg.GeminiAPIKey != "" {
		c, err := video.NewGeminiComposer(video.GeminiOptions{
			APIKey:     cfg.GeminiAPIKey,
			BaseURL:    cfg.GeminiBaseURL,
			Retries:    cfg.RemoteRetries,
			Fallback:   composer,
			OnFallback: warnFallback("video"),
		})
		if err != nil {
			return nil, err
		}
		composer = c
	}

	var designer image.Designer = image.NewSVGDesigner()
	if cfg.GeminiAPIKey != "" {
		d, err := image.NewGeminiDesigner(image.GeminiOptions{
			APIKey:     cfg.GeminiAPIKey,
			BaseURL:    cfg.GeminiBaseURL,
			Retries:    cfg.RemoteRetries,
			Fallback:   designer,
			OnFallback: warnFallback("thumbnail"),
		})
		if err != nil {
			return nil, err
		}
		designer = d
	}

	return New(Options{
		Script:       scriptGen,
		Speech:       synth,
		Video:        composer,
		Image:        designer,
		Packager:     NewPackager(tune),
		StageTimeout: cfg.StageTimeout,
		Logger:       logger,
	})
}
