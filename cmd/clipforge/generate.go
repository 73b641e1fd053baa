package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"clipforge/internal/domain"
	"clipforge/internal/domain/tuning"
	"clipforge/internal/infra"
	"clipforge/internal/pipeline"
)

var (
	topicFlag     string
	toneFlag      string
	audienceFlag  string
	ctaFlag       string
	durationFlag  string
	platformsFlag string
	outFlag       string
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate one content bundle and print it as JSON",
	RunE:  runGenerate,
}

func init() {
	generateCmd.Flags().StringVarP(&topicFlag, "topic", "t", "", "Topic to build the bundle around (required)")
	generateCmd.Flags().StringVar(&toneFlag, "tone", "", "Tone preference (default: energetic and bold)")
	generateCmd.Flags().StringVar(&audienceFlag, "audience", "", "Target audience (default: general audience)")
	generateCmd.Flags().StringVar(&ctaFlag, "cta", "", "Call to action for the closing line")
	generateCmd.Flags().StringVar(&durationFlag, "duration", "medium", "Duration preference: short, medium, or long")
	generateCmd.Flags().StringVar(&platformsFlag, "platforms", "", "Comma-separated platforms (youtube,tiktok,reels,instagram); empty means all")
	generateCmd.Flags().StringVarP(&outFlag, "out", "o", "", "Write the bundle JSON to a file instead of stdout")
	_ = generateCmd.MarkFlagRequired("topic")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	cfg, err := infra.LoadConfig()
	if err != nil {
		return err
	}
	logger := infra.NewLogger(cfg.AppEnv)

	tune, err := tuning.Load(cfg.TuningPath)
	if err != nil {
		return err
	}
	pipe, err := pipeline.FromConfig(cfg, tune, &logger)
	if err != nil {
		return err
	}

	result, err := pipe.Run(context.Background(), buildRequest())
	if err != nil {
		return err
	}

	encoded, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return err
	}
	if outFlag != "" {
		if err := os.WriteFile(outFlag, encoded, 0o644); err != nil {
			return err
		}
		logger.Info().Str("path", outFlag).Msg("bundle written")
		return nil
	}
	fmt.Println(string(encoded))
	return nil
}

// buildRequest maps the command flags onto a generation request.
func buildRequest() domain.GenerationRequest {
	return domain.GenerationRequest{
		Topic:        topicFlag,
		Tone:         toneFlag,
		Audience:     audienceFlag,
		CallToAction: ctaFlag,
		Duration:     domain.NormalizeDuration(durationFlag),
		Platforms:    parsePlatformsFlag(platformsFlag),
	}
}

func parsePlatformsFlag(raw string) []domain.Platform {
	var platforms []domain.Platform
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			platforms = append(platforms, domain.Platform(part))
		}
	}
	return platforms
}
