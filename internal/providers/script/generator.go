package script

import (
	"context"

	"clipforge/internal/domain"
)

// Request carries the normalized inputs for script generation.
type Request struct {
	Topic        string
	Tone         string
	Audience     string
	CallToAction string
	Duration     domain.DurationPreference
}

// Generator is the contract implemented by all script providers.
type Generator interface {
	Generate(ctx context.Context, req Request) (*domain.Script, error)
}
