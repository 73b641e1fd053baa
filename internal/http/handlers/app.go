package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"clipforge/internal/domain"
	"clipforge/internal/infra"
)

// Runner is the pipeline contract the handlers depend on.
type Runner interface {
	Run(ctx context.Context, req domain.GenerationRequest) (*domain.GenerationResult, error)
}

// App is the handler container holding request-scoped collaborators.
type App struct {
	Pipeline Runner
	Logger   infra.Logger
}

func NewApp(pipeline Runner, logger infra.Logger) *App {
	return &App{Pipeline: pipeline, Logger: logger}
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (a *App) error(w http.ResponseWriter, code int, errCode, message string) {
	a.json(w, code, map[string]errorBody{"error": {Code: errCode, Message: message}})
}
