package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"clipforge/internal/domain"
	"clipforge/internal/middleware"
)

// Generate runs the full pipeline for one request and returns the bundle.
func (a *App) Generate(w http.ResponseWriter, r *http.Request) {
	var req domain.GenerationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}

	result, err := a.Pipeline.Run(r.Context(), req)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidTopic) {
			a.error(w, http.StatusBadRequest, "invalid_topic", err.Error())
			return
		}
		a.Logger.Error().
			Err(err).
			Str("request_id", middleware.RequestIDFromContext(r.Context())).
			Msg("generation failed")
		a.error(w, http.StatusInternalServerError, "internal", "generation failed")
		return
	}

	a.json(w, http.StatusOK, result)
}
