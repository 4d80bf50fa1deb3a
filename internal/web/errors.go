package web

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/vbonduro/foodlens/internal/diet"
	"github.com/vbonduro/foodlens/internal/domain"
	"github.com/vbonduro/foodlens/internal/generate"
	"github.com/vbonduro/foodlens/internal/lookup"
	"github.com/vbonduro/foodlens/internal/prompt"
	"github.com/vbonduro/foodlens/internal/service"
)

// statusFor maps pipeline errors onto HTTP status codes. Validation errors
// are the caller's fault; generation and lookup failures are upstream ones.
func statusFor(err error) int {
	var genErr *generate.GenerationError
	var ocrErr *lookup.OCRError
	switch {
	case errors.Is(err, prompt.ErrUnknownTemplate):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrEmptySubject),
		errors.Is(err, service.ErrNoIngredients),
		errors.Is(err, service.ErrUnreadableImage),
		errors.Is(err, lookup.ErrEmptyImage),
		errors.Is(err, diet.ErrInvalidProfile),
		errors.Is(err, diet.ErrUnknownActivity),
		errors.Is(err, diet.ErrUnknownGoal):
		return http.StatusBadRequest
	case errors.Is(err, lookup.ErrNoText):
		return http.StatusUnprocessableEntity
	case errors.Is(err, service.ErrLookupUnavailable),
		errors.Is(err, service.ErrHistoryDisabled):
		return http.StatusServiceUnavailable
	case errors.As(err, &genErr),
		errors.As(err, &ocrErr),
		errors.Is(err, service.ErrLookupFailed):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// userMessage is the text shown for err. Internal failures are not described.
func userMessage(err error, status int) string {
	if errors.Is(err, domain.ErrEmptySubject) {
		return "Please enter something to analyze."
	}
	if status == http.StatusInternalServerError {
		return "Something went wrong. Please try again."
	}
	return err.Error()
}

func writeJSON(w http.ResponseWriter, status int, v any, logger *slog.Logger) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("write json failed", "error", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "status", status, "error", err)
	}
	writeJSON(w, status, map[string]string{"error": userMessage(err, status)}, s.logger)
}
