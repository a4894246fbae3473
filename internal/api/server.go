package api

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"net/http"

	"github.com/saeed-karout/Today-s-recipe-Ai/internal/config"
	apperrors "github.com/saeed-karout/Today-s-recipe-Ai/internal/errors"
	"github.com/saeed-karout/Today-s-recipe-Ai/internal/ingest"
	"github.com/saeed-karout/Today-s-recipe-Ai/internal/sentry"
	"github.com/saeed-karout/Today-s-recipe-Ai/internal/services/recipe"
)

// Runner is the pipeline boundary consumed by the HTTP layer.
type Runner interface {
	Run(ctx context.Context, req *ingest.IncomingRequest) (*recipe.Recipe, error)
}

type Server struct {
	cfg  *config.Config
	pipe Runner
}

func NewServer(cfg *config.Config, pipe Runner) *Server {
	return &Server{
		cfg:  cfg,
		pipe: pipe,
	}
}

// errorResponse is the JSON error body. The quota fields are only present on
// 429 responses.
type errorResponse struct {
	Error       string            `json:"error"`
	Message     string            `json:"message,omitempty"`
	RetryAfter  int               `json:"retryAfter,omitempty"`
	UserMessage map[string]string `json:"userMessage,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError renders a classified error. Anything not already an AppError is
// reported as a generic internal failure so no raw detail leaks.
func writeError(w http.ResponseWriter, err error) {
	var appErr *apperrors.AppError
	if !stderrors.As(err, &appErr) {
		sentry.CaptureError(err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "Internal server error"})
		return
	}

	if !appErr.IsOperational {
		sentry.CaptureError(appErr)
	}

	if appErr.Type == apperrors.ErrorTypeQuotaExceeded {
		writeJSON(w, appErr.StatusCode, errorResponse{
			Error:       string(appErr.Type),
			Message:     appErr.Message,
			RetryAfter:  appErr.RetryAfter,
			UserMessage: appErr.UserMessage,
		})
		return
	}

	writeJSON(w, appErr.StatusCode, errorResponse{Error: appErr.Message})
}
