package api

import (
	"io"
	"net/http"
	"net/textproto"

	apperrors "github.com/saeed-karout/Today-s-recipe-Ai/internal/errors"
	"github.com/saeed-karout/Today-s-recipe-Ai/internal/ingest"
)

// HandleGenerateRecipe runs the full pipeline for one request. The body is
// fully buffered up to the configured bound before processing.
func (s *Server) HandleGenerateRecipe(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.Pipeline.MaxBodyBytes)
	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, apperrors.NewInvalidRequestError("request body too large or unreadable", "BAD_BODY", err))
		return
	}

	req := &ingest.IncomingRequest{
		Method: r.Method,
		Header: textproto.MIMEHeader(r.Header),
		Body:   body,
	}

	result, err := s.pipe.Run(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// HandlePreflight answers CORS preflight and bare OPTIONS probes.
func (s *Server) HandlePreflight(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusNoContent)
}

// HandleMethodNotAllowed keeps the error contract JSON-shaped for unsupported
// methods.
func (s *Server) HandleMethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusMethodNotAllowed, errorResponse{Error: "Method not allowed"})
}
