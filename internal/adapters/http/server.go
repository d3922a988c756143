// Package http exposes the conversation entry point over HTTP for
// frontends that are not the terminal.
package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/aretw0/magie/pkg/domain"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Turner is the one capability the HTTP surface needs from the core.
type Turner interface {
	ProcessTurnFor(ctx context.Context, userID, utterance string) (*domain.TurnResult, error)
}

// TurnRequest is the POST /turn body. UserID may be empty for the
// configured default user.
type TurnRequest struct {
	UserID    string `json:"user_id,omitempty"`
	Utterance string `json:"utterance"`
}

// NewHandler creates the HTTP handler for the assistant. The gatherer
// backs GET /metrics; pass nil to disable the endpoint.
func NewHandler(assistant Turner, gatherer prometheus.Gatherer, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()

	r.Get("/healthz", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	if gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}

	r.Post("/turn", func(w http.ResponseWriter, req *http.Request) {
		var body TurnRequest
		if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			logger.Warn("turn: invalid request body", "error", err)
			return
		}
		if body.Utterance == "" {
			http.Error(w, "utterance is required", http.StatusBadRequest)
			return
		}

		result, err := assistant.ProcessTurnFor(req.Context(), body.UserID, body.Utterance)
		if err != nil {
			http.Error(w, "Failed to process turn", http.StatusInternalServerError)
			logger.Error("turn processing failed", "error", err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(result); err != nil {
			logger.Error("turn response encode failed", "error", err)
		}
	})

	return r
}
