package main

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/workhub-io/assistant/internal/assistant"
	"github.com/workhub-io/assistant/internal/config"
	"github.com/workhub-io/assistant/internal/executor"
	"github.com/workhub-io/assistant/internal/history"
	"github.com/workhub-io/assistant/internal/imagesearch"
	"github.com/workhub-io/assistant/internal/llm"
	"github.com/workhub-io/assistant/internal/logger"
	"github.com/workhub-io/assistant/internal/resolve"
	"github.com/workhub-io/assistant/internal/snapshot"
	"github.com/workhub-io/assistant/internal/store"
)

func main() {

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.L.Error("failed to load configuration", "error", err)
		return
	}
	logger.SetLevel(cfg.Log.Level)

	// Open the workspace store; conversation history shares the same database.
	workspace, err := store.Open(cfg.Store.Path)
	if err != nil {
		logger.L.Error("failed to open workspace store", "error", err)
		return
	}
	defer workspace.Close()

	hist, err := history.New(workspace.DB())
	if err != nil {
		logger.L.Error("failed to prepare conversation history", "error", err)
		return
	}

	// Wire the pipeline
	llmClient := llm.NewClient(cfg.LLM)
	resolver := resolve.New(workspace)
	images := imagesearch.NewClient(cfg.ImageSearch)
	exec := executor.New(workspace, resolver, images)
	builder := snapshot.NewBuilder(workspace)
	asst := assistant.New(llmClient, *cfg, hist, builder, exec)

	// Initialize router
	mux := http.NewServeMux()

	mux.HandleFunc("POST /chat", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			UserID  string `json:"user_id"`
			Message string `json:"message"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.UserID == "" || req.Message == "" {
			http.Error(w, "user_id and message are required", http.StatusBadRequest)
			return
		}
		logger.L.Info("chat request", "user_id", req.UserID)

		reply, err := asst.Process(r.Context(), req.UserID, req.Message)
		if err != nil {
			logger.L.Error("process error", "err", err, "user_id", req.UserID)
			http.Error(w, "failed to process request", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(reply); err != nil {
			logger.L.Warn("encode reply error", "err", err)
		}
	})

	mux.HandleFunc("GET /chat/history", func(w http.ResponseWriter, r *http.Request) {
		userID := r.URL.Query().Get("user_id")
		if userID == "" {
			http.Error(w, "user_id is required", http.StatusBadRequest)
			return
		}
		msgs, err := asst.History(r.Context(), userID)
		if err != nil {
			logger.L.Error("history error", "err", err, "user_id", userID)
			http.Error(w, "failed to load history", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(msgs); err != nil {
			logger.L.Warn("encode history error", "err", err)
		}
	})

	// Start server
	serverAddr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
	logger.L.Info("starting server", "address", serverAddr)
	if err := http.ListenAndServe(serverAddr, mux); err != nil {
		logger.L.Error("failed to start server", "error", err)
	}
}
