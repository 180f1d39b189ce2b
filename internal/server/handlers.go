package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"

	"github.com/RocketPartners/ping-pong-app-sub004/pkg/analytics"
	"github.com/RocketPartners/ping-pong-app-sub004/pkg/engine"
	"github.com/RocketPartners/ping-pong-app-sub004/pkg/events"
)

type apiResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *apiError   `json:"error,omitempty"`
}

type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	resp := apiResponse{
		Success: status >= 200 && status < 300,
		Data:    data,
	}

	if err := json.NewEncoder(w).Encode(resp); err != nil {
		logrus.Errorf("failed to encode response: %v", err)
	}
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	resp := apiResponse{
		Success: false,
		Error: &apiError{
			Code:    code,
			Message: message,
		},
	}

	if err := json.NewEncoder(w).Encode(resp); err != nil {
		logrus.Errorf("failed to encode error response: %v", err)
	}
}

// Health handler

func (s *APIServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := s.redisClient.Ping(r.Context()).Err(); err != nil {
		respondError(w, http.StatusServiceUnavailable, "not_ready", "redis unreachable")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

// Event ingestion

func (s *APIServer) handleIngestEvent(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "failed to read request body")
		return
	}

	event, err := events.Decode(body)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_event", err.Error())
		return
	}

	outcome, err := s.coordinator.HandleEvent(r.Context(), event)
	if err != nil {
		logrus.Errorf("failed to process event %s: %v", event.Type(), err)
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to process event")
		return
	}

	respondJSON(w, http.StatusOK, outcome)
}

// Player handlers

func (s *APIServer) handleGetProgress(w http.ResponseWriter, r *http.Request) {
	playerID := chi.URLParam(r, "playerID")

	entries, err := s.coordinator.GetProgress(r.Context(), playerID)
	if err != nil {
		logrus.Errorf("failed to get progress for player %s: %v", playerID, err)
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to load progress")
		return
	}

	respondJSON(w, http.StatusOK, entries)
}

func (s *APIServer) handleInitPlayer(w http.ResponseWriter, r *http.Request) {
	playerID := chi.URLParam(r, "playerID")

	if err := s.coordinator.InitializePlayer(r.Context(), playerID); err != nil {
		logrus.Errorf("failed to initialize player %s: %v", playerID, err)
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to initialize player")
		return
	}

	respondJSON(w, http.StatusCreated, map[string]string{"player_id": playerID})
}

func (s *APIServer) handleEvaluatePlayer(w http.ResponseWriter, r *http.Request) {
	playerID := chi.URLParam(r, "playerID")

	outcome, err := s.coordinator.EvaluatePlayer(r.Context(), playerID)
	if err != nil {
		logrus.Errorf("failed to evaluate player %s: %v", playerID, err)
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to evaluate player")
		return
	}

	respondJSON(w, http.StatusOK, outcome)
}

// Notification handlers

func (s *APIServer) handleGetNotifications(w http.ResponseWriter, r *http.Request) {
	playerID := chi.URLParam(r, "playerID")

	window := 24 * time.Hour
	if raw := r.URL.Query().Get("window"); raw != "" {
		parsed, err := time.ParseDuration(raw)
		if err != nil || parsed <= 0 {
			respondError(w, http.StatusBadRequest, "invalid_request", "window must be a positive duration")
			return
		}
		window = parsed
	}

	notifications, err := s.notifier.Recent(r.Context(), playerID, window)
	if err != nil {
		logrus.Errorf("failed to load notifications for player %s: %v", playerID, err)
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to load notifications")
		return
	}

	respondJSON(w, http.StatusOK, notifications)
}

func (s *APIServer) handleAckNotification(w http.ResponseWriter, r *http.Request) {
	playerID := chi.URLParam(r, "playerID")
	achievementID := chi.URLParam(r, "achievementID")

	if err := s.notifier.MarkSeen(r.Context(), playerID, achievementID); err != nil {
		logrus.Errorf("failed to ack notification for player %s achievement %s: %v", playerID, achievementID, err)
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to ack notification")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"status": "acknowledged"})
}

func (s *APIServer) handleAckAllNotifications(w http.ResponseWriter, r *http.Request) {
	playerID := chi.URLParam(r, "playerID")

	if err := s.notifier.MarkAllSeen(r.Context(), playerID); err != nil {
		logrus.Errorf("failed to ack notifications for player %s: %v", playerID, err)
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to ack notifications")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"status": "acknowledged"})
}

// Analytics handlers

func (s *APIServer) handleAnalyticsSummary(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, s.aggregator.Summary())
}

func (s *APIServer) handleAnalyticsAttention(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, s.aggregator.NeedingAttention())
}

func (s *APIServer) handleAnalyticsAchievement(w http.ResponseWriter, r *http.Request) {
	achievementID := chi.URLParam(r, "achievementID")

	snapshot, ok := s.aggregator.Snapshot(achievementID)
	if !ok {
		respondError(w, http.StatusNotFound, "not_found", "no analytics for achievement")
		return
	}

	respondJSON(w, http.StatusOK, snapshot)
}

// Admin handlers

func (s *APIServer) handleRecalculateAll(w http.ResponseWriter, r *http.Request) {
	outcome, err := s.coordinator.EvaluateAllPlayers(r.Context())
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			respondError(w, http.StatusRequestTimeout, "interrupted", "recalculation interrupted")
			return
		}
		logrus.Errorf("full recalculation failed: %v", err)
		respondError(w, http.StatusInternalServerError, "internal_error", "recalculation failed")
		return
	}

	if err := s.aggregator.Recalculate(r.Context(), analytics.ScopeAll()); err != nil {
		logrus.Warnf("analytics refresh after recalculation failed: %v", err)
	}

	respondJSON(w, http.StatusOK, outcome)
}

type resetRequest struct {
	ConfirmationToken string `json:"confirmation_token"`
}

func (s *APIServer) handleResetAll(w http.ResponseWriter, r *http.Request) {
	var req resetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	if err := s.coordinator.ResetAll(r.Context(), req.ConfirmationToken); err != nil {
		if errors.Is(err, engine.ErrInvalidConfirmation) {
			respondError(w, http.StatusForbidden, "invalid_confirmation", "confirmation token does not match")
			return
		}
		logrus.Errorf("reset failed: %v", err)
		respondError(w, http.StatusInternalServerError, "internal_error", "reset failed")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"status": "reset"})
}

func (s *APIServer) handleCatalogReload(w http.ResponseWriter, r *http.Request) {
	if err := s.catalog.Reload(); err != nil {
		logrus.Errorf("catalog reload failed: %v", err)
		respondError(w, http.StatusUnprocessableEntity, "invalid_catalog", err.Error())
		return
	}

	cat, _ := s.catalog.Get()
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":       "reloaded",
		"achievements": cat.Count(),
	})
}
