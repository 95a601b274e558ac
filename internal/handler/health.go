package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"

	"lumina/internal/store"
	"lumina/pkg/httputil"
	"lumina/pkg/logger"
)

type HealthResponse struct {
	Status string `json:"status"`
	Store  string `json:"store,omitempty"`
}

type HealthHandler struct {
	store store.BookingStore
	log   *logger.Logger
}

func NewHealthHandler(st store.BookingStore, log *logger.Logger) *HealthHandler {
	return &HealthHandler{
		store: st,
		log:   log,
	}
}

func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	if err := httputil.WriteJSON(w, http.StatusOK, HealthResponse{
		Status: "ok",
	}); err != nil {
		h.log.Error("failed to write JSON response", "handler", "Health", "operation", "WriteJSON", "error", err)
	}
}

func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := h.store.Ping(ctx); err != nil {
		h.log.Error("Store health check failed",
			"error", err,
			"path", r.URL.Path,
		)
		if writeErr := httputil.WriteJSON(w, http.StatusServiceUnavailable, HealthResponse{
			Status: "unavailable",
			Store:  "error",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "Ready", "operation", "WriteJSON", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteJSON(w, http.StatusOK, HealthResponse{
		Status: "ready",
		Store:  "ok",
	}); err != nil {
		h.log.Error("failed to write JSON response", "handler", "Ready", "operation", "WriteJSON", "error", err)
	}
}

func (h *HealthHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/health", h.Health)
	router.GET("/ready", h.Ready)
}
