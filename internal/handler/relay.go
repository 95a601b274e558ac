package handler

import (
	"encoding/json"
	"net/http"

	"lumina/internal/webhook"
	"lumina/pkg/httputil"
	"lumina/pkg/logger"

	"github.com/julienschmidt/httprouter"
)

// RelayHandler fronts the upstream webhook endpoints: the reservation
// sheet and the chat assistant.
type RelayHandler struct {
	reservations *webhook.ReservationsClient
	chat         *webhook.ChatClient
	log          *logger.Logger
}

func NewRelayHandler(reservations *webhook.ReservationsClient, chat *webhook.ChatClient, log *logger.Logger) *RelayHandler {
	return &RelayHandler{
		reservations: reservations,
		chat:         chat,
		log:          log,
	}
}

type chatSendRequest struct {
	Message string `json:"message"`
}

type chatSendResponse struct {
	Reply     string `json:"reply"`
	SessionID string `json:"session_id"`
}

func (h *RelayHandler) Reservations(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	rows, err := h.reservations.Fetch(r.Context())
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Reservations", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, rows); err != nil {
		h.log.Error("failed to write success response", "handler", "Reservations", "operation", "WriteSuccess", "error", err)
	}
}

func (h *RelayHandler) Chat(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req chatSendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "Chat", "operation", "WriteJSON", "error", writeErr)
		}
		return
	}

	reply, err := h.chat.Send(r.Context(), req.Message)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Chat", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	resp := chatSendResponse{
		Reply:     reply,
		SessionID: h.chat.SessionID(),
	}
	if err := httputil.WriteSuccess(w, resp); err != nil {
		h.log.Error("failed to write success response", "handler", "Chat", "operation", "WriteSuccess", "error", err)
	}
}

func (h *RelayHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/api/v1/reservations", h.Reservations)
	router.POST("/api/v1/chat", h.Chat)
}
