package handler

import (
	"encoding/json"
	"net/http"

	"lumina/internal/booking"
	"lumina/internal/layout"
	"lumina/pkg/httputil"
	"lumina/pkg/logger"
	"lumina/pkg/model"

	"github.com/julienschmidt/httprouter"
)

// identityHeader carries the acting identity. The local variant
// ignores it entirely.
const identityHeader = "X-Identity"

type BookingHandler struct {
	sessions *Registry
	log      *logger.Logger
}

func NewBookingHandler(sessions *Registry, log *logger.Logger) *BookingHandler {
	return &BookingHandler{
		sessions: sessions,
		log:      log,
	}
}

type seatMapResponse struct {
	Date   string        `json:"date"`
	Layout []layout.Cell `json:"layout"`
	booking.View
}

type selectRequest struct {
	SeatID int `json:"seat_id"`
}

type cancelRequest struct {
	Confirm bool `json:"confirm"`
}

func identityOf(r *http.Request) string {
	if id := r.Header.Get(identityHeader); id != "" {
		return id
	}
	return r.URL.Query().Get("identity")
}

func (h *BookingHandler) SeatMap(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	m, err := h.sessions.Machine(r.Context(), identityOf(r))
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "SeatMap", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := m.Refresh(r.Context()); err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "SeatMap", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	resp := seatMapResponse{
		Date:   model.Today(),
		Layout: layout.Build(),
		View:   m.View(),
	}
	if err := httputil.WriteSuccess(w, resp); err != nil {
		h.log.Error("failed to write success response", "handler", "SeatMap", "operation", "WriteSuccess", "error", err)
	}
}

func (h *BookingHandler) Select(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req selectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "Select", "operation", "WriteJSON", "error", writeErr)
		}
		return
	}

	m, err := h.sessions.Machine(r.Context(), identityOf(r))
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Select", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	view, err := m.SelectSeat(r.Context(), req.SeatID)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Select", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, view); err != nil {
		h.log.Error("failed to write success response", "handler", "Select", "operation", "WriteSuccess", "error", err)
	}
}

func (h *BookingHandler) Confirm(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	m, err := h.sessions.Machine(r.Context(), identityOf(r))
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Confirm", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	view, err := m.Confirm(r.Context())
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Confirm", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteCreated(w, view); err != nil {
		h.log.Error("failed to write created response", "handler", "Confirm", "operation", "WriteCreated", "error", err)
	}
}

func (h *BookingHandler) Cancel(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req cancelRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "Cancel", "operation", "WriteJSON", "error", writeErr)
		}
		return
	}

	m, err := h.sessions.Machine(r.Context(), identityOf(r))
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Cancel", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	view, err := m.Cancel(r.Context(), req.Confirm)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Cancel", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, view); err != nil {
		h.log.Error("failed to write success response", "handler", "Cancel", "operation", "WriteSuccess", "error", err)
	}
}

func (h *BookingHandler) History(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	m, err := h.sessions.Machine(r.Context(), identityOf(r))
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "History", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, m.History()); err != nil {
		h.log.Error("failed to write success response", "handler", "History", "operation", "WriteSuccess", "error", err)
	}
}

func (h *BookingHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/api/v1/seatmap", h.SeatMap)
	router.POST("/api/v1/seatmap/select", h.Select)
	router.POST("/api/v1/bookings", h.Confirm)
	router.DELETE("/api/v1/bookings", h.Cancel)
	router.GET("/api/v1/bookings", h.History)
}
