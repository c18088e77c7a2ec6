package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/julienschmidt/httprouter"

	"lamsa/internal/bookings/service"
	apperrors "lamsa/pkg/errors"
	"lamsa/pkg/httpx"
	"lamsa/pkg/logger"
	"lamsa/pkg/model"
)

type BookingHandler struct {
	bookings service.BookingService
	log      *logger.Logger
}

func NewBookingHandler(bookings service.BookingService, log *logger.Logger) *BookingHandler {
	return &BookingHandler{
		bookings: bookings,
		log:      log,
	}
}

func (h *BookingHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var booking model.Booking
	if err := json.NewDecoder(r.Body).Decode(&booking); err != nil {
		if writeErr := httpx.WriteJSON(w, http.StatusBadRequest, httpx.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "Create", "operation", "WriteJSON", "error", writeErr)
		}
		return
	}

	if err := h.bookings.Create(r.Context(), &booking); err != nil {
		if writeErr := httpx.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Create", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httpx.WriteCreated(w, booking); err != nil {
		h.log.Error("failed to write created response", "handler", "Create", "operation", "WriteCreated", "error", err)
	}
}

func (h *BookingHandler) GetByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")

	booking, err := h.bookings.GetByID(r.Context(), id)
	if err != nil {
		if writeErr := httpx.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetByID", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httpx.WriteSuccess(w, booking); err != nil {
		h.log.Error("failed to write success response", "handler", "GetByID", "operation", "WriteSuccess", "error", err)
	}
}

func (h *BookingHandler) GetByOwner(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ownerID := ps.ByName("ownerId")

	limit, offset, err := paginationParams(r)
	if err != nil {
		if writeErr := httpx.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetByOwner", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	bookings, totalCount, err := h.bookings.GetByOwner(r.Context(), ownerID, limit, offset)
	if err != nil {
		if writeErr := httpx.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetByOwner", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httpx.WritePaginated(w, bookings, totalCount, limit, offset); err != nil {
		h.log.Error("failed to write paginated response", "handler", "GetByOwner", "operation", "WritePaginated", "error", err)
	}
}

type statusUpdateRequest struct {
	Status string `json:"status"`
}

func (h *BookingHandler) UpdateStatus(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")

	var req statusUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if writeErr := httpx.WriteJSON(w, http.StatusBadRequest, httpx.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "UpdateStatus", "operation", "WriteJSON", "error", writeErr)
		}
		return
	}

	booking, err := h.bookings.UpdateStatus(r.Context(), id, req.Status)
	if err != nil {
		if writeErr := httpx.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "UpdateStatus", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httpx.WriteSuccess(w, booking); err != nil {
		h.log.Error("failed to write success response", "handler", "UpdateStatus", "operation", "WriteSuccess", "error", err)
	}
}

func paginationParams(r *http.Request) (int, int64, error) {
	query := r.URL.Query()

	limit := 0
	if limitStr := query.Get("limit"); limitStr != "" {
		var err error
		limit, err = strconv.Atoi(limitStr)
		if err != nil {
			return 0, 0, apperrors.InvalidInput(fmt.Sprintf("invalid limit parameter: %s", limitStr))
		}
	}

	var offset int64
	if offsetStr := query.Get("offset"); offsetStr != "" {
		var err error
		offset, err = strconv.ParseInt(offsetStr, 10, 64)
		if err != nil {
			return 0, 0, apperrors.InvalidInput(fmt.Sprintf("invalid offset parameter: %s", offsetStr))
		}
	}

	return limit, offset, nil
}

func (h *BookingHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/bookings", h.Create)
	router.GET("/api/v1/bookings/owner/:ownerId", h.GetByOwner)
	router.GET("/api/v1/bookings/id/:id", h.GetByID)
	router.PATCH("/api/v1/bookings/id/:id/status", h.UpdateStatus)
}
