package handler

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/julienschmidt/httprouter"

	"lamsa/internal/availability/service"
	apperrors "lamsa/pkg/errors"
	"lamsa/pkg/httpx"
	"lamsa/pkg/logger"
)

type AvailabilityHandler struct {
	service service.AvailabilityService
	log     *logger.Logger
}

func NewAvailabilityHandler(svc service.AvailabilityService, log *logger.Logger) *AvailabilityHandler {
	return &AvailabilityHandler{
		service: svc,
		log:     log,
	}
}

func (h *AvailabilityHandler) ResolveDay(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ownerID := ps.ByName("ownerId")
	query := r.URL.Query()

	result, err := h.service.ResolveDay(r.Context(), ownerID, query.Get("employee_id"), query.Get("date"))
	if err != nil {
		if writeErr := httpx.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "ResolveDay", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httpx.WriteSuccess(w, result); err != nil {
		h.log.Error("failed to write success response", "handler", "ResolveDay", "operation", "WriteSuccess", "error", err)
	}
}

func (h *AvailabilityHandler) ComputeSlots(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ownerID := ps.ByName("ownerId")
	query := r.URL.Query()

	durationStr := query.Get("duration")
	duration, err := strconv.Atoi(durationStr)
	if err != nil {
		if writeErr := httpx.WriteError(w, apperrors.InvalidInput(fmt.Sprintf("invalid duration parameter: %s", durationStr))); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "ComputeSlots", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	result, err := h.service.ComputeSlots(r.Context(), ownerID, query.Get("employee_id"), query.Get("date"), duration)
	if err != nil {
		if writeErr := httpx.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "ComputeSlots", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httpx.WriteSuccess(w, result); err != nil {
		h.log.Error("failed to write success response", "handler", "ComputeSlots", "operation", "WriteSuccess", "error", err)
	}
}

func (h *AvailabilityHandler) CheckConflict(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ownerID := ps.ByName("ownerId")
	query := r.URL.Query()

	result, err := h.service.CheckConflict(
		r.Context(),
		ownerID,
		query.Get("employee_id"),
		query.Get("date"),
		query.Get("start"),
		query.Get("end"),
	)
	if err != nil {
		if writeErr := httpx.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "CheckConflict", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httpx.WriteSuccess(w, result); err != nil {
		h.log.Error("failed to write success response", "handler", "CheckConflict", "operation", "WriteSuccess", "error", err)
	}
}

func (h *AvailabilityHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/api/v1/availability/owner/:ownerId/day", h.ResolveDay)
	router.GET("/api/v1/availability/owner/:ownerId/slots", h.ComputeSlots)
	router.GET("/api/v1/availability/owner/:ownerId/check", h.CheckConflict)
}
