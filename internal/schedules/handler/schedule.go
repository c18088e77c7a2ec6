package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/julienschmidt/httprouter"

	"lamsa/internal/schedules/service"
	apperrors "lamsa/pkg/errors"
	"lamsa/pkg/httpx"
	"lamsa/pkg/logger"
	"lamsa/pkg/model"
)

type ScheduleHandler struct {
	schedules service.ScheduleService
	overrides service.OverrideService
	log       *logger.Logger
}

func NewScheduleHandler(schedules service.ScheduleService, overrides service.OverrideService, log *logger.Logger) *ScheduleHandler {
	return &ScheduleHandler{
		schedules: schedules,
		overrides: overrides,
		log:       log,
	}
}

func (h *ScheduleHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var schedule model.WorkingSchedule
	if err := json.NewDecoder(r.Body).Decode(&schedule); err != nil {
		if writeErr := httpx.WriteJSON(w, http.StatusBadRequest, httpx.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "Create", "operation", "WriteJSON", "error", writeErr)
		}
		return
	}

	if err := h.schedules.Create(r.Context(), &schedule); err != nil {
		if writeErr := httpx.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Create", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httpx.WriteCreated(w, schedule); err != nil {
		h.log.Error("failed to write created response", "handler", "Create", "operation", "WriteCreated", "error", err)
	}
}

func (h *ScheduleHandler) GetByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")

	schedule, err := h.schedules.GetByID(r.Context(), id)
	if err != nil {
		if writeErr := httpx.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetByID", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httpx.WriteSuccess(w, schedule); err != nil {
		h.log.Error("failed to write success response", "handler", "GetByID", "operation", "WriteSuccess", "error", err)
	}
}

func (h *ScheduleHandler) GetByOwner(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ownerID := ps.ByName("ownerId")

	limit, offset, err := paginationParams(r)
	if err != nil {
		if writeErr := httpx.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetByOwner", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	schedules, totalCount, err := h.schedules.GetByOwner(r.Context(), ownerID, limit, offset)
	if err != nil {
		if writeErr := httpx.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetByOwner", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httpx.WritePaginated(w, schedules, totalCount, limit, offset); err != nil {
		h.log.Error("failed to write paginated response", "handler", "GetByOwner", "operation", "WritePaginated", "error", err)
	}
}

func (h *ScheduleHandler) Update(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")

	var updates model.WorkingScheduleUpdate
	if err := json.NewDecoder(r.Body).Decode(&updates); err != nil {
		if writeErr := httpx.WriteJSON(w, http.StatusBadRequest, httpx.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "Update", "operation", "WriteJSON", "error", writeErr)
		}
		return
	}

	schedule, err := h.schedules.Update(r.Context(), id, &updates)
	if err != nil {
		if writeErr := httpx.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Update", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httpx.WriteSuccess(w, schedule); err != nil {
		h.log.Error("failed to write success response", "handler", "Update", "operation", "WriteSuccess", "error", err)
	}
}

func (h *ScheduleHandler) Deactivate(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")

	if err := h.schedules.Deactivate(r.Context(), id); err != nil {
		if writeErr := httpx.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Deactivate", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	httpx.WriteNoContent(w)
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

func (h *ScheduleHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/schedules", h.Create)
	router.GET("/api/v1/schedules/owner/:ownerId", h.GetByOwner)
	router.GET("/api/v1/schedules/id/:id", h.GetByID)
	router.PATCH("/api/v1/schedules/id/:id", h.Update)
	router.DELETE("/api/v1/schedules/id/:id", h.Deactivate)

	h.registerOverrideRoutes(router)
}
