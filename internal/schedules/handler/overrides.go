package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/julienschmidt/httprouter"

	apperrors "lamsa/pkg/errors"
	"lamsa/pkg/httpx"
	"lamsa/pkg/model"
)

func (h *ScheduleHandler) CreateTimeOff(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var timeOff model.TimeOff
	if err := json.NewDecoder(r.Body).Decode(&timeOff); err != nil {
		if writeErr := httpx.WriteJSON(w, http.StatusBadRequest, httpx.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "CreateTimeOff", "operation", "WriteJSON", "error", writeErr)
		}
		return
	}

	if err := h.overrides.CreateTimeOff(r.Context(), &timeOff); err != nil {
		if writeErr := httpx.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "CreateTimeOff", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httpx.WriteCreated(w, timeOff); err != nil {
		h.log.Error("failed to write created response", "handler", "CreateTimeOff", "operation", "WriteCreated", "error", err)
	}
}

func (h *ScheduleHandler) ListTimeOff(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ownerID := ps.ByName("ownerId")

	limit, offset, err := paginationParams(r)
	if err != nil {
		if writeErr := httpx.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "ListTimeOff", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	records, err := h.overrides.ListTimeOff(r.Context(), ownerID, limit, offset)
	if err != nil {
		if writeErr := httpx.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "ListTimeOff", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httpx.WriteSuccess(w, records); err != nil {
		h.log.Error("failed to write success response", "handler", "ListTimeOff", "operation", "WriteSuccess", "error", err)
	}
}

func (h *ScheduleHandler) DeleteTimeOff(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	if err := h.overrides.DeleteTimeOff(r.Context(), ps.ByName("id")); err != nil {
		if writeErr := httpx.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "DeleteTimeOff", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	httpx.WriteNoContent(w)
}

func (h *ScheduleHandler) UpsertSpecialDate(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var override model.SpecialDateOverride
	if err := json.NewDecoder(r.Body).Decode(&override); err != nil {
		if writeErr := httpx.WriteJSON(w, http.StatusBadRequest, httpx.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "UpsertSpecialDate", "operation", "WriteJSON", "error", writeErr)
		}
		return
	}

	if err := h.overrides.UpsertSpecialDate(r.Context(), &override); err != nil {
		if writeErr := httpx.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "UpsertSpecialDate", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httpx.WriteSuccess(w, override); err != nil {
		h.log.Error("failed to write success response", "handler", "UpsertSpecialDate", "operation", "WriteSuccess", "error", err)
	}
}

func (h *ScheduleHandler) ListSpecialDates(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ownerID := ps.ByName("ownerId")
	fromDate := r.URL.Query().Get("from")

	limit, offset, err := paginationParams(r)
	if err != nil {
		if writeErr := httpx.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "ListSpecialDates", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	overrides, err := h.overrides.ListSpecialDates(r.Context(), ownerID, fromDate, limit, offset)
	if err != nil {
		if writeErr := httpx.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "ListSpecialDates", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httpx.WriteSuccess(w, overrides); err != nil {
		h.log.Error("failed to write success response", "handler", "ListSpecialDates", "operation", "WriteSuccess", "error", err)
	}
}

func (h *ScheduleHandler) DeleteSpecialDate(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	if err := h.overrides.DeleteSpecialDate(r.Context(), ps.ByName("id")); err != nil {
		if writeErr := httpx.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "DeleteSpecialDate", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	httpx.WriteNoContent(w)
}

func (h *ScheduleHandler) UpsertRamadan(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var schedule model.RamadanSchedule
	if err := json.NewDecoder(r.Body).Decode(&schedule); err != nil {
		if writeErr := httpx.WriteJSON(w, http.StatusBadRequest, httpx.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "UpsertRamadan", "operation", "WriteJSON", "error", writeErr)
		}
		return
	}

	if err := h.overrides.UpsertRamadan(r.Context(), &schedule); err != nil {
		if writeErr := httpx.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "UpsertRamadan", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httpx.WriteSuccess(w, schedule); err != nil {
		h.log.Error("failed to write success response", "handler", "UpsertRamadan", "operation", "WriteSuccess", "error", err)
	}
}

func (h *ScheduleHandler) GetRamadan(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ownerID := ps.ByName("ownerId")

	yearStr := r.URL.Query().Get("year")
	year, err := strconv.Atoi(yearStr)
	if err != nil {
		if writeErr := httpx.WriteError(w, apperrors.InvalidInput(fmt.Sprintf("invalid year parameter: %s", yearStr))); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetRamadan", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	schedule, err := h.overrides.GetRamadan(r.Context(), ownerID, year)
	if err != nil {
		if writeErr := httpx.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetRamadan", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httpx.WriteSuccess(w, schedule); err != nil {
		h.log.Error("failed to write success response", "handler", "GetRamadan", "operation", "WriteSuccess", "error", err)
	}
}

func (h *ScheduleHandler) GetSettings(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	settings, err := h.overrides.GetSettings(r.Context(), ps.ByName("ownerId"))
	if err != nil {
		if writeErr := httpx.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetSettings", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httpx.WriteSuccess(w, settings); err != nil {
		h.log.Error("failed to write success response", "handler", "GetSettings", "operation", "WriteSuccess", "error", err)
	}
}

func (h *ScheduleHandler) UpsertSettings(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var settings model.AvailabilitySettings
	if err := json.NewDecoder(r.Body).Decode(&settings); err != nil {
		if writeErr := httpx.WriteJSON(w, http.StatusBadRequest, httpx.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "UpsertSettings", "operation", "WriteJSON", "error", writeErr)
		}
		return
	}

	settings.OwnerID = ps.ByName("ownerId")
	if err := h.overrides.UpsertSettings(r.Context(), &settings); err != nil {
		if writeErr := httpx.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "UpsertSettings", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httpx.WriteSuccess(w, settings); err != nil {
		h.log.Error("failed to write success response", "handler", "UpsertSettings", "operation", "WriteSuccess", "error", err)
	}
}

type prayerIngestResponse struct {
	Written int `json:"written"`
}

func (h *ScheduleHandler) IngestPrayerTimes(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var rows []*model.PrayerTimes
	if err := json.NewDecoder(r.Body).Decode(&rows); err != nil {
		if writeErr := httpx.WriteJSON(w, http.StatusBadRequest, httpx.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "IngestPrayerTimes", "operation", "WriteJSON", "error", writeErr)
		}
		return
	}

	written, err := h.overrides.IngestPrayerTimes(r.Context(), rows)
	if err != nil {
		if writeErr := httpx.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "IngestPrayerTimes", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httpx.WriteSuccess(w, prayerIngestResponse{Written: written}); err != nil {
		h.log.Error("failed to write success response", "handler", "IngestPrayerTimes", "operation", "WriteSuccess", "error", err)
	}
}

func (h *ScheduleHandler) registerOverrideRoutes(router *httprouter.Router) {
	router.POST("/api/v1/time-off", h.CreateTimeOff)
	router.GET("/api/v1/time-off/owner/:ownerId", h.ListTimeOff)
	router.DELETE("/api/v1/time-off/id/:id", h.DeleteTimeOff)

	router.PUT("/api/v1/special-dates", h.UpsertSpecialDate)
	router.GET("/api/v1/special-dates/owner/:ownerId", h.ListSpecialDates)
	router.DELETE("/api/v1/special-dates/id/:id", h.DeleteSpecialDate)

	router.PUT("/api/v1/ramadan-schedules", h.UpsertRamadan)
	router.GET("/api/v1/ramadan-schedules/owner/:ownerId", h.GetRamadan)

	router.GET("/api/v1/settings/owner/:ownerId", h.GetSettings)
	router.PUT("/api/v1/settings/owner/:ownerId", h.UpsertSettings)

	router.POST("/api/v1/prayer-times/ingest", h.IngestPrayerTimes)
}
