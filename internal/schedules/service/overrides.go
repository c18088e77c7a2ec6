package service

import (
	"context"
	"errors"

	scheduleserrors "lamsa/internal/schedules/errors"
	"lamsa/internal/schedules/repository"
	"lamsa/internal/schedules/validator"
	"lamsa/pkg/config"
	apperrors "lamsa/pkg/errors"
	"lamsa/pkg/model"
	"lamsa/pkg/sanitizer"
)

// OverrideService manages everything that modifies the recurring schedule
// from the outside: time off, special dates, Ramadan templates, owner
// settings and prayer-time ingest.
type OverrideService interface {
	CreateTimeOff(ctx context.Context, timeOff *model.TimeOff) error
	ListTimeOff(ctx context.Context, ownerID string, limit int, offset int64) ([]*model.TimeOff, error)
	DeleteTimeOff(ctx context.Context, id string) error

	UpsertSpecialDate(ctx context.Context, override *model.SpecialDateOverride) error
	ListSpecialDates(ctx context.Context, ownerID string, fromDate string, limit int, offset int64) ([]*model.SpecialDateOverride, error)
	DeleteSpecialDate(ctx context.Context, id string) error

	UpsertRamadan(ctx context.Context, schedule *model.RamadanSchedule) error
	GetRamadan(ctx context.Context, ownerID string, year int) (*model.RamadanSchedule, error)

	GetSettings(ctx context.Context, ownerID string) (*model.AvailabilitySettings, error)
	UpsertSettings(ctx context.Context, settings *model.AvailabilitySettings) error

	IngestPrayerTimes(ctx context.Context, rows []*model.PrayerTimes) (int, error)
}

type overrideService struct {
	timeOffRepo     repository.TimeOffRepository
	specialDateRepo repository.SpecialDateRepository
	ramadanRepo     repository.RamadanRepository
	settingsRepo    repository.SettingsRepository
	prayerRepo      repository.PrayerTimesRepository
	validator       *validator.ScheduleValidator
	cfg             *config.Config
}

func NewOverrideService(
	timeOffRepo repository.TimeOffRepository,
	specialDateRepo repository.SpecialDateRepository,
	ramadanRepo repository.RamadanRepository,
	settingsRepo repository.SettingsRepository,
	prayerRepo repository.PrayerTimesRepository,
	v *validator.ScheduleValidator,
	cfg *config.Config,
) OverrideService {
	return &overrideService{
		timeOffRepo:     timeOffRepo,
		specialDateRepo: specialDateRepo,
		ramadanRepo:     ramadanRepo,
		settingsRepo:    settingsRepo,
		prayerRepo:      prayerRepo,
		validator:       v,
		cfg:             cfg,
	}
}

func (s *overrideService) CreateTimeOff(ctx context.Context, timeOff *model.TimeOff) error {
	timeOff.Reason = sanitizer.TrimAndNormalize(timeOff.Reason)

	if err := s.validator.ValidateTimeOff(timeOff); err != nil {
		s.cfg.Log.Warn("Time off validation failed",
			"owner_id", timeOff.OwnerID,
			"error", err,
		)
		return apperrors.Validation("Time off validation failed", map[string]any{
			"error": err.Error(),
		})
	}

	if err := s.timeOffRepo.Create(ctx, timeOff); err != nil {
		s.cfg.Log.Error("Failed to create time off",
			"owner_id", timeOff.OwnerID,
			"start_date", timeOff.StartDate,
			"error", err,
		)
		return apperrors.Internal("Failed to create time off", err)
	}

	s.cfg.Log.Info("Time off created successfully",
		"id", timeOff.ID,
		"owner_id", timeOff.OwnerID,
		"start_date", timeOff.StartDate,
		"end_date", timeOff.EndDate,
	)
	return nil
}

func (s *overrideService) ListTimeOff(ctx context.Context, ownerID string, limit int, offset int64) ([]*model.TimeOff, error) {
	if ownerID == "" {
		return nil, apperrors.InvalidInput("Owner ID cannot be empty")
	}

	limit = config.NormalizePaginationLimit(limit)
	offset = config.NormalizeOffset(offset)

	records, err := s.timeOffRepo.FindByOwner(ctx, ownerID, limit, offset)
	if err != nil {
		s.cfg.Log.Error("Failed to list time off", "owner_id", ownerID, "error", err)
		return nil, apperrors.Internal("Failed to retrieve time off records", err)
	}
	return records, nil
}

func (s *overrideService) DeleteTimeOff(ctx context.Context, id string) error {
	if id == "" {
		return apperrors.InvalidInput("Time off ID cannot be empty")
	}

	if err := s.timeOffRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, scheduleserrors.ErrNotFound) {
			return apperrors.NotFoundWithID("Time off", id)
		}
		if errors.Is(err, scheduleserrors.ErrInvalidID) {
			return apperrors.InvalidInput("Invalid time off ID format")
		}
		s.cfg.Log.Error("Failed to delete time off", "id", id, "error", err)
		return apperrors.Internal("Failed to delete time off", err)
	}

	s.cfg.Log.Info("Time off deleted", "id", id)
	return nil
}

func (s *overrideService) UpsertSpecialDate(ctx context.Context, override *model.SpecialDateOverride) error {
	override.Reason = sanitizer.TrimAndNormalize(override.Reason)

	if err := s.validator.ValidateSpecialDate(override); err != nil {
		s.cfg.Log.Warn("Special date validation failed",
			"owner_id", override.OwnerID,
			"date", override.Date,
			"error", err,
		)
		return apperrors.Validation("Special date validation failed", map[string]any{
			"error": err.Error(),
		})
	}

	if err := s.specialDateRepo.Upsert(ctx, override); err != nil {
		s.cfg.Log.Error("Failed to upsert special date override",
			"owner_id", override.OwnerID,
			"date", override.Date,
			"error", err,
		)
		return apperrors.Internal("Failed to save special date override", err)
	}

	s.cfg.Log.Info("Special date override saved",
		"owner_id", override.OwnerID,
		"date", override.Date,
		"is_available", override.IsAvailable,
	)
	return nil
}

func (s *overrideService) ListSpecialDates(ctx context.Context, ownerID string, fromDate string, limit int, offset int64) ([]*model.SpecialDateOverride, error) {
	if ownerID == "" {
		return nil, apperrors.InvalidInput("Owner ID cannot be empty")
	}

	limit = config.NormalizePaginationLimit(limit)
	offset = config.NormalizeOffset(offset)

	overrides, err := s.specialDateRepo.FindByOwner(ctx, ownerID, fromDate, limit, offset)
	if err != nil {
		s.cfg.Log.Error("Failed to list special dates", "owner_id", ownerID, "error", err)
		return nil, apperrors.Internal("Failed to retrieve special date overrides", err)
	}
	return overrides, nil
}

func (s *overrideService) DeleteSpecialDate(ctx context.Context, id string) error {
	if id == "" {
		return apperrors.InvalidInput("Special date ID cannot be empty")
	}

	if err := s.specialDateRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, scheduleserrors.ErrNotFound) {
			return apperrors.NotFoundWithID("Special date override", id)
		}
		if errors.Is(err, scheduleserrors.ErrInvalidID) {
			return apperrors.InvalidInput("Invalid special date ID format")
		}
		s.cfg.Log.Error("Failed to delete special date override", "id", id, "error", err)
		return apperrors.Internal("Failed to delete special date override", err)
	}

	s.cfg.Log.Info("Special date override deleted", "id", id)
	return nil
}

func (s *overrideService) UpsertRamadan(ctx context.Context, schedule *model.RamadanSchedule) error {
	if err := s.validator.ValidateRamadan(schedule); err != nil {
		s.cfg.Log.Warn("Ramadan schedule validation failed",
			"owner_id", schedule.OwnerID,
			"year", schedule.Year,
			"error", err,
		)
		return apperrors.Validation("Ramadan schedule validation failed", map[string]any{
			"error": err.Error(),
		})
	}

	if err := s.ramadanRepo.Upsert(ctx, schedule); err != nil {
		s.cfg.Log.Error("Failed to upsert ramadan schedule",
			"owner_id", schedule.OwnerID,
			"year", schedule.Year,
			"error", err,
		)
		return apperrors.Internal("Failed to save ramadan schedule", err)
	}

	s.cfg.Log.Info("Ramadan schedule saved",
		"owner_id", schedule.OwnerID,
		"year", schedule.Year,
		"template_type", schedule.TemplateType,
	)
	return nil
}

func (s *overrideService) GetRamadan(ctx context.Context, ownerID string, year int) (*model.RamadanSchedule, error) {
	if ownerID == "" {
		return nil, apperrors.InvalidInput("Owner ID cannot be empty")
	}

	schedule, err := s.ramadanRepo.FindByOwnerYear(ctx, ownerID, year)
	if err != nil {
		if errors.Is(err, scheduleserrors.ErrNotFound) {
			return nil, apperrors.NotFound("No ramadan schedule for owner and year")
		}
		s.cfg.Log.Error("Failed to get ramadan schedule", "owner_id", ownerID, "year", year, "error", err)
		return nil, apperrors.Internal("Failed to retrieve ramadan schedule", err)
	}
	return schedule, nil
}

func (s *overrideService) GetSettings(ctx context.Context, ownerID string) (*model.AvailabilitySettings, error) {
	if ownerID == "" {
		return nil, apperrors.InvalidInput("Owner ID cannot be empty")
	}

	settings, err := s.settingsRepo.Get(ctx, ownerID)
	if err != nil {
		if errors.Is(err, scheduleserrors.ErrSettingsNotFound) {
			return nil, apperrors.NotFound("No availability settings for owner")
		}
		s.cfg.Log.Error("Failed to get availability settings", "owner_id", ownerID, "error", err)
		return nil, apperrors.Internal("Failed to retrieve availability settings", err)
	}
	return settings, nil
}

func (s *overrideService) UpsertSettings(ctx context.Context, settings *model.AvailabilitySettings) error {
	settings.City = sanitizer.NormalizeCity(settings.City)

	if err := s.validator.ValidateSettings(settings); err != nil {
		s.cfg.Log.Warn("Availability settings validation failed",
			"owner_id", settings.OwnerID,
			"error", err,
		)
		return apperrors.Validation("Availability settings validation failed", map[string]any{
			"error": err.Error(),
		})
	}

	if err := s.settingsRepo.Upsert(ctx, settings); err != nil {
		s.cfg.Log.Error("Failed to upsert availability settings",
			"owner_id", settings.OwnerID,
			"error", err,
		)
		return apperrors.Internal("Failed to save availability settings", err)
	}

	s.cfg.Log.Info("Availability settings saved",
		"owner_id", settings.OwnerID,
		"city", settings.City,
		"prayer_breaks", settings.EnablePrayerBreaks,
	)
	return nil
}

// IngestPrayerTimes writes a batch of daily prayer rows, skipping rows that
// fail validation. Returns the number of rows written.
func (s *overrideService) IngestPrayerTimes(ctx context.Context, rows []*model.PrayerTimes) (int, error) {
	if len(rows) == 0 {
		return 0, apperrors.InvalidInput("Prayer times batch cannot be empty")
	}

	valid := make([]*model.PrayerTimes, 0, len(rows))
	for i, row := range rows {
		row.City = sanitizer.NormalizeCity(row.City)
		if row.CalculationMethod == "" {
			row.CalculationMethod = s.cfg.CalculationMethod
		}
		if err := s.validator.ValidatePrayerTimes(row); err != nil {
			s.cfg.Log.Warn("Skipping invalid prayer times row",
				"index", i,
				"city", row.City,
				"date", row.Date,
				"error", err,
			)
			continue
		}
		valid = append(valid, row)
	}

	if len(valid) == 0 {
		return 0, apperrors.Validation("No valid prayer times rows in batch", nil)
	}

	written, err := s.prayerRepo.UpsertBatch(ctx, valid)
	if err != nil {
		s.cfg.Log.Error("Prayer times ingest completed with errors",
			"written", written,
			"total", len(valid),
			"error", err,
		)
		if written == 0 {
			return 0, apperrors.Internal("Failed to ingest prayer times", err)
		}
	}

	s.cfg.Log.Info("Prayer times ingested",
		"written", written,
		"skipped", len(rows)-written,
	)
	return written, nil
}
