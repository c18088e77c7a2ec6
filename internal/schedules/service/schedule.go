package service

import (
	"context"
	"errors"
	"strings"
	"sync"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	scheduleserrors "lamsa/internal/schedules/errors"
	"lamsa/internal/schedules/repository"
	"lamsa/internal/schedules/validator"
	"lamsa/pkg/config"
	apperrors "lamsa/pkg/errors"
	"lamsa/pkg/model"
	"lamsa/pkg/sanitizer"
)

type ScheduleService interface {
	Create(ctx context.Context, schedule *model.WorkingSchedule) error
	GetByID(ctx context.Context, id string) (*model.WorkingSchedule, error)
	GetByOwner(ctx context.Context, ownerID string, limit int, offset int64) ([]*model.WorkingSchedule, int64, error)
	Update(ctx context.Context, id string, updates *model.WorkingScheduleUpdate) (*model.WorkingSchedule, error)
	Deactivate(ctx context.Context, id string) error
}

type scheduleService struct {
	repo      repository.ScheduleRepository
	validator *validator.ScheduleValidator
	cfg       *config.Config
}

func NewScheduleService(
	repo repository.ScheduleRepository,
	v *validator.ScheduleValidator,
	cfg *config.Config,
) ScheduleService {
	return &scheduleService{
		repo:      repo,
		validator: v,
		cfg:       cfg,
	}
}

func (s *scheduleService) Create(ctx context.Context, schedule *model.WorkingSchedule) error {
	s.sanitize(schedule)

	if err := s.validator.Validate(schedule); err != nil {
		s.cfg.Log.Warn("Working schedule validation failed",
			"name", schedule.Name,
			"owner_id", schedule.OwnerID,
			"error", err,
		)
		return apperrors.Validation("Working schedule validation failed", map[string]any{
			"error": err.Error(),
		})
	}

	err := s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		existing, err := s.repo.FindActive(sessCtx, schedule.OwnerID, schedule.EmployeeID)
		if err != nil {
			return apperrors.Internal("Failed to check for existing schedules", err)
		}

		for _, e := range existing {
			if strings.EqualFold(e.Name, schedule.Name) {
				return apperrors.Conflict("An active schedule with the same name already exists")
			}
		}
		return s.repo.Create(sessCtx, schedule)
	})
	if err != nil {
		s.cfg.Log.Error("Failed to create working schedule",
			"name", schedule.Name,
			"owner_id", schedule.OwnerID,
			"error", err,
		)
		return err
	}

	s.cfg.Log.Info("Working schedule created successfully",
		"id", schedule.ID,
		"name", schedule.Name,
		"owner_id", schedule.OwnerID,
		"priority", schedule.Priority,
	)
	return nil
}

func (s *scheduleService) GetByID(ctx context.Context, id string) (*model.WorkingSchedule, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Schedule ID cannot be empty")
	}

	schedule, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, scheduleserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Working schedule", id)
		}
		if errors.Is(err, scheduleserrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid schedule ID format")
		}
		s.cfg.Log.Error("Failed to get working schedule by ID",
			"id", id,
			"error", err,
		)
		return nil, apperrors.Internal("Failed to retrieve working schedule", err)
	}

	return schedule, nil
}

func (s *scheduleService) GetByOwner(ctx context.Context, ownerID string, limit int, offset int64) ([]*model.WorkingSchedule, int64, error) {
	if ownerID == "" {
		return nil, 0, apperrors.InvalidInput("Owner ID cannot be empty")
	}

	limit = config.NormalizePaginationLimit(limit)
	offset = config.NormalizeOffset(offset)

	sharedCtx, cancel := context.WithTimeout(ctx, s.cfg.ReadTimeout)
	defer cancel()

	var count int64
	var schedules []*model.WorkingSchedule
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		var err error
		count, err = s.repo.CountByOwner(sharedCtx, ownerID)
		if err != nil {
			s.cfg.Log.Error("Failed to count working schedules", "owner_id", ownerID, "error", err)
			errCount = apperrors.Internal("Failed to count working schedules", err)
		}
	}()

	go func() {
		defer wg.Done()
		var err error
		schedules, err = s.repo.FindByOwner(sharedCtx, ownerID, limit, offset)
		if err != nil {
			s.cfg.Log.Error("Failed to list working schedules",
				"owner_id", ownerID,
				"limit", limit,
				"offset", offset,
				"error", err,
			)
			errFind = apperrors.Internal("Failed to retrieve working schedules", err)
		}
	}()

	wg.Wait()
	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}
	return schedules, count, nil
}

func (s *scheduleService) Update(ctx context.Context, id string, updates *model.WorkingScheduleUpdate) (*model.WorkingSchedule, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Schedule ID cannot be empty")
	}

	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, scheduleserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Working schedule", id)
		}
		if errors.Is(err, scheduleserrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid schedule ID format")
		}
		return nil, apperrors.Internal("Failed to check schedule existence", err)
	}

	s.sanitizeUpdate(updates)
	merged := s.mergeScheduleUpdates(existing, updates)
	if err := s.validator.Validate(merged); err != nil {
		s.cfg.Log.Warn("Working schedule validation failed",
			"id", id,
			"name", merged.Name,
			"error", err,
		)
		return nil, apperrors.Validation("Working schedule validation failed", map[string]any{
			"error": err.Error(),
		})
	}

	var updated *model.WorkingSchedule
	err = s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		siblings, err := s.repo.FindActive(sessCtx, merged.OwnerID, merged.EmployeeID)
		if err != nil {
			return apperrors.Internal("Failed to check for duplicate schedules", err)
		}
		for _, e := range siblings {
			if e.ID == merged.ID {
				continue
			}
			if strings.EqualFold(e.Name, merged.Name) {
				return apperrors.Conflict("Another active schedule with the same name already exists")
			}
		}

		updated, err = s.repo.Update(sessCtx, id, s.updateFields(merged))
		if err != nil {
			s.cfg.Log.Error("Failed to update working schedule", "id", id, "error", err)
			return apperrors.Internal("Failed to update working schedule", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.cfg.Log.Info("Working schedule updated successfully", "id", id, "name", updated.Name)
	return updated, nil
}

// Deactivate retires a schedule without deleting it, so lower-priority
// schedules (or none) take over from the next resolution onward.
func (s *scheduleService) Deactivate(ctx context.Context, id string) error {
	if id == "" {
		return apperrors.InvalidInput("Schedule ID cannot be empty")
	}

	if err := s.repo.Deactivate(ctx, id); err != nil {
		if errors.Is(err, scheduleserrors.ErrNotFound) {
			return apperrors.NotFoundWithID("Working schedule", id)
		}
		if errors.Is(err, scheduleserrors.ErrInvalidID) {
			return apperrors.InvalidInput("Invalid schedule ID format")
		}
		s.cfg.Log.Error("Failed to deactivate working schedule", "id", id, "error", err)
		return apperrors.Internal("Failed to deactivate working schedule", err)
	}

	s.cfg.Log.Info("Working schedule deactivated", "id", id)
	return nil
}

func (s *scheduleService) sanitize(schedule *model.WorkingSchedule) {
	schedule.Name = sanitizer.NormalizeName(schedule.Name)
	if schedule.RecurrenceRule == "" {
		schedule.RecurrenceRule = model.RecurrenceNone
	}
}

func (s *scheduleService) sanitizeUpdate(updates *model.WorkingScheduleUpdate) {
	if updates.Name != "" {
		updates.Name = sanitizer.NormalizeName(updates.Name)
	}
}

func (s *scheduleService) mergeScheduleUpdates(existing *model.WorkingSchedule, updates *model.WorkingScheduleUpdate) *model.WorkingSchedule {
	merged := *existing

	if updates.Name != "" {
		merged.Name = updates.Name
	}
	if updates.IsActive != nil {
		merged.IsActive = *updates.IsActive
	}
	if updates.Priority != nil {
		merged.Priority = *updates.Priority
	}
	if updates.EffectiveFrom != nil {
		merged.EffectiveFrom = *updates.EffectiveFrom
	}
	if updates.EffectiveTo != nil {
		merged.EffectiveTo = *updates.EffectiveTo
	}
	if updates.RecurrenceRule != "" {
		merged.RecurrenceRule = updates.RecurrenceRule
	}
	if updates.Shifts != nil {
		merged.Shifts = *updates.Shifts
	}
	if updates.Breaks != nil {
		merged.Breaks = *updates.Breaks
	}

	merged.ID = existing.ID
	merged.CreatedAt = existing.CreatedAt
	return &merged
}

func (s *scheduleService) updateFields(merged *model.WorkingSchedule) bson.M {
	return bson.M{
		"name":            merged.Name,
		"is_active":       merged.IsActive,
		"priority":        merged.Priority,
		"effective_from":  merged.EffectiveFrom,
		"effective_to":    merged.EffectiveTo,
		"recurrence_rule": merged.RecurrenceRule,
		"shifts":          merged.Shifts,
		"breaks":          merged.Breaks,
	}
}
