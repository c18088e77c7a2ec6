package service

import (
	"context"
	"errors"
	"sync"

	"go.mongodb.org/mongo-driver/mongo"

	availability "lamsa/internal/availability/service"
	bookingserrors "lamsa/internal/bookings/errors"
	"lamsa/internal/bookings/repository"
	"lamsa/internal/bookings/validator"
	"lamsa/pkg/config"
	apperrors "lamsa/pkg/errors"
	"lamsa/pkg/interval"
	"lamsa/pkg/kafka"
	"lamsa/pkg/model"
	"lamsa/pkg/sanitizer"
)

const (
	eventSource              = "bookings"
	EventBookingCreated      = "booking.created"
	EventBookingStatusChange = "booking.status_changed"
)

// EventPublisher emits booking lifecycle events. *kafka.Producer satisfies it;
// tests swap in a recorder.
type EventPublisher interface {
	Publish(ctx context.Context, msg kafka.Message) error
}

type BookingService interface {
	Create(ctx context.Context, booking *model.Booking) error
	GetByID(ctx context.Context, id string) (*model.Booking, error)
	GetByOwner(ctx context.Context, ownerID string, limit int, offset int64) ([]*model.Booking, int64, error)
	UpdateStatus(ctx context.Context, id, status string) (*model.Booking, error)
}

type bookingService struct {
	repo         repository.BookingRepository
	locks        repository.BookingLockRepository
	availability availability.AvailabilityService
	validator    *validator.BookingValidator
	publisher    EventPublisher
	cfg          *config.Config
}

func NewBookingService(
	repo repository.BookingRepository,
	locks repository.BookingLockRepository,
	avail availability.AvailabilityService,
	v *validator.BookingValidator,
	publisher EventPublisher,
	cfg *config.Config,
) BookingService {
	return &bookingService{
		repo:         repo,
		locks:        locks,
		availability: avail,
		validator:    v,
		publisher:    publisher,
		cfg:          cfg,
	}
}

// Create admits a booking through the guarded sequence: validate, take the
// advisory day lock, run the full availability check, then insert inside a
// transaction that re-checks booking overlap. The checks under the lock are
// what close the window between two requests both seeing the same slot as
// free.
func (s *bookingService) Create(ctx context.Context, booking *model.Booking) error {
	s.sanitize(booking)

	if err := s.validator.Validate(booking); err != nil {
		s.cfg.Log.Warn("Booking validation failed",
			"owner_id", booking.OwnerID,
			"date", booking.Date,
			"error", err,
		)
		return apperrors.Validation("Booking validation failed", map[string]any{
			"error": err.Error(),
		})
	}

	if err := s.locks.Acquire(ctx, booking.OwnerID, booking.EmployeeID, booking.Date); err != nil {
		if errors.Is(err, bookingserrors.ErrLockHeld) {
			s.cfg.Log.Warn("Booking admission contended",
				"owner_id", booking.OwnerID,
				"employee_id", booking.EmployeeID,
				"date", booking.Date,
			)
			return apperrors.Conflict("Another booking for this day is being processed, please retry")
		}
		return apperrors.Internal("Failed to acquire booking lock", err)
	}
	defer func() {
		if err := s.locks.Release(ctx, booking.OwnerID, booking.EmployeeID, booking.Date); err != nil {
			s.cfg.Log.Error("Failed to release booking lock",
				"owner_id", booking.OwnerID,
				"date", booking.Date,
				"error", err,
			)
		}
	}()

	// The engine's concurrent reads must stay off the transaction: a Mongo
	// server session is not safe for concurrent operations. The full check
	// runs under the advisory lock on the request context; the transaction
	// then re-checks booking overlap with one sequential query.
	check, err := s.availability.CheckConflict(ctx, booking.OwnerID, booking.EmployeeID, booking.Date, booking.StartTime, booking.EndTime)
	if err != nil {
		s.cfg.Log.Error("Failed to check availability for booking",
			"owner_id", booking.OwnerID,
			"date", booking.Date,
			"error", err,
		)
		return err
	}
	if !check.Available {
		s.cfg.Log.Info("Booking rejected",
			"owner_id", booking.OwnerID,
			"date", booking.Date,
			"start_time", booking.StartTime,
			"end_time", booking.EndTime,
			"reason", check.Reason,
		)
		return apperrors.Conflict("Requested time range is not available").WithDetails(map[string]any{
			"reason":            check.Reason,
			"alternative_slots": check.AlternativeSlots,
		})
	}

	requested, err := interval.ParseClockRange(booking.StartTime, booking.EndTime)
	if err != nil {
		return apperrors.Validation("Booking validation failed", map[string]any{
			"error": err.Error(),
		})
	}

	err = s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		active, err := s.repo.FindActiveByOwnerAndDate(sessCtx, booking.OwnerID, booking.EmployeeID, booking.Date)
		if err != nil {
			return apperrors.Internal("Failed to re-check existing bookings", err)
		}
		for _, existing := range active {
			iv, err := interval.ParseClockRange(existing.StartTime, existing.EndTime)
			if err != nil {
				continue
			}
			if iv.Overlaps(requested) {
				return apperrors.Conflict("Requested time range is not available").WithDetails(map[string]any{
					"reason": model.ReasonBookingConflict,
				})
			}
		}
		return s.repo.Create(sessCtx, booking)
	})
	if err != nil {
		if appErr := apperrors.AsAppError(err); appErr.Code == apperrors.CodeConflict {
			s.cfg.Log.Info("Booking rejected",
				"owner_id", booking.OwnerID,
				"date", booking.Date,
				"start_time", booking.StartTime,
				"end_time", booking.EndTime,
			)
			return err
		}
		s.cfg.Log.Error("Failed to create booking",
			"owner_id", booking.OwnerID,
			"date", booking.Date,
			"error", err,
		)
		return err
	}

	s.publishEvent(ctx, EventBookingCreated, booking)

	s.cfg.Log.Info("Booking created successfully",
		"id", booking.ID,
		"owner_id", booking.OwnerID,
		"date", booking.Date,
		"start_time", booking.StartTime,
		"end_time", booking.EndTime,
	)
	return nil
}

func (s *bookingService) GetByID(ctx context.Context, id string) (*model.Booking, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Booking ID cannot be empty")
	}

	booking, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Booking", id)
		}
		if errors.Is(err, bookingserrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid booking ID format")
		}
		s.cfg.Log.Error("Failed to get booking by ID", "id", id, "error", err)
		return nil, apperrors.Internal("Failed to retrieve booking", err)
	}

	return booking, nil
}

func (s *bookingService) GetByOwner(ctx context.Context, ownerID string, limit int, offset int64) ([]*model.Booking, int64, error) {
	if ownerID == "" {
		return nil, 0, apperrors.InvalidInput("Owner ID cannot be empty")
	}

	limit = config.NormalizePaginationLimit(limit)
	offset = config.NormalizeOffset(offset)

	sharedCtx, cancel := context.WithTimeout(ctx, s.cfg.ReadTimeout)
	defer cancel()

	var count int64
	var bookings []*model.Booking
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		var err error
		count, err = s.repo.CountByOwner(sharedCtx, ownerID)
		if err != nil {
			s.cfg.Log.Error("Failed to count bookings", "owner_id", ownerID, "error", err)
			errCount = apperrors.Internal("Failed to count bookings", err)
		}
	}()

	go func() {
		defer wg.Done()
		var err error
		bookings, err = s.repo.FindByOwner(sharedCtx, ownerID, limit, offset)
		if err != nil {
			s.cfg.Log.Error("Failed to list bookings",
				"owner_id", ownerID,
				"limit", limit,
				"offset", offset,
				"error", err,
			)
			errFind = apperrors.Internal("Failed to retrieve bookings", err)
		}
	}()

	wg.Wait()
	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}
	return bookings, count, nil
}

// UpdateStatus moves a booking through the admission state machine. Leaving
// an occupying status frees the time range for future availability queries.
func (s *bookingService) UpdateStatus(ctx context.Context, id, status string) (*model.Booking, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Booking ID cannot be empty")
	}

	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Booking", id)
		}
		if errors.Is(err, bookingserrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid booking ID format")
		}
		return nil, apperrors.Internal("Failed to check booking existence", err)
	}

	if !existing.CanTransitionTo(status) {
		s.cfg.Log.Warn("Booking status transition rejected",
			"id", id,
			"from", existing.Status,
			"to", status,
		)
		return nil, apperrors.Validation("Status transition not allowed", map[string]any{
			"from": existing.Status,
			"to":   status,
		})
	}

	updated, err := s.repo.UpdateStatus(ctx, id, status)
	if err != nil {
		s.cfg.Log.Error("Failed to update booking status", "id", id, "status", status, "error", err)
		return nil, apperrors.Internal("Failed to update booking status", err)
	}

	s.publishEvent(ctx, EventBookingStatusChange, updated)

	s.cfg.Log.Info("Booking status updated",
		"id", id,
		"from", existing.Status,
		"to", status,
	)
	return updated, nil
}

// publishEvent emits asynchronously observable lifecycle events. Delivery
// failures are logged, not surfaced: the booking write is the source of truth
// and must not be rolled back over a broker hiccup.
func (s *bookingService) publishEvent(ctx context.Context, eventType string, booking *model.Booking) {
	if s.publisher == nil {
		return
	}

	msg, err := kafka.NewMessage(booking.OwnerID, eventType, eventSource, booking)
	if err != nil {
		s.cfg.Log.Error("Failed to build booking event", "event_type", eventType, "booking_id", booking.ID, "error", err)
		return
	}
	if err := s.publisher.Publish(ctx, msg); err != nil {
		s.cfg.Log.Error("Failed to publish booking event", "event_type", eventType, "booking_id", booking.ID, "error", err)
	}
}

func (s *bookingService) sanitize(booking *model.Booking) {
	booking.ServiceName = sanitizer.TrimAndNormalize(booking.ServiceName)
	if booking.Status == "" {
		booking.Status = model.StatusPending
	}
}
