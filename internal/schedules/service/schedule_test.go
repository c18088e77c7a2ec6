package service

import (
	"context"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"lamsa/internal/schedules/validator"
	"lamsa/pkg/config"
	mongotx "lamsa/pkg/db/mongo"
	apperrors "lamsa/pkg/errors"
	"lamsa/pkg/logger"
	"lamsa/pkg/model"
)

// Mock repository for testing
type mockScheduleRepository struct {
	createFunc       func(ctx context.Context, schedule *model.WorkingSchedule) error
	findByIDFunc     func(ctx context.Context, id string) (*model.WorkingSchedule, error)
	findByOwnerFunc  func(ctx context.Context, ownerID string, limit int, offset int64) ([]*model.WorkingSchedule, error)
	findActiveFunc   func(ctx context.Context, ownerID string, employeeID string) ([]*model.WorkingSchedule, error)
	updateFunc       func(ctx context.Context, id string, update bson.M) (*model.WorkingSchedule, error)
	deactivateFunc   func(ctx context.Context, id string) error
	countByOwnerFunc func(ctx context.Context, ownerID string) (int64, error)
}

func (m *mockScheduleRepository) Create(ctx context.Context, schedule *model.WorkingSchedule) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, schedule)
	}
	return nil
}

func (m *mockScheduleRepository) FindByID(ctx context.Context, id string) (*model.WorkingSchedule, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *mockScheduleRepository) FindByOwner(ctx context.Context, ownerID string, limit int, offset int64) ([]*model.WorkingSchedule, error) {
	if m.findByOwnerFunc != nil {
		return m.findByOwnerFunc(ctx, ownerID, limit, offset)
	}
	return []*model.WorkingSchedule{}, nil
}

func (m *mockScheduleRepository) FindActive(ctx context.Context, ownerID string, employeeID string) ([]*model.WorkingSchedule, error) {
	if m.findActiveFunc != nil {
		return m.findActiveFunc(ctx, ownerID, employeeID)
	}
	return []*model.WorkingSchedule{}, nil
}

func (m *mockScheduleRepository) Update(ctx context.Context, id string, update bson.M) (*model.WorkingSchedule, error) {
	if m.updateFunc != nil {
		return m.updateFunc(ctx, id, update)
	}
	return nil, nil
}

func (m *mockScheduleRepository) Deactivate(ctx context.Context, id string) error {
	if m.deactivateFunc != nil {
		return m.deactivateFunc(ctx, id)
	}
	return nil
}

func (m *mockScheduleRepository) CountByOwner(ctx context.Context, ownerID string) (int64, error) {
	if m.countByOwnerFunc != nil {
		return m.countByOwnerFunc(ctx, ownerID)
	}
	return 0, nil
}

func (m *mockScheduleRepository) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	var sessCtx mongo.SessionContext
	return fn(sessCtx)
}

func testConfig() *config.Config {
	log := logger.New(logger.Config{
		Level:     "error",
		Format:    logger.JSON,
		AddSource: false,
		Service:   "test",
	})
	return &config.Config{
		Log:         log,
		ReadTimeout: 5 * time.Second,
	}
}

func TestGetByOwner_Concurrent(t *testing.T) {
	cfg := testConfig()

	mockRepo := &mockScheduleRepository{
		countByOwnerFunc: func(ctx context.Context, ownerID string) (int64, error) {
			time.Sleep(10 * time.Millisecond)
			return 3, nil
		},
		findByOwnerFunc: func(ctx context.Context, ownerID string, limit int, offset int64) ([]*model.WorkingSchedule, error) {
			time.Sleep(10 * time.Millisecond)
			return []*model.WorkingSchedule{
				{ID: "1", Name: "Standard Hours"},
			}, nil
		},
	}

	svc := &scheduleService{
		cfg:  cfg,
		repo: mockRepo,
	}

	// Run with -race flag to detect unsynchronized access
	for i := 0; i < 20; i++ {
		schedules, count, err := svc.GetByOwner(context.Background(), "507f1f77bcf86cd799439011", 10, 0)
		if err != nil {
			t.Fatalf("iteration %d: unexpected error: %v", i, err)
		}
		if count != 3 {
			t.Errorf("iteration %d: expected count 3, got %d", i, count)
		}
		if len(schedules) != 1 {
			t.Errorf("iteration %d: expected 1 schedule, got %d", i, len(schedules))
		}
	}
}

func TestCreate_DuplicateName(t *testing.T) {
	cfg := testConfig()
	v := validator.NewScheduleValidator(cfg.Log)

	mockRepo := &mockScheduleRepository{
		findActiveFunc: func(ctx context.Context, ownerID string, employeeID string) ([]*model.WorkingSchedule, error) {
			return []*model.WorkingSchedule{
				{ID: "existing", Name: "Standard Hours"},
			}, nil
		},
	}

	svc := &scheduleService{cfg: cfg, repo: mockRepo, validator: v}

	schedule := &model.WorkingSchedule{
		OwnerID:        "507f1f77bcf86cd799439011",
		Name:           "standard hours",
		RecurrenceRule: model.RecurrenceNone,
		Shifts: []model.ScheduleShift{
			{DayOfWeek: 1, StartTime: "09:00", EndTime: "18:00", ShiftType: model.ShiftRegular},
		},
	}

	err := svc.Create(context.Background(), schedule)
	if err == nil {
		t.Fatal("expected conflict error, got nil")
	}

	if !apperrors.IsAppError(err) {
		t.Fatalf("expected AppError, got %T: %v", err, err)
	}
	appErr := apperrors.AsAppError(err)
	if appErr.Code != apperrors.CodeConflict {
		t.Errorf("expected code %s, got %s", apperrors.CodeConflict, appErr.Code)
	}
}

func TestCreate_DefaultsRecurrenceRule(t *testing.T) {
	cfg := testConfig()
	v := validator.NewScheduleValidator(cfg.Log)

	var created *model.WorkingSchedule
	mockRepo := &mockScheduleRepository{
		createFunc: func(ctx context.Context, schedule *model.WorkingSchedule) error {
			created = schedule
			return nil
		},
	}

	svc := &scheduleService{cfg: cfg, repo: mockRepo, validator: v}

	schedule := &model.WorkingSchedule{
		OwnerID: "507f1f77bcf86cd799439011",
		Name:    "  Weekend   Shift ",
		Shifts: []model.ScheduleShift{
			{DayOfWeek: 5, StartTime: "10:00", EndTime: "20:00", ShiftType: model.ShiftRegular},
		},
	}

	if err := svc.Create(context.Background(), schedule); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created == nil {
		t.Fatal("expected repository Create to be called")
	}
	if created.RecurrenceRule != model.RecurrenceNone {
		t.Errorf("expected recurrence_rule default %q, got %q", model.RecurrenceNone, created.RecurrenceRule)
	}
	if created.Name != "Weekend Shift" {
		t.Errorf("expected normalized name %q, got %q", "Weekend Shift", created.Name)
	}
}

func TestUpdate_MergesPartialFields(t *testing.T) {
	cfg := testConfig()
	v := validator.NewScheduleValidator(cfg.Log)

	existing := &model.WorkingSchedule{
		ID:             "507f1f77bcf86cd799439022",
		OwnerID:        "507f1f77bcf86cd799439011",
		Name:           "Standard Hours",
		IsActive:       true,
		Priority:       10,
		RecurrenceRule: model.RecurrenceNone,
		Shifts: []model.ScheduleShift{
			{DayOfWeek: 1, StartTime: "09:00", EndTime: "18:00", ShiftType: model.ShiftRegular},
		},
	}

	var captured bson.M
	mockRepo := &mockScheduleRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.WorkingSchedule, error) {
			return existing, nil
		},
		updateFunc: func(ctx context.Context, id string, update bson.M) (*model.WorkingSchedule, error) {
			captured = update
			return existing, nil
		},
	}

	svc := &scheduleService{cfg: cfg, repo: mockRepo, validator: v}

	newPriority := 20
	_, err := svc.Update(context.Background(), existing.ID, &model.WorkingScheduleUpdate{
		Priority: &newPriority,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if captured == nil {
		t.Fatal("expected repository Update to be called")
	}
	if captured["priority"] != 20 {
		t.Errorf("expected merged priority 20, got %v", captured["priority"])
	}
	if captured["name"] != "Standard Hours" {
		t.Errorf("expected untouched name to survive merge, got %v", captured["name"])
	}
}
