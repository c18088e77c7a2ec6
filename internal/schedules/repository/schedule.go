package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	scheduleserrors "lamsa/internal/schedules/errors"
	"lamsa/pkg/config"
	mongotx "lamsa/pkg/db/mongo"
	"lamsa/pkg/model"
)

const (
	ScheduleCollectionName = "working_schedules"
)

type mongoScheduleRepository struct {
	cfg        *config.Config
	db         *mongo.Database
	collection *mongo.Collection
	txManager  mongotx.TransactionManager
}

type ScheduleRepository interface {
	Create(ctx context.Context, schedule *model.WorkingSchedule) error
	FindByID(ctx context.Context, id string) (*model.WorkingSchedule, error)
	FindByOwner(ctx context.Context, ownerID string, limit int, offset int64) ([]*model.WorkingSchedule, error)
	FindActive(ctx context.Context, ownerID string, employeeID string) ([]*model.WorkingSchedule, error)
	Update(ctx context.Context, id string, update bson.M) (*model.WorkingSchedule, error)
	Deactivate(ctx context.Context, id string) error
	CountByOwner(ctx context.Context, ownerID string) (int64, error)
	ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error
}

func NewMongoScheduleRepository(cfg *config.Config) ScheduleRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoScheduleRepository{
		cfg:        cfg,
		db:         db,
		collection: db.Collection(ScheduleCollectionName),
		txManager:  mongotx.NewTransactionManager(cfg.Client.Mongo),
	}
}

// withTimeout wraps the context with a timeout if not already in a transaction.
// When inside a transaction (SessionContext), returns the original context unchanged
// with a no-op cancel function, as we cannot wrap SessionContext without breaking
// transaction semantics.
func withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if _, ok := ctx.(mongo.SessionContext); ok {
		// Inside transaction - cannot wrap SessionContext, return no-op cancel
		return ctx, func() {}
	}

	deadline, hasDeadline := ctx.Deadline()
	if !hasDeadline {
		return context.WithTimeout(ctx, timeout)
	}

	remaining := time.Until(deadline)
	if remaining < timeout {
		return context.WithTimeout(ctx, remaining)
	}

	return context.WithTimeout(ctx, timeout)
}

func (r *mongoScheduleRepository) Create(ctx context.Context, schedule *model.WorkingSchedule) error {
	ctx, cancel := withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	schedule.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)
	result, err := r.collection.InsertOne(ctx, schedule)
	if err != nil {
		return fmt.Errorf("failed to create working schedule: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		schedule.ID = oid.Hex()
	}
	return nil
}

func (r *mongoScheduleRepository) FindByID(ctx context.Context, id string) (*model.WorkingSchedule, error) {
	ctx, cancel := withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", scheduleserrors.ErrInvalidID, id)
	}

	var schedule model.WorkingSchedule
	err = r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&schedule)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, scheduleserrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find working schedule: %w", err)
	}

	return &schedule, nil
}

func (r *mongoScheduleRepository) FindByOwner(ctx context.Context, ownerID string, limit int, offset int64) ([]*model.WorkingSchedule, error) {
	ctx, cancel := withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "priority", Value: -1}, {Key: "created_at", Value: -1}}).
		SetLimit(int64(limit)).
		SetSkip(offset)

	cursor, err := r.collection.Find(ctx, bson.M{"owner_id": ownerID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find working schedules: %w", err)
	}
	defer cursor.Close(ctx)

	var schedules []*model.WorkingSchedule
	if err = cursor.All(ctx, &schedules); err != nil {
		return nil, fmt.Errorf("failed to decode working schedules: %w", err)
	}

	return schedules, nil
}

// FindActive returns the active schedules that could govern the given
// employee: employee-specific ones plus owner-wide ones with no employee.
// Effective-window filtering happens at resolution time, not here, so the
// resolver sees the full candidate set.
func (r *mongoScheduleRepository) FindActive(ctx context.Context, ownerID string, employeeID string) ([]*model.WorkingSchedule, error) {
	ctx, cancel := withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	filter := bson.M{
		"owner_id":  ownerID,
		"is_active": true,
	}
	if employeeID != "" {
		filter["$or"] = []bson.M{
			{"employee_id": employeeID},
			{"employee_id": bson.M{"$exists": false}},
			{"employee_id": ""},
		}
	} else {
		filter["$or"] = []bson.M{
			{"employee_id": bson.M{"$exists": false}},
			{"employee_id": ""},
		}
	}

	opts := options.Find().SetSort(bson.D{{Key: "priority", Value: -1}, {Key: "created_at", Value: -1}})

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find active schedules: %w", err)
	}
	defer cursor.Close(ctx)

	var schedules []*model.WorkingSchedule
	if err = cursor.All(ctx, &schedules); err != nil {
		return nil, fmt.Errorf("failed to decode active schedules: %w", err)
	}

	return schedules, nil
}

func (r *mongoScheduleRepository) Update(ctx context.Context, id string, update bson.M) (*model.WorkingSchedule, error) {
	ctx, cancel := withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", scheduleserrors.ErrInvalidID, id)
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var schedule model.WorkingSchedule
	err = r.collection.FindOneAndUpdate(ctx, bson.M{"_id": objectID}, bson.M{"$set": update}, opts).Decode(&schedule)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, scheduleserrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to update working schedule: %w", err)
	}

	return &schedule, nil
}

// Deactivate flips is_active off. Schedules are never hard-deleted so past
// bookings keep a resolvable history.
func (r *mongoScheduleRepository) Deactivate(ctx context.Context, id string) error {
	ctx, cancel := withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", scheduleserrors.ErrInvalidID, id)
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": objectID}, bson.M{"$set": bson.M{"is_active": false}})
	if err != nil {
		return fmt.Errorf("failed to deactivate working schedule: %w", err)
	}

	if result.MatchedCount == 0 {
		return scheduleserrors.ErrNotFound
	}

	return nil
}

func (r *mongoScheduleRepository) CountByOwner(ctx context.Context, ownerID string) (int64, error) {
	ctx, cancel := withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	count, err := r.collection.CountDocuments(ctx, bson.M{"owner_id": ownerID})
	if err != nil {
		return 0, fmt.Errorf("failed to count working schedules: %w", err)
	}

	return count, nil
}

func (r *mongoScheduleRepository) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	return r.txManager.ExecuteTransaction(ctx, fn)
}
