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
	"lamsa/pkg/model"
)

const (
	TimeOffCollectionName = "time_off"
)

type mongoTimeOffRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

type TimeOffRepository interface {
	Create(ctx context.Context, timeOff *model.TimeOff) error
	FindByID(ctx context.Context, id string) (*model.TimeOff, error)
	FindByOwner(ctx context.Context, ownerID string, limit int, offset int64) ([]*model.TimeOff, error)
	FindForDate(ctx context.Context, ownerID string, employeeID string, date string) ([]*model.TimeOff, error)
	Delete(ctx context.Context, id string) error
}

func NewMongoTimeOffRepository(cfg *config.Config) TimeOffRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoTimeOffRepository{
		cfg:        cfg,
		collection: db.Collection(TimeOffCollectionName),
	}
}

func (r *mongoTimeOffRepository) Create(ctx context.Context, timeOff *model.TimeOff) error {
	ctx, cancel := withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	timeOff.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)
	result, err := r.collection.InsertOne(ctx, timeOff)
	if err != nil {
		return fmt.Errorf("failed to create time off: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		timeOff.ID = oid.Hex()
	}
	return nil
}

func (r *mongoTimeOffRepository) FindByID(ctx context.Context, id string) (*model.TimeOff, error) {
	ctx, cancel := withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", scheduleserrors.ErrInvalidID, id)
	}

	var timeOff model.TimeOff
	err = r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&timeOff)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, scheduleserrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find time off: %w", err)
	}

	return &timeOff, nil
}

func (r *mongoTimeOffRepository) FindByOwner(ctx context.Context, ownerID string, limit int, offset int64) ([]*model.TimeOff, error) {
	ctx, cancel := withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "start_date", Value: 1}}).
		SetLimit(int64(limit)).
		SetSkip(offset)

	cursor, err := r.collection.Find(ctx, bson.M{"owner_id": ownerID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find time off records: %w", err)
	}
	defer cursor.Close(ctx)

	var records []*model.TimeOff
	if err = cursor.All(ctx, &records); err != nil {
		return nil, fmt.Errorf("failed to decode time off records: %w", err)
	}

	return records, nil
}

// FindForDate returns the time-off records whose date range covers the given
// date, for the employee or the whole business. ISO dates compare
// lexicographically, so the bracket works as plain string comparison.
func (r *mongoTimeOffRepository) FindForDate(ctx context.Context, ownerID string, employeeID string, date string) ([]*model.TimeOff, error) {
	ctx, cancel := withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	filter := bson.M{
		"owner_id":   ownerID,
		"start_date": bson.M{"$lte": date},
		"end_date":   bson.M{"$gte": date},
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

	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to find time off for date: %w", err)
	}
	defer cursor.Close(ctx)

	var records []*model.TimeOff
	if err = cursor.All(ctx, &records); err != nil {
		return nil, fmt.Errorf("failed to decode time off for date: %w", err)
	}

	return records, nil
}

func (r *mongoTimeOffRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", scheduleserrors.ErrInvalidID, id)
	}

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": objectID})
	if err != nil {
		return fmt.Errorf("failed to delete time off: %w", err)
	}

	if result.DeletedCount == 0 {
		return scheduleserrors.ErrNotFound
	}

	return nil
}
