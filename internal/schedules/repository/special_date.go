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
	SpecialDateCollectionName = "special_date_overrides"
)

type mongoSpecialDateRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

type SpecialDateRepository interface {
	Upsert(ctx context.Context, override *model.SpecialDateOverride) error
	FindByDate(ctx context.Context, ownerID string, employeeID string, date string) (*model.SpecialDateOverride, error)
	FindByOwner(ctx context.Context, ownerID string, fromDate string, limit int, offset int64) ([]*model.SpecialDateOverride, error)
	Delete(ctx context.Context, id string) error
}

func NewMongoSpecialDateRepository(cfg *config.Config) SpecialDateRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoSpecialDateRepository{
		cfg:        cfg,
		collection: db.Collection(SpecialDateCollectionName),
	}
}

// Upsert writes the override keyed by owner, employee and date so a second
// submission for the same date replaces the first instead of stacking.
func (r *mongoSpecialDateRepository) Upsert(ctx context.Context, override *model.SpecialDateOverride) error {
	ctx, cancel := withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	filter := bson.M{
		"owner_id": override.OwnerID,
		"date":     override.Date,
	}
	if override.EmployeeID != "" {
		filter["employee_id"] = override.EmployeeID
	} else {
		filter["employee_id"] = bson.M{"$in": []interface{}{nil, ""}}
	}

	update := bson.M{
		"$set": bson.M{
			"owner_id":     override.OwnerID,
			"employee_id":  override.EmployeeID,
			"date":         override.Date,
			"is_available": override.IsAvailable,
			"starts_at":    override.StartsAt,
			"ends_at":      override.EndsAt,
			"reason":       override.Reason,
		},
		"$setOnInsert": bson.M{
			"created_at": time.Now().UTC().Truncate(time.Millisecond),
		},
	}

	result, err := r.collection.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("failed to upsert special date override: %w", err)
	}

	if oid, ok := result.UpsertedID.(primitive.ObjectID); ok {
		override.ID = oid.Hex()
	}
	return nil
}

func (r *mongoSpecialDateRepository) FindByDate(ctx context.Context, ownerID string, employeeID string, date string) (*model.SpecialDateOverride, error) {
	ctx, cancel := withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	filter := bson.M{
		"owner_id": ownerID,
		"date":     date,
	}
	if employeeID != "" {
		filter["$or"] = []bson.M{
			{"employee_id": employeeID},
			{"employee_id": bson.M{"$exists": false}},
			{"employee_id": ""},
		}
	}

	// Employee-specific overrides win over owner-wide ones for the same date.
	opts := options.FindOne().SetSort(bson.D{{Key: "employee_id", Value: -1}})

	var override model.SpecialDateOverride
	err := r.collection.FindOne(ctx, filter, opts).Decode(&override)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, scheduleserrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find special date override: %w", err)
	}

	return &override, nil
}

func (r *mongoSpecialDateRepository) FindByOwner(ctx context.Context, ownerID string, fromDate string, limit int, offset int64) ([]*model.SpecialDateOverride, error) {
	ctx, cancel := withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	filter := bson.M{"owner_id": ownerID}
	if fromDate != "" {
		filter["date"] = bson.M{"$gte": fromDate}
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "date", Value: 1}}).
		SetLimit(int64(limit)).
		SetSkip(offset)

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find special date overrides: %w", err)
	}
	defer cursor.Close(ctx)

	var overrides []*model.SpecialDateOverride
	if err = cursor.All(ctx, &overrides); err != nil {
		return nil, fmt.Errorf("failed to decode special date overrides: %w", err)
	}

	return overrides, nil
}

func (r *mongoSpecialDateRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", scheduleserrors.ErrInvalidID, id)
	}

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": objectID})
	if err != nil {
		return fmt.Errorf("failed to delete special date override: %w", err)
	}

	if result.DeletedCount == 0 {
		return scheduleserrors.ErrNotFound
	}

	return nil
}
