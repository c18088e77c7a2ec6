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
	RamadanCollectionName = "ramadan_schedules"
)

type mongoRamadanRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

type RamadanRepository interface {
	Upsert(ctx context.Context, schedule *model.RamadanSchedule) error
	FindByOwnerYear(ctx context.Context, ownerID string, year int) (*model.RamadanSchedule, error)
	FindCovering(ctx context.Context, ownerID string, date string) (*model.RamadanSchedule, error)
	Delete(ctx context.Context, id string) error
}

func NewMongoRamadanRepository(cfg *config.Config) RamadanRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoRamadanRepository{
		cfg:        cfg,
		collection: db.Collection(RamadanCollectionName),
	}
}

// Upsert keeps one Ramadan template per owner per year.
func (r *mongoRamadanRepository) Upsert(ctx context.Context, schedule *model.RamadanSchedule) error {
	ctx, cancel := withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	filter := bson.M{
		"owner_id": schedule.OwnerID,
		"year":     schedule.Year,
	}
	update := bson.M{
		"$set": bson.M{
			"owner_id":            schedule.OwnerID,
			"year":                schedule.Year,
			"template_type":       schedule.TemplateType,
			"start_date":          schedule.StartDate,
			"end_date":            schedule.EndDate,
			"early_shift_start":   schedule.EarlyShiftStart,
			"early_shift_end":     schedule.EarlyShiftEnd,
			"late_shift_start":    schedule.LateShiftStart,
			"late_shift_end":      schedule.LateShiftEnd,
			"iftar_break_minutes": schedule.IftarBreakMinutes,
			"auto_adjust_maghrib": schedule.AutoAdjustMaghrib,
		},
		"$setOnInsert": bson.M{
			"created_at": time.Now().UTC().Truncate(time.Millisecond),
		},
	}

	result, err := r.collection.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("failed to upsert ramadan schedule: %w", err)
	}

	if oid, ok := result.UpsertedID.(primitive.ObjectID); ok {
		schedule.ID = oid.Hex()
	}
	return nil
}

func (r *mongoRamadanRepository) FindByOwnerYear(ctx context.Context, ownerID string, year int) (*model.RamadanSchedule, error) {
	ctx, cancel := withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	var schedule model.RamadanSchedule
	err := r.collection.FindOne(ctx, bson.M{"owner_id": ownerID, "year": year}).Decode(&schedule)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, scheduleserrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find ramadan schedule: %w", err)
	}

	return &schedule, nil
}

// FindCovering returns the owner's Ramadan template whose stored period
// contains the given date, or ErrNotFound when the date is outside Ramadan.
func (r *mongoRamadanRepository) FindCovering(ctx context.Context, ownerID string, date string) (*model.RamadanSchedule, error) {
	ctx, cancel := withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	filter := bson.M{
		"owner_id":   ownerID,
		"start_date": bson.M{"$lte": date},
		"end_date":   bson.M{"$gte": date},
	}

	var schedule model.RamadanSchedule
	err := r.collection.FindOne(ctx, filter).Decode(&schedule)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, scheduleserrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find covering ramadan schedule: %w", err)
	}

	return &schedule, nil
}

func (r *mongoRamadanRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", scheduleserrors.ErrInvalidID, id)
	}

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": objectID})
	if err != nil {
		return fmt.Errorf("failed to delete ramadan schedule: %w", err)
	}

	if result.DeletedCount == 0 {
		return scheduleserrors.ErrNotFound
	}

	return nil
}
