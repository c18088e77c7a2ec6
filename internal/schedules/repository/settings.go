package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	scheduleserrors "lamsa/internal/schedules/errors"
	"lamsa/pkg/config"
	"lamsa/pkg/model"
)

const (
	SettingsCollectionName = "availability_settings"
)

type mongoSettingsRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

type SettingsRepository interface {
	Get(ctx context.Context, ownerID string) (*model.AvailabilitySettings, error)
	Upsert(ctx context.Context, settings *model.AvailabilitySettings) error
}

func NewMongoSettingsRepository(cfg *config.Config) SettingsRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoSettingsRepository{
		cfg:        cfg,
		collection: db.Collection(SettingsCollectionName),
	}
}

func (r *mongoSettingsRepository) Get(ctx context.Context, ownerID string) (*model.AvailabilitySettings, error) {
	ctx, cancel := withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	var settings model.AvailabilitySettings
	err := r.collection.FindOne(ctx, bson.M{"_id": ownerID}).Decode(&settings)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, scheduleserrors.ErrSettingsNotFound
		}
		return nil, fmt.Errorf("failed to find availability settings: %w", err)
	}

	return &settings, nil
}

// Upsert replaces the owner's settings document wholesale. Settings are
// keyed by owner ID, one document per owner.
func (r *mongoSettingsRepository) Upsert(ctx context.Context, settings *model.AvailabilitySettings) error {
	ctx, cancel := withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	settings.UpdatedAt = time.Now().UTC().Truncate(time.Millisecond)

	filter := bson.M{"_id": settings.OwnerID}
	_, err := r.collection.ReplaceOne(ctx, filter, settings, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("failed to upsert availability settings: %w", err)
	}

	return nil
}
