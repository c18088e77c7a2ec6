package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EnsureIndexes creates the indexes the booking guard and engine queries rely
// on. The unique lock _id plus the TTL reaper together form the storage-level
// backstop against double-booking; everything above it is advisory.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	// Advisory locks expire on their own if a crashed process never releases
	// them.
	_, err := db.Collection("booking_locks").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "expires_at", Value: 1}},
		Options: options.Index().SetExpireAfterSeconds(0),
	})
	if err != nil {
		return fmt.Errorf("failed to create booking_locks TTL index: %w", err)
	}

	_, err = db.Collection("bookings").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{
			{Key: "owner_id", Value: 1},
			{Key: "date", Value: 1},
			{Key: "status", Value: 1},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create bookings compound index: %w", err)
	}

	_, err = db.Collection("prayer_times").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{
			{Key: "city", Value: 1},
			{Key: "date", Value: 1},
		},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("failed to create prayer_times unique index: %w", err)
	}

	_, err = db.Collection("working_schedules").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{
			{Key: "owner_id", Value: 1},
			{Key: "is_active", Value: 1},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create working_schedules index: %w", err)
	}

	return nil
}
