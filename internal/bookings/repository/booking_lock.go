package repository

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	bookingserrors "lamsa/internal/bookings/errors"
	"lamsa/pkg/config"
	"lamsa/pkg/model"
)

const (
	BookingLockCollectionName = "booking_locks"
)

type mongoBookingLockRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

// BookingLockRepository serializes booking admission per owner/employee/day.
// Acquire relies on the unique _id index: the first inserter wins, everyone
// else gets ErrLockHeld. The TTL index on expires_at reaps locks abandoned by
// crashed processes.
type BookingLockRepository interface {
	Acquire(ctx context.Context, ownerID, employeeID, date string) error
	Release(ctx context.Context, ownerID, employeeID, date string) error
}

func NewMongoBookingLockRepository(cfg *config.Config) BookingLockRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoBookingLockRepository{
		cfg:        cfg,
		collection: db.Collection(BookingLockCollectionName),
	}
}

// LockKey builds the advisory lock identity for one owner/employee/day.
func LockKey(ownerID, employeeID, date string) string {
	return fmt.Sprintf("%s:%s:%s", ownerID, employeeID, date)
}

func (r *mongoBookingLockRepository) Acquire(ctx context.Context, ownerID, employeeID, date string) error {
	ctx, cancel := withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	now := time.Now().UTC()
	lock := model.BookingLock{
		ID:        LockKey(ownerID, employeeID, date),
		ExpiresAt: now.Add(r.cfg.LockTTL),
		CreatedAt: now,
	}

	_, err := r.collection.InsertOne(ctx, lock)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return bookingserrors.ErrLockHeld
		}
		return fmt.Errorf("failed to acquire booking lock: %w", err)
	}

	return nil
}

func (r *mongoBookingLockRepository) Release(ctx context.Context, ownerID, employeeID, date string) error {
	ctx, cancel := withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": LockKey(ownerID, employeeID, date)})
	if err != nil {
		return fmt.Errorf("failed to release booking lock: %w", err)
	}

	return nil
}
