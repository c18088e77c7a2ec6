package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	scheduleserrors "lamsa/internal/schedules/errors"
	"lamsa/pkg/config"
	"lamsa/pkg/model"
)

const (
	PrayerTimesCollectionName = "prayer_times"
)

type mongoPrayerTimesRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
	cache      *redis.Client
}

type PrayerTimesRepository interface {
	Get(ctx context.Context, city string, date string) (*model.PrayerTimes, error)
	Upsert(ctx context.Context, times *model.PrayerTimes) error
	UpsertBatch(ctx context.Context, rows []*model.PrayerTimes) (int, error)
}

func NewMongoPrayerTimesRepository(cfg *config.Config) PrayerTimesRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoPrayerTimesRepository{
		cfg:        cfg,
		collection: db.Collection(PrayerTimesCollectionName),
		cache:      cfg.Client.Redis,
	}
}

func cacheKey(city, date string) string {
	return fmt.Sprintf("prayer_times:%s:%s", city, date)
}

// Get reads through the Redis cache. Prayer rows for a city and date never
// change after ingest except by explicit re-ingest, which invalidates the
// key, so a long TTL is safe. Cache failures fall back to Mongo silently.
func (r *mongoPrayerTimesRepository) Get(ctx context.Context, city string, date string) (*model.PrayerTimes, error) {
	if cached := r.readCache(ctx, city, date); cached != nil {
		return cached, nil
	}

	ctx, cancel := withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	var times model.PrayerTimes
	err := r.collection.FindOne(ctx, bson.M{"city": city, "date": date}).Decode(&times)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, scheduleserrors.ErrPrayerTimesNotFound
		}
		return nil, fmt.Errorf("failed to find prayer times: %w", err)
	}

	r.writeCache(ctx, &times)
	return &times, nil
}

func (r *mongoPrayerTimesRepository) Upsert(ctx context.Context, times *model.PrayerTimes) error {
	ctx, cancel := withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	filter := bson.M{"city": times.City, "date": times.Date}
	update := bson.M{
		"$set": bson.M{
			"city":               times.City,
			"date":               times.Date,
			"fajr":               times.Fajr,
			"dhuhr":              times.Dhuhr,
			"asr":                times.Asr,
			"maghrib":            times.Maghrib,
			"isha":               times.Isha,
			"calculation_method": times.CalculationMethod,
		},
	}

	_, err := r.collection.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("failed to upsert prayer times: %w", err)
	}

	r.invalidate(ctx, times.City, times.Date)
	return nil
}

// UpsertBatch ingests a day-by-day batch for one or more cities, returning
// how many rows were written. Rows that fail are skipped; the first error is
// returned alongside the count so the caller can report a partial ingest.
func (r *mongoPrayerTimesRepository) UpsertBatch(ctx context.Context, rows []*model.PrayerTimes) (int, error) {
	var written int
	var firstErr error
	for _, row := range rows {
		if err := r.Upsert(ctx, row); err != nil {
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		written++
	}
	return written, firstErr
}

func (r *mongoPrayerTimesRepository) readCache(ctx context.Context, city, date string) *model.PrayerTimes {
	if r.cache == nil {
		return nil
	}

	data, err := r.cache.Get(ctx, cacheKey(city, date)).Bytes()
	if err != nil {
		return nil
	}

	var times model.PrayerTimes
	if err := json.Unmarshal(data, &times); err != nil {
		return nil
	}
	return &times
}

func (r *mongoPrayerTimesRepository) writeCache(ctx context.Context, times *model.PrayerTimes) {
	if r.cache == nil {
		return
	}

	data, err := json.Marshal(times)
	if err != nil {
		return
	}
	if err := r.cache.Set(ctx, cacheKey(times.City, times.Date), data, r.cfg.PrayerCacheTTL).Err(); err != nil {
		r.cfg.Log.Warn("Failed to cache prayer times", "error", err, "city", times.City, "date", times.Date)
	}
}

func (r *mongoPrayerTimesRepository) invalidate(ctx context.Context, city, date string) {
	if r.cache == nil {
		return
	}
	if err := r.cache.Del(ctx, cacheKey(city, date)).Err(); err != nil {
		r.cfg.Log.Warn("Failed to invalidate prayer times cache", "error", err, "city", city, "date", date)
	}
}
