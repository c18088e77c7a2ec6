package config

import "time"

const (
	DefaultMongoURI          = "mongodb://localhost:27017"
	DefaultMongoDatabaseName = "lamsa"
	DefaultMongoConnTimeout  = 10 * time.Second

	DefaultRedisAddr      = ""
	DefaultRedisDB        = 0
	DefaultPrayerCacheTTL = 12 * time.Hour

	DefaultKafkaBookingTopic = "lamsa.bookings"

	DefaultPort = "8080"

	DefaultLogLevel = "info"

	DefaultRateLimitRequests = 30
	DefaultRateLimitWindow   = 1 * time.Minute

	DefaultRequestTimeout = 30 * time.Second
	DefaultIdempotencyTTL = 24 * time.Hour
	DefaultMaxRequestSize = 1 * 1024 * 1024 // 1MB

	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 15 * time.Second
	DefaultIdleTimeout     = 60 * time.Second
	DefaultShutdownTimeout = 30 * time.Second

	DefaultLockTTL = 10 * time.Second

	DefaultSlotGranularityMin     = 15
	DefaultMaxAlternativeSlots    = 3
	DefaultMinAdvanceBookingHours = 2
	DefaultMaxAdvanceBookingDays  = 60
	DefaultBetweenAppointmentsMin = 0
	DefaultPrayerFlexibilityMin   = 10
	DefaultCity                   = ""
	DefaultCalculationMethod      = "umm_al_qura"

	DefaultPaginationLimit = 100
)
