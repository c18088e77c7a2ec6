package config

const (
	EnvMongoURI          = "MONGO_URI"
	EnvMongoDatabaseName = "MONGO_DATABASE_NAME"
	EnvMongoConnTimeout  = "MONGO_CONN_TIMEOUT"

	EnvRedisAddr     = "REDIS_ADDR"
	EnvRedisPassword = "REDIS_PASSWORD"
	EnvRedisDB       = "REDIS_DB"
	EnvPrayerCacheTTL = "PRAYER_CACHE_TTL"

	EnvKafkaBrokers      = "KAFKA_BROKERS"
	EnvKafkaBookingTopic = "KAFKA_BOOKING_TOPIC"

	EnvPort = "PORT"

	EnvLogLevel = "LOG_LEVEL"

	EnvRateLimitRequests = "RATE_LIMIT_REQUESTS"
	EnvRateLimitWindow   = "RATE_LIMIT_WINDOW"

	EnvRequestTimeout = "REQUEST_TIMEOUT"
	EnvIdempotencyTTL = "IDEMPOTENCY_TTL"
	EnvMaxRequestSize = "MAX_REQUEST_SIZE"

	EnvReadTimeout     = "READ_TIMEOUT"
	EnvWriteTimeout    = "WRITE_TIMEOUT"
	EnvIdleTimeout     = "IDLE_TIMEOUT"
	EnvShutdownTimeout = "SHUTDOWN_TIMEOUT"

	EnvLockTTL = "BOOKING_LOCK_TTL"

	EnvSlotGranularityMin     = "SLOT_GRANULARITY_MINUTES"
	EnvMaxAlternativeSlots    = "MAX_ALTERNATIVE_SLOTS"
	EnvMinAdvanceBookingHours = "MIN_ADVANCE_BOOKING_HOURS"
	EnvMaxAdvanceBookingDays  = "MAX_ADVANCE_BOOKING_DAYS"
	EnvBetweenAppointmentsMin = "BETWEEN_APPOINTMENTS_MINUTES"
	EnvPrayerFlexibilityMin   = "PRAYER_FLEXIBILITY_MINUTES"
	EnvDefaultCity            = "DEFAULT_CITY"
	EnvDefaultCalcMethod      = "DEFAULT_CALCULATION_METHOD"
)
