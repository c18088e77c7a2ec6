package config

import (
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"lamsa/pkg/client"
	"lamsa/pkg/logger"
)

type Config struct {
	MongoURI          string
	MongoDatabaseName string
	MongoConnTimeout  time.Duration

	RedisAddr      string
	RedisPassword  string
	RedisDB        int
	PrayerCacheTTL time.Duration

	KafkaBrokers      []string
	KafkaBookingTopic string

	Port string

	RateLimitRequests int
	RateLimitWindow   time.Duration

	RequestTimeout time.Duration
	IdempotencyTTL time.Duration
	MaxRequestSize int

	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration

	LockTTL time.Duration

	// Engine defaults, applied when an owner has no stored settings for the
	// corresponding tunable.
	SlotGranularityMin     int
	MaxAlternativeSlots    int
	MinAdvanceBookingHours int
	MaxAdvanceBookingDays  int
	BetweenAppointmentsMin int
	PrayerFlexibilityMin   int
	DefaultCity            string
	CalculationMethod      string

	Log    *logger.Logger
	Client *client.Client
}

func Load(serviceName string) *Config {
	cfg := &Config{
		MongoURI:          getEnvStr(EnvMongoURI, DefaultMongoURI),
		MongoDatabaseName: getEnvStr(EnvMongoDatabaseName, DefaultMongoDatabaseName),
		MongoConnTimeout:  getEnvDuration(EnvMongoConnTimeout, DefaultMongoConnTimeout),

		RedisAddr:      getEnvStr(EnvRedisAddr, DefaultRedisAddr),
		RedisPassword:  getEnvStr(EnvRedisPassword, ""),
		RedisDB:        getEnvNum(EnvRedisDB, DefaultRedisDB),
		PrayerCacheTTL: getEnvDuration(EnvPrayerCacheTTL, DefaultPrayerCacheTTL),

		KafkaBrokers:      getEnvList(EnvKafkaBrokers),
		KafkaBookingTopic: getEnvStr(EnvKafkaBookingTopic, DefaultKafkaBookingTopic),

		Port: getEnvStr(EnvPort, DefaultPort),

		RateLimitRequests: getEnvNum(EnvRateLimitRequests, DefaultRateLimitRequests),
		RateLimitWindow:   getEnvDuration(EnvRateLimitWindow, DefaultRateLimitWindow),

		RequestTimeout: getEnvDuration(EnvRequestTimeout, DefaultRequestTimeout),
		IdempotencyTTL: getEnvDuration(EnvIdempotencyTTL, DefaultIdempotencyTTL),
		MaxRequestSize: getEnvNum(EnvMaxRequestSize, DefaultMaxRequestSize),

		ReadTimeout:     getEnvDuration(EnvReadTimeout, DefaultReadTimeout),
		WriteTimeout:    getEnvDuration(EnvWriteTimeout, DefaultWriteTimeout),
		IdleTimeout:     getEnvDuration(EnvIdleTimeout, DefaultIdleTimeout),
		ShutdownTimeout: getEnvDuration(EnvShutdownTimeout, DefaultShutdownTimeout),

		LockTTL: getEnvDuration(EnvLockTTL, DefaultLockTTL),

		SlotGranularityMin:     getEnvNum(EnvSlotGranularityMin, DefaultSlotGranularityMin),
		MaxAlternativeSlots:    getEnvNum(EnvMaxAlternativeSlots, DefaultMaxAlternativeSlots),
		MinAdvanceBookingHours: getEnvNum(EnvMinAdvanceBookingHours, DefaultMinAdvanceBookingHours),
		MaxAdvanceBookingDays:  getEnvNum(EnvMaxAdvanceBookingDays, DefaultMaxAdvanceBookingDays),
		BetweenAppointmentsMin: getEnvNum(EnvBetweenAppointmentsMin, DefaultBetweenAppointmentsMin),
		PrayerFlexibilityMin:   getEnvNum(EnvPrayerFlexibilityMin, DefaultPrayerFlexibilityMin),
		DefaultCity:            getEnvStr(EnvDefaultCity, DefaultCity),
		CalculationMethod:      getEnvStr(EnvDefaultCalcMethod, DefaultCalculationMethod),

		Log: logger.New(logger.Config{
			Level:     getEnvStr(EnvLogLevel, DefaultLogLevel),
			Format:    logger.JSON,
			AddSource: true,
			Service:   serviceName,
		}),
		Client: client.New(),
	}

	if err := cfg.Validate(); err != nil {
		cfg.Log.Fatal(err.Error())
	}
	cfg.LogConfiguration()
	return cfg
}

func (cfg *Config) SetMongo() {
	cfg.Client.SetMongo(cfg.Log, cfg.MongoURI, cfg.MongoConnTimeout)
}

func (cfg *Config) SetRedis() {
	if cfg.RedisAddr == "" {
		cfg.Log.Info("Redis not configured, prayer-time caching disabled")
		return
	}
	cfg.Client.SetRedis(cfg.Log, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
}

func (cfg *Config) Validate() error {
	var errs []string

	if port, err := strconv.Atoi(cfg.Port); err != nil || port < 1 || port > 65535 {
		errs = append(errs, fmt.Sprintf("Port must be between 1 and 65535, got: %s", cfg.Port))
	}

	if cfg.MongoURI == "" {
		errs = append(errs, "MongoURI cannot be empty")
	} else if !regexp.MustCompile(`^mongodb(\+srv)?://`).MatchString(cfg.MongoURI) {
		errs = append(errs, fmt.Sprintf("MongoURI must start with 'mongodb://' or 'mongodb+srv://', got: %s", cfg.MongoURI))
	}
	if cfg.MongoDatabaseName == "" {
		errs = append(errs, "MongoDatabaseName cannot be empty")
	}

	for name, d := range map[string]time.Duration{
		"MongoConnTimeout": cfg.MongoConnTimeout,
		"RateLimitWindow":  cfg.RateLimitWindow,
		"RequestTimeout":   cfg.RequestTimeout,
		"IdempotencyTTL":   cfg.IdempotencyTTL,
		"ReadTimeout":      cfg.ReadTimeout,
		"WriteTimeout":     cfg.WriteTimeout,
		"IdleTimeout":      cfg.IdleTimeout,
		"ShutdownTimeout":  cfg.ShutdownTimeout,
		"LockTTL":          cfg.LockTTL,
	} {
		if d <= 0 {
			errs = append(errs, fmt.Sprintf("%s must be positive, got: %s", name, d))
		}
	}

	if cfg.RateLimitRequests <= 0 {
		errs = append(errs, fmt.Sprintf("RateLimitRequests must be positive, got: %d", cfg.RateLimitRequests))
	}
	if cfg.MaxRequestSize <= 0 {
		errs = append(errs, fmt.Sprintf("MaxRequestSize must be positive, got: %d", cfg.MaxRequestSize))
	}

	if cfg.SlotGranularityMin < 5 || cfg.SlotGranularityMin > 120 {
		errs = append(errs, fmt.Sprintf("SlotGranularityMin must be between 5 and 120, got: %d", cfg.SlotGranularityMin))
	}
	if cfg.MaxAlternativeSlots < 0 {
		errs = append(errs, fmt.Sprintf("MaxAlternativeSlots cannot be negative, got: %d", cfg.MaxAlternativeSlots))
	}
	if cfg.MinAdvanceBookingHours < 0 {
		errs = append(errs, fmt.Sprintf("MinAdvanceBookingHours cannot be negative, got: %d", cfg.MinAdvanceBookingHours))
	}
	if cfg.MaxAdvanceBookingDays < 1 {
		errs = append(errs, fmt.Sprintf("MaxAdvanceBookingDays must be at least 1, got: %d", cfg.MaxAdvanceBookingDays))
	}
	if cfg.BetweenAppointmentsMin < 0 {
		errs = append(errs, fmt.Sprintf("BetweenAppointmentsMin cannot be negative, got: %d", cfg.BetweenAppointmentsMin))
	}
	if cfg.PrayerFlexibilityMin < 0 {
		errs = append(errs, fmt.Sprintf("PrayerFlexibilityMin cannot be negative, got: %d", cfg.PrayerFlexibilityMin))
	}

	if len(errs) > 0 {
		msg := "Configuration validation failed:\n"
		for i, e := range errs {
			msg += fmt.Sprintf("  %d. %s\n", i+1, e)
		}
		return fmt.Errorf("%s", msg)
	}
	return nil
}

func (cfg *Config) LogConfiguration() {
	cfg.Log.Info("Configuration loaded successfully",
		"mongo_uri", redactMongoURI(cfg.MongoURI),
		"mongo_database", cfg.MongoDatabaseName,
		"mongo_conn_timeout", cfg.MongoConnTimeout,
		"redis_addr", cfg.RedisAddr,
		"prayer_cache_ttl", cfg.PrayerCacheTTL,
		"kafka_brokers", strings.Join(cfg.KafkaBrokers, ","),
		"kafka_booking_topic", cfg.KafkaBookingTopic,
		"port", cfg.Port,
		"rate_limit_requests", cfg.RateLimitRequests,
		"rate_limit_window", cfg.RateLimitWindow,
		"request_timeout", cfg.RequestTimeout,
		"idempotency_ttl", cfg.IdempotencyTTL,
		"max_request_size", cfg.MaxRequestSize,
		"read_timeout", cfg.ReadTimeout,
		"write_timeout", cfg.WriteTimeout,
		"idle_timeout", cfg.IdleTimeout,
		"shutdown_timeout", cfg.ShutdownTimeout,
		"lock_ttl", cfg.LockTTL,
		"slot_granularity_min", cfg.SlotGranularityMin,
		"max_alternative_slots", cfg.MaxAlternativeSlots,
		"min_advance_booking_hours", cfg.MinAdvanceBookingHours,
		"max_advance_booking_days", cfg.MaxAdvanceBookingDays,
		"between_appointments_min", cfg.BetweenAppointmentsMin,
		"prayer_flexibility_min", cfg.PrayerFlexibilityMin,
		"default_city", cfg.DefaultCity,
		"calculation_method", cfg.CalculationMethod,
	)
}

func (cfg *Config) GracefulShutdown() {
	cfg.Client.GracefulShutdown()
}

func redactMongoURI(uri string) string {
	credentialRegex := regexp.MustCompile(`(mongodb(\+srv)?://)[^:]+:[^@]+@`)
	return credentialRegex.ReplaceAllString(uri, "${1}***:***@")
}

func getEnvStr(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvNum(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}

func getEnvList(key string) []string {
	value := os.Getenv(key)
	if value == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func NormalizePaginationLimit(limit int) int {
	if limit <= 0 {
		limit = 10
	} else if limit > DefaultPaginationLimit {
		limit = DefaultPaginationLimit
	}
	return limit
}

func NormalizeOffset(offset int64) int64 {
	return max(0, offset)
}
