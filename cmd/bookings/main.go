package main

import (
	"context"

	"github.com/joho/godotenv"

	availabilityservice "lamsa/internal/availability/service"
	"lamsa/internal/bookings/handler"
	"lamsa/internal/bookings/repository"
	"lamsa/internal/bookings/service"
	"lamsa/internal/bookings/validator"
	schedulesrepo "lamsa/internal/schedules/repository"
	"lamsa/pkg/app"
	"lamsa/pkg/config"
	mongotx "lamsa/pkg/db/mongo"
	"lamsa/pkg/kafka"
)

const ServiceName = "bookings"

func main() {
	// Load .env if present; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := config.Load(ServiceName)
	cfg.SetMongo()
	cfg.SetRedis()
	defer cfg.GracefulShutdown()

	ensureIndexes(cfg)

	cfg.Log.Info("Starting Bookings service")
	bookingService, closeProducer := initServices(cfg)
	defer closeProducer()

	serverApp := app.NewApplication(cfg)
	serverApp.SetApp(handler.NewBookingHandler(bookingService, cfg.Log))
	serverApp.Run()
}

func ensureIndexes(cfg *config.Config) {
	ctx, cancel := context.WithTimeout(context.Background(), cfg.MongoConnTimeout)
	defer cancel()

	if err := mongotx.EnsureIndexes(ctx, cfg.Client.Mongo.Database(cfg.MongoDatabaseName)); err != nil {
		cfg.Log.Fatal("Failed to ensure indexes", "error", err)
	}
}

func initServices(cfg *config.Config) (service.BookingService, func()) {
	bookingRepo := repository.NewMongoBookingRepository(cfg)
	lockRepo := repository.NewMongoBookingLockRepository(cfg)

	availabilityService := availabilityservice.NewAvailabilityService(
		schedulesrepo.NewMongoScheduleRepository(cfg),
		schedulesrepo.NewMongoTimeOffRepository(cfg),
		schedulesrepo.NewMongoSpecialDateRepository(cfg),
		schedulesrepo.NewMongoRamadanRepository(cfg),
		schedulesrepo.NewMongoSettingsRepository(cfg),
		schedulesrepo.NewMongoPrayerTimesRepository(cfg),
		bookingRepo,
		cfg,
	)

	var publisher service.EventPublisher
	closeProducer := func() {}
	if len(cfg.KafkaBrokers) > 0 {
		producer, err := kafka.NewProducer(cfg.KafkaBrokers, cfg.KafkaBookingTopic)
		if err != nil {
			cfg.Log.Fatal("Failed to create Kafka producer", "error", err)
		}
		publisher = producer
		closeProducer = func() {
			if err := producer.Close(); err != nil {
				cfg.Log.Error("Failed to close Kafka producer", "error", err)
			}
		}
	} else {
		cfg.Log.Info("Kafka not configured, booking events disabled")
	}

	bookingService := service.NewBookingService(
		bookingRepo,
		lockRepo,
		availabilityService,
		validator.NewBookingValidator(cfg.Log),
		publisher,
		cfg,
	)

	cfg.Log.Info("Bookings service initialized", "database", cfg.MongoDatabaseName)
	return bookingService, closeProducer
}
