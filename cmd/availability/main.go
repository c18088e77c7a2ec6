package main

import (
	"context"

	"github.com/joho/godotenv"

	"lamsa/internal/availability/handler"
	"lamsa/internal/availability/service"
	bookingsrepo "lamsa/internal/bookings/repository"
	schedulesrepo "lamsa/internal/schedules/repository"
	"lamsa/pkg/app"
	"lamsa/pkg/config"
	mongotx "lamsa/pkg/db/mongo"
)

const ServiceName = "availability"

func main() {
	// Load .env if present; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := config.Load(ServiceName)
	cfg.SetMongo()
	cfg.SetRedis()
	defer cfg.GracefulShutdown()

	ensureIndexes(cfg)

	cfg.Log.Info("Starting Availability service")
	availabilityService := initServices(cfg)
	serverApp := app.NewApplication(cfg)
	serverApp.SetApp(handler.NewAvailabilityHandler(availabilityService, cfg.Log))
	serverApp.Run()
}

func ensureIndexes(cfg *config.Config) {
	ctx, cancel := context.WithTimeout(context.Background(), cfg.MongoConnTimeout)
	defer cancel()

	if err := mongotx.EnsureIndexes(ctx, cfg.Client.Mongo.Database(cfg.MongoDatabaseName)); err != nil {
		cfg.Log.Fatal("Failed to ensure indexes", "error", err)
	}
}

func initServices(cfg *config.Config) service.AvailabilityService {
	availabilityService := service.NewAvailabilityService(
		schedulesrepo.NewMongoScheduleRepository(cfg),
		schedulesrepo.NewMongoTimeOffRepository(cfg),
		schedulesrepo.NewMongoSpecialDateRepository(cfg),
		schedulesrepo.NewMongoRamadanRepository(cfg),
		schedulesrepo.NewMongoSettingsRepository(cfg),
		schedulesrepo.NewMongoPrayerTimesRepository(cfg),
		bookingsrepo.NewMongoBookingRepository(cfg),
		cfg,
	)

	cfg.Log.Info("Availability service initialized", "database", cfg.MongoDatabaseName)
	return availabilityService
}
