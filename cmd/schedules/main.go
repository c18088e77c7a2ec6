package main

import (
	"context"

	"github.com/joho/godotenv"

	"lamsa/internal/schedules/handler"
	"lamsa/internal/schedules/repository"
	"lamsa/internal/schedules/service"
	"lamsa/internal/schedules/validator"
	"lamsa/pkg/app"
	"lamsa/pkg/config"
	mongotx "lamsa/pkg/db/mongo"
)

const ServiceName = "schedules"

func main() {
	// Load .env if present; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := config.Load(ServiceName)
	cfg.SetMongo()
	cfg.SetRedis()
	defer cfg.GracefulShutdown()

	ensureIndexes(cfg)

	cfg.Log.Info("Starting Schedules service")
	scheduleService, overrideService := initServices(cfg)
	serverApp := app.NewApplication(cfg)
	serverApp.SetApp(handler.NewScheduleHandler(scheduleService, overrideService, cfg.Log))
	serverApp.Run()
}

func ensureIndexes(cfg *config.Config) {
	ctx, cancel := context.WithTimeout(context.Background(), cfg.MongoConnTimeout)
	defer cancel()

	if err := mongotx.EnsureIndexes(ctx, cfg.Client.Mongo.Database(cfg.MongoDatabaseName)); err != nil {
		cfg.Log.Fatal("Failed to ensure indexes", "error", err)
	}
}

func initServices(cfg *config.Config) (service.ScheduleService, service.OverrideService) {
	scheduleValidator := validator.NewScheduleValidator(cfg.Log)

	scheduleRepo := repository.NewMongoScheduleRepository(cfg)
	scheduleService := service.NewScheduleService(
		scheduleRepo,
		scheduleValidator,
		cfg,
	)

	overrideService := service.NewOverrideService(
		repository.NewMongoTimeOffRepository(cfg),
		repository.NewMongoSpecialDateRepository(cfg),
		repository.NewMongoRamadanRepository(cfg),
		repository.NewMongoSettingsRepository(cfg),
		repository.NewMongoPrayerTimesRepository(cfg),
		scheduleValidator,
		cfg,
	)

	cfg.Log.Info("Schedules service initialized", "database", cfg.MongoDatabaseName)
	return scheduleService, overrideService
}
