package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/gofiber/fiber/v3"

	"riskpool-service/internal/config"
	"riskpool-service/internal/database/postgres"
	"riskpool-service/internal/database/redis"
	"riskpool-service/internal/engine"
	"riskpool-service/internal/event"
	"riskpool-service/internal/handlers"
	"riskpool-service/internal/ledger"
	"riskpool-service/internal/repository"
	"riskpool-service/internal/services"
)

func setupLogging() (*os.File, error) {
	logDir := filepath.Join("/riskpool", "log", "riskpool_service")
	err := os.MkdirAll(logDir, 0o755)
	if err != nil {
		return nil, fmt.Errorf("failed to create log directory: %v", err)
	}

	currentTime := time.Now()
	logFileName := fmt.Sprintf("log_%s.log", currentTime.Format("2006-01-02"))
	logFile := filepath.Join(logDir, logFileName)

	file, err := os.OpenFile(logFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %v", err)
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(file, nil)))
	return file, nil
}

func main() {
	logFile, err := setupLogging()
	if err != nil {
		log.Fatalf("Failed to set up logging: %v", err)
	}
	defer logFile.Close()

	cfg := config.New()

	db, err := postgres.ConnectAndCreateDB(cfg.PostgresCfg)
	if err != nil {
		slog.Error("Failed to connect to database", "error", err)
		go postgres.RetryConnectOnFailed(30*time.Second, &db, cfg.PostgresCfg)
	}

	redisClient, err := redis.NewRedisClient(cfg.RedisCfg.Host, cfg.RedisCfg.Port, cfg.RedisCfg.Password, cfg.RedisCfg.DB)
	if err != nil {
		slog.Warn("Redis unavailable, running without pool cache", "error", err)
		redisClient = nil
	} else {
		defer redisClient.Close()
	}

	// Transfer requests go to the host ledger via RabbitMQ; without a broker
	// they are recorded in memory only.
	var transfers ledger.TransferPort
	rabbitConn, err := event.ConnectRabbitMQ(cfg.RabbitMQCfg)
	if err != nil {
		slog.Warn("RabbitMQ unavailable, transfer requests will not be published", "error", err)
		transfers = ledger.NewRecorder()
	} else {
		defer rabbitConn.Close()
		transfers = event.NewTransferPublisher(rabbitConn)
	}

	e := engine.New(transfers,
		engine.WithMaxPools(cfg.EngineCfg.MaxPools),
		engine.WithCreationFee(cfg.EngineCfg.CreationFee),
		engine.WithReservedAccount(cfg.EngineCfg.ReservedAccount),
	)

	repos := services.Repositories{}
	if db != nil {
		repos = services.Repositories{
			Authority:  repository.NewAuthorityRepository(db),
			Pool:       repository.NewPoolRepository(db),
			Membership: repository.NewMembershipRepository(db),
			Claim:      repository.NewClaimRepository(db),
			PoolUpdate: repository.NewPoolUpdateRepository(db),
		}
	}

	riskPoolService := services.NewRiskPoolService(e, repos, redisClient)
	if err := riskPoolService.LoadState(context.Background()); err != nil {
		log.Fatalf("Failed to restore state from storage: %v", err)
	}

	app := fiber.New()
	app.Get("/checkhealth", func(c fiber.Ctx) error {
		return c.Status(fiber.StatusOK).SendString("Riskpool service is healthy")
	})

	handlers.NewAuthorityHandler(riskPoolService).Register(app)
	handlers.NewPoolHandler(riskPoolService).Register(app)
	handlers.NewMembershipHandler(riskPoolService).Register(app)
	handlers.NewClaimHandler(riskPoolService).Register(app)

	slog.Info("Riskpool service starting", "port", cfg.Port)
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatalf("Server stopped: %v", err)
	}
}
