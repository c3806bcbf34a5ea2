package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"marketplace/cmd"
	"marketplace/internal/adapters/out/postgres/couponrepo"
	"marketplace/internal/adapters/out/postgres/courierrepo"
	"marketplace/internal/adapters/out/postgres/orderrepo"
	"marketplace/internal/adapters/out/rabbitmq"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	configs := getConfigs()
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	gormDB := mustConnectDB(configs)

	notifier, err := rabbitmq.NewNotifier(configs.RabbitMQURL)
	if err != nil {
		logger.Error("Failed to connect to RabbitMQ", "error", err)
		os.Exit(1)
	}
	defer notifier.Close()

	app := cmd.NewCompositionRoot(configs, gormDB, notifier)

	ctx := context.Background()
	if err := app.HydrateCourierDirectory(ctx); err != nil {
		logger.Error("Failed to hydrate courier directory", "error", err)
		os.Exit(1)
	}

	jobManager := app.CreateJobManager(logger)
	if err := jobManager.StartAll(); err != nil {
		logger.Error("Failed to start jobs", "error", err)
		os.Exit(1)
	}
	defer jobManager.StopAll()

	startWebServer(app, configs.HTTPPort, logger)
}

func getConfigs() cmd.Config {
	config := cmd.Config{
		HTTPPort:          goDotEnvVariable("HTTP_PORT"),
		DBHost:            goDotEnvVariable("DB_HOST"),
		DBPort:            goDotEnvVariable("DB_PORT"),
		DBUser:            goDotEnvVariable("DB_USER"),
		DBPassword:        goDotEnvVariable("DB_PASSWORD"),
		DBName:            goDotEnvVariable("DB_NAME"),
		DBSslMode:         goDotEnvVariable("DB_SSLMODE"),
		RabbitMQURL:       goDotEnvVariable("RABBITMQ_URL"),
		CatalogServiceURL: goDotEnvVariable("CATALOG_SERVICE_URL"),
		JWTSecret:         goDotEnvVariable("JWT_SECRET"),
	}
	return config
}

func goDotEnvVariable(key string) string {
	err := godotenv.Load(".env")
	if err != nil {
		log.Fatalf("Error loading .env file")
	}
	return os.Getenv(key)
}

func mustConnectDB(configs cmd.Config) *gorm.DB {
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		configs.DBHost, configs.DBPort, configs.DBUser,
		configs.DBPassword, configs.DBName, configs.DBSslMode)

	db, err := gorm.Open(gormpostgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := db.AutoMigrate(
		&orderrepo.OrderDTO{},
		&orderrepo.ItemDTO{},
		&orderrepo.HistoryDTO{},
		&courierrepo.CourierDTO{},
		&couponrepo.CouponDTO{},
	); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	return db
}

func startWebServer(app cmd.CompositionRoot, port string, logger *slog.Logger) {
	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())

	app.CreateServer().RegisterRoutes(e)

	// Serve until interrupted, then drain in-flight requests
	go func() {
		if err := e.Start(fmt.Sprintf("0.0.0.0:%s", port)); err != nil && err != http.ErrServerClosed {
			logger.Error("HTTP server stopped", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("Failed to shut down HTTP server", "error", err)
	}
}
