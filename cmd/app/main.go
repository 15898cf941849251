package main

import (
	"context"
	"errors"
	"fmt"
	stdlog "log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"fulfillment/cmd"
	"fulfillment/internal/adapters/out/postgres"
	"fulfillment/internal/pkg/observability"

	"github.com/joho/godotenv"
	"github.com/labstack/gommon/log"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const shutdownTimeout = 10 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	configs := getConfigs()

	level, err := zapcore.ParseLevel(configs.LogLevel)
	if err != nil {
		level = zapcore.InfoLevel
	}
	telemetry, err := observability.Setup(ctx, observability.Config{
		ServiceName:    cmd.ServiceName,
		ServiceVersion: "1.0.0",
		OtelEndpoint:   configs.OtelEndpoint,
		OtelAuthHeader: configs.OtelAuthHeader,
		Level:          level,
	})
	logger := telemetry.Logger
	if err != nil {
		logger.Warn("telemetry export partially disabled", zap.Error(err))
	}

	exitCode := 0
	if err := run(ctx, configs, logger); err != nil {
		logger.Error("fulfillment service stopped with error", zap.Error(err))
		exitCode = 1
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := telemetry.Shutdown(shutdownCtx); err != nil {
		stdlog.Printf("telemetry shutdown: %v", err)
	}
	if exitCode != 0 {
		cancel()
		stop()
		os.Exit(exitCode)
	}
}

func run(ctx context.Context, configs cmd.Config, logger *zap.Logger) error {
	db, err := postgres.Open(configs.DSN())
	if err != nil {
		return err
	}
	if err := postgres.Migrate(db); err != nil {
		return err
	}

	app, err := cmd.NewCompositionRoot(ctx, configs, db, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := app.Close(); err != nil {
			logger.Warn("closing adapters failed", zap.Error(err))
		}
	}()

	jobManager := app.CreateJobManager()
	if err := jobManager.StartAll(); err != nil {
		return err
	}
	defer jobManager.StopAll()

	return startWebServer(ctx, app, configs.HTTPPort, logger)
}

func getConfigs() cmd.Config {
	// the environment wins over .env, and a missing file is fine in containers
	if err := godotenv.Load(".env"); err != nil && !errors.Is(err, os.ErrNotExist) {
		stdlog.Printf("loading .env: %v", err)
	}

	return cmd.Config{
		HTTPPort:                getEnv("HTTP_PORT", "8080"),
		DBHost:                  getEnv("DB_HOST", "localhost"),
		DBPort:                  getEnv("DB_PORT", "5432"),
		DBUser:                  getEnv("DB_USER", "postgres"),
		DBPassword:              getEnv("DB_PASSWORD", ""),
		DBName:                  getEnv("DB_NAME", "fulfillment"),
		DBSslMode:               getEnv("DB_SSLMODE", "disable"),
		RedisAddr:               getEnv("REDIS_ADDR", ""),
		StatusCacheTTL:          getDuration("STATUS_CACHE_TTL", 30*time.Second),
		KafkaBrokers:            splitCSV(getEnv("KAFKA_BROKERS", "localhost:9092")),
		KafkaNotificationsTopic: getEnv("KAFKA_NOTIFICATIONS_TOPIC", "fulfillment.notifications"),
		RelayBatchSize:          getInt("RELAY_BATCH_SIZE", 100),
		OtelEndpoint:            getEnv("OTEL_ENDPOINT", ""),
		OtelAuthHeader:          getEnv("OTEL_AUTH_HEADER", ""),
		LogLevel:                getEnv("LOG_LEVEL", "info"),
		CascadePolicy:           getEnv("CASCADE_POLICY", "mirror"),
	}
}

func getEnv(key, def string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return def
}

func getInt(key string, def int) int {
	v, err := strconv.Atoi(getEnv(key, ""))
	if err != nil {
		return def
	}
	return v
}

func getDuration(key string, def time.Duration) time.Duration {
	v, err := time.ParseDuration(getEnv(key, ""))
	if err != nil {
		return def
	}
	return v
}

func splitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func startWebServer(ctx context.Context, app *cmd.CompositionRoot, port string, logger *zap.Logger) error {
	e := app.CreateServer().NewEcho()
	e.HidePort = true
	e.Logger.SetLevel(log.WARN)

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening", zap.String("port", port))
		if err := e.Start(fmt.Sprintf("0.0.0.0:%s", port)); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	logger.Info("http server shutting down")
	return e.Shutdown(shutdownCtx)
}
