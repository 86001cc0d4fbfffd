package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/gartstein/workforce/internal/workforce/auth"
	"github.com/gartstein/workforce/internal/workforce/config"
	"github.com/gartstein/workforce/internal/workforce/controller"
	"github.com/gartstein/workforce/internal/workforce/db"
	"github.com/gartstein/workforce/internal/workforce/events"
	"github.com/gartstein/workforce/internal/workforce/handlers"
	"go.uber.org/zap"
)

const (
	startupTimeout       = 2 * time.Minute
	sessionSweepInterval = 5 * time.Minute
)

func main() {
	logger := initLogger()
	if err := run(logger); err != nil {
		logger.Error("Service failed", zap.Error(err))
		_ = logger.Sync()
		os.Exit(1)
	}
	_ = logger.Sync()
}

// run wires the service and serves until a shutdown signal arrives or a
// server fails. Deferred cleanups drain the notification queue and close
// the stores on either path.
func run(logger *zap.Logger) error {
	cfg, err := config.Load(config.Path())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if cfg.JWTSecret == "" {
		return errors.New("JWT_SECRET is not set")
	}

	repo, err := initDatabase(cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer func() {
		if err := repo.Close(); err != nil {
			logger.Error("failed to close database", zap.Error(err))
		}
	}()

	dispatcher, closeDispatcher, err := initDispatcher(cfg, logger)
	if err != nil {
		return err
	}
	defer closeDispatcher()

	sessions, closeSessions, err := initSessionStore(cfg, logger)
	if err != nil {
		return err
	}
	defer closeSessions()

	gateway := auth.NewGateway(repo, sessions, auth.NewTokenIssuer(cfg.JWTSecret, cfg.TokenTTL), logger)

	companySvc := controller.NewCompanyService(repo, logger)
	employeeSvc := controller.NewEmployeeService(repo, dispatcher, logger)
	statsSvc := controller.NewStatisticsService(repo, logger)

	router, err := handlers.NewRouter(gateway, logger,
		handlers.NewAuthHandler(gateway, logger),
		handlers.NewCompanyHandler(companySvc, statsSvc, logger),
		handlers.NewEmployeeHandler(employeeSvc, logger),
	)
	if err != nil {
		return fmt.Errorf("failed to build HTTP router: %w", err)
	}

	server := handlers.NewServer(cfg.GRPCPort, cfg.HTTPPort, logger)
	server.SetHTTPHandler(router)

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(stop)

	return waitForShutdown(server, stop, logger)
}

// initLogger initializes a Zap production logger.
func initLogger() *zap.Logger {
	logger, _ := zap.NewProduction()
	return logger
}

// initDatabase connects to the database, retrying while it comes up.
func initDatabase(cfg *config.Config, logger *zap.Logger) (*db.Repository, error) {
	dbConf := &db.Config{
		Driver:   cfg.DBDriver,
		Host:     cfg.DBHost,
		Port:     cfg.DBPort,
		User:     cfg.DBUser,
		Password: cfg.DBPassword,
		DBName:   cfg.DBName,
		SSLMode:  cfg.DBSSLMode,
		Path:     cfg.DBPath,
	}

	b := backoff.NewExponentialBackOff()
	b.MaxElapsedTime = startupTimeout

	var repo *db.Repository
	err := backoff.RetryNotify(func() error {
		var err error
		repo, err = db.NewRepository(dbConf)
		return err
	}, b, func(err error, next time.Duration) {
		logger.Warn("Database not ready, retrying", zap.Error(err), zap.Duration("next", next))
	})
	return repo, err
}

// initDispatcher returns the Kafka producer, or a logging stand-in when no
// brokers are configured.
func initDispatcher(cfg *config.Config, logger *zap.Logger) (controller.Dispatcher, func(), error) {
	if len(cfg.KafkaBrokers) == 0 {
		logger.Warn("KAFKA_BROKERS is empty, notifications will only be logged")
		return logDispatcher{logger: logger.Named("notifications")}, func() {}, nil
	}

	b := backoff.NewExponentialBackOff()
	b.MaxElapsedTime = startupTimeout
	err := backoff.RetryNotify(func() error {
		return events.EnsureTopic(cfg.KafkaBrokers, cfg.Topic, logger)
	}, b, func(err error, next time.Duration) {
		logger.Warn("Kafka not ready, retrying", zap.Error(err), zap.Duration("next", next))
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize Kafka topic: %w", err)
	}

	producer := events.NewProducer(cfg.KafkaBrokers, cfg.Topic, logger)
	return producer, producer.Close, nil
}

// initSessionStore picks Redis when REDIS_ADDR is set so sessions survive
// restarts and are shared between replicas.
func initSessionStore(cfg *config.Config, logger *zap.Logger) (auth.SessionStore, func(), error) {
	if cfg.RedisAddr == "" {
		logger.Info("REDIS_ADDR is empty, keeping sessions in memory")
		store := auth.NewMemorySessionStore()
		stopSweep := store.StartSweeper(sessionSweepInterval)
		return store, stopSweep, nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	store, err := auth.NewRedisSessionStore(ctx, auth.RedisConfig{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return store, func() {
		if err := store.Close(); err != nil {
			logger.Error("failed to close Redis client", zap.Error(err))
		}
	}, nil
}

type logDispatcher struct {
	logger *zap.Logger
}

func (d logDispatcher) Dispatch(n events.Notification) {
	d.logger.Info("Notification", zap.String("to", n.To), zap.String("title", n.Title), zap.String("body", n.Body))
}

// lifecycle is the part of handlers.Server driven by waitForShutdown.
type lifecycle interface {
	Start() error
	Stop()
}

// waitForShutdown serves until a signal arrives on stop, then stops the
// servers and waits for Start to return. A server failing on its own ends
// the wait with its error.
func waitForShutdown(server lifecycle, stop <-chan os.Signal, logger *zap.Logger) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	select {
	case sig := <-stop:
		logger.Info("Shutdown signal received", zap.String("signal", sig.String()))
		server.Stop()
		if err := <-errCh; err != nil {
			return err
		}
		logger.Info("Servers stopped properly")
		return nil
	case err := <-errCh:
		// the other server may still be running
		server.Stop()
		if err == nil {
			err = errors.New("servers exited unexpectedly")
		}
		return err
	}
}
