package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/bibbank/microlend/internal/application/usecase"
	"github.com/bibbank/microlend/internal/infrastructure/config"
	"github.com/bibbank/microlend/internal/infrastructure/kafka"
	pgRepo "github.com/bibbank/microlend/internal/infrastructure/persistence/postgres"
	"github.com/bibbank/microlend/internal/infrastructure/scheduler"
	grpcPresentation "github.com/bibbank/microlend/internal/presentation/grpc"
	"github.com/bibbank/microlend/internal/presentation/rest"
	"github.com/bibbank/microlend/pkg/auth"
	pkgkafka "github.com/bibbank/microlend/pkg/kafka"
	"github.com/bibbank/microlend/pkg/observability"
	pkgpostgres "github.com/bibbank/microlend/pkg/postgres"
)

func main() {
	if err := run(); err != nil {
		slog.Error("scoring-service failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg := config.Load()

	logger := observability.InitLogger(observability.LogConfig{
		Level:   cfg.LogLevel,
		Format:  cfg.LogFormat,
		Service: cfg.ServiceName,
	})

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	logger.Info("starting scoring-service",
		"http_port", cfg.HTTPPort,
		"grpc_port", cfg.GRPCPort,
	)

	if cfg.Telemetry.OTLPEndpoint != "" {
		shutdown, err := observability.InitTracer(ctx, observability.TracingConfig{
			ServiceName: cfg.ServiceName,
			Endpoint:    cfg.Telemetry.OTLPEndpoint,
			Insecure:    true,
			SampleRatio: cfg.Telemetry.SampleRatio,
		})
		if err != nil {
			logger.Warn("failed to initialize tracer, continuing without tracing", "error", err)
		} else {
			defer func() { _ = shutdown(context.Background()) }() //nolint:errcheck // best-effort tracer shutdown
		}
	}

	meterProvider, metricsHandler, err := observability.InitMetrics(observability.MetricsConfig{
		ServiceName: cfg.ServiceName,
	})
	if err != nil {
		return fmt.Errorf("init metrics: %w", err)
	}
	defer func() { _ = meterProvider.Shutdown(context.Background()) }() //nolint:errcheck

	// Database.
	dbCfg := pkgpostgres.Config{
		Host:     cfg.DB.Host,
		Port:     cfg.DB.Port,
		User:     cfg.DB.User,
		Password: cfg.DB.Password,
		Database: cfg.DB.Name,
		SSLMode:  cfg.DB.SSLMode,
		MaxConns: int32(cfg.DB.MaxConns), //nolint:gosec // bounded by config
	}

	dbCtx, dbCancel := context.WithTimeout(ctx, 10*time.Second)
	pool, err := pkgpostgres.NewPool(dbCtx, dbCfg)
	dbCancel()
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer pool.Close()
	logger.Info("connected to database")

	if cfg.DB.MigrationsPath != "" {
		version, err := pkgpostgres.Migrate(dbCfg.DSN(), cfg.DB.MigrationsPath)
		if err != nil {
			return fmt.Errorf("run migrations: %w", err)
		}
		logger.Info("migrations applied", "source", cfg.DB.MigrationsPath, "version", version)
	}

	// Messaging.
	kafkaCfg := pkgkafka.Config{
		Brokers:       cfg.Kafka.Brokers,
		ConsumerGroup: cfg.Kafka.ConsumerGroup,
		ClientID:      cfg.ServiceName,
		TLS:           cfg.Kafka.TLS,
		SASLEnabled:   cfg.Kafka.SASLEnabled,
		SASLMechanism: cfg.Kafka.SASLMechanism,
		SASLUsername:  cfg.Kafka.SASLUsername,
		SASLPassword:  cfg.Kafka.SASLPassword,
	}
	producer, err := pkgkafka.NewProducer(kafkaCfg)
	if err != nil {
		return fmt.Errorf("create kafka producer: %w", err)
	}
	defer func() { _ = producer.Close() }() //nolint:errcheck
	publisher := kafka.NewKafkaEventPublisher(producer, cfg.Kafka.EventsTopic, logger)

	// Use cases.
	engine := usecase.NewEngine(
		pgRepo.NewUserRepo(pool),
		pgRepo.NewLoanRepo(pool),
		pgRepo.NewHistoryReader(pool),
		publisher,
		usecase.WithLogger(logger),
	)

	jwtSvc, err := auth.NewJWTService(auth.JWTConfig{
		Secret:     cfg.Auth.JWTSecret,
		Issuer:     cfg.Auth.JWTIssuer,
		Expiration: cfg.Auth.TokenTTL,
	})
	if err != nil {
		return fmt.Errorf("init JWT service: %w", err)
	}

	errCh := make(chan error, 3)

	// Lending activity consumer.
	if cfg.Kafka.ActivityTopic != "" {
		handler := kafka.NewActivityHandler(engine.Refresh, logger)
		consumer, err := pkgkafka.NewConsumer(kafkaCfg, cfg.Kafka.ActivityTopic, handler.Handle, logger)
		if err != nil {
			return fmt.Errorf("create activity consumer: %w", err)
		}
		defer func() { _ = consumer.Close() }() //nolint:errcheck
		go func() {
			if err := consumer.Start(ctx); err != nil {
				errCh <- fmt.Errorf("activity consumer: %w", err)
			}
		}()
	}

	// Scheduled refresh.
	var job *scheduler.ScoreRefreshJob
	if cfg.ScoreRefreshCron != "" {
		job, err = scheduler.NewScoreRefreshJob(cfg.ScoreRefreshCron, engine.Refresh, logger, cfg.ScoreRefreshSince)
		if err != nil {
			return fmt.Errorf("create score refresh job: %w", err)
		}
		job.Start()
	}

	// Servers.
	grpcServer, err := grpcPresentation.NewServer(grpcPresentation.NewScoringHandler(engine), jwtSvc, logger,
		grpcPresentation.ServerOptions{
			TLSCertFile: cfg.TLS.CertFile,
			TLSKeyFile:  cfg.TLS.KeyFile,
			Reflection:  cfg.EnableReflection,
		})
	if err != nil {
		return fmt.Errorf("create gRPC server: %w", err)
	}

	httpServer := &http.Server{
		Addr: cfg.HTTPAddr(),
		Handler: rest.NewRouter(rest.RouterConfig{
			Service:   cfg.ServiceName,
			Scoring:   rest.NewScoringHandler(engine, logger),
			Validator: jwtSvc,
			DB:        dbPinger(pool),
			Metrics:   metricsHandler,
			Logger:    logger,
		}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if err := grpcServer.Serve(cfg.GRPCAddr()); err != nil {
			errCh <- fmt.Errorf("gRPC server: %w", err)
		}
	}()

	go func() {
		logger.Info("HTTP server starting", "port", cfg.HTTPPort)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("HTTP server: %w", err)
		}
	}()

	var runErr error
	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case runErr = <-errCh:
		logger.Error("server error", "error", runErr)
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if job != nil {
		job.Stop(shutdownCtx)
	}
	grpcServer.GracefulStop()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown error", "error", err)
	}

	logger.Info("scoring-service stopped")
	return runErr
}

func dbPinger(pool *pgxpool.Pool) rest.Pinger {
	return rest.PingFunc(func(ctx context.Context) error {
		return pkgpostgres.HealthCheck(ctx, pool)
	})
}
