// @title                       Job Board API
// @version                     1.0
// @description                 Job postings, applications and candidate profiles.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog"

	"github.com/jobboard/jobboard-api/internal/api"
	"github.com/jobboard/jobboard-api/internal/core/ports"
	"github.com/jobboard/jobboard-api/internal/core/service"
	"github.com/jobboard/jobboard-api/internal/infrastructure/config"
	mongodb "github.com/jobboard/jobboard-api/internal/infrastructure/db/mongo"
	"github.com/jobboard/jobboard-api/internal/infrastructure/db/postgres"
	redisdb "github.com/jobboard/jobboard-api/internal/infrastructure/db/redis"
	"github.com/jobboard/jobboard-api/internal/infrastructure/events"
	"github.com/jobboard/jobboard-api/internal/infrastructure/http/handlers"
	"github.com/jobboard/jobboard-api/internal/infrastructure/notify"
	"github.com/jobboard/jobboard-api/internal/infrastructure/queue"
	"github.com/jobboard/jobboard-api/internal/infrastructure/search/elastic"
	"github.com/jobboard/jobboard-api/pkg/logger"
)

const (
	connectAttempts = 5
	shutdownTimeout = 15 * time.Second
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "jobboard-api",
		Env:     cfg.Env,
	})

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("server stopped with error")
	}
	log.Info().Msg("server stopped")
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	// --- Storage ---
	store, err := retry(ctx, log, "postgres", func() (*postgres.Store, error) {
		return postgres.Connect(ctx, postgres.Config{
			Host:     cfg.Database.Host,
			Port:     cfg.Database.Port,
			User:     cfg.Database.User,
			Password: cfg.Database.Password,
			DBName:   cfg.Database.Name,
			SSLMode:  cfg.Database.SSLMode,
		}, log)
	})
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.SeedCatalog(ctx, postgres.DefaultCatalog); err != nil {
		return fmt.Errorf("seed catalog: %w", err)
	}

	type mongoConn struct {
		client *mongodb.Pinger
		audit  *mongodb.AuditLog
	}
	mc, err := retry(ctx, log, "mongodb", func() (mongoConn, error) {
		client, db, err := mongodb.Connect(ctx, mongodb.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
		if err != nil {
			return mongoConn{}, err
		}
		return mongoConn{client: &mongodb.Pinger{Client: client}, audit: mongodb.NewAuditLog(db)}, nil
	})
	if err != nil {
		return err
	}
	defer func() { _ = mc.client.Client.Disconnect(context.Background()) }()

	if err := mc.audit.EnsureIndexes(ctx); err != nil {
		log.Warn().Err(err).Msg("could not create audit log indexes")
	}

	rdb, err := retry(ctx, log, "redis", func() (*redisdb.Pinger, error) {
		client, err := redisdb.Connect(ctx, redisdb.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			return nil, err
		}
		return &redisdb.Pinger{Client: client}, nil
	})
	if err != nil {
		return err
	}
	defer rdb.Client.Close()

	readiness := map[string]handlers.Pinger{
		"postgres": store,
		"mongodb":  mc.client,
		"redis":    rdb,
	}

	// --- Search ---
	var index ports.SearchIndex
	switch cfg.Search.Backend {
	case config.SearchElastic:
		es, err := elastic.New(elastic.Config{
			Addresses: cfg.Search.URLs,
			Index:     cfg.Search.Index,
			Username:  cfg.Search.Username,
			Password:  cfg.Search.Password,
		}, log)
		if err != nil {
			return err
		}
		if _, err := retry(ctx, log, "elasticsearch", func() (struct{}, error) {
			return struct{}{}, es.EnsureIndex(ctx)
		}); err != nil {
			return err
		}
		index = es
		readiness["elasticsearch"] = es
	default:
		log.Info().Msg("search served from the database")
		index = postgres.NewSearchIndex(store)
	}

	// --- Notifications and event processing ---
	processor := service.NewEventService(service.EventDeps{
		Applications: store,
		Jobs:         store,
		Users:        store,
		Audit:        mc.audit,
		Index:        index,
		Mailer: notify.NewMailer(notify.SMTPConfig{
			Host:     cfg.SMTP.Host,
			Port:     cfg.SMTP.Port,
			User:     cfg.SMTP.User,
			Password: cfg.SMTP.Password,
			From:     cfg.SMTP.From,
		}, log),
		SMS: notify.NewSMS(notify.TwilioConfig{
			AccountSID: cfg.Twilio.AccountSID,
			AuthToken:  cfg.Twilio.AuthToken,
			FromNumber: cfg.Twilio.FromNumber,
		}, log),
		Dedup: redisdb.NewDedupChecker(rdb.Client, cfg.Events.DedupTTL),
	}, log)

	workerCtx, stopWorkers := context.WithCancel(context.Background())
	defer stopWorkers()

	var publisher ports.EventPublisher
	switch cfg.Events.Backend {
	case config.EventsKafka:
		if err := events.EnsureTopic(cfg.Kafka.Brokers, cfg.Kafka.Topic, cfg.Kafka.Partitions, log); err != nil {
			log.Error().Err(err).Strs("brokers", cfg.Kafka.Brokers).Str("topic", cfg.Kafka.Topic).Msg("kafka topic setup failed")
		}

		producer := events.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.Topic, log)
		defer producer.Close()

		consumer := events.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.Topic, cfg.Kafka.GroupID, events.ConsumerOptions{
			MaxRetries:      cfg.Events.MaxRetries,
			InitialInterval: cfg.Events.RetryDelay,
		}, processor, log)
		consumer.Start(workerCtx)
		defer consumer.Close()

		publisher = producer
	default:
		dispatcher := queue.NewDispatcher(queue.Options{
			Workers:         cfg.Events.Workers,
			Buffer:          cfg.Events.QueueSize,
			MaxRetries:      cfg.Events.MaxRetries,
			InitialInterval: cfg.Events.RetryDelay,
		}, processor, log)
		dispatcher.Start(workerCtx)
		defer dispatcher.Close()

		publisher = dispatcher
	}

	// --- Use cases ---
	svc := api.Services{
		Auth:         service.NewAuthService(store, cfg.JWTSecret, cfg.TokenTTL, log),
		Jobs:         service.NewJobService(store, store, publisher, log),
		Applications: service.NewApplicationService(store, store, mc.audit, publisher, log),
		Profiles:     service.NewProfileService(store, store, store, store, publisher, log),
		Catalog:      service.NewCatalogService(store),
		Search:       service.NewSearchService(index, store, store, store, log),
	}

	e := api.NewRouter(api.Options{
		JWTSecret: cfg.JWTSecret,
		Log:       log,
		Readiness: readiness,
	}, svc)

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Str("events", cfg.Events.Backend).Str("search", cfg.Search.Backend).Msg("starting HTTP server")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	// deferred closers drain the event transport before the stores close
	return nil
}

// retry runs connect with exponential backoff until it succeeds, the attempt
// budget is spent or ctx is cancelled.
func retry[T any](ctx context.Context, log zerolog.Logger, name string, connect func() (T, error)) (T, error) {
	b := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), connectAttempts), ctx)
	v, err := backoff.RetryNotifyWithData(connect, b, func(err error, wait time.Duration) {
		log.Warn().Err(err).Str("dependency", name).Dur("retry_in", wait).Msg("dependency not ready")
	})
	if err != nil {
		return v, fmt.Errorf("connect %s: %w", name, err)
	}
	log.Info().Str("dependency", name).Msg("connected")
	return v, nil
}
