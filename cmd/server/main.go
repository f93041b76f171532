package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"
	natsclient "github.com/nats-io/nats.go"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	goredis "github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"github.com/0xsj/overwatch-pkg/log"

	followsgrpc "github.com/0xsj/overwatch-follows/internal/adapter/inbound/grpc"
	followshttp "github.com/0xsj/overwatch-follows/internal/adapter/inbound/http"
	"github.com/0xsj/overwatch-follows/internal/adapter/outbound/atproto"
	natsadapter "github.com/0xsj/overwatch-follows/internal/adapter/outbound/nats"
	"github.com/0xsj/overwatch-follows/internal/adapter/outbound/postgres"
	promadapter "github.com/0xsj/overwatch-follows/internal/adapter/outbound/prometheus"
	redisadapter "github.com/0xsj/overwatch-follows/internal/adapter/outbound/redis"
	"github.com/0xsj/overwatch-follows/internal/app/query"
	"github.com/0xsj/overwatch-follows/internal/app/service"
	"github.com/0xsj/overwatch-follows/internal/config"
	"github.com/0xsj/overwatch-follows/internal/port/outbound/cache"
	"github.com/0xsj/overwatch-follows/internal/port/outbound/messaging"
	"github.com/0xsj/overwatch-follows/internal/port/outbound/repository"
)

const version = "1.0.0"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration
	cfg, err := config.Load(".env")
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	page, err := config.LoadPageContent(cfg.Page.ContentFile, cfg.Page)
	if err != nil {
		return err
	}

	// Initialize logger
	logger := log.NewPretty(log.DefaultConfig())
	kv := newKVLogger(logger)

	logger.Info("starting follows service",
		log.String("version", version),
		log.String("address", cfg.Server.Address()),
		log.String("profile", page.ProfileHandle),
	)
	if cfg.Atproto.Password == "" {
		logger.Warn("PASSWORD is empty, login will be attempted without a secret")
	}

	// Metrics
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	lookupMetrics, err := promadapter.NewLookupMetrics(registry)
	if err != nil {
		return fmt.Errorf("failed to register lookup metrics: %w", err)
	}

	// Optional infrastructure
	var (
		lookupRepo  repository.LookupRepository
		publisher   messaging.EventPublisher
		rateLimiter cache.RateLimiter
	)

	if cfg.Database.Enabled {
		pool, err := connectPostgres(ctx, cfg.Database, logger)
		if err != nil {
			return fmt.Errorf("failed to connect to postgres: %w", err)
		}
		defer pool.Close()

		if err := postgres.EnsureSchema(ctx, pool); err != nil {
			return fmt.Errorf("failed to prepare schema: %w", err)
		}
		lookupRepo = postgres.NewLookupRepository(pool)
	}

	if cfg.RateLimit.Enabled {
		redisClient, err := connectRedis(ctx, cfg.Redis, logger)
		if err != nil {
			return fmt.Errorf("failed to connect to redis: %w", err)
		}
		defer redisClient.Close()

		rateLimiter = redisadapter.NewRateLimiter(redisClient, cfg.RateLimit.Requests, cfg.RateLimit.Window)
	}

	if cfg.NATS.Enabled {
		natsConn, err := connectNATS(cfg.NATS, kv)
		if err != nil {
			return fmt.Errorf("failed to connect to nats: %w", err)
		}
		defer natsConn.Close()

		publisher = natsadapter.NewEventPublisher(natsConn, cfg.NATS.SubjectPrefix)
	}

	// atproto adapters
	client, err := atproto.NewClient(atproto.Config{
		ServiceURL:   cfg.Atproto.ServiceURL,
		DirectoryURL: cfg.Atproto.DirectoryURL,
		Identifier:   cfg.Atproto.Identifier,
		Password:     cfg.Atproto.Password,
		Timeout:      cfg.Atproto.HTTPTimeout,
		UserAgent:    cfg.Atproto.UserAgent,
	}, nil)
	if err != nil {
		return err
	}

	// Query handlers
	lookupFollowsHandler := service.NewRecordingLookupHandler(
		query.NewLookupFollowsHandler(client, client, client, client),
		service.RecorderConfig{
			LookupRepo:  lookupRepo,
			Publisher:   publisher,
			Metrics:     lookupMetrics,
			Logger:      kv,
			SinkTimeout: cfg.Recorder.SinkTimeout,
		},
	)

	// HTTP server
	handler := followshttp.NewHandler(followshttp.HandlerConfig{
		LookupFollowsHandler: lookupFollowsHandler,
		LookupRepo:           lookupRepo,
		Page: followshttp.PageContent{
			Title:         page.Title,
			ProfileHandle: page.ProfileHandle,
			Intro:         page.Intro,
			Limit:         page.Limit,
		},
	})

	httpServer, err := followshttp.NewServer(followshttp.ServerConfig{
		Host:              cfg.Server.Host,
		Port:              cfg.Server.Port,
		AllowedOrigins:    cfg.Server.Origins(),
		TrustedProxies:    cfg.Server.Proxies(),
		ReadHeaderTimeout: cfg.Server.ReadHeaderTimeout,
	}, followshttp.ServerDeps{
		Handler:     handler,
		RateLimiter: rateLimiter,
		Registry:    registry,
		Logger:      kv,
	})
	if err != nil {
		return fmt.Errorf("failed to create http server: %w", err)
	}

	// gRPC health server
	var grpcServer *followsgrpc.Server
	if cfg.GRPC.Enabled {
		grpcServer, err = followsgrpc.NewServer(followsgrpc.ServerConfig{
			Host:             cfg.GRPC.Host,
			Port:             cfg.GRPC.Port,
			EnableReflection: cfg.GRPC.EnableReflection,
		}, kv)
		if err != nil {
			return fmt.Errorf("failed to create grpc server: %w", err)
		}
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(httpServer.Start)
	if grpcServer != nil {
		g.Go(grpcServer.Start)
	}

	// Handle graceful shutdown
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down follows service")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		var stopErr error
		if grpcServer != nil {
			grpcServer.SetServing(false)
			if err := grpcServer.Stop(shutdownCtx); err != nil {
				stopErr = fmt.Errorf("failed to stop grpc server: %w", err)
			}
		}
		if err := httpServer.Stop(shutdownCtx); err != nil {
			stopErr = err
		}
		return stopErr
	})

	logger.Info("follows service started",
		log.String("http", cfg.Server.Address()),
		log.Any("grpc_enabled", cfg.GRPC.Enabled),
		log.Any("audit_enabled", lookupRepo != nil),
		log.Any("events_enabled", publisher != nil),
		log.Any("rate_limit_enabled", rateLimiter != nil),
	)

	if err := g.Wait(); err != nil {
		return fmt.Errorf("server error: %w", err)
	}

	logger.Info("follows service stopped gracefully")
	return nil
}

func connectPostgres(ctx context.Context, cfg config.DatabaseConfig, logger log.Logger) (*pgxpool.Pool, error) {
	pool, err := postgres.Connect(ctx, postgres.PoolConfig{
		ConnectionString:  cfg.ConnectionString(),
		MaxConns:          cfg.MaxConns,
		MinConns:          cfg.MinConns,
		MaxConnLifetime:   cfg.MaxConnLifetime,
		MaxConnIdleTime:   cfg.MaxConnIdleTime,
		HealthCheckPeriod: cfg.HealthCheckPeriod,
	})
	if err != nil {
		return nil, err
	}

	logger.Info("connected to postgres",
		log.String("host", cfg.Host),
		log.String("database", cfg.Database),
	)

	return pool, nil
}

func connectRedis(ctx context.Context, cfg config.RedisConfig, logger log.Logger) (*goredis.Client, error) {
	client, err := redisadapter.Connect(ctx, redisadapter.ClientConfig{
		Address:      cfg.Address(),
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     cfg.PoolSize,
		MinIdleConns: cfg.MinIdleConns,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	})
	if err != nil {
		return nil, err
	}

	logger.Info("connected to redis",
		log.String("address", cfg.Address()),
	)

	return client, nil
}

func connectNATS(cfg config.NATSConfig, logger natsadapter.Logger) (*natsclient.Conn, error) {
	return natsadapter.Connect(natsadapter.ConnConfig{
		URL:           cfg.URL,
		Name:          "overwatch-follows",
		MaxReconnects: cfg.MaxReconnects,
		ReconnectWait: cfg.ReconnectWait,
	}, logger)
}

// kvLogger adapts log.Logger to the key/value Logger interfaces of the
// adapters and the lookup recorder.
type kvLogger struct {
	logger log.Logger
}

func newKVLogger(logger log.Logger) *kvLogger {
	return &kvLogger{logger: logger}
}

func (l *kvLogger) Info(msg string, fields ...any) {
	l.logger.Info(msg, toLogFields(fields)...)
}

func (l *kvLogger) Warn(msg string, fields ...any) {
	l.logger.Warn(msg, toLogFields(fields)...)
}

func (l *kvLogger) Error(msg string, fields ...any) {
	l.logger.Error(msg, toLogFields(fields)...)
}

func toLogFields(fields []any) []log.Field {
	if len(fields) == 0 {
		return nil
	}

	result := make([]log.Field, 0, len(fields)/2)
	for i := 0; i < len(fields)-1; i += 2 {
		key, ok := fields[i].(string)
		if !ok {
			continue
		}
		result = append(result, log.Any(key, fields[i+1]))
	}
	return result
}
