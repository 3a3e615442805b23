package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	// Drivers
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/redis/go-redis/v9"
	"github.com/rs/cors"
	"golang.org/x/sync/errgroup"

	// Instrumentation
	"github.com/exaring/otelpgx"
	"github.com/redis/go-redis/extra/redisotel/v9"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.17.0"

	// Interne
	"github.com/jupiterclapton/circle/config"
	"github.com/jupiterclapton/circle/internal/adapters/primary/httpapi"
	"github.com/jupiterclapton/circle/internal/adapters/secondary/cache"
	"github.com/jupiterclapton/circle/internal/adapters/secondary/eventbroker"
	"github.com/jupiterclapton/circle/internal/adapters/secondary/repository"
	"github.com/jupiterclapton/circle/internal/adapters/secondary/security"
	"github.com/jupiterclapton/circle/internal/core/services"
)

func main() {
	// 1. Config & Logger
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}
	initLogger(cfg)
	slog.Info("🚀 Starting Circle", "env", cfg.Env, "port", cfg.HTTPPort)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Les checks de démarrage sont bornés : une infra muette doit faire
	// échouer le boot, pas le suspendre.
	startupCtx, startupCancel := context.WithTimeout(ctx, 15*time.Second)
	defer startupCancel()

	// 2. Télémétrie (Tracing)
	tp, err := initTracer(ctx, cfg)
	if err != nil {
		slog.Error("Failed to init tracer", "error", err)
	} else {
		defer func() { _ = tp.Shutdown(context.Background()) }()
	}

	// 3. Infrastructure: Base de données (Postgres)
	dbConfig, err := pgxpool.ParseConfig(cfg.DBUrl)
	if err != nil {
		slog.Error("Unable to parse DB config", "error", err)
		os.Exit(1)
	}
	// Instrumentation SQL (Pour voir les requêtes dans Jaeger)
	dbConfig.ConnConfig.Tracer = otelpgx.NewTracer()

	dbPool, err := pgxpool.NewWithConfig(ctx, dbConfig)
	if err != nil {
		slog.Error("Unable to connect to database", "error", err)
		os.Exit(1)
	}
	defer dbPool.Close()
	if err := dbPool.Ping(startupCtx); err != nil {
		slog.Error("Database ping failed", "error", err)
		os.Exit(1)
	}
	slog.Info("✅ Connected to Postgres")

	// 4. Infrastructure: Graphe d'amitié (Neo4j)
	driver, err := neo4j.NewDriverWithContext(cfg.Neo4jURI, neo4j.BasicAuth(cfg.Neo4jUser, cfg.Neo4jPass, ""))
	if err != nil {
		slog.Error("Unable to create Neo4j driver", "error", err)
		os.Exit(1)
	}
	defer driver.Close(ctx)
	if err := driver.VerifyConnectivity(startupCtx); err != nil {
		slog.Error("Neo4j connectivity check failed", "error", err)
		os.Exit(1)
	}
	slog.Info("✅ Connected to Neo4j")

	// 5. Infrastructure: Cache (Redis)
	redisClient := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	if err := redisotel.InstrumentTracing(redisClient); err != nil {
		slog.Warn("Failed to instrument Redis", "error", err)
	}
	if err := redisClient.Ping(startupCtx).Err(); err != nil {
		slog.Error("Redis ping failed", "error", err)
		os.Exit(1)
	}
	defer redisClient.Close()
	slog.Info("✅ Connected to Redis")

	// 6. Infrastructure: Event Broker (NATS JetStream)
	broker, err := eventbroker.NewNatsBroker(cfg.NatsUrl)
	if err != nil {
		slog.Error("Unable to connect to NATS", "error", err)
		os.Exit(1)
	}
	defer broker.Close()
	slog.Info("✅ Connected to NATS")

	// 7. Initialisation des Adapters (Driven)
	userRepo := repository.NewPostgresUserRepo(dbPool)
	profileRepo := repository.NewPostgresProfileRepo(dbPool)
	postRepo := repository.NewPostgresPostRepo(dbPool)
	graphRepo := repository.NewNeo4jGraphRepo(driver)
	friendCache := cache.NewRedisFriendSetCache(redisClient)

	if err := graphRepo.EnsureSchema(startupCtx); err != nil {
		slog.Error("Failed to ensure graph schema", "error", err)
		os.Exit(1)
	}

	hasher := security.NewArgon2Hasher()
	tokens, err := security.NewJWTProvider(cfg.JWTSecret, cfg.TokenTTL)
	if err != nil {
		slog.Error("Invalid JWT config", "error", err)
		os.Exit(1)
	}

	// 8. Initialisation du Core (Domain Logic)
	identitySvc := services.NewIdentityService(userRepo, hasher, tokens, broker, cfg.TokenTTL)
	friendSvc := services.NewFriendService(userRepo, graphRepo, friendCache, broker)
	postSvc := services.NewPostService(postRepo, userRepo, broker)
	visibilitySvc := services.NewVisibilityService(postRepo, graphRepo, friendCache)
	engagementSvc := services.NewEngagementService(postRepo, userRepo)
	profileSvc := services.NewProfileService(profileRepo, userRepo, graphRepo, friendCache)

	// 9. Primary Adapter (HTTP)
	handler := httpapi.NewHandler(identitySvc, friendSvc, postSvc, visibilitySvc, engagementSvc, profileSvc)
	router := handler.Router(cfg.ServiceName)

	// Le front tourne sur un autre origin en dev.
	corsWrapper := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowedHeaders:   []string{"Content-Type", "x-auth-token"},
		AllowCredentials: false,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           corsWrapper.Handler(router),
		ReadHeaderTimeout: 5 * time.Second,
	}

	// 10. Démarrage + Graceful Shutdown
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		slog.Info("📡 Circle listening", "port", cfg.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		select {
		case <-quit:
		case <-gctx.Done():
			return gctx.Err()
		}
		slog.Info("🛑 Shutting down server...")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		slog.Error("Server error", "error", err)
		os.Exit(1)
	}
	slog.Info("👋 Server exited")
}

// --- Helpers (À déplacer un jour dans pkg/telemetry et pkg/logger) ---

func initLogger(cfg *config.Config) {
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}
	if cfg.Env == "local" {
		opts.Level = slog.LevelDebug
	}
	var handler slog.Handler
	if cfg.Env == "local" {
		handler = slog.NewTextHandler(os.Stdout, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}
	slog.SetDefault(slog.New(handler))
}

func initTracer(ctx context.Context, cfg *config.Config) (*sdktrace.TracerProvider, error) {
	exporter, err := otlptracegrpc.New(ctx,
		otlptracegrpc.WithEndpoint(cfg.OtelEndpoint),
		otlptracegrpc.WithInsecure(),
	)
	if err != nil {
		return nil, err
	}

	res, _ := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceNameKey.String(cfg.ServiceName),
			semconv.DeploymentEnvironmentKey.String(cfg.Env),
		),
	)

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	)

	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(propagation.TraceContext{}, propagation.Baggage{}))

	return tp, nil
}
