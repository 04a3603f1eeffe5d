package control

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/pressly/goose/v3"

	"github.com/Waito3007/aRefactor/internal/api"
	"github.com/Waito3007/aRefactor/internal/catalog"
	"github.com/Waito3007/aRefactor/internal/core/config"
	"github.com/Waito3007/aRefactor/internal/core/worker"
	redisclient "github.com/Waito3007/aRefactor/internal/infra/redis"
	"github.com/Waito3007/aRefactor/internal/infra/storage"
	"github.com/Waito3007/aRefactor/internal/infra/storage/memory"
	"github.com/Waito3007/aRefactor/internal/infra/storage/postgres"
)

// App is the assembled catalog service: storage, cache, HTTP and gRPC
// servers, and background workers, wired from one AppConfig.
type App struct {
	cfg         *config.AppConfig
	httpServer  *api.Server
	grpcServer  *api.GRPCServer
	pruner      *worker.Pruner
	db          *postgres.DB
	redisClient *redisclient.Client
	log         *slog.Logger
}

// NewApp creates the application with all dependencies initialized. An empty
// database URL selects the in-memory backend.
func NewApp(cfg *config.AppConfig) (*App, error) {
	log := slog.Default()

	// 1. Initialize Storage
	var productRepo storage.ProductRepository
	var categoryRepo storage.CategoryRepository
	var uowFactory storage.UnitOfWorkFactory
	var db *postgres.DB

	if cfg.Database.URL != "" {
		var err error
		db, err = postgres.NewDB(context.Background(), cfg.Database)
		if err != nil {
			return nil, fmt.Errorf("failed to init db: %w", err)
		}

		// Goose drives migrations through the raw *sql.DB under sqlx.
		if err := goose.SetDialect("postgres"); err != nil {
			return nil, err
		}
		migrationsDir := cfg.Database.MigrationsDir
		if migrationsDir == "" {
			migrationsDir = "migrations"
		}
		if err := goose.Up(db.DB.DB, migrationsDir); err != nil {
			return nil, fmt.Errorf("failed to migrate db: %w", err)
		}

		productRepo = postgres.NewProductRepo(db)
		categoryRepo = postgres.NewCategoryRepo(db)
		uowFactory = db
		log.Info("Using PostgreSQL storage")
	} else {
		store := memory.NewMemoryStorage()
		productRepo = memory.NewProductRepo(store)
		categoryRepo = memory.NewCategoryRepo(store)
		uowFactory = store
		log.Info("Using Memory storage")
	}

	// 2. Initialize Redis cache (optional)
	var redisClient *redisclient.Client
	if cfg.Redis.URL != "" {
		var err error
		redisClient, err = redisclient.NewClient(cfg.Redis)
		if err != nil {
			log.Warn("Failed to connect to Redis, cache disabled", "error", err)
			redisClient = nil
		}
	}

	// 3. Catalog service and failure translator
	service := catalog.NewService(
		productRepo,
		categoryRepo,
		uowFactory,
		redisClient,
		catalog.Config{
			CacheTTL: cfg.Redis.TTL,
			ReadOnly: cfg.Catalog.ReadOnly,
		},
		log.With("component", "catalog"),
	)
	translator := api.NewTranslator(log.With("component", "translator"))

	// 4. Health monitor over the live backends
	var components []api.Component
	if db != nil {
		components = append(components, api.Component{Name: "postgres", Critical: true, Pinger: db})
	}
	if redisClient != nil {
		components = append(components, api.Component{Name: "redis", Critical: false, Pinger: redisClient})
	}
	monitor := api.NewMonitor(components...)

	// 5. Servers and workers
	httpServer := api.NewServer(cfg.Server, service, translator, monitor)
	grpcServer := api.NewGRPCServer(cfg.Server.GRPCPort, log)

	var pruner *worker.Pruner
	if cfg.Catalog.TrashRetention > 0 {
		pruner = worker.NewPruner(cfg.Catalog.TrashRetention, productRepo, log.With("component", "pruner"))
	}

	return &App{
		cfg:         cfg,
		httpServer:  httpServer,
		grpcServer:  grpcServer,
		pruner:      pruner,
		db:          db,
		redisClient: redisClient,
		log:         log,
	}, nil
}

// Start launches the servers and background workers. It returns immediately;
// server failures after startup are logged, not returned.
func (a *App) Start(ctx context.Context) error {
	go func() {
		if err := a.httpServer.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.log.Error("HTTP server failed", "error", err)
		}
	}()

	go func() {
		if err := a.grpcServer.Start(); err != nil {
			a.log.Error("gRPC server failed", "error", err)
		}
	}()

	if a.db != nil {
		a.db.StartMetricsCollector(ctx)
	}

	if a.pruner != nil {
		go a.pruner.Start(ctx)
	}

	return nil
}

// Stop drains the servers and releases the backends.
func (a *App) Stop(ctx context.Context) error {
	a.log.Info("Stopping catalog service...")

	a.grpcServer.Stop()

	if a.redisClient != nil {
		if err := a.redisClient.Close(); err != nil {
			a.log.Warn("Failed to close Redis", "error", err)
		}
	}
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			a.log.Warn("Failed to close database", "error", err)
		}
	}

	return a.httpServer.Stop(ctx)
}
