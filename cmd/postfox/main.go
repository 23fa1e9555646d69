package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/ManuelReschke/PostFox/app/controllers"
	"github.com/ManuelReschke/PostFox/app/repository"
	apiv1 "github.com/ManuelReschke/PostFox/internal/api/v1"
	"github.com/ManuelReschke/PostFox/internal/pkg/backend"
	"github.com/ManuelReschke/PostFox/internal/pkg/cache"
	"github.com/ManuelReschke/PostFox/internal/pkg/config"
	"github.com/ManuelReschke/PostFox/internal/pkg/constants"
	"github.com/ManuelReschke/PostFox/internal/pkg/database"
	"github.com/ManuelReschke/PostFox/internal/pkg/entitlements"
	"github.com/ManuelReschke/PostFox/internal/pkg/env"
	"github.com/ManuelReschke/PostFox/internal/pkg/events"
	"github.com/ManuelReschke/PostFox/internal/pkg/metrics"
	"github.com/ManuelReschke/PostFox/internal/pkg/metrics/counter"
	"github.com/ManuelReschke/PostFox/internal/pkg/platforms"
	"github.com/ManuelReschke/PostFox/internal/pkg/ratelimit"
	"github.com/ManuelReschke/PostFox/internal/pkg/router"
)

// Application bundles the HTTP app with the background parts that need an
// orderly shutdown.
type Application struct {
	App       *fiber.App
	Config    *config.Config
	Service   *entitlements.Service
	redisBus  *events.RedisBus
	counter   *counter.PromptCounter
	stopTrace func()
}

func main() {
	a := NewApplication()

	go func() {
		if err := a.App.Listen(a.Config.Addr()); err != nil {
			log.Fatalf("[Server] Listen failed: %v", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	a.Shutdown()
}

func NewApplication() *Application {
	env.SetupEnvFile()
	if env.IsDev() {
		log.SetLevel(log.LevelDebug)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("[Config] %v", err)
	}

	cache.SetupCache()

	// the database is optional: it persists the platform registry and prompt stats
	var repos *repository.Repositories
	if cfg.DBName != "" {
		if err := database.SetupDatabase(); err != nil {
			log.Errorf("[Database] Continuing without database: %v", err)
		} else {
			repository.InitializeFactory(database.GetDB())
			repos = repository.GetGlobalFactory().GetRepositories()
		}
	}

	registry := loadRegistry(repos)

	var stats repository.PromptStatRepository
	if repos != nil {
		stats = repos.PromptStat
	}

	a := &Application{Config: cfg}
	bus := events.MultiBus{events.LogBus{}}
	if cache.Available() {
		a.redisBus = events.NewRedisBus(cache.GetClient(), cfg.EventChannel)
		a.counter = counter.NewPromptCounter(cache.GetClient(), stats, cfg.CounterFlush)
		a.counter.Start()
		bus = append(bus, a.redisBus, a.counter.Sink())
		if env.IsDev() {
			a.stopTrace = a.redisBus.Trace(context.Background())
		}
	}

	client := backend.NewClient(cfg.BackendURL, cfg.BackendToken, cfg.RequestTimeout)
	a.Service = entitlements.NewService(client, bus, registry, entitlements.Options{
		InitDeadline: cfg.InitDeadline,
		FetchTimeout: cfg.FetchTimeout,
		CacheTTL:     cfg.CacheTTL,
		Metrics:      metrics.GetSyncMetrics(),
	})
	// bounded by InitDeadline; always leaves a settled state
	a.Service.Init(context.Background())

	app := fiber.New(fiber.Config{
		AppName: "PostFox",
	})

	// recovery and logging
	app.Use(recover.New(), logger.New())

	// SWAGGER / OPENAPI
	if docs := findDocs(); docs != "" {
		app.Use(swagger.New(swagger.Config{
			BasePath: constants.DocsRoute,
			FilePath: docs,
			Path:     "v1",
		}))
	}

	// ROUTER
	limiter := ratelimit.New(ratelimit.Config{
		KeyGenerator: controllers.ClientIP,
		Storage:      ratelimit.NewStorage(),
	})
	router.InstallRouter(app,
		router.NewMetricsRouter(nil),
		router.NewApiRouter(apiv1.NewAPIServer(a.Service, stats), limiter),
	)

	a.App = app
	return a
}

func loadRegistry(repos *repository.Repositories) platforms.Registry {
	if repos == nil {
		return platforms.NewStaticRegistry(platforms.DefaultPlatforms)
	}
	if err := platforms.Seed(repos.Platform); err != nil {
		log.Warnf("[Platforms] Seeding failed: %v", err)
	}
	registry, err := platforms.Load(repos.Platform)
	if err != nil {
		log.Warnf("[Platforms] Using built-in registry: %v", err)
		return platforms.NewStaticRegistry(platforms.DefaultPlatforms)
	}
	return registry
}

// findDocs locates the OpenAPI document from the project root or cmd/postfox.
func findDocs() string {
	for _, base := range []string{"./", "../../", "../../../"} {
		path := base + constants.OpenAPIPath
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	log.Warn("[Server] OpenAPI document not found, /docs/api disabled")
	return ""
}

// Shutdown stops accepting requests, then drains background work.
func (a *Application) Shutdown() {
	log.Info("[Server] Shutting down...")
	if err := a.App.ShutdownWithTimeout(10 * time.Second); err != nil {
		log.Errorf("[Server] Shutdown failed: %v", err)
	}
	a.counter.Stop()
	a.redisBus.Wait()
	if a.stopTrace != nil {
		a.stopTrace()
	}
	if err := cache.Close(); err != nil {
		log.Warnf("[Cache] Close failed: %v", err)
	}
	if err := database.Close(); err != nil {
		log.Warnf("[Database] Close failed: %v", err)
	}
	log.Info("[Server] Stopped")
}
