package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/hirewire/pulse/internal/adapters/http/api"
	"github.com/hirewire/pulse/internal/adapters/repository"
	service "github.com/hirewire/pulse/internal/app"
	"github.com/hirewire/pulse/internal/config"
	"github.com/hirewire/pulse/pkg/logger"
	"github.com/hirewire/pulse/pkg/ratelimit"
)

// HTTP server timeout constants.
const (
	readTimeout       = 10 * time.Second
	writeTimeout      = 10 * time.Second
	idleTimeout       = 60 * time.Second
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 30 * time.Second
	startupTimeout    = 15 * time.Second
	limitWindow       = time.Minute
)

func main() {
	// Disable default Go metrics collection to avoid duplicate metrics
	prometheus.Unregister(collectors.NewGoCollector())
	prometheus.Unregister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		return
	}
	log := logger.Get()

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration (defaults -> optional file -> env)
	cfg, err := config.Load(ctx)
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		return
	}

	// Apply configured log level (fallback to info on invalid input)
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	// Event store: Postgres when configured, in-memory otherwise.
	var store repository.Store
	if cfg.PostgresDSN != "" {
		startupCtx, cancel := context.WithTimeout(ctx, startupTimeout)
		pg, err := repository.NewPostgresStore(startupCtx, cfg.PostgresDSN)
		cancel()
		if err != nil {
			log.Error(ctx, "failed to connect to postgres", logger.Error(err))
			return
		}
		defer pg.Close()
		store = pg
		log.Info(ctx, "using postgres event store")
	} else {
		store = repository.NewMemStore()
		log.Info(ctx, "using in-memory event store")
	}

	// Rate-limit counters: Redis when configured, process-local otherwise.
	var counterStore ratelimit.CounterStore
	if cfg.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		defer client.Close()
		counterStore = ratelimit.NewRedisStore(client)
		log.Info(ctx, "using redis rate-limit counters", logger.String("addr", cfg.RedisAddr))
	} else {
		counterStore = ratelimit.NewMemoryStore()
	}

	limiter := ratelimit.New(
		ratelimit.WithStore(counterStore),
		ratelimit.WithPolicies(map[string]ratelimit.Policy{
			ratelimit.CategoryRead:   {Window: limitWindow, MaxRequests: cfg.ReadLimitPerMin},
			ratelimit.CategoryIngest: {Window: limitWindow, MaxRequests: cfg.IngestLimitPerMin},
			ratelimit.CategoryLead:   {Window: limitWindow, MaxRequests: cfg.LeadLimitPerMin},
		}),
	)

	svc := service.New(
		service.WithStore(store),
		service.WithLogger(log),
		service.WithQueryTimeout(time.Duration(cfg.QueryTimeoutMS)*time.Millisecond),
		service.WithDedupeSize(cfg.DedupeSize),
		service.WithEventsLimit(cfg.EventsLimit),
	)

	// HTTP mux and routes.
	mux := http.NewServeMux()
	apiServer := api.NewServer(svc, svc, limiter)
	apiServer.Register(ctx, mux)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           mux,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	go func() {
		log.Info(ctx, "starting HTTP server", logger.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			os.Stderr.WriteString("HTTP server failed: " + err.Error() + "\n")
		}
	}()

	<-ctx.Done()
	log.Info(ctx, "shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error(ctx, "server shutdown failed", logger.Error(err))
	}

	log.Info(ctx, "server stopped")
}
