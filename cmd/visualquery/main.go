package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/intavia/visualquery/internal/config"
	"github.com/intavia/visualquery/internal/db"
	dbRedis "github.com/intavia/visualquery/internal/db/redis"
	"github.com/intavia/visualquery/internal/domain"
	logpkg "github.com/intavia/visualquery/internal/logger"
	"github.com/intavia/visualquery/internal/metrics"
	budgetrepo "github.com/intavia/visualquery/internal/repository/budget"
	"github.com/intavia/visualquery/internal/repository/statcache"
	chiTransport "github.com/intavia/visualquery/internal/transport/chi"
	"github.com/intavia/visualquery/internal/transport/intavia"
	aggregateuc "github.com/intavia/visualquery/internal/usecase/aggregate"
	healthuc "github.com/intavia/visualquery/internal/usecase/health"
	navigationuc "github.com/intavia/visualquery/internal/usecase/navigation"
	sessionuc "github.com/intavia/visualquery/internal/usecase/session"
	upstreamuc "github.com/intavia/visualquery/internal/usecase/upstream"
	"github.com/intavia/visualquery/internal/version"
)

func main() {
	// Load configuration based on ENV
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting visualquery API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("upstream", cfg.Upstream.BaseURL),
		zap.Bool("cache_enabled", cfg.Cache.Enabled),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Register domain metrics explicitly (no init())
	metrics.RegisterDomainMetrics()

	// Optional cache database. valkey and redis share the RESP protocol, so
	// both drivers use the rueidis store.
	var store db.Store
	if cfg.Cache.Enabled {
		store = connectCache(ctx, cfg.Cache, logger)
		defer store.Close()
	}

	client, err := intavia.NewClient(&intavia.Config{
		BaseURL:   cfg.Upstream.BaseURL,
		Timeout:   time.Duration(cfg.Upstream.TimeoutSec) * time.Second,
		RateLimit: cfg.Upstream.RatePerSec,
		Burst:     cfg.Upstream.Burst,
		UserAgent: cfg.Upstream.UserAgent + "/" + version.Version,
		Logger:    logger,
	})
	if err != nil {
		logger.Fatal("Failed to create upstream client", zap.Error(err))
	}

	api := buildEntityAPI(ctx, client, cfg, store, logger)

	// Use case services
	aggregateSvc := aggregateuc.New(api, logger)

	var searcher navigationuc.Searcher
	if cfg.Navigation.ExecuteSearch {
		searcher = api
	}
	navBase := cfg.Navigation.BaseURL
	if navBase == "" {
		navBase = cfg.Upstream.BaseURL
	}
	navSvc := navigationuc.New(navBase, searcher, logger)

	sessionSvc := sessionuc.New(aggregateSvc, navSvc, sessionuc.Config{
		IdleTTL:      time.Duration(cfg.Session.IdleTTLSec) * time.Second,
		MaxSessions:  cfg.Session.MaxSessions,
		DefaultLimit: cfg.Query.DefaultPageSize,
	}, logger)
	go sessionSvc.Run(ctx, time.Duration(cfg.Session.SweepIntervalSec)*time.Second)

	// Pass nil interface (not typed nil pointer!) if the cache is not configured.
	var cachePinger healthuc.CachePinger
	if store != nil {
		cachePinger = store
	}
	healthSvc := healthuc.New(cachePinger, client,
		time.Duration(cfg.Upstream.HealthTimeoutSec)*time.Second)

	server := chiTransport.NewServer(sessionSvc, healthSvc, logger)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(chiTransport.BearerAuthMiddleware(cfg.Auth.APIKeys))
	r.Use(metrics.Middleware())
	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeJSONError(w, http.StatusNotFound, "not_found", "route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeJSONError(w, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed")
	})
	server.Routes(r)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully", zap.Int("sessions_dropped", sessionSvc.Len()))
}

func connectCache(ctx context.Context, cfg config.CacheConfig, logger *zap.Logger) db.Store {
	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.Addrs,
		Username: cfg.Username,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err != nil {
		logger.Fatal("Failed to create cache store", zap.String("driver", cfg.Driver), zap.Error(err))
	}
	if err := store.WaitForReady(ctx, time.Duration(cfg.ReadinessTimeout)*time.Second); err != nil {
		logger.Fatal("Cache not ready", zap.Error(err))
	}
	logger.Info("Connected to cache", zap.String("driver", cfg.Driver), zap.Strings("addrs", cfg.Addrs))
	return store
}

// entityAPI combines the cached statistics with the budgeted search.
type entityAPI struct {
	domain.Statistics
	domain.EntitySearcher
}

// buildEntityAPI assembles the decorator chain:
// intavia -> Instrumented (budget) -> Cache (statistics only).
// Cache hits never consume budget.
func buildEntityAPI(
	ctx context.Context,
	client *intavia.Client,
	cfg config.Config,
	store db.Store,
	logger *zap.Logger,
) entityAPI {
	// Pass nil interface (not typed nil pointer!) if budget is not configured.
	var budgetChecker upstreamuc.BudgetChecker
	if limit := cfg.Upstream.Budget.DailyRequestLimit; limit > 0 {
		action := upstreamuc.BudgetActionWarn
		if cfg.Upstream.Budget.Action == "reject" {
			action = upstreamuc.BudgetActionReject
		}
		budget := upstreamuc.NewBudgetTracker(limit, action, logger)
		if store != nil {
			// Loads today's counter from the cache.
			budget.WithStore(ctx, budgetrepo.New(store, 48*time.Hour))
		}
		budgetChecker = budget
	}

	instrumented := upstreamuc.NewInstrumented(client, budgetChecker, logger)

	var stats domain.Statistics = instrumented
	if store != nil {
		stats = statcache.New(instrumented, store,
			time.Duration(cfg.Cache.TTLSec)*time.Second, metrics.StatsCacheTotal, logger)
	}
	return entityAPI{Statistics: stats, EntitySearcher: instrumented}
}

func writeJSONError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"code": code, "message": message})
}

// jsonRecoverer is a recovery middleware that returns JSON instead of a plain text stacktrace.
func jsonRecoverer(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rvr := recover(); rvr != nil {
					if rvr == http.ErrAbortHandler {
						panic(rvr)
					}
					logger.Error("panic recovered",
						zap.Any("panic", rvr),
						zap.String("path", r.URL.Path),
						zap.Stack("stacktrace"),
					)
					writeJSONError(w, http.StatusInternalServerError, "internal_error", "internal error")
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// wideEventMiddleware emits a canonical log line per request and propagates X-Request-ID.
func wideEventMiddleware(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			// chi.middleware.RequestID already placed request_id in context
			requestID := chiMiddleware.GetReqID(r.Context())
			if requestID != "" {
				w.Header().Set("X-Request-ID", requestID)
			}

			reqLogger := logger.With(zap.String("request_id", requestID))
			ctx := logpkg.ContextWithLogger(r.Context(), reqLogger)

			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			route := ""
			if rc := chi.RouteContext(r.Context()); rc != nil {
				route = rc.RoutePattern()
			}

			// Canonical log line, one per request
			reqLogger.Info("http_request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.String("route", route),
				zap.Int("status", ww.Status()),
				zap.Duration("latency", time.Since(start)),
				zap.String("ip", r.RemoteAddr),
				zap.String("user_agent", r.UserAgent()),
				zap.Int("response_bytes", ww.BytesWritten()),
			)
		})
	}
}
