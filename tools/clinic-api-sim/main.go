// Command clinic-api-sim serves the clinic REST API locally so the console
// can be developed and tested without the real backend.
package main

import (
	"context"
	_ "embed"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/md-rashed-zaman/clinicadmin/libs/config"
	"github.com/md-rashed-zaman/clinicadmin/libs/db"
	"github.com/md-rashed-zaman/clinicadmin/libs/httpx"
	otelx "github.com/md-rashed-zaman/clinicadmin/libs/otel"
	"github.com/md-rashed-zaman/clinicadmin/libs/runtime"
	"github.com/md-rashed-zaman/clinicadmin/tools/clinic-api-sim/internal/handlers"
	"github.com/md-rashed-zaman/clinicadmin/tools/clinic-api-sim/internal/store"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

//go:embed seed.json
var seedData []byte

func main() {
	service := config.String("SERVICE_NAME", "clinic-api-sim")
	port, err := config.Port("PORT", "3000")
	if err != nil {
		panic(err)
	}
	logger := runtime.NewLogger(service)

	ctx, stop := runtime.SignalContext(context.Background())
	defer stop()

	otelShutdown, err := otelx.Setup(ctx, otelx.ConfigFromEnv(service, false))
	if err != nil {
		logger.Error("otel setup failed", "err", err)
	} else {
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = otelShutdown(shutdownCtx)
		}()
	}

	st, checks, closeStore, err := openStore(ctx, logger)
	if err != nil {
		logger.Error("store setup failed", "err", err)
		os.Exit(1)
	}
	defer closeStore()

	if err := seed(ctx, st, logger); err != nil {
		logger.Error("seeding failed", "err", err)
		os.Exit(1)
	}

	limiter, failOpen, rdb := rateLimiter(logger)
	if rdb != nil {
		defer func() { _ = rdb.Close() }()
		checks = append(checks, runtime.ReadyCheck{Name: "redis", Check: func(ctx context.Context) error {
			return rdb.Ping(ctx).Err()
		}})
	}

	requireAuth := config.Bool("REQUIRE_AUTH", false)
	secret := config.String("JWT_SECRET", "dev-secret")
	if requireAuth {
		if secret, err = config.RequiredString("JWT_SECRET"); err != nil {
			logger.Error("REQUIRE_AUTH needs an explicit secret", "err", err)
			os.Exit(1)
		}
	}
	api := handlers.New(handlers.Options{
		Store:       st,
		Logger:      logger,
		JWTSecret:   secret,
		TokenTTL:    time.Duration(config.Int("TOKEN_TTL_HOURS", 12, 1)) * time.Hour,
		RequireAuth: requireAuth,
	})
	handler := newHandler(api, logger, chainConfig{
		Checks:    checks,
		CORS:      httpx.DefaultCORSPolicy(config.List("CORS_ALLOWED_ORIGINS", "")),
		BodyLimit: int64(config.Int("REQUEST_BODY_LIMIT_BYTES", 8<<20, 1)),
		Timeout:   config.Seconds("REQUEST_TIMEOUT_SECONDS", 10*time.Second),
		Limiter:   limiter,
		FailOpen:  failOpen,
	})

	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("http server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "err", err)
			stop()
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "err", err)
	}
	logger.Info("http server stopped")
}

type chainConfig struct {
	Checks    []runtime.ReadyCheck
	CORS      httpx.CORSPolicy
	BodyLimit int64
	Timeout   time.Duration
	Limiter   httpx.Limiter
	FailOpen  bool
}

// newHandler mounts the API next to /healthz and /readyz and wraps it in
// the middleware chain and tracing.
func newHandler(api *handlers.Server, logger *slog.Logger, cfg chainConfig) http.Handler {
	mux := runtime.NewBaseMuxWithReady(cfg.Checks...)
	api.Register(mux)
	mux.HandleFunc("/", func(w http.ResponseWriter, _ *http.Request) {
		httpx.WriteError(w, http.StatusNotFound, "Route not found")
	})

	var limit httpx.Middleware
	if cfg.Limiter != nil {
		limit = httpx.RateLimit(cfg.Limiter, logger, cfg.FailOpen)
	}
	h := httpx.Chain(mux,
		httpx.WithRecover(logger),
		httpx.WithCORS(cfg.CORS),
		httpx.WithRequestID,
		httpx.WithAccessLog(logger),
		httpx.WithBodyLimit(cfg.BodyLimit),
		httpx.WithTimeout(cfg.Timeout),
		limit,
	)
	return otelhttp.NewHandler(h, "clinic-api")
}

// openStore picks Postgres when DATABASE_URL is set, memory otherwise.
func openStore(ctx context.Context, logger *slog.Logger) (store.Store, []runtime.ReadyCheck, func(), error) {
	url := config.String("DATABASE_URL", "")
	if url == "" {
		logger.Info("using in-memory store")
		return store.NewMemory(), nil, func() {}, nil
	}
	pool, err := db.Open(ctx, url, db.Options{
		MaxConns: int32(config.Int("DB_MAX_CONNS", 10, 1)),
		MinConns: int32(config.Int("DB_MIN_CONNS", 1, 1)),
		AppName:  "clinic-api-sim",
	})
	if err != nil {
		return nil, nil, nil, err
	}
	pg, err := store.NewPostgres(ctx, pool)
	if err != nil {
		pool.Close()
		return nil, nil, nil, err
	}
	logger.Info("using postgres store")
	return pg, []runtime.ReadyCheck{{Name: "postgres", Check: db.ReadyCheck(pool)}}, pool.Close, nil
}

// seed loads the sample records and the admin account into an empty store.
func seed(ctx context.Context, st store.Store, logger *slog.Logger) error {
	admins, err := st.List(ctx, store.KindAdmins)
	if err != nil {
		return err
	}
	if len(admins) > 0 {
		logger.Info("store already seeded", "admins", len(admins))
		return nil
	}
	if config.Bool("SEED_SAMPLE_DATA", true) {
		if err := store.Seed(ctx, st, seedData); err != nil {
			return err
		}
	}
	admin := handlers.AdminSeed{
		FirstName:   config.String("SEED_ADMIN_FIRST_NAME", "Clinic"),
		LastName:    config.String("SEED_ADMIN_LAST_NAME", "Admin"),
		PhoneNumber: config.String("SEED_ADMIN_PHONE", "+880 1700 000000"),
		Email:       config.String("SEED_ADMIN_EMAIL", "admin@clinic.local"),
		Password:    config.String("SEED_ADMIN_PASSWORD", "admin123"),
	}
	if err := handlers.SeedAdmin(ctx, st, admin); err != nil {
		return err
	}
	logger.Info("seeded store", "admin_email", admin.Email)
	return nil
}

// rateLimiter shares limits through Redis when REDIS_ADDR is set; the
// client is returned so the caller can close it.
func rateLimiter(logger *slog.Logger) (httpx.Limiter, bool, *redis.Client) {
	perMinute := config.Int("RATE_LIMIT_PER_MINUTE", 120, 1)
	addr := config.String("REDIS_ADDR", "")
	if addr == "" {
		logger.Info("rate limiting enabled (in-memory)", "per_minute", perMinute)
		return httpx.NewMemoryLimiter(perMinute, time.Minute), false, nil
	}
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: config.String("REDIS_PASSWORD", ""),
		DB:       config.Int("REDIS_DB", 0, 0),
	})
	logger.Info("rate limiting enabled (redis)", "per_minute", perMinute, "redis_addr", addr)
	rl := httpx.NewRedisLimiter(rdb, perMinute, time.Minute, config.String("RATE_LIMIT_PREFIX", ""))
	return rl, config.Bool("RATE_LIMIT_FAIL_OPEN", true), rdb
}
