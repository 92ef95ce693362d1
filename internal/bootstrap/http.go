package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/lindasales/salespro/config"
	httpx "github.com/lindasales/salespro/internal/http"
)

// HTTPServerConfig contains configuration for the HTTP server.
type HTTPServerConfig struct {
	Config      *config.AppConfig
	Services    *ServiceContainer
	DB          *sql.DB
	RedisClient redis.UniversalClient
	Logger      *slog.Logger
}

// BuildHTTPServer assembles the router and wraps it in an http.Server.
func BuildHTTPServer(cfg *HTTPServerConfig) (*http.Server, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	appCfg := cfg.Config
	svcs := cfg.Services

	router := httpx.RouterServices{
		Auth:          svcs.Auth,
		Shell:         svcs.Shell,
		Watcher:       svcs.Watcher,
		Notifications: svcs.Notifications,
		Leads:         svcs.Leads,
		Customers:     svcs.Customers,
		Offers:        svcs.Offers,
		Appointments:  svcs.Appointments,
		Messages:      svcs.Messages,
		LeadGen:       svcs.LeadGen,
		Profiles:      svcs.Profiles,
		CookieDomain:  appCfg.HTTP.CookieDomain,
		CallbackURL:   appCfg.Auth.OIDC.RedirectURL,
		Metrics:       svcs.Metrics,
		AuthRateLimit: &httpx.RateLimitConfig{
			RPS:   rate.Limit(appCfg.Auth.LoginRPS),
			Burst: appCfg.Auth.LoginBurst,
		},
		Logger: logger,
	}
	if cfg.DB != nil {
		router.DB = SQLPinger{DB: cfg.DB}
	}
	if cfg.RedisClient != nil {
		router.Cache = RedisPinger{Client: cfg.RedisClient}
	}

	handler, err := httpx.NewRouter(router)
	if err != nil {
		return nil, fmt.Errorf("build router: %w", err)
	}

	return &http.Server{
		Addr:              appCfg.HTTP.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}, nil
}

// RunWithShutdown starts the watcher and the HTTP server and blocks until
// SIGINT/SIGTERM, then shuts both down gracefully.
func RunWithShutdown(cfg *HTTPServerConfig) error {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	srv, err := BuildHTTPServer(cfg)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg.Services.Start(ctx)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("http server listening", "addr", srv.Addr)
		if serveErr := srv.ListenAndServe(); serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", serveErr)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()

		grace := time.Duration(cfg.Config.HTTP.ShutdownGrace) * time.Second
		shutdownCtx, cancel := context.WithTimeout(context.Background(), grace)
		defer cancel()

		logger.Info("shutting down", "grace", grace)
		if shutdownErr := srv.Shutdown(shutdownCtx); shutdownErr != nil {
			return fmt.Errorf("shutdown http server: %w", shutdownErr)
		}
		return nil
	})

	err = g.Wait()
	cfg.Services.Stop(5 * time.Second)
	return err
}
