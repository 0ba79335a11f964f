// Package runtime assembles configuration, storage, services, and the HTTP
// server into a runnable process.
package runtime

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/campuslink/platform/internal/api/httpserver"
	app "github.com/campuslink/platform/internal/app"
	"github.com/campuslink/platform/internal/app/httpapi"
	"github.com/campuslink/platform/internal/app/mailer"
	"github.com/campuslink/platform/internal/app/storage/postgres"
	"github.com/campuslink/platform/internal/config"
	"github.com/campuslink/platform/internal/metrics"
	"github.com/campuslink/platform/internal/middleware"
	"github.com/campuslink/platform/pkg/logger"
)

// Application is the fully wired server process.
type Application struct {
	cfg    *config.Config
	log    *logger.Logger
	server *httpserver.Server
	store  *postgres.Store
	App    *app.Application
}

// New wires an application from configuration.
func New(ctx context.Context, cfg *config.Config) (*Application, error) {
	log := logger.New(cfg.Logging)

	stores, pgStore, err := buildStores(ctx, cfg, log)
	if err != nil {
		return nil, err
	}

	application := app.New(stores, app.Options{
		Mailer:     buildMailer(cfg, log),
		AuthSecret: cfg.Auth.Secret,
		TokenTTL:   time.Duration(cfg.Auth.TokenTTLHours) * time.Hour,
	}, log)

	m := metrics.New("campuslink")

	router := httpapi.NewHandler(application)
	router.Use(middleware.RequestLog(log), middleware.Metrics(m))
	router.Handle("/metrics", m.Handler()).Methods(http.MethodGet)

	auth := middleware.NewAuth(cfg.Auth.Secret, []string{
		"/healthz",
		"/metrics",
		"/api/auth/register",
		"/api/auth/login",
	}, log)
	limiter := middleware.NewRateLimiter(float64(cfg.RateLimit.RequestsPerSecond), cfg.RateLimit.Burst, log)

	var handler http.Handler = router
	handler = auth.Handler(handler)
	handler = limiter.Handler(handler)
	handler = middleware.CORS(handler)

	return &Application{
		cfg:    cfg,
		log:    log,
		server: httpserver.New(cfg.Server, log, handler),
		store:  pgStore,
		App:    application,
	}, nil
}

func buildStores(ctx context.Context, cfg *config.Config, log *logger.Logger) (app.Stores, *postgres.Store, error) {
	if cfg.Database.DSN == "" {
		log.Warn("no database configured; using the in-memory store")
		return app.Stores{}, nil, nil
	}

	store, err := postgres.Open(ctx, cfg.Database.DSN,
		cfg.Database.MaxOpenConns, cfg.Database.MaxIdleConns,
		time.Duration(cfg.Database.ConnMaxLifetime)*time.Second)
	if err != nil {
		return app.Stores{}, nil, fmt.Errorf("connect database: %w", err)
	}

	return app.Stores{
		Users:                   store,
		Loans:                   store,
		LoanApplications:        store,
		ScholarshipApplications: store,
		Products:                store,
		Orders:                  store,
		Banners:                 store,
		Notifications:           store,
	}, store, nil
}

func buildMailer(cfg *config.Config, log *logger.Logger) mailer.Mailer {
	if cfg.Mail.Host == "" {
		log.Warn("no mail host configured; status emails go to the log")
		return mailer.NewLog(log)
	}
	return mailer.NewSMTP(cfg.Mail)
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (a *Application) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- a.server.Start()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := a.server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	if a.store != nil {
		if err := a.store.Close(); err != nil {
			a.log.WithError(err).Warn("close database")
		}
	}
	return <-errCh
}
