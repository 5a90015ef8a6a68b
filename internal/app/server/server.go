package server

import (
	"context"
	"net/http"
	"time"

	"github.com/go-faster/errors"
	"github.com/sirupsen/logrus"

	"personnel/internal/domain/audit"
	"personnel/internal/domain/auth"
	"personnel/internal/domain/catalog"
	"personnel/internal/domain/documents"
	"personnel/internal/domain/employee"
	"personnel/internal/domain/organization"
	"personnel/internal/domain/records"
	"personnel/internal/domain/reports"
	"personnel/internal/domain/stats"
	"personnel/internal/platform/config"
	"personnel/internal/platform/crypto"
	"personnel/internal/platform/db"
	"personnel/internal/platform/jobs"
	"personnel/internal/platform/metrics"
	"personnel/internal/platform/storage"
	adminhandler "personnel/internal/transport/http/handlers/admin"
	audithandler "personnel/internal/transport/http/handlers/audit"
	authhandler "personnel/internal/transport/http/handlers/auth"
	cataloghandler "personnel/internal/transport/http/handlers/catalog"
	documentshandler "personnel/internal/transport/http/handlers/documents"
	employeehandler "personnel/internal/transport/http/handlers/employee"
	organizationhandler "personnel/internal/transport/http/handlers/organization"
	recordshandler "personnel/internal/transport/http/handlers/records"
	statshandler "personnel/internal/transport/http/handlers/stats"
	"personnel/internal/transport/http/middleware"
)

type App struct {
	Config  config.Config
	DB      *db.Pool
	Router  http.Handler
	Jobs    *jobs.Service
	Metrics *metrics.Collector
}

// New connects to the database, applies migrations and seed data when
// enabled, and wires every service behind the router.
func New(ctx context.Context, cfg config.Config) (*App, error) {
	pool, err := db.Connect(ctx, cfg)
	if err != nil {
		return nil, errors.Wrap(err, "db connect")
	}

	if cfg.RunMigrations {
		if err := db.Migrate(ctx, pool); err != nil {
			pool.Close()
			return nil, errors.Wrap(err, "migrations")
		}
	}
	if cfg.RunSeed {
		if err := db.Seed(ctx, pool, cfg); err != nil {
			pool.Close()
			return nil, errors.Wrap(err, "seed")
		}
	}

	cryptoSvc, err := crypto.New(cfg.DataEncryptionKey)
	if err != nil {
		pool.Close()
		return nil, errors.Wrap(err, "encryption")
	}
	if !cryptoSvc.Configured() {
		logrus.Warn("DATA_ENCRYPTION_KEY not set, sensitive employee fields are stored in clear")
	}
	disk, err := storage.NewDisk(cfg.UploadDir)
	if err != nil {
		pool.Close()
		return nil, errors.Wrap(err, "upload storage")
	}

	collector := metrics.New()
	perms := auth.StaticPermissions{}

	accounts := auth.NewService(auth.NewStore(pool), cfg.JWTSecret, cfg.TokenTTL)
	tree := organization.NewService(organization.NewStore(pool))
	employees := employee.NewService(employee.NewStore(pool, cryptoSvc), collector)
	catalogSvc := catalog.NewService(catalog.NewStore(pool), collector)
	recordsSvc := records.NewService(records.NewStore(pool))
	library := documents.NewService(documents.NewStore(pool), disk, cfg.MaxUploadBytes)
	dashboard := stats.NewService(stats.NewStore(pool))
	renderer := reports.NewService(employees)
	jobsSvc := jobs.New(pool, employees, collector, cfg.ReconcileInterval)

	router := NewRouter(cfg, collector, pool.Ping,
		authhandler.NewHandler(accounts, perms),
		organizationhandler.NewHandler(tree, employees, perms),
		employeehandler.NewHandler(employees, renderer, middleware.NewIdempotencyStore(pool), perms),
		cataloghandler.NewHandler(catalogSvc, perms),
		recordshandler.NewHandler(recordsSvc, perms),
		documentshandler.NewHandler(library, perms),
		statshandler.NewHandler(dashboard, perms),
		audithandler.NewHandler(audit.NewStore(pool), perms),
		adminhandler.NewHandler(jobsSvc, perms),
	)

	return &App{Config: cfg, DB: pool, Router: router, Jobs: jobsSvc, Metrics: collector}, nil
}

func (a *App) Close() {
	if a.DB != nil {
		a.DB.Close()
	}
}

// Run serves until ctx is cancelled, then drains in-flight requests.
func (a *App) Run(ctx context.Context) error {
	a.Jobs.Start(ctx)
	if a.Config.ReconcileOnStartup {
		result, err := a.Jobs.Reconcile(ctx)
		if err != nil {
			logrus.WithError(err).Warn("startup duplicate reconciliation failed")
		} else if len(result.RemovedIDs) > 0 {
			logrus.WithFields(logrus.Fields{"groups": result.Groups, "removed": len(result.RemovedIDs)}).Info("startup duplicate reconciliation")
		}
	}

	srv := &http.Server{
		Addr:              a.Config.Addr,
		Handler:           a.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logrus.WithField("addr", a.Config.Addr).Info("personnel server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return errors.Wrap(err, "serve")
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	logrus.Info("shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return errors.Wrap(err, "shutdown")
	}
	return nil
}
