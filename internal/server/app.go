// Package server wires configuration, storage, services and the HTTP API
// together and runs them until the process is asked to stop.
package server

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/taskkeeper/internal/logging"
	"github.com/dmitrijs2005/taskkeeper/internal/server/auth"
	"github.com/dmitrijs2005/taskkeeper/internal/server/config"
	"github.com/dmitrijs2005/taskkeeper/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/taskkeeper/internal/server/rest"
	"github.com/dmitrijs2005/taskkeeper/internal/server/services"
	"github.com/jmoiron/sqlx"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

type App struct {
	config *config.Config
	logger logging.Logger
	db     *sqlx.DB
	server *rest.Server
}

// NewApp opens the database, applies migrations and builds the HTTP server.
func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger := logging.New(c.LogBackend, c.LogLevel, os.Stdout)

	db, err := sqlx.Open("pgx", c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("db ping error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(ctx, db.DB); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrations error: %w", err)
	}

	tokens := auth.NewTokenService([]byte(c.SecretKey), c.TokenValidityDuration)
	us := services.NewUserService(db, rm, auth.NewHasher(c.BcryptCost), tokens)
	ts := services.NewTaskService(db, rm)

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		collectors.NewDBStatsCollector(db.DB, "taskkeeper"),
	)

	srv := rest.NewServer(c.Address(), logger, us, ts, tokens, reg, c.ShutdownTimeout)

	return &App{config: c, logger: logger, db: db, server: srv}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {
	if err := app.server.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

// Run blocks until a termination signal arrives or the server fails.
func (app *App) Run(ctx context.Context) {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()

	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, "error closing db", "error", err)
	}
	app.logger.Info(ctx, "App stopped")
}
