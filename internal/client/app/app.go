// Package app wires the tracker client together: local store, repositories,
// transport, session, connectivity monitor and the sync engine. It runs the
// background parts until the process is signalled.
package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/tracker/internal/client/client"
	"github.com/dmitrijs2005/tracker/internal/client/config"
	"github.com/dmitrijs2005/tracker/internal/client/netwatch"
	"github.com/dmitrijs2005/tracker/internal/client/repositories/activities"
	"github.com/dmitrijs2005/tracker/internal/client/repositories/activitykinds"
	"github.com/dmitrijs2005/tracker/internal/client/repositories/activitylogs"
	"github.com/dmitrijs2005/tracker/internal/client/repositories/goals"
	"github.com/dmitrijs2005/tracker/internal/client/repositories/icons"
	"github.com/dmitrijs2005/tracker/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/tracker/internal/client/repositories/tasks"
	"github.com/dmitrijs2005/tracker/internal/client/repositories/timers"
	"github.com/dmitrijs2005/tracker/internal/client/services"
	"github.com/dmitrijs2005/tracker/internal/client/session"
	"github.com/dmitrijs2005/tracker/internal/client/store"
	"github.com/dmitrijs2005/tracker/internal/client/syncer"
	"github.com/dmitrijs2005/tracker/internal/filex"
	"github.com/dmitrijs2005/tracker/internal/logging"
)

// Repositories groups the local stores of every family.
type Repositories struct {
	Meta          *metadata.SQLiteRepository
	Activities    *activities.SQLiteRepository
	ActivityKinds *activitykinds.SQLiteRepository
	ActivityLogs  *activitylogs.SQLiteRepository
	Goals         *goals.SQLiteRepository
	Tasks         *tasks.SQLiteRepository
	Icons         *icons.SQLiteRepository
	Timers        *timers.SQLiteRepository
}

type App struct {
	config    *config.Config
	logger    logging.Logger
	logCloser io.Closer
	db        *sql.DB

	Session      *session.Session
	Repos        Repositories
	Monitor      *netwatch.Monitor
	Orchestrator *syncer.Orchestrator
	Bootstrapper *syncer.Bootstrapper

	Auth     services.AuthService
	Timer    *services.TimerService
	Journal  *services.JournalService
	Settings *services.SettingsService
	Icons    *services.IconService
}

// NewApp opens the local store and builds every component. Close releases
// what NewApp opened.
func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger, logCloser := logging.New(logging.Options{File: c.LogFile, MaxSizeMB: 10, MaxBackups: 3})

	dbPath, err := filex.EnsureParentDir(c.DatabasePath)
	if err != nil {
		_ = logCloser.Close()
		return nil, fmt.Errorf("db init error: %w", err)
	}
	db, err := store.Open(ctx, store.FileDSN(dbPath))
	if err != nil {
		_ = logCloser.Close()
		return nil, fmt.Errorf("db init error: %w", err)
	}

	app, err := build(c, db, logger)
	if err != nil {
		_ = db.Close()
		_ = logCloser.Close()
		return nil, err
	}
	app.logCloser = logCloser
	return app, nil
}

func build(c *config.Config, db *sql.DB, logger logging.Logger) (*App, error) {
	meta := metadata.NewSQLiteRepository(db)
	sess := session.New(meta)
	if c.AccessToken != "" {
		if err := sess.SetToken(c.AccessToken); err != nil {
			return nil, fmt.Errorf("access token: %w", err)
		}
	}

	api, err := client.NewHTTPClient(c.ServerURL, c.RequestTimeout, sess)
	if err != nil {
		return nil, fmt.Errorf("api client init error: %w", err)
	}

	repos := Repositories{
		Meta:          meta,
		Activities:    activities.NewSQLiteRepository(db, sess),
		ActivityKinds: activitykinds.NewSQLiteRepository(db, sess),
		ActivityLogs:  activitylogs.NewSQLiteRepository(db, sess),
		Goals:         goals.NewSQLiteRepository(db, sess),
		Tasks:         tasks.NewSQLiteRepository(db, sess),
		Icons:         icons.NewSQLiteRepository(db),
		Timers:        timers.NewSQLiteRepository(db),
	}

	monitor := netwatch.NewMonitor(api, c.OnlineCheckInterval, logger)

	plan := syncer.DefaultPlan(syncer.Families{
		Icons:         syncer.NewIconSync(repos.Icons, api, logger),
		Activities:    syncer.NewActivitySync(repos.Activities, api, c.BatchSize, logger),
		ActivityKinds: syncer.NewActivityKindSync(repos.ActivityKinds, api, c.BatchSize, logger),
		ActivityLogs:  syncer.NewActivityLogSync(repos.ActivityLogs, api, c.BatchSize, logger),
		Goals:         syncer.NewGoalSync(repos.Goals, api, c.BatchSize, logger),
		Tasks:         syncer.NewTaskSync(repos.Tasks, api, c.BatchSize, logger),
	})
	orchestrator := syncer.NewOrchestrator(plan, monitor, syncer.Options{
		Interval:       c.SyncInterval,
		RetryBaseDelay: c.RetryBaseDelay,
		RetryMaxDelay:  c.RetryMaxDelay,
	}, logger)

	bootstrapper := syncer.NewBootstrapper(api, syncer.Stores{
		Meta:          repos.Meta,
		Activities:    repos.Activities,
		ActivityKinds: repos.ActivityKinds,
		ActivityLogs:  repos.ActivityLogs,
		Goals:         repos.Goals,
		Tasks:         repos.Tasks,
	}, logger)

	return &App{
		config:       c,
		logger:       logger,
		db:           db,
		Session:      sess,
		Repos:        repos,
		Monitor:      monitor,
		Orchestrator: orchestrator,
		Bootstrapper: bootstrapper,
		Auth:         services.NewAuthService(api, db, sess, bootstrapper, logger),
		Timer:        services.NewTimerService(repos.Timers, repos.ActivityLogs),
		Journal:      services.NewJournalService(repos.Activities, repos.ActivityKinds, repos.ActivityLogs),
		Settings:     services.NewSettingsService(meta),
		Icons:        services.NewIconService(repos.Icons),
	}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

// Run starts the connectivity monitor and the sync scheduler and blocks until
// ctx is cancelled or the process receives a termination signal.
func (app *App) Run(ctx context.Context) {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...", "server", app.config.ServerURL, "db", app.config.DatabasePath)

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.Monitor.Run(ctx)
	}()

	stop := app.Orchestrator.StartAutoSync(ctx, app.config.SyncInterval)

	<-ctx.Done()
	stop()
	wg.Wait()

	app.logger.Info(context.Background(), "App stopped")
}

// Close releases the database and the log file.
func (app *App) Close() error {
	var errs []error
	if err := app.db.Close(); err != nil {
		errs = append(errs, fmt.Errorf("db close error: %w", err))
	}
	if app.logCloser != nil {
		if err := app.logCloser.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
