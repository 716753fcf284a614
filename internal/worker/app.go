// Package worker initializes and runs a worker process. It opens the
// database, runs migrations, connects upstream to the master relay and
// starts the client-facing WebSocket server, handling graceful shutdown.
package worker

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/beaumontjonathan/words/internal/logging"
	"github.com/beaumontjonathan/words/internal/worker/config"
	"github.com/beaumontjonathan/words/internal/worker/relay"
	"github.com/beaumontjonathan/words/internal/worker/repositories/repomanager"
	"github.com/beaumontjonathan/words/internal/worker/session"
	"github.com/beaumontjonathan/words/internal/worker/words"
	"github.com/beaumontjonathan/words/internal/worker/ws"
)

type App struct {
	config      *config.Config
	logger      logging.Logger
	db          *sql.DB
	wordService *words.Service
	relayClient *relay.Client
}

func NewApp(c *config.Config) (*App, error) {

	slog := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	logger := logging.NewSlogLogger(slog)

	rm := repomanager.NewPostgresRepositoryManager()

	db, err := sql.Open("pgx", c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	if err := rm.RunMigrations(context.Background(), db); err != nil {
		return nil, fmt.Errorf("db migration error: %w", err)
	}

	registry := session.NewRegistry()

	// The relay client is both the service's publisher and the sink for
	// echoes coming back from the master, so the two are wired in a loop.
	rc := relay.NewClient(c.MasterAddr, nil, logger)
	svc := words.NewService(rm.Accounts(db), registry, rc, logger)
	rc.SetApplier(svc)

	return &App{config: c, logger: logger, db: db, wordService: svc, relayClient: rc}, nil
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

func (app *App) startClientServer(ctx context.Context, cancelFunc context.CancelFunc) {

	s := ws.NewServer(app.config.ClientAddr, app.wordService, app.logger)

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)

	app.logger.Info(ctx, "Starting worker...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := app.relayClient.Run(ctx); err != nil {
			app.logger.Error(ctx, err.Error())
		}
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startClientServer(ctx, cancelFunc)
	}()

	wg.Wait()

	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, err.Error())
	}
}
