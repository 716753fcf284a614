// Package master initializes and runs the master relay process. It starts
// the hub that fans word changes out between worker processes and handles
// graceful shutdown.
package master

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/beaumontjonathan/words/internal/logging"
	"github.com/beaumontjonathan/words/internal/master/config"
	"github.com/beaumontjonathan/words/internal/master/hub"
)

type App struct {
	config *config.Config
	logger logging.Logger
	hub    *hub.Hub
}

func NewApp(c *config.Config) (*App, error) {

	slog := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	logger := logging.NewSlogLogger(slog)

	h := hub.NewHub(logger)

	return &App{config: c, logger: logger, hub: h}, nil
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

func (app *App) startHubServer(ctx context.Context, cancelFunc context.CancelFunc) {

	s := hub.NewServer(app.config.WorkerAddr, app.hub, app.logger)

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)

	app.logger.Info(ctx, "Starting master...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.hub.Run(ctx)
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHubServer(ctx, cancelFunc)
	}()

	wg.Wait()
}
