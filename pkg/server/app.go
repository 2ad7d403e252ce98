package server

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"StockPulse/internal/domain/repository"
	"StockPulse/internal/usecase"
	"StockPulse/pkg/cache"
	"StockPulse/pkg/config"
	xhttp "StockPulse/pkg/http"
	applogger "StockPulse/pkg/logger"
)

// App owns the process lifecycle: HTTP server, live feed loop and the
// resources that need closing on the way down.
type App struct {
	cfg        *config.Config
	log        *applogger.Logger
	httpServer *xhttp.Server
	feed       *usecase.LiveFeed
	store      cache.Store
	publisher  repository.Publisher
}

func New(
	cfg *config.Config,
	log *applogger.Logger,
	httpServer *xhttp.Server,
	feed *usecase.LiveFeed,
	store cache.Store,
	publisher repository.Publisher,
) *App {
	return &App{
		cfg:        cfg,
		log:        log,
		httpServer: httpServer,
		feed:       feed,
		store:      store,
		publisher:  publisher,
	}
}

// Run starts everything and blocks until an interrupt or SIGTERM arrives.
func (a *App) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go a.feed.Run(ctx)
	a.log.Info("live feed started",
		applogger.String("symbol", a.cfg.Market.Symbol),
		applogger.Duration("interval", a.cfg.Live.Interval),
	)

	if err := a.httpServer.Start(); err != nil {
		return err
	}
	a.log.Info("service started",
		applogger.String("environment", a.cfg.Environment),
		applogger.String("source", a.cfg.Market.Source),
		applogger.Int("port", a.cfg.Server.Port),
	)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	a.log.Info("shutdown signal received")
	return a.shutdown(cancel)
}

func (a *App) shutdown(cancel context.CancelFunc) error {
	cancel()

	ctx, done := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
	defer done()

	if err := a.httpServer.Stop(ctx); err != nil {
		a.log.Error("http shutdown failed", applogger.Error(err))
	}
	if err := a.publisher.Close(); err != nil {
		a.log.Error("publisher close failed", applogger.Error(err))
	}
	if err := a.store.Close(); err != nil {
		a.log.Error("cache close failed", applogger.Error(err))
	}

	a.log.Info("shutdown complete")
	return nil
}
