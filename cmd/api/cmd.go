package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/GregMSThompson/ledger-engine/internal/bootstrap"
	"github.com/GregMSThompson/ledger-engine/internal/config"
	"github.com/GregMSThompson/ledger-engine/internal/handlers"
	"github.com/GregMSThompson/ledger-engine/internal/response"
	"github.com/GregMSThompson/ledger-engine/internal/router"
	"github.com/GregMSThompson/ledger-engine/internal/services"
)

const shutdownTimeout = 30 * time.Second

func exitOnError(message string, err error, log *slog.Logger) {
	if err != nil {
		log.Error(message, "error", err)
		os.Exit(1)
	}
}

func main() {
	// config
	cfg := config.New()
	exitOnError("invalid configuration", cfg.Validate(), slog.Default())

	// bootstrap
	bs, err := bootstrap.Run(cfg)
	exitOnError("bootstrap failed", err, bs.Log)
	defer bs.Close()

	// services
	lserv := services.NewLedgerService(bs.Store, bs.Publisher, cfg.DefaultIntervals)

	// response handler
	rh := response.New(bs.Log)

	// dependancies
	deps := new(handlers.Deps)
	deps.Log = bs.Log
	deps.ResponseHandler = rh
	deps.TransactionSvc = lserv
	deps.RuleSvc = lserv
	deps.GoalSvc = lserv
	deps.RequestSvc = lserv
	deps.MessageSvc = lserv
	deps.BalanceSvc = lserv

	// router
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router.NewRouter(deps),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		bs.Log.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		bs.Log.Info("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		bs.Log.Error("server stopped with error", "error", err)
		return
	}
	bs.Log.Info("server stopped")
}
