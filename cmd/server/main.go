package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/sourcegraph/conc/panics"
	"github.com/vgarvardt/gue/v5"
	"github.com/vgarvardt/gue/v5/adapter/pgxv5"
	adapter "github.com/vgarvardt/gue/v5/adapter/zap"
	"go.uber.org/zap"

	"github.com/Ratondutta12345/AI-FINANCE-PLATFORM/analytics"
	"github.com/Ratondutta12345/AI-FINANCE-PLATFORM/api"
	"github.com/Ratondutta12345/AI-FINANCE-PLATFORM/config"
	"github.com/Ratondutta12345/AI-FINANCE-PLATFORM/ledger"
	"github.com/Ratondutta12345/AI-FINANCE-PLATFORM/pkg/db"
	"github.com/Ratondutta12345/AI-FINANCE-PLATFORM/pkg/logger"
	"github.com/Ratondutta12345/AI-FINANCE-PLATFORM/pkg/postgres"
	"github.com/Ratondutta12345/AI-FINANCE-PLATFORM/reconcile"
	"github.com/Ratondutta12345/AI-FINANCE-PLATFORM/settlement"
	storage "github.com/Ratondutta12345/AI-FINANCE-PLATFORM/storage/postgres"
)

func main() {
	ctx := context.Background()
	_ = godotenv.Load()
	log := logger.New(true)

	cfg, err := config.ParseEnv(ctx)
	if err != nil {
		log.Fatal("can't parse configuration", zap.Error(err))
	}

	log = logger.New(cfg.Debug)

	pool, err := postgres.Connect(ctx, cfg.DB)
	if err != nil {
		log.Fatal("can't connect to db", zap.Error(err))
	}
	defer pool.Close()

	poolAdapter := pgxv5.NewConnPool(pool)
	q, err := gue.NewClient(poolAdapter, gue.WithClientLogger(adapter.New(log.Logger)))
	if err != nil {
		log.Fatal("pgx adapter for gue", zap.Error(err))
	}

	database := db.NewDB(pool, log)
	store := storage.New(database, q)

	settler := settlement.New(store, settlement.NewLogRail(log.Logger), q, log.Logger, cfg.Settlement)
	engine := ledger.NewEngine(store, ledger.NewRefSource(), log.Logger)
	aggregator := analytics.New(store, log.Logger)
	checker := reconcile.New(store, log.Logger, cfg.Reconcile)

	runForever(
		log,
		func() { settler.Run(ctx) },
		func() { checker.Run(ctx) },
	)

	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: api.NewRouter(engine, aggregator, log.Logger),
	}

	go func() {
		log.Info("http server listening", zap.String("addr", cfg.HTTPAddr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("http listen and serve", zap.Error(err))
		}
	}()

	exit := make(chan os.Signal, 1)
	signal.Notify(exit, os.Interrupt, syscall.SIGTERM)
	<-exit

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("http shutdown", zap.Error(err))
	}
	log.Info("server has been stopped")
}

// runForever spawns goroutine for every f in ff. Each f is logged and restarted if panic occurs. It's non-blocking.
func runForever(log *logger.Logger, ff ...func()) {
	for i := range ff {
		f := ff[i]
		go func() {
			var pc panics.Catcher
			pc.Try(f)
			if err := pc.Recovered().AsError(); err != nil {
				log.Error("panic", zap.Error(err))
				time.Sleep(time.Minute)
				runForever(log, f)
			}
		}()
	}
}
