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

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/AngelCh415/lpd-dashboard/internal/config"
	"github.com/AngelCh415/lpd-dashboard/internal/dates"
	"github.com/AngelCh415/lpd-dashboard/internal/httpx"
	"github.com/AngelCh415/lpd-dashboard/internal/ingest"
	"github.com/AngelCh415/lpd-dashboard/internal/metrics"
	"github.com/AngelCh415/lpd-dashboard/internal/monitoring"
	"github.com/AngelCh415/lpd-dashboard/internal/scrape"
	"github.com/AngelCh415/lpd-dashboard/internal/store"
)

func main() {
	cfg := config.FromEnv()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(logger)

	file, err := config.LoadFile(cfg.ConfigFile)
	if err != nil {
		logger.Error("config file", slog.String("file", cfg.ConfigFile), slog.String("err", err.Error()))
		os.Exit(1)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	mon := monitoring.New(reg)

	cl := store.NewHTTPClient(cfg.HTTPTimeout)
	st, err := store.Open(cfg.Store, store.Options{
		SQLitePath: cfg.SQLitePath,
		CSVDir:     cfg.CSVDir,
		SheetURLs:  cfg.SheetURLs,
		Client:     cl,
	})
	if err != nil {
		logger.Error("open store", slog.String("store", cfg.Store), slog.String("err", err.Error()))
		os.Exit(1)
	}
	if c, ok := st.(interface{ Close() error }); ok {
		defer c.Close()
	}

	weights := ingest.DefaultPlatformWeights().Merge(file.Weights)
	etl := ingest.NewETL(st, dates.New(time.Now), logger, mon, weights)
	mSvc := metrics.NewService(etl, file.LagWindow)
	runner := scrape.NewRunner(file.Scrapers, cfg.ScraperTimeout, logger, mon)

	r := httpx.NewRouter(httpx.Deps{
		Log:      logger,
		Mon:      mon,
		Gatherer: reg,
		Service:  mSvc,
		Runner:   runner,
		Exporter: metrics.NewExporter(cl, cfg.SinkURL, cfg.SinkSecret),
		Secret:   cfg.DashboardSecret,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go func() {
		<-ctx.Done()
		shutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdown)
	}()

	logger.Info("starting server", slog.String("port", cfg.Port), slog.String("store", cfg.Store),
		slog.Any("scrapers", runner.Names()))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("server error", slog.String("err", err.Error()))
		os.Exit(1)
	}
}
