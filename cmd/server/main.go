// Package main - HTTP-сервер для работы с лабораторными приборами.
package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/momentics/gobench/internal/sink"
	"github.com/momentics/gobench/pkg/bench"
	"github.com/momentics/gobench/pkg/logger"
)

func main() {
	configPath := flag.String("config", "gobench.yaml", "path to the YAML configuration")
	flag.Parse()

	cfg, err := LoadConfig(*configPath)
	if err != nil {
		logger.Error("config", "path", *configPath, "error", err)
		os.Exit(1)
	}
	log := logger.NewSlog(logger.ParseLevel(cfg.Log.Level), cfg.Log.Source)
	logger.SetLogger(log)

	pool := bench.NewPool([]bench.Option{bench.WithTimeout(cfg.Timeout), bench.WithLogger(log)})
	defer pool.CloseAll()

	srv := &server{cfg: cfg, pool: pool, log: log, now: time.Now}
	if cfg.Redis != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		rs, err := sink.NewRedis(ctx, *cfg.Redis, log)
		cancel()
		if err != nil {
			log.Error("redis sink disabled", "error", err)
		} else {
			defer rs.Close()
			srv.sink = rs
		}
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(acquisitionDuration, newSessionCollector(cfg, pool))

	mux := http.NewServeMux()
	srv.routes(mux)
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	httpServer := &http.Server{Addr: cfg.Listen, Handler: mux, ReadHeaderTimeout: 10 * time.Second}

	go func() {
		log.Info("server started", "listen", cfg.Listen, "instruments", len(cfg.Instruments))
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("http server", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("server stopping")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(ctx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
	}
	log.Info("server stopped")
}
