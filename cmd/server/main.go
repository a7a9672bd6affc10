package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/exp/slog"

	"funkokeeper/internal/app/server/api"
	funkoAPI "funkokeeper/internal/app/server/api/tcp/funko"
	"funkokeeper/internal/app/server/api/tcp"
	"funkokeeper/internal/app/server/config"
	"funkokeeper/internal/domain/funko"
	"funkokeeper/internal/infrastructure/storage"
	"funkokeeper/internal/utils/logger"
)

const shutdownTimeout = 5 * time.Second

func main() {
	conf := config.MustLoad()

	log, err := logger.NewWithLevel(conf.Env, conf.Logger.LogLevel)
	if err != nil {
		log = logger.New(conf.Env)
		log.Warn("ignoring LOG_LEVEL", "error", err)
	}

	if err := run(conf, log); err != nil {
		log.Error("server stopped with error", "error", err)
		os.Exit(1)
	}
}

func run(conf *config.Config, log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := storage.Open(ctx, conf.StorageOptions(), log)
	if err != nil {
		return err
	}
	defer func() {
		if err := store.Close(); err != nil {
			log.Error("failed to close storage", "error", err)
		}
	}()
	log.Info("storage ready", "driver", conf.Storage.Driver)

	repo := storage.NewFunkoRepository(store, log)
	service := funko.NewService(repo, log)
	handler := funkoAPI.NewHandler(service, log)

	srv := tcp.NewServer(tcp.Config{
		ReadTimeout:     conf.Server.ReadTimeout,
		WriteTimeout:    conf.Server.WriteTimeout,
		MaxRequestBytes: conf.Server.MaxRequestBytes,
	}, handler, log)

	tcpErr := make(chan error, 1)
	go func() {
		tcpErr <- srv.ListenAndServe(ctx, conf.Server.RunAddress)
	}()

	var health *http.Server
	if conf.Server.HealthAddress != "" {
		health = &http.Server{
			Addr:              conf.Server.HealthAddress,
			Handler:           api.New(srv, log),
			ReadHeaderTimeout: 5 * time.Second,
		}
		go func() {
			log.Info("health API listening", "addr", conf.Server.HealthAddress)
			if err := health.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Error("health API failed", "error", err)
				stop()
			}
		}()
	}

	// Serve returns once ctx is done and every connection has finished.
	err = <-tcpErr
	stop()
	log.Info("shutting down")

	if health != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := health.Shutdown(shutdownCtx); err != nil {
			log.Error("failed to stop health API", "error", err)
		}
	}

	return err
}
