// Package server boots the HTTP stack: config, MongoDB, redis, object
// storage, the websocket hub and the router, then runs until SIGINT or
// SIGTERM with a graceful drain.
package server

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/shashiranjanraj/dukaan/app/jobs"
	"github.com/shashiranjanraj/dukaan/app/routes"
	"github.com/shashiranjanraj/dukaan/app/tasks"
	"github.com/shashiranjanraj/dukaan/config"
	"github.com/shashiranjanraj/dukaan/database/migrations"
	"github.com/shashiranjanraj/dukaan/pkg/cache"
	"github.com/shashiranjanraj/dukaan/pkg/logger"
	"github.com/shashiranjanraj/dukaan/pkg/metrics"
	"github.com/shashiranjanraj/dukaan/pkg/middleware"
	"github.com/shashiranjanraj/dukaan/pkg/mongodb"
	"github.com/shashiranjanraj/dukaan/pkg/queue"
	"github.com/shashiranjanraj/dukaan/pkg/reqid"
	"github.com/shashiranjanraj/dukaan/pkg/response"
	"github.com/shashiranjanraj/dukaan/pkg/router"
	"github.com/shashiranjanraj/dukaan/pkg/schedule"
	"github.com/shashiranjanraj/dukaan/pkg/storage"
	"github.com/shashiranjanraj/dukaan/pkg/ws"
)

const shutdownGrace = 15 * time.Second

func Start() error {
	if err := config.Load(); err != nil {
		return err
	}

	ctx := context.Background()

	client, err := mongodb.Connect(ctx)
	if err != nil {
		return err
	}
	defer mongodb.Disconnect(client)
	db := mongodb.Database(client)

	if err := migrations.EnsureIndexes(ctx, db); err != nil {
		return err
	}

	// Redis is best-effort: the product cache degrades to direct reads
	// and the queue to its in-memory driver when it is unreachable.
	if err := cache.Connect(ctx); err != nil {
		logger.L.Warn("redis unavailable, caching disabled", "error", err)
	}

	storage.Connect()

	workerCtx, stopWorkers := context.WithCancel(ctx)
	defer stopWorkers()

	jobs.RegisterAll()
	if rdb := cache.Client(); rdb != nil {
		queue.SetDriver(queue.NewRedisDriver(rdb))
	}
	queue.UseDB(db)
	queue.StartWorkers(workerCtx, 4)

	tasks.RegisterScheduled(db)
	schedule.Start(workerCtx)

	hub := ws.NewHub()
	go hub.Run()

	r := router.New()
	r.Use(
		metrics.Middleware(),
		reqid.Middleware(),
		middleware.Recovery,
		middleware.Logger,
		middleware.CORS(middleware.DefaultCORSOptions()),
		middleware.RateLimit(300, time.Minute),
		middleware.Timeout(config.RequestTimeout()),
	)

	routes.RegisterAPI(r, db, hub)

	r.Static("/uploads", storage.LocalRoot()+"/uploads")
	r.Handle(http.MethodGet, "/metrics", metrics.Handler())
	r.Get("/health", "health", func(w http.ResponseWriter, _ *http.Request) {
		response.Success(w, map[string]string{"status": "ok"})
	})

	srv := &http.Server{
		Addr:              ":" + config.AppPort(),
		Handler:           r.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.L.Info("server listening", "addr", srv.Addr, "env", config.AppEnv())
		errCh <- srv.ListenAndServe()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case sig := <-stop:
		logger.L.Info("shutting down", "signal", sig.String())
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, shutdownGrace)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
