package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"pharmacy-be/internal/auth"
	"pharmacy-be/internal/catalog"
	"pharmacy-be/internal/config"
	"pharmacy-be/internal/db"
	"pharmacy-be/internal/handler"
	"pharmacy-be/internal/idempotency"
	"pharmacy-be/internal/logger"
	"pharmacy-be/internal/metrics"
	"pharmacy-be/internal/middleware"
	"pharmacy-be/internal/negotiation"
	"pharmacy-be/internal/notification"
	"pharmacy-be/internal/order"
	"pharmacy-be/internal/user"

	"github.com/gorilla/mux"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

type routerDeps struct {
	handler    *handler.Handler
	tokens     *auth.TokenManager
	limiter    *middleware.RateLimiter
	idem       idempotency.Store
	corsOrigin string
}

func setupRouter(deps routerDeps) *mux.Router {
	r := mux.NewRouter()

	r.Use(
		logger.RequestIDMiddleware,
		middleware.CORS(deps.corsOrigin),
		middleware.LoggingMiddleware,
		middleware.Metrics,
		middleware.Auth(deps.tokens),
		deps.limiter.Middleware,
	)

	r.Handle("/metrics", metrics.Handler()).Methods(http.MethodGet)

	var mutating []mux.MiddlewareFunc
	if deps.idem != nil {
		mutating = append(mutating, idempotency.Middleware(deps.idem, idempotency.DefaultTTL))
	}
	deps.handler.Register(r, mutating...)

	return r
}

func main() {
	cfg := config.LoadConfig()
	if err := logger.Init(logger.Options{Env: cfg.AppEnv, Level: cfg.LogLevel}); err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()
	log := logger.L()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	database := db.InitDB(cfg)
	defer database.Close()

	tokens := auth.NewTokenManager(cfg.JWTSecret, 0)
	tx := db.NewTransactor(database)

	orderRepo := order.NewRepository(database)
	catalogRepo := catalog.NewRepository(database)
	notificationRepo := notification.NewRepository(database)
	userRepo := user.NewRepository(database)

	orderSvc := order.NewService(orderRepo, catalogRepo)
	negotiationSvc := negotiation.NewService(tx, orderRepo, catalogRepo, notificationRepo)
	userSvc := user.NewService(userRepo, tokens)

	var idem idempotency.Store
	if cfg.RedisURL != "" {
		client, err := idempotency.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			log.Warn("redis unavailable, idempotency keys disabled", zap.Error(err))
		} else {
			defer client.Close()
			idem = idempotency.NewRedisStore(client)
		}
	}

	dispatcher := notification.NewDispatcher(tx, notificationRepo, notification.LogSender{}, cfg.NotifyBatch)
	scheduler := cron.New()
	if _, err := dispatcher.Schedule(scheduler, cfg.NotifySchedule); err != nil {
		log.Fatal("invalid notification schedule", zap.String("schedule", cfg.NotifySchedule), zap.Error(err))
	}

	limiter := middleware.NewRateLimiter(cfg.InternalSecretKey)
	router := setupRouter(routerDeps{
		handler:    handler.New(orderSvc, negotiationSvc, userSvc),
		tokens:     tokens,
		limiter:    limiter,
		idem:       idem,
		corsOrigin: cfg.CORSOrigin,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.AppPort,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info("server running", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		scheduler.Start()
		<-gctx.Done()
		<-scheduler.Stop().Done()
		return nil
	})

	g.Go(func() error {
		limiter.Cleanup(gctx)
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		log.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error("server stopped with error", zap.Error(err))
		os.Exit(1)
	}
}
