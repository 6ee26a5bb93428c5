package main

import (
	"context"
	"log"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	apiHandler "github.com/fastygo/teamups/api/handler"
	"github.com/fastygo/teamups/internal/classifier"
	"github.com/fastygo/teamups/internal/config"
	"github.com/fastygo/teamups/internal/infrastructure/monitor"
	"github.com/fastygo/teamups/internal/infrastructure/outbox"
	pgInfra "github.com/fastygo/teamups/internal/infrastructure/postgres"
	redisInfra "github.com/fastygo/teamups/internal/infrastructure/redis"
	"github.com/fastygo/teamups/internal/middleware"
	"github.com/fastygo/teamups/internal/router"
	"github.com/fastygo/teamups/internal/services"
	"github.com/fastygo/teamups/internal/services/lifecycle"
	"github.com/fastygo/teamups/pkg/httpcontext"
	"github.com/fastygo/teamups/pkg/logger"
	"github.com/fastygo/teamups/repository"
	"github.com/fastygo/teamups/repository/boltdb"
	"github.com/fastygo/teamups/repository/postgres"
	"github.com/fastygo/teamups/usecase"
	invitationUC "github.com/fastygo/teamups/usecase/invitation"
	notificationUC "github.com/fastygo/teamups/usecase/notification"
	taskUC "github.com/fastygo/teamups/usecase/task"
	teamUC "github.com/fastygo/teamups/usecase/team"
	userUC "github.com/fastygo/teamups/usecase/user"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	zapLogger, err := logger.New(logger.Config{
		Level:    cfg.Logger.Level,
		Encoding: cfg.Logger.Encoding,
	})
	if err != nil {
		log.Fatalf("logger error: %v", err)
	}
	defer zapLogger.Sync()

	appCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	manager := lifecycle.New(cfg.Context.ShutdownTimeout, zapLogger)
	manager.Listen(cancel)

	store, ping := openStore(appCtx, cfg, zapLogger)
	manager.RegisterCloser("storage", store)

	redisClient, err := redisInfra.NewClient(appCtx, cfg.Redis, zapLogger)
	if err != nil {
		zapLogger.Fatal("redis configuration invalid", zap.Error(err))
	}
	manager.RegisterCloser("redis", redisClient)

	outboxStore, err := outbox.Open(cfg.Outbox.Path)
	if err != nil {
		zapLogger.Fatal("failed to open outbox", zap.Error(err))
	}
	manager.RegisterCloser("outbox", outboxStore)

	mon := monitor.New(monitor.Checks{
		Storage: ping,
		Redis:   func(ctx context.Context) error { return redisClient.Ping(ctx).Err() },
		Outbox:  outboxStore,
	}, 10*time.Second, zapLogger)
	mon.Start()
	manager.Register("monitor", func(ctx context.Context) error {
		mon.Stop()
		return nil
	})

	publisher := services.NewRedisPublisher(redisClient, outboxStore, mon, cfg.Outbox.ChannelPrefix, zapLogger)
	relay := services.NewRelay(outboxStore, publisher, mon, zapLogger, services.RelayConfig{
		Interval:   cfg.Outbox.SyncInterval,
		BatchSize:  cfg.Outbox.BatchSize,
		MaxRetries: cfg.Outbox.MaxRetry,
	})
	relay.Start()
	manager.Register("outbox_relay", func(ctx context.Context) error {
		relay.Stop(ctx)
		return nil
	})

	notifier := usecase.NewNotifier(publisher, zapLogger)

	userUseCase := userUC.New(store, notifier, classifier.New(nil, ""), zapLogger)
	teamUseCase := teamUC.New(store, notifier, cfg.Teams.DefaultMaxMembers, zapLogger)
	invitationUseCase := invitationUC.New(store, notifier, zapLogger)
	taskUseCase := taskUC.New(store, notifier, zapLogger)
	notificationUseCase := notificationUC.New(store, zapLogger)

	ctxAdapter := httpcontext.NewAdapter(cfg.Context.RequestTimeout)

	handlers := router.Handlers{
		User:         apiHandler.NewUserHandler(userUseCase, ctxAdapter, zapLogger),
		Team:         apiHandler.NewTeamHandler(teamUseCase, invitationUseCase, ctxAdapter, zapLogger),
		Invitation:   apiHandler.NewInvitationHandler(invitationUseCase, ctxAdapter, zapLogger),
		Task:         apiHandler.NewTaskHandler(taskUseCase, ctxAdapter, zapLogger),
		Notification: apiHandler.NewNotificationHandler(notificationUseCase, ctxAdapter, zapLogger),
		Health:       apiHandler.NewHealthHandler(mon, ctxAdapter, zapLogger),
	}

	authMiddleware := middleware.JWTAuth(cfg.JWT.Secret, cfg.JWT.Issuer, zapLogger)
	r := router.New(handlers, authMiddleware, router.Options{EnablePprof: cfg.HTTP.EnablePprof})

	server := &fasthttp.Server{
		Handler:      r.Handler,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
		Concurrency:  cfg.HTTP.MaxConn,
		Name:         cfg.AppName,
	}

	go func() {
		zapLogger.Info("server started",
			zap.String("address", cfg.Address()),
			zap.String("storage", cfg.Storage.Driver))
		if err := server.ListenAndServe(cfg.Address()); err != nil {
			zapLogger.Fatal("server crashed", zap.Error(err))
		}
	}()

	manager.Register("http_server", func(ctx context.Context) error {
		return server.ShutdownWithContext(ctx)
	})

	<-appCtx.Done()

	if err := manager.Shutdown(context.Background()); err != nil {
		zapLogger.Error("graceful shutdown error", zap.Error(err))
	}
}

// openStore builds the configured transactional store and a liveness probe for it.
func openStore(ctx context.Context, cfg *config.Config, zapLogger *zap.Logger) (repository.Store, monitor.Pinger) {
	switch cfg.Storage.Driver {
	case config.StorageDriverBolt:
		store, err := boltdb.Open(cfg.Storage.BoltPath)
		if err != nil {
			zapLogger.Fatal("failed to open bolt store", zap.Error(err))
		}
		zapLogger.Info("using embedded bolt store", zap.String("path", cfg.Storage.BoltPath))
		ping := func(ctx context.Context) error {
			return store.View(ctx, func(context.Context, repository.Repositories) error { return nil })
		}
		return store, ping
	default:
		if err := pgInfra.RunMigrations(cfg, zapLogger); err != nil {
			zapLogger.Fatal("migrations failed", zap.Error(err))
		}
		pool, err := pgInfra.NewPool(ctx, cfg.Database, zapLogger)
		if err != nil {
			zapLogger.Fatal("postgres connection failed", zap.Error(err))
		}
		return postgres.NewStore(pool, zapLogger), pool.Ping
	}
}
