package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"campus-event-portal/config"
	"campus-event-portal/internal/auth"
	"campus-event-portal/internal/cache"
	"campus-event-portal/internal/database"
	"campus-event-portal/internal/handler"
	"campus-event-portal/internal/imagestore"
	"campus-event-portal/internal/model"
	"campus-event-portal/internal/queue"
	"campus-event-portal/internal/repository"
	"campus-event-portal/internal/service"
	"campus-event-portal/internal/worker"
	"campus-event-portal/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	shutdownTimeout = 10 * time.Second
	workerCount     = 4
)

func main() {
	defer logger.L.Sync()
	log := logger.WithComponent("main")

	cfg := config.LoadConfig()
	if os.Getenv("GIN_MODE") == "" {
		gin.SetMode(gin.ReleaseMode)
	}
	if cfg.Auth.UsesDevSecret() {
		if gin.Mode() != gin.DebugMode {
			log.Fatal("AUTH_JWT_SECRET is not set, refusing to start outside GIN_MODE=debug")
		}
		log.Warn("AUTH_JWT_SECRET is not set, using the development secret")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	eventRepo, registrationRepo, closeStore, err := initStore(ctx, cfg)
	if err != nil {
		log.Fatal("Failed to initialize store", zap.String("driver", cfg.Store.Driver), zap.Error(err))
	}
	defer closeStore()

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		log.Fatal("Failed to initialize redis", zap.Error(err))
	}
	defer rdb.Close()

	registrationQueue, err := initQueue(ctx, cfg, rdb)
	if err != nil {
		log.Fatal("Failed to initialize queue", zap.String("driver", cfg.Queue.Driver), zap.Error(err))
	}

	var images imagestore.ImageStore
	if cfg.Cloudinary.Enabled() {
		images, err = imagestore.NewCloudinaryImageStore(cfg.Cloudinary)
		if err != nil {
			log.Fatal("Failed to initialize image store", zap.Error(err))
		}
	} else {
		log.Warn("Cloudinary is not configured, image upload disabled")
	}

	resolver := model.NewStatusResolver(model.ParseMissingRegistrationPolicy(cfg.Registration.MissingRegistration))
	orphanPolicy := model.ParseOrphanPolicy(cfg.Registration.OrphanPolicy)
	registrationCache := cache.NewRegistrationCache()
	stats := cache.NewRedisRegistrationStats(rdb)

	eventService := service.NewEventService(eventRepo, registrationRepo, registrationCache, stats, images, resolver, orphanPolicy)
	registrationService := service.NewRegistrationService(eventRepo, registrationRepo, registrationCache, registrationQueue, stats, resolver, orphanPolicy)

	registrationWorker := worker.NewRegistrationWorker(registrationService, registrationQueue, workerCount)
	if err := registrationWorker.Start(ctx); err != nil {
		log.Fatal("Failed to start registration worker", zap.Error(err))
	}

	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.Issuer, 0)
	router := handler.NewRouter(cfg.Server.AllowedOrigins, tokens,
		handler.NewEventHandler(eventService),
		handler.NewRegistrationHandler(registrationService),
		handler.NewAdminHandler(eventService, registrationService),
	)

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Info("Server listening",
			zap.String("addr", srv.Addr),
			zap.String("store", cfg.Store.Driver),
			zap.String("queue", cfg.Queue.Driver),
			zap.String("orphan_policy", string(orphanPolicy)),
			zap.String("missing_registration", string(resolver.MissingRegistration)),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server shutdown failed", zap.Error(err))
	}
	registrationWorker.Wait()
}

// initStore 依 STORE_DRIVER 建立 repository，回傳的 close 負責釋放連線
func initStore(ctx context.Context, cfg *config.Config) (repository.EventRepository, repository.RegistrationRepository, func(), error) {
	switch cfg.Store.Driver {
	case "mongo":
		client, db, err := database.InitMongo(&cfg.Mongo)
		if err != nil {
			return nil, nil, nil, err
		}
		closeFn := func() { _ = client.Disconnect(context.Background()) }
		if err := database.EnsureMongoIndexes(ctx, db); err != nil {
			closeFn()
			return nil, nil, nil, err
		}
		return repository.NewMongoEventRepository(db), repository.NewMongoRegistrationRepository(db), closeFn, nil
	case "postgres", "":
		pool, err := database.InitDatabase(&cfg.Database)
		if err != nil {
			return nil, nil, nil, err
		}
		if err := database.EnsureSchema(ctx, pool); err != nil {
			pool.Close()
			return nil, nil, nil, err
		}
		return repository.NewEventRepository(pool), repository.NewRegistrationRepository(pool), pool.Close, nil
	default:
		return nil, nil, nil, errors.New("unknown store driver: " + cfg.Store.Driver)
	}
}

func initQueue(ctx context.Context, cfg *config.Config, rdb *redis.Client) (queue.RegistrationQueue, error) {
	if cfg.Queue.Driver == "memory" {
		return queue.NewMemoryRegistrationQueue(cfg.Queue.BufferSize), nil
	}
	return queue.NewRedisStreamRegistrationQueue(ctx, rdb, cfg.Queue.ConsumerID, &queue.RedisStreamConfig{
		ClaimMinIdleTime:   cfg.Queue.ClaimMinIdleTime,
		MaxRetryCount:      cfg.Queue.MaxRetryCount,
		ReadGroupBlockTime: cfg.Queue.ReadGroupBlockTime,
	})
}
