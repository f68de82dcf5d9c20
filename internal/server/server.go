package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/0knotok/cloud-demo-throttling/internal/config"
	"github.com/0knotok/cloud-demo-throttling/internal/database"
	"github.com/0knotok/cloud-demo-throttling/internal/handler"
	"github.com/0knotok/cloud-demo-throttling/internal/middleware"
	"github.com/0knotok/cloud-demo-throttling/internal/ratelimit"
	"github.com/0knotok/cloud-demo-throttling/internal/repository"
	"github.com/0knotok/cloud-demo-throttling/internal/service"
)

type Server struct {
	httpServer *http.Server
	cfg        *config.Config
	log        *zap.Logger

	mongo       *mongo.Client
	redis       *redis.Client
	stopJanitor context.CancelFunc
}

func New(ctx context.Context, cfg *config.Config, log *zap.Logger) (*Server, error) {
	s3Repo, err := repository.NewS3Repository(ctx, &cfg.S3, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create S3 repository: %w", err)
	}
	if cfg.S3.EnsureBucket {
		if err := s3Repo.EnsureBucket(ctx); err != nil {
			return nil, fmt.Errorf("failed to ensure bucket: %w", err)
		}
	}

	mongoClient, err := database.Connect(ctx, cfg.Mongo.URI)
	if err != nil {
		return nil, err
	}
	log.Info("Connected to MongoDB", zap.String("database", cfg.Mongo.Database))

	// Коллекция и индекс offers_id
	coll := mongoClient.Database(cfg.Mongo.Database).Collection(cfg.Mongo.Collection)
	if err := database.EnsureOfferIndexes(ctx, coll, cfg.App.UniqueOfferID, log); err != nil {
		// без уникального индекса дубликаты offers_id прошли бы молча
		if cfg.App.UniqueOfferID {
			_ = mongoClient.Disconnect(context.Background())
			return nil, err
		}
		log.Warn("Offer index not created", zap.Error(err))
	}

	server := &Server{
		cfg:   cfg,
		log:   log,
		mongo: mongoClient,
	}

	// Хранилище счетчиков rate limit
	store, err := server.limiterStore(ctx)
	if err != nil {
		_ = mongoClient.Disconnect(context.Background())
		return nil, err
	}
	limiter := ratelimit.New(store, log)

	images := service.NewImageService(s3Repo, &cfg.App, log)
	offers := service.NewOfferService(repository.NewOfferRepository(coll, log), images, &cfg.App, log)
	ping := func(ctx context.Context) error { return database.Ping(ctx, mongoClient) }
	h := handler.NewHandler(images, offers, ping, &cfg.App, log)

	gin.SetMode(gin.ReleaseMode)
	router, err := NewRouter(h, limiter, cfg, log)
	if err != nil {
		_ = server.close(context.Background())
		return nil, err
	}

	server.httpServer = &http.Server{
		Addr:              cfg.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		MaxHeaderBytes:    1 << 20, // 1 MB
	}

	log.Info("Server created successfully",
		zap.String("host", cfg.Server.Host),
		zap.String("port", cfg.Server.Port),
		zap.String("rate_limit_backend", cfg.RateLimit.Backend))

	return server, nil
}

func NewRouter(h *handler.Handler, limiter *ratelimit.Limiter, cfg *config.Config, log *zap.Logger) (*gin.Engine, error) {
	router := gin.New()
	router.Use(middleware.Recovery(log), middleware.Logging(log))

	if err := router.SetTrustedProxies(cfg.Server.TrustedProxies); err != nil {
		return nil, fmt.Errorf("invalid trusted proxies: %w", err)
	}
	// всё, что больше, multipart пишет во временные файлы
	router.MaxMultipartMemory = cfg.App.MaxUploadSize

	h.RegisterRoutes(router,
		ratelimit.Middleware(limiter, ratelimit.UploadBucket(cfg.RateLimit.UploadMax, cfg.RateLimit.Window)),
		ratelimit.Middleware(limiter, ratelimit.OfferCreateBucket(cfg.RateLimit.CreateMax, cfg.RateLimit.Window)),
	)

	return router, nil
}

func (s *Server) limiterStore(ctx context.Context) (ratelimit.Store, error) {
	if s.cfg.RateLimit.Backend == config.BackendRedis {
		rdb := redis.NewClient(&redis.Options{
			Addr:     s.cfg.Redis.Addr,
			Password: s.cfg.Redis.Password,
			DB:       s.cfg.Redis.DB,
		})
		pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
		defer cancel()
		if err := rdb.Ping(pingCtx).Err(); err != nil {
			_ = rdb.Close()
			return nil, fmt.Errorf("ping redis: %w", err)
		}
		s.redis = rdb
		s.log.Info("Rate limiter uses Redis", zap.String("addr", s.cfg.Redis.Addr))
		return ratelimit.NewRedisStore(rdb), nil
	}

	store := ratelimit.NewMemoryStore(ratelimit.WithCleanupEvery(s.cfg.RateLimit.Window))
	janitorCtx, cancel := context.WithCancel(context.Background())
	store.StartJanitor(janitorCtx)
	s.stopJanitor = cancel
	return store, nil
}

func (s *Server) Run() error {
	s.log.Info("Server is running",
		zap.String("host", s.cfg.Server.Host),
		zap.String("port", s.cfg.Server.Port),
		zap.String("address", s.httpServer.Addr))

	return s.httpServer.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info("Shutting down server")
	err := s.httpServer.Shutdown(ctx)
	return errors.Join(err, s.close(ctx))
}

func (s *Server) close(ctx context.Context) error {
	var errs []error
	if s.stopJanitor != nil {
		s.stopJanitor()
	}
	if s.redis != nil {
		if err := s.redis.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close redis: %w", err))
		}
	}
	if s.mongo != nil {
		if err := s.mongo.Disconnect(ctx); err != nil {
			errs = append(errs, fmt.Errorf("disconnect mongodb: %w", err))
		}
	}
	return errors.Join(errs...)
}
