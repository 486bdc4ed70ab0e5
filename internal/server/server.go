// Package server assembles the reference remote authority: chi router,
// middleware chain, entity handlers and the storage backend.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/redis/go-redis/v9"

	"github.com/iudanet/offsync/internal/config"
	"github.com/iudanet/offsync/internal/server/handlers"
	"github.com/iudanet/offsync/internal/server/jwt"
	"github.com/iudanet/offsync/internal/server/middleware"
	"github.com/iudanet/offsync/internal/server/storage"
	"github.com/iudanet/offsync/internal/server/storage/postgres"
	"github.com/iudanet/offsync/internal/server/storage/sqlite"
)

const healthPath = "/api/v1/health"

// Server HTTP сервер с хранилищем сущностей
type Server struct {
	logger   *slog.Logger
	storage  storage.Storage
	tokens   *jwt.Service
	limiter  middleware.Limiter
	redis    *redis.Client
	http     *http.Server
	listener net.Listener
	cfg      config.ServerConfig
}

// OpenStorage открывает хранилище согласно storage_driver
func OpenStorage(ctx context.Context, cfg config.ServerConfig) (storage.Storage, error) {
	switch cfg.StorageDriver {
	case config.DriverSQLite:
		s, err := sqlite.New(ctx, cfg.StorageDSN)
		if err != nil {
			return nil, err
		}
		return s, nil
	case config.DriverPostgres:
		s, err := postgres.New(ctx, cfg.StorageDSN)
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.StorageDriver)
	}
}

// New собирает сервер. Хранилище передается снаружи и закрывается в Shutdown.
func New(ctx context.Context, cfg config.ServerConfig, store storage.Storage, logger *slog.Logger) (*Server, error) {
	s := &Server{
		cfg:     cfg,
		storage: store,
		logger:  logger,
	}

	if cfg.JWTSecret != "" {
		tokens, err := jwt.NewService(cfg.JWTSecret, cfg.JWTTTL)
		if err != nil {
			return nil, fmt.Errorf("failed to init jwt: %w", err)
		}
		s.tokens = tokens
	}

	if cfg.RateLimit > 0 {
		if cfg.RedisURL != "" {
			client, err := middleware.NewRedisClient(ctx, cfg.RedisURL)
			if err != nil {
				return nil, err
			}
			s.redis = client
			s.limiter = middleware.NewRedisRateLimiter(client, cfg.RateLimit, cfg.RateWindow)
		} else {
			s.limiter = middleware.NewRateLimiter(cfg.RateLimit, cfg.RateWindow)
		}
	}

	s.http = &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           s.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	return s, nil
}

// Routes строит роутер со всеми middleware
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(middleware.LoggingWithSkip(s.logger, []string{healthPath}))
	r.Use(middleware.RecoveryMiddleware(s.logger))
	if s.limiter != nil {
		r.Use(middleware.RateLimitMiddleware(s.limiter, s.logger))
	}

	health := handlers.NewHealthHandler(s.logger, s.storage)
	entities := handlers.NewEntityHandler(s.logger, s.storage)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", health.Health)

		r.Group(func(r chi.Router) {
			if s.tokens != nil {
				r.Use(middleware.AuthMiddleware(s.logger, s.tokens))
			}
			entities.Routes(r)
		})
	})

	return r
}

// Start начинает принимать соединения (не блокирует)
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.cfg.ListenAddr)
	if err != nil {
		return fmt.Errorf("listen: %w", err)
	}
	s.listener = ln

	go func() {
		if err := s.http.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("HTTP server failed", "error", err)
		}
	}()

	s.logger.Info("Server started", "addr", ln.Addr().String(), "storage", s.cfg.StorageDriver, "auth", s.tokens != nil)
	return nil
}

// Addr returns the bound listen address, useful with ":0"
func (s *Server) Addr() string {
	if s.listener == nil {
		return s.cfg.ListenAddr
	}
	return s.listener.Addr().String()
}

// Shutdown останавливает HTTP сервер и освобождает ресурсы
func (s *Server) Shutdown(ctx context.Context) error {
	err := s.http.Shutdown(ctx)

	if rl, ok := s.limiter.(*middleware.RateLimiter); ok {
		rl.Stop()
	}
	if s.redis != nil {
		if cerr := s.redis.Close(); cerr != nil {
			s.logger.Error("Failed to close redis client", "error", cerr)
		}
	}
	if cerr := s.storage.Close(); cerr != nil && err == nil {
		err = cerr
	}
	return err
}
