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

	"taskzone/internal/api"
	"taskzone/internal/app/service"
	"taskzone/internal/common/security"
	"taskzone/internal/domain/repository"
	"taskzone/internal/platform/cache"
	"taskzone/internal/platform/config"
	"taskzone/internal/platform/database"
	"taskzone/internal/platform/logger"

	"go.uber.org/zap"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	ctx := context.Background()

	// 1. Load Configuration
	cfg, dotenv, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// 2. Initialize Logger
	log, err := logger.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return err
	}
	zap.ReplaceGlobals(log)
	defer func() {
		_ = log.Sync()
	}()
	if !dotenv {
		log.Info("no .env file found, relying on environment variables")
	}

	// 3. Initialize Token Service and Password Hasher
	tokens, err := security.NewTokenService(cfg.Token())
	if err != nil {
		return fmt.Errorf("init token service: %w", err)
	}
	hasher := security.NewPasswordHasher(cfg.BcryptCost)

	// 4. Initialize Storage
	var (
		userRepo repository.UserRepository
		taskRepo repository.TaskRepository
		pinger   service.Pinger
	)
	switch cfg.Storage {
	case config.StorageMemory:
		store := repository.NewMemoryStore()
		userRepo, taskRepo, pinger = store.Users(), store.Tasks(), store
		log.Warn("using in-memory storage, data is lost on restart")
	default:
		db, err := database.Connect(ctx, cfg.DSN(), cfg.Pool())
		if err != nil {
			return err
		}
		defer db.Close()
		if err := database.Migrate(ctx, db.DB); err != nil {
			return err
		}
		userRepo, taskRepo, pinger = repository.NewPgUserRepository(db), repository.NewPgTaskRepository(db), db
		log.Info("database connected", zap.String("host", cfg.DBHost), zap.String("name", cfg.DBName))
	}

	// 5. Initialize Redis page cache (optional)
	userOpts := []service.UserServiceOption{service.WithMaxPageSize(cfg.UsersMaxPageSize)}
	if cfg.RedisAddr != "" {
		rdb, err := cache.Connect(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			return err
		}
		defer rdb.Close()
		userOpts = append(userOpts, service.WithUserPageCache(cache.NewUserPageCache(rdb, cfg.UsersCacheTTL, log)))
		log.Info("redis connected", zap.String("addr", cfg.RedisAddr))
	}

	// 6. Initialize Services
	services := api.Services{
		Auth:     service.NewAuthService(userRepo, hasher, tokens, log),
		Users:    service.NewUserService(userRepo, hasher, log, userOpts...),
		Tasks:    service.NewTaskService(taskRepo, log),
		Health:   service.NewHealthService(pinger),
		Identity: service.NewIdentityResolver(tokens, userRepo, log),
	}

	// 7. Initialize Router & HTTP Server
	router := api.NewRouter(log, services, cfg.RequestTimeout)

	server := &http.Server{
		Addr:         ":" + cfg.APIPort,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: cfg.RequestTimeout + 5*time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// 8. Graceful Shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	serverErr := make(chan error, 1)
	go func() {
		log.Info("server starting", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case err := <-serverErr:
		return fmt.Errorf("could not listen on %s: %w", server.Addr, err)
	case <-stop:
	}

	log.Info("shutting down server")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	log.Info("server stopped gracefully")
	return nil
}
