package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/cors"
	"go.uber.org/zap"

	"tastytrail/api"
	"tastytrail/config"
	"tastytrail/db"
	"tastytrail/logging"
	"tastytrail/middleware"
	"tastytrail/printout"
	"tastytrail/ratelim"
	"tastytrail/rdx"
	"tastytrail/routes"
	"tastytrail/session"
	"tastytrail/views"
)

// openStore connects the configured session backend.
func openStore(ctx context.Context, cfg *config.Config, logger *zap.Logger) (session.Store, error) {
	switch cfg.SessionStore {
	case config.StoreRedis:
		client, err := rdx.Connect(ctx, cfg.RedisURL, cfg.RedisPassword)
		if err != nil {
			return nil, err
		}
		logger.Info("session store: redis")
		return session.NewRedisStore(client), nil

	case config.StoreMongo:
		client, err := db.Connect(ctx, cfg.MongoURI)
		if err != nil {
			return nil, err
		}
		store, err := session.NewMongoStore(ctx, db.Sessions(client, cfg.MongoDatabase))
		if err != nil {
			_ = client.Disconnect(ctx)
			return nil, err
		}
		logger.Info("session store: mongo", zap.String("database", cfg.MongoDatabase))
		return store, nil

	default:
		store := session.NewMemoryStore()
		go store.RunSweeper(ctx, 10*time.Minute)
		logger.Info("session store: memory")
		return store, nil
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return err
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := openStore(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("open session store: %w", err)
	}

	renderer, err := views.NewRenderer()
	if err != nil {
		return err
	}

	sessions := session.NewManager(store, cfg.SessionTTL, cfg.CookieSecure)
	deps := &views.Deps{
		API:      api.NewClient(cfg.BackendURL, nil, cfg.BackendTimeout, logger),
		Sessions: sessions,
		Views:    renderer,
		Logger:   logger,
	}
	guard := &middleware.Guard{Sessions: sessions, Logger: logger}

	limiter := ratelim.NewRateLimiter(cfg.AuthRateLimit, cfg.AuthRateBurst)
	go limiter.RunSweeper(ctx, time.Minute)

	router := routes.Setup(routes.Options{
		Deps:        deps,
		Guard:       guard,
		RateLimiter: limiter,
		PublicURL:   cfg.PublicBaseURL,
		Photos:      printout.NewPhotoClient(cfg.BackendTimeout),
	})

	// request log → security headers → CORS → router (sessions inside)
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "X-CSRF-Token"},
		AllowCredentials: true,
	}).Handler(router)

	handler := logging.Middleware(logger, middleware.SecurityHeaders(corsHandler))

	server := &http.Server{
		Addr:              cfg.Port,
		Handler:           handler,
		ReadTimeout:       7 * time.Second,
		WriteTimeout:      cfg.BackendTimeout*3 + 5*time.Second,
		IdleTimeout:       120 * time.Second,
		ReadHeaderTimeout: 2 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", zap.String("addr", cfg.Port), zap.String("backend", cfg.BackendURL))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		closeStore(store, logger)
		return err
	case <-ctx.Done():
	}

	logger.Info("shutdown signal received; shutting down gracefully")
	if err := shutdown(server, store, logger); err != nil {
		return err
	}
	logger.Info("server stopped cleanly")
	return nil
}

// shutdown drains the server and only then closes the session store, so no
// in-flight request loses its store.
func shutdown(server *http.Server, store session.Store, logger *zap.Logger) error {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	err := server.Shutdown(shutdownCtx)
	closeStore(store, logger)
	if err != nil {
		return fmt.Errorf("graceful shutdown: %w", err)
	}
	return nil
}

func closeStore(store session.Store, logger *zap.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := store.Close(ctx); err != nil {
		logger.Warn("close session store", zap.Error(err))
	}
}

func main() {
	if err := run(); err != nil {
		log.Fatalf("tastytrail: %v", err)
	}
}
