package app

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/alexedwards/argon2id"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/adanyl0v/task-tracker/internal/config"
	"github.com/adanyl0v/task-tracker/internal/delivery/http/v1"
	"github.com/adanyl0v/task-tracker/internal/services"
)

func MustListenAndServeHTTP(pool *pgxpool.Pool) {
	cfg := config.Global()
	httpCfg := cfg.HTTP

	router := gin.New()
	v1.Register(router, newV1Handler(cfg, pool))

	server := &http.Server{
		Addr:    net.JoinHostPort(httpCfg.Host, httpCfg.Port),
		Handler: router,
	}

	go func() {
		globalLogger.Info().
			Str("host", httpCfg.Host).
			Str("port", httpCfg.Port).
			Msg("setting up http server")
		err := server.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			globalLogger.Error().
				Err(err).
				Msg("failed to listen and serve http")
			panic(err)
		}
	}()

	// kill (no params) by default sends syscall.SIGTERM
	// kill -2 is syscall.SIGINT
	// kill -9 is syscall.SIGKILL but can't be caught, so don't need to add it
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	globalLogger.Info().
		Msg("shutting down http server")

	ctx, cancel := context.WithTimeout(context.Background(), httpCfg.ShutdownTimeout)
	defer cancel()

	err := server.Shutdown(ctx)
	if err != nil {
		globalLogger.Error().
			Err(err).
			Msg("failed to shutdown http server")
		panic(err)
	}
	globalLogger.Info().Msg("shut down http server")
}

func newV1Handler(cfg *config.Config, pool *pgxpool.Pool) v1.Handler {
	hasher := services.NewPasswordHasher(argon2id.DefaultParams)
	tokens := services.NewTokenManager(cfg.JWT.Issuer, []byte(cfg.JWT.Secret), cfg.JWT.TTL)

	userService := services.NewUserService(globalLogger, pool, hasher)
	taskService := services.NewTaskService(globalLogger, pool)
	authService := services.NewAuthService(globalLogger, userService, hasher, tokens)

	return v1.New(
		globalLogger,
		pool,
		authService,
		userService,
		taskService,
		cfg.Env != config.EnvProd,
	)
}
