package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/stdlib"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/cadastrounificado/api/internal/auth"
	"github.com/cadastrounificado/api/internal/cadastro"
	"github.com/cadastrounificado/api/internal/config"
	"github.com/cadastrounificado/api/internal/db"
	internalhttp "github.com/cadastrounificado/api/internal/http"
	"github.com/cadastrounificado/api/internal/repo"
	"github.com/cadastrounificado/api/internal/service"
	"github.com/cadastrounificado/api/migrations"
)

func main() {
	if err := run(); err != nil {
		log.Fatal().Err(err).Msg("api encerrada com erro")
	}
}

func run() error {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339})

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	ctx := context.Background()

	pool, err := db.NewPool(ctx, cfg.DBDSN)
	if err != nil {
		return fmt.Errorf("db: %w", err)
	}
	defer pool.Close()

	if cfg.RunMigrations {
		sqlDB := stdlib.OpenDBFromPool(pool)
		if err := migrations.Migrate(sqlDB); err != nil {
			return err
		}
		if err := sqlDB.Close(); err != nil {
			return fmt.Errorf("migração: close: %w", err)
		}
	}

	redisOpts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return fmt.Errorf("redis parse: %w", err)
	}
	redisClient := redis.NewClient(redisOpts)
	defer redisClient.Close()

	repository := repo.New(pool)
	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.JWTAccessTTL)
	authService := service.NewAuthService(repository, redisClient, jwtManager, cfg.JWTRefreshTTL)
	cadastroRepo := cadastro.NewRepository(pool)

	if n, err := repository.DeleteExpiredRefreshTokens(ctx); err != nil {
		log.Warn().Err(err).Msg("limpeza de refresh tokens falhou")
	} else if n > 0 {
		log.Info().Int64("removidos", n).Msg("refresh tokens expirados removidos")
	}

	handler := internalhttp.NewRouter(cfg, pool, redisClient, authService, cadastroRepo)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: handler,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Msgf("API ouvindo em :%d", cfg.Port)
		errCh <- srv.ListenAndServe()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		log.Info().Str("signal", sig.String()).Msg("encerrando...")
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			return err
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
