package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/lyceumd/lyceumd/internal/app"
	"github.com/lyceumd/lyceumd/internal/authhttp"
	"github.com/lyceumd/lyceumd/internal/authn"
	"github.com/lyceumd/lyceumd/internal/authz"
	"github.com/lyceumd/lyceumd/internal/command"
	"github.com/lyceumd/lyceumd/internal/directory"
	"github.com/lyceumd/lyceumd/internal/platform/cache"
	"github.com/lyceumd/lyceumd/internal/platform/db"
	"github.com/lyceumd/lyceumd/internal/printing"
	"github.com/lyceumd/lyceumd/internal/query"
	"github.com/lyceumd/lyceumd/internal/sessions"
	"github.com/lyceumd/lyceumd/internal/token"
	"github.com/lyceumd/lyceumd/internal/users"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	secret, err := token.SecretFromBase64(cfg.AuthSecret)
	if err != nil {
		logger.Error("decode auth secret", slog.Any("error", err))
		os.Exit(1)
	}

	dbpool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer dbpool.Close()

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Error("connect redis", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	dir := directory.NewPGDirectory(dbpool)
	codec := token.NewCodec(secret, cfg.TokenTTL)
	revoked := token.NewRevocationList(redisClient)
	authnService := authn.NewService(codec, revoked, dir, dir, logger)
	runner := command.NewExecRunner(cfg.ToolDir, logger)

	guard := authz.Middleware{Logger: logger}
	printFilter := authz.NewPrintFilter(dir, logger)

	router := app.NewRouter(app.RouterParams{
		Logger:          logger,
		Config:          cfg,
		Authn:           authnService,
		AuthHandler:     authhttp.NewHandler(logger, authnService),
		UsersHandler:    users.NewHandler(logger, users.NewService(dir, dir, runner), guard, dir),
		SessionsHandler: sessions.NewHandler(logger, sessions.NewService(runner, revoked, cfg.TokenTTL), guard),
		PrintingHandler: printing.NewHandler(logger, printing.NewService(printFilter, runner, cfg.PrintDataDir, cfg.DefaultSchool), guard),
		QueryHandler:    query.NewHandler(logger, dir, guard),
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		logger.Info("server listening", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	group.Go(func() error {
		<-groupCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.AppRequestTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := group.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("server stopped", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("server stopped")
}
