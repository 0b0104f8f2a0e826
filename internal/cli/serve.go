package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pathakanu/remindbot/internal/bot"
	"github.com/pathakanu/remindbot/internal/dialogue"
	"github.com/pathakanu/remindbot/internal/dispatch"
	myopenai "github.com/pathakanu/remindbot/internal/openai"
	"github.com/pathakanu/remindbot/internal/server"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// NewServeCmd creates the serve command.
func NewServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the webhook server and dispatch loop",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context())
		},
	}
}

func serve(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}

	rt, err := openRuntime(ctx)
	if err != nil {
		return err
	}
	defer rt.close()
	log := rt.log

	checks := map[string]server.Pinger{"database": rt.store}

	var dialogues dialogue.Store
	if rt.cfg.RedisURL != "" {
		opts, err := redis.ParseURL(rt.cfg.RedisURL)
		if err != nil {
			return fmt.Errorf("failed to parse REDIS_URL: %w", err)
		}
		rdb := redis.NewClient(opts)
		defer func() {
			if err := rdb.Close(); err != nil {
				log.Warn("redis_close_failed", zap.Error(err))
			}
		}()
		redisStore := dialogue.NewRedisStore(rdb, rt.cfg.DialogueTTL)
		dialogues = redisStore
		checks["redis"] = redisStore
		log.Info("dialogue_store", zap.String("backend", "redis"))
	} else {
		dialogues = dialogue.NewGormStore(rt.db, rt.cfg.DialogueTTL)
		log.Info("dialogue_store", zap.String("backend", "database"))
	}

	botOpts := []bot.Option{bot.WithLocation(rt.cfg.LocalTimezone)}
	if classifier := myopenai.New(rt.cfg.OpenAIAPIKey); classifier.Enabled() {
		botOpts = append(botOpts, bot.WithClassifier(classifier))
	}
	reminderBot := bot.New(rt.store, dialogues, log, botOpts...)

	dispatcher := dispatch.New(rt.store, rt.notifier(), log, rt.cfg.DispatchInterval,
		dispatch.WithLocation(rt.cfg.LocalTimezone))
	if err := dispatcher.Start(ctx); err != nil {
		return fmt.Errorf("failed to start dispatcher: %w", err)
	}

	if !rt.cfg.LogDevelopment {
		gin.SetMode(gin.ReleaseMode)
	}
	srv := &http.Server{
		Addr:              ":" + rt.cfg.Port,
		Handler:           server.NewRouter(reminderBot, server.NewChecker(checks), log),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Info("server_starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	return waitForShutdown(ctx, srv, dispatcher, serveErr, log)
}

func waitForShutdown(ctx context.Context, srv *http.Server, dispatcher *dispatch.Dispatcher, serveErr <-chan error, log *zap.Logger) error {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(stop)

	var runErr error
	select {
	case sig := <-stop:
		log.Info("shutting_down", zap.String("signal", sig.String()))
	case <-ctx.Done():
		log.Info("shutting_down", zap.Error(ctx.Err()))
	case err, ok := <-serveErr:
		if ok {
			runErr = fmt.Errorf("server error: %w", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("server_shutdown_failed", zap.Error(err))
	}
	dispatcher.Stop()
	return runErr
}

func waitForSignal(ctx context.Context) {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(stop)

	select {
	case <-stop:
	case <-ctx.Done():
	}
}
