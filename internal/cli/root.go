// Package cli holds the remindbot command tree.
package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/pathakanu/remindbot/internal/config"
	"github.com/pathakanu/remindbot/internal/database"
	"github.com/pathakanu/remindbot/internal/logger"
	"github.com/pathakanu/remindbot/internal/notify"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// NewRootCmd creates the remindbot command with all subcommands attached.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "remindbot",
		Short:         "WhatsApp reminder bot",
		Long:          "Stores reminders sent over WhatsApp and delivers them when they fall due",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(NewServeCmd())
	rootCmd.AddCommand(NewMigrateCmd())
	rootCmd.AddCommand(NewDispatchCmd())
	return rootCmd
}

// Execute runs the command tree and exits non-zero on failure.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// runtime bundles what every subcommand opens before doing its work.
type runtime struct {
	cfg    *config.Config
	log    *zap.Logger
	db     *gorm.DB
	store  *database.Store
	closed bool
}

func openRuntime(ctx context.Context) (*runtime, error) {
	cfg := config.Load()

	log, err := logger.New(cfg.LogDebug, cfg.LogDevelopment)
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}

	db, err := database.New(database.Options{DatabaseURL: cfg.DatabaseURL, SQLitePath: cfg.SQLitePath}, log)
	if err != nil {
		_ = logger.Sync(log)
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	store := database.NewStore(db)
	if err := store.CreateTables(ctx); err != nil {
		_ = database.Close(db)
		_ = logger.Sync(log)
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return &runtime{cfg: cfg, log: log, db: db, store: store}, nil
}

func (r *runtime) close() {
	if r.closed {
		return
	}
	r.closed = true
	if err := database.Close(r.db); err != nil {
		r.log.Warn("database_close_failed", zap.Error(err))
	}
	_ = logger.Sync(r.log)
}

// notifier picks Twilio when credentials are present and falls back to
// logging deliveries.
func (r *runtime) notifier() notify.Notifier {
	if !r.cfg.TwilioConfigured() {
		r.log.Warn("twilio_not_configured", zap.String("fallback", "log"))
		return notify.NewLog(r.log)
	}
	return notify.NewTwilio(r.cfg.TwilioAccountSID, r.cfg.TwilioAuthToken, r.cfg.TwilioWhatsAppNumber, r.log)
}
