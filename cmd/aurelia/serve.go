package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	tgbot "github.com/go-telegram/bot"
	"github.com/spf13/cobra"

	"github.com/edgard/aurelia/internal/app"
	"github.com/edgard/aurelia/internal/app/tasks"
	"github.com/edgard/aurelia/internal/composer"
	"github.com/edgard/aurelia/internal/config"
	"github.com/edgard/aurelia/internal/database"
	"github.com/edgard/aurelia/internal/gemini"
	"github.com/edgard/aurelia/internal/logger"
	"github.com/edgard/aurelia/internal/prayer"
	"github.com/edgard/aurelia/internal/server"
	"github.com/edgard/aurelia/internal/telegram"
	"github.com/edgard/aurelia/internal/telegram/handlers"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API, the scheduler and the optional Telegram bot",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			exitCode := run(ctx)
			stop()
			os.Exit(exitCode)
		},
	}
}

// run wires every component, blocks until shutdown and returns the process
// exit code.
func run(ctx context.Context) int {
	cfg, err := config.LoadConfig(cfgFile)
	if err != nil {
		slog.Error("Failed to load configuration", "path", cfgFile, "error", err)
		return 1
	}

	log := logger.NewLogger(cfg.Logger.Level, cfg.Logger.JSON)
	log.Info("Logger initialized", "level", cfg.Logger.Level, "json", cfg.Logger.JSON)

	db, err := database.NewDB(cfg.Database.Path)
	if err != nil {
		log.Error("Failed to connect to database", "path", cfg.Database.Path, "error", err)
		return 1
	}
	defer database.CloseDB(db)
	store := database.NewStore(db, log)

	gem, err := gemini.NewClient(ctx, cfg.Gemini, log)
	if err != nil {
		log.Error("Failed to initialize Gemini client", "error", err)
		return 1
	}

	svc := prayer.NewService(cfg.Prayer, composer.New(), gem, gem, log)
	srv := server.New(cfg.Server, svc, store, cfg.History.MaxPerOwner, log)

	sched, err := app.NewScheduler(log, &cfg.Scheduler, tasks.RegisterAllTasks(tasks.TaskDeps{
		Logger: log,
		Store:  store,
		Config: cfg,
	}))
	if err != nil {
		log.Error("Failed to create scheduler", "error", err)
		return 1
	}

	tg, err := newTelegram(ctx, cfg, log, svc, store)
	if err != nil {
		log.Error("Failed to set up Telegram bot", "error", err)
		return 1
	}

	runErr := app.New(log, srv, sched, tg).Run(ctx)
	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		log.Error("Aurelia stopped due to error", "error", runErr)
		return 1
	}

	log.Info("Aurelia stopped gracefully.")
	return 0
}

// newTelegram returns nil when the bot is disabled.
func newTelegram(ctx context.Context, cfg *config.Config, log *slog.Logger, svc *prayer.Service, store database.Store) (*tgbot.Bot, error) {
	if !cfg.Telegram.Enabled {
		log.Info("Telegram bot disabled")
		return nil, nil
	}

	tg, err := telegram.NewTelegramBot(cfg.Telegram.Token, log, tgbot.WithMiddlewares(logger.Middleware(log)))
	if err != nil {
		return nil, err
	}

	me, err := tg.GetMe(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get bot info: %w", err)
	}
	log.Info("Retrieved bot info", "bot_id", me.ID, "bot_username", me.Username)

	deps := handlers.HandlerDeps{
		Logger:    log,
		Config:    cfg,
		Generator: svc,
		Store:     store,
	}
	if err := telegram.RegisterHandlers(tg, log, handlers.RegisterAllCommands(deps)); err != nil {
		return nil, err
	}
	return tg, nil
}
