package handlers

import (
	"context"
	"log/slog"

	"github.com/edgard/aurelia/internal/composer"
	"github.com/edgard/aurelia/internal/config"
	"github.com/edgard/aurelia/internal/database"
	"github.com/edgard/aurelia/internal/prayer"
)

// Generator produces prayers for the /pray command.
type Generator interface {
	Generate(ctx context.Context, p composer.Profile) (*prayer.Result, error)
}

// HandlerDeps provides dependencies for Telegram command handlers.
type HandlerDeps struct {
	Logger    *slog.Logger
	Config    *config.Config
	Generator Generator
	Store     database.Store
}
