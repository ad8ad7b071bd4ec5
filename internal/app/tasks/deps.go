// Package tasks implements the scheduled maintenance tasks.
package tasks

import (
	"log/slog"
	"time"

	"github.com/edgard/aurelia/internal/config"
	"github.com/edgard/aurelia/internal/database"
)

// TaskDeps contains the dependencies of scheduled tasks.
type TaskDeps struct {
	Logger *slog.Logger
	Store  database.Store
	Config *config.Config
	// Now defaults to time.Now.
	Now func() time.Time
}
