package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"
)

// Default and maximum page sizes for ListPrayers.
const (
	DefaultListLimit = 20
	MaxListLimit     = 100
)

// Store defines the prayer history operations.
// Methods accept context.Context for cancellation and timeouts.
type Store interface {
	// Ping checks the database connection.
	Ping(ctx context.Context) error

	// SavePrayer inserts a prayer and evicts the owner's oldest prayers so that
	// at most keep remain. keep <= 0 disables eviction.
	SavePrayer(ctx context.Context, prayer *Prayer, keep int) error

	// ListPrayers returns the owner's most recent prayers, newest first,
	// without audio.
	ListPrayers(ctx context.Context, owner string, limit int) ([]*Prayer, error)

	// GetPrayer retrieves a prayer by ID. Returns nil, nil if not found.
	GetPrayer(ctx context.Context, id string) (*Prayer, error)

	// DeletePrayer removes one of the owner's prayers and reports whether it
	// existed.
	DeletePrayer(ctx context.Context, owner, id string) (bool, error)

	// PurgePrayersBefore deletes every prayer created before cutoff.
	PurgePrayersBefore(ctx context.Context, cutoff time.Time) (int64, error)

	// RunSQLMaintenance performs database maintenance tasks like VACUUM.
	RunSQLMaintenance(ctx context.Context) error
}

// sqlxStore implements Store using sqlx.
type sqlxStore struct {
	db     *sqlx.DB
	logger *slog.Logger
}

// NewStore creates a Store backed by a connected sqlx.DB.
func NewStore(db *sqlx.DB, logger *slog.Logger) Store {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &sqlxStore{
		db:     db,
		logger: logger.With("component", "store"),
	}
}

// Ping checks the database connection.
func (s *sqlxStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *sqlxStore) SavePrayer(ctx context.Context, prayer *Prayer, keep int) error {
	if prayer == nil {
		return errors.New("cannot save nil prayer")
	}
	if prayer.ID == "" {
		return errors.New("prayer must have an id")
	}
	if prayer.Owner == "" {
		return errors.New("prayer must have an owner")
	}
	if prayer.Text == "" {
		return errors.New("prayer must have non-empty text")
	}
	if prayer.CreatedAt.IsZero() {
		prayer.CreatedAt = time.Now()
	}
	prayer.CreatedAt = prayer.CreatedAt.UTC()

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to begin transaction for saving prayer", "owner", prayer.Owner, "error", err)
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if tx != nil {
			if rollbackErr := tx.Rollback(); rollbackErr != nil && !errors.Is(rollbackErr, sql.ErrTxDone) {
				s.logger.WarnContext(ctx, "Error rolling back transaction", "error", rollbackErr)
			}
		}
	}()

	insert := `
        INSERT INTO prayers (
            id, owner, text, audio, audio_mime_type, voice,
            role, feeling, time_of_day, language, religion, challenge,
            emotional_category, prayer_length, tone, greeting, ending, created_at
        ) VALUES (
            :id, :owner, :text, :audio, :audio_mime_type, :voice,
            :role, :feeling, :time_of_day, :language, :religion, :challenge,
            :emotional_category, :prayer_length, :tone, :greeting, :ending, :created_at
        );
    `
	if _, err := tx.NamedExecContext(ctx, insert, prayer); err != nil {
		s.logger.ErrorContext(ctx, "Error saving prayer", "owner", prayer.Owner, "prayer_id", prayer.ID, "error", err)
		return fmt.Errorf("failed to save prayer %s: %w", prayer.ID, err)
	}

	var evicted int64
	if keep > 0 {
		// Everything past the newest keep rows of this owner goes.
		evict := `
            DELETE FROM prayers
            WHERE owner = ? AND id NOT IN (
                SELECT id FROM prayers
                WHERE owner = ?
                ORDER BY created_at DESC, rowid DESC
                LIMIT ?
            );
        `
		res, err := tx.ExecContext(ctx, evict, prayer.Owner, prayer.Owner, keep)
		if err != nil {
			s.logger.ErrorContext(ctx, "Error evicting old prayers", "owner", prayer.Owner, "error", err)
			return fmt.Errorf("failed to evict old prayers for %s: %w", prayer.Owner, err)
		}
		evicted, _ = res.RowsAffected()
	}

	if err := tx.Commit(); err != nil {
		s.logger.ErrorContext(ctx, "Failed to commit transaction", "owner", prayer.Owner, "error", err)
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	tx = nil

	s.logger.DebugContext(ctx, "Prayer saved", "owner", prayer.Owner, "prayer_id", prayer.ID, "evicted", evicted)
	return nil
}

func (s *sqlxStore) ListPrayers(ctx context.Context, owner string, limit int) ([]*Prayer, error) {
	if owner == "" {
		return nil, errors.New("owner cannot be empty")
	}
	switch {
	case limit <= 0:
		limit = DefaultListLimit
	case limit > MaxListLimit:
		limit = MaxListLimit
	}

	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	query := `
        SELECT id, owner, text, audio_mime_type, voice,
               role, feeling, time_of_day, language, religion, challenge,
               emotional_category, prayer_length, tone, greeting, ending, created_at
        FROM prayers
        WHERE owner = ?
        ORDER BY created_at DESC, rowid DESC
        LIMIT ?;
    `
	prayers := []*Prayer{}
	if err := s.db.SelectContext(ctx, &prayers, query, owner, limit); err != nil {
		switch {
		case errors.Is(err, context.DeadlineExceeded):
			s.logger.WarnContext(ctx, "Listing prayers timed out", "owner", owner, "error", err)
			return nil, fmt.Errorf("query timed out while listing prayers: %w", err)
		case errors.Is(err, context.Canceled):
			return nil, fmt.Errorf("query was canceled while listing prayers: %w", err)
		default:
			s.logger.ErrorContext(ctx, "Error listing prayers", "owner", owner, "error", err)
			return nil, fmt.Errorf("failed to list prayers for %s: %w", owner, err)
		}
	}
	return prayers, nil
}

func (s *sqlxStore) GetPrayer(ctx context.Context, id string) (*Prayer, error) {
	if id == "" {
		return nil, errors.New("id cannot be empty")
	}

	var p Prayer
	query := `SELECT * FROM prayers WHERE id = ? LIMIT 1;`
	if err := s.db.GetContext(ctx, &p, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		s.logger.ErrorContext(ctx, "Error getting prayer", "prayer_id", id, "error", err)
		return nil, fmt.Errorf("failed to get prayer %s: %w", id, err)
	}
	return &p, nil
}

func (s *sqlxStore) DeletePrayer(ctx context.Context, owner, id string) (bool, error) {
	if owner == "" || id == "" {
		return false, errors.New("owner and id cannot be empty")
	}

	res, err := s.db.ExecContext(ctx, `DELETE FROM prayers WHERE owner = ? AND id = ?;`, owner, id)
	if err != nil {
		s.logger.ErrorContext(ctx, "Error deleting prayer", "owner", owner, "prayer_id", id, "error", err)
		return false, fmt.Errorf("failed to delete prayer %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read rows affected: %w", err)
	}
	return n > 0, nil
}

func (s *sqlxStore) PurgePrayersBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM prayers WHERE created_at < ?;`, cutoff.UTC())
	if err != nil {
		s.logger.ErrorContext(ctx, "Error purging prayers", "cutoff", cutoff, "error", err)
		return 0, fmt.Errorf("failed to purge prayers before %s: %w", cutoff.Format(time.RFC3339), err)
	}
	n, _ := res.RowsAffected()
	s.logger.InfoContext(ctx, "Purged old prayers", "cutoff", cutoff, "deleted", n)
	return n, nil
}

// RunSQLMaintenance executes VACUUM, which SQLite requires to run outside a
// transaction.
func (s *sqlxStore) RunSQLMaintenance(ctx context.Context) error {
	if ctx.Err() != nil {
		s.logger.WarnContext(ctx, "Context done before starting VACUUM", "error", ctx.Err())
		return ctx.Err()
	}

	s.logger.InfoContext(ctx, "Starting database maintenance (VACUUM)")
	start := time.Now()

	_, err := s.db.ExecContext(ctx, "VACUUM;")
	switch {
	case errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled):
		s.logger.WarnContext(ctx, "VACUUM timed out or was cancelled", "error", err)
		return fmt.Errorf("database maintenance (VACUUM) timed out: %w", err)
	case err != nil:
		s.logger.ErrorContext(ctx, "VACUUM failed", "error", err)
		return fmt.Errorf("database maintenance (VACUUM) failed: %w", err)
	}

	s.logger.InfoContext(ctx, "Database maintenance completed", "duration", time.Since(start))
	return nil
}
