package tasks

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/edgard/aurelia/internal/config"
	"github.com/edgard/aurelia/internal/database"
)

type fakeStore struct {
	database.Store

	maintenanceErr   error
	maintenanceCalls int

	purgeErr error
	cutoffs  []time.Time
}

func (f *fakeStore) RunSQLMaintenance(context.Context) error {
	f.maintenanceCalls++
	return f.maintenanceErr
}

func (f *fakeStore) PurgePrayersBefore(_ context.Context, cutoff time.Time) (int64, error) {
	f.cutoffs = append(f.cutoffs, cutoff)
	return int64(len(f.cutoffs)), f.purgeErr
}

var now = time.Date(2025, 6, 1, 4, 30, 0, 0, time.UTC)

func newDeps(store database.Store, retention time.Duration) TaskDeps {
	return TaskDeps{
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		Store:  store,
		Config: &config.Config{History: config.HistoryConfig{Retention: retention}},
		Now:    func() time.Time { return now },
	}
}

func TestRegisterAllTasks(t *testing.T) {
	t.Parallel()

	got := RegisterAllTasks(newDeps(&fakeStore{}, 0))
	for _, name := range []string{SQLMaintenance, HistoryRetention} {
		if got[name] == nil {
			t.Errorf("task %q not registered", name)
		}
	}
}

func TestSQLMaintenanceTask(t *testing.T) {
	t.Parallel()

	store := &fakeStore{}
	task := RegisterAllTasks(newDeps(store, 0))[SQLMaintenance]
	if err := task(context.Background()); err != nil {
		t.Fatalf("task() error = %v", err)
	}
	if store.maintenanceCalls != 1 {
		t.Errorf("maintenance calls = %d", store.maintenanceCalls)
	}

	boom := errors.New("disk full")
	store.maintenanceErr = boom
	if err := task(context.Background()); !errors.Is(err, boom) {
		t.Errorf("task() error = %v, want wrapped %v", err, boom)
	}
}

func TestHistoryRetentionTask(t *testing.T) {
	t.Parallel()

	t.Run("disabled", func(t *testing.T) {
		t.Parallel()

		store := &fakeStore{}
		if err := RegisterAllTasks(newDeps(store, 0))[HistoryRetention](context.Background()); err != nil {
			t.Fatalf("task() error = %v", err)
		}
		if len(store.cutoffs) != 0 {
			t.Errorf("purged with retention disabled: %v", store.cutoffs)
		}
	})

	t.Run("purges before cutoff", func(t *testing.T) {
		t.Parallel()

		store := &fakeStore{}
		if err := RegisterAllTasks(newDeps(store, 30*24*time.Hour))[HistoryRetention](context.Background()); err != nil {
			t.Fatalf("task() error = %v", err)
		}
		want := now.Add(-30 * 24 * time.Hour)
		if len(store.cutoffs) != 1 || !store.cutoffs[0].Equal(want) {
			t.Errorf("cutoffs = %v, want [%v]", store.cutoffs, want)
		}
	})

	t.Run("error", func(t *testing.T) {
		t.Parallel()

		store := &fakeStore{purgeErr: errors.New("locked")}
		if err := RegisterAllTasks(newDeps(store, time.Hour))[HistoryRetention](context.Background()); err == nil {
			t.Error("task() succeeded, want error")
		}
	})
}
