package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"epigrid/internal/app/ports"
	"epigrid/internal/domain/epidemic"
)

func TestRunRepo_Lifecycle(t *testing.T) {
	store := NewStore()
	repo := NewRunRepo(store)
	ctx := context.Background()
	created := time.Unix(10, 0)
	if err := repo.Create(ctx, ports.RunRecord{RunID: "a", CreatedAt: created, UpdatedAt: created}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := repo.Create(ctx, ports.RunRecord{RunID: "a"}); !errors.Is(err, ports.ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
	if err := repo.Update(ctx, ports.RunRecord{RunID: "a", Tick: 4, UpdatedAt: time.Unix(20, 0)}); err != nil {
		t.Fatalf("update: %v", err)
	}
	got, err := repo.Get(ctx, "a")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Tick != 4 || !got.CreatedAt.Equal(created) {
		t.Fatalf("unexpected run %+v", got)
	}
	if err := repo.Update(ctx, ports.RunRecord{RunID: "missing"}); !errors.Is(err, ports.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := repo.Get(ctx, "missing"); !errors.Is(err, ports.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	_ = repo.Create(ctx, ports.RunRecord{RunID: "b", UpdatedAt: time.Unix(30, 0)})
	list, err := repo.List(ctx, 1)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 1 || list[0].RunID != "b" {
		t.Fatalf("expected most recently updated run first, got %+v", list)
	}
}

func TestTickStatsRepo_AppendAndList(t *testing.T) {
	store := NewStore()
	repo := NewTickStatsRepo(store)
	tx := NewTxManager(store)
	ctx := context.Background()

	err := tx.RunInTx(ctx, func(ctx context.Context) error {
		return repo.Append(ctx, "run", []epidemic.TickReport{{Tick: 1}, {Tick: 2}, {Tick: 3}}, time.Unix(5, 0))
	})
	if err != nil {
		t.Fatalf("append: %v", err)
	}
	if err := repo.Append(ctx, "run", []epidemic.TickReport{{Tick: 3}}, time.Unix(6, 0)); !errors.Is(err, ports.ErrConflict) {
		t.Fatalf("expected ErrConflict for a stored tick, got %v", err)
	}
	latest, err := repo.ListByRunID(ctx, "run", ports.TickQuery{Limit: 2})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(latest) != 2 || latest[0].Report.Tick != 2 || latest[1].Report.Tick != 3 {
		t.Fatalf("expected ticks 2,3 ascending, got %+v", latest)
	}
	window, err := repo.ListByRunID(ctx, "run", ports.TickQuery{FromTick: 1, ToTick: 3, Limit: 2})
	if err != nil {
		t.Fatalf("list window: %v", err)
	}
	if len(window) != 2 || window[0].Report.Tick != 1 || window[1].Report.Tick != 2 {
		t.Fatalf("expected ticks 1,2 from the window start, got %+v", window)
	}
	if _, err := repo.ListByRunID(ctx, "other", ports.TickQuery{}); !errors.Is(err, ports.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

var (
	_ ports.RunRepository       = RunRepo{}
	_ ports.TickStatsRepository = TickStatsRepo{}
	_ ports.TxManager           = TxManager{}
)

func TestTxManager_NestedJoinsOuter(t *testing.T) {
	tx := NewTxManager(NewStore())
	wantErr := errors.New("inner")
	done := make(chan error, 1)
	go func() {
		done <- tx.RunInTx(context.Background(), func(ctx context.Context) error {
			return tx.RunInTx(ctx, func(context.Context) error { return wantErr })
		})
	}()
	select {
	case err := <-done:
		if !errors.Is(err, wantErr) {
			t.Fatalf("expected %v, got %v", wantErr, err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("nested RunInTx deadlocked")
	}
}
