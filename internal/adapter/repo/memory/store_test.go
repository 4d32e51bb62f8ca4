package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"galaxytrade/internal/app/ports"
	"galaxytrade/internal/domain/economy"
	"galaxytrade/internal/domain/weather"
)

var testNow = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func seedInventory(s *Store, qty float64) economy.Inventory {
	return s.SeedInventory(economy.Inventory{PlanetID: 1, ResourceID: 7, Quantity: qty, CurrentPrice: 10, DemandFactor: 1})
}

func TestTxManager_RollbackRestoresRows(t *testing.T) {
	store := NewStore()
	seedInventory(store, 100)
	inventories := NewInventoryRepo(store)
	history := NewPriceHistoryRepo(store)
	tx := NewTxManager(store)
	key := economy.InventoryKey{PlanetID: 1, ResourceID: 7}
	boom := errors.New("boom")

	err := tx.RunInTx(context.Background(), func(ctx context.Context) error {
		inv, err := inventories.GetForUpdate(ctx, key)
		if err != nil {
			return err
		}
		inv.Quantity = 40
		if err := inventories.Save(ctx, inv); err != nil {
			return err
		}
		if _, err := inventories.GetOrCreateForUpdate(ctx, economy.NewInventory(economy.InventoryKey{PlanetID: 2, ResourceID: 7}, 10, testNow)); err != nil {
			return err
		}
		if err := history.Append(ctx, []economy.PriceSnapshot{economy.Snapshot(inv, testNow)}); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}

	got, err := inventories.Get(context.Background(), key)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Quantity != 100 {
		t.Fatalf("rollback quantity mismatch: got=%v want=100", got.Quantity)
	}
	if _, err := inventories.Get(context.Background(), economy.InventoryKey{PlanetID: 2, ResourceID: 7}); !errors.Is(err, ports.ErrNotFound) {
		t.Fatalf("created row should be rolled back, got err=%v", err)
	}
	rows, _ := history.ListByResource(context.Background(), 7)
	if len(rows) != 0 {
		t.Fatalf("history should be rolled back, got %d rows", len(rows))
	}
}

func TestTxManager_NestedFailureUndoesOnlyInnerWrites(t *testing.T) {
	store := NewStore()
	seedInventory(store, 100)
	inventories := NewInventoryRepo(store)
	tx := NewTxManager(store)
	key := economy.InventoryKey{PlanetID: 1, ResourceID: 7}

	err := tx.RunInTx(context.Background(), func(ctx context.Context) error {
		inv, _ := inventories.GetForUpdate(ctx, key)
		inv.Quantity = 90
		if err := inventories.Save(ctx, inv); err != nil {
			return err
		}
		inner := tx.RunInTx(ctx, func(ctx context.Context) error {
			inv.Quantity = 10
			if err := inventories.Save(ctx, inv); err != nil {
				return err
			}
			return errors.New("inner failed")
		})
		if inner == nil {
			t.Fatalf("expected inner error")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("outer: %v", err)
	}
	got, _ := inventories.Get(context.Background(), key)
	if got.Quantity != 90 {
		t.Fatalf("savepoint mismatch: got=%v want=90", got.Quantity)
	}
}

func TestTxManager_RowLockTimesOut(t *testing.T) {
	store := NewStore(WithLockTimeout(20 * time.Millisecond))
	seedInventory(store, 100)
	inventories := NewInventoryRepo(store)
	tx := NewTxManager(store)
	key := economy.InventoryKey{PlanetID: 1, ResourceID: 7}

	locked := make(chan struct{})
	release := make(chan struct{})
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = tx.RunInTx(context.Background(), func(ctx context.Context) error {
			if _, err := inventories.GetForUpdate(ctx, key); err != nil {
				return err
			}
			close(locked)
			<-release
			return nil
		})
	}()
	<-locked

	err := tx.RunInTx(context.Background(), func(ctx context.Context) error {
		_, err := inventories.GetForUpdate(ctx, key)
		return err
	})
	if !errors.Is(err, ports.ErrLockTimeout) {
		t.Fatalf("expected lock timeout, got %v", err)
	}
	close(release)
	<-done

	err = tx.RunInTx(context.Background(), func(ctx context.Context) error {
		_, err := inventories.GetForUpdate(ctx, key)
		return err
	})
	if err != nil {
		t.Fatalf("lock should be released after commit, got %v", err)
	}
}

func TestTxManager_RowLockIsReentrant(t *testing.T) {
	store := NewStore(WithLockTimeout(20 * time.Millisecond))
	seedInventory(store, 100)
	inventories := NewInventoryRepo(store)
	tx := NewTxManager(store)
	key := economy.InventoryKey{PlanetID: 1, ResourceID: 7}

	err := tx.RunInTx(context.Background(), func(ctx context.Context) error {
		if _, err := inventories.GetForUpdate(ctx, key); err != nil {
			return err
		}
		return tx.RunInTx(ctx, func(ctx context.Context) error {
			_, err := inventories.GetForUpdate(ctx, key)
			return err
		})
	})
	if err != nil {
		t.Fatalf("re-entrant lock failed: %v", err)
	}
}

func TestPriceHistoryRepo_ListRecentOldestFirst(t *testing.T) {
	store := NewStore()
	history := NewPriceHistoryRepo(store)
	key := economy.InventoryKey{PlanetID: 1, ResourceID: 7}
	for i := 1; i <= 5; i++ {
		row := economy.PriceSnapshot{PlanetID: 1, ResourceID: 7, Price: float64(i), RecordedAt: testNow.Add(time.Duration(i) * time.Hour)}
		if err := history.Append(context.Background(), []economy.PriceSnapshot{row}); err != nil {
			t.Fatalf("append: %v", err)
		}
	}
	rows, err := history.ListRecent(context.Background(), key, 3)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(rows) != 3 || rows[0].Price != 3 || rows[2].Price != 5 {
		t.Fatalf("unexpected recent rows: %+v", rows)
	}
}

func TestWeatherRepo_ActiveAndPrune(t *testing.T) {
	store := NewStore()
	repo := NewWeatherRepo(store)
	ctx := context.Background()
	active, _ := repo.Create(ctx, weather.Event{StartTime: testNow.Add(-time.Hour), EndTime: testNow.Add(time.Hour), DelayFactor: 1.5})
	_, _ = repo.Create(ctx, weather.Event{StartTime: testNow.Add(-2 * time.Hour), EndTime: testNow, DelayFactor: 1.5})
	_, _ = repo.Create(ctx, weather.Event{StartTime: testNow.Add(time.Hour), EndTime: testNow.Add(2 * time.Hour), DelayFactor: 1.5})

	got, _ := repo.ListActive(ctx, testNow)
	if len(got) != 1 || got[0].ID != active.ID {
		t.Fatalf("active events mismatch: %+v", got)
	}
	n, err := repo.DeleteExpired(ctx, testNow)
	if err != nil || n != 1 {
		t.Fatalf("prune mismatch: n=%d err=%v", n, err)
	}
	if err := repo.Delete(ctx, 9999); !errors.Is(err, ports.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}
