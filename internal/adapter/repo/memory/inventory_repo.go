package memory

import (
	"context"
	"sort"

	"galaxytrade/internal/app/ports"
	"galaxytrade/internal/domain/economy"
)

type InventoryRepo struct {
	store *Store
}

func NewInventoryRepo(store *Store) InventoryRepo {
	return InventoryRepo{store: store}
}

func (r InventoryRepo) Get(_ context.Context, key economy.InventoryKey) (economy.Inventory, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	inv, ok := r.store.inventories[key]
	if !ok {
		return economy.Inventory{}, ports.ErrNotFound
	}
	return inv, nil
}

func (r InventoryRepo) GetForUpdate(ctx context.Context, key economy.InventoryKey) (economy.Inventory, error) {
	if err := r.store.lockRow(ctx, inventoryLockKey(key)); err != nil {
		return economy.Inventory{}, err
	}
	return r.Get(ctx, key)
}

func (r InventoryRepo) GetOrCreateForUpdate(ctx context.Context, seed economy.Inventory) (economy.Inventory, error) {
	key := seed.Key()
	if err := r.store.lockRow(ctx, inventoryLockKey(key)); err != nil {
		return economy.Inventory{}, err
	}
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if inv, ok := r.store.inventories[key]; ok {
		return inv, nil
	}
	seed.ID = r.store.allocID()
	r.store.inventories[key] = seed
	r.store.record(ctx, func() { delete(r.store.inventories, key) })
	return seed, nil
}

func (r InventoryRepo) Save(ctx context.Context, inv economy.Inventory) error {
	key := inv.Key()
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	prev, existed := r.store.inventories[key]
	if !existed {
		return ports.ErrNotFound
	}
	inv.ID = prev.ID
	r.store.inventories[key] = inv
	r.store.record(ctx, func() { r.store.inventories[key] = prev })
	return nil
}

func (r InventoryRepo) ListByPlanet(_ context.Context, planetID int64) ([]economy.Inventory, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	out := []economy.Inventory{}
	for k, inv := range r.store.inventories {
		if k.PlanetID == planetID {
			out = append(out, inv)
		}
	}
	sortInventories(out)
	return out, nil
}

func (r InventoryRepo) ListAll(_ context.Context) ([]economy.Inventory, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	out := make([]economy.Inventory, 0, len(r.store.inventories))
	for _, inv := range r.store.inventories {
		out = append(out, inv)
	}
	sortInventories(out)
	return out, nil
}

func sortInventories(in []economy.Inventory) {
	sort.Slice(in, func(i, j int) bool { return in[i].Key().Less(in[j].Key()) })
}

type PriceHistoryRepo struct {
	store *Store
}

func NewPriceHistoryRepo(store *Store) PriceHistoryRepo {
	return PriceHistoryRepo{store: store}
}

func (r PriceHistoryRepo) Append(ctx context.Context, rows []economy.PriceSnapshot) error {
	if len(rows) == 0 {
		return nil
	}
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	added := make(map[int64]struct{}, len(rows))
	for _, row := range rows {
		row.ID = r.store.allocID()
		added[row.ID] = struct{}{}
		r.store.history = append(r.store.history, row)
	}
	r.store.record(ctx, func() {
		kept := r.store.history[:0]
		for _, h := range r.store.history {
			if _, ok := added[h.ID]; !ok {
				kept = append(kept, h)
			}
		}
		r.store.history = kept
	})
	return nil
}

func (r PriceHistoryRepo) ListRecent(_ context.Context, key economy.InventoryKey, limit int) ([]economy.PriceSnapshot, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	out := []economy.PriceSnapshot{}
	for i := len(r.store.history) - 1; i >= 0 && (limit <= 0 || len(out) < limit); i-- {
		h := r.store.history[i]
		if h.PlanetID == key.PlanetID && h.ResourceID == key.ResourceID {
			out = append(out, h)
		}
	}
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out, nil
}

func (r PriceHistoryRepo) ListByResource(_ context.Context, resourceID int64) ([]economy.PriceSnapshot, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	out := []economy.PriceSnapshot{}
	for _, h := range r.store.history {
		if h.ResourceID == resourceID {
			out = append(out, h)
		}
	}
	return out, nil
}
