package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"galaxytrade/internal/app/ports"
	"galaxytrade/internal/domain/economy"
	"galaxytrade/internal/domain/fleet"
	"galaxytrade/internal/domain/trade"
	"galaxytrade/internal/domain/weather"

	"golang.org/x/sync/semaphore"
)

const defaultLockTimeout = 5 * time.Second

// Store keeps every table in process memory. Rows fetched "for update" are
// guarded by per-row semaphores held until the owning transaction ends;
// plain reads take no row lock.
type Store struct {
	mu          sync.RWMutex
	planets     map[int64]economy.Planet
	resources   map[int64]economy.Resource
	inventories map[economy.InventoryKey]economy.Inventory
	history     []economy.PriceSnapshot
	routes      map[int64]trade.Route
	agreements  map[int64]trade.Agreement
	ships       map[int64]fleet.Starship
	weather     map[int64]weather.Event
	nextID      int64

	locksMu     sync.Mutex
	locks       map[string]*semaphore.Weighted
	lockTimeout time.Duration
}

type Option func(*Store)

func WithLockTimeout(d time.Duration) Option {
	return func(s *Store) {
		if d > 0 {
			s.lockTimeout = d
		}
	}
}

func NewStore(opts ...Option) *Store {
	s := &Store{
		planets:     make(map[int64]economy.Planet),
		resources:   make(map[int64]economy.Resource),
		inventories: make(map[economy.InventoryKey]economy.Inventory),
		routes:      make(map[int64]trade.Route),
		agreements:  make(map[int64]trade.Agreement),
		ships:       make(map[int64]fleet.Starship),
		weather:     make(map[int64]weather.Event),
		locks:       make(map[string]*semaphore.Weighted),
		lockTimeout: defaultLockTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// allocID must be called with mu held.
func (s *Store) allocID() int64 {
	s.nextID++
	return s.nextID
}

// claimID keeps an explicit seed ID and moves the allocator past it.
func (s *Store) claimID(id int64) int64 {
	if id == 0 {
		return s.allocID()
	}
	if id > s.nextID {
		s.nextID = id
	}
	return id
}

func (s *Store) rowLock(key string) *semaphore.Weighted {
	s.locksMu.Lock()
	defer s.locksMu.Unlock()
	sem, ok := s.locks[key]
	if !ok {
		sem = semaphore.NewWeighted(1)
		s.locks[key] = sem
	}
	return sem
}

// lockRow takes the exclusive lock for key on behalf of the transaction in
// ctx. Outside a transaction there is nothing to hold the lock for, so it is
// a no-op. Locks are re-entrant within one transaction.
func (s *Store) lockRow(ctx context.Context, key string) error {
	tx := txFrom(ctx)
	if tx == nil {
		return nil
	}
	if tx.holds(key) {
		return nil
	}
	sem := s.rowLock(key)
	waitCtx, cancel := context.WithTimeout(ctx, s.lockTimeout)
	defer cancel()
	if err := sem.Acquire(waitCtx, 1); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("row %s: %w", key, ports.ErrLockTimeout)
	}
	tx.hold(key, sem)
	return nil
}

// record registers an undo step for the transaction in ctx. mu must be held.
func (s *Store) record(ctx context.Context, undo func()) {
	if tx := txFrom(ctx); tx != nil {
		tx.undo = append(tx.undo, undo)
	}
}

func inventoryLockKey(k economy.InventoryKey) string {
	return fmt.Sprintf("inventory:%d:%d", k.PlanetID, k.ResourceID)
}

func agreementLockKey(id int64) string {
	return fmt.Sprintf("agreement:%d", id)
}

func starshipLockKey(id int64) string {
	return fmt.Sprintf("starship:%d", id)
}

func (s *Store) SeedPlanet(p economy.Planet) economy.Planet {
	s.mu.Lock()
	defer s.mu.Unlock()
	p.ID = s.claimID(p.ID)
	s.planets[p.ID] = p
	return p
}

func (s *Store) SeedResource(r economy.Resource) economy.Resource {
	s.mu.Lock()
	defer s.mu.Unlock()
	r.ID = s.claimID(r.ID)
	s.resources[r.ID] = r
	return r
}

func (s *Store) SeedInventory(inv economy.Inventory) economy.Inventory {
	s.mu.Lock()
	defer s.mu.Unlock()
	inv.ID = s.claimID(inv.ID)
	s.inventories[inv.Key()] = inv
	return inv
}

func (s *Store) SeedRoute(r trade.Route) trade.Route {
	s.mu.Lock()
	defer s.mu.Unlock()
	r.ID = s.claimID(r.ID)
	s.routes[r.ID] = r
	return r
}

func (s *Store) SeedAgreement(a trade.Agreement) trade.Agreement {
	s.mu.Lock()
	defer s.mu.Unlock()
	a.ID = s.claimID(a.ID)
	s.agreements[a.ID] = a
	return a
}

func (s *Store) SeedStarship(ship fleet.Starship) fleet.Starship {
	s.mu.Lock()
	defer s.mu.Unlock()
	ship.ID = s.claimID(ship.ID)
	s.ships[ship.ID] = ship
	return ship
}

func (s *Store) SeedWeather(e weather.Event) weather.Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	e.ID = s.claimID(e.ID)
	s.weather[e.ID] = e
	return e
}
