package ledger

import (
	"context"
	"errors"
	"math"
	"sync"
	"testing"
	"time"

	"galaxytrade/internal/adapter/repo/memory"
	"galaxytrade/internal/app/ports"
	"galaxytrade/internal/domain/economy"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestService_TransferCreatesDestinationAndReprices(t *testing.T) {
	f := newFixture()
	f.seed(f.earth.ID, 100, 30)

	got, err := f.svc.Transfer(context.Background(), TransferRequest{
		SourcePlanetID:      f.earth.ID,
		DestinationPlanetID: f.mars.ID,
		ResourceID:          f.ore.ID,
		Quantity:            40,
	})
	if err != nil {
		t.Fatalf("transfer error: %v", err)
	}
	if got.Source.Quantity != 60 || got.Destination.Quantity != 40 {
		t.Fatalf("quantity mismatch: src=%v dst=%v", got.Source.Quantity, got.Destination.Quantity)
	}
	// 1 + (0-30)/60
	if !almostEqual(got.Source.DemandFactor, 0.5) || !almostEqual(got.Source.CurrentPrice, 5) {
		t.Fatalf("source price mismatch: demand=%v price=%v", got.Source.DemandFactor, got.Source.CurrentPrice)
	}
	if !almostEqual(got.Destination.DemandFactor, 1) || !almostEqual(got.Destination.CurrentPrice, 10) {
		t.Fatalf("destination price mismatch: demand=%v price=%v", got.Destination.DemandFactor, got.Destination.CurrentPrice)
	}

	stored, err := f.svc.Inventories.Get(context.Background(), f.key(f.mars.ID))
	if err != nil {
		t.Fatalf("destination not persisted: %v", err)
	}
	if stored.Quantity != 40 || !stored.UpdatedAt.Equal(testNow) {
		t.Fatalf("stored destination mismatch: %+v", stored)
	}
	rows, _ := f.svc.History.ListByResource(context.Background(), f.ore.ID)
	if len(rows) != 2 {
		t.Fatalf("expected one snapshot per touched row, got %d", len(rows))
	}
	if f.metrics.transfers != 1 {
		t.Fatalf("transfer metric mismatch: got=%d want=1", f.metrics.transfers)
	}
}

func TestService_TransferInsufficientLeavesRowsUnchanged(t *testing.T) {
	f := newFixture()
	before := f.seed(f.earth.ID, 100, 0)
	f.seed(f.mars.ID, 5, 0)

	_, err := f.svc.Transfer(context.Background(), TransferRequest{
		SourcePlanetID:      f.earth.ID,
		DestinationPlanetID: f.mars.ID,
		ResourceID:          f.ore.ID,
		Quantity:            150,
	})
	if !errors.Is(err, economy.ErrInsufficientResources) {
		t.Fatalf("expected insufficient resources, got %v", err)
	}
	var detail *economy.InsufficientResourcesError
	if !errors.As(err, &detail) || detail.Requested != 150 || detail.Available != 100 {
		t.Fatalf("expected detail requested=150 available=100, got %+v", detail)
	}

	src, _ := f.svc.Inventories.Get(context.Background(), f.key(f.earth.ID))
	dst, _ := f.svc.Inventories.Get(context.Background(), f.key(f.mars.ID))
	if src != before || dst.Quantity != 5 {
		t.Fatalf("rows changed after failed transfer: src=%+v dst=%+v", src, dst)
	}
	rows, _ := f.svc.History.ListByResource(context.Background(), f.ore.ID)
	if len(rows) != 0 {
		t.Fatalf("failed transfer wrote history: %d rows", len(rows))
	}
}

func TestService_TransferInsufficientDoesNotCreateDestination(t *testing.T) {
	f := newFixture()
	f.seed(f.earth.ID, 10, 0)

	_, err := f.svc.Transfer(context.Background(), TransferRequest{
		SourcePlanetID:      f.earth.ID,
		DestinationPlanetID: f.mars.ID,
		ResourceID:          f.ore.ID,
		Quantity:            11,
	})
	if !errors.Is(err, economy.ErrInsufficientResources) {
		t.Fatalf("expected insufficient resources, got %v", err)
	}
	if _, err := f.svc.Inventories.Get(context.Background(), f.key(f.mars.ID)); !errors.Is(err, ports.ErrNotFound) {
		t.Fatalf("destination row should not survive rollback, err=%v", err)
	}
}

func TestService_TransferValidation(t *testing.T) {
	f := newFixture()
	f.seed(f.earth.ID, 100, 0)

	cases := []struct {
		name string
		req  TransferRequest
		want error
	}{
		{"negative quantity", TransferRequest{SourcePlanetID: 1, DestinationPlanetID: 2, ResourceID: 7, Quantity: -1}, economy.ErrInvalidQuantity},
		{"nan quantity", TransferRequest{SourcePlanetID: 1, DestinationPlanetID: 2, ResourceID: 7, Quantity: math.NaN()}, economy.ErrInvalidQuantity},
		{"same planet", TransferRequest{SourcePlanetID: 1, DestinationPlanetID: 1, ResourceID: 7, Quantity: 1}, economy.ErrSamePlanet},
		{"unknown resource", TransferRequest{SourcePlanetID: 1, DestinationPlanetID: 2, ResourceID: 99, Quantity: 1}, ports.ErrNotFound},
		{"unknown destination", TransferRequest{SourcePlanetID: 1, DestinationPlanetID: 99, ResourceID: 7, Quantity: 1}, ports.ErrNotFound},
		{"missing source row", TransferRequest{SourcePlanetID: 2, DestinationPlanetID: 1, ResourceID: 7, Quantity: 1}, ErrSourceInventoryMissing},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.svc.Transfer(context.Background(), tc.req)
			if !errors.Is(err, tc.want) {
				t.Fatalf("got=%v want=%v", err, tc.want)
			}
		})
	}
	src, _ := f.svc.Inventories.Get(context.Background(), f.key(f.earth.ID))
	if src.Quantity != 100 {
		t.Fatalf("validation failures must not change stock, got %v", src.Quantity)
	}
}

func TestService_TransferZeroQuantityStillSnapshots(t *testing.T) {
	f := newFixture()
	f.seed(f.earth.ID, 100, 0)
	f.seed(f.mars.ID, 100, 0)

	if _, err := f.svc.Transfer(context.Background(), TransferRequest{SourcePlanetID: 1, DestinationPlanetID: 2, ResourceID: 7}); err != nil {
		t.Fatalf("zero transfer error: %v", err)
	}
	rows, _ := f.svc.History.ListByResource(context.Background(), f.ore.ID)
	if len(rows) != 2 {
		t.Fatalf("expected 2 snapshots, got %d", len(rows))
	}
}

func TestService_ConcurrentTransfersNeverOverdraw(t *testing.T) {
	f := newFixture()
	f.seed(f.earth.ID, 100, 0)

	const workers = 25
	var (
		wg           sync.WaitGroup
		mu           sync.Mutex
		ok, rejected int
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.svc.Transfer(context.Background(), TransferRequest{
				SourcePlanetID:      f.earth.ID,
				DestinationPlanetID: f.mars.ID,
				ResourceID:          f.ore.ID,
				Quantity:            10,
			})
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				ok++
			case errors.Is(err, economy.ErrInsufficientResources):
				rejected++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	if ok != 10 || rejected != workers-10 {
		t.Fatalf("outcome mismatch: ok=%d rejected=%d", ok, rejected)
	}
	src, _ := f.svc.Inventories.Get(context.Background(), f.key(f.earth.ID))
	dst, _ := f.svc.Inventories.Get(context.Background(), f.key(f.mars.ID))
	if src.Quantity != 0 || dst.Quantity != 100 {
		t.Fatalf("conservation broken: src=%v dst=%v", src.Quantity, dst.Quantity)
	}
}

func TestService_OppositeTransfersDoNotDeadlock(t *testing.T) {
	f := newFixture(memory.WithLockTimeout(2 * time.Second))
	f.seed(f.earth.ID, 100, 0)
	f.seed(f.mars.ID, 100, 0)

	var wg sync.WaitGroup
	for i := 0; i < 40; i++ {
		req := TransferRequest{SourcePlanetID: f.earth.ID, DestinationPlanetID: f.mars.ID, ResourceID: f.ore.ID, Quantity: 1}
		if i%2 == 1 {
			req.SourcePlanetID, req.DestinationPlanetID = req.DestinationPlanetID, req.SourcePlanetID
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := f.svc.Transfer(context.Background(), req); err != nil {
				t.Errorf("transfer error: %v", err)
			}
		}()
	}
	wg.Wait()

	src, _ := f.svc.Inventories.Get(context.Background(), f.key(f.earth.ID))
	dst, _ := f.svc.Inventories.Get(context.Background(), f.key(f.mars.ID))
	if src.Quantity != 100 || dst.Quantity != 100 {
		t.Fatalf("balances mismatch: earth=%v mars=%v", src.Quantity, dst.Quantity)
	}
	if f.metrics.conflicts != 0 {
		t.Fatalf("unexpected lock conflicts: %d", f.metrics.conflicts)
	}
}

func TestService_TransferJoinsOuterTransaction(t *testing.T) {
	f := newFixture()
	f.seed(f.earth.ID, 100, 0)
	boom := errors.New("outer failed")

	err := f.svc.TxManager.RunInTx(context.Background(), func(ctx context.Context) error {
		if _, err := f.svc.Transfer(ctx, TransferRequest{SourcePlanetID: 1, DestinationPlanetID: 2, ResourceID: 7, Quantity: 30}); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected outer error, got %v", err)
	}
	src, _ := f.svc.Inventories.Get(context.Background(), f.key(f.earth.ID))
	if src.Quantity != 100 {
		t.Fatalf("outer rollback should undo transfer, got %v", src.Quantity)
	}
	if f.metrics.transfers != 0 {
		t.Fatalf("rolled back transfer counted: got=%d want=0", f.metrics.transfers)
	}

	err = f.svc.TxManager.RunInTx(context.Background(), func(ctx context.Context) error {
		_, err := f.svc.Transfer(ctx, TransferRequest{SourcePlanetID: 1, DestinationPlanetID: 2, ResourceID: 7, Quantity: 30})
		return err
	})
	if err != nil {
		t.Fatalf("outer commit error: %v", err)
	}
	if f.metrics.transfers != 1 {
		t.Fatalf("committed transfer count mismatch: got=%d want=1", f.metrics.transfers)
	}
}

type seedRecorder struct {
	ports.InventoryRepository
	seeds []economy.Inventory
}

func (r *seedRecorder) GetOrCreateForUpdate(ctx context.Context, seed economy.Inventory) (economy.Inventory, error) {
	r.seeds = append(r.seeds, seed)
	return r.InventoryRepository.GetOrCreateForUpdate(ctx, seed)
}

func TestService_TransferSeedsDestinationFromSourceInEitherLockOrder(t *testing.T) {
	f := newFixture()
	src := f.seed(f.mars.ID, 100, 0)
	src.CurrentPrice = 14
	f.store.SeedInventory(src)
	rec := &seedRecorder{InventoryRepository: f.svc.Inventories}
	f.svc.Inventories = rec

	// Earth sorts before Mars, so the destination row is locked first.
	if _, err := f.svc.Transfer(context.Background(), TransferRequest{
		SourcePlanetID:      f.mars.ID,
		DestinationPlanetID: f.earth.ID,
		ResourceID:          f.ore.ID,
		Quantity:            10,
	}); err != nil {
		t.Fatalf("transfer error: %v", err)
	}
	if len(rec.seeds) != 1 || rec.seeds[0].CurrentPrice != 14 {
		t.Fatalf("seed price mismatch: %+v want price=14", rec.seeds)
	}
}

func TestService_StockCreatesAndReplenishes(t *testing.T) {
	f := newFixture()

	inv, err := f.svc.Stock(context.Background(), StockRequest{PlanetID: f.mars.ID, ResourceID: f.ore.ID, Quantity: 50, ProductionRate: 10})
	if err != nil {
		t.Fatalf("stock error: %v", err)
	}
	// 1 + 10/50
	if inv.Quantity != 50 || !almostEqual(inv.DemandFactor, 1.2) || !almostEqual(inv.CurrentPrice, 12) {
		t.Fatalf("stock mismatch: %+v", inv)
	}

	inv, err = f.svc.Stock(context.Background(), StockRequest{PlanetID: f.mars.ID, ResourceID: f.ore.ID, Quantity: 50, ProductionRate: 99})
	if err != nil {
		t.Fatalf("restock error: %v", err)
	}
	if inv.Quantity != 100 || inv.ProductionRate != 10 {
		t.Fatalf("restock should keep rates: %+v", inv)
	}
	if _, err := f.svc.Stock(context.Background(), StockRequest{PlanetID: 99, ResourceID: f.ore.ID, Quantity: 1}); !errors.Is(err, ports.ErrNotFound) {
		t.Fatalf("expected unknown planet, got %v", err)
	}
}

func TestService_SetRatesReprices(t *testing.T) {
	f := newFixture()
	f.seed(f.earth.ID, 10, 0)

	inv, err := f.svc.SetRates(context.Background(), RatesRequest{PlanetID: f.earth.ID, ResourceID: f.ore.ID, ProductionRate: 0, ConsumptionRate: 50})
	if err != nil {
		t.Fatalf("set rates error: %v", err)
	}
	if inv.DemandFactor != economy.MinDemandFactor || !almostEqual(inv.CurrentPrice, 5) {
		t.Fatalf("expected clamped demand, got %+v", inv)
	}
	if _, err := f.svc.SetRates(context.Background(), RatesRequest{PlanetID: f.mars.ID, ResourceID: f.ore.ID}); !errors.Is(err, ports.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if _, err := f.svc.SetRates(context.Background(), RatesRequest{PlanetID: f.earth.ID, ResourceID: f.ore.ID, ProductionRate: -1}); !errors.Is(err, ErrInvalidRequest) {
		t.Fatalf("expected invalid request, got %v", err)
	}
}
