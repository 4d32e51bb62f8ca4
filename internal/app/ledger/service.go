package ledger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"galaxytrade/internal/app/ports"
	"galaxytrade/internal/domain/economy"
)

var (
	ErrInvalidRequest         = errors.New("invalid ledger request")
	ErrSourceInventoryMissing = errors.New("source inventory not found")
)

// Service is the only code path allowed to change inventory quantities or
// rates. Every mutation locks its rows, recomputes demand and price, and
// appends one price snapshot per touched row inside a single transaction.
type Service struct {
	TxManager   ports.TxManager
	Planets     ports.PlanetRepository
	Resources   ports.ResourceRepository
	Inventories ports.InventoryRepository
	History     ports.PriceHistoryRepository
	Metrics     ports.ExecutionMetrics
	Logger      *slog.Logger
	Now         func() time.Time
}

type TransferRequest struct {
	SourcePlanetID      int64
	DestinationPlanetID int64
	ResourceID          int64
	Quantity            float64
	// SeedPrice prices a destination row created by this transfer. When nil
	// the source row's current price is used.
	SeedPrice *float64
	At        time.Time
}

type TransferResult struct {
	Source      economy.Inventory `json:"source"`
	Destination economy.Inventory `json:"destination"`
}

func (s Service) logger() *slog.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return slog.Default().With("component", "ledger")
}

func (s Service) at(t time.Time) time.Time {
	if !t.IsZero() {
		return t
	}
	if s.Now != nil {
		return s.Now()
	}
	return time.Now().UTC()
}

func validQuantity(q float64) bool {
	return q >= 0 && !math.IsNaN(q) && !math.IsInf(q, 0)
}

func (s Service) Transfer(ctx context.Context, req TransferRequest) (TransferResult, error) {
	if !validQuantity(req.Quantity) {
		return TransferResult{}, economy.ErrInvalidQuantity
	}
	if req.SourcePlanetID == req.DestinationPlanetID {
		return TransferResult{}, economy.ErrSamePlanet
	}
	res, err := s.Resources.Get(ctx, req.ResourceID)
	if err != nil {
		return TransferResult{}, fmt.Errorf("resource %d: %w", req.ResourceID, err)
	}
	if _, err := s.Planets.Get(ctx, req.DestinationPlanetID); err != nil {
		return TransferResult{}, fmt.Errorf("destination planet %d: %w", req.DestinationPlanetID, err)
	}
	now := s.at(req.At)

	srcKey := economy.InventoryKey{PlanetID: req.SourcePlanetID, ResourceID: req.ResourceID}
	dstKey := economy.InventoryKey{PlanetID: req.DestinationPlanetID, ResourceID: req.ResourceID}

	// When the destination row locks first, a row it creates is seeded from an
	// unlocked read of the source price.
	var earlySeed float64
	if !srcKey.Less(dstKey) {
		earlySeed, err = s.earlySeedPrice(ctx, req, srcKey)
		if err != nil {
			return TransferResult{}, err
		}
	}

	var out TransferResult
	err = s.TxManager.RunInTx(ctx, func(txCtx context.Context) error {
		var src, dst economy.Inventory
		lockSource := func() error {
			inv, err := s.Inventories.GetForUpdate(txCtx, srcKey)
			if errors.Is(err, ports.ErrNotFound) {
				return ErrSourceInventoryMissing
			}
			src = inv
			return err
		}
		lockDestination := func(seedPrice float64) error {
			inv, err := s.Inventories.GetOrCreateForUpdate(txCtx, economy.NewInventory(dstKey, seedPrice, now))
			dst = inv
			return err
		}

		if srcKey.Less(dstKey) {
			if err := lockSource(); err != nil {
				return err
			}
			if err := lockDestination(s.seedPrice(req, src)); err != nil {
				return err
			}
		} else {
			if err := lockDestination(earlySeed); err != nil {
				return err
			}
			if err := lockSource(); err != nil {
				return err
			}
		}

		moved, received, err := economy.ApplyTransfer(src, dst, req.Quantity)
		if err != nil {
			return err
		}
		src = economy.Reprice(moved, res, now)
		dst = economy.Reprice(received, res, now)
		if err := s.Inventories.Save(txCtx, src); err != nil {
			return fmt.Errorf("save source inventory: %w", err)
		}
		if err := s.Inventories.Save(txCtx, dst); err != nil {
			return fmt.Errorf("save destination inventory: %w", err)
		}
		if err := s.History.Append(txCtx, []economy.PriceSnapshot{
			economy.Snapshot(src, now),
			economy.Snapshot(dst, now),
		}); err != nil {
			return fmt.Errorf("append price history: %w", err)
		}
		out = TransferResult{Source: src, Destination: dst}
		if s.Metrics != nil {
			ports.AfterCommit(txCtx, s.Metrics.RecordTransfer)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ports.ErrConflict) || errors.Is(err, ports.ErrLockTimeout) {
			if s.Metrics != nil {
				s.Metrics.RecordConflict()
			}
		}
		return TransferResult{}, err
	}
	s.logger().Debug("transfer committed",
		"source_planet_id", req.SourcePlanetID,
		"destination_planet_id", req.DestinationPlanetID,
		"resource_id", req.ResourceID,
		"quantity", req.Quantity,
	)
	return out, nil
}

func (s Service) earlySeedPrice(ctx context.Context, req TransferRequest, srcKey economy.InventoryKey) (float64, error) {
	if req.SeedPrice != nil {
		return *req.SeedPrice, nil
	}
	src, err := s.Inventories.Get(ctx, srcKey)
	if errors.Is(err, ports.ErrNotFound) {
		return 0, ErrSourceInventoryMissing
	}
	if err != nil {
		return 0, fmt.Errorf("source inventory: %w", err)
	}
	return src.CurrentPrice, nil
}

func (s Service) seedPrice(req TransferRequest, src economy.Inventory) float64 {
	if req.SeedPrice != nil {
		return *req.SeedPrice
	}
	return src.CurrentPrice
}

type StockRequest struct {
	PlanetID        int64
	ResourceID      int64
	Quantity        float64
	ProductionRate  float64
	ConsumptionRate float64
	At              time.Time
}

// Stock adds quantity to a planet, creating the row with the given rates when
// the planet has never held the resource. Rates on an existing row are kept.
func (s Service) Stock(ctx context.Context, req StockRequest) (economy.Inventory, error) {
	if !validQuantity(req.Quantity) || !validQuantity(req.ProductionRate) || !validQuantity(req.ConsumptionRate) {
		return economy.Inventory{}, economy.ErrInvalidQuantity
	}
	res, err := s.Resources.Get(ctx, req.ResourceID)
	if err != nil {
		return economy.Inventory{}, fmt.Errorf("resource %d: %w", req.ResourceID, err)
	}
	if _, err := s.Planets.Get(ctx, req.PlanetID); err != nil {
		return economy.Inventory{}, fmt.Errorf("planet %d: %w", req.PlanetID, err)
	}
	now := s.at(req.At)
	key := economy.InventoryKey{PlanetID: req.PlanetID, ResourceID: req.ResourceID}

	var out economy.Inventory
	err = s.TxManager.RunInTx(ctx, func(txCtx context.Context) error {
		seed := economy.NewInventory(key, res.BasePrice, now)
		seed.ProductionRate = req.ProductionRate
		seed.ConsumptionRate = req.ConsumptionRate
		inv, err := s.Inventories.GetOrCreateForUpdate(txCtx, seed)
		if err != nil {
			return err
		}
		inv.Quantity += req.Quantity
		inv = economy.Reprice(inv, res, now)
		if err := s.Inventories.Save(txCtx, inv); err != nil {
			return fmt.Errorf("save inventory: %w", err)
		}
		if err := s.History.Append(txCtx, []economy.PriceSnapshot{economy.Snapshot(inv, now)}); err != nil {
			return fmt.Errorf("append price history: %w", err)
		}
		out = inv
		return nil
	})
	if err != nil {
		return economy.Inventory{}, err
	}
	return out, nil
}

type RatesRequest struct {
	PlanetID        int64
	ResourceID      int64
	ProductionRate  float64
	ConsumptionRate float64
	At              time.Time
}

// SetRates replaces the production and consumption rates of an existing row.
func (s Service) SetRates(ctx context.Context, req RatesRequest) (economy.Inventory, error) {
	if !validQuantity(req.ProductionRate) || !validQuantity(req.ConsumptionRate) {
		return economy.Inventory{}, ErrInvalidRequest
	}
	res, err := s.Resources.Get(ctx, req.ResourceID)
	if err != nil {
		return economy.Inventory{}, fmt.Errorf("resource %d: %w", req.ResourceID, err)
	}
	now := s.at(req.At)
	key := economy.InventoryKey{PlanetID: req.PlanetID, ResourceID: req.ResourceID}

	var out economy.Inventory
	err = s.TxManager.RunInTx(ctx, func(txCtx context.Context) error {
		inv, err := s.Inventories.GetForUpdate(txCtx, key)
		if err != nil {
			return err
		}
		inv.ProductionRate = req.ProductionRate
		inv.ConsumptionRate = req.ConsumptionRate
		inv = economy.Reprice(inv, res, now)
		if err := s.Inventories.Save(txCtx, inv); err != nil {
			return fmt.Errorf("save inventory: %w", err)
		}
		if err := s.History.Append(txCtx, []economy.PriceSnapshot{economy.Snapshot(inv, now)}); err != nil {
			return fmt.Errorf("append price history: %w", err)
		}
		out = inv
		return nil
	})
	if err != nil {
		return economy.Inventory{}, err
	}
	return out, nil
}
