package economy

import (
	"math"
	"time"
)

const (
	MinDemandFactor = 0.5
	MaxDemandFactor = 2.0
)

// DemandFactor is 1 + netFlow/max(1, quantity), clamped to [0.5, 2.0].
func DemandFactor(inv Inventory) float64 {
	netFlow := inv.ProductionRate - inv.ConsumptionRate
	f := 1 + netFlow/math.Max(1, inv.Quantity)
	return math.Max(MinDemandFactor, math.Min(MaxDemandFactor, f))
}

// Reprice recomputes the demand factor and then the price from it, so that
// CurrentPrice == BasePrice * DemandFactor holds on the returned row.
func Reprice(inv Inventory, res Resource, now time.Time) Inventory {
	inv.DemandFactor = DemandFactor(inv)
	inv.CurrentPrice = res.BasePrice * inv.DemandFactor
	inv.UpdatedAt = now
	return inv
}

// ApplyTransfer moves qty from src to dst. Nothing is changed when src holds
// less than qty.
func ApplyTransfer(src, dst Inventory, qty float64) (Inventory, Inventory, error) {
	if qty < 0 || math.IsNaN(qty) || math.IsInf(qty, 0) {
		return src, dst, ErrInvalidQuantity
	}
	if src.Quantity < qty {
		return src, dst, &InsufficientResourcesError{Key: src.Key(), Requested: qty, Available: src.Quantity}
	}
	src.Quantity -= qty
	dst.Quantity += qty
	return src, dst, nil
}

// Volatility is (max-min)/avg over the recorded prices, 0 when there is
// nothing to compare.
func Volatility(history []PriceSnapshot) float64 {
	if len(history) == 0 {
		return 0
	}
	lo, hi, sum := history[0].Price, history[0].Price, 0.0
	for _, h := range history {
		lo = math.Min(lo, h.Price)
		hi = math.Max(hi, h.Price)
		sum += h.Price
	}
	avg := sum / float64(len(history))
	if avg == 0 {
		return 0
	}
	return (hi - lo) / avg
}
