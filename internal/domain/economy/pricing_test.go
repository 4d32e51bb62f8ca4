package economy

import (
	"errors"
	"math"
	"testing"
	"time"
)

func TestDemandFactor_ClampsToBounds(t *testing.T) {
	cases := []struct {
		name string
		inv  Inventory
		want float64
	}{
		{name: "balanced", inv: Inventory{Quantity: 100, ProductionRate: 5, ConsumptionRate: 5}, want: 1.0},
		{name: "surplus", inv: Inventory{Quantity: 100, ProductionRate: 30, ConsumptionRate: 10}, want: 1.2},
		{name: "shortage", inv: Inventory{Quantity: 100, ProductionRate: 0, ConsumptionRate: 25}, want: 0.75},
		{name: "upper clamp", inv: Inventory{Quantity: 2, ProductionRate: 50}, want: MaxDemandFactor},
		{name: "lower clamp", inv: Inventory{Quantity: 2, ConsumptionRate: 50}, want: MinDemandFactor},
		{name: "zero stock uses unit denominator", inv: Inventory{Quantity: 0, ProductionRate: 0.5}, want: 1.5},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := DemandFactor(tc.inv)
			if math.Abs(got-tc.want) > 1e-9 {
				t.Fatalf("demand factor mismatch: got=%v want=%v", got, tc.want)
			}
		})
	}
}

func TestReprice_PriceFollowsDemand(t *testing.T) {
	now := time.Unix(1700000000, 0).UTC()
	res := Resource{ID: 1, BasePrice: 40}
	inv := Inventory{PlanetID: 1, ResourceID: 1, Quantity: 10, ProductionRate: 3, ConsumptionRate: 8}

	got := Reprice(inv, res, now)
	if got.DemandFactor < MinDemandFactor || got.DemandFactor > MaxDemandFactor {
		t.Fatalf("demand factor out of range: %v", got.DemandFactor)
	}
	if got.CurrentPrice != res.BasePrice*got.DemandFactor {
		t.Fatalf("price %v != base*demand %v", got.CurrentPrice, res.BasePrice*got.DemandFactor)
	}
	if !got.UpdatedAt.Equal(now) {
		t.Fatalf("expected updated_at to be stamped")
	}
}

func TestApplyTransfer_ConservesQuantity(t *testing.T) {
	src := Inventory{PlanetID: 1, ResourceID: 7, Quantity: 100}
	dst := Inventory{PlanetID: 2, ResourceID: 7, Quantity: 0}

	gotSrc, gotDst, err := ApplyTransfer(src, dst, 40)
	if err != nil {
		t.Fatalf("transfer error: %v", err)
	}
	if gotSrc.Quantity != 60 || gotDst.Quantity != 40 {
		t.Fatalf("expected 60/40, got %v/%v", gotSrc.Quantity, gotDst.Quantity)
	}
}

func TestApplyTransfer_RejectsOverdraw(t *testing.T) {
	src := Inventory{PlanetID: 1, ResourceID: 7, Quantity: 100}
	dst := Inventory{PlanetID: 2, ResourceID: 7, Quantity: 5}

	gotSrc, gotDst, err := ApplyTransfer(src, dst, 150)
	if !errors.Is(err, ErrInsufficientResources) {
		t.Fatalf("expected ErrInsufficientResources, got %v", err)
	}
	var insufficient *InsufficientResourcesError
	if !errors.As(err, &insufficient) || insufficient.Available != 100 || insufficient.Requested != 150 {
		t.Fatalf("unexpected error detail: %+v", insufficient)
	}
	if gotSrc.Quantity != 100 || gotDst.Quantity != 5 {
		t.Fatalf("rows must be unchanged, got %v/%v", gotSrc.Quantity, gotDst.Quantity)
	}
}

func TestApplyTransfer_RejectsNegativeQuantity(t *testing.T) {
	_, _, err := ApplyTransfer(Inventory{Quantity: 10}, Inventory{}, -1)
	if !errors.Is(err, ErrInvalidQuantity) {
		t.Fatalf("expected ErrInvalidQuantity, got %v", err)
	}
}

func TestInventoryKeyLess_OrdersByPlanetThenResource(t *testing.T) {
	a := InventoryKey{PlanetID: 1, ResourceID: 9}
	b := InventoryKey{PlanetID: 2, ResourceID: 1}
	c := InventoryKey{PlanetID: 2, ResourceID: 3}
	if !a.Less(b) || !b.Less(c) || c.Less(a) || a.Less(a) {
		t.Fatalf("unexpected key ordering")
	}
}

func TestUniverseBounds(t *testing.T) {
	if _, ok := UniverseBounds(nil); ok {
		t.Fatalf("expected no bounds for empty universe")
	}
	b, ok := UniverseBounds([]Planet{
		{Coordinates: Coordinates{X: -5, Y: 10, Z: 0}},
		{Coordinates: Coordinates{X: 20, Y: -3, Z: 7}},
	})
	if !ok {
		t.Fatalf("expected bounds")
	}
	if b.Min != (Coordinates{X: -5, Y: -3, Z: 0}) || b.Max != (Coordinates{X: 20, Y: 10, Z: 7}) {
		t.Fatalf("unexpected bounds: %+v", b)
	}
}

func TestVolatility(t *testing.T) {
	got := Volatility([]PriceSnapshot{{Price: 10}, {Price: 20}, {Price: 30}})
	if math.Abs(got-1.0) > 1e-9 {
		t.Fatalf("expected volatility 1.0, got %v", got)
	}
	if Volatility(nil) != 0 {
		t.Fatalf("expected zero volatility for empty history")
	}
}
