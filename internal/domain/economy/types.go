package economy

import (
	"math"
	"time"
)

type Coordinates struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

func Distance(a, b Coordinates) float64 {
	dx := b.X - a.X
	dy := b.Y - a.Y
	dz := b.Z - a.Z
	return math.Sqrt(dx*dx + dy*dy + dz*dz)
}

type Planet struct {
	ID          int64       `json:"id"`
	Name        string      `json:"name"`
	Description string      `json:"description,omitempty"`
	Coordinates Coordinates `json:"coordinates"`
	Color       string      `json:"color,omitempty"`
}

type Rarity string

const (
	RarityCommon    Rarity = "common"
	RarityUncommon  Rarity = "uncommon"
	RarityRare      Rarity = "rare"
	RarityEpic      Rarity = "epic"
	RarityLegendary Rarity = "legendary"
)

func (r Rarity) Valid() bool {
	switch r {
	case RarityCommon, RarityUncommon, RarityRare, RarityEpic, RarityLegendary:
		return true
	default:
		return false
	}
}

type Unit string

const (
	UnitKilogram Unit = "kg"
	UnitTon      Unit = "ton"
	UnitPiece    Unit = "piece"
	UnitLiter    Unit = "liter"
	UnitBarrel   Unit = "barrel"
)

func (u Unit) Valid() bool {
	switch u {
	case UnitKilogram, UnitTon, UnitPiece, UnitLiter, UnitBarrel:
		return true
	default:
		return false
	}
}

type Resource struct {
	ID            int64   `json:"id"`
	Name          string  `json:"name"`
	Description   string  `json:"description,omitempty"`
	BasePrice     float64 `json:"base_price"`
	Rarity        Rarity  `json:"rarity"`
	Unit          Unit    `json:"unit"`
	WeightPerUnit float64 `json:"weight_per_unit"`
}

func (r Resource) Validate() error {
	if r.BasePrice < 0 || math.IsNaN(r.BasePrice) {
		return ErrInvalidResource
	}
	if !(r.WeightPerUnit > 0) {
		return ErrInvalidResource
	}
	if !r.Rarity.Valid() || !r.Unit.Valid() {
		return ErrInvalidResource
	}
	return nil
}

// InventoryKey identifies one (planet, resource) ledger row.
type InventoryKey struct {
	PlanetID   int64 `json:"planet_id"`
	ResourceID int64 `json:"resource_id"`
}

// Less orders keys by planet then resource. Row locks are always taken in
// this order so two transfers over the same pair of rows cannot deadlock.
func (k InventoryKey) Less(o InventoryKey) bool {
	if k.PlanetID != o.PlanetID {
		return k.PlanetID < o.PlanetID
	}
	return k.ResourceID < o.ResourceID
}

type Inventory struct {
	ID              int64     `json:"id"`
	PlanetID        int64     `json:"planet_id"`
	ResourceID      int64     `json:"resource_id"`
	Quantity        float64   `json:"quantity"`
	CurrentPrice    float64   `json:"current_price"`
	DemandFactor    float64   `json:"demand_factor"`
	ProductionRate  float64   `json:"production_rate"`
	ConsumptionRate float64   `json:"consumption_rate"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func (i Inventory) Key() InventoryKey {
	return InventoryKey{PlanetID: i.PlanetID, ResourceID: i.ResourceID}
}

func (i Inventory) Validate() error {
	if i.Quantity < 0 || math.IsNaN(i.Quantity) {
		return ErrInvalidQuantity
	}
	if i.CurrentPrice < 0 || i.ProductionRate < 0 || i.ConsumptionRate < 0 {
		return ErrInvalidInventory
	}
	if i.DemandFactor < MinDemandFactor || i.DemandFactor > MaxDemandFactor {
		return ErrInvalidInventory
	}
	return nil
}

// NewInventory seeds an empty row for a planet that has never held the
// resource. The seed price is overwritten by the first Reprice.
func NewInventory(key InventoryKey, seedPrice float64, now time.Time) Inventory {
	return Inventory{
		PlanetID:     key.PlanetID,
		ResourceID:   key.ResourceID,
		CurrentPrice: seedPrice,
		DemandFactor: 1.0,
		UpdatedAt:    now,
	}
}

type PriceSnapshot struct {
	ID           int64     `json:"id"`
	PlanetID     int64     `json:"planet_id"`
	ResourceID   int64     `json:"resource_id"`
	Price        float64   `json:"price"`
	Quantity     float64   `json:"quantity"`
	DemandFactor float64   `json:"demand_factor"`
	RecordedAt   time.Time `json:"recorded_at"`
}

func Snapshot(inv Inventory, at time.Time) PriceSnapshot {
	return PriceSnapshot{
		PlanetID:     inv.PlanetID,
		ResourceID:   inv.ResourceID,
		Price:        inv.CurrentPrice,
		Quantity:     inv.Quantity,
		DemandFactor: inv.DemandFactor,
		RecordedAt:   at,
	}
}

// Bounds is the axis-aligned box enclosing a set of points.
type Bounds struct {
	Min Coordinates `json:"min"`
	Max Coordinates `json:"max"`
}

func (b Bounds) Extent() Coordinates {
	return Coordinates{X: b.Max.X - b.Min.X, Y: b.Max.Y - b.Min.Y, Z: b.Max.Z - b.Min.Z}
}

// UniverseBounds returns the bounding box of all planet coordinates. ok is
// false when planets is empty.
func UniverseBounds(planets []Planet) (Bounds, bool) {
	if len(planets) == 0 {
		return Bounds{}, false
	}
	b := Bounds{Min: planets[0].Coordinates, Max: planets[0].Coordinates}
	for _, p := range planets[1:] {
		c := p.Coordinates
		b.Min.X = math.Min(b.Min.X, c.X)
		b.Min.Y = math.Min(b.Min.Y, c.Y)
		b.Min.Z = math.Min(b.Min.Z, c.Z)
		b.Max.X = math.Max(b.Max.X, c.X)
		b.Max.Y = math.Max(b.Max.Y, c.Y)
		b.Max.Z = math.Max(b.Max.Z, c.Z)
	}
	return b, true
}
