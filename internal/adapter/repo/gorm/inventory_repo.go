package gormrepo

import (
	"context"

	"galaxytrade/internal/adapter/repo/gorm/model"
	"galaxytrade/internal/app/ports"
	"galaxytrade/internal/domain/economy"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type InventoryRepo struct {
	db *gorm.DB
}

func NewInventoryRepo(db *gorm.DB) InventoryRepo {
	return InventoryRepo{db: db}
}

func (r InventoryRepo) find(db *gorm.DB, key economy.InventoryKey) (economy.Inventory, error) {
	var m model.ResourceInventory
	if err := db.Where("planet_id = ? AND resource_id = ?", key.PlanetID, key.ResourceID).First(&m).Error; err != nil {
		return economy.Inventory{}, translateError(err)
	}
	return inventoryFromModel(m), nil
}

func (r InventoryRepo) Get(ctx context.Context, key economy.InventoryKey) (economy.Inventory, error) {
	return r.find(getDBFromCtx(ctx, r.db), key)
}

func (r InventoryRepo) GetForUpdate(ctx context.Context, key economy.InventoryKey) (economy.Inventory, error) {
	return r.find(getDBFromCtx(ctx, r.db).Clauses(clause.Locking{Strength: "UPDATE"}), key)
}

// GetOrCreateForUpdate relies on the (planet_id, resource_id) unique key: a
// concurrent creator makes the insert a no-op and the locking read then
// waits for that creator to commit.
func (r InventoryRepo) GetOrCreateForUpdate(ctx context.Context, seed economy.Inventory) (economy.Inventory, error) {
	db := getDBFromCtx(ctx, r.db)
	m := inventoryToModel(seed)
	m.ID = 0
	err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "planet_id"}, {Name: "resource_id"}},
		DoNothing: true,
	}).Create(&m).Error
	if err != nil {
		return economy.Inventory{}, translateError(err)
	}
	return r.GetForUpdate(ctx, seed.Key())
}

func (r InventoryRepo) Save(ctx context.Context, inv economy.Inventory) error {
	m := inventoryToModel(inv)
	res := getDBFromCtx(ctx, r.db).Model(&model.ResourceInventory{}).
		Where("planet_id = ? AND resource_id = ?", inv.PlanetID, inv.ResourceID).
		Updates(map[string]any{
			"quantity":         m.Quantity,
			"current_price":    m.CurrentPrice,
			"demand_factor":    m.DemandFactor,
			"production_rate":  m.ProductionRate,
			"consumption_rate": m.ConsumptionRate,
			"updated_at":       m.UpdatedAt,
		})
	if res.Error != nil {
		return translateError(res.Error)
	}
	if res.RowsAffected == 0 {
		return ports.ErrNotFound
	}
	return nil
}

func (r InventoryRepo) ListByPlanet(ctx context.Context, planetID int64) ([]economy.Inventory, error) {
	return r.list(getDBFromCtx(ctx, r.db).Where("planet_id = ?", planetID))
}

func (r InventoryRepo) ListAll(ctx context.Context) ([]economy.Inventory, error) {
	return r.list(getDBFromCtx(ctx, r.db))
}

func (r InventoryRepo) list(db *gorm.DB) ([]economy.Inventory, error) {
	var rows []model.ResourceInventory
	if err := db.Order("planet_id ASC, resource_id ASC").Find(&rows).Error; err != nil {
		return nil, translateError(err)
	}
	out := make([]economy.Inventory, 0, len(rows))
	for _, m := range rows {
		out = append(out, inventoryFromModel(m))
	}
	return out, nil
}

type PriceHistoryRepo struct {
	db *gorm.DB
}

func NewPriceHistoryRepo(db *gorm.DB) PriceHistoryRepo {
	return PriceHistoryRepo{db: db}
}

func (r PriceHistoryRepo) Append(ctx context.Context, rows []economy.PriceSnapshot) error {
	if len(rows) == 0 {
		return nil
	}
	models := make([]model.ResourcePriceHistory, 0, len(rows))
	for _, s := range rows {
		models = append(models, model.ResourcePriceHistory{
			PlanetID:     s.PlanetID,
			ResourceID:   s.ResourceID,
			Price:        dec(s.Price),
			Quantity:     dec(s.Quantity),
			DemandFactor: dec(s.DemandFactor),
			RecordedAt:   s.RecordedAt,
		})
	}
	return translateError(getDBFromCtx(ctx, r.db).Create(&models).Error)
}

func (r PriceHistoryRepo) ListRecent(ctx context.Context, key economy.InventoryKey, limit int) ([]economy.PriceSnapshot, error) {
	q := getDBFromCtx(ctx, r.db).
		Where("planet_id = ? AND resource_id = ?", key.PlanetID, key.ResourceID).
		Order("recorded_at DESC, id DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	var rows []model.ResourcePriceHistory
	if err := q.Find(&rows).Error; err != nil {
		return nil, translateError(err)
	}
	out := make([]economy.PriceSnapshot, len(rows))
	for i, m := range rows {
		out[len(rows)-1-i] = snapshotFromModel(m)
	}
	return out, nil
}

func (r PriceHistoryRepo) ListByResource(ctx context.Context, resourceID int64) ([]economy.PriceSnapshot, error) {
	var rows []model.ResourcePriceHistory
	if err := getDBFromCtx(ctx, r.db).Where("resource_id = ?", resourceID).Order("id ASC").Find(&rows).Error; err != nil {
		return nil, translateError(err)
	}
	out := make([]economy.PriceSnapshot, 0, len(rows))
	for _, m := range rows {
		out = append(out, snapshotFromModel(m))
	}
	return out, nil
}
