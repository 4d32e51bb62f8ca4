package gormrepo

import (
	"context"

	"galaxytrade/internal/adapter/repo/gorm/model"
	"galaxytrade/internal/app/ports"
	"galaxytrade/internal/domain/fleet"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type StarshipRepo struct {
	db *gorm.DB
}

func NewStarshipRepo(db *gorm.DB) StarshipRepo {
	return StarshipRepo{db: db}
}

func (r StarshipRepo) find(db *gorm.DB, id int64) (fleet.Starship, error) {
	var m model.Starship
	if err := db.Where("id = ?", id).First(&m).Error; err != nil {
		return fleet.Starship{}, translateError(err)
	}
	return starshipFromModel(m), nil
}

func (r StarshipRepo) Get(ctx context.Context, id int64) (fleet.Starship, error) {
	return r.find(getDBFromCtx(ctx, r.db), id)
}

func (r StarshipRepo) GetForUpdate(ctx context.Context, id int64) (fleet.Starship, error) {
	return r.find(getDBFromCtx(ctx, r.db).Clauses(clause.Locking{Strength: "UPDATE"}), id)
}

func (r StarshipRepo) ListInTransit(ctx context.Context) ([]fleet.Starship, error) {
	return r.list(getDBFromCtx(ctx, r.db).Where("status = ?", string(fleet.StatusInTransit)))
}

func (r StarshipRepo) ListByRoute(ctx context.Context, routeID int64) ([]fleet.Starship, error) {
	return r.list(getDBFromCtx(ctx, r.db).Where("trade_route_id = ?", routeID))
}

func (r StarshipRepo) list(db *gorm.DB) ([]fleet.Starship, error) {
	var rows []model.Starship
	if err := db.Order("id ASC").Find(&rows).Error; err != nil {
		return nil, translateError(err)
	}
	out := make([]fleet.Starship, 0, len(rows))
	for _, m := range rows {
		out = append(out, starshipFromModel(m))
	}
	return out, nil
}

// Save writes every mutable column; nil pointers clear the column.
func (r StarshipRepo) Save(ctx context.Context, ship fleet.Starship) error {
	res := getDBFromCtx(ctx, r.db).Model(&model.Starship{}).
		Where("id = ?", ship.ID).
		Updates(map[string]any{
			"name":                ship.Name,
			"description":         ship.Description,
			"cargo_capacity":      dec(ship.CargoCapacity),
			"trade_route_id":      ship.TradeRouteID,
			"status":              string(ship.Status),
			"current_location_id": ship.CurrentLocationID,
			"destination_id":      ship.DestinationID,
			"departure_time":      ship.DepartureTime,
			"arrival_time":        ship.ArrivalTime,
			"maintenance_due_at":  ship.MaintenanceDueAt,
			"updated_at":          gorm.Expr("NOW()"),
		})
	if res.Error != nil {
		return translateError(res.Error)
	}
	if res.RowsAffected == 0 {
		return ports.ErrNotFound
	}
	return nil
}

func (r StarshipRepo) Create(ctx context.Context, ship fleet.Starship) (fleet.Starship, error) {
	if err := ship.CheckInvariant(); err != nil {
		return fleet.Starship{}, err
	}
	m := model.Starship{
		Name:              ship.Name,
		Description:       ship.Description,
		CargoCapacity:     dec(ship.CargoCapacity),
		TradeRouteID:      ship.TradeRouteID,
		Status:            string(ship.Status),
		CurrentLocationID: ship.CurrentLocationID,
		DestinationID:     ship.DestinationID,
		DepartureTime:     ship.DepartureTime,
		ArrivalTime:       ship.ArrivalTime,
		MaintenanceDueAt:  ship.MaintenanceDueAt,
	}
	if err := getDBFromCtx(ctx, r.db).Create(&m).Error; err != nil {
		return fleet.Starship{}, translateError(err)
	}
	return starshipFromModel(m), nil
}
