package gormrepo

import (
	"context"

	"galaxytrade/internal/adapter/repo/gorm/model"
	"galaxytrade/internal/app/ports"
	"galaxytrade/internal/domain/trade"

	"gorm.io/gorm"
)

type RouteRepo struct {
	db *gorm.DB
}

func NewRouteRepo(db *gorm.DB) RouteRepo {
	return RouteRepo{db: db}
}

func (r RouteRepo) Get(ctx context.Context, id int64) (trade.Route, error) {
	var m model.TradeRoute
	if err := getDBFromCtx(ctx, r.db).Where("id = ?", id).First(&m).Error; err != nil {
		return trade.Route{}, translateError(err)
	}
	return routeFromModel(m), nil
}

func (r RouteRepo) List(ctx context.Context) ([]trade.Route, error) {
	var rows []model.TradeRoute
	if err := getDBFromCtx(ctx, r.db).Order("id ASC").Find(&rows).Error; err != nil {
		return nil, translateError(err)
	}
	out := make([]trade.Route, 0, len(rows))
	for _, m := range rows {
		out = append(out, routeFromModel(m))
	}
	return out, nil
}

func (r RouteRepo) ExistsBetween(ctx context.Context, startPlanetID, destinationPlanetID int64) (bool, error) {
	var count int64
	err := getDBFromCtx(ctx, r.db).Model(&model.TradeRoute{}).
		Where("starting_planet_id = ? AND destination_planet_id = ?", startPlanetID, destinationPlanetID).
		Count(&count).Error
	if err != nil {
		return false, translateError(err)
	}
	return count > 0, nil
}

func (r RouteRepo) Create(ctx context.Context, route trade.Route) (trade.Route, error) {
	m := model.TradeRoute{
		Name:                route.Name,
		StartingPlanetID:    route.StartingPlanetID,
		DestinationPlanetID: route.DestinationPlanetID,
		ResourceID:          route.ResourceID,
		TravelTime:          int32(route.TravelTime),
	}
	if err := getDBFromCtx(ctx, r.db).Create(&m).Error; err != nil {
		return trade.Route{}, translateError(err)
	}
	return routeFromModel(m), nil
}

func (r RouteRepo) Update(ctx context.Context, route trade.Route) error {
	res := getDBFromCtx(ctx, r.db).Model(&model.TradeRoute{}).
		Where("id = ?", route.ID).
		Updates(map[string]any{
			"name":        route.Name,
			"travel_time": int32(route.TravelTime),
			"updated_at":  gorm.Expr("NOW()"),
		})
	if res.Error != nil {
		return translateError(res.Error)
	}
	if res.RowsAffected == 0 {
		return ports.ErrNotFound
	}
	return nil
}
