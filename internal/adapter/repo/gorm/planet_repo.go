package gormrepo

import (
	"context"

	"galaxytrade/internal/adapter/repo/gorm/model"
	"galaxytrade/internal/domain/economy"

	"gorm.io/gorm"
)

type PlanetRepo struct {
	db *gorm.DB
}

func NewPlanetRepo(db *gorm.DB) PlanetRepo {
	return PlanetRepo{db: db}
}

func (r PlanetRepo) Get(ctx context.Context, id int64) (economy.Planet, error) {
	var m model.Planet
	if err := getDBFromCtx(ctx, r.db).Where("id = ?", id).First(&m).Error; err != nil {
		return economy.Planet{}, translateError(err)
	}
	return planetFromModel(m), nil
}

func (r PlanetRepo) List(ctx context.Context) ([]economy.Planet, error) {
	var rows []model.Planet
	if err := getDBFromCtx(ctx, r.db).Order("id ASC").Find(&rows).Error; err != nil {
		return nil, translateError(err)
	}
	out := make([]economy.Planet, 0, len(rows))
	for _, m := range rows {
		out = append(out, planetFromModel(m))
	}
	return out, nil
}

// Create is used by seeding and tests; planets are otherwise managed outside
// the trade engine.
func (r PlanetRepo) Create(ctx context.Context, p economy.Planet) (economy.Planet, error) {
	m := model.Planet{
		Name:        p.Name,
		Description: p.Description,
		Coordinates: toPoint(p.Coordinates),
		Color:       p.Color,
	}
	if err := getDBFromCtx(ctx, r.db).Create(&m).Error; err != nil {
		return economy.Planet{}, translateError(err)
	}
	return planetFromModel(m), nil
}

type ResourceRepo struct {
	db *gorm.DB
}

func NewResourceRepo(db *gorm.DB) ResourceRepo {
	return ResourceRepo{db: db}
}

func (r ResourceRepo) Get(ctx context.Context, id int64) (economy.Resource, error) {
	var m model.Resource
	if err := getDBFromCtx(ctx, r.db).Where("id = ?", id).First(&m).Error; err != nil {
		return economy.Resource{}, translateError(err)
	}
	return resourceFromModel(m), nil
}

func (r ResourceRepo) List(ctx context.Context) ([]economy.Resource, error) {
	var rows []model.Resource
	if err := getDBFromCtx(ctx, r.db).Order("id ASC").Find(&rows).Error; err != nil {
		return nil, translateError(err)
	}
	out := make([]economy.Resource, 0, len(rows))
	for _, m := range rows {
		out = append(out, resourceFromModel(m))
	}
	return out, nil
}

func (r ResourceRepo) Create(ctx context.Context, res economy.Resource) (economy.Resource, error) {
	if err := res.Validate(); err != nil {
		return economy.Resource{}, err
	}
	m := model.Resource{
		Name:          res.Name,
		Description:   res.Description,
		BasePrice:     dec(res.BasePrice),
		Rarity:        string(res.Rarity),
		Unit:          string(res.Unit),
		WeightPerUnit: dec(res.WeightPerUnit),
	}
	if err := getDBFromCtx(ctx, r.db).Create(&m).Error; err != nil {
		return economy.Resource{}, translateError(err)
	}
	return resourceFromModel(m), nil
}
