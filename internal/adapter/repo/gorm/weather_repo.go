package gormrepo

import (
	"context"
	"time"

	"galaxytrade/internal/adapter/repo/gorm/model"
	"galaxytrade/internal/app/ports"
	"galaxytrade/internal/domain/weather"

	"gorm.io/gorm"
)

type WeatherRepo struct {
	db *gorm.DB
}

func NewWeatherRepo(db *gorm.DB) WeatherRepo {
	return WeatherRepo{db: db}
}

func (r WeatherRepo) Create(ctx context.Context, e weather.Event) (weather.Event, error) {
	m := weatherToModel(e)
	m.ID = 0
	if err := getDBFromCtx(ctx, r.db).Create(&m).Error; err != nil {
		return weather.Event{}, translateError(err)
	}
	return weatherFromModel(m), nil
}

func (r WeatherRepo) ListActive(ctx context.Context, now time.Time) ([]weather.Event, error) {
	var rows []model.SpaceWeather
	err := getDBFromCtx(ctx, r.db).
		Where("start_time <= ? AND end_time > ?", now, now).
		Order("id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, translateError(err)
	}
	out := make([]weather.Event, 0, len(rows))
	for _, m := range rows {
		out = append(out, weatherFromModel(m))
	}
	return out, nil
}

func (r WeatherRepo) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	res := getDBFromCtx(ctx, r.db).Where("end_time <= ?", now).Delete(&model.SpaceWeather{})
	if res.Error != nil {
		return 0, translateError(res.Error)
	}
	return res.RowsAffected, nil
}

func (r WeatherRepo) Delete(ctx context.Context, id int64) error {
	res := getDBFromCtx(ctx, r.db).Where("id = ?", id).Delete(&model.SpaceWeather{})
	if res.Error != nil {
		return translateError(res.Error)
	}
	if res.RowsAffected == 0 {
		return ports.ErrNotFound
	}
	return nil
}
