package gormrepo

import (
	"context"
	"time"

	"galaxytrade/internal/adapter/repo/gorm/model"
	"galaxytrade/internal/app/ports"
	"galaxytrade/internal/domain/trade"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type AgreementRepo struct {
	db *gorm.DB
}

func NewAgreementRepo(db *gorm.DB) AgreementRepo {
	return AgreementRepo{db: db}
}

func (r AgreementRepo) find(db *gorm.DB, id int64) (trade.Agreement, error) {
	var m model.TradeAgreement
	if err := db.Where("id = ?", id).First(&m).Error; err != nil {
		return trade.Agreement{}, translateError(err)
	}
	return agreementFromModel(m), nil
}

func (r AgreementRepo) Get(ctx context.Context, id int64) (trade.Agreement, error) {
	return r.find(getDBFromCtx(ctx, r.db), id)
}

func (r AgreementRepo) GetForUpdate(ctx context.Context, id int64) (trade.Agreement, error) {
	return r.find(getDBFromCtx(ctx, r.db).Clauses(clause.Locking{Strength: "UPDATE"}), id)
}

func (r AgreementRepo) ListExecutable(ctx context.Context, now time.Time) ([]trade.Agreement, error) {
	var rows []model.TradeAgreement
	err := getDBFromCtx(ctx, r.db).
		Where("status = ?", string(trade.AgreementActive)).
		Where("start_date <= ?", now).
		Where("end_date IS NULL OR end_date >= ?", now).
		Order("id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, translateError(err)
	}
	out := make([]trade.Agreement, 0, len(rows))
	for _, m := range rows {
		out = append(out, agreementFromModel(m))
	}
	return out, nil
}

func (r AgreementRepo) RecordExecution(ctx context.Context, id int64, at time.Time) error {
	res := getDBFromCtx(ctx, r.db).Model(&model.TradeAgreement{}).
		Where("id = ?", id).
		Updates(map[string]any{"last_execution": at, "updated_at": gorm.Expr("NOW()")})
	if res.Error != nil {
		return translateError(res.Error)
	}
	if res.RowsAffected == 0 {
		return ports.ErrNotFound
	}
	return nil
}

// Create is used by seeding and tests.
func (r AgreementRepo) Create(ctx context.Context, a trade.Agreement) (trade.Agreement, error) {
	if err := a.Validate(); err != nil {
		return trade.Agreement{}, err
	}
	m := model.TradeAgreement{
		Name:                a.Name,
		SourcePlanetID:      a.SourcePlanetID,
		DestinationPlanetID: a.DestinationPlanetID,
		ResourceID:          a.ResourceID,
		QuantityPerCycle:    dec(a.QuantityPerCycle),
		PricePerUnit:        dec(a.PricePerUnit),
		CyclePeriod:         string(a.CyclePeriod),
		StartDate:           a.StartDate,
		EndDate:             a.EndDate,
		Terms:               a.Terms,
		Status:              string(a.Status),
		LastExecution:       a.LastExecution,
	}
	if err := getDBFromCtx(ctx, r.db).Create(&m).Error; err != nil {
		return trade.Agreement{}, translateError(err)
	}
	return agreementFromModel(m), nil
}
