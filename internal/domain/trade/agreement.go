package trade

import (
	"math"
	"time"
)

type CyclePeriod string

const (
	CycleDaily   CyclePeriod = "daily"
	CycleWeekly  CyclePeriod = "weekly"
	CycleMonthly CyclePeriod = "monthly"
)

func (c CyclePeriod) Valid() bool {
	switch c {
	case CycleDaily, CycleWeekly, CycleMonthly:
		return true
	default:
		return false
	}
}

// After advances t by one calendar cycle.
func (c CyclePeriod) After(t time.Time) (time.Time, bool) {
	switch c {
	case CycleDaily:
		return t.AddDate(0, 0, 1), true
	case CycleWeekly:
		return t.AddDate(0, 0, 7), true
	case CycleMonthly:
		return t.AddDate(0, 1, 0), true
	default:
		return time.Time{}, false
	}
}

type AgreementStatus string

const (
	AgreementPending    AgreementStatus = "pending"
	AgreementActive     AgreementStatus = "active"
	AgreementSuspended  AgreementStatus = "suspended"
	AgreementTerminated AgreementStatus = "terminated"
)

func (s AgreementStatus) Valid() bool {
	switch s {
	case AgreementPending, AgreementActive, AgreementSuspended, AgreementTerminated:
		return true
	default:
		return false
	}
}

type Agreement struct {
	ID                  int64           `json:"id"`
	Name                string          `json:"name"`
	SourcePlanetID      int64           `json:"source_planet_id"`
	DestinationPlanetID int64           `json:"destination_planet_id"`
	ResourceID          int64           `json:"resource_id"`
	QuantityPerCycle    float64         `json:"quantity_per_cycle"`
	PricePerUnit        float64         `json:"price_per_unit"`
	CyclePeriod         CyclePeriod     `json:"cycle_period"`
	StartDate           time.Time       `json:"start_date"`
	EndDate             *time.Time      `json:"end_date,omitempty"`
	Terms               string          `json:"terms,omitempty"`
	Status              AgreementStatus `json:"status"`
	LastExecution       *time.Time      `json:"last_execution,omitempty"`
}

func (a Agreement) Validate() error {
	if a.SourcePlanetID == 0 || a.DestinationPlanetID == 0 || a.ResourceID == 0 {
		return ErrInvalidAgreement
	}
	if a.SourcePlanetID == a.DestinationPlanetID {
		return ErrInvalidAgreement
	}
	if a.QuantityPerCycle < 0 || math.IsNaN(a.QuantityPerCycle) || a.PricePerUnit < 0 {
		return ErrInvalidAgreement
	}
	if !a.CyclePeriod.Valid() || !a.Status.Valid() {
		return ErrInvalidAgreement
	}
	if a.EndDate != nil && !a.EndDate.After(a.StartDate) {
		return ErrInvalidAgreement
	}
	return nil
}

// ShouldExecute reports whether the agreement is due at now. It only reads
// the agreement, so repeated calls with the same now agree.
func (a Agreement) ShouldExecute(now time.Time) bool {
	if a.Status != AgreementActive {
		return false
	}
	if a.EndDate != nil && a.EndDate.Before(now) {
		return false
	}
	if a.StartDate.After(now) {
		return false
	}
	if a.LastExecution == nil {
		return true
	}
	next, ok := a.CyclePeriod.After(*a.LastExecution)
	if !ok {
		return false
	}
	return !next.After(now)
}

// NextExecution is when the agreement next becomes due. ok is false for an
// unknown cycle period.
func (a Agreement) NextExecution(now time.Time) (time.Time, bool) {
	if a.LastExecution == nil {
		if a.StartDate.After(now) {
			return a.StartDate, true
		}
		return now, true
	}
	return a.CyclePeriod.After(*a.LastExecution)
}

func (a Agreement) RequireActive() error {
	if a.Status != AgreementActive {
		return ErrAgreementNotActive
	}
	return nil
}
