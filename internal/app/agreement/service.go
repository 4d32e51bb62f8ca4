package agreement

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"galaxytrade/internal/app/ledger"
	"galaxytrade/internal/app/ports"
	"galaxytrade/internal/domain/economy"
	"galaxytrade/internal/domain/trade"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

const defaultWorkers = 4

// errNotDue marks an agreement that stopped being due between listing and
// locking, usually because a concurrent run executed it first.
var errNotDue = errors.New("agreement no longer due")

type Transferer interface {
	Transfer(ctx context.Context, req ledger.TransferRequest) (ledger.TransferResult, error)
}

type Service struct {
	TxManager  ports.TxManager
	Agreements ports.AgreementRepository
	Ledger     Transferer
	Metrics    ports.ExecutionMetrics
	Logger     *slog.Logger
	// Workers bounds how many agreements execute at once. Each one runs in
	// its own transaction, so parallelism never widens a failure.
	Workers int
	Now     func() time.Time
}

type Failure struct {
	AgreementID int64  `json:"agreement_id"`
	Reason      string `json:"reason"`
	Message     string `json:"message"`
}

type BatchResult struct {
	RunID     string    `json:"run_id"`
	Processed int       `json:"processed"`
	Failed    int       `json:"failed"`
	Skipped   int       `json:"skipped"`
	Failures  []Failure `json:"failures"`
}

type Execution struct {
	Agreement trade.Agreement       `json:"agreement"`
	Transfer  ledger.TransferResult `json:"transfer"`
}

func (s Service) logger() *slog.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return slog.Default().With("component", "agreement_scheduler")
}

func (s Service) now(t time.Time) time.Time {
	if !t.IsZero() {
		return t
	}
	if s.Now != nil {
		return s.Now()
	}
	return time.Now().UTC()
}

// ExecuteDue runs every agreement due at now. Agreements execute in
// independent transactions; a failing one is recorded in the result and never
// rolls back or blocks the others.
func (s Service) ExecuteDue(ctx context.Context, now time.Time) (BatchResult, error) {
	now = s.now(now)
	result := BatchResult{RunID: uuid.NewString(), Failures: []Failure{}}
	log := s.logger().With("run_id", result.RunID)

	candidates, err := s.Agreements.ListExecutable(ctx, now)
	if err != nil {
		return result, fmt.Errorf("list executable agreements: %w", err)
	}
	due := candidates[:0]
	for _, a := range candidates {
		if a.ShouldExecute(now) {
			due = append(due, a)
		}
	}

	workers := s.Workers
	if workers <= 0 {
		workers = defaultWorkers
	}
	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for _, a := range due {
		g.Go(func() error {
			if gctx.Err() != nil {
				return gctx.Err()
			}
			_, err := s.execute(gctx, a.ID, now, true)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				result.Processed++
				if s.Metrics != nil {
					s.Metrics.RecordAgreementExecuted()
				}
			case errors.Is(err, errNotDue):
				result.Skipped++
			default:
				reason := Reason(err)
				result.Failed++
				result.Failures = append(result.Failures, Failure{AgreementID: a.ID, Reason: reason, Message: err.Error()})
				if s.Metrics != nil {
					s.Metrics.RecordAgreementFailed(reason)
				}
				log.Error("trade agreement execution failed", "agreement_id", a.ID, "reason", reason, "err", err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return result, err
	}
	sort.Slice(result.Failures, func(i, j int) bool { return result.Failures[i].AgreementID < result.Failures[j].AgreementID })
	log.Info("trade agreement batch finished",
		"due", len(due),
		"processed", result.Processed,
		"failed", result.Failed,
		"skipped", result.Skipped,
	)
	return result, nil
}

// ExecuteOne runs a single agreement on operator request. It ignores the
// cycle but requires the agreement to be active.
func (s Service) ExecuteOne(ctx context.Context, id int64, now time.Time) (Execution, error) {
	exec, err := s.execute(ctx, id, s.now(now), false)
	if err != nil {
		if s.Metrics != nil {
			s.Metrics.RecordAgreementFailed(Reason(err))
		}
		return Execution{}, err
	}
	if s.Metrics != nil {
		s.Metrics.RecordAgreementExecuted()
	}
	return exec, nil
}

func (s Service) execute(ctx context.Context, id int64, now time.Time, requireDue bool) (Execution, error) {
	var out Execution
	err := s.TxManager.RunInTx(ctx, func(txCtx context.Context) error {
		a, err := s.Agreements.GetForUpdate(txCtx, id)
		if err != nil {
			return fmt.Errorf("agreement %d: %w", id, err)
		}
		if requireDue {
			if !a.ShouldExecute(now) {
				return errNotDue
			}
		} else if err := a.RequireActive(); err != nil {
			return err
		}

		price := a.PricePerUnit
		res, err := s.Ledger.Transfer(txCtx, ledger.TransferRequest{
			SourcePlanetID:      a.SourcePlanetID,
			DestinationPlanetID: a.DestinationPlanetID,
			ResourceID:          a.ResourceID,
			Quantity:            a.QuantityPerCycle,
			SeedPrice:           &price,
			At:                  now,
		})
		if err != nil {
			return err
		}
		if err := s.Agreements.RecordExecution(txCtx, a.ID, now); err != nil {
			return fmt.Errorf("record execution: %w", err)
		}
		executed := now
		a.LastExecution = &executed
		out = Execution{Agreement: a, Transfer: res}
		return nil
	})
	return out, err
}

// Reason is the stable code reported for a failed execution.
func Reason(err error) string {
	switch {
	case errors.Is(err, economy.ErrInsufficientResources):
		return "insufficient_resources"
	case errors.Is(err, ledger.ErrSourceInventoryMissing):
		return "source_inventory_missing"
	case errors.Is(err, trade.ErrAgreementNotActive):
		return "agreement_not_active"
	case errors.Is(err, ports.ErrLockTimeout):
		return "lock_timeout"
	case errors.Is(err, ports.ErrConflict):
		return "conflict"
	case errors.Is(err, ports.ErrNotFound):
		return "not_found"
	case errors.Is(err, economy.ErrInvalidQuantity), errors.Is(err, economy.ErrSamePlanet):
		return "invalid_agreement"
	default:
		return "internal"
	}
}
