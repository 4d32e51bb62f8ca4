package inmemory

import "sync"

type Snapshot struct {
	TransfersTotal     uint64            `json:"transfers_total"`
	AgreementsExecuted uint64            `json:"agreements_executed"`
	AgreementsFailed   uint64            `json:"agreements_failed"`
	ShipsDelayed       uint64            `json:"ships_delayed"`
	LockConflicts      uint64            `json:"lock_conflicts"`
	FailuresByReason   map[string]uint64 `json:"failures_by_reason"`
}

type Recorder struct {
	mu        sync.Mutex
	transfers uint64
	executed  uint64
	failed    uint64
	delayed   uint64
	conflict  uint64
	byReason  map[string]uint64
}

func NewRecorder() *Recorder {
	return &Recorder{
		byReason: map[string]uint64{},
	}
}

func (r *Recorder) RecordTransfer() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.transfers++
}

func (r *Recorder) RecordAgreementExecuted() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.executed++
}

func (r *Recorder) RecordAgreementFailed(reason string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failed++
	r.byReason[reason]++
}

func (r *Recorder) RecordShipDelayed() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.delayed++
}

func (r *Recorder) RecordConflict() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.conflict++
}

func (r *Recorder) Snapshot() Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := Snapshot{
		TransfersTotal:     r.transfers,
		AgreementsExecuted: r.executed,
		AgreementsFailed:   r.failed,
		ShipsDelayed:       r.delayed,
		LockConflicts:      r.conflict,
		FailuresByReason:   make(map[string]uint64, len(r.byReason)),
	}
	for k, v := range r.byReason {
		out.FailuresByReason[k] = v
	}
	return out
}

func (r *Recorder) SnapshotAny() any {
	return r.Snapshot()
}
