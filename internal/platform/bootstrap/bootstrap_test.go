package bootstrap

import (
	"context"
	"testing"
	"time"

	"galaxytrade/internal/adapter/random"
	"galaxytrade/internal/adapter/repo/memory"
	"galaxytrade/internal/domain/fleet"
)

var testNow = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func newDemo(t *testing.T) Services {
	t.Helper()
	store := memory.NewStore()
	SeedDemo(store, testNow)
	return NewServices(MemoryRepos(store), Options{
		Workers:     2,
		SpawnChance: 1,
		TransitUnit: time.Hour,
		Rand:        random.NewSeeded(7),
		Now:         func() time.Time { return testNow },
	})
}

func TestDemo_AgreementsExecute(t *testing.T) {
	svc := newDemo(t)

	res, err := svc.Agreements.ExecuteDue(context.Background(), testNow)
	if err != nil {
		t.Fatalf("execute due: %v", err)
	}
	if res.Processed != 2 || res.Failed != 0 {
		t.Fatalf("batch mismatch: %+v", res)
	}
	if got := svc.Metrics.Snapshot().AgreementsExecuted; got != 2 {
		t.Fatalf("executed metric mismatch: got=%d want=2", got)
	}

	again, err := svc.Agreements.ExecuteDue(context.Background(), testNow.Add(time.Hour))
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if again.Processed != 0 {
		t.Fatalf("second run should be a no-op: %+v", again)
	}
}

func TestDemo_ShipDepartsAndWeatherJobRuns(t *testing.T) {
	svc := newDemo(t)

	list, err := svc.Routes.List(context.Background())
	if err != nil {
		t.Fatalf("list routes: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("route count mismatch: got=%d want=2", len(list))
	}

	ships, err := svc.Transit.Starships.ListByRoute(context.Background(), list[0].ID)
	if err != nil || len(ships) != 1 {
		t.Fatalf("ships on route: %v %+v", err, ships)
	}
	ship, err := svc.Transit.Depart(context.Background(), ships[0].ID, nil, testNow)
	if err != nil {
		t.Fatalf("depart: %v", err)
	}
	if ship.Status != fleet.StatusInTransit {
		t.Fatalf("status mismatch: got=%s want=%s", ship.Status, fleet.StatusInTransit)
	}

	res, err := svc.WeatherJob.Run(context.Background(), testNow.Add(time.Hour))
	if err != nil {
		t.Fatalf("weather job: %v", err)
	}
	if res.Spawned == nil {
		t.Fatalf("spawn chance 1 should always spawn")
	}
	active, err := svc.Weather.Active(context.Background(), testNow.Add(time.Hour))
	if err != nil {
		t.Fatalf("active weather: %v", err)
	}
	if len(active) != 1 {
		t.Fatalf("active count mismatch: got=%d want=1", len(active))
	}
}
