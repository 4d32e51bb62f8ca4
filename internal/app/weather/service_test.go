package weather

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"galaxytrade/internal/adapter/repo/memory"
	"galaxytrade/internal/app/ports"
	"galaxytrade/internal/app/transit"
	"galaxytrade/internal/domain/economy"
	"galaxytrade/internal/domain/fleet"
	"galaxytrade/internal/domain/trade"
	spaceweather "galaxytrade/internal/domain/weather"
)

var testNow = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

type scriptedRand struct {
	floats []float64
	ints   []int
}

func (r *scriptedRand) Float64() float64 {
	if len(r.floats) == 0 {
		return 0
	}
	v := r.floats[0]
	r.floats = r.floats[1:]
	return v
}

func (r *scriptedRand) IntN(n int) int {
	if len(r.ints) == 0 {
		return 0
	}
	v := r.ints[0]
	r.ints = r.ints[1:]
	return v % n
}

type fixture struct {
	store *memory.Store
	svc   Service
	route trade.Route
}

func newFixture(rnd ports.RandomSource) fixture {
	store := memory.NewStore()
	store.SeedPlanet(economy.Planet{ID: 1, Name: "Earth", Coordinates: economy.Coordinates{X: 5, Y: 5, Z: 5}})
	store.SeedPlanet(economy.Planet{ID: 2, Name: "Mars", Coordinates: economy.Coordinates{X: 100, Y: 100, Z: 100}})
	route := store.SeedRoute(trade.Route{ID: 10, Name: "Earth-Mars", StartingPlanetID: 1, DestinationPlanetID: 2, ResourceID: 7, TravelTime: 165})
	return fixture{
		store: store,
		route: route,
		svc: Service{
			Events:    memory.NewWeatherRepo(store),
			Planets:   memory.NewPlanetRepo(store),
			Routes:    memory.NewRouteRepo(store),
			Starships: memory.NewStarshipRepo(store),
			Rand:      rnd,
			Now:       func() time.Time { return testNow },
		},
	}
}

func (f fixture) storm(delay float64, start, end time.Time) spaceweather.Event {
	return f.store.SeedWeather(spaceweather.Event{
		Name:        "storm",
		Type:        spaceweather.TypeCosmicStorm,
		Severity:    spaceweather.SeverityModerate,
		Region:      spaceweather.Region{Start: economy.Coordinates{X: 10, Y: 10, Z: 10}, End: economy.Coordinates{X: -10, Y: -10, Z: -10}},
		StartTime:   start,
		EndTime:     end,
		DelayFactor: delay,
	})
}

func TestService_DelayFactorTakesCeiling(t *testing.T) {
	f := newFixture(nil)
	f.storm(1.5, testNow.Add(-time.Hour), testNow.Add(time.Hour))
	f.storm(1.8, testNow.Add(-time.Hour), testNow.Add(time.Hour))
	f.storm(3.0, testNow.Add(-3*time.Hour), testNow.Add(-time.Hour))

	got, err := f.svc.DelayFactor(context.Background(), f.route, testNow)
	if err != nil {
		t.Fatalf("delay factor error: %v", err)
	}
	if got != 1.8 {
		t.Fatalf("delay factor mismatch: got=%v want=1.8", got)
	}

	calm, err := f.svc.DelayFactor(context.Background(), f.route, testNow.Add(2*time.Hour))
	if err != nil || calm != 1.0 {
		t.Fatalf("clear sky mismatch: got=%v err=%v", calm, err)
	}

	broken := trade.Route{ID: 99, StartingPlanetID: 1, DestinationPlanetID: 42}
	if _, err := f.svc.DelayFactor(context.Background(), broken, testNow); !errors.Is(err, trade.ErrInvalidRoute) {
		t.Fatalf("expected invalid route, got %v", err)
	}
}

func TestService_AffectedRoutesAndStatus(t *testing.T) {
	f := newFixture(nil)
	other := f.store.SeedRoute(trade.Route{ID: 11, Name: "Mars-Earth", StartingPlanetID: 2, DestinationPlanetID: 1, ResourceID: 7, TravelTime: 165})
	storm := f.storm(1.5, testNow.Add(-time.Hour), testNow.Add(time.Hour))

	impacts, err := f.svc.AffectedRoutes(context.Background(), testNow)
	if err != nil {
		t.Fatalf("affected routes error: %v", err)
	}
	if len(impacts) != 2 || impacts[0].EventIDs[0] != storm.ID || impacts[1].Route.ID != other.ID {
		t.Fatalf("impacts mismatch: %+v", impacts)
	}

	view, err := f.svc.RouteStatus(context.Background(), f.route.ID, testNow)
	if err != nil || view.Status != RouteDelayed {
		t.Fatalf("expected delayed route, got %+v err=%v", view, err)
	}

	overdue := testNow.Add(-time.Hour)
	routeID := f.route.ID
	f.store.SeedStarship(fleet.Starship{Name: "Rustbucket", Status: fleet.StatusIdle, TradeRouteID: &routeID, MaintenanceDueAt: &overdue})
	view, err = f.svc.RouteStatus(context.Background(), f.route.ID, testNow)
	if err != nil || view.Status != RouteDangerous {
		t.Fatalf("expected dangerous route, got %+v err=%v", view, err)
	}

	view, err = f.svc.RouteStatus(context.Background(), other.ID, testNow.Add(2*time.Hour))
	if err != nil || view.Status != RouteActive {
		t.Fatalf("expected active route, got %+v err=%v", view, err)
	}
}

func TestService_GenerateStoresEvent(t *testing.T) {
	rnd := &scriptedRand{floats: []float64{0.5, 0.5, 0.5}, ints: []int{2, 2, 3, 10}}
	f := newFixture(rnd)

	got, err := f.svc.Generate(context.Background(), testNow)
	if err != nil {
		t.Fatalf("generate error: %v", err)
	}
	if got.ID == 0 || got.Type != spaceweather.TypeCosmicStorm || got.Severity != spaceweather.SeveritySevere {
		t.Fatalf("event mismatch: %+v", got)
	}
	if math.Abs(got.DelayFactor-2.225) > 1e-9 {
		t.Fatalf("delay mismatch: got=%v want=2.225", got.DelayFactor)
	}
	if !got.EndTime.Equal(testNow.Add(11 * time.Hour)) {
		t.Fatalf("end time mismatch: %v", got.EndTime)
	}
	if len(got.Name) <= len(string(got.Type)) {
		t.Fatalf("expected generated name, got %q", got.Name)
	}

	empty := Service{Events: f.svc.Events, Planets: memory.NewPlanetRepo(memory.NewStore()), Rand: rnd}
	if _, err := empty.Generate(context.Background(), testNow); !errors.Is(err, spaceweather.ErrEmptyUniverse) {
		t.Fatalf("expected empty universe, got %v", err)
	}
}

func TestService_CreateValidates(t *testing.T) {
	f := newFixture(nil)
	bad := spaceweather.Event{Type: spaceweather.TypeSolarFlare, Severity: spaceweather.SeverityMinor, StartTime: testNow, EndTime: testNow}
	if _, err := f.svc.Create(context.Background(), bad); !errors.Is(err, spaceweather.ErrInvalidWindow) {
		t.Fatalf("expected invalid window, got %v", err)
	}
	good := bad
	good.EndTime = testNow.Add(time.Hour)
	got, err := f.svc.Create(context.Background(), good)
	if err != nil {
		t.Fatalf("create error: %v", err)
	}
	// 1.2 + 0.3 * 0.25
	if math.Abs(got.DelayFactor-1.275) > 1e-9 || got.Name == "" {
		t.Fatalf("derived fields mismatch: %+v", got)
	}
}

func TestService_ClearAndPrune(t *testing.T) {
	f := newFixture(nil)
	live := f.storm(1.5, testNow.Add(-time.Hour), testNow.Add(time.Hour))
	f.storm(1.5, testNow.Add(-2*time.Hour), testNow)

	n, err := f.svc.PruneExpired(context.Background(), testNow)
	if err != nil || n != 1 {
		t.Fatalf("prune mismatch: n=%d err=%v", n, err)
	}
	if err := f.svc.Clear(context.Background(), live.ID); err != nil {
		t.Fatalf("clear error: %v", err)
	}
	if err := f.svc.Clear(context.Background(), live.ID); !errors.Is(err, ports.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

type stubDelayer struct {
	calls int
	at    time.Time
}

func (d *stubDelayer) ApplyWeatherDelays(_ context.Context, now time.Time) ([]transit.Adjustment, error) {
	d.calls++
	d.at = now
	return []transit.Adjustment{{StarshipID: 1}}, nil
}

func TestJob_RunDelaysPrunesAndSpawns(t *testing.T) {
	rnd := &scriptedRand{floats: []float64{0.1, 0.5, 0.5, 0.5}, ints: []int{2, 2, 3, 10}}
	f := newFixture(rnd)
	f.storm(1.5, testNow.Add(-2*time.Hour), testNow.Add(-time.Hour))
	delayer := &stubDelayer{}

	job := Job{Weather: f.svc, Transit: delayer, SpawnChance: DefaultSpawnChance}
	got, err := job.Run(context.Background(), testNow)
	if err != nil {
		t.Fatalf("job error: %v", err)
	}
	if delayer.calls != 1 || !delayer.at.Equal(testNow) || len(got.Delayed) != 1 {
		t.Fatalf("delay step mismatch: calls=%d delayed=%d", delayer.calls, len(got.Delayed))
	}
	if got.Pruned != 1 {
		t.Fatalf("pruned mismatch: got=%d want=1", got.Pruned)
	}
	if got.Spawned == nil || got.Spawned.Type != spaceweather.TypeCosmicStorm {
		t.Fatalf("expected spawned event, got %+v", got.Spawned)
	}
}

func TestJob_RunSkipsSpawnAboveChance(t *testing.T) {
	rnd := &scriptedRand{floats: []float64{0.9}}
	f := newFixture(rnd)
	job := Job{Weather: f.svc, SpawnChance: DefaultSpawnChance}

	got, err := job.Run(context.Background(), testNow)
	if err != nil {
		t.Fatalf("job error: %v", err)
	}
	if got.Spawned != nil {
		t.Fatalf("no event expected, got %+v", got.Spawned)
	}
	active, _ := f.svc.Active(context.Background(), testNow)
	if len(active) != 0 {
		t.Fatalf("no active events expected, got %d", len(active))
	}
}

func movingShip(f fixture, id, routeID, dest int64, departed, arrival time.Time) fleet.Starship {
	loc := int64(1)
	return f.store.SeedStarship(fleet.Starship{
		ID:                id,
		Name:              "hauler",
		Status:            fleet.StatusInTransit,
		TradeRouteID:      &routeID,
		CurrentLocationID: &loc,
		DestinationID:     &dest,
		DepartureTime:     &departed,
		ArrivalTime:       &arrival,
	})
}

func TestJob_RunSurvivesRouteWithMissingPlanet(t *testing.T) {
	f := newFixture(nil)
	broken := f.store.SeedRoute(trade.Route{ID: 11, Name: "Earth-Nowhere", StartingPlanetID: 1, DestinationPlanetID: 99, ResourceID: 7, TravelTime: 20})
	f.storm(1.5, testNow.Add(-time.Hour), testNow.Add(time.Hour))
	f.storm(1.5, testNow.Add(-3*time.Hour), testNow.Add(-2*time.Hour))
	stranded := movingShip(f, 20, broken.ID, 99, testNow.Add(-10*time.Hour), testNow.Add(10*time.Hour))
	healthy := movingShip(f, 21, f.route.ID, 2, testNow.Add(-10*time.Hour), testNow.Add(10*time.Hour))

	fleetSvc := transit.Service{
		TxManager: memory.NewTxManager(f.store),
		Starships: memory.NewStarshipRepo(f.store),
		Routes:    memory.NewRouteRepo(f.store),
		Weather:   f.svc,
		Now:       func() time.Time { return testNow },
	}
	job := Job{Weather: f.svc, Transit: fleetSvc}
	got, err := job.Run(context.Background(), testNow)
	if err != nil {
		t.Fatalf("job error: %v", err)
	}
	if got.Pruned != 1 {
		t.Fatalf("pruned mismatch: got=%d want=1", got.Pruned)
	}
	if len(got.Delayed) != 1 || got.Delayed[0].StarshipID != healthy.ID {
		t.Fatalf("delayed mismatch: %+v", got.Delayed)
	}
	want := testNow.Add(15 * time.Hour)
	if !got.Delayed[0].Arrival.Equal(want) {
		t.Fatalf("arrival mismatch: got=%v want=%v", got.Delayed[0].Arrival, want)
	}
	untouched, _ := f.svc.Starships.Get(context.Background(), stranded.ID)
	if !untouched.ArrivalTime.Equal(testNow.Add(10 * time.Hour)) {
		t.Fatalf("stranded ship moved: %v", untouched.ArrivalTime)
	}
}
