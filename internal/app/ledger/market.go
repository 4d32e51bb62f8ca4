package ledger

import (
	"context"
	"sort"

	"galaxytrade/internal/domain/economy"
)

const (
	defaultHistoryLimit = 30
	marketStatsTop      = 5
)

func (s Service) PriceHistory(ctx context.Context, key economy.InventoryKey, limit int) ([]economy.PriceSnapshot, error) {
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	return s.History.ListRecent(ctx, key, limit)
}

// ListInventories lists a planet's rows, or every row when planetID is zero.
func (s Service) ListInventories(ctx context.Context, planetID int64) ([]economy.Inventory, error) {
	if planetID == 0 {
		return s.Inventories.ListAll(ctx)
	}
	return s.Inventories.ListByPlanet(ctx, planetID)
}

type ResourceStat struct {
	ResourceID int64   `json:"resource_id"`
	Name       string  `json:"name"`
	Value      float64 `json:"value"`
}

type MarketStats struct {
	HighestDemand   []ResourceStat `json:"highest_demand"`
	PriceVolatility []ResourceStat `json:"price_volatility"`
	MostTraded      []ResourceStat `json:"most_traded"`
}

// MarketStats ranks resources by average demand factor across planets, by
// price volatility and by the number of recorded snapshots.
func (s Service) MarketStats(ctx context.Context) (MarketStats, error) {
	resources, err := s.Resources.List(ctx)
	if err != nil {
		return MarketStats{}, err
	}
	inventories, err := s.Inventories.ListAll(ctx)
	if err != nil {
		return MarketStats{}, err
	}

	demandSum := map[int64]float64{}
	demandCount := map[int64]int{}
	for _, inv := range inventories {
		demandSum[inv.ResourceID] += inv.DemandFactor
		demandCount[inv.ResourceID]++
	}

	var out MarketStats
	for _, r := range resources {
		if n := demandCount[r.ID]; n > 0 {
			out.HighestDemand = append(out.HighestDemand, ResourceStat{ResourceID: r.ID, Name: r.Name, Value: demandSum[r.ID] / float64(n)})
		}
		history, err := s.History.ListByResource(ctx, r.ID)
		if err != nil {
			return MarketStats{}, err
		}
		if len(history) == 0 {
			continue
		}
		out.PriceVolatility = append(out.PriceVolatility, ResourceStat{ResourceID: r.ID, Name: r.Name, Value: economy.Volatility(history)})
		out.MostTraded = append(out.MostTraded, ResourceStat{ResourceID: r.ID, Name: r.Name, Value: float64(len(history))})
	}
	out.HighestDemand = topStats(out.HighestDemand)
	out.PriceVolatility = topStats(out.PriceVolatility)
	out.MostTraded = topStats(out.MostTraded)
	return out, nil
}

func topStats(in []ResourceStat) []ResourceStat {
	sort.SliceStable(in, func(i, j int) bool {
		if in[i].Value != in[j].Value {
			return in[i].Value > in[j].Value
		}
		return in[i].ResourceID < in[j].ResourceID
	})
	if len(in) > marketStatsTop {
		in = in[:marketStatsTop]
	}
	return in
}
