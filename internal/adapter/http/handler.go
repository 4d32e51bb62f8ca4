package httpadapter

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"galaxytrade/internal/app/agreement"
	"galaxytrade/internal/app/ledger"
	"galaxytrade/internal/app/ports"
	"galaxytrade/internal/app/routes"
	"galaxytrade/internal/app/transit"
	"galaxytrade/internal/app/weather"
	"galaxytrade/internal/domain/economy"
	"galaxytrade/internal/domain/fleet"
	"galaxytrade/internal/domain/trade"
	spaceweather "galaxytrade/internal/domain/weather"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
	"golang.org/x/time/rate"
)

type Handler struct {
	Ledger     ledger.Service
	Agreements agreement.Service
	Transit    transit.Service
	Weather    weather.Service
	WeatherJob weather.Job
	Routes     routes.Service
	KPI        kpiSnapshotProvider
	// Limiter guards mutating endpoints. Nil disables rate limiting.
	Limiter *rate.Limiter
}

func (h Handler) RegisterRoutes(s *server.Hertz) {
	s.Use(corsMiddleware())
	guard := rateLimitMiddleware(h.Limiter)

	led := s.Group("/api/ledger")
	led.POST("/transfer", guard, h.transfer)
	led.POST("/stock", guard, h.stock)
	led.POST("/rates", guard, h.setRates)
	led.GET("/inventories", h.inventories)
	led.GET("/history", h.priceHistory)
	led.GET("/market-stats", h.marketStats)

	agr := s.Group("/api/agreements")
	agr.POST("/execute-due", guard, h.executeDue)
	agr.POST("/:id/execute", guard, h.executeAgreement)

	ships := s.Group("/api/starships")
	ships.POST("/:id/depart", guard, h.depart)
	ships.POST("/:id/arrive", guard, h.arrive)
	ships.POST("/:id/maintenance", guard, h.maintenance)
	ships.POST("/:id/return", guard, h.returnToService)
	ships.POST("/:id/assign", guard, h.assignRoute)
	ships.GET("/:id/progress", h.progress)

	wx := s.Group("/api/weather")
	wx.GET("", h.activeWeather)
	wx.POST("", guard, h.createWeather)
	wx.POST("/generate", guard, h.generateWeather)
	wx.POST("/run", guard, h.runWeatherJob)
	wx.GET("/affected-routes", h.affectedRoutes)
	wx.DELETE("/:id", guard, h.clearWeather)

	rt := s.Group("/api/routes")
	rt.GET("", h.listRoutes)
	rt.POST("", guard, h.createRoute)
	rt.GET("/:id", h.getRoute)
	rt.PATCH("/:id", guard, h.updateRoute)
	rt.GET("/:id/status", h.routeStatus)

	s.GET("/ops/kpi", h.kpi)
}

type transferBody struct {
	SourcePlanetID      int64   `json:"source_planet_id"`
	DestinationPlanetID int64   `json:"destination_planet_id"`
	ResourceID          int64   `json:"resource_id"`
	Quantity            float64 `json:"quantity"`
}

func (h Handler) transfer(c context.Context, ctx *app.RequestContext) {
	var body transferBody
	if err := decodeJSON(ctx, &body); err != nil {
		writeErrorBody(ctx, consts.StatusBadRequest, "invalid_json", "invalid json")
		return
	}
	resp, err := h.Ledger.Transfer(c, ledger.TransferRequest{
		SourcePlanetID:      body.SourcePlanetID,
		DestinationPlanetID: body.DestinationPlanetID,
		ResourceID:          body.ResourceID,
		Quantity:            body.Quantity,
	})
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, resp)
}

type stockBody struct {
	PlanetID        int64   `json:"planet_id"`
	ResourceID      int64   `json:"resource_id"`
	Quantity        float64 `json:"quantity"`
	ProductionRate  float64 `json:"production_rate"`
	ConsumptionRate float64 `json:"consumption_rate"`
}

func (h Handler) stock(c context.Context, ctx *app.RequestContext) {
	var body stockBody
	if err := decodeJSON(ctx, &body); err != nil {
		writeErrorBody(ctx, consts.StatusBadRequest, "invalid_json", "invalid json")
		return
	}
	inv, err := h.Ledger.Stock(c, ledger.StockRequest{
		PlanetID:        body.PlanetID,
		ResourceID:      body.ResourceID,
		Quantity:        body.Quantity,
		ProductionRate:  body.ProductionRate,
		ConsumptionRate: body.ConsumptionRate,
	})
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, inv)
}

func (h Handler) setRates(c context.Context, ctx *app.RequestContext) {
	var body stockBody
	if err := decodeJSON(ctx, &body); err != nil {
		writeErrorBody(ctx, consts.StatusBadRequest, "invalid_json", "invalid json")
		return
	}
	inv, err := h.Ledger.SetRates(c, ledger.RatesRequest{
		PlanetID:        body.PlanetID,
		ResourceID:      body.ResourceID,
		ProductionRate:  body.ProductionRate,
		ConsumptionRate: body.ConsumptionRate,
	})
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, inv)
}

func (h Handler) inventories(c context.Context, ctx *app.RequestContext) {
	planetID, ok := queryInt64(ctx, "planet_id")
	if !ok {
		return
	}
	rows, err := h.Ledger.ListInventories(c, planetID)
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, map[string]any{"inventories": rows})
}

func (h Handler) priceHistory(c context.Context, ctx *app.RequestContext) {
	planetID, ok := queryInt64(ctx, "planet_id")
	if !ok {
		return
	}
	resourceID, ok := queryInt64(ctx, "resource_id")
	if !ok {
		return
	}
	if planetID == 0 || resourceID == 0 {
		writeErrorBody(ctx, consts.StatusBadRequest, "bad_request", "planet_id and resource_id are required")
		return
	}
	limit, ok := queryInt64(ctx, "limit")
	if !ok {
		return
	}
	rows, err := h.Ledger.PriceHistory(c, economy.InventoryKey{PlanetID: planetID, ResourceID: resourceID}, int(limit))
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, map[string]any{"history": rows})
}

func (h Handler) marketStats(c context.Context, ctx *app.RequestContext) {
	stats, err := h.Ledger.MarketStats(c)
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, stats)
}

func (h Handler) executeDue(c context.Context, ctx *app.RequestContext) {
	resp, err := h.Agreements.ExecuteDue(c, time.Time{})
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, resp)
}

func (h Handler) executeAgreement(c context.Context, ctx *app.RequestContext) {
	id, ok := pathID(ctx)
	if !ok {
		return
	}
	resp, err := h.Agreements.ExecuteOne(c, id, time.Time{})
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, resp)
}

type shipBody struct {
	RouteID    *int64 `json:"route_id,omitempty"`
	LocationID *int64 `json:"location_id,omitempty"`
}

func (h Handler) shipCommand(ctx *app.RequestContext, run func(id int64, body shipBody) (fleet.Starship, error)) {
	id, ok := pathID(ctx)
	if !ok {
		return
	}
	var body shipBody
	if err := decodeJSON(ctx, &body); err != nil {
		writeErrorBody(ctx, consts.StatusBadRequest, "invalid_json", "invalid json")
		return
	}
	ship, err := run(id, body)
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, ship)
}

func (h Handler) depart(c context.Context, ctx *app.RequestContext) {
	h.shipCommand(ctx, func(id int64, body shipBody) (fleet.Starship, error) {
		return h.Transit.Depart(c, id, body.RouteID, time.Time{})
	})
}

func (h Handler) arrive(c context.Context, ctx *app.RequestContext) {
	h.shipCommand(ctx, func(id int64, body shipBody) (fleet.Starship, error) {
		return h.Transit.Arrive(c, id, body.LocationID)
	})
}

func (h Handler) maintenance(c context.Context, ctx *app.RequestContext) {
	h.shipCommand(ctx, func(id int64, _ shipBody) (fleet.Starship, error) {
		return h.Transit.SendToMaintenance(c, id, time.Time{})
	})
}

func (h Handler) returnToService(c context.Context, ctx *app.RequestContext) {
	h.shipCommand(ctx, func(id int64, _ shipBody) (fleet.Starship, error) {
		return h.Transit.ReturnToService(c, id)
	})
}

func (h Handler) assignRoute(c context.Context, ctx *app.RequestContext) {
	h.shipCommand(ctx, func(id int64, body shipBody) (fleet.Starship, error) {
		if body.RouteID == nil {
			return fleet.Starship{}, errMissingRouteID
		}
		return h.Transit.AssignRoute(c, id, *body.RouteID)
	})
}

func (h Handler) progress(c context.Context, ctx *app.RequestContext) {
	id, ok := pathID(ctx)
	if !ok {
		return
	}
	view, err := h.Transit.Progress(c, id, time.Time{})
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, view)
}

func (h Handler) activeWeather(c context.Context, ctx *app.RequestContext) {
	events, err := h.Weather.Active(c, time.Time{})
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, map[string]any{"events": events})
}

func (h Handler) createWeather(c context.Context, ctx *app.RequestContext) {
	var body spaceweather.Event
	if err := decodeJSON(ctx, &body); err != nil {
		writeErrorBody(ctx, consts.StatusBadRequest, "invalid_json", "invalid json")
		return
	}
	body.ID = 0
	event, err := h.Weather.Create(c, body)
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusCreated, event)
}

func (h Handler) generateWeather(c context.Context, ctx *app.RequestContext) {
	event, err := h.Weather.Generate(c, time.Time{})
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusCreated, event)
}

func (h Handler) runWeatherJob(c context.Context, ctx *app.RequestContext) {
	resp, err := h.WeatherJob.Run(c, time.Time{})
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, resp)
}

func (h Handler) affectedRoutes(c context.Context, ctx *app.RequestContext) {
	impacts, err := h.Weather.AffectedRoutes(c, time.Time{})
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, map[string]any{"routes": impacts})
}

func (h Handler) clearWeather(c context.Context, ctx *app.RequestContext) {
	id, ok := pathID(ctx)
	if !ok {
		return
	}
	if err := h.Weather.Clear(c, id); err != nil {
		writeError(ctx, err)
		return
	}
	ctx.SetStatusCode(consts.StatusNoContent)
}

func (h Handler) listRoutes(c context.Context, ctx *app.RequestContext) {
	list, err := h.Routes.List(c)
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, map[string]any{"routes": list})
}

func (h Handler) createRoute(c context.Context, ctx *app.RequestContext) {
	var body routes.CreateRequest
	if err := decodeJSON(ctx, &body); err != nil {
		writeErrorBody(ctx, consts.StatusBadRequest, "invalid_json", "invalid json")
		return
	}
	route, err := h.Routes.Create(c, body)
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusCreated, route)
}

func (h Handler) getRoute(c context.Context, ctx *app.RequestContext) {
	id, ok := pathID(ctx)
	if !ok {
		return
	}
	route, err := h.Routes.Get(c, id)
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, route)
}

func (h Handler) updateRoute(c context.Context, ctx *app.RequestContext) {
	id, ok := pathID(ctx)
	if !ok {
		return
	}
	var body routes.UpdateRequest
	if err := decodeJSON(ctx, &body); err != nil {
		writeErrorBody(ctx, consts.StatusBadRequest, "invalid_json", "invalid json")
		return
	}
	body.ID = id
	route, err := h.Routes.Update(c, body)
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, route)
}

func (h Handler) routeStatus(c context.Context, ctx *app.RequestContext) {
	id, ok := pathID(ctx)
	if !ok {
		return
	}
	view, err := h.Weather.RouteStatus(c, id, time.Time{})
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, view)
}

type kpiSnapshotProvider interface {
	SnapshotAny() any
}

func (h Handler) kpi(_ context.Context, ctx *app.RequestContext) {
	if h.KPI == nil {
		writeErrorBody(ctx, consts.StatusNotFound, "not_configured", "kpi provider not configured")
		return
	}
	ctx.JSON(consts.StatusOK, h.KPI.SnapshotAny())
}

func decodeJSON(ctx *app.RequestContext, out any) error {
	body := ctx.Request.Body()
	if len(body) == 0 {
		return nil
	}
	return json.Unmarshal(body, out)
}

func pathID(ctx *app.RequestContext) (int64, bool) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		writeErrorBody(ctx, consts.StatusBadRequest, "invalid_id", "invalid id")
		return 0, false
	}
	return id, true
}

// queryInt64 returns zero when the parameter is absent.
func queryInt64(ctx *app.RequestContext, key string) (int64, bool) {
	raw := ctx.Query(key)
	if raw == "" {
		return 0, true
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || n < 0 {
		writeErrorBody(ctx, consts.StatusBadRequest, "bad_request", "invalid "+key)
		return 0, false
	}
	return n, true
}

var errMissingRouteID = errors.New("route_id is required")

func writeError(ctx *app.RequestContext, err error) {
	switch {
	case errors.Is(err, economy.ErrInsufficientResources):
		var short *economy.InsufficientResourcesError
		if errors.As(err, &short) {
			ctx.JSON(consts.StatusConflict, map[string]any{
				"error": map[string]any{
					"code":      "insufficient_resources",
					"message":   err.Error(),
					"requested": short.Requested,
					"available": short.Available,
				},
			})
			return
		}
		writeErrorBody(ctx, consts.StatusConflict, "insufficient_resources", err.Error())
	case errors.Is(err, ledger.ErrSourceInventoryMissing):
		writeErrorBody(ctx, consts.StatusNotFound, "source_inventory_missing", err.Error())
	case errors.Is(err, trade.ErrAgreementNotActive):
		writeErrorBody(ctx, consts.StatusConflict, "agreement_not_active", err.Error())
	case errors.Is(err, transit.ErrNoRoute):
		writeErrorBody(ctx, consts.StatusConflict, "no_route", err.Error())
	case errors.Is(err, fleet.ErrInvalidTransition), errors.Is(err, fleet.ErrInvariantBroken):
		writeErrorBody(ctx, consts.StatusConflict, "invalid_transition", err.Error())
	case errors.Is(err, trade.ErrDuplicateRoute):
		writeErrorBody(ctx, consts.StatusConflict, "duplicate_route", err.Error())
	case errors.Is(err, trade.ErrInvalidTravelTime):
		writeErrorBody(ctx, consts.StatusUnprocessableEntity, "invalid_travel_time", err.Error())
	case errors.Is(err, spaceweather.ErrEmptyUniverse):
		writeErrorBody(ctx, consts.StatusConflict, "empty_universe", err.Error())
	case errors.Is(err, economy.ErrInvalidQuantity),
		errors.Is(err, economy.ErrSamePlanet),
		errors.Is(err, economy.ErrInvalidInventory),
		errors.Is(err, economy.ErrInvalidResource),
		errors.Is(err, ledger.ErrInvalidRequest),
		errors.Is(err, trade.ErrInvalidRoute),
		errors.Is(err, trade.ErrInvalidAgreement),
		errors.Is(err, spaceweather.ErrUnknownType),
		errors.Is(err, spaceweather.ErrUnknownSeverity),
		errors.Is(err, spaceweather.ErrInvalidWindow),
		errors.Is(err, spaceweather.ErrInvalidDelay),
		errors.Is(err, errMissingRouteID):
		writeErrorBody(ctx, consts.StatusBadRequest, "bad_request", err.Error())
	case errors.Is(err, ports.ErrNotFound):
		writeErrorBody(ctx, consts.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, ports.ErrLockTimeout):
		writeErrorBody(ctx, consts.StatusServiceUnavailable, "lock_timeout", err.Error())
	case errors.Is(err, ports.ErrConflict):
		writeErrorBody(ctx, consts.StatusConflict, "conflict", err.Error())
	default:
		writeErrorBody(ctx, consts.StatusInternalServerError, "internal_error", "internal error")
	}
}

func writeErrorBody(ctx *app.RequestContext, status int, code, message string) {
	ctx.JSON(status, map[string]any{
		"error": map[string]string{
			"code":    code,
			"message": message,
		},
	})
}
