package endpoints

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/prayertimes/internal/db"
	"github.com/Nixie-Tech-LLC/prayertimes/internal/http/api"
	"github.com/Nixie-Tech-LLC/prayertimes/internal/http/api/control/packets"
	"github.com/Nixie-Tech-LLC/prayertimes/internal/http/middleware"
	"github.com/Nixie-Tech-LLC/prayertimes/internal/model"
	"github.com/Nixie-Tech-LLC/prayertimes/internal/scheduler"
)

const (
	DefaultTestSeconds = 10
	MaxTestSeconds     = 60
)

type ZoneController struct {
	store  db.Store
	engine Scheduler
}

func NewZoneController(store db.Store, engine Scheduler) *ZoneController {
	return &ZoneController{store: store, engine: engine}
}

func ZoneModule(store db.Store, engine Scheduler) api.Module {
	ctl := NewZoneController(store, engine)
	return api.ModuleFunc(func(c *api.Controller) {
		c.POST("/refresh", ctl.refreshAll)

		c.POST("/zones/:id/refresh", ctl.refreshZone)
		c.POST("/zones/:id/test", ctl.testZone)
		c.POST("/zones/:id/prefetch", ctl.prefetchZone)
		c.GET("/zones/:id/timeline", ctl.zoneTimeline)
	})
}

func zoneIDParam(ctx *gin.Context) (int, *api.APIError) {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil || id <= 0 {
		return 0, &api.APIError{Code: http.StatusBadRequest, Message: "invalid zone id"}
	}
	return id, nil
}

// TestSeconds maps the duration query onto 1..MaxTestSeconds, defaulting to 10.
func TestSeconds(raw string) int {
	n, err := strconv.Atoi(raw)
	switch {
	case err != nil || n <= 0:
		return DefaultTestSeconds
	case n > MaxTestSeconds:
		return MaxTestSeconds
	}
	return n
}

// POST /api/refresh
func (z *ZoneController) refreshAll(ctx *gin.Context, admin *middleware.Admin) (any, *api.APIError) {
	report, err := z.engine.RefreshAll(ctx.Request.Context())
	if err != nil {
		log.Error().Err(err).Msg("refreshAll failed")
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "failed to refresh schedules"}
	}
	return packets.RefreshResponse{Refreshed: true, Report: report}, nil
}

// POST /api/zones/:id/refresh
func (z *ZoneController) refreshZone(ctx *gin.Context, admin *middleware.Admin) (any, *api.APIError) {
	id, apiErr := zoneIDParam(ctx)
	if apiErr != nil {
		return nil, apiErr
	}
	if err := z.engine.RefreshZone(ctx.Request.Context(), id); err != nil {
		log.Error().Err(err).Int("zone_config_id", id).Msg("refreshZone failed")
		if errors.Is(err, scheduler.ErrNoTimingsAvailable) {
			return nil, &api.APIError{Code: http.StatusBadGateway, Message: "no prayer times available"}
		}
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "failed to refresh zone"}
	}
	return packets.ZoneRefreshResponse{
		Refreshed:    true,
		ZoneConfigID: id,
		Timeline:     nonNil(z.engine.Timeline(id)),
	}, nil
}

// POST /api/zones/:id/test?duration=N
func (z *ZoneController) testZone(ctx *gin.Context, admin *middleware.Admin) (any, *api.APIError) {
	id, apiErr := zoneIDParam(ctx)
	if apiErr != nil {
		return nil, apiErr
	}
	zone, err := z.store.GetZone(ctx.Request.Context(), id)
	if errors.Is(err, model.ErrNotFound) {
		return nil, &api.APIError{Code: http.StatusNotFound, Message: "zone not found"}
	}
	if err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "failed to load zone"}
	}

	seconds := TestSeconds(ctx.Query("duration"))
	log.Info().Int("zone_config_id", id).Int("seconds", seconds).Msg("running zone test")
	return z.engine.Test(ctx.Request.Context(), zone.ID, zone.ZoneID, time.Duration(seconds)*time.Second), nil
}

// POST /api/zones/:id/prefetch?year=YYYY&month=M
func (z *ZoneController) prefetchZone(ctx *gin.Context, admin *middleware.Admin) (any, *api.APIError) {
	id, apiErr := zoneIDParam(ctx)
	if apiErr != nil {
		return nil, apiErr
	}
	now := time.Now().UTC()
	year, month := now.Year(), int(now.Month())
	if raw := ctx.Query("year"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 2000 || v > 2100 {
			return nil, &api.APIError{Code: http.StatusBadRequest, Message: "invalid year"}
		}
		year = v
	}
	if raw := ctx.Query("month"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 1 || v > 12 {
			return nil, &api.APIError{Code: http.StatusBadRequest, Message: "invalid month"}
		}
		month = v
	}

	days, err := z.engine.WarmCache(ctx.Request.Context(), id, year, time.Month(month))
	if errors.Is(err, model.ErrNotFound) {
		return nil, &api.APIError{Code: http.StatusNotFound, Message: "zone not found"}
	}
	if err != nil {
		log.Error().Err(err).Int("zone_config_id", id).Msg("prefetch failed")
		return nil, &api.APIError{Code: http.StatusBadGateway, Message: "failed to prefetch prayer times"}
	}
	return packets.PrefetchResponse{ZoneConfigID: id, Year: year, Month: month, Days: days}, nil
}

// GET /api/zones/:id/timeline
func (z *ZoneController) zoneTimeline(ctx *gin.Context, admin *middleware.Admin) (any, *api.APIError) {
	id, apiErr := zoneIDParam(ctx)
	if apiErr != nil {
		return nil, apiErr
	}
	return packets.TimelineResponse{ZoneConfigID: id, Timeline: nonNil(z.engine.Timeline(id))}, nil
}

func nonNil(steps []scheduler.Step) []scheduler.Step {
	if steps == nil {
		return []scheduler.Step{}
	}
	return steps
}
