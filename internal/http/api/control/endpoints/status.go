package endpoints

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Nixie-Tech-LLC/prayertimes/internal/db"
	"github.com/Nixie-Tech-LLC/prayertimes/internal/http/api"
	"github.com/Nixie-Tech-LLC/prayertimes/internal/http/api/control/packets"
	"github.com/Nixie-Tech-LLC/prayertimes/internal/http/middleware"
)

type StatusController struct {
	store  db.Store
	engine Scheduler
}

func StatusModule(store db.Store, engine Scheduler) api.Module {
	ctl := &StatusController{store: store, engine: engine}
	return api.ModuleFunc(func(c *api.Controller) {
		c.GET("/status", ctl.status)
		c.GET("/log", ctl.actionLog)
	})
}

// GET /api/status
func (s *StatusController) status(ctx *gin.Context, admin *middleware.Admin) (any, *api.APIError) {
	zones := []packets.ZoneStatus{}
	for _, id := range s.engine.Zones() {
		steps := s.engine.Timeline(id)
		zs := packets.ZoneStatus{ZoneConfigID: id, Pending: len(steps)}
		if len(steps) > 0 {
			next := steps[0].At.UTC().Format(time.RFC3339)
			zs.NextAction = &next
		}
		zones = append(zones, zs)
	}
	return packets.StatusResponse{Scheduler: s.engine.Status(), Zones: zones}, nil
}

// GET /api/log?limit=N
func (s *StatusController) actionLog(ctx *gin.Context, admin *middleware.Admin) (any, *api.APIError) {
	limit := 0
	if raw := ctx.Query("limit"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil {
			return nil, &api.APIError{Code: http.StatusBadRequest, Message: "invalid limit"}
		}
		limit = v
	}
	entries, err := s.store.ListActions(ctx.Request.Context(), limit)
	if err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "failed to list actions"}
	}
	return packets.LogResponse{Entries: entries}, nil
}
