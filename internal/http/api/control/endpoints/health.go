package endpoints

import (
	"github.com/gin-gonic/gin"

	"github.com/Nixie-Tech-LLC/prayertimes/internal/http/api"
	"github.com/Nixie-Tech-LLC/prayertimes/internal/http/api/control/packets"
)

const (
	ServerName    = "soundtrack-prayertimes"
	ServerVersion = "1.0.0"
)

// HealthModule mounts the unauthenticated /health check.
func HealthModule(engine Scheduler) api.Module {
	return api.ModuleFunc(func(c *api.Controller) {
		c.PUBLIC_GET("/health", func(ctx *gin.Context) (any, *api.APIError) {
			return packets.HealthResponse{
				Status:    "ok",
				Server:    ServerName,
				Version:   ServerVersion,
				Scheduler: engine.Status(),
			}, nil
		})
	})
}
