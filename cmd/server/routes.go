package main

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/Nixie-Tech-LLC/prayertimes/internal/config"
	"github.com/Nixie-Tech-LLC/prayertimes/internal/db"
	"github.com/Nixie-Tech-LLC/prayertimes/internal/http/api"
	authapi "github.com/Nixie-Tech-LLC/prayertimes/internal/http/api/auth/endpoints"
	controlapi "github.com/Nixie-Tech-LLC/prayertimes/internal/http/api/control/endpoints"
)

// RegisterRoutes sets up all application routes
func RegisterRoutes(r *gin.Engine, cfg *config.Config, store db.Store, engine controlapi.Scheduler) error {
	r.Use(cors.New(cors.Config{
		AllowOriginFunc: func(origin string) bool { return true },
		AllowMethods: []string{
			"GET",
			"POST",
			"OPTIONS",
			"HEAD",
		},
		AllowHeaders: []string{
			"Origin",
			"Content-Type",
			"Authorization",
			"Accept",
		},
		ExposeHeaders: []string{
			"Content-Length",
		},
		AllowCredentials: false,
	}))

	if err := api.MountGroup(r, api.GroupConfig{},
		controlapi.HealthModule(engine),
	); err != nil {
		return err
	}

	if err := api.MountGroup(r, api.GroupConfig{
		Prefix: "/api",
		Auth:   false,
	},
		authapi.AuthPublicModule(cfg.JWTSecret, cfg.AdminPassword),
	); err != nil {
		return err
	}

	return api.MountGroup(r, api.GroupConfig{
		Prefix:    "/api",
		Auth:      true,
		SecretKey: cfg.JWTSecret,
	},
		controlapi.ZoneModule(store, engine),
		controlapi.StatusModule(store, engine),
	)
}
