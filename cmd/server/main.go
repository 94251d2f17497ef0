package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/prayertimes/internal/aladhan"
	"github.com/Nixie-Tech-LLC/prayertimes/internal/config"
	"github.com/Nixie-Tech-LLC/prayertimes/internal/db"
	"github.com/Nixie-Tech-LLC/prayertimes/internal/mqtt"
	"github.com/Nixie-Tech-LLC/prayertimes/internal/redis"
	"github.com/Nixie-Tech-LLC/prayertimes/internal/scheduler"
	"github.com/Nixie-Tech-LLC/prayertimes/internal/soundtrack"
)

func main() {
	// load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	setupLogging(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// initialize PostgreSQL
	if err := db.Init(ctx, cfg.DatabaseURL); err != nil {
		log.Fatal().Err(err).Msg("db init")
	}

	// run pending migrations
	if err := db.RunMigrations(ctx, cfg.MigrationsPath); err != nil {
		log.Fatal().Err(err).Msg("db migrate")
	}
	store := db.NewStore(db.DB)

	var cache scheduler.TimingCache = store
	if cfg.RedisAddress != "" {
		redis.InitRedis(cfg.RedisAddress, cfg.RedisUsername, cfg.RedisPassword)
		rc := redis.NewTimingCache(redis.Rdb)
		if err := rc.Ping(ctx); err != nil {
			log.Warn().Err(err).Msg("redis unreachable, prayer times cached in postgres")
		} else {
			cache = rc
			log.Info().Str("address", cfg.RedisAddress).Msg("prayer times cached in redis")
		}
	}

	var actions scheduler.ActionLog = store
	if cfg.MQTTBrokerURL != "" {
		client, err := mqtt.Connect(cfg.MQTTBrokerURL, cfg.MQTTClientID)
		if err != nil {
			log.Warn().Err(err).Msg("MQTT unavailable, actions are only logged to postgres")
		} else {
			defer client.Disconnect(250)
			actions = mqtt.NewActionFanout(store, client)
		}
	}

	if cfg.SoundtrackToken == "" {
		log.Warn().Msg("SOUNDTRACK_API_TOKEN not set, playback calls will be rejected")
	}

	engine := scheduler.New(scheduler.Config{
		Zones:    store,
		Provider: aladhan.NewClient(cfg.AladhanBaseURL, cfg.AladhanTimeout),
		Cache:    cache,
		Control: soundtrack.NewClient(soundtrack.Config{
			URL:        cfg.SoundtrackURL,
			Token:      cfg.SoundtrackToken,
			RatePerSec: cfg.SoundtrackRatePer,
		}),
		Actions: actions,
		Trigger: scheduler.NewCronTrigger(cfg.RefreshCron, time.UTC),
	})
	if err := engine.Start(ctx); err != nil {
		log.Fatal().Err(err).Msg("scheduler start")
	}
	defer engine.Stop()

	// set up gin router
	r := gin.Default()
	if err := RegisterRoutes(r, cfg, store, engine); err != nil {
		log.Fatal().Err(err).Msg("register routes")
	}

	srv := &http.Server{
		Addr:              cfg.ServerAddress,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		log.Info().Str("address", cfg.ServerAddress).Msg("listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("server error")
			stop()
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 70*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown")
	}
}
