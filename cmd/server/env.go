package main

import (
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/prayertimes/internal/config"
)

// setupLogging configures the global zerolog logger and gin's mode.
func setupLogging(cfg *config.Config) {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	zerolog.TimeFieldFormat = time.RFC3339

	if cfg.Development() {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
		gin.SetMode(gin.DebugMode)
	} else {
		log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
		gin.SetMode(gin.ReleaseMode)
	}
	log.Logger = log.Logger.With().Str("service", "prayertimes").Logger()
}
