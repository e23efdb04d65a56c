package main

import (
	"os"

	"site-analytics-service/internal/config"
	"site-analytics-service/internal/db/migrate"
	"site-analytics-service/internal/logging"
)

// Applies the embedded schema migrations. Usage: migrate [up|down]
func main() {
	log := logging.New(logging.Config{Format: "console"})

	direction := "up"
	if len(os.Args) > 1 {
		direction = os.Args[1]
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("config load failed")
	}

	if err := migrate.Run(cfg.DatabaseURL, direction); err != nil {
		log.Fatal().Err(err).Str("direction", direction).Msg("migration failed")
	}

	log.Info().Str("direction", direction).Msg("migrations applied")
}
