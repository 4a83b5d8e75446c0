package main

import (
	"context"

	"clientdir-backend/internal/application/notify"
	"clientdir-backend/internal/config"
	"clientdir-backend/internal/interfaces/router"

	"github.com/rs/zerolog/log"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("config load failed")
	}

	app, db, rdb, err := router.CreateApp(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("app create failed")
	}

	// Verify connections before announcing the server.
	if db != nil {
		sqlDB, err := db.DB()
		if err != nil {
			log.Fatal().Err(err).Msg("postgres: get DB failed")
		}
		if err := sqlDB.Ping(); err != nil {
			log.Fatal().Err(err).Msg("postgres connection failed")
		}
		log.Info().Msg("Postgres connected")
	}
	if rdb != nil {
		if err := rdb.Ping(context.Background()).Err(); err != nil {
			log.Fatal().Err(err).Msg("redis connection failed")
		}
		log.Info().Msg("Redis connected")

		bridge := notify.NewBridge(rdb)
		unsubscribe := bridge.Subscribe(func() {
			log.Debug().Msg("directory changed, cache version bumped")
		})
		defer unsubscribe()
	}

	log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("Server starting")
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
