package main

import (
	"github.com/adanyl0v/task-tracker/internal/app"
	"github.com/adanyl0v/task-tracker/internal/config"
)

func main() {
	app.InitDefaultLogger()
	app.MustReadEnv()
	cfg := config.Global()
	app.MustInitApplicationLogger(cfg.Env)

	pool := app.MustConnectPostgres(cfg.Postgres)
	defer app.DisconnectPostgres(pool)

	if cfg.Migrations.AutoMigrate {
		app.MustRunMigrations(pool, app.EmbeddedMigrations)
	}

	app.MustListenAndServeHTTP(pool)
}
