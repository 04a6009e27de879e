package app

import (
	_ "github.com/joho/godotenv/autoload"

	"github.com/adanyl0v/task-tracker/internal/config"
)

func MustReadEnv() {
	cfg, err := config.NewEnvReader().Read()
	if err != nil {
		globalLogger.Error().
			Err(err).
			Msg("failed to read env")
		panic(err)
	}
	globalLogger.Info().
		Str("env", cfg.Env).
		Msg("read env")

	config.SetGlobal(cfg)
}

// MustReadMigratorEnv reads the configuration of the migration command.
func MustReadMigratorEnv() *config.MigratorConfig {
	cfg, err := config.NewEnvReader().ReadMigrator()
	if err != nil {
		globalLogger.Error().
			Err(err).
			Msg("failed to read env")
		panic(err)
	}
	globalLogger.Info().
		Str("env", cfg.Env).
		Msg("read migrator env")

	return cfg
}
