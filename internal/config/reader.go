package config

import (
	"fmt"

	"github.com/ilyakaznacheev/cleanenv"
)

type Reader interface {
	Read() (*Config, error)
	ReadMigrator() (*MigratorConfig, error)
}

type EnvReader struct{}

func NewEnvReader() EnvReader {
	return EnvReader{}
}

func (EnvReader) Read() (*Config, error) {
	cfg := new(Config)
	err := cleanenv.ReadEnv(cfg)
	if err != nil {
		return nil, err
	}

	err = validateEnv(cfg.Env)
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

func (EnvReader) ReadMigrator() (*MigratorConfig, error) {
	cfg := new(MigratorConfig)
	err := cleanenv.ReadEnv(cfg)
	if err != nil {
		return nil, err
	}

	err = validateEnv(cfg.Env)
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

func validateEnv(env string) error {
	switch env {
	case EnvDev, EnvProd, EnvLocal:
		return nil
	default:
		return fmt.Errorf("unknown env: %q", env)
	}
}
