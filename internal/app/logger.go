package app

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/adanyl0v/task-tracker/internal/config"
)

const serviceName = "task-tracker"

var globalLogger zerolog.Logger

func InitDefaultLogger() {
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	zerolog.TimestampFieldName = "timestamp"

	globalLogger = zerolog.New(os.Stdout).
		With().
		Timestamp().
		Caller().
		Str("service", serviceName).
		Int("pid", os.Getpid()).
		Logger()

	globalLogger.Info().Msg("initialized default logger")
}

// MustInitApplicationLogger adjusts the level and output of the
// default logger to the given environment. gin's mode follows it: only
// local runs get gin's debug route dump.
func MustInitApplicationLogger(env string) {
	zerolog.DurationFieldUnit = time.Millisecond

	w := io.Writer(os.Stdout)
	switch env {
	case config.EnvDev:
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
		gin.SetMode(gin.ReleaseMode)
	case config.EnvProd:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
		gin.SetMode(gin.ReleaseMode)
	case config.EnvLocal:
		zerolog.SetGlobalLevel(zerolog.TraceLevel)
		gin.SetMode(gin.DebugMode)

		consoleWriter := zerolog.NewConsoleWriter()
		consoleWriter.TimeFormat = time.DateTime
		consoleWriter.Out = os.Stdout
		w = consoleWriter
	default:
		globalLogger.Error().
			Str("env", env).
			Msg("unknown env")
		panic(fmt.Errorf("unknown env: %s", env))
	}

	globalLogger = globalLogger.Output(w).
		With().
		Str("env", env).
		Logger()
	globalLogger.Info().
		Str("gin_mode", gin.Mode()).
		Msg("initialized application logger")
}
