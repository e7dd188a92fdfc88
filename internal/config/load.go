package config

import (
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
)

// Load reads an optional .env file and then the process environment.
// Variables already set in the environment win over the file.
//
//	LEDGER_DRIVER  file | memory | postgres
//	LEDGER_DIR     directory of the flat-file ledger
//	DATABASE_URL   required for postgres
//	KAFKA_BROKERS  comma separated, optional
//	HTTP_ADDR      listen address of the HTTP server
//	LOG_LEVEL      debug | info | warn | error
func Load(envFiles ...string) (App, error) {
	if err := godotenv.Load(envFiles...); err != nil && !os.IsNotExist(errors.Cause(err)) {
		return App{}, errors.Wrap(err, "load env file")
	}

	cfg := App{
		Driver:       strings.ToLower(getenv("LEDGER_DRIVER", DefaultDriver)),
		LedgerDir:    getenv("LEDGER_DIR", DefaultLedgerDir),
		DatabaseURL:  os.Getenv("DATABASE_URL"),
		KafkaBrokers: splitList(os.Getenv("KAFKA_BROKERS")),
		HTTPAddr:     getenv("HTTP_ADDR", DefaultHTTPAddr),
		LogLevel:     getenv("LOG_LEVEL", DefaultLogLevel),
	}

	switch cfg.Driver {
	case DriverFile, DriverMemory:
	case DriverPostgres:
		if cfg.DatabaseURL == "" {
			return App{}, errors.New("DATABASE_URL is required when LEDGER_DRIVER=postgres")
		}
	default:
		return App{}, errors.Errorf("unsupported LEDGER_DRIVER %q", cfg.Driver)
	}
	return cfg, nil
}

// SlogLevel maps LogLevel onto a slog level, defaulting to info.
func (a App) SlogLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(a.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return level
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
