package botutil

import (
	"log/slog"
	"os"
	"strconv"

	"github.com/disgoorg/snowflake/v2"
)

// EnvStr reads an env var, returning fallback when unset.
func EnvStr(name, fallback string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return fallback
}

// EnvInt reads an integer env var, returning fallback when unset or
// malformed.
func EnvInt(name string, fallback int) int {
	v := os.Getenv(name)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		slog.Warn("Ignoring malformed env var", "name", name, "value", v)
		return fallback
	}
	return n
}

// EnvID reads a snowflake env var, returning 0 when unset or malformed.
func EnvID(name string) snowflake.ID {
	v := os.Getenv(name)
	if v == "" {
		return 0
	}
	id, err := snowflake.Parse(v)
	if err != nil {
		slog.Warn("Ignoring malformed env var", "name", name, "value", v)
		return 0
	}
	return id
}
