package utils

import (
	"os"
	"strconv"
	"time"

	"github.com/openconvo/convograph-backend/internal/platform/logger"
)

func envLog(log *logger.Logger, key, msg string, kv ...any) {
	if log == nil {
		return
	}
	log.With("env_var", key).Debug(msg, kv...)
}

// GetEnv returns the value of key, or defaultVal when the variable is unset.
func GetEnv(key, defaultVal string, log *logger.Logger) string {
	val, ok := os.LookupEnv(key)
	if !ok {
		envLog(log, key, "env var unset, using default", "default", defaultVal)
		return defaultVal
	}
	envLog(log, key, "env var set", "value", val)
	return val
}

func GetEnvAsInt(key string, defaultVal int, log *logger.Logger) int {
	raw, ok := os.LookupEnv(key)
	if !ok {
		envLog(log, key, "env var unset, using default", "default", defaultVal)
		return defaultVal
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		envLog(log, key, "env var not an int, using default", "raw", raw, "default", defaultVal, "error", err)
		return defaultVal
	}
	return n
}

// GetEnvAsDuration accepts Go duration syntax ("30s", "1m") or a bare number
// of seconds ("30"). Zero and negative values fall back to the default.
func GetEnvAsDuration(key string, defaultVal time.Duration, log *logger.Logger) time.Duration {
	raw, ok := os.LookupEnv(key)
	if !ok {
		envLog(log, key, "env var unset, using default", "default", defaultVal)
		return defaultVal
	}
	if d, err := time.ParseDuration(raw); err == nil && d > 0 {
		return d
	}
	if n, err := strconv.Atoi(raw); err == nil && n > 0 {
		return time.Duration(n) * time.Second
	}
	envLog(log, key, "env var not a duration, using default", "raw", raw, "default", defaultVal)
	return defaultVal
}
