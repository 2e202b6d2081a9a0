package app

import (
	"log/slog"
	"os"
	"strconv"
)

// TestModeEnv set to a true value makes the binaries return before touching
// Redis, Postgres or the network. The router also drops its access log.
const TestModeEnv = "EMS_TEST_MODE"

// InTestMode reports whether TestModeEnv is set to a true value.
func InTestMode() bool {
	on, err := strconv.ParseBool(os.Getenv(TestModeEnv))
	return err == nil && on
}

// SkipStartup logs and reports true when component must not start.
func SkipStartup(logger *slog.Logger, component string) bool {
	if !InTestMode() {
		return false
	}
	if logger == nil {
		logger = slog.Default()
	}
	logger.Info("test mode, skipping startup", slog.String("component", component))
	return true
}
