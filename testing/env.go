// Package testing prepares package tests: importing it switches the
// binaries into test mode and fills in the secrets LoadConfig requires.
// It also hands out miniredis-backed clients and session managers.
package testing

import "os"

const testModeEnv = "EMS_TEST_MODE"

// defaults apply only where the environment leaves a variable unset.
var defaults = map[string]string{
	"SESSION_SECRET": "test-session-secret",
	"CSRF_SECRET":    "test-csrf-secret",
}

func init() {
	_ = os.Setenv(testModeEnv, "1")
	for key, value := range defaults {
		if _, ok := os.LookupEnv(key); !ok {
			_ = os.Setenv(key, value)
		}
	}
}
