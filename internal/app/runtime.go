package app

import (
	"os"
	"strconv"
	"sync"
)

// TestModeEnv names the variable the test harness sets so binaries return
// before opening stores or listeners.
const TestModeEnv = "TASKAPI_TEST_MODE"

var testMode = sync.OnceValue(func() bool {
	return parseTestMode(os.Getenv(TestModeEnv))
})

func parseTestMode(v string) bool {
	on, err := strconv.ParseBool(v)
	return err == nil && on
}

// InTestMode reports whether the application should skip runtime side effects.
// The variable is read once per process.
func InTestMode() bool {
	return testMode()
}
