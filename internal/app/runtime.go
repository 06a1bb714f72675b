package app

import (
	"os"
	"strconv"
	"sync"
	"sync/atomic"
)

// TestModeEnv makes the binaries exit before touching Postgres or Redis.
const TestModeEnv = "IMOBIX_TEST_MODE"

var (
	testMode     atomic.Bool
	testModeOnce sync.Once
)

func detectTestMode() {
	on, _ := strconv.ParseBool(os.Getenv(TestModeEnv))
	testMode.Store(on)
}

// InTestMode reports whether the binaries should skip runtime side effects.
func InTestMode() bool {
	testModeOnce.Do(detectTestMode)
	return testMode.Load()
}

// RefreshTestMode re-reads the environment.
func RefreshTestMode() {
	testModeOnce.Do(func() {})
	detectTestMode()
}
