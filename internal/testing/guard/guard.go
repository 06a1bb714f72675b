// Package guard switches the process into test mode when imported.
package guard

import (
	"os"
	"sync"
)

const testModeEnv = "IMOBIX_TEST_MODE"

var once sync.Once

func init() {
	once.Do(func() {
		if os.Getenv(testModeEnv) == "" {
			_ = os.Setenv(testModeEnv, "1")
		}
	})
}
