package testing

import (
	"os"
	"sync"
	stdtesting "testing"
)

var once sync.Once

func ensureTestMode() {
	once.Do(func() {
		_ = os.Setenv("IMOBIX_TEST_MODE", "1")
		if os.Getenv("BLOB_DIR") == "" {
			_ = os.Setenv("BLOB_DIR", os.TempDir())
		}
	})
}

func init() {
	ensureTestMode()
}

func TestMain(m *stdtesting.M) {
	ensureTestMode()
	os.Exit(m.Run())
}
