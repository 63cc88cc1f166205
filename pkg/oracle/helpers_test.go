package oracle

import (
	"testing"

	"github.com/hsiuhsiu/oci-go/internal/oci"
	"github.com/hsiuhsiu/oci-go/internal/oci/ocimock"
	"github.com/hsiuhsiu/oci-go/pkg/oracle/logging"
)

// useMock resets the process environment and routes the next initialization
// to a fresh mock native layer. Tests touching the singleton must not run in
// parallel.
func useMock(t *testing.T) *ocimock.Native {
	t.Helper()
	n := ocimock.New()
	useLoader(t, func(string) (oci.Native, error) { return n, nil })
	return n
}

func useLoader(t *testing.T, load func(string) (oci.Native, error)) {
	t.Helper()
	envMu.Lock()
	prev := loadNative
	loadNative = load
	envPtr.Store(nil)
	envCfg = Config{Logger: logging.Discard()}
	envMu.Unlock()

	t.Cleanup(func() {
		envMu.Lock()
		envPtr.Store(nil)
		envCfg = Config{}
		loadNative = prev
		envMu.Unlock()
	})
}

// connHandles is the set of handle types a Connection owns.
var connHandles = []oci.HandleType{oci.HTypeServer, oci.HTypeSvcCtx, oci.HTypeSession}
