package oracle

import (
	"github.com/hsiuhsiu/oci-go/internal/oci"
	"github.com/hsiuhsiu/oci-go/pkg/oracle/logging"
)

// Config controls how the process environment is created. It must be applied
// with Configure before the first call to Environment or Connect.
type Config struct {
	// LibraryPath is the OCI client library to load. Empty selects the
	// platform default (libclntsh.so / libclntsh.dylib), resolved through the
	// dynamic loader search path. Ignored by cgo builds.
	LibraryPath string

	// EnableObjects adds OCI_OBJECT to the environment mode. The environment
	// is always created with OCI_THREADED.
	EnableObjects bool

	// Logger receives lifecycle records. Nil selects slog.Default().
	Logger logging.Logger
}

func (c Config) mode() uint32 {
	m := oci.ModeThreaded
	if c.EnableObjects {
		m |= oci.ModeObject
	}
	return m
}

func (c Config) logger() logging.Logger {
	if c.Logger == nil {
		return logging.New(nil)
	}
	return c.Logger
}
