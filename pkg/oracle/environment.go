package oracle

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"github.com/hsiuhsiu/oci-go/internal/oci"
	"github.com/hsiuhsiu/oci-go/pkg/oracle/logging"
)

// Native call locations reported in Error.Location.
const (
	locEnvCreate     = "OCIEnvCreate"
	locTerminate     = "OCITerminate"
	locAllocError    = "OCIHandleAlloc(OCI_HTYPE_ERROR)"
	locFreeError     = "OCIHandleFree(OCI_HTYPE_ERROR)"
	locFreeEnv       = "OCIHandleFree(OCI_HTYPE_ENV)"
	locAllocServer   = "OCIHandleAlloc(OCI_HTYPE_SERVER)"
	locAllocSvcCtx   = "OCIHandleAlloc(OCI_HTYPE_SVCCTX)"
	locAllocSession  = "OCIHandleAlloc(OCI_HTYPE_SESSION)"
	locFreeServer    = "OCIHandleFree(OCI_HTYPE_SERVER)"
	locFreeSvcCtx    = "OCIHandleFree(OCI_HTYPE_SVCCTX)"
	locFreeSession   = "OCIHandleFree(OCI_HTYPE_SESSION)"
	locServerAttach  = "OCIServerAttach"
	locServerDetach  = "OCIServerDetach"
	locAttrServer    = "OCIAttrSet(OCI_ATTR_SERVER)"
	locAttrUsername  = "OCIAttrSet(OCI_ATTR_USERNAME)"
	locAttrPassword  = "OCIAttrSet(OCI_ATTR_PASSWORD)"
	locSessionBegin  = "OCISessionBegin"
	locAttrSession   = "OCIAttrSet(OCI_ATTR_SESSION)"
	locSessionEnd    = "OCISessionEnd"
	locTransCommit   = "OCITransCommit"
	locTransRollback = "OCITransRollback"
)

// Env is the process-wide OCI environment: one environment handle and the
// error handle allocated from it.
//
// An *Env is shared by every goroutine and every Connection. After
// construction its fields never change; the handles are only passed to OCI,
// which serializes access internally in OCI_THREADED mode.
type Env struct {
	native oci.Native
	envh   oci.Handle
	errh   oci.Handle
	log    logging.Logger

	// conns counts open connections and connects in progress so Shutdown
	// cannot free the handles they borrow.
	conns atomic.Int64
}

var (
	envMu  sync.Mutex
	envPtr atomic.Pointer[Env]
	envCfg Config

	// loadNative is a package-private seam used by tests to substitute the
	// mock native layer.
	loadNative = oci.Load
)

// Configure sets the configuration used to create the environment. It fails
// with ErrAlreadyInitialized once Environment has succeeded.
func Configure(cfg Config) error {
	envMu.Lock()
	defer envMu.Unlock()
	if envPtr.Load() != nil {
		return ErrAlreadyInitialized
	}
	envCfg = cfg
	return nil
}

// Environment returns the process environment, creating it on first use.
// It is safe for concurrent use: exactly one caller performs the native
// creation while the others wait for its result.
//
// A failed initialization is not cached. Everything it acquired is released
// before the error is returned, and the next call starts over.
func Environment() (*Env, error) {
	if e := envPtr.Load(); e != nil {
		return e, nil
	}

	envMu.Lock()
	defer envMu.Unlock()
	return environmentLocked()
}

// acquire returns the environment with its connection count already raised,
// so a Shutdown racing with the caller sees it as busy. The caller drops the
// count with releaseConn once its connection is closed or abandoned.
func acquire() (*Env, error) {
	envMu.Lock()
	defer envMu.Unlock()
	e, err := environmentLocked()
	if err != nil {
		return nil, err
	}
	e.conns.Add(1)
	return e, nil
}

// environmentLocked creates the environment if needed. Callers hold envMu.
func environmentLocked() (*Env, error) {
	if e := envPtr.Load(); e != nil {
		return e, nil
	}
	e, err := newEnv(envCfg)
	if err != nil {
		return nil, err
	}
	envPtr.Store(e)
	return e, nil
}

func (e *Env) releaseConn() { e.conns.Add(-1) }

func newEnv(cfg Config) (*Env, error) {
	log := cfg.logger()
	native, err := loadNative(cfg.LibraryPath)
	if err != nil {
		return nil, remapError(err)
	}

	ch := newChain(log)
	defer ch.unwind()

	// OCIEnvCreate may hand back a handle together with a failure status;
	// it still has to be freed.
	envh, st := native.EnvCreate(cfg.mode())
	if envh != 0 {
		ch.push(locFreeEnv, func() oci.Status { return native.HandleFree(envh, oci.HTypeEnv) })
	}
	if err := CheckStatus(native, st, 0, locEnvCreate); err != nil {
		log.Error(context.Background(), "environment create failed", "error_code", statusCode(err))
		return nil, err
	}

	errh, st := native.HandleAlloc(envh, oci.HTypeError)
	if err := CheckStatus(native, st, 0, locAllocError); err != nil {
		log.Error(context.Background(), "error handle allocation failed", "error_code", statusCode(err))
		return nil, err
	}

	ch.keep()
	log.Debug(context.Background(), "oci environment created", "mode", cfg.mode())
	return &Env{native: native, envh: envh, errh: errh, log: log}, nil
}

// Handle returns the OCI environment handle for collaborating packages.
func (e *Env) Handle() oci.Handle { return e.envh }

// ErrorHandle returns the shared OCI error handle.
func (e *Env) ErrorHandle() oci.Handle { return e.errh }

// Native returns the native layer the environment was created with.
func (e *Env) Native() oci.Native { return e.native }

// OpenConnections reports how many connections currently borrow the
// environment, connects still in progress included.
func (e *Env) OpenConnections() int64 { return e.conns.Load() }

// Shutdown releases the process environment: the error handle, then the
// environment handle, then OCITerminate. It is meant to run once at process
// exit, after every Connection has been closed, and fails with
// ErrEnvironmentBusy otherwise. Calling it without an environment is a no-op.
func Shutdown() error {
	envMu.Lock()
	defer envMu.Unlock()
	e := envPtr.Load()
	if e == nil {
		return nil
	}
	if e.conns.Load() > 0 {
		return ErrEnvironmentBusy
	}
	envPtr.Store(nil)
	return e.release()
}

func (e *Env) release() error {
	n := e.native
	err := errors.Join(
		CheckStatus(n, n.HandleFree(e.errh, oci.HTypeError), 0, locFreeError),
		CheckStatus(n, n.HandleFree(e.envh, oci.HTypeEnv), 0, locFreeEnv),
		CheckStatus(n, n.Terminate(), 0, locTerminate),
	)
	e.errh, e.envh = 0, 0
	if err != nil {
		e.log.Warn(context.Background(), "oci environment released with errors", "error", err)
		return err
	}
	e.log.Debug(context.Background(), "oci environment released")
	return nil
}

// statusCode extracts the code of an *Error for log records.
func statusCode(err error) int32 {
	var oe *Error
	if errors.As(err, &oe) {
		return oe.Code
	}
	return 0
}
