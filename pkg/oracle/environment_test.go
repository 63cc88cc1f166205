package oracle

import (
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hsiuhsiu/oci-go/internal/oci"
	"github.com/hsiuhsiu/oci-go/internal/oci/ocimock"
	"github.com/hsiuhsiu/oci-go/pkg/oracle/logging"
)

func TestEnvironmentReturnsSameInstance(t *testing.T) {
	n := useMock(t)

	first, err := Environment()
	require.NoError(t, err)
	second, err := Environment()
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Equal(t, 1, n.Count(ocimock.EnvCreate))
	assert.Equal(t, 1, n.Count(ocimock.AllocCall(oci.HTypeError)))
	assert.NotZero(t, first.Handle())
	assert.NotZero(t, first.ErrorHandle())
	assert.Same(t, n, first.Native())
}

func TestEnvironmentConcurrentFirstAccess(t *testing.T) {
	n := useMock(t)
	n.OnEnvCreate = func() { time.Sleep(10 * time.Millisecond) }

	const workers = 32
	var (
		wg    sync.WaitGroup
		start = make(chan struct{})
		envs  = make([]*Env, workers)
		errs  = make([]error, workers)
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			<-start
			envs[i], errs[i] = Environment()
		}(i)
	}
	close(start)
	wg.Wait()

	for i := 0; i < workers; i++ {
		require.NoError(t, errs[i])
		assert.Same(t, envs[0], envs[i])
	}
	assert.Equal(t, 1, n.Count(ocimock.EnvCreate))
	assert.Equal(t, 1, n.Count(ocimock.AllocCall(oci.HTypeError)))
	assert.Equal(t, []string{ocimock.EnvCreate, ocimock.AllocCall(oci.HTypeError)}, n.CallNames())
}

func TestEnvironmentCreateFailureIsRetried(t *testing.T) {
	n := useMock(t)
	n.Fail(ocimock.EnvCreate, oci.Error)

	env, err := Environment()
	require.Error(t, err)
	assert.Nil(t, env)

	var oe *Error
	require.True(t, errors.As(err, &oe))
	assert.Equal(t, locEnvCreate, oe.Location)
	assert.Zero(t, n.Live())

	n.Clear(ocimock.EnvCreate)
	env, err = Environment()
	require.NoError(t, err)
	assert.NotNil(t, env)
	assert.Equal(t, 2, n.Count(ocimock.EnvCreate))
}

func TestEnvironmentErrorHandleFailureFreesEnv(t *testing.T) {
	n := useMock(t)
	n.Fail(ocimock.AllocCall(oci.HTypeError), oci.InvalidHandle)

	_, err := Environment()
	var oe *Error
	require.True(t, errors.As(err, &oe))
	assert.Equal(t, locAllocError, oe.Location)
	assert.Equal(t, "Invalid handle", oe.Message)

	assert.Zero(t, n.Live(), "environment handle must be released")
	assert.Equal(t, n.Allocs(), n.Frees())
	assert.Zero(t, n.DoubleFrees())
	assert.Nil(t, envPtr.Load())
}

func TestEnvironmentLoadFailure(t *testing.T) {
	useLoader(t, func(path string) (oci.Native, error) {
		return nil, fmt.Errorf("%w: %s", oci.ErrLibraryNotFound, path)
	})

	_, err := Environment()
	assert.ErrorIs(t, err, ErrLibraryNotFound)

	_, err = Connect("ORCL", "scott", "tiger")
	assert.ErrorIs(t, err, ErrLibraryNotFound)
}

func TestConfigure(t *testing.T) {
	useMock(t)

	var gotPath string
	n := ocimock.New()
	loadNative = func(path string) (oci.Native, error) {
		gotPath = path
		return n, nil
	}

	require.NoError(t, Configure(Config{LibraryPath: "/opt/oracle/libclntsh.so", Logger: logging.Discard()}))
	_, err := Environment()
	require.NoError(t, err)
	assert.Equal(t, "/opt/oracle/libclntsh.so", gotPath)

	assert.ErrorIs(t, Configure(Config{}), ErrAlreadyInitialized)
}

func TestConfigMode(t *testing.T) {
	assert.Equal(t, oci.ModeThreaded, Config{}.mode())
	assert.Equal(t, oci.ModeThreaded|oci.ModeObject, Config{EnableObjects: true}.mode())
	assert.NotNil(t, Config{}.logger())
}

func TestShutdownReleasesInOrder(t *testing.T) {
	n := useMock(t)

	_, err := Environment()
	require.NoError(t, err)
	require.NoError(t, Shutdown())

	names := n.CallNames()
	require.GreaterOrEqual(t, len(names), 3)
	assert.Equal(t, []string{
		ocimock.FreeCall(oci.HTypeError),
		ocimock.FreeCall(oci.HTypeEnv),
		ocimock.Terminate,
	}, names[len(names)-3:])
	assert.Zero(t, n.Live())
	assert.Nil(t, envPtr.Load())

	require.NoError(t, Shutdown(), "shutdown without environment is a no-op")
	assert.Equal(t, 1, n.Count(ocimock.Terminate))
}

func TestShutdownRefusesWithOpenConnections(t *testing.T) {
	n := useMock(t)

	conn, err := Connect("ORCL", "scott", "tiger")
	require.NoError(t, err)

	assert.ErrorIs(t, Shutdown(), ErrEnvironmentBusy)
	assert.Zero(t, n.Count(ocimock.Terminate))

	require.NoError(t, conn.Close())
	require.NoError(t, Shutdown())
	assert.Zero(t, n.Live())
}

func TestShutdownReportsReleaseFailure(t *testing.T) {
	n := useMock(t)
	_, err := Environment()
	require.NoError(t, err)

	n.Fail(ocimock.Terminate, oci.Error)
	err = Shutdown()
	var oe *Error
	require.True(t, errors.As(err, &oe))
	assert.Equal(t, locTerminate, oe.Location)
	assert.Zero(t, n.Live(), "handles are freed even when terminate fails")
}

func TestEnvironmentCreateFailureFreesReturnedHandle(t *testing.T) {
	n := useMock(t)
	n.EnvHandleOnFailure = true
	n.Fail(ocimock.EnvCreate, oci.Error)

	_, err := Environment()
	var oe *Error
	require.True(t, errors.As(err, &oe))
	assert.Equal(t, locEnvCreate, oe.Location)

	assert.Equal(t, 1, n.Count(ocimock.FreeCall(oci.HTypeEnv)))
	assert.Zero(t, n.Live())
	assert.Zero(t, n.DoubleFrees())
	assert.Nil(t, envPtr.Load())
}

func TestShutdownRefusesDuringConnect(t *testing.T) {
	n := useMock(t)
	var shutdownErr error
	n.OnServerAttach = func() { shutdownErr = Shutdown() }

	conn, err := Connect("ORCL", "scott", "tiger")
	require.NoError(t, err)
	assert.ErrorIs(t, shutdownErr, ErrEnvironmentBusy)
	assert.Zero(t, n.Count(ocimock.Terminate))
	assert.True(t, n.IsLive(conn.Env().Handle()))
	assert.True(t, n.IsLive(conn.Env().ErrorHandle()))
	assert.Equal(t, int64(1), conn.Env().OpenConnections())

	n.OnServerAttach = nil
	require.NoError(t, conn.Close())
	require.NoError(t, Shutdown())
	assert.Zero(t, n.Live())
}

func TestFailedConnectReleasesEnvironment(t *testing.T) {
	n := useMock(t)
	n.Fail(ocimock.SessionBegin, oci.Error)

	_, err := Connect("ORCL", "scott", "tiger")
	require.Error(t, err)

	env, err := Environment()
	require.NoError(t, err)
	assert.Zero(t, env.OpenConnections())
	require.NoError(t, Shutdown())
	assert.Zero(t, n.Live())
}
