package oracle

import (
	"context"
	"errors"
	"runtime"

	"github.com/google/uuid"

	"github.com/hsiuhsiu/oci-go/internal/oci"
	"github.com/hsiuhsiu/oci-go/pkg/oracle/logging"
)

// Connection is an authenticated session on an Oracle server. It owns a
// server handle, a service context and a session handle; the error handle is
// borrowed from the process Env.
//
// A Connection is not safe for concurrent use. Callers sharing one across
// goroutines must serialize access themselves.
type Connection struct {
	env     *Env
	id      uuid.UUID
	srv     oci.Handle
	svc     oci.Handle
	session oci.Handle
	errh    oci.Handle
	log     logging.Logger
}

// ConnectOptions is the struct form of Connect's arguments.
type ConnectOptions struct {
	// Address is the connect identifier: a TNS alias, an Easy Connect
	// string (host:port/service) or a full connect descriptor.
	Address  string
	Username string
	Password string
}

// Connect attaches to the server at address and begins a session for
// username. On failure every handle allocated along the way has been released
// and the returned *Error names the failing call.
func Connect(address, username, password string) (*Connection, error) {
	return ConnectWith(ConnectOptions{Address: address, Username: username, Password: password})
}

// ConnectWith is Connect taking ConnectOptions.
func ConnectWith(opts ConnectOptions) (_ *Connection, err error) {
	env, err := acquire()
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			env.releaseConn()
		}
	}()
	n, errh := env.native, env.errh

	id := uuid.New()
	log := env.log.With("conn_id", id.String(), "address", opts.Address)
	ch := newChain(log)
	defer ch.unwind()

	srv, st := n.HandleAlloc(env.envh, oci.HTypeServer)
	if err := CheckStatus(n, st, 0, locAllocServer); err != nil {
		return nil, err
	}
	ch.push(locFreeServer, func() oci.Status { return n.HandleFree(srv, oci.HTypeServer) })

	svc, st := n.HandleAlloc(env.envh, oci.HTypeSvcCtx)
	if err := CheckStatus(n, st, 0, locAllocSvcCtx); err != nil {
		return nil, err
	}
	ch.push(locFreeSvcCtx, func() oci.Status { return n.HandleFree(svc, oci.HTypeSvcCtx) })

	if err := CheckStatus(n, n.ServerAttach(srv, errh, opts.Address), errh, locServerAttach); err != nil {
		log.Debug(context.Background(), "server attach failed", "error_code", statusCode(err))
		return nil, err
	}
	ch.push(locServerDetach, func() oci.Status { return n.ServerDetach(srv, errh) })

	if err := CheckStatus(n, n.AttrSetHandle(svc, oci.HTypeSvcCtx, srv, oci.AttrServer, errh), errh, locAttrServer); err != nil {
		return nil, err
	}

	session, err := prepareAuth(n, env.envh, errh, ch, opts.Username, opts.Password)
	if err != nil {
		return nil, err
	}

	log.Debug(context.Background(), "session begin", "user", opts.Username, logging.Redacted("password"))
	if err := CheckStatus(n, n.SessionBegin(svc, errh, session, oci.CredRDBMS), errh, locSessionBegin); err != nil {
		log.Debug(context.Background(), "session begin failed", "error_code", statusCode(err))
		return nil, err
	}
	ch.push(locSessionEnd, func() oci.Status { return n.SessionEnd(svc, errh, session) })

	if err := CheckStatus(n, n.AttrSetHandle(svc, oci.HTypeSvcCtx, session, oci.AttrSession, errh), errh, locAttrSession); err != nil {
		return nil, err
	}

	ch.keep()
	c := &Connection{
		env:     env,
		id:      id,
		srv:     srv,
		svc:     svc,
		session: session,
		errh:    errh,
		log:     log,
	}
	runtime.SetFinalizer(c, func(c *Connection) { _ = c.Close() })
	log.Info(context.Background(), "connected", "user", opts.Username)
	return c, nil
}

// prepareAuth allocates the session handle and sets the credentials on it.
// The handle's release is registered on ch.
func prepareAuth(n oci.Native, envh, errh oci.Handle, ch *chain, username, password string) (oci.Handle, error) {
	session, st := n.HandleAlloc(envh, oci.HTypeSession)
	if err := CheckStatus(n, st, 0, locAllocSession); err != nil {
		return 0, err
	}
	ch.push(locFreeSession, func() oci.Status { return n.HandleFree(session, oci.HTypeSession) })

	if err := CheckStatus(n, n.AttrSetText(session, oci.HTypeSession, username, oci.AttrUsername, errh), errh, locAttrUsername); err != nil {
		return 0, err
	}
	if err := CheckStatus(n, n.AttrSetText(session, oci.HTypeSession, password, oci.AttrPassword, errh), errh, locAttrPassword); err != nil {
		return 0, err
	}
	return session, nil
}

// ID identifies the connection in log records.
func (c *Connection) ID() string { return c.id.String() }

// Env returns the environment the connection was created from.
func (c *Connection) Env() *Env { return c.env }

// ServiceContext returns the OCI service context handle for the statement
// layer, or 0 once closed.
func (c *Connection) ServiceContext() oci.Handle { return c.svc }

// ErrorHandle returns the error handle statement calls should report into.
func (c *Connection) ErrorHandle() oci.Handle { return c.errh }

// Closed reports whether Close has run.
func (c *Connection) Closed() bool {
	return c == nil || (c.svc == 0 && c.srv == 0 && c.session == 0)
}

// Commit commits the current transaction with OCI_TRANS_WRITENOWAIT: the
// call returns once the server acknowledges, without waiting for the redo to
// be flushed.
func (c *Connection) Commit() error {
	if c.Closed() {
		return ErrConnectionClosed
	}
	n, errh := c.env.native, c.env.errh
	return CheckStatus(n, n.TransCommit(c.svc, errh, oci.TransWriteNoWait), errh, locTransCommit)
}

// Rollback rolls back the current transaction.
func (c *Connection) Rollback() error {
	if c.Closed() {
		return ErrConnectionClosed
	}
	n, errh := c.env.native, c.env.errh
	return CheckStatus(n, n.TransRollback(c.svc, errh), errh, locTransRollback)
}

// Close ends the session and releases the connection's handles in order:
// end session, detach server, free session, free service context, free
// server. End and detach failures do not stop the frees; all failures are
// joined into the returned error. Close is idempotent.
func (c *Connection) Close() error {
	if c.Closed() {
		return nil
	}
	runtime.SetFinalizer(c, nil)

	n, errh := c.env.native, c.errh
	var errs []error
	if c.svc != 0 && c.session != 0 {
		errs = append(errs, CheckStatus(n, n.SessionEnd(c.svc, errh, c.session), errh, locSessionEnd))
	}
	if c.srv != 0 {
		errs = append(errs, CheckStatus(n, n.ServerDetach(c.srv, errh), errh, locServerDetach))
	}
	if c.session != 0 {
		errs = append(errs, CheckStatus(n, n.HandleFree(c.session, oci.HTypeSession), 0, locFreeSession))
	}
	if c.svc != 0 {
		errs = append(errs, CheckStatus(n, n.HandleFree(c.svc, oci.HTypeSvcCtx), 0, locFreeSvcCtx))
	}
	if c.srv != 0 {
		errs = append(errs, CheckStatus(n, n.HandleFree(c.srv, oci.HTypeServer), 0, locFreeServer))
	}
	c.session, c.svc, c.srv = 0, 0, 0
	c.env.releaseConn()

	err := errors.Join(errs...)
	if err != nil {
		c.log.Warn(context.Background(), "connection closed with errors", "error", err)
		return err
	}
	c.log.Debug(context.Background(), "connection closed")
	return nil
}
