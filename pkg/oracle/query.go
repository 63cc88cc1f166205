package oracle

import (
	"strings"

	"github.com/hsiuhsiu/oci-go/internal/oci"
)

// Query is a SQL statement bound to the Connection that created it. The
// statement layer prepares and executes it through ServiceContext and
// ErrorHandle, routing statuses through CheckStatus. The Connection must stay
// open for as long as its queries are in use.
type Query struct {
	conn *Connection
	sql  string
}

// MakeQuery binds sql to the connection.
func (c *Connection) MakeQuery(sql string) (*Query, error) {
	if c.Closed() {
		return nil, ErrConnectionClosed
	}
	if strings.TrimSpace(sql) == "" {
		return nil, ErrEmptySQL
	}
	return &Query{conn: c, sql: sql}, nil
}

// SQL returns the statement text.
func (q *Query) SQL() string { return q.sql }

// Connection returns the owning connection.
func (q *Query) Connection() *Connection { return q.conn }

// ServiceContext returns the owning connection's service context, or
// ErrConnectionClosed once the connection is gone.
func (q *Query) ServiceContext() (oci.Handle, error) {
	if q.conn.Closed() {
		return 0, ErrConnectionClosed
	}
	return q.conn.svc, nil
}

// Check translates the status of a statement-layer native call made on this
// query's connection.
func (q *Query) Check(status oci.Status, location string) error {
	return CheckStatus(q.conn.env.native, status, q.conn.errh, location)
}
