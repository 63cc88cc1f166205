package oracle

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hsiuhsiu/oci-go/internal/oci"
)

func TestMakeQuery(t *testing.T) {
	n := useMock(t)
	conn, err := Connect("ORCL", "scott", "tiger")
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	q, err := conn.MakeQuery("select count(*) from emp")
	require.NoError(t, err)
	assert.Equal(t, "select count(*) from emp", q.SQL())
	assert.Same(t, conn, q.Connection())

	svc, err := q.ServiceContext()
	require.NoError(t, err)
	assert.Equal(t, conn.ServiceContext(), svc)

	n.SetError(CodeNullInAggregate, "ORA-24347: Warning of a NULL column in an aggregate function")
	err = q.Check(oci.SuccessWithInfo, "OCIStmtFetch2")
	var oe *Error
	require.True(t, errors.As(err, &oe))
	assert.True(t, oe.Warning())
	assert.Equal(t, "NULL column in a aggregate function", oe.Message)
	assert.NoError(t, q.Check(oci.Success, "OCIStmtExecute"))
}

func TestMakeQueryRejectsEmptySQL(t *testing.T) {
	useMock(t)
	conn, err := Connect("ORCL", "scott", "tiger")
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	for _, sql := range []string{"", "   ", "\n\t"} {
		_, err := conn.MakeQuery(sql)
		assert.ErrorIs(t, err, ErrEmptySQL)
	}
}

func TestQueryOutlivedByConnection(t *testing.T) {
	useMock(t)
	conn, err := Connect("ORCL", "scott", "tiger")
	require.NoError(t, err)

	q, err := conn.MakeQuery("select 1 from dual")
	require.NoError(t, err)
	require.NoError(t, conn.Close())

	_, err = q.ServiceContext()
	assert.ErrorIs(t, err, ErrConnectionClosed)
}
