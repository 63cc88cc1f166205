// Package oracle manages the Oracle Call Interface handle hierarchy and
// translates OCI status codes into Go errors.
//
// The process holds a single OCI environment, created on first use by
// Environment (or implicitly by Connect) and released by Shutdown at exit:
//
//	conn, err := oracle.Connect("ORCL", "scott", password)
//	if err != nil {
//		return err
//	}
//	defer conn.Close()
//
//	if err := conn.Commit(); err != nil {
//		var oe *oracle.Error
//		if errors.As(err, &oe) {
//			log.Printf("ORA-%05d at %s: %s", oe.Code, oe.Location, oe.Message)
//		}
//	}
//
// Connect is all-or-nothing: it either returns a fully wired Connection or
// releases every handle it allocated before returning the error.
//
// Every native status goes through CheckStatus. OCI_SUCCESS_WITH_INFO is
// reported as an *Error whose Warning method returns true.
package oracle
