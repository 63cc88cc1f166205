package oracle

import (
	"errors"
	"fmt"

	"github.com/hsiuhsiu/oci-go/internal/oci"
)

// CodeNullInAggregate is ORA-24347, reported when an aggregate function
// meets a NULL column.
const CodeNullInAggregate int32 = 24347

const nullInAggregateMessage = "NULL column in a aggregate function"

var (
	// ErrNotBuilt reports that no native OCI backend was compiled into the
	// current binary.
	ErrNotBuilt = errors.New("oracle: native bindings not built")

	// ErrLibraryNotFound reports that the OCI client library could not be
	// loaded.
	ErrLibraryNotFound = errors.New("oracle: OCI client library not found")

	// ErrAlreadyInitialized is returned by Configure once the environment
	// exists.
	ErrAlreadyInitialized = errors.New("oracle: environment already initialized")

	// ErrEnvironmentBusy is returned by Shutdown while connections are open.
	ErrEnvironmentBusy = errors.New("oracle: environment has open connections")

	// ErrConnectionClosed is returned by operations on a closed Connection.
	ErrConnectionClosed = errors.New("oracle: connection is closed")

	// ErrEmptySQL is returned by MakeQuery for blank statements.
	ErrEmptySQL = errors.New("oracle: empty SQL statement")
)

// Error is a failed OCI call translated by CheckStatus.
type Error struct {
	// Code is the ORA- error number retrieved from the error handle, or the
	// raw status when no detail was available.
	Code int32
	// Message is the human readable description.
	Message string
	// Location names the native call that failed.
	Location string
	// Status is the OCI status category the call returned.
	Status oci.Status
}

func (e *Error) Error() string {
	return fmt.Sprintf("\n\n   Error code: %d\n   Error message: %s\n   Where: %s\n\n",
		e.Code, e.Message, e.Location)
}

// Warning reports whether the call actually succeeded with diagnostic
// information (OCI_SUCCESS_WITH_INFO). Such results are still returned as
// errors; the caller decides whether they are fatal.
func (e *Error) Warning() bool {
	return e.Status == oci.SuccessWithInfo
}

// Is matches another *Error with the same Code, so callers can test
// errors.Is(err, &oracle.Error{Code: 1017}).
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// IsWarning reports whether err wraps an OCI_SUCCESS_WITH_INFO result.
func IsWarning(err error) bool {
	var oe *Error
	return errors.As(err, &oe) && oe.Warning()
}

// ContractViolation is the panic value raised when the client library returns
// a status outside its documented set. It signals a broken native layer, not
// a database condition, and is never returned as an error.
type ContractViolation struct {
	Status   oci.Status
	Location string
}

func (c *ContractViolation) Error() string {
	return fmt.Sprintf("oracle: %s returned undocumented status %d", c.Location, int32(c.Status))
}

// ErrorReader is the part of the native layer CheckStatus needs.
type ErrorReader interface {
	ErrorGet(errh oci.Handle, record uint32) (code int32, message string, status oci.Status)
}

// CheckStatus converts the status of the native call named location into an
// error. errh is the error handle the call reported into, or 0 when it takes
// none. OCI_SUCCESS yields nil. OCI_ERROR and OCI_SUCCESS_WITH_INFO read the
// first diagnostic record from errh; the other documented statuses map to
// fixed messages. Any other status panics with *ContractViolation.
func CheckStatus(r ErrorReader, status oci.Status, errh oci.Handle, location string) error {
	switch status {
	case oci.Success:
		return nil
	case oci.Error:
		return detailedError(r, status, errh, location, "Error with no details")
	case oci.SuccessWithInfo:
		return detailedError(r, status, errh, location, "Success with info")
	case oci.NoData:
		return fixedError(status, location, "No data")
	case oci.InvalidHandle:
		return fixedError(status, location, "Invalid handle")
	case oci.NeedData:
		return fixedError(status, location, "Need data")
	case oci.StillExecuting:
		return fixedError(status, location, "Still executing")
	default:
		panic(&ContractViolation{Status: status, Location: location})
	}
}

func fixedError(status oci.Status, location, msg string) *Error {
	return &Error{Code: int32(status), Message: msg, Location: location, Status: status}
}

// detailedError reads record 1 of errh. A failed or missing read falls back
// to the status code and fallback message.
func detailedError(r ErrorReader, status oci.Status, errh oci.Handle, location, fallback string) *Error {
	if r == nil || errh == 0 {
		return fixedError(status, location, fallback)
	}
	code, msg, st := r.ErrorGet(errh, 1)
	if st != oci.Success {
		return fixedError(status, location, fallback)
	}
	if code == CodeNullInAggregate {
		msg = nullInAggregateMessage
	}
	return &Error{Code: code, Message: msg, Location: location, Status: status}
}

// remapError converts native-layer errors to the public sentinels.
func remapError(err error) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, oci.ErrNotBuilt):
		return fmt.Errorf("%w: %v", ErrNotBuilt, err)
	case errors.Is(err, oci.ErrLibraryNotFound):
		return fmt.Errorf("%w: %v", ErrLibraryNotFound, err)
	}
	return err
}
