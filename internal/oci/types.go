package oci

import (
	"errors"
	"fmt"
)

// Handle is an opaque OCI handle (OCIEnv*, OCIError*, OCIServer*, ...).
// Zero means "not allocated".
type Handle uintptr

// Status is the sword result returned by every OCI call.
type Status int32

// Status codes from oci.h.
const (
	Success         Status = 0
	SuccessWithInfo Status = 1
	NeedData        Status = 99
	NoData          Status = 100
	Error           Status = -1
	InvalidHandle   Status = -2
	StillExecuting  Status = -3123
)

func (s Status) String() string {
	switch s {
	case Success:
		return "OCI_SUCCESS"
	case SuccessWithInfo:
		return "OCI_SUCCESS_WITH_INFO"
	case NeedData:
		return "OCI_NEED_DATA"
	case NoData:
		return "OCI_NO_DATA"
	case Error:
		return "OCI_ERROR"
	case InvalidHandle:
		return "OCI_INVALID_HANDLE"
	case StillExecuting:
		return "OCI_STILL_EXECUTING"
	default:
		return fmt.Sprintf("OCI_STATUS(%d)", int32(s))
	}
}

// HandleType is the OCI_HTYPE_* enumeration passed to OCIHandleAlloc/Free.
type HandleType uint32

const (
	HTypeEnv     HandleType = 1
	HTypeError   HandleType = 2
	HTypeSvcCtx  HandleType = 3
	HTypeStmt    HandleType = 4
	HTypeServer  HandleType = 8
	HTypeSession HandleType = 9
)

func (t HandleType) String() string {
	switch t {
	case HTypeEnv:
		return "OCI_HTYPE_ENV"
	case HTypeError:
		return "OCI_HTYPE_ERROR"
	case HTypeSvcCtx:
		return "OCI_HTYPE_SVCCTX"
	case HTypeStmt:
		return "OCI_HTYPE_STMT"
	case HTypeServer:
		return "OCI_HTYPE_SERVER"
	case HTypeSession:
		return "OCI_HTYPE_SESSION"
	default:
		return fmt.Sprintf("OCI_HTYPE(%d)", uint32(t))
	}
}

// Attr is the OCI_ATTR_* enumeration passed to OCIAttrSet.
type Attr uint32

const (
	AttrServer   Attr = 6
	AttrSession  Attr = 7
	AttrUsername Attr = 22
	AttrPassword Attr = 23
)

// Mode and flag values.
const (
	ModeDefault  uint32 = 0x00000000
	ModeThreaded uint32 = 0x00000001
	ModeObject   uint32 = 0x00000002

	CredRDBMS uint32 = 1

	// TransWriteNoWait is OCI_TRANS_WRITENOWAIT, the commit flag used by
	// Connection.Commit.
	TransWriteNoWait uint32 = 0x00000008
)

// ErrorBufferSize bounds the message buffer handed to OCIErrorGet.
const ErrorBufferSize = 2048

// Native is the in-process call surface of the OCI client library. Each
// method maps to exactly one OCI function and returns its raw status.
type Native interface {
	// EnvCreate wraps OCIEnvCreate.
	EnvCreate(mode uint32) (Handle, Status)
	// Terminate wraps OCITerminate.
	Terminate() Status

	HandleAlloc(parent Handle, typ HandleType) (Handle, Status)
	HandleFree(h Handle, typ HandleType) Status

	ServerAttach(srv, errh Handle, dblink string) Status
	ServerDetach(srv, errh Handle) Status

	SessionBegin(svc, errh, session Handle, cred uint32) Status
	SessionEnd(svc, errh, session Handle) Status

	// AttrSetHandle sets a handle-valued attribute (OCI_ATTR_SERVER,
	// OCI_ATTR_SESSION) on target.
	AttrSetHandle(target Handle, targetType HandleType, value Handle, attr Attr, errh Handle) Status
	// AttrSetText sets a text attribute (OCI_ATTR_USERNAME, OCI_ATTR_PASSWORD).
	AttrSetText(target Handle, targetType HandleType, value string, attr Attr, errh Handle) Status

	TransCommit(svc, errh Handle, flags uint32) Status
	TransRollback(svc, errh Handle) Status

	// ErrorGet wraps OCIErrorGet for record 1 of errh with a buffer of
	// ErrorBufferSize bytes. The SQL state is not requested.
	ErrorGet(errh Handle, record uint32) (code int32, message string, status Status)
}

var (
	// ErrNotBuilt reports that no native backend was compiled into the
	// current binary.
	ErrNotBuilt = errors.New("oci: native bindings not built")

	// ErrLibraryNotFound reports that the OCI client library could not be
	// loaded or lacks a required symbol.
	ErrLibraryNotFound = errors.New("oci: client library not found")
)
