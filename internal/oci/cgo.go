//go:build cgo && oci_cgo

package oci

/*
#cgo LDFLAGS: -lclntsh
#cgo linux CFLAGS: -I/usr/include/oracle/client64 -I/opt/oracle/instantclient/sdk/include
#cgo linux LDFLAGS: -L/opt/oracle/instantclient
#cgo darwin CFLAGS: -I/opt/oracle/instantclient/sdk/include
#cgo darwin LDFLAGS: -L/opt/oracle/instantclient

#include <stdlib.h>
#include <string.h>
#include <oci.h>

static sword ocigo_env_create(OCIEnv **envp, ub4 mode) {
	return OCIEnvCreate(envp, mode, NULL, NULL, NULL, NULL, 0, NULL);
}

static sword ocigo_handle_alloc(void *parent, void **hndlp, ub4 type) {
	return OCIHandleAlloc(parent, hndlp, type, 0, NULL);
}
*/
import "C"

import "unsafe"

// DefaultLibrary reports the linked client library. With cgo the library is
// resolved by the system linker, so Load ignores its path argument.
func DefaultLibrary() string { return "clntsh" }

type linked struct{}

var _ Native = linked{}

// Load returns the statically linked backend.
func Load(string) (Native, error) {
	return linked{}, nil
}

// ptr converts an opaque handle back to the C pointer it was created from.
// The memory is owned by OCI, never by the Go heap.
func ptr(h Handle) unsafe.Pointer {
	return unsafe.Pointer(uintptr(h))
}

func (linked) EnvCreate(mode uint32) (Handle, Status) {
	var env *C.OCIEnv
	rc := C.ocigo_env_create(&env, C.ub4(mode))
	return Handle(uintptr(unsafe.Pointer(env))), Status(rc)
}

func (linked) Terminate() Status {
	return Status(C.OCITerminate(C.OCI_DEFAULT))
}

func (linked) HandleAlloc(parent Handle, typ HandleType) (Handle, Status) {
	var h unsafe.Pointer
	rc := C.ocigo_handle_alloc(ptr(parent), &h, C.ub4(typ))
	return Handle(uintptr(h)), Status(rc)
}

func (linked) HandleFree(h Handle, typ HandleType) Status {
	return Status(C.OCIHandleFree(ptr(h), C.ub4(typ)))
}

func (linked) ServerAttach(srv, errh Handle, dblink string) Status {
	cs := C.CString(dblink)
	defer C.free(unsafe.Pointer(cs))
	rc := C.OCIServerAttach((*C.OCIServer)(ptr(srv)), (*C.OCIError)(ptr(errh)),
		(*C.OraText)(unsafe.Pointer(cs)), C.sb4(len(dblink)), C.OCI_DEFAULT)
	return Status(rc)
}

func (linked) ServerDetach(srv, errh Handle) Status {
	return Status(C.OCIServerDetach((*C.OCIServer)(ptr(srv)), (*C.OCIError)(ptr(errh)), C.OCI_DEFAULT))
}

func (linked) SessionBegin(svc, errh, session Handle, cred uint32) Status {
	return Status(C.OCISessionBegin((*C.OCISvcCtx)(ptr(svc)), (*C.OCIError)(ptr(errh)),
		(*C.OCISession)(ptr(session)), C.ub4(cred), C.OCI_DEFAULT))
}

func (linked) SessionEnd(svc, errh, session Handle) Status {
	return Status(C.OCISessionEnd((*C.OCISvcCtx)(ptr(svc)), (*C.OCIError)(ptr(errh)),
		(*C.OCISession)(ptr(session)), C.OCI_DEFAULT))
}

func (linked) AttrSetHandle(target Handle, targetType HandleType, value Handle, attr Attr, errh Handle) Status {
	return Status(C.OCIAttrSet(ptr(target), C.ub4(targetType), ptr(value), 0, C.ub4(attr),
		(*C.OCIError)(ptr(errh))))
}

func (linked) AttrSetText(target Handle, targetType HandleType, value string, attr Attr, errh Handle) Status {
	cs := C.CString(value)
	defer C.free(unsafe.Pointer(cs))
	return Status(C.OCIAttrSet(ptr(target), C.ub4(targetType), unsafe.Pointer(cs), C.ub4(len(value)),
		C.ub4(attr), (*C.OCIError)(ptr(errh))))
}

func (linked) TransCommit(svc, errh Handle, flags uint32) Status {
	return Status(C.OCITransCommit((*C.OCISvcCtx)(ptr(svc)), (*C.OCIError)(ptr(errh)), C.ub4(flags)))
}

func (linked) TransRollback(svc, errh Handle) Status {
	return Status(C.OCITransRollback((*C.OCISvcCtx)(ptr(svc)), (*C.OCIError)(ptr(errh)), C.OCI_DEFAULT))
}

func (linked) ErrorGet(errh Handle, record uint32) (int32, string, Status) {
	var code C.sb4
	buf := (*C.OraText)(C.malloc(ErrorBufferSize))
	defer C.free(unsafe.Pointer(buf))
	C.memset(unsafe.Pointer(buf), 0, ErrorBufferSize)
	rc := C.OCIErrorGet(ptr(errh), C.ub4(record), nil, &code, buf, ErrorBufferSize, C.OCI_HTYPE_ERROR)
	msg := cString(C.GoBytes(unsafe.Pointer(buf), ErrorBufferSize))
	return int32(code), msg, Status(rc)
}
