//go:build !windows && !(cgo && oci_cgo)

package oci

import (
	"fmt"
	"runtime"

	"github.com/ebitengine/purego"
)

// DefaultLibrary returns the file name of the OCI client library for the
// current platform. dlopen searches LD_LIBRARY_PATH / DYLD_LIBRARY_PATH.
func DefaultLibrary() string {
	if runtime.GOOS == "darwin" {
		return "libclntsh.dylib"
	}
	return "libclntsh.so"
}

// library binds the OCI symbols of one dlopen'ed libclntsh. Arguments use
// plain integer/pointer types only; purego passes them through the C ABI.
type library struct {
	handle uintptr

	envCreate     func(envp *uintptr, mode uint32, ctxp, malocfp, ralocfp, mfreefp, xtramemSz, usrmempp uintptr) int32
	terminate     func(mode uint32) int32
	handleAlloc   func(parent uintptr, hndlpp *uintptr, typ uint32, xtramemSz, usrmempp uintptr) int32
	handleFree    func(h uintptr, typ uint32) int32
	serverAttach  func(srv, errh uintptr, dblink *byte, dblinkLen int32, mode uint32) int32
	serverDetach  func(srv, errh uintptr, mode uint32) int32
	sessionBegin  func(svc, errh, usr uintptr, cred, mode uint32) int32
	sessionEnd    func(svc, errh, usr uintptr, mode uint32) int32
	attrSetHandle func(target uintptr, typ uint32, value uintptr, size, attr uint32, errh uintptr) int32
	attrSetText   func(target uintptr, typ uint32, value *byte, size, attr uint32, errh uintptr) int32
	transCommit   func(svc, errh uintptr, flags uint32) int32
	transRollback func(svc, errh uintptr, flags uint32) int32
	errorGet      func(h uintptr, record uint32, sqlstate *byte, errcode *int32, buf *byte, bufsiz, typ uint32) int32
}

var _ Native = (*library)(nil)

// Load opens the OCI client library at path (DefaultLibrary when empty) and
// resolves every symbol Native needs.
func Load(path string) (Native, error) {
	if path == "" {
		path = DefaultLibrary()
	}
	h, err := purego.Dlopen(path, purego.RTLD_NOW|purego.RTLD_GLOBAL)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrLibraryNotFound, path, err)
	}

	lib := &library{handle: h}
	symbols := []struct {
		name string
		fptr any
	}{
		{"OCIEnvCreate", &lib.envCreate},
		{"OCITerminate", &lib.terminate},
		{"OCIHandleAlloc", &lib.handleAlloc},
		{"OCIHandleFree", &lib.handleFree},
		{"OCIServerAttach", &lib.serverAttach},
		{"OCIServerDetach", &lib.serverDetach},
		{"OCISessionBegin", &lib.sessionBegin},
		{"OCISessionEnd", &lib.sessionEnd},
		{"OCIAttrSet", &lib.attrSetHandle},
		{"OCIAttrSet", &lib.attrSetText},
		{"OCITransCommit", &lib.transCommit},
		{"OCITransRollback", &lib.transRollback},
		{"OCIErrorGet", &lib.errorGet},
	}
	for _, s := range symbols {
		sym, err := purego.Dlsym(h, s.name)
		if err != nil {
			_ = purego.Dlclose(h)
			return nil, fmt.Errorf("%w: %s: missing symbol %s", ErrLibraryNotFound, path, s.name)
		}
		purego.RegisterFunc(s.fptr, sym)
	}
	return lib, nil
}

func (l *library) EnvCreate(mode uint32) (Handle, Status) {
	var env uintptr
	rc := l.envCreate(&env, mode, 0, 0, 0, 0, 0, 0)
	return Handle(env), Status(rc)
}

func (l *library) Terminate() Status {
	return Status(l.terminate(ModeDefault))
}

func (l *library) HandleAlloc(parent Handle, typ HandleType) (Handle, Status) {
	var h uintptr
	rc := l.handleAlloc(uintptr(parent), &h, uint32(typ), 0, 0)
	return Handle(h), Status(rc)
}

func (l *library) HandleFree(h Handle, typ HandleType) Status {
	return Status(l.handleFree(uintptr(h), uint32(typ)))
}

func (l *library) ServerAttach(srv, errh Handle, dblink string) Status {
	buf, n := textArg(dblink)
	rc := l.serverAttach(uintptr(srv), uintptr(errh), buf, int32(n), ModeDefault)
	runtime.KeepAlive(buf)
	return Status(rc)
}

func (l *library) ServerDetach(srv, errh Handle) Status {
	return Status(l.serverDetach(uintptr(srv), uintptr(errh), ModeDefault))
}

func (l *library) SessionBegin(svc, errh, session Handle, cred uint32) Status {
	return Status(l.sessionBegin(uintptr(svc), uintptr(errh), uintptr(session), cred, ModeDefault))
}

func (l *library) SessionEnd(svc, errh, session Handle) Status {
	return Status(l.sessionEnd(uintptr(svc), uintptr(errh), uintptr(session), ModeDefault))
}

func (l *library) AttrSetHandle(target Handle, targetType HandleType, value Handle, attr Attr, errh Handle) Status {
	return Status(l.attrSetHandle(uintptr(target), uint32(targetType), uintptr(value), 0, uint32(attr), uintptr(errh)))
}

func (l *library) AttrSetText(target Handle, targetType HandleType, value string, attr Attr, errh Handle) Status {
	buf, n := textArg(value)
	rc := l.attrSetText(uintptr(target), uint32(targetType), buf, uint32(n), uint32(attr), uintptr(errh))
	runtime.KeepAlive(buf)
	return Status(rc)
}

func (l *library) TransCommit(svc, errh Handle, flags uint32) Status {
	return Status(l.transCommit(uintptr(svc), uintptr(errh), flags))
}

func (l *library) TransRollback(svc, errh Handle) Status {
	return Status(l.transRollback(uintptr(svc), uintptr(errh), ModeDefault))
}

func (l *library) ErrorGet(errh Handle, record uint32) (int32, string, Status) {
	var code int32
	buf := make([]byte, ErrorBufferSize)
	rc := l.errorGet(uintptr(errh), record, nil, &code, &buf[0], uint32(len(buf)), uint32(HTypeError))
	return code, cString(buf), Status(rc)
}

// textArg returns a NUL-terminated copy of s and its length without the
// terminator. OCI takes explicit lengths but some client versions still read
// up to the terminator.
func textArg(s string) (*byte, int) {
	b := make([]byte, len(s)+1)
	copy(b, s)
	return &b[0], len(s)
}
