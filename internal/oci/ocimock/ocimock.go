// Package ocimock provides an in-memory oci.Native for tests. It hands out
// fake handles, records every call, counts allocate/free pairs, and lets a
// test force any call to return a chosen status.
package ocimock

import (
	"fmt"
	"sync"

	"github.com/hsiuhsiu/oci-go/internal/oci"
)

// Call names used by Fail and Count. HandleAlloc/HandleFree are keyed per
// handle type with AllocCall / FreeCall.
const (
	EnvCreate     = "OCIEnvCreate"
	Terminate     = "OCITerminate"
	ServerAttach  = "OCIServerAttach"
	ServerDetach  = "OCIServerDetach"
	SessionBegin  = "OCISessionBegin"
	SessionEnd    = "OCISessionEnd"
	AttrSet       = "OCIAttrSet"
	TransCommit   = "OCITransCommit"
	TransRollback = "OCITransRollback"
	ErrorGet      = "OCIErrorGet"
)

// AllocCall is the call name of OCIHandleAlloc for typ.
func AllocCall(typ oci.HandleType) string { return "OCIHandleAlloc:" + typ.String() }

// FreeCall is the call name of OCIHandleFree for typ.
func FreeCall(typ oci.HandleType) string { return "OCIHandleFree:" + typ.String() }

// AttrCall is the call name of OCIAttrSet for attr.
func AttrCall(attr oci.Attr) string { return fmt.Sprintf("%s:%d", AttrSet, attr) }

// Call is one recorded native call.
type Call struct {
	Name    string
	Handles []oci.Handle
}

// Native is a thread-safe fake OCI client.
type Native struct {
	mu sync.Mutex

	next     oci.Handle
	live     map[oci.Handle]oci.HandleType
	attrs    map[oci.Handle]map[oci.Attr]oci.Handle
	text     map[oci.Handle]map[oci.Attr]string
	attached map[oci.Handle]string
	sessions map[oci.Handle]oci.Handle

	fail  map[string]oci.Status
	calls []Call
	count map[string]int

	allocs      int
	frees       int
	doubleFrees int

	errCode int32
	errMsg  string

	// OnEnvCreate, when set, runs inside EnvCreate before the handle is
	// created. Concurrency tests use it to widen the init window.
	OnEnvCreate func()

	// OnServerAttach, when set, runs at the start of ServerAttach, outside
	// the fake's lock, so it may call back into the code under test.
	OnServerAttach func()

	// EnvHandleOnFailure makes a failed EnvCreate still allocate and return
	// an environment handle alongside the injected status.
	EnvHandleOnFailure bool
}

var _ oci.Native = (*Native)(nil)

// New returns an empty fake whose calls all succeed.
func New() *Native {
	return &Native{
		next:     0x1000,
		live:     make(map[oci.Handle]oci.HandleType),
		attrs:    make(map[oci.Handle]map[oci.Attr]oci.Handle),
		text:     make(map[oci.Handle]map[oci.Attr]string),
		attached: make(map[oci.Handle]string),
		sessions: make(map[oci.Handle]oci.Handle),
		fail:     make(map[string]oci.Status),
		count:    make(map[string]int),
	}
}

// Fail makes every later call named call return status.
func (n *Native) Fail(call string, status oci.Status) {
	n.mu.Lock()
	n.fail[call] = status
	n.mu.Unlock()
}

// Clear removes the failure registered for call.
func (n *Native) Clear(call string) {
	n.mu.Lock()
	delete(n.fail, call)
	n.mu.Unlock()
}

// SetError sets the record returned by ErrorGet.
func (n *Native) SetError(code int32, message string) {
	n.mu.Lock()
	n.errCode = code
	n.errMsg = message
	n.mu.Unlock()
}

// Allocs is the number of successful HandleAlloc and EnvCreate calls.
func (n *Native) Allocs() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.allocs
}

// Frees is the number of HandleFree calls that released a live handle.
func (n *Native) Frees() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.frees
}

// DoubleFrees counts HandleFree calls on handles that were not live.
func (n *Native) DoubleFrees() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.doubleFrees
}

// Live returns the number of live handles, optionally filtered by type.
func (n *Native) Live(types ...oci.HandleType) int {
	n.mu.Lock()
	defer n.mu.Unlock()
	if len(types) == 0 {
		return len(n.live)
	}
	c := 0
	for _, typ := range n.live {
		for _, want := range types {
			if typ == want {
				c++
			}
		}
	}
	return c
}

// IsLive reports whether h is allocated.
func (n *Native) IsLive(h oci.Handle) bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	_, ok := n.live[h]
	return ok
}

// Count returns how many times call was invoked, failed calls included.
func (n *Native) Count(call string) int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.count[call]
}

// Calls returns a copy of the call log.
func (n *Native) Calls() []Call {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]Call, len(n.calls))
	copy(out, n.calls)
	return out
}

// CallNames returns the names from the call log in order.
func (n *Native) CallNames() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]string, len(n.calls))
	for i, c := range n.calls {
		out[i] = c.Name
	}
	return out
}

// Attr returns the handle-valued attribute set on target.
func (n *Native) Attr(target oci.Handle, attr oci.Attr) oci.Handle {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.attrs[target][attr]
}

// TextAttr returns the text attribute set on target.
func (n *Native) TextAttr(target oci.Handle, attr oci.Attr) string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.text[target][attr]
}

// Attached returns the dblink srv is attached to, or "".
func (n *Native) Attached(srv oci.Handle) string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.attached[srv]
}

// Sessions is the number of sessions begun and not yet ended.
func (n *Native) Sessions() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.sessions)
}

// record logs the call and returns the injected status, if any. Callers
// hold n.mu.
func (n *Native) record(name string, handles ...oci.Handle) (oci.Status, bool) {
	n.calls = append(n.calls, Call{Name: name, Handles: handles})
	n.count[name]++
	st, ok := n.fail[name]
	return st, ok
}

func (n *Native) alloc(typ oci.HandleType) oci.Handle {
	n.next += 0x10
	h := n.next
	n.live[h] = typ
	n.allocs++
	return h
}

func (n *Native) EnvCreate(uint32) (oci.Handle, oci.Status) {
	if n.OnEnvCreate != nil {
		n.OnEnvCreate()
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	if st, ok := n.record(EnvCreate); ok {
		if n.EnvHandleOnFailure {
			return n.alloc(oci.HTypeEnv), st
		}
		return 0, st
	}
	return n.alloc(oci.HTypeEnv), oci.Success
}

func (n *Native) Terminate() oci.Status {
	n.mu.Lock()
	defer n.mu.Unlock()
	if st, ok := n.record(Terminate); ok {
		return st
	}
	return oci.Success
}

func (n *Native) HandleAlloc(parent oci.Handle, typ oci.HandleType) (oci.Handle, oci.Status) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if st, ok := n.record(AllocCall(typ), parent); ok {
		return 0, st
	}
	if n.live[parent] != oci.HTypeEnv {
		return 0, oci.InvalidHandle
	}
	return n.alloc(typ), oci.Success
}

func (n *Native) HandleFree(h oci.Handle, typ oci.HandleType) oci.Status {
	n.mu.Lock()
	defer n.mu.Unlock()
	if st, ok := n.record(FreeCall(typ), h); ok {
		return st
	}
	got, ok := n.live[h]
	if !ok || got != typ {
		n.doubleFrees++
		return oci.InvalidHandle
	}
	delete(n.live, h)
	delete(n.attrs, h)
	delete(n.text, h)
	delete(n.attached, h)
	n.frees++
	return oci.Success
}

func (n *Native) ServerAttach(srv, errh oci.Handle, dblink string) oci.Status {
	if n.OnServerAttach != nil {
		n.OnServerAttach()
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	if st, ok := n.record(ServerAttach, srv, errh); ok {
		return st
	}
	if n.live[srv] != oci.HTypeServer {
		return oci.InvalidHandle
	}
	n.attached[srv] = dblink
	return oci.Success
}

func (n *Native) ServerDetach(srv, errh oci.Handle) oci.Status {
	n.mu.Lock()
	defer n.mu.Unlock()
	if st, ok := n.record(ServerDetach, srv, errh); ok {
		return st
	}
	if _, ok := n.attached[srv]; !ok {
		return oci.InvalidHandle
	}
	delete(n.attached, srv)
	return oci.Success
}

func (n *Native) SessionBegin(svc, errh, session oci.Handle, _ uint32) oci.Status {
	n.mu.Lock()
	defer n.mu.Unlock()
	if st, ok := n.record(SessionBegin, svc, errh, session); ok {
		return st
	}
	if n.live[session] != oci.HTypeSession || n.live[svc] != oci.HTypeSvcCtx {
		return oci.InvalidHandle
	}
	n.sessions[session] = svc
	return oci.Success
}

func (n *Native) SessionEnd(svc, errh, session oci.Handle) oci.Status {
	n.mu.Lock()
	defer n.mu.Unlock()
	if st, ok := n.record(SessionEnd, svc, errh, session); ok {
		return st
	}
	if _, ok := n.sessions[session]; !ok {
		return oci.InvalidHandle
	}
	delete(n.sessions, session)
	return oci.Success
}

func (n *Native) AttrSetHandle(target oci.Handle, _ oci.HandleType, value oci.Handle, attr oci.Attr, errh oci.Handle) oci.Status {
	n.mu.Lock()
	defer n.mu.Unlock()
	if st, ok := n.record(AttrCall(attr), target, value, errh); ok {
		return st
	}
	if _, ok := n.live[target]; !ok {
		return oci.InvalidHandle
	}
	if n.attrs[target] == nil {
		n.attrs[target] = make(map[oci.Attr]oci.Handle)
	}
	n.attrs[target][attr] = value
	return oci.Success
}

func (n *Native) AttrSetText(target oci.Handle, _ oci.HandleType, value string, attr oci.Attr, errh oci.Handle) oci.Status {
	n.mu.Lock()
	defer n.mu.Unlock()
	if st, ok := n.record(AttrCall(attr), target, errh); ok {
		return st
	}
	if _, ok := n.live[target]; !ok {
		return oci.InvalidHandle
	}
	if n.text[target] == nil {
		n.text[target] = make(map[oci.Attr]string)
	}
	n.text[target][attr] = value
	return oci.Success
}

func (n *Native) TransCommit(svc, errh oci.Handle, _ uint32) oci.Status {
	n.mu.Lock()
	defer n.mu.Unlock()
	if st, ok := n.record(TransCommit, svc, errh); ok {
		return st
	}
	return oci.Success
}

func (n *Native) TransRollback(svc, errh oci.Handle) oci.Status {
	n.mu.Lock()
	defer n.mu.Unlock()
	if st, ok := n.record(TransRollback, svc, errh); ok {
		return st
	}
	return oci.Success
}

func (n *Native) ErrorGet(errh oci.Handle, _ uint32) (int32, string, oci.Status) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if st, ok := n.record(ErrorGet, errh); ok {
		return 0, "", st
	}
	msg := n.errMsg
	if len(msg) > oci.ErrorBufferSize-1 {
		msg = msg[:oci.ErrorBufferSize-1]
	}
	return n.errCode, msg, oci.Success
}
