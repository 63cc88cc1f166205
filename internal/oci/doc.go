// Package oci contains the boundary to the native Oracle Call Interface
// client library.
//
// # Design Principles
//
// 1. Isolation: ALL native calls live in this package. No other package should
//    import "C" or load libclntsh symbols.
//
// 2. Minimal Surface: Only the environment, server, session, transaction and
//    error-retrieval calls used by pkg/oracle are bound.
//
// 3. Raw Status: Every call returns the OCI status code unchanged. Translating
//    it into a Go error is the caller's job (see oracle.CheckStatus), because
//    the translation may need another native call on the error handle.
//
// 4. Opaque Handles: OCI pointers travel as Handle (uintptr). They are never
//    dereferenced on the Go side.
//
// # Backends
//
// The default backend resolves libclntsh at runtime with purego, so the module
// builds without cgo. Building with -tags oci_cgo links against oci.h and
// -lclntsh instead. Windows builds without the tag get a stub that reports
// ErrNotBuilt.
//
// # Threading
//
// An environment created with ModeThreaded may be shared across goroutines.
// Service contexts and sessions are NOT safe for unsynchronized concurrent use.
package oci
