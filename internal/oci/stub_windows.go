//go:build windows && !(cgo && oci_cgo)

package oci

// Stub backend for Windows builds without the oci_cgo tag. purego cannot
// dlopen on Windows, so Load reports ErrNotBuilt.

// DefaultLibrary returns the OCI client DLL name.
func DefaultLibrary() string { return "oci.dll" }

// Load always fails with ErrNotBuilt.
func Load(string) (Native, error) {
	return nil, ErrNotBuilt
}
