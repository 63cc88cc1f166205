// Package internalcheck holds static checks run as tests over the oci-go
// source tree.
//
// The checks load every package of the module with golang.org/x/tools and
// inspect the syntax trees:
//
//   - only internal/oci may import "C" or github.com/ebitengine/purego, so
//     every native call goes through the oci.Native interface;
//   - no logging or formatting call may receive a value named like a
//     password. Credentials are logged only as logging.Redacted("password").
//
// This package is part of the internal implementation and has no API.
package internalcheck
