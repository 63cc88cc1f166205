package oracle

import "runtime/debug"

const modulePath = "github.com/hsiuhsiu/oci-go"

// Version and GitCommit are populated at build time via
// -ldflags "-X github.com/hsiuhsiu/oci-go/pkg/oracle.Version=v1.2.3".
var (
	Version   = "v0.0.0-in-progress"
	GitCommit = "development"
)

const devVersion = "v0.0.0-in-progress"

// WrapperVersion returns the semantic version of this module. Without
// ldflags it falls back to the version recorded in the binary's build info
// when the module is a dependency.
func WrapperVersion() string {
	if Version != devVersion {
		return Version
	}
	if bi, ok := debug.ReadBuildInfo(); ok {
		for _, dep := range bi.Deps {
			if dep.Path == modulePath && dep.Version != "" {
				return dep.Version
			}
		}
	}
	return Version
}
