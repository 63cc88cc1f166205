package oracle

import (
	"context"

	"github.com/hsiuhsiu/oci-go/internal/oci"
	"github.com/hsiuhsiu/oci-go/pkg/oracle/logging"
)

// chain records the release action of every native resource acquired during
// a multi-step construction. unwind runs them in reverse order; keep hands
// ownership to the constructed value so a deferred unwind becomes a no-op.
type chain struct {
	log   logging.Logger
	steps []releaseStep
}

type releaseStep struct {
	location string
	release  func() oci.Status
}

func newChain(log logging.Logger) *chain {
	return &chain{log: log}
}

// push registers release for a resource that was just acquired.
func (c *chain) push(location string, release func() oci.Status) {
	c.steps = append(c.steps, releaseStep{location: location, release: release})
}

// keep drops all recorded steps without running them.
func (c *chain) keep() {
	c.steps = nil
}

// unwind releases everything acquired so far, newest first. Release failures
// are logged; the construction error is what the caller reports.
func (c *chain) unwind() {
	for i := len(c.steps) - 1; i >= 0; i-- {
		s := c.steps[i]
		if st := s.release(); st != oci.Success {
			c.log.Warn(context.Background(), "release failed during unwind",
				"location", s.location, "status", st.String())
		}
	}
	c.steps = nil
}
