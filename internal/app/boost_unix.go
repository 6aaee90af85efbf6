//go:build linux || darwin

package app

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// boostNiceness is the niceness applied under --boost. Negative values
// need privileges on most systems.
const boostNiceness = -10

// applyBoost raises scheduling priority so collector and scheduler
// jitter intrude less on sub-microsecond timings. Without privileges the
// call fails; the run continues at normal priority with a warning.
func (a *Application) applyBoost() {
	if err := unix.Setpriority(unix.PRIO_PROCESS, 0, boostNiceness); err != nil {
		fmt.Fprintf(a.ErrWriter, "Warning: could not raise priority: %v\n", err)
	}
}
