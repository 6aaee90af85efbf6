//go:build !linux && !darwin

package app

import "fmt"

// applyBoost is a no-op on platforms without Setpriority.
func (a *Application) applyBoost() {
	fmt.Fprintln(a.ErrWriter, "Warning: --boost is not supported on this platform")
}
