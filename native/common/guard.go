package common

import "errors"

// ErrModulePaused indicates a guarded module has been disabled by an
// administrator and must reject value-moving operations.
var ErrModulePaused = errors.New("module paused")

// PauseView reports whether a named module is currently paused. The trader and
// token engines consult it before performing any state mutation.
type PauseView interface {
	IsPaused(module string) bool
}

// Guard returns ErrModulePaused when the named module is paused. A nil view or
// empty module name is treated as unpaused so callers can wire the check
// unconditionally.
func Guard(p PauseView, module string) error {
	if p == nil || module == "" {
		return nil
	}
	if p.IsPaused(module) {
		return ErrModulePaused
	}
	return nil
}
