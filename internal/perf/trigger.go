package perf

import "sync/atomic"

// Mode selects which page lifecycle signal flushes the perf record.
type Mode int

const (
	// ModeHidden flushes when the page becomes hidden. Used when the host
	// can observe layout shifts, so late CLS updates arrive before hiding.
	ModeHidden Mode = iota
	// ModeUnload flushes on the terminal page-hide signal.
	ModeUnload
)

func (m Mode) String() string {
	if m == ModeHidden {
		return "hidden"
	}
	return "unload"
}

// Trigger fires a flush callback at most once, on the signal chosen by its
// mode. Signals of the other kind are ignored.
type Trigger struct {
	mode  Mode
	fire  func()
	armed atomic.Bool
}

// NewTrigger arms a trigger. supportsLayoutShift picks ModeHidden, otherwise
// ModeUnload is used. fire may be nil when the caller acts on the bool
// returned by the signal methods instead.
func NewTrigger(supportsLayoutShift bool, fire func()) *Trigger {
	t := &Trigger{mode: ModeUnload, fire: fire}
	if supportsLayoutShift {
		t.mode = ModeHidden
	}
	t.armed.Store(true)
	return t
}

// Mode returns the trigger's mode.
func (t *Trigger) Mode() Mode { return t.mode }

// VisibilityChanged handles a visibility change. It reports whether the
// flush fired.
func (t *Trigger) VisibilityChanged(hidden bool) bool {
	if t.mode != ModeHidden || !hidden {
		return false
	}
	return t.tryFire()
}

// PageHide handles the terminal unload signal. It reports whether the flush
// fired.
func (t *Trigger) PageHide() bool {
	if t.mode != ModeUnload {
		return false
	}
	return t.tryFire()
}

// Cancel disarms the trigger without firing.
func (t *Trigger) Cancel() {
	t.armed.Store(false)
}

// Armed reports whether the trigger can still fire.
func (t *Trigger) Armed() bool {
	return t.armed.Load()
}

func (t *Trigger) tryFire() bool {
	if !t.armed.CompareAndSwap(true, false) {
		return false
	}
	if t.fire != nil {
		t.fire()
	}
	return true
}
