// Package gesture tells a short press on an entry from a long press.
//
// Each entry id has its own small state machine: Idle, Pressed, Committed.
// The recognizer never starts timers itself; the caller schedules a tick for
// Duration() after Press and reports it with Expire, which keeps the machine
// deterministic under a fake clock.
package gesture

import (
	"time"
)

// DefaultLongPress is the hold time that opens the editor
const DefaultLongPress = 600 * time.Millisecond

// Pointer is the device and button that started a press
type Pointer int

const (
	PointerPrimary Pointer = iota
	PointerSecondary
	PointerMiddle
	PointerTouch
)

// TapPolicy decides what a press released before the long-press duration does
type TapPolicy int

const (
	TapIgnored TapPolicy = iota
	TapOpensEditor
)

// Phase is the state of one entry's machine
type Phase int

const (
	Idle Phase = iota
	Pressed
	Committed
)

func (p Phase) String() string {
	switch p {
	case Pressed:
		return "pressed"
	case Committed:
		return "committed"
	default:
		return "idle"
	}
}

// Outcome is what a release or expiry asks the caller to do
type Outcome int

const (
	None Outcome = iota
	Tap
	LongPress
)

// Config configures a Recognizer. Zero values mean 600ms, TapIgnored and time.Now.
type Config struct {
	LongPress time.Duration
	TapPolicy TapPolicy
	Now       func() time.Time
}

type press struct {
	phase   Phase
	token   uint64
	started time.Time
}

// Recognizer tracks presses keyed by entry id. It is not safe for concurrent
// use; the UI calls it from its update loop only.
type Recognizer struct {
	cfg     Config
	presses map[int64]*press
	seq     uint64
}

// New returns a recognizer with cfg's zero values defaulted
func New(cfg Config) *Recognizer {
	if cfg.LongPress <= 0 {
		cfg.LongPress = DefaultLongPress
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &Recognizer{cfg: cfg, presses: make(map[int64]*press)}
}

// Duration returns the long-press hold time
func (r *Recognizer) Duration() time.Duration {
	return r.cfg.LongPress
}

// Policy returns the configured tap policy
func (r *Recognizer) Policy() TapPolicy {
	return r.cfg.TapPolicy
}

// Phase reports the current phase for id
func (r *Recognizer) Phase(id int64) Phase {
	if p, ok := r.presses[id]; ok {
		return p.phase
	}
	return Idle
}

// Press starts a press on id and returns the token to pass to Expire.
// Secondary and middle buttons never start a press. A second Press while
// id is already pressed is ignored and returns false.
func (r *Recognizer) Press(id int64, ptr Pointer) (uint64, bool) {
	if ptr == PointerSecondary || ptr == PointerMiddle {
		return 0, false
	}
	if p, ok := r.presses[id]; ok && p.phase != Idle {
		return p.token, false
	}
	r.seq++
	r.presses[id] = &press{phase: Pressed, token: r.seq, started: r.cfg.Now()}
	return r.seq, true
}

// Expire reports that the tick scheduled for token fired. It commits only
// when the same press is still held for at least the long-press duration.
func (r *Recognizer) Expire(id int64, token uint64) Outcome {
	p, ok := r.presses[id]
	if !ok || p.phase != Pressed || p.token != token {
		return None
	}
	if r.cfg.Now().Sub(p.started) < r.cfg.LongPress {
		return None
	}
	p.phase = Committed
	return LongPress
}

// Release ends a press. A press held past the duration whose tick has not
// arrived yet commits here, so a long press commits exactly once.
func (r *Recognizer) Release(id int64) Outcome {
	p, ok := r.presses[id]
	if !ok {
		return None
	}
	delete(r.presses, id)

	switch p.phase {
	case Committed:
		return None
	case Pressed:
		if r.cfg.Now().Sub(p.started) >= r.cfg.LongPress {
			return LongPress
		}
		if r.cfg.TapPolicy == TapOpensEditor {
			return Tap
		}
	}
	return None
}

// Cancel drops a press without committing, for pointer-leave and touch-move.
// It reports whether a held press was cancelled.
func (r *Recognizer) Cancel(id int64) bool {
	p, ok := r.presses[id]
	if !ok {
		return false
	}
	delete(r.presses, id)
	return p.phase == Pressed
}

// CancelAll drops every press, e.g. when the feed scrolls or is replaced
func (r *Recognizer) CancelAll() {
	r.presses = make(map[int64]*press)
}

// ContextMenu reports whether the context menu on id is suppressed. It
// always is, since it would race with the long press.
func (r *Recognizer) ContextMenu(id int64) bool {
	return true
}
