package state

import (
	"encoding/json"
	"sync/atomic"
)

// LatchState is the position of a per-episode one-shot action.
type LatchState int

const (
	NotStarted LatchState = iota
	InProgress
	Committed
)

var latchNames = map[LatchState]string{
	NotStarted: "not_started",
	InProgress: "in_progress",
	Committed:  "committed",
}

func (s LatchState) String() string {
	if n, ok := latchNames[s]; ok {
		return n
	}
	return "unknown"
}

func (s LatchState) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// Latch guards an action that may happen at most once per episode. The
// state and an episode generation are packed into one word so every
// transition is a single compare-and-swap; a holder that began in an older
// generation can neither commit nor abort after a Reset.
type Latch struct {
	v atomic.Uint64
}

func pack(gen uint64, s LatchState) uint64 { return gen<<2 | uint64(s) }

func unpack(v uint64) (uint64, LatchState) { return v >> 2, LatchState(v & 3) }

// Begin moves NotStarted to InProgress. It returns the episode generation
// the caller must present to Commit or Abort, and false if the latch was
// already taken.
func (l *Latch) Begin() (uint64, bool) {
	for {
		old := l.v.Load()
		gen, s := unpack(old)
		if s != NotStarted {
			return gen, false
		}
		if l.v.CompareAndSwap(old, pack(gen, InProgress)) {
			return gen, true
		}
	}
}

// Commit moves InProgress to Committed within the same episode.
func (l *Latch) Commit(gen uint64) bool {
	return l.v.CompareAndSwap(pack(gen, InProgress), pack(gen, Committed))
}

// Abort releases an InProgress latch so the action can be attempted again.
func (l *Latch) Abort(gen uint64) bool {
	return l.v.CompareAndSwap(pack(gen, InProgress), pack(gen, NotStarted))
}

// Reset starts a new episode.
func (l *Latch) Reset() {
	for {
		old := l.v.Load()
		gen, _ := unpack(old)
		if l.v.CompareAndSwap(old, pack(gen+1, NotStarted)) {
			return
		}
	}
}

// State returns the current position.
func (l *Latch) State() LatchState {
	_, s := unpack(l.v.Load())
	return s
}

// Done reports whether the action was committed this episode.
func (l *Latch) Done() bool {
	return l.State() == Committed
}
