package detect

import "github.com/ledsync/lighting-engine/internal/history"

// IdleBeatThresholds are the beat-count multiples the idle tracker reports
// on.
var IdleBeatThresholds = [4]int{4, 8, 16, 32}

const idleHistoryCapacity = 32

// IdleBeatTracker counts beats modulo a set of thresholds, resetting
// whenever a section-level musical change fires so a quiet stretch always
// starts its count fresh.
type IdleBeatTracker struct {
	hist        *history.History
	beatCounter int
	flags       map[int]bool
}

func NewIdleBeatTracker() *IdleBeatTracker {
	flags := make(map[int]bool, len(IdleBeatThresholds))
	for _, t := range IdleBeatThresholds {
		flags[t] = false
	}
	return &IdleBeatTracker{
		hist:  history.New(idleHistoryCapacity),
		flags: flags,
	}
}

// Update appends the current beat flag and recomputes the threshold flags.
// anyMusicalChange should be true if any of the songhook/performer-switch/
// highlight/song-alternation detectors fired on this same frame.
func (t *IdleBeatTracker) Update(beatFlg bool, anyMusicalChange bool) {
	prevFull := t.hist.Size() >= idleHistoryCapacity
	var prevBeat bool
	if prevFull {
		seq := t.hist.Get("beat")
		prevBeat = seq[len(seq)-1].Bool
	}

	t.hist.Append("beat", history.BoolValue(beatFlg))

	if t.hist.Size() < idleHistoryCapacity {
		t.clearFlags()
		return
	}

	switch {
	case prevBeat:
		// Consecutive beats collapse into a single logical beat.
		t.clearFlags()
	case beatFlg:
		t.beatCounter++
		for _, threshold := range IdleBeatThresholds {
			t.flags[threshold] = t.beatCounter%threshold == 0
		}
		if t.beatCounter >= 32 {
			t.beatCounter = 0
		}
	default:
		t.clearFlags()
	}

	if anyMusicalChange {
		t.beatCounter = 0
	}
}

func (t *IdleBeatTracker) clearFlags() {
	for _, threshold := range IdleBeatThresholds {
		t.flags[threshold] = false
	}
}

// Flag reports the no-change flag for the given threshold (must be one of
// IdleBeatThresholds).
func (t *IdleBeatTracker) Flag(threshold int) bool {
	return t.flags[threshold]
}

// BeatCounter exposes the current counter value, mainly for tests.
func (t *IdleBeatTracker) BeatCounter() int {
	return t.beatCounter
}
