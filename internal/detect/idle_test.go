package detect

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIdleBeatTrackerNoFlagsBeforeWarmup(t *testing.T) {
	tr := NewIdleBeatTracker()
	for i := 0; i < idleHistoryCapacity-1; i++ {
		tr.Update(false, false)
	}
	for _, threshold := range IdleBeatThresholds {
		assert.False(t, tr.Flag(threshold))
	}
}

func TestIdleBeatTrackerCountsNonConsecutiveBeats(t *testing.T) {
	tr := NewIdleBeatTracker()
	for i := 0; i < idleHistoryCapacity; i++ {
		tr.Update(false, false)
	}
	assert.Equal(t, 0, tr.BeatCounter())

	for i := 0; i < 3; i++ {
		tr.Update(true, false)
		tr.Update(false, false)
	}
	// the fourth beat's threshold flag is only live on the frame it lands,
	// before the next non-beat frame clears it again.
	tr.Update(true, false)
	assert.Equal(t, 4, tr.BeatCounter())
	assert.True(t, tr.Flag(4))
	assert.False(t, tr.Flag(8))
}

func TestIdleBeatTrackerCollapsesConsecutiveBeats(t *testing.T) {
	tr := NewIdleBeatTracker()
	for i := 0; i < idleHistoryCapacity; i++ {
		tr.Update(false, false)
	}

	tr.Update(true, false)
	assert.Equal(t, 1, tr.BeatCounter())

	// a second beat immediately after the first collapses into it instead
	// of incrementing the counter.
	tr.Update(true, false)
	assert.Equal(t, 1, tr.BeatCounter())
}

func TestIdleBeatTrackerResetsOnMusicalChange(t *testing.T) {
	tr := NewIdleBeatTracker()
	for i := 0; i < idleHistoryCapacity; i++ {
		tr.Update(false, false)
	}
	tr.Update(true, false)
	tr.Update(false, false)
	tr.Update(true, false)
	assert.Equal(t, 2, tr.BeatCounter())

	tr.Update(false, true)
	assert.Equal(t, 0, tr.BeatCounter())
}

func TestIdleBeatTrackerWrapsAtThirtyTwo(t *testing.T) {
	tr := NewIdleBeatTracker()
	for i := 0; i < idleHistoryCapacity; i++ {
		tr.Update(false, false)
	}
	for i := 0; i < 31; i++ {
		tr.Update(true, false)
		tr.Update(false, false)
	}
	tr.Update(true, false)
	assert.True(t, tr.Flag(32))
	assert.Equal(t, 0, tr.BeatCounter())
}
