package lighting

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ledsync/lighting-engine/internal/colorutil"
)

func TestDefaultSegmentStateMoveRangeSpansStrip(t *testing.T) {
	state := DefaultSegmentState(1, 10)
	assert.Equal(t, [2]int{0, 9}, state.MoveRange)
	assert.True(t, state.IsEdgeReflect)
	assert.False(t, state.Fade)
}

func TestFromDictResetsCurrentPosition(t *testing.T) {
	state := DefaultSegmentState(1, 10)
	state.InitialPosition = 3
	state.CurrentPosition = 7

	seg := FromDict(state, nil, nil)
	assert.Equal(t, 3.0, seg.ToDict().CurrentPosition)
}

func TestUpdatePositionEdgeReflectBouncesOffHighEdge(t *testing.T) {
	state := SegmentState{
		Length:        [3]int{1, 0, 0},
		MoveSpeed:     2,
		MoveRange:     [2]int{0, 9},
		CurrentPosition: 9,
		IsEdgeReflect: true,
	}
	seg := NewSegment(state, nil, nil)
	seg.UpdatePosition(1)

	got := seg.ToDict()
	assert.InDelta(t, 7, got.CurrentPosition, 1e-9)
	assert.Equal(t, -1, got.Direction)
	assert.Equal(t, -2.0, got.MoveSpeed)
}

func TestUpdatePositionWrapAroundReentersAtLowEdge(t *testing.T) {
	state := SegmentState{
		Length:          [3]int{1, 0, 0},
		MoveSpeed:       2,
		MoveRange:       [2]int{0, 9},
		CurrentPosition: 9,
		IsEdgeReflect:   false,
	}
	seg := NewSegment(state, nil, nil)
	seg.UpdatePosition(1)

	assert.InDelta(t, 1, seg.ToDict().CurrentPosition, 1e-9)
}

func TestApplyDimmingZeroDimmerTimeTotalIsAlwaysFullBrightness(t *testing.T) {
	seg := NewSegment(DefaultSegmentState(1, 10), nil, nil)
	assert.Equal(t, 1.0, seg.ApplyDimming())
}

func TestApplyDimmingFadeCycle(t *testing.T) {
	state := SegmentState{
		Fade:            true,
		DimmerTime:      [5]int{0, 2000, 4000, 6000, 8000},
		DimmerTimeRatio: 1.0,
	}
	seg := NewSegment(state, nil, nil)

	tick := func() float64 {
		seg.UpdatePosition(1)
		return seg.ApplyDimming()
	}

	assert.InDelta(t, 0.5, tick(), 1e-9) // t=1s -> 1000ms, ramp-up half way
	assert.InDelta(t, 1.0, tick(), 1e-9) // t=2s -> 2000ms, plateau
	assert.InDelta(t, 1.0, tick(), 1e-9) // t=3s -> 3000ms, plateau
	assert.InDelta(t, 1.0, tick(), 1e-9) // t=4s -> 4000ms, ramp-down start
	assert.InDelta(t, 0.5, tick(), 1e-9) // t=5s -> 5000ms, ramp-down half way
	assert.InDelta(t, 0.0, tick(), 1e-9) // t=6s -> 6000ms, dark
	assert.InDelta(t, 0.0, tick(), 1e-9) // t=7s -> 7000ms, still dark
	assert.InDelta(t, 0.0, tick(), 1e-9) // t=8s -> 8000ms wraps to cycle start
}

func TestCalculateRGBFallsBackToCacheWhenNoScene(t *testing.T) {
	cache := NewCache()
	state := DefaultSegmentState(1, 10)
	seg := NewSegment(state, cache, nil)

	got := seg.CalculateRGB("A")
	want := [4]colorutil.RGB{{255, 0, 0}, {0, 255, 0}, {0, 0, 255}, {255, 255, 0}}
	assert.Equal(t, want, got)
}

func TestCachedRGBRecomputesOnPaletteChange(t *testing.T) {
	cache := NewCache()
	seg := NewSegment(DefaultSegmentState(1, 10), cache, nil)

	first := seg.cachedRGB("A")
	assert.Equal(t, colorutil.RGB{255, 0, 0}, first[0])

	second := seg.cachedRGB("B")
	assert.NotEqual(t, first, second)
}

func TestGetLightDataSingleLEDUsesFirstTwoColors(t *testing.T) {
	cache := NewCache()
	state := DefaultSegmentState(1, 10)
	state.Length = [3]int{1, 0, 0}
	seg := NewSegment(state, cache, nil)

	data := seg.GetLightData("A")
	assert.Len(t, data, 1)

	sample := data[0]
	assert.Equal(t, colorutil.RGB{255, 0, 0}, sample.Color)
	assert.Equal(t, 1.0, sample.Transparency)
}

func TestGetLightDataZeroLengthIsEmpty(t *testing.T) {
	state := DefaultSegmentState(1, 10)
	state.Length = [3]int{0, 0, 0}
	seg := NewSegment(state, NewCache(), nil)

	assert.Nil(t, seg.GetLightData("A"))
}

func TestUpdateParamColorRecomputesRGB(t *testing.T) {
	cache := NewCache()
	seg := NewSegment(DefaultSegmentState(1, 10), cache, nil)
	seg.RecomputeRGB("A")

	seg.UpdateParam("color", [4]int{4, 5, 0, 1})
	assert.Equal(t, [4]int{4, 5, 0, 1}, seg.ToDict().Color)

	got := seg.cachedRGB("A")
	want := cache.Get("A")
	assert.Equal(t, want.colorAt(4), got[0])
	assert.Equal(t, want.colorAt(5), got[1])
}

func TestUpdateParamMoveSpeedSetsDirection(t *testing.T) {
	seg := NewSegment(DefaultSegmentState(1, 10), nil, nil)

	seg.UpdateParam("move_speed", -3.0)
	assert.Equal(t, -1, seg.ToDict().Direction)
	assert.Equal(t, -3.0, seg.ToDict().MoveSpeed)

	seg.UpdateParam("move_speed", 3.0)
	assert.Equal(t, 1, seg.ToDict().Direction)
}

func TestUpdateParamMoveRangeClampsCurrentPosition(t *testing.T) {
	state := DefaultSegmentState(1, 10)
	state.Length = [3]int{1, 0, 0}
	state.CurrentPosition = 9
	seg := NewSegment(state, nil, nil)

	seg.UpdateParam("move_range", [2]int{0, 4})
	assert.LessOrEqual(t, seg.ToDict().CurrentPosition, 4.0)
}

func TestUpdateParamIgnoresWrongShapedValue(t *testing.T) {
	seg := NewSegment(DefaultSegmentState(1, 10), nil, nil)
	before := seg.ToDict()

	seg.UpdateParam("color", "not-a-color")
	assert.Equal(t, before.Color, seg.ToDict().Color)
}
