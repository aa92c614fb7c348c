package lighting

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ledsync/lighting-engine/internal/colorutil"
)

func singleLEDSegment(ledIndex int) *LightSegment {
	return singleLEDSegmentWithID(1, ledIndex)
}

func singleLEDSegmentWithID(segmentID, ledIndex int) *LightSegment {
	state := DefaultSegmentState(segmentID, 10)
	state.Length = [3]int{1, 0, 0}
	state.CurrentPosition = float64(ledIndex)
	state.InitialPosition = ledIndex
	return NewSegment(state, nil, nil)
}

func TestGetLEDOutputLeavesUncoveredLEDsBlack(t *testing.T) {
	cache := NewCache()
	effect := NewEffect(1, 5, "A", []*LightSegment{singleLEDSegment(2)}, cache, nil)

	out := effect.GetLEDOutput()
	assert.Len(t, out, 5)
	assert.Equal(t, colorutil.RGB{0, 0, 0}, out[0])
	assert.Equal(t, colorutil.RGB{0, 0, 0}, out[4])
	assert.Equal(t, colorutil.RGB{255, 0, 0}, out[2])
}

func TestGetLEDOutputFullyOpaqueTopSegmentOccludesBelow(t *testing.T) {
	cache := NewCache()
	segA := singleLEDSegmentWithID(1, 0)
	segA.UpdateParam("color", [4]int{0, 0, 0, 0}) // red, opaque

	segB := singleLEDSegmentWithID(2, 0)
	segB.UpdateParam("color", [4]int{1, 1, 1, 1}) // green, opaque, higher segment_ID

	effect := NewEffect(1, 1, "A", []*LightSegment{segA, segB}, cache, nil)
	out := effect.GetLEDOutput()

	assert.Equal(t, colorutil.RGB{0, 255, 0}, out[0])
}

func TestGetLEDOutputCompositesInAscendingSegmentIDOrderRegardlessOfSliceOrder(t *testing.T) {
	cache := NewCache()
	segA := singleLEDSegmentWithID(1, 0)
	segA.UpdateParam("color", [4]int{0, 0, 0, 0}) // red, opaque

	segB := singleLEDSegmentWithID(2, 0)
	segB.UpdateParam("color", [4]int{1, 1, 1, 1}) // green, opaque, higher segment_ID

	// Pass the higher-ID segment first; the compositor must still process by
	// segment_ID, not slice order, so the result is unchanged.
	effect := NewEffect(1, 1, "A", []*LightSegment{segB, segA}, cache, nil)
	out := effect.GetLEDOutput()

	assert.Equal(t, colorutil.RGB{0, 255, 0}, out[0])
}

func TestGetLEDOutputHalfTransparentOverlapUsesAlphaOver(t *testing.T) {
	// Mirrors the (100,0,0)/(0,100,0), tr=0.5 each, over-compositing fixture:
	// after A, cur=(100,0,0) cur_tr=0.5; after B, final_tr=0.75 and
	// final_c=((0,100,0)*0.5+(100,0,0)*0.5*0.5)/0.75 = (33,66,0).
	cache := NewCache()
	cache.Update("Z", Palette{{100, 0, 0}, {0, 100, 0}})

	segA := singleLEDSegmentWithID(1, 0)
	segA.UpdateParam("color", [4]int{0, 0, 0, 0})
	segA.UpdateParam("transparency", [4]float64{0.5, 0.5, 0.5, 0.5})

	segB := singleLEDSegmentWithID(2, 0)
	segB.UpdateParam("color", [4]int{1, 1, 1, 1})
	segB.UpdateParam("transparency", [4]float64{0.5, 0.5, 0.5, 0.5})

	effect := NewEffect(1, 1, "Z", []*LightSegment{segA, segB}, cache, nil)
	out := effect.GetLEDOutput()

	assert.Equal(t, colorutil.RGB{33, 66, 0}, out[0])
}

func TestSegmentOutOfRangeReturnsNil(t *testing.T) {
	effect := NewEffect(1, 5, "A", []*LightSegment{singleLEDSegment(0)}, NewCache(), nil)
	assert.Nil(t, effect.Segment(5))
	assert.NotNil(t, effect.Segment(0))
}

func TestSetPaletteRecomputesEverySegment(t *testing.T) {
	cache := NewCache()
	seg := singleLEDSegment(0)
	seg.RecomputeRGB("A")
	effect := NewEffect(1, 5, "A", []*LightSegment{seg}, cache, nil)

	effect.SetPalette("B")
	assert.Equal(t, "B", effect.CurrentPalette())
	assert.Equal(t, cache.Get("B").colorAt(0), seg.cachedRGB("B")[0])
}

func TestEffectToDictAndFromDictRoundTrip(t *testing.T) {
	cache := NewCache()
	seg := singleLEDSegment(3)
	effect := NewEffect(7, 10, "B", []*LightSegment{seg}, cache, nil)

	state := effect.ToDict()
	rebuilt := EffectFromDict(state, 10, cache, nil)

	assert.Equal(t, 7, rebuilt.ID())
	assert.Equal(t, "B", rebuilt.CurrentPalette())
	assert.Len(t, rebuilt.Segments(), 1)
}
