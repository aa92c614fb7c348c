package lighting

import (
	"sort"

	"github.com/ledsync/lighting-engine/internal/colorutil"
)

// EffectState is the serializable snapshot of a LightEffect.
type EffectState struct {
	EffectID      int            `json:"effect_id"`
	CurrentPalette string        `json:"current_palette"`
	Segments      []SegmentState `json:"segments"`
}

// LightEffect owns a fixed set of LightSegments sharing one palette and
// composites their per-frame light data into a single LED strip output.
type LightEffect struct {
	effectID       int
	ledCount       int
	currentPalette string
	segments       []*LightSegment

	scene *LightScene
	cache *Cache
}

// NewEffect constructs a LightEffect over segments, all of which must
// already carry the same scene back-reference (or nil). A segment with no
// palette cache of its own is given cache.
func NewEffect(effectID, ledCount int, palette string, segments []*LightSegment, cache *Cache, scene *LightScene) *LightEffect {
	for _, seg := range segments {
		if seg.cache == nil {
			seg.cache = cache
		}
	}
	return &LightEffect{
		effectID:       effectID,
		ledCount:       ledCount,
		currentPalette: palette,
		segments:       segments,
		cache:          cache,
		scene:          scene,
	}
}

func (e *LightEffect) ID() int                      { return e.effectID }
func (e *LightEffect) CurrentPalette() string        { return e.currentPalette }
func (e *LightEffect) Segments() []*LightSegment     { return e.segments }

// Segment returns the segment at idx, or nil if idx is out of range.
func (e *LightEffect) Segment(idx int) *LightSegment {
	if idx < 0 || idx >= len(e.segments) {
		return nil
	}
	return e.segments[idx]
}

// UpdateAll advances every owned segment's position by one frame tick.
func (e *LightEffect) UpdateAll(fps float64) {
	for _, seg := range e.segments {
		seg.UpdatePosition(fps)
	}
}

// SetPalette switches the effect's active palette and recomputes every
// segment's cached RGB resolution against it.
func (e *LightEffect) SetPalette(id string) {
	e.currentPalette = id
	for _, seg := range e.segments {
		seg.RecomputeRGB(id)
	}
}

// contribution is one segment's light data at a single LED, tagged with the
// owning segment's ID so overlapping contributions can be composited in
// ascending segment_ID order regardless of iteration order.
type contribution struct {
	segmentID    int
	color        colorutil.RGB
	transparency float64
}

// GetLEDOutput composites every segment's per-LED contribution into a
// single strip. Overlapping segments are layered in ascending segment_ID
// order with the standard alpha-over operator, so a higher-ID segment sits
// on top and a fully opaque one fully occludes what is beneath it; LEDs no
// segment covers are left black.
func (e *LightEffect) GetLEDOutput() []colorutil.RGB {
	out := make([]colorutil.RGB, e.ledCount)

	contributions := make([][]contribution, e.ledCount)

	for _, seg := range e.segments {
		data := seg.GetLightData(e.currentPalette)
		for idx, sample := range data {
			if idx < 0 || idx >= e.ledCount {
				continue
			}
			contributions[idx] = append(contributions[idx], contribution{
				segmentID:    seg.ID(),
				color:        sample.Color,
				transparency: sample.Transparency,
			})
		}
	}

	for i := 0; i < e.ledCount; i++ {
		out[i] = compositeOver(contributions[i])
	}

	return out
}

// compositeOver applies the §4.10 alpha-over accumulation to cs, ordered
// ascending by segment_ID: final_tr = seg_tr + cur_tr·(1−seg_tr), final_c =
// (seg_c·seg_tr + cur_c·cur_tr·(1−seg_tr))/final_tr.
func compositeOver(cs []contribution) colorutil.RGB {
	if len(cs) == 0 {
		return colorutil.RGB{0, 0, 0}
	}
	sort.Slice(cs, func(a, b int) bool { return cs[a].segmentID < cs[b].segmentID })

	var curColor colorutil.RGB
	var curTr float64

	for _, c := range cs {
		finalTr := c.transparency + curTr*(1-c.transparency)
		if finalTr <= 1e-6 {
			curColor = colorutil.RGB{0, 0, 0}
			curTr = 0
			continue
		}
		var finalColor colorutil.RGB
		for ch := 0; ch < 3; ch++ {
			v := (float64(c.color[ch])*c.transparency + float64(curColor[ch])*curTr*(1-c.transparency)) / finalTr
			finalColor[ch] = colorutil.ClampChannel(int(v))
		}
		curColor = finalColor
		curTr = finalTr
	}

	return curColor
}

// ToDict returns a serializable snapshot of the effect and its segments.
func (e *LightEffect) ToDict() EffectState {
	segs := make([]SegmentState, len(e.segments))
	for i, seg := range e.segments {
		segs[i] = seg.ToDict()
	}
	return EffectState{
		EffectID:       e.effectID,
		CurrentPalette: e.currentPalette,
		Segments:       segs,
	}
}

// EffectFromDict rebuilds a LightEffect from a serialized snapshot.
func EffectFromDict(state EffectState, ledCount int, cache *Cache, scene *LightScene) *LightEffect {
	segments := make([]*LightSegment, len(state.Segments))
	for i, ss := range state.Segments {
		segments[i] = FromDict(ss, cache, scene)
	}
	return NewEffect(state.EffectID, ledCount, state.CurrentPalette, segments, cache, scene)
}
