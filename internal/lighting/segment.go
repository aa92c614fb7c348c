package lighting

import (
	"math"

	"github.com/ledsync/lighting-engine/internal/colorutil"
	"github.com/ledsync/lighting-engine/internal/utils"
)

// SegmentState is the plain, serializable snapshot of a LightSegment's
// fields — the Go analogue of to_dict/from_dict, and the shape a segment
// takes inside Scene JSON (§6).
type SegmentState struct {
	SegmentID       int        `json:"segment_ID"`
	Color           [4]int     `json:"color"`
	Transparency    [4]float64 `json:"transparency"`
	Length          [3]int     `json:"length"`
	MoveSpeed       float64    `json:"move_speed"`
	MoveRange       [2]int     `json:"move_range"`
	InitialPosition int        `json:"initial_position"`
	CurrentPosition float64    `json:"current_position"`
	IsEdgeReflect   bool       `json:"is_edge_reflect"`
	DimmerTime      [5]int     `json:"dimmer_time"`
	DimmerTimeRatio float64    `json:"dimmer_time_ratio"`
	Time            float64    `json:"time"`
	Direction       int        `json:"direction"`
	Gradient        bool       `json:"gradient"`
	Fade            bool       `json:"fade"`
}

// LEDSample is one LED's resolved color/transparency, as produced by
// LightSegment.GetLightData.
type LEDSample struct {
	Color        colorutil.RGB
	Transparency float64
}

// LightSegment is one movable, dimmable, gradient region of the LED strip.
type LightSegment struct {
	state SegmentState

	scene *LightScene
	cache *Cache

	rgbColor       [4]colorutil.RGB
	lastPaletteID  string
	rgbInitialized bool
}

// DefaultSegmentState returns the §6 default field values for a newly
// created segment, before any palette/length/move customization.
func DefaultSegmentState(segmentID, ledCount int) SegmentState {
	return SegmentState{
		SegmentID:       segmentID,
		Color:           [4]int{0, 1, 2, 3},
		Transparency:    [4]float64{1, 1, 1, 1},
		Length:          [3]int{1, 0, 0},
		MoveSpeed:       0,
		MoveRange:       [2]int{0, ledCount - 1},
		InitialPosition: 0,
		CurrentPosition: 0,
		IsEdgeReflect:   true,
		DimmerTime:      [5]int{0, 100, 200, 100, 0},
		DimmerTimeRatio: 1.0,
		Direction:       1,
		Fade:            false,
		Gradient:        false,
	}
}

// NewSegment constructs a LightSegment from a state snapshot, a fallback
// palette cache, and an optional scene back-reference.
func NewSegment(state SegmentState, cache *Cache, scene *LightScene) *LightSegment {
	return &LightSegment{state: state, cache: cache, scene: scene}
}

func (s *LightSegment) ID() int { return s.state.SegmentID }

// ToDict returns a copy of the segment's current serializable state.
func (s *LightSegment) ToDict() SegmentState {
	return s.state
}

// FromDict rebuilds a LightSegment from a previously serialized state,
// resetting current_position to initial_position per the round-trip
// contract.
func FromDict(state SegmentState, cache *Cache, scene *LightScene) *LightSegment {
	state.CurrentPosition = float64(state.InitialPosition)
	return NewSegment(state, cache, scene)
}

func (s *LightSegment) totalLength() int {
	return s.state.Length[0] + s.state.Length[1] + s.state.Length[2]
}

// UpdatePosition advances time by 1/fps and moves current_position by
// move_speed, applying either edge-reflect or wrap-around semantics at the
// move_range boundaries.
func (s *LightSegment) UpdatePosition(fps float64) {
	if fps <= 0 {
		return
	}
	dt := 1 / fps
	s.state.Time += dt

	newPos := s.state.CurrentPosition + s.state.MoveSpeed*dt
	length := float64(s.totalLength())
	lo := float64(s.state.MoveRange[0])
	hi := float64(s.state.MoveRange[1])

	if s.state.IsEdgeReflect {
		if newPos < lo {
			newPos = lo + (lo - newPos)
			s.state.Direction = 1
			s.state.MoveSpeed = math.Abs(s.state.MoveSpeed)
		}
		if newPos+length-1 > hi {
			newPos = hi - length + 1 - (newPos + length - 1 - hi)
			s.state.Direction = -1
			s.state.MoveSpeed = -math.Abs(s.state.MoveSpeed)
		}
	} else {
		if newPos < lo {
			newPos = hi - (lo - newPos) + 1
		}
		if newPos+length-1 > hi {
			newPos = lo + (newPos + length - 1 - hi) - 1
		}
	}

	newPos = utils.Clamp(newPos, lo, hi-length+1)
	s.state.CurrentPosition = newPos
}

// ApplyDimming returns the fade multiplier in [0,1] for the segment's
// current time, per the fade cycle defined by dimmer_time/dimmer_time_ratio.
func (s *LightSegment) ApplyDimming() float64 {
	if !s.state.Fade || s.state.DimmerTime[4] <= 0 {
		return 1.0
	}

	ratio := s.state.DimmerTimeRatio
	cycle := int(math.Floor(float64(s.state.DimmerTime[4]) * ratio))
	if cycle <= 0 {
		return 1.0
	}

	tMS := int(s.state.Time*1000) % cycle
	if tMS < 0 {
		tMS += cycle
	}

	s0 := int(math.Floor(float64(s.state.DimmerTime[0]) * ratio))
	s1 := int(math.Floor(float64(s.state.DimmerTime[1]) * ratio))
	s2 := int(math.Floor(float64(s.state.DimmerTime[2]) * ratio))
	s3 := int(math.Floor(float64(s.state.DimmerTime[3]) * ratio))

	switch {
	case tMS < s0:
		return 0.0
	case tMS < s1:
		return float64(tMS-s0) / float64(max(1, s1-s0))
	case tMS < s2:
		return 1.0
	case tMS < s3:
		return 1 - float64(tMS-s2)/float64(max(1, s3-s2))
	default:
		return 0.0
	}
}

// CalculateRGB resolves the segment's four color indices against paletteID,
// preferring the scene-local palette over the global cache, falling back to
// red on an out-of-range index.
func (s *LightSegment) CalculateRGB(paletteID string) [4]colorutil.RGB {
	palette := s.resolvePalette(paletteID)

	var out [4]colorutil.RGB
	for i, idx := range s.state.Color {
		out[i] = palette.colorAt(idx)
	}
	return out
}

func (s *LightSegment) resolvePalette(paletteID string) Palette {
	if s.scene != nil {
		if p, ok := s.scene.paletteByID(paletteID); ok {
			return p
		}
	}
	if s.cache != nil {
		return s.cache.Get(paletteID)
	}
	return DefaultPalettes()["A"]
}

// RecomputeRGB refreshes the cached resolved color for paletteID. Callers
// invoke this on every color or palette parameter change.
func (s *LightSegment) RecomputeRGB(paletteID string) {
	s.rgbColor = s.CalculateRGB(paletteID)
	s.lastPaletteID = paletteID
	s.rgbInitialized = true
}

func (s *LightSegment) cachedRGB(paletteID string) [4]colorutil.RGB {
	if !s.rgbInitialized || s.lastPaletteID != paletteID {
		s.RecomputeRGB(paletteID)
	}
	return s.rgbColor
}

// GetLightData computes this segment's per-LED contribution for the current
// frame, keyed by absolute LED index.
func (s *LightSegment) GetLightData(paletteID string) map[int]LEDSample {
	brightness := s.ApplyDimming()
	base := s.cachedRGB(paletteID)
	tr := s.state.Transparency
	lengths := s.state.Length

	total := lengths[0] + lengths[1] + lengths[2]
	if total <= 0 {
		return nil
	}

	out := make(map[int]LEDSample, total)
	start := int(math.Floor(s.state.CurrentPosition))
	end := int(math.Floor(s.state.CurrentPosition + float64(total) - 1e-9))

	for i := start; i <= end; i++ {
		p := utils.Clamp(float64(i)-s.state.CurrentPosition, 0, float64(total)-1e-9)

		var c1, c2 colorutil.RGB
		var tr1, tr2, t float64
		switch {
		case p < float64(lengths[0]):
			c1, c2 = base[0], base[1]
			tr1, tr2 = tr[0], tr[1]
			if lengths[0] > 0 {
				t = p / float64(lengths[0])
			}
		case p < float64(lengths[0]+lengths[1]):
			c1, c2 = base[1], base[2]
			tr1, tr2 = tr[1], tr[2]
			if lengths[1] > 0 {
				t = (p - float64(lengths[0])) / float64(lengths[1])
			}
		default:
			c1, c2 = base[2], base[3]
			tr1, tr2 = tr[2], tr[3]
			if lengths[2] > 0 {
				t = (p - float64(lengths[0]+lengths[1])) / float64(lengths[2])
			}
		}

		t = utils.Clamp(t, 0, 1)
		color := colorutil.ApplyBrightness(colorutil.Interpolate(c1, c2, t), brightness)
		transparency := tr1 + (tr2-tr1)*t

		out[i] = LEDSample{Color: color, Transparency: transparency}
	}

	return out
}

// UpdateParam applies a keyed parameter mutation. Unknown keys are ignored.
func (s *LightSegment) UpdateParam(key string, value any) {
	switch key {
	case "color":
		if v, ok := value.([4]int); ok {
			s.state.Color = v
			s.RecomputeRGB(s.lastPaletteID)
		}
	case "transparency":
		if v, ok := value.([4]float64); ok {
			s.state.Transparency = v
		}
	case "length":
		if v, ok := value.([3]int); ok {
			s.state.Length = v
		}
	case "move_speed":
		if v, ok := value.(float64); ok {
			s.state.MoveSpeed = v
			if v > 0 {
				s.state.Direction = 1
			} else if v < 0 {
				s.state.Direction = -1
			}
		}
	case "move_range":
		if v, ok := value.([2]int); ok {
			s.state.MoveRange = v
			lo, hi := float64(v[0]), float64(v[1])
			length := float64(s.totalLength())
			s.state.CurrentPosition = utils.Clamp(s.state.CurrentPosition, lo, hi-length+1)
		}
	case "initial_position":
		if v, ok := value.(int); ok {
			s.state.InitialPosition = v
		}
	case "is_edge_reflect":
		if v, ok := value.(bool); ok {
			s.state.IsEdgeReflect = v
		}
	case "dimmer_time":
		if v, ok := value.([5]int); ok {
			s.state.DimmerTime = v
		}
	case "dimmer_time_ratio":
		if v, ok := value.(float64); ok {
			s.state.DimmerTimeRatio = v
		}
	case "gradient":
		if v, ok := value.(bool); ok {
			s.state.Gradient = v
		}
	case "fade":
		if v, ok := value.(bool); ok {
			s.state.Fade = v
		}
	}
}

// SetScene updates the segment's weak back-reference to its owning scene.
func (s *LightSegment) SetScene(scene *LightScene) { s.scene = scene }
