package dispatch

import (
	"encoding/json"
	"log/slog"
	"os"
	"sort"
	"time"

	"github.com/rotisserie/eris"

	"github.com/ledsync/lighting-engine/internal/colorutil"
	"github.com/ledsync/lighting-engine/internal/command"
	"github.com/ledsync/lighting-engine/internal/lighting"
)

const (
	defaultEffectCount  = 9 // effect ids 0..8; 0 is the reserved "off" target
	defaultSegmentCount = 10
	defaultFPS          = 30
)

// DefaultLEDSepCount groups a scene's LED output into binary framing
// groups: 205 LEDs on the first physical channel, with the second channel
// (a 0 entry) mirroring the first rather than taking any remainder.
var DefaultLEDSepCount = []int{205, 0}

// ReceiveHandler owns the live scene graph, the process-wide palette
// cache, and the packed binary output framing. It implements
// dispatch.Handler.
type ReceiveHandler struct {
	logger   *slog.Logger
	cache    *lighting.Cache
	scenes   map[int]*lighting.LightScene
	ledCount int
	sepCount []int
	fps      float64

	minInterval time.Duration
	lastSent    map[int]time.Time
}

// NewReceiveHandler constructs a handler with one default scene (id 1)
// populated with the standard effect/segment layout.
func NewReceiveHandler(logger *slog.Logger, ledCount int) *ReceiveHandler {
	if logger == nil {
		logger = slog.Default()
	}
	rh := &ReceiveHandler{
		logger:   logger,
		cache:    lighting.NewCache(),
		scenes:   make(map[int]*lighting.LightScene),
		ledCount: ledCount,
		sepCount: DefaultLEDSepCount,
		fps:      defaultFPS,
		lastSent: make(map[int]time.Time),
	}
	rh.scenes[1] = CreateDefaultScene(1, ledCount, rh.cache)
	return rh
}

// SetFPS fixes the frame rate Update uses to advance transition timers and
// segment positions. The engine calls this once at construction with its
// configured tick rate.
func (rh *ReceiveHandler) SetFPS(fps float64) {
	if fps > 0 {
		rh.fps = fps
	}
}

// CreateDefaultScene builds a scene with the standard 9-effect (ids 0..8),
// 10-segment-per-effect layout. Effect 0 carries no segments — it is the
// reserved "lighting off" target, never entered into the switcher rotation.
func CreateDefaultScene(sceneID, ledCount int, cache *lighting.Cache) *lighting.LightScene {
	scene := lighting.NewScene(sceneID, ledCount, cache)

	for effectID := 0; effectID < defaultEffectCount; effectID++ {
		var segments []*lighting.LightSegment
		if effectID != 0 {
			segments = make([]*lighting.LightSegment, defaultSegmentCount)
			for i := 0; i < defaultSegmentCount; i++ {
				state := lighting.DefaultSegmentState(i+1, ledCount)
				segments[i] = lighting.NewSegment(state, cache, scene)
			}
		}
		effect := lighting.NewEffect(effectID, ledCount, "A", segments, cache, scene)
		scene.AddEffect(effect)
	}

	return scene
}

func (rh *ReceiveHandler) Scene(sceneID int) (*lighting.LightScene, bool) {
	s, ok := rh.scenes[sceneID]
	return s, ok
}

// HandleSceneCommand implements dispatch.Handler for the three scene-wide
// commands the Lighting Switcher emits.
func (rh *ReceiveHandler) HandleSceneCommand(sceneID int, name string, payload command.Payload) error {
	scene, ok := rh.scenes[sceneID]
	if !ok {
		return eris.Errorf("receive handler: unknown scene %d", sceneID)
	}

	switch name {
	case "load_effects":
		filename, err := payload.AsString()
		if err != nil {
			return err
		}
		return rh.loadEffects(scene, filename)
	case "change_effect":
		id, err := payload.AsInt()
		if err != nil {
			return err
		}
		if scene.Effect(id) == nil {
			return eris.Errorf("receive handler: unknown effect %d in scene %d", id, sceneID)
		}
		if scene.CurrentEffectID() == id {
			rh.logger.Debug("change_effect no-op, already current", "scene", sceneID, "effect", id)
			return nil
		}
		scene.SetTransitionParams(&id, nil, 0, 0)
		return nil
	case "change_palette":
		id, err := payload.AsString()
		if err != nil {
			return err
		}
		if !scene.HasPalette(id) {
			return eris.Errorf("receive handler: palette %q not registered in scene %d", id, sceneID)
		}
		if scene.CurrentPaletteID() == id {
			rh.logger.Debug("change_palette no-op, already current", "scene", sceneID, "palette", id)
			return nil
		}
		scene.SetTransitionParams(nil, &id, 0, 0)
		return nil
	default:
		return eris.Errorf("receive handler: unknown scene command %q", name)
	}
}

// loadEffects reads filename as a serialized lighting.SceneState and merges
// its effects and palettes into target, reassigning back-references and
// recomputing RGB. On a platform without a filesystem the original firmware
// emits a /scene/{id}/load_error event instead; this handler always runs on
// a filesystem-capable target, so a read or parse failure is reported the
// same way every other handler failure is: a wrapped error the caller logs
// and moves on from.
func (rh *ReceiveHandler) loadEffects(target *lighting.LightScene, filename string) error {
	raw, err := os.ReadFile(filename)
	if err != nil {
		return eris.Wrapf(err, "receive handler: load_effects could not read %q", filename)
	}
	var state lighting.SceneState
	if err := json.Unmarshal(raw, &state); err != nil {
		return eris.Wrapf(err, "receive handler: load_effects could not parse %q", filename)
	}
	loaded, err := lighting.SceneFromDict(state, target.LEDCount(), rh.cache)
	if err != nil {
		return eris.Wrapf(err, "receive handler: load_effects invalid scene in %q", filename)
	}
	target.ReplaceEffects(loaded)
	return nil
}

// HandleEffectParam implements dispatch.Handler for effect-scoped
// parameter updates.
func (rh *ReceiveHandler) HandleEffectParam(sceneID, effectID int, param string, payload command.Payload) error {
	scene, ok := rh.scenes[sceneID]
	if !ok {
		return eris.Errorf("receive handler: unknown scene %d", sceneID)
	}
	effect := scene.Effect(effectID)
	if effect == nil {
		return eris.Errorf("receive handler: unknown effect %d in scene %d", effectID, sceneID)
	}

	switch param {
	case "change_palette", "current_palette":
		id, err := payload.AsString()
		if err != nil {
			return err
		}
		effect.SetPalette(id)
		return nil
	default:
		return eris.Errorf("receive handler: unknown effect param %q", param)
	}
}

// HandleSegmentParam implements dispatch.Handler for segment-scoped
// parameter updates — the bulk of traffic from the Lighting Switcher.
func (rh *ReceiveHandler) HandleSegmentParam(sceneID, effectID, segmentIndex int, param string, payload command.Payload) error {
	scene, ok := rh.scenes[sceneID]
	if !ok {
		return eris.Errorf("receive handler: unknown scene %d", sceneID)
	}
	effect := scene.Effect(effectID)
	if effect == nil {
		return eris.Errorf("receive handler: unknown effect %d in scene %d", effectID, sceneID)
	}
	seg := effect.Segment(segmentIndex)
	if seg == nil {
		return eris.Errorf("receive handler: unknown segment %d in effect %d", segmentIndex, effectID)
	}

	switch param {
	case "color":
		vi, err := payload.AsVecInt()
		if err != nil {
			return err
		}
		if len(vi) != 4 {
			return eris.Errorf("receive handler: color needs 4 indices, got %d", len(vi))
		}
		var arr [4]int
		copy(arr[:], vi)
		seg.UpdateParam("color", arr)
	case "transparency":
		vd, err := payload.AsVecDouble()
		if err != nil {
			return err
		}
		if len(vd) != 4 {
			return eris.Errorf("receive handler: transparency needs 4 values, got %d", len(vd))
		}
		var arr [4]float64
		copy(arr[:], vd)
		seg.UpdateParam("transparency", arr)
	case "length":
		vi, err := payload.AsVecInt()
		if err != nil {
			return err
		}
		if len(vi) != 3 {
			return eris.Errorf("receive handler: length needs 3 values, got %d", len(vi))
		}
		var arr [3]int
		copy(arr[:], vi)
		seg.UpdateParam("length", arr)
	case "move_speed":
		v, err := payload.AsDouble()
		if err != nil {
			return err
		}
		seg.UpdateParam("move_speed", v)
	case "move_range":
		vi, err := payload.AsVecInt()
		if err != nil {
			return err
		}
		if len(vi) != 2 {
			return eris.Errorf("receive handler: move_range needs 2 values, got %d", len(vi))
		}
		seg.UpdateParam("move_range", [2]int{vi[0], vi[1]})
	case "dimmer_time_ratio":
		v, err := payload.AsDouble()
		if err != nil {
			return err
		}
		if v < 0.1 {
			v = 0.1
		}
		seg.UpdateParam("dimmer_time_ratio", v)
	case "is_edge_reflect":
		v, err := payload.AsBool()
		if err != nil {
			return err
		}
		seg.UpdateParam("is_edge_reflect", v)
	case "fade":
		v, err := payload.AsBool()
		if err != nil {
			return err
		}
		seg.UpdateParam("fade", v)
	case "gradient":
		v, err := payload.AsBool()
		if err != nil {
			return err
		}
		seg.UpdateParam("gradient", v)
	default:
		rh.logger.Debug("receive handler: unhandled segment param", "param", param)
	}

	return nil
}

// HandleSceneUpdate implements dispatch.Handler for the scene_update
// trigger: it advances sceneID's transition timers (committing whichever
// pending effect/palette switch has completed) and its active effect's
// segment positions by one frame tick.
func (rh *ReceiveHandler) HandleSceneUpdate(sceneID int) error {
	scene, ok := rh.scenes[sceneID]
	if !ok {
		return eris.Errorf("receive handler: unknown scene %d", sceneID)
	}
	scene.Update(rh.fps)
	return nil
}

// SetRateLimit bounds how often SendLEDBinaryData will actually emit a
// frame; zero (the default) disables throttling.
func (rh *ReceiveHandler) SetRateLimit(d time.Duration) { rh.minInterval = d }

// LEDOutputFrame is one physical output channel's packed binary payload,
// addressed as /light/serial/{Group} by the caller.
type LEDOutputFrame struct {
	Group int
	Data  []byte
}

// activeSceneID selects the smallest registered scene id, matching the
// original firmware's send_led_binary_data scene selection.
func (rh *ReceiveHandler) activeSceneID() (int, bool) {
	if len(rh.scenes) == 0 {
		return 0, false
	}
	ids := make([]int, 0, len(rh.scenes))
	for id := range rh.scenes {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids[0], true
}

// SendLEDBinaryData renders the active scene's current LED output as one
// packed binary frame per output channel in rh.sepCount. A channel whose
// sepCount entry is 0 always re-emits channel 0's buffer rather than
// taking the remaining LEDs, mirroring the first physical strip onto a
// second. It returns ok=false if no scene is registered or the rate limit
// has not yet elapsed.
func (rh *ReceiveHandler) SendLEDBinaryData(now time.Time) ([]LEDOutputFrame, bool) {
	sceneID, ok := rh.activeSceneID()
	if !ok {
		return nil, false
	}
	if rh.minInterval > 0 {
		if last, seen := rh.lastSent[sceneID]; seen && now.Sub(last) < rh.minInterval {
			return nil, false
		}
	}
	scene := rh.scenes[sceneID]
	leds := scene.GetLEDOutput()
	rh.lastSent[sceneID] = now

	groups := MakeColorBinaryGroups(leds, rh.sepCount)
	frames := make([]LEDOutputFrame, len(rh.sepCount))
	for i, count := range rh.sepCount {
		data := groups[i]
		if count == 0 {
			data = groups[0]
		}
		frames[i] = LEDOutputFrame{Group: i, Data: data}
	}
	return frames, true
}

// MakeColorBinaryGroups packs leds into RGB0 quads (red, green, blue, zero
// byte padding per LED), grouped per sepCount. A sepCount entry of 0
// consumes every remaining LED as one group; a group left with nothing to
// consume emits the 4-byte zero sentinel (0,0,0,0) instead of no bytes at
// all, so a reader can always tell group boundaries apart from a short
// frame.
func MakeColorBinaryGroups(leds []colorutil.RGB, sepCount []int) [][]byte {
	groups := make([][]byte, len(sepCount))
	idx := 0

	for gi, count := range sepCount {
		n := count
		if n == 0 {
			n = len(leds) - idx
		}
		if n <= 0 {
			groups[gi] = []byte{0x00, 0x00, 0x00, 0x00}
			continue
		}
		buf := make([]byte, 0, n*4)
		for k := 0; k < n && idx < len(leds); k++ {
			c := leds[idx]
			buf = append(buf, byte(c[0]), byte(c[1]), byte(c[2]), 0x00)
			idx++
		}
		if len(buf) == 0 {
			buf = []byte{0x00, 0x00, 0x00, 0x00}
		}
		groups[gi] = buf
	}

	return groups
}

// MakeColorBinary concatenates every group computed by MakeColorBinaryGroups
// into a single combined frame.
func MakeColorBinary(leds []colorutil.RGB, sepCount []int) []byte {
	groups := MakeColorBinaryGroups(leds, sepCount)
	buf := make([]byte, 0, len(leds)*4)
	for _, g := range groups {
		buf = append(buf, g...)
	}
	return buf
}
