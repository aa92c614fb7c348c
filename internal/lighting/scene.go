package lighting

import (
	"sort"

	"github.com/rotisserie/eris"

	"github.com/ledsync/lighting-engine/internal/colorutil"
)

// SceneState is the serializable snapshot of a LightScene, matching the
// Scene JSON wire schema.
type SceneState struct {
	SceneID         int                 `json:"scene_ID"`
	CurrentEffectID int                 `json:"current_effect_id"`
	CurrentPalette  string              `json:"current_palette,omitempty"`
	Palettes        map[string]Palette  `json:"palettes,omitempty"`
	Effects         map[int]EffectState `json:"effects"`
}

// LightScene owns a fixed set of effects, a scene-local palette registry,
// and the single active effect that actually renders each frame. An effect
// or palette switch is not applied immediately: SetTransitionParams arms a
// pending switch and Update drives the fade timer that commits it, matching
// the original light_scene.cpp transition state machine.
type LightScene struct {
	sceneID  int
	ledCount int
	cache    *Cache

	palettes map[string]Palette
	effects  map[int]*LightEffect

	currentEffectID  int
	currentEffectSet bool
	currentPalette   string

	nextEffectID  *int
	nextPaletteID *string

	fadeInTime          float64
	fadeOutTime         float64
	transitionStartTime float64

	effectTransitionActive  bool
	paletteTransitionActive bool
}

// NewScene constructs an empty LightScene backed by the given global
// palette cache, with the standard A-E palettes registered locally (as in
// the original firmware's DEFAULT_COLOR_PALETTES seeding).
func NewScene(sceneID, ledCount int, cache *Cache) *LightScene {
	return &LightScene{
		sceneID:        sceneID,
		ledCount:       ledCount,
		cache:          cache,
		palettes:       DefaultPalettes(),
		effects:        make(map[int]*LightEffect),
		currentPalette: "A",
	}
}

func (sc *LightScene) ID() int       { return sc.sceneID }
func (sc *LightScene) LEDCount() int { return sc.ledCount }

// AddEffect registers effect under its own id and wires every one of its
// segments' scene back-reference to sc. The first effect ever added becomes
// the active effect if none has been selected yet.
func (sc *LightScene) AddEffect(effect *LightEffect) {
	sc.effects[effect.ID()] = effect
	for _, seg := range effect.Segments() {
		seg.SetScene(sc)
	}
	if !sc.currentEffectSet {
		sc.currentEffectID = effect.ID()
		sc.currentEffectSet = true
	}
}

// RemoveEffect unregisters effectID. If it was the active effect, the
// smallest remaining effect id becomes active (or "none" if the scene is
// now empty); a pending transition targeting the removed effect is
// cancelled.
func (sc *LightScene) RemoveEffect(effectID int) {
	delete(sc.effects, effectID)

	if sc.nextEffectID != nil && *sc.nextEffectID == effectID {
		sc.nextEffectID = nil
		sc.effectTransitionActive = false
	}

	if sc.currentEffectID != effectID {
		return
	}
	if len(sc.effects) == 0 {
		sc.currentEffectSet = false
		sc.currentEffectID = 0
		return
	}
	ids := make([]int, 0, len(sc.effects))
	for id := range sc.effects {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	sc.currentEffectID = ids[0]
}

// Effect returns the effect registered under id, or nil.
func (sc *LightScene) Effect(id int) *LightEffect {
	return sc.effects[id]
}

// CurrentEffect returns the active effect, or nil when current_effect_id
// is 0 ("lighting off") or refers to an effect that was never registered.
func (sc *LightScene) CurrentEffect() *LightEffect {
	if sc.currentEffectID == 0 {
		return nil
	}
	return sc.effects[sc.currentEffectID]
}

// CurrentEffectID returns the raw active effect id, including the 0
// ("off") sentinel.
func (sc *LightScene) CurrentEffectID() int { return sc.currentEffectID }

// CurrentPaletteID returns the scene-wide current palette id.
func (sc *LightScene) CurrentPaletteID() string { return sc.currentPalette }

// SetPalette registers (or replaces) a scene-local palette, without
// touching any effect's rendering.
func (sc *LightScene) SetPalette(id string, p Palette) {
	sc.palettes[id] = p
}

func (sc *LightScene) paletteByID(id string) (Palette, bool) {
	p, ok := sc.palettes[id]
	return p, ok
}

// HasPalette reports whether id is registered in this scene's local
// palette table — the existence check the "change_palette"/"update_palette"
// callbacks apply before acting.
func (sc *LightScene) HasPalette(id string) bool {
	_, ok := sc.palettes[id]
	return ok
}

// UpdatePalette sets the colors of palette id in the scene-local table and
// the global cache, and recomputes every effect currently rendering
// against it.
func (sc *LightScene) UpdatePalette(id string, colors Palette) {
	sc.palettes[id] = colors
	sc.cache.Update(id, colors)
	for _, effect := range sc.effects {
		if effect.CurrentPalette() == id {
			effect.SetPalette(id)
		}
	}
}

// UpdateAllPalettes sets every palette in palettes in the scene's local
// table and the global cache (ids not in palettes are kept), then
// recomputes every effect against its (possibly now-changed) palette.
func (sc *LightScene) UpdateAllPalettes(palettes map[string]Palette) {
	for id, p := range palettes {
		sc.palettes[id] = p
		sc.cache.Update(id, p)
	}
	for _, effect := range sc.effects {
		effect.SetPalette(effect.CurrentPalette())
	}
}

// applyPalette is the immediate, unconditional palette switch committed by
// Update once a palette transition completes.
func (sc *LightScene) applyPalette(id string) {
	sc.currentPalette = id
	for _, effect := range sc.effects {
		effect.SetPalette(id)
	}
}

// switchEffect is the immediate, unconditional effect switch committed by
// Update once an effect transition completes.
func (sc *LightScene) switchEffect(id int) {
	sc.currentEffectID = id
	sc.currentEffectSet = true
}

// SetTransitionParams arms a pending effect switch, palette switch, or
// both, resets the fade timer, and lets Update carry it to completion.
// A nil nextEffectID/nextPaletteID leaves that half of the transition
// untouched.
func (sc *LightScene) SetTransitionParams(nextEffectID *int, nextPaletteID *string, fadeInTime, fadeOutTime float64) {
	sc.fadeInTime = fadeInTime
	sc.fadeOutTime = fadeOutTime
	sc.transitionStartTime = 0

	if nextEffectID != nil {
		id := *nextEffectID
		sc.nextEffectID = &id
		sc.effectTransitionActive = true
	}
	if nextPaletteID != nil {
		id := *nextPaletteID
		sc.nextPaletteID = &id
		sc.paletteTransitionActive = true
	}
}

// Update advances the fade timer for whichever transitions are active —
// the effect and palette halves advance and commit independently, exactly
// as in the original firmware's update() — then advances the (possibly
// just-switched) active effect's segment positions by one frame tick.
func (sc *LightScene) Update(fps float64) {
	if fps <= 0 {
		fps = 1
	}
	step := 1.0 / fps
	threshold := sc.fadeOutTime + sc.fadeInTime

	if sc.effectTransitionActive {
		sc.transitionStartTime += step
		if sc.transitionStartTime >= threshold {
			if sc.nextEffectID != nil {
				sc.switchEffect(*sc.nextEffectID)
			}
			sc.nextEffectID = nil
			sc.effectTransitionActive = false
		}
	}
	if sc.paletteTransitionActive {
		sc.transitionStartTime += step
		if sc.transitionStartTime >= threshold {
			if sc.nextPaletteID != nil {
				sc.applyPalette(*sc.nextPaletteID)
			}
			sc.nextPaletteID = nil
			sc.paletteTransitionActive = false
		}
	}

	if cur := sc.CurrentEffect(); cur != nil {
		cur.UpdateAll(fps)
	}
}

// GetLEDOutput returns the active effect's composited strip, or an
// all-black strip when no effect is active.
func (sc *LightScene) GetLEDOutput() []colorutil.RGB {
	if cur := sc.CurrentEffect(); cur != nil {
		return cur.GetLEDOutput()
	}
	out := make([]colorutil.RGB, sc.ledCount)
	return out
}

// ToDict returns a serializable snapshot of the scene, its palette table,
// and every registered effect.
func (sc *LightScene) ToDict() SceneState {
	effects := make(map[int]EffectState, len(sc.effects))
	for id, e := range sc.effects {
		effects[id] = e.ToDict()
	}
	palettes := make(map[string]Palette, len(sc.palettes))
	for id, p := range sc.palettes {
		palettes[id] = p
	}
	return SceneState{
		SceneID:         sc.sceneID,
		CurrentEffectID: sc.currentEffectID,
		CurrentPalette:  sc.currentPalette,
		Palettes:        palettes,
		Effects:         effects,
	}
}

// SceneFromDict rebuilds a LightScene from a serialized snapshot.
func SceneFromDict(state SceneState, ledCount int, cache *Cache) (*LightScene, error) {
	if state.SceneID == 0 {
		return nil, eris.New("scene state missing scene_ID")
	}
	sc := NewScene(state.SceneID, ledCount, cache)
	for id, p := range state.Palettes {
		sc.SetPalette(id, p)
		cache.Update(id, p)
	}
	for id, es := range state.Effects {
		effect := EffectFromDict(es, ledCount, cache, sc)
		sc.effects[id] = effect
		for _, seg := range effect.Segments() {
			seg.SetScene(sc)
		}
	}
	sc.currentEffectID = state.CurrentEffectID
	sc.currentEffectSet = true
	if state.CurrentPalette != "" {
		sc.currentPalette = state.CurrentPalette
	}
	return sc, nil
}

// ReplaceEffects merges loaded's effects (and, when present, its palettes)
// into sc — the §4.13 load_effects semantics: every incoming effect
// replaces any existing effect under the same id, every segment's scene
// back-reference is reassigned to sc, and every segment's cached RGB is
// recomputed against the (possibly newly registered) palette table.
func (sc *LightScene) ReplaceEffects(loaded *LightScene) {
	for id, p := range loaded.palettes {
		sc.SetPalette(id, p)
		sc.cache.Update(id, p)
	}
	for id, effect := range loaded.effects {
		for _, seg := range effect.Segments() {
			seg.SetScene(sc)
			seg.RecomputeRGB(effect.CurrentPalette())
		}
		sc.effects[id] = effect
	}
	if !sc.currentEffectSet {
		if _, ok := sc.effects[loaded.currentEffectID]; ok {
			sc.currentEffectID = loaded.currentEffectID
			sc.currentEffectSet = true
		}
	}
}
