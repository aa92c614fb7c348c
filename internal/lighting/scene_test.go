package lighting

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ledsync/lighting-engine/internal/colorutil"
)

func newTestEffect(id, ledCount int) *LightEffect {
	seg := singleLEDSegment(0)
	return NewEffect(id, ledCount, "A", []*LightSegment{seg}, nil, nil)
}

func TestCurrentEffectNilWhenIDIsZero(t *testing.T) {
	sc := NewScene(1, 5, NewCache())
	assert.Nil(t, sc.CurrentEffect())
}

func TestAddEffectAutoSelectsFirstEffectAsCurrent(t *testing.T) {
	sc := NewScene(1, 5, NewCache())
	sc.AddEffect(newTestEffect(3, 5))

	assert.NotNil(t, sc.CurrentEffect())
	assert.Equal(t, 3, sc.CurrentEffect().ID())

	// a second effect never displaces the already-selected current one
	sc.AddEffect(newTestEffect(4, 5))
	assert.Equal(t, 3, sc.CurrentEffect().ID())
}

func TestChangeEffectIsDeferredUntilUpdateCompletesTheTransition(t *testing.T) {
	sc := NewScene(1, 5, NewCache())
	sc.AddEffect(newTestEffect(1, 5))
	sc.AddEffect(newTestEffect(3, 5))

	id := 3
	sc.SetTransitionParams(&id, nil, 0, 0)
	assert.Equal(t, 1, sc.CurrentEffect().ID())

	sc.Update(30)
	assert.Equal(t, 3, sc.CurrentEffect().ID())
}

func TestUpdateIsNoOpWithoutAPendingTransition(t *testing.T) {
	sc := NewScene(1, 5, NewCache())
	sc.AddEffect(newTestEffect(3, 5))

	assert.NotPanics(t, func() { sc.Update(30) })
	assert.Equal(t, 3, sc.CurrentEffect().ID())
}

func TestRemoveEffectPicksSmallestRemainingIDAsCurrent(t *testing.T) {
	sc := NewScene(1, 5, NewCache())
	sc.AddEffect(newTestEffect(3, 5))
	sc.AddEffect(newTestEffect(5, 5))

	sc.RemoveEffect(3)
	assert.Equal(t, 5, sc.CurrentEffect().ID())
}

func TestRemoveEffectClearsCurrentWhenSceneBecomesEmpty(t *testing.T) {
	sc := NewScene(1, 5, NewCache())
	sc.AddEffect(newTestEffect(3, 5))

	sc.RemoveEffect(3)
	assert.Nil(t, sc.CurrentEffect())

	sc.AddEffect(newTestEffect(7, 5))
	assert.Equal(t, 7, sc.CurrentEffect().ID())
}

func TestGetLEDOutputBlackWhenNoActiveEffect(t *testing.T) {
	sc := NewScene(1, 4, NewCache())
	out := sc.GetLEDOutput()

	assert.Len(t, out, 4)
	for _, c := range out {
		assert.Equal(t, colorutil.RGB{0, 0, 0}, c)
	}
}

func TestAddEffectWiresSegmentSceneBackReference(t *testing.T) {
	sc := NewScene(1, 5, NewCache())
	effect := newTestEffect(3, 5)
	sc.AddEffect(effect)

	sc.SetPalette("A", Palette{{9, 9, 9}})
	seg := effect.Segments()[0]

	got := seg.CalculateRGB("A")
	assert.Equal(t, colorutil.RGB{9, 9, 9}, got[0])
}

func TestHasPaletteReflectsScenesSeededDefaults(t *testing.T) {
	sc := NewScene(1, 5, NewCache())
	assert.True(t, sc.HasPalette("A"))
	assert.True(t, sc.HasPalette("E"))
	assert.False(t, sc.HasPalette("Z"))
}

func TestPaletteTransitionIsDeferredUntilUpdateCompletesIt(t *testing.T) {
	sc := NewScene(1, 5, NewCache())
	eActive := newTestEffect(1, 5)
	eInactive := newTestEffect(2, 5)
	sc.AddEffect(eActive)
	sc.AddEffect(eInactive)

	id := "B"
	sc.SetTransitionParams(nil, &id, 0, 0)
	assert.Equal(t, "A", eActive.CurrentPalette())

	sc.Update(30)
	assert.Equal(t, "B", eActive.CurrentPalette())
	assert.Equal(t, "B", eInactive.CurrentPalette())
	assert.Equal(t, "B", sc.CurrentPaletteID())
}

func TestUpdatePaletteRecomputesEffectsCurrentlyRenderingIt(t *testing.T) {
	sc := NewScene(1, 5, NewCache())
	effect := newTestEffect(1, 5)
	sc.AddEffect(effect)

	sc.UpdatePalette("A", Palette{{7, 7, 7}})
	seg := effect.Segments()[0]

	assert.Equal(t, colorutil.RGB{7, 7, 7}, seg.cachedRGB("A")[0])
}

func TestUpdateAllPalettesReplacesEveryEntry(t *testing.T) {
	sc := NewScene(1, 5, NewCache())
	effect := newTestEffect(1, 5)
	sc.AddEffect(effect)

	sc.UpdateAllPalettes(map[string]Palette{"A": {{1, 2, 3}}})
	assert.True(t, sc.HasPalette("A"))

	seg := effect.Segments()[0]
	assert.Equal(t, colorutil.RGB{1, 2, 3}, seg.cachedRGB("A")[0])
}

func TestSceneToDictAndFromDictRoundTrip(t *testing.T) {
	cache := NewCache()
	sc := NewScene(5, 8, cache)
	sc.AddEffect(newTestEffect(1, 8))

	state := sc.ToDict()
	rebuilt, err := SceneFromDict(state, 8, cache)

	assert.NoError(t, err)
	assert.Equal(t, 5, rebuilt.ID())
	assert.Equal(t, 1, rebuilt.CurrentEffect().ID())
}

func TestSceneFromDictRejectsMissingSceneID(t *testing.T) {
	_, err := SceneFromDict(SceneState{}, 8, NewCache())
	assert.Error(t, err)
}

func TestReplaceEffectsMergesLoadedEffectsAndPalettes(t *testing.T) {
	cache := NewCache()
	sc := NewScene(1, 5, cache)
	sc.AddEffect(newTestEffect(1, 5))

	loaded := NewScene(1, 5, cache)
	loaded.SetPalette("Z", Palette{{1, 1, 1}})
	loaded.AddEffect(newTestEffect(2, 5))

	sc.ReplaceEffects(loaded)

	assert.NotNil(t, sc.Effect(1))
	assert.NotNil(t, sc.Effect(2))
	assert.True(t, sc.HasPalette("Z"))
	assert.Same(t, sc, sc.Effect(2).Segments()[0].scene)
}
