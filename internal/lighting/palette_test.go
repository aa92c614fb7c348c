package lighting

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ledsync/lighting-engine/internal/colorutil"
)

func TestCacheGetFallsBackToA(t *testing.T) {
	c := NewCache()
	assert.Equal(t, c.Get("A"), c.Get("unknown"))
}

func TestCacheUpdateAndHas(t *testing.T) {
	c := NewCache()
	assert.False(t, c.Has("Z"))

	c.Update("Z", Palette{{1, 2, 3}})
	assert.True(t, c.Has("Z"))
	assert.Equal(t, Palette{{1, 2, 3}}, c.Get("Z"))
}

func TestColorAtOutOfRangeFallsBackToRed(t *testing.T) {
	p := Palette{{10, 20, 30}}
	assert.Equal(t, colorutil.RGB{255, 0, 0}, p.colorAt(5))
	assert.Equal(t, colorutil.RGB{255, 0, 0}, p.colorAt(-1))
	assert.Equal(t, colorutil.RGB{10, 20, 30}, p.colorAt(0))
}

func TestDefaultPalettesHasFiveEntries(t *testing.T) {
	palettes := DefaultPalettes()
	for _, id := range []string{"A", "B", "C", "D", "E"} {
		assert.Len(t, palettes[id], 6)
	}
}
