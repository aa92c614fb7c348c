package lighting

import "github.com/ledsync/lighting-engine/internal/colorutil"

// Palette is an ordered sequence of RGB triples identified by a single
// letter id.
type Palette []colorutil.RGB

// DefaultPalettes are the five built-in palettes seeded into the process
// cache at startup.
func DefaultPalettes() map[string]Palette {
	return map[string]Palette{
		"A": {
			{255, 0, 0}, {0, 255, 0}, {0, 0, 255}, {255, 255, 0}, {0, 255, 255}, {255, 0, 255},
		},
		"B": {
			{255, 165, 0}, {128, 0, 128}, {135, 206, 235}, {255, 192, 203}, {50, 205, 50}, {255, 255, 255},
		},
		"C": {
			{128, 0, 0}, {0, 100, 0}, {0, 0, 128}, {128, 128, 0}, {0, 128, 128}, {128, 0, 128},
		},
		"D": {
			{255, 182, 193}, {144, 238, 144}, {173, 216, 230}, {255, 255, 224}, {224, 255, 255}, {230, 190, 230},
		},
		"E": {
			{105, 105, 105}, {128, 128, 128}, {169, 169, 169}, {211, 211, 211}, {255, 69, 0}, {0, 191, 255},
		},
	}
}

// Cache is the process-wide palette store: initialized from defaults at
// startup, mutated only by scene loads, read-only from the rendering path.
// Only the main loop goroutine touches it.
type Cache struct {
	palettes map[string]Palette
}

// NewCache returns a Cache seeded with the default palettes.
func NewCache() *Cache {
	return &Cache{palettes: DefaultPalettes()}
}

// Get resolves id, falling back to the default palette "A" if id is
// completely unknown.
func (c *Cache) Get(id string) Palette {
	if p, ok := c.palettes[id]; ok {
		return p
	}
	return c.palettes["A"]
}

// Update replaces (or inserts) the palette registered under id.
func (c *Cache) Update(id string, p Palette) {
	c.palettes[id] = p
}

// Has reports whether id is a known palette.
func (c *Cache) Has(id string) bool {
	_, ok := c.palettes[id]
	return ok
}

// colorAt resolves the RGB at idx within p, falling back to red on an
// out-of-range index per the documented palette-miss behavior.
func (p Palette) colorAt(idx int) colorutil.RGB {
	if idx < 0 || idx >= len(p) {
		return colorutil.RGB{255, 0, 0}
	}
	return p[idx]
}
