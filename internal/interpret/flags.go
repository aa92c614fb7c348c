// Package interpret fans a music frame into the section and alternation
// detectors, aggregates their output into Musical Flags, and maps those onto
// the coarser Lighting Flags the switcher consumes.
package interpret

// MusicalFlags is the aggregate per-frame output of the Interpreter.
type MusicalFlags struct {
	HighlightFlg        bool
	SonghookFlg         bool
	PerformerSwitchFlg  bool
	SongAlternationFlg  bool
	NoChange4BeatsFlg    bool
	NoChange8BeatsFlg    bool
	NoChange16BeatsFlg   bool
	NoChange32BeatsFlg   bool
	SilenceBreakFlg      bool
	SilenceStartFlg      bool
	DimmerPeriodPercentage int
	TempoClass             string
	Frame                  int
}

// LightingFlags is the stateless projection of Musical Flags onto discrete
// lighting intents.
type LightingFlags struct {
	LightingStartFlg       bool
	LightingEndFlg         bool
	LightingSceneChangeFlg bool
	PaletteChangeFlg       bool
	EffectChangeFlg        bool
	ColorShiftFlg          bool
}

// MakeLightingFlags is the pure, stateless Musical -> Lighting map.
func MakeLightingFlags(m MusicalFlags) LightingFlags {
	return LightingFlags{
		LightingStartFlg:       m.SilenceBreakFlg,
		LightingEndFlg:         m.SilenceStartFlg,
		LightingSceneChangeFlg: m.SongAlternationFlg,
		PaletteChangeFlg:       m.NoChange16BeatsFlg,
		EffectChangeFlg:        m.NoChange8BeatsFlg,
		ColorShiftFlg:          m.NoChange4BeatsFlg,
	}
}
