package interpret

import (
	"log/slog"
	"sync"

	"github.com/ledsync/lighting-engine/internal/detect"
	"github.com/ledsync/lighting-engine/internal/frame"
	"github.com/ledsync/lighting-engine/internal/tempo"
)

// Interpreter owns the full musical-event detector stack and turns each raw
// Music Frame into an aggregate MusicalFlags snapshot.
type Interpreter struct {
	section         *detect.SectionProgression
	songAlternation *detect.SongAlternation
	idle            *detect.IdleBeatTracker
	classifier      *tempo.Classifier
	dimmerAdaptor   *tempo.DimmerTimeAdaptor

	frameCount  int
	latestGenre int
	latestTempo float64

	flags MusicalFlags

	warnedSilenceOnce sync.Once
	logger            *slog.Logger
}

func NewInterpreter(logger *slog.Logger) *Interpreter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Interpreter{
		section:         detect.NewSectionProgression(),
		songAlternation: detect.NewSongAlternation(),
		idle:            detect.NewIdleBeatTracker(),
		classifier:      tempo.NewClassifier(),
		dimmerAdaptor:   tempo.NewDimmerTimeAdaptor(),
		logger:          logger,
	}
}

// Update advances every owned detector and adaptor by one frame and
// recomputes the aggregate Musical Flags, retrievable via
// DetectMusicalChangeFlgs.
func (in *Interpreter) Update(f frame.MusicFrame) {
	in.frameCount++
	in.latestGenre = f.GenreID
	in.latestTempo = f.Tempo

	eqLevels := f.EQLevels()
	in.section.UpdateState(eqLevels, f.Tempo, f.TempoConf)

	songhookFlg := in.section.SonghookFlag()
	performerSwitchFlg := in.section.PerformerSwitchFlag()
	highlightFlg := in.section.HighlightFlag()

	in.songAlternation.UpdateHistory(f.GenreID, f.Tempo, float64(f.Surround))
	songAlternationFlg := in.songAlternation.DetectSongAlternation()

	anyChange := songhookFlg || performerSwitchFlg || highlightFlg || songAlternationFlg
	in.idle.Update(f.Beat, anyChange)

	in.classifier.Update(f.Tempo)
	in.dimmerAdaptor.Update(f.Tempo)

	in.warnedSilenceOnce.Do(func() {
		in.logger.Debug("silence_break_flg and silence_start_flg are hard-wired false; reserved switcher branches are unreachable")
	})

	in.flags = MusicalFlags{
		HighlightFlg:           highlightFlg,
		SonghookFlg:            songhookFlg,
		PerformerSwitchFlg:     performerSwitchFlg,
		SongAlternationFlg:     songAlternationFlg,
		NoChange4BeatsFlg:      in.idle.Flag(4),
		NoChange8BeatsFlg:      in.idle.Flag(8),
		NoChange16BeatsFlg:     in.idle.Flag(16),
		NoChange32BeatsFlg:     in.idle.Flag(32),
		SilenceBreakFlg:        false,
		SilenceStartFlg:        false,
		DimmerPeriodPercentage: in.dimmerAdaptor.Percentage(),
		TempoClass:             in.classifier.Class(),
		Frame:                  in.frameCount,
	}
}

// DetectMusicalChangeFlgs returns the Musical Flags computed by the most
// recent Update.
func (in *Interpreter) DetectMusicalChangeFlgs() MusicalFlags {
	return in.flags
}

// LatestGenre and LatestTempo expose the most recently observed values for
// callers (the switcher) that key their own state off them.
func (in *Interpreter) LatestGenre() int        { return in.latestGenre }
func (in *Interpreter) LatestTempo() float64    { return in.latestTempo }
func (in *Interpreter) FrameCount() int         { return in.frameCount }
