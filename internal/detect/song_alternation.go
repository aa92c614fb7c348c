package detect

import (
	"math"
	"strconv"

	"github.com/ledsync/lighting-engine/internal/history"
)

// SongAlternation detects that the genre, tempo, or surround proxy has
// stepped between two consecutive samples, indicating a new song has begun.
type SongAlternation struct {
	hist            *history.History
	frameCount      int
	prevDetectFrame int
	cooldownFrames  int
	changeScore     int
}

const (
	songAlternationCapacity = 30
	songAlternationCooldown = 50
)

func NewSongAlternation() *SongAlternation {
	return &SongAlternation{
		hist:            history.New(songAlternationCapacity),
		prevDetectFrame: -1000,
		cooldownFrames:  songAlternationCooldown,
	}
}

func (d *SongAlternation) UpdateHistory(genreID int, tempo float64, surroundScore float64) {
	d.frameCount++
	d.hist.Append("genre_id", history.StringValue(strconv.Itoa(genreID)))
	d.hist.Append("tempo", history.FloatValue(tempo))
	d.hist.Append("surround_index", history.FloatValue(surroundScore))

	d.calcFeature()
}

func (d *SongAlternation) calcFeature() {
	if d.hist.Size() < songAlternationCapacity {
		d.changeScore = 0
		return
	}

	genre := d.hist.Get("genre_id")
	tempo := floats(d.hist.Get("tempo"))
	surround := floats(d.hist.Get("surround_index"))

	n := len(genre)
	latest, past := n-1, n-2

	genreChange := genre[latest].Str != genre[past].Str
	tempoChange := math.Abs(tempo[latest]-tempo[past]) > 20
	surroundChange := math.Abs(surround[latest]-surround[past]) >= 2

	score := 0
	if genreChange {
		score++
	}
	if tempoChange {
		score++
	}
	if surroundChange {
		score++
	}
	d.changeScore = score
}

func (d *SongAlternation) DetectSongAlternation() bool {
	if d.frameCount == 0 {
		return false
	}
	currentFrame := d.frameCount - 1
	if d.changeScore >= 2 && currentFrame-d.prevDetectFrame > d.cooldownFrames {
		d.prevDetectFrame = currentFrame
		return true
	}
	return false
}
