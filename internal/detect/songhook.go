package detect

import (
	"math"

	"github.com/ledsync/lighting-engine/internal/history"
)

// Songhook detects a recurring song-section hook: a rise in the surround
// proxy, a jump in overall volume, and a momentarily stable tempo, all at
// once.
type Songhook struct {
	hist            *history.History
	frameCount      int
	prevDetectFrame int
	cooldownFrames  int
	hookScore       int
}

const (
	songhookCapacity = 20
	songhookCooldown = 100
)

func NewSonghook() *Songhook {
	return &Songhook{
		hist:            history.New(songhookCapacity),
		prevDetectFrame: -1000,
		cooldownFrames:  songhookCooldown,
	}
}

// UpdateState appends the current sample and recomputes the hook score.
func (d *Songhook) UpdateState(eqLevels [6]float64, tempo float64) {
	d.frameCount++
	surround := eqLevels[0]
	high := eqLevels[1]
	mid := eqLevels[2]
	low := eqLevels[3]

	d.hist.Append("surround", history.FloatValue(surround))
	d.hist.Append("volume_high", history.FloatValue(high))
	d.hist.Append("volume_mid", history.FloatValue(mid))
	d.hist.Append("volume_low", history.FloatValue(low))
	d.hist.Append("tempo", history.FloatValue(tempo))

	d.calcFeature()
}

func (d *Songhook) calcFeature() {
	if d.hist.Size() < songhookCapacity {
		d.hookScore = 0
		return
	}

	surround := floats(d.hist.Get("surround"))
	high := floats(d.hist.Get("volume_high"))
	mid := floats(d.hist.Get("volume_mid"))
	low := floats(d.hist.Get("volume_low"))
	tempo := floats(d.hist.Get("tempo"))

	n := len(surround)
	now, past := n-1, n-11

	excitementRise := surround[now]-surround[past] >= 1

	volumeNow := (high[now] + mid[now] + low[now]) / 3
	volumePast := (high[past] + mid[past] + low[past]) / 3
	volumeIncrease := volumeNow > 1.1*volumePast

	recent := tempo[n-10:]
	var mean float64
	for _, v := range recent {
		mean += v
	}
	mean /= float64(len(recent))
	var maxDeviation float64
	for _, v := range recent {
		if d := math.Abs(v - mean); d > maxDeviation {
			maxDeviation = d
		}
	}
	tempoStable := maxDeviation < 5

	score := 0
	if excitementRise {
		score++
	}
	if volumeIncrease {
		score++
	}
	if tempoStable {
		score++
	}
	d.hookScore = score
}

// DetectSonghook reports whether the hook score crosses threshold, gated by
// cooldown.
func (d *Songhook) DetectSonghook() bool {
	if d.frameCount == 0 {
		return false
	}
	currentFrame := d.frameCount - 1
	if d.hookScore >= 2 && currentFrame-d.prevDetectFrame > d.cooldownFrames {
		d.prevDetectFrame = currentFrame
		return true
	}
	return false
}

func floats(vs []history.Value) []float64 {
	out := make([]float64, len(vs))
	for i, v := range vs {
		out[i] = v.Float
	}
	return out
}
