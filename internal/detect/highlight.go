package detect

import "github.com/ledsync/lighting-engine/internal/history"

// Highlight detects a musical peak: a sudden surge in the high band, a
// sustained rise across all bands, and a confidently-tracked tempo.
type Highlight struct {
	hist            *history.History
	frameCount      int
	prevDetectFrame int
	cooldownFrames  int
	highlightScore  int
}

const (
	highlightCapacity = 30
	highlightCooldown = 100
)

func NewHighlight() *Highlight {
	return &Highlight{
		hist:            history.New(highlightCapacity),
		prevDetectFrame: -1000,
		cooldownFrames:  highlightCooldown,
	}
}

func (d *Highlight) UpdateState(eqLevels [6]float64, tempoConfidence float64) {
	d.frameCount++
	d.hist.Append("volume_high", history.FloatValue(eqLevels[1]))
	d.hist.Append("volume_mid", history.FloatValue(eqLevels[2]))
	d.hist.Append("volume_low", history.FloatValue(eqLevels[3]))
	d.hist.Append("tempo_confidence", history.FloatValue(tempoConfidence))

	d.calcFeature()
}

func (d *Highlight) calcFeature() {
	if d.hist.Size() < highlightCapacity {
		d.highlightScore = 0
		return
	}

	high := floats(d.hist.Get("volume_high"))
	mid := floats(d.hist.Get("volume_mid"))
	low := floats(d.hist.Get("volume_low"))
	tempoConf := floats(d.hist.Get("tempo_confidence"))

	n := len(high)
	latest, shortPast, longPast := n-1, n-6, n-21

	surge := high[latest] - high[shortPast]
	surgeScore := surge > 20

	nowTotal := high[latest] + mid[latest] + low[latest]
	pastTotal := high[longPast] + mid[longPast] + low[longPast]
	longRiseScore := nowTotal-pastTotal > 30

	tempoConfScore := tempoConf[latest] > 0.6

	score := 0
	if surgeScore {
		score++
	}
	if longRiseScore {
		score++
	}
	if tempoConfScore {
		score++
	}
	d.highlightScore = score
}

func (d *Highlight) DetectHighlight() bool {
	if d.frameCount == 0 {
		return false
	}
	currentFrame := d.frameCount - 1
	if d.highlightScore >= 2 && currentFrame-d.prevDetectFrame > d.cooldownFrames {
		d.prevDetectFrame = currentFrame
		return true
	}
	return false
}
