package detect

import (
	"math"

	"github.com/ledsync/lighting-engine/internal/history"
)

// PerformerSwitch detects a shift in the relative balance of the three volume
// bands, characteristic of a change in who (or what) is performing.
type PerformerSwitch struct {
	hist            *history.History
	frameCount      int
	prevDetectFrame int
	cooldownFrames  int
	switchScore     int
}

const (
	performerSwitchCapacity = 15
	performerSwitchCooldown = 80
)

func NewPerformerSwitch() *PerformerSwitch {
	return &PerformerSwitch{
		hist:            history.New(performerSwitchCapacity),
		prevDetectFrame: -1000,
		cooldownFrames:  performerSwitchCooldown,
	}
}

func (d *PerformerSwitch) UpdateState(eqLevels [6]float64) {
	d.frameCount++
	d.hist.Append("volume_high", history.FloatValue(eqLevels[1]))
	d.hist.Append("volume_mid", history.FloatValue(eqLevels[2]))
	d.hist.Append("volume_low", history.FloatValue(eqLevels[3]))

	d.calcFeature()
}

func (d *PerformerSwitch) calcFeature() {
	if d.hist.Size() < performerSwitchCapacity {
		d.switchScore = 0
		return
	}

	high := floats(d.hist.Get("volume_high"))
	mid := floats(d.hist.Get("volume_mid"))
	low := floats(d.hist.Get("volume_low"))

	n := len(high)
	now, past := n-1, n-11

	ratioNow := bandRatio(high[now], mid[now], low[now])
	ratioPast := bandRatio(high[past], mid[past], low[past])

	cosSim := cosineSimilarity(ratioNow, ratioPast)
	balanceShift := cosSim < 0.90

	var diff float64
	for i := range ratioNow {
		diff += math.Abs(ratioNow[i] - ratioPast[i])
	}

	score := 0
	if balanceShift {
		score++
	}
	if diff > 0.3 {
		score++
	}
	d.switchScore = score
}

func bandRatio(high, mid, low float64) [3]float64 {
	total := high + mid + low + 1e-5
	return [3]float64{high/total + 1e-5, mid/total + 1e-5, low/total + 1e-5}
}

func cosineSimilarity(a, b [3]float64) float64 {
	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}
	denom := math.Sqrt(normA) * math.Sqrt(normB)
	if denom == 0 {
		return 0
	}
	return dot / denom
}

func (d *PerformerSwitch) DetectPerformerSwitch() bool {
	if d.frameCount == 0 {
		return false
	}
	currentFrame := d.frameCount - 1
	if d.switchScore >= 2 && currentFrame-d.prevDetectFrame > d.cooldownFrames {
		d.prevDetectFrame = currentFrame
		return true
	}
	return false
}
