// Package colorutil implements the channel-level color arithmetic shared by
// LightSegment and LightEffect: interpolation, brightness scaling, and
// transparency-weighted blending.
package colorutil

import "github.com/ledsync/lighting-engine/internal/utils"

// RGB is a clamped 8-bit-per-channel color triple.
type RGB [3]int

// ClampChannel clamps a single channel value to [0,255].
func ClampChannel(v int) int {
	return utils.Clamp(v, 0, 255)
}

// Clamp returns c with every channel clamped to [0,255].
func (c RGB) Clamp() RGB {
	return RGB{ClampChannel(c[0]), ClampChannel(c[1]), ClampChannel(c[2])}
}

// Interpolate linearly blends c1 toward c2 by t, clamping each channel.
func Interpolate(c1, c2 RGB, t float64) RGB {
	var out RGB
	for i := range out {
		out[i] = ClampChannel(int(float64(c1[i]) + float64(c2[i]-c1[i])*t))
	}
	return out
}

// ApplyBrightness scales every channel of c by b, clamping the result.
func ApplyBrightness(c RGB, b float64) RGB {
	var out RGB
	for i := range out {
		out[i] = ClampChannel(int(float64(c[i]) * b))
	}
	return out
}

// Blend computes the weighted sum of colors, normalized by the weight total.
// A zero weight total yields black.
func Blend(colors []RGB, weights []float64) RGB {
	var total float64
	for _, w := range weights {
		total += w
	}
	if total == 0 {
		return RGB{0, 0, 0}
	}
	var sum [3]float64
	for i, c := range colors {
		w := weights[i]
		for k := 0; k < 3; k++ {
			sum[k] += float64(c[k]) * w
		}
	}
	var out RGB
	for k := 0; k < 3; k++ {
		out[k] = ClampChannel(int(sum[k] / total))
	}
	return out
}
