// Package tempo turns a raw BPM estimate into the coarse labels and timing
// ratios the lighting switcher and light segments key their behavior on.
package tempo

// Classifier buckets a tempo value into a coarse label.
type Classifier struct {
	class string
}

func NewClassifier() *Classifier {
	return &Classifier{class: classify(0)}
}

// Update recomputes the current class for the given tempo.
func (c *Classifier) Update(bpm float64) {
	c.class = classify(bpm)
}

// Class returns the label computed by the last Update.
func (c *Classifier) Class() string {
	return c.class
}

func classify(bpm float64) string {
	switch {
	case bpm < 60:
		return "very_slow"
	case bpm < 80:
		return "slow"
	case bpm < 100:
		return "mid_slow"
	case bpm < 120:
		return "mid"
	case bpm < 140:
		return "mid_fast"
	default:
		return "fast"
	}
}
