package tempo

import "math"

// DimmerTimeAdaptor maps a tempo to a dimmer-cycle period percentage: faster
// music gets a shorter fade cycle.
type DimmerTimeAdaptor struct {
	percentage int
}

func NewDimmerTimeAdaptor() *DimmerTimeAdaptor {
	return &DimmerTimeAdaptor{percentage: periodPercentage(0)}
}

// Update recomputes the current period percentage for the given tempo.
func (a *DimmerTimeAdaptor) Update(bpm float64) {
	a.percentage = periodPercentage(bpm)
}

// Percentage returns the value computed by the last Update, rounded to int.
func (a *DimmerTimeAdaptor) Percentage() int {
	return a.percentage
}

func periodPercentage(bpm float64) int {
	var pct float64
	switch {
	case bpm <= 0:
		pct = 100
	case bpm < 60:
		pct = 500
	case bpm < 80:
		pct = 300
	case bpm < 100:
		pct = 200
	case bpm < 120:
		pct = 100
	case bpm < 140:
		pct = 60
	default:
		pct = 30
	}
	return int(math.Round(pct))
}
