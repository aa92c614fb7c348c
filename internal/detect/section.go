package detect

// SectionProgression fans a frame's section-level features out to the
// Songhook, PerformerSwitch and Highlight detectors and exposes their
// individual flags.
type SectionProgression struct {
	Songhook        *Songhook
	PerformerSwitch *PerformerSwitch
	Highlight       *Highlight
}

func NewSectionProgression() *SectionProgression {
	return &SectionProgression{
		Songhook:        NewSonghook(),
		PerformerSwitch: NewPerformerSwitch(),
		Highlight:       NewHighlight(),
	}
}

// UpdateState appends the current sample to every wrapped detector.
func (s *SectionProgression) UpdateState(eqLevels [6]float64, tempo, tempoConfidence float64) {
	s.Songhook.UpdateState(eqLevels, tempo)
	s.PerformerSwitch.UpdateState(eqLevels)
	s.Highlight.UpdateState(eqLevels, tempoConfidence)
}

func (s *SectionProgression) SonghookFlag() bool        { return s.Songhook.DetectSonghook() }
func (s *SectionProgression) PerformerSwitchFlag() bool { return s.PerformerSwitch.DetectPerformerSwitch() }
func (s *SectionProgression) HighlightFlag() bool       { return s.Highlight.DetectHighlight() }
