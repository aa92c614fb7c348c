// Package frame defines the Music Frame wire contract that the (out-of-scope)
// upstream music-analysis frontend produces, and the narrow adapters that
// turn an external representation of it into the sequence the engine reads.
package frame

// MusicFrame is one sample of the upstream analysis frontend's output: six
// band-energy levels in dB, plus genre, tempo and beat metadata.
type MusicFrame struct {
	AllpassDB  float64 `json:"allpass_db"`
	LPF200DB   float64 `json:"lpf200_db"`
	BPF500DB   float64 `json:"bpf500_db"`
	BPF2000DB  float64 `json:"bpf2000_db"`
	BPF4000DB  float64 `json:"bpf4000_db"`
	HPF6000DB  float64 `json:"hpf6000_db"`
	GenreID    int     `json:"genre_id"`
	Surround   int     `json:"surround_score"`
	Beat       bool    `json:"beat"`
	Tempo      float64 `json:"tempo"`
	TempoConf  float64 `json:"tempo_confidence"`
}

// EQLevels projects the six named bands into the ordered sequence the
// detectors index positionally: [allpass, LPF200, BPF500, BPF2000, BPF4000,
// HPF6000]. Detectors read indices 0..3 as surround_index, volume_high,
// volume_mid, volume_low respectively; that contract is pinned here, not
// re-derived downstream.
func (f MusicFrame) EQLevels() [6]float64 {
	return [6]float64{f.AllpassDB, f.LPF200DB, f.BPF500DB, f.BPF2000DB, f.BPF4000DB, f.HPF6000DB}
}
