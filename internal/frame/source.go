package frame

import (
	"bufio"
	"encoding/json"
	"io"
	"math"

	"github.com/rotisserie/eris"
)

// Source produces one MusicFrame per call, in presentation order.
// ErrSourceExhausted signals a clean end of input.
type Source interface {
	Next() (MusicFrame, error)
}

var ErrSourceExhausted = eris.New("frame: source exhausted")

// JSONLineSource reads newline-delimited JSON MusicFrame records from r —
// the wire shape the upstream analysis frontend is expected to emit.
type JSONLineSource struct {
	scanner *bufio.Scanner
}

func NewJSONLineSource(r io.Reader) *JSONLineSource {
	return &JSONLineSource{scanner: bufio.NewScanner(r)}
}

func (s *JSONLineSource) Next() (MusicFrame, error) {
	for s.scanner.Scan() {
		line := s.scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var f MusicFrame
		if err := json.Unmarshal(line, &f); err != nil {
			return MusicFrame{}, eris.Wrap(err, "frame: decode json line")
		}
		return f, nil
	}
	if err := s.scanner.Err(); err != nil {
		return MusicFrame{}, eris.Wrap(err, "frame: read json line")
	}
	return MusicFrame{}, ErrSourceExhausted
}

// DemoSource is a deterministic, seedless frame generator for operator
// demonstration and local smoke-testing — never randomized, so runs are
// reproducible.
type DemoSource struct {
	frame int
}

func NewDemoSource() *DemoSource { return &DemoSource{} }

func (s *DemoSource) Next() (MusicFrame, error) {
	t := float64(s.frame) * 0.05
	s.frame++

	tempo := 120 + 20*math.Sin(t*0.1)
	beat := s.frame%25 == 0

	return MusicFrame{
		AllpassDB: -20 + 10*math.Sin(t),
		LPF200DB:  -18 + 8*math.Sin(t*1.3),
		BPF500DB:  -22 + 6*math.Sin(t*0.7),
		BPF2000DB: -25 + 5*math.Cos(t*0.9),
		BPF4000DB: -28 + 4*math.Cos(t*1.1),
		HPF6000DB: -30 + 3*math.Sin(t*1.7),
		GenreID:   s.frame / 200 % 5,
		Surround:  int(50 + 20*math.Sin(t*0.3)),
		Beat:      beat,
		Tempo:     tempo,
		TempoConf: 0.8,
	}, nil
}
