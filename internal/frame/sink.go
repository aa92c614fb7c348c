package frame

import (
	"io"

	"github.com/rotisserie/eris"
)

// Sink accepts one packed binary LED frame per call.
type Sink interface {
	Write(data []byte) error
}

// WriterSink adapts any io.Writer (stdout, a file, a TCP connection to a
// controller) into a Sink.
type WriterSink struct {
	w io.Writer
}

func NewWriterSink(w io.Writer) *WriterSink {
	return &WriterSink{w: w}
}

func (s *WriterSink) Write(data []byte) error {
	if _, err := s.w.Write(data); err != nil {
		return eris.Wrap(err, "frame: write led frame")
	}
	return nil
}
