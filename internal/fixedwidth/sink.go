package fixedwidth

import (
	"io"
	"strings"

	"fwconv/internal/textenc"
)

// DelimitedSink writes rows as comma-joined lines. Fields are not quoted or
// escaped.
type DelimitedSink struct {
	out     io.Writer
	encoder *textenc.Encoder
	closed  bool
}

// NewDelimitedSink encodes rows written to w with the named encoding.
func NewDelimitedSink(w io.Writer, encoding string) (*DelimitedSink, error) {
	encoder, err := textenc.NewEncoder(encoding)
	if err != nil {
		return nil, err
	}
	return &DelimitedSink{out: w, encoder: encoder}, nil
}

// WriteRow appends one row terminated by "\n". A row that cannot be encoded
// writes nothing.
func (s *DelimitedSink) WriteRow(fields []string) error {
	if s.closed {
		return &IOError{Op: "write", Err: ErrClosed}
	}
	data, err := s.encoder.Bytes(strings.Join(fields, ",") + "\n")
	if err != nil {
		return &IOError{Op: "encode", Err: err}
	}
	if _, err := s.out.Write(data); err != nil {
		return &IOError{Op: "write", Err: err}
	}
	return nil
}

// Close marks the sink closed. The underlying writer stays open.
func (s *DelimitedSink) Close() error {
	s.closed = true
	return nil
}
