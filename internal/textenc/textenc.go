package textenc

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// ErrUnknownEncoding reports an encoding identifier that cannot be resolved.
var ErrUnknownEncoding = errors.New("unknown text encoding")

// Lookup resolves an encoding identifier.
func Lookup(name string) (encoding.Encoding, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return nil, fmt.Errorf("%w: empty name", ErrUnknownEncoding)
	}
	if isUTF8(trimmed) {
		return unicode.UTF8, nil
	}
	if enc, err := ianaindex.IANA.Encoding(trimmed); err == nil && enc != nil {
		return enc, nil
	}
	if enc, err := htmlindex.Get(trimmed); err == nil && enc != nil {
		return enc, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownEncoding, name)
}

// Canonical returns the registry name for an encoding identifier, falling
// back to the trimmed input when the registry has no name for it.
func Canonical(name string) string {
	enc, err := Lookup(name)
	if err != nil {
		return strings.TrimSpace(name)
	}
	if canonical, err := ianaindex.IANA.Name(enc); err == nil && canonical != "" {
		return canonical
	}
	return strings.TrimSpace(name)
}

// NewReader returns a reader that decodes r from the named encoding into UTF-8.
func NewReader(r io.Reader, name string) (io.Reader, error) {
	enc, err := Lookup(name)
	if err != nil {
		return nil, err
	}
	if enc == unicode.UTF8 {
		return r, nil
	}
	return transform.NewReader(r, enc.NewDecoder()), nil
}

// Encoder converts whole strings from UTF-8 into a named encoding.
type Encoder struct {
	enc *encoding.Encoder
}

// NewEncoder returns an Encoder for the named encoding. Runes the target
// charset cannot represent are reported as errors, never replaced.
func NewEncoder(name string) (*Encoder, error) {
	enc, err := Lookup(name)
	if err != nil {
		return nil, err
	}
	if enc == unicode.UTF8 {
		return &Encoder{}, nil
	}
	return &Encoder{enc: enc.NewEncoder()}, nil
}

// Bytes encodes s in full. On error no bytes are returned, so a caller never
// holds a partially encoded line.
func (e *Encoder) Bytes(s string) ([]byte, error) {
	if e.enc == nil {
		return []byte(s), nil
	}
	out, err := e.enc.Bytes([]byte(s))
	if err != nil {
		return nil, fmt.Errorf("encode %q: %w", s, err)
	}
	return out, nil
}

func isUTF8(name string) bool {
	switch strings.ToLower(strings.ReplaceAll(name, "_", "-")) {
	case "utf-8", "utf8":
		return true
	default:
		return false
	}
}
