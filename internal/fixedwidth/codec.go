package fixedwidth

import (
	"maps"
	"strings"
	"unicode/utf8"

	"fwconv/internal/layout"
)

// Record maps column names to scalar values. A nil value renders as an empty
// field but still counts as present.
type Record map[string]any

// Codec accumulates record values and renders them as fixed-width lines.
// A Codec is not safe for concurrent use.
type Codec struct {
	layout        *layout.Layout
	columns       []layout.Column
	buffer        Record
	headerEmitted bool
}

// NewCodec returns a codec with an empty record buffer.
func NewCodec(l *layout.Layout) *Codec {
	return &Codec{
		layout:  l,
		columns: l.Columns(),
		buffer:  Record{},
	}
}

// Layout returns the layout the codec renders against.
func (c *Codec) Layout() *layout.Layout {
	return c.layout
}

// Update merges values into the record buffer. Keys not present in values
// keep whatever the buffer held before.
func (c *Codec) Update(values Record) {
	maps.Copy(c.buffer, values)
}

// Reset empties the record buffer. The header state is unaffected.
func (c *Codec) Reset() {
	clear(c.buffer)
}

// Buffer returns a copy of the current record buffer.
func (c *Codec) Buffer() Record {
	return maps.Clone(c.buffer)
}

// HeaderEmitted reports whether the header line has already been rendered.
func (c *Codec) HeaderEmitted() bool {
	return c.headerEmitted
}

// FormatField returns the text form of the buffered value for name.
func (c *Codec) FormatField(name string) (string, error) {
	value, ok := c.buffer[name]
	if !ok {
		return "", &FieldError{Field: name}
	}
	return formatValue(value), nil
}

// Validate checks every declared column against the buffer.
func (c *Codec) Validate() error {
	_, err := c.formatColumns()
	return err
}

// formatColumns formats each declared column once and validates the result.
// The returned slice is parallel to c.columns.
func (c *Codec) formatColumns() ([]string, error) {
	fields := make([]string, len(c.columns))
	for i, col := range c.columns {
		value, ok := c.buffer[col.Name]
		if !ok {
			return nil, &ValidationError{Field: col.Name, Reason: ReasonRequired, Width: col.Width}
		}
		text := formatValue(value)
		if n := utf8.RuneCountInString(text); n > col.Width {
			return nil, &ValidationError{Field: col.Name, Reason: ReasonTooLong, Width: col.Width, Length: n}
		}
		fields[i] = text
	}
	return fields, nil
}

// RenderLine validates the buffer and returns one terminated data line. The
// first successful call on a layout with headers enabled also returns the
// header line ahead of the data line.
func (c *Codec) RenderLine() (string, error) {
	text, header, err := c.render()
	if err != nil {
		return "", err
	}
	if header {
		c.headerEmitted = true
	}
	return text, nil
}

// render builds the output for the buffered record without touching codec
// state. header reports whether text starts with the pending header line.
func (c *Codec) render() (text string, header bool, err error) {
	fields, err := c.formatColumns()
	if err != nil {
		return "", false, err
	}

	settings := c.layout.Settings()
	var b strings.Builder
	b.Grow(2 * (c.layout.LineWidth() + len(settings.LineTerminator)))

	if settings.IncludeHeader && !c.headerEmitted {
		for _, col := range c.columns {
			b.WriteString(leftJustify(col.Name, col.Width))
		}
		b.WriteString(settings.LineTerminator)
		header = true
	}

	for i, col := range c.columns {
		b.WriteString(leftJustify(fields[i], col.Width))
	}
	b.WriteString(settings.LineTerminator)
	return b.String(), header, nil
}

// leftJustify pads s with trailing spaces up to width runes. Longer strings
// are returned unchanged.
func leftJustify(s string, width int) string {
	n := utf8.RuneCountInString(s)
	if n >= width {
		return s
	}
	return s + strings.Repeat(" ", width-n)
}
