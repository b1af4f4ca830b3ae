package layout

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"fwconv/internal/textenc"
)

// ErrConfig reports a malformed or incomplete layout definition.
var ErrConfig = errors.New("layout config")

// Keys every layout definition must provide.
const (
	KeyColumnNames        = "ColumnNames"
	KeyOffsets            = "Offsets"
	KeyFixedWidthEncoding = "FixedWidthEncoding"
	KeyIncludeHeader      = "IncludeHeader"
	KeyDelimitedEncoding  = "DelimitedEncoding"
)

// DefaultLineTerminator ends every rendered fixed-width line unless overridden.
const DefaultLineTerminator = "\n"

var requiredKeys = []string{
	KeyColumnNames,
	KeyOffsets,
	KeyFixedWidthEncoding,
	KeyIncludeHeader,
	KeyDelimitedEncoding,
}

// Column is a named field span.
type Column struct {
	Name  string `json:"name"`
	Width int    `json:"width"`
}

// Settings holds the layout-wide options.
type Settings struct {
	IncludeHeader      bool   `json:"include_header"`
	HeaderFlag         string `json:"header_flag"`
	LineTerminator     string `json:"line_terminator"`
	FixedWidthEncoding string `json:"fixed_width_encoding"`
	DelimitedEncoding  string `json:"delimited_encoding"`
}

// Layout is an ordered column specification plus its settings.
type Layout struct {
	columns  []Column
	settings Settings
}

// Span locates a column inside a fixed-width line. End is exclusive.
type Span struct {
	Column
	Start int `json:"start"`
	End   int `json:"end"`
}

// Load reads and validates the layout file at path.
func Load(path string) (*Layout, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %w", ErrConfig, path, err)
	}
	l, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return l, nil
}

// Parse decodes a JSON layout definition.
func Parse(data []byte) (*Layout, error) {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: decode json: %w", ErrConfig, err)
	}
	if raw == nil {
		return nil, fmt.Errorf("%w: layout must be a JSON object", ErrConfig)
	}
	return FromMap(raw)
}

// FromMap validates a decoded configuration object and builds a Layout.
func FromMap(raw map[string]any) (*Layout, error) {
	var missing []string
	for _, key := range requiredKeys {
		if _, ok := raw[key]; !ok {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: missing required keys: %s", ErrConfig, strings.Join(missing, ", "))
	}

	raw, err := checkTypes(raw)
	if err != nil {
		return nil, err
	}

	names, ok := raw[KeyColumnNames].([]string)
	if !ok {
		return nil, fmt.Errorf("%w: %s must be a list of strings", ErrConfig, KeyColumnNames)
	}
	offsets, ok := raw[KeyOffsets].([]string)
	if !ok {
		return nil, fmt.Errorf("%w: %s must be a list of strings", ErrConfig, KeyOffsets)
	}
	if len(names) != len(offsets) {
		return nil, fmt.Errorf("%w: %d column names but %d offsets", ErrConfig, len(names), len(offsets))
	}

	columns := make([]Column, 0, len(names))
	for i, name := range names {
		width, err := strconv.Atoi(strings.TrimSpace(offsets[i]))
		if err != nil || width <= 0 {
			return nil, fmt.Errorf("%w: offset %q for column %q is not a positive integer", ErrConfig, offsets[i], name)
		}
		columns = append(columns, Column{Name: name, Width: width})
	}

	for _, key := range []string{KeyFixedWidthEncoding, KeyIncludeHeader, KeyDelimitedEncoding} {
		if _, ok := raw[key].(string); !ok {
			return nil, fmt.Errorf("%w: %s must be a string", ErrConfig, key)
		}
	}

	headerFlag := raw[KeyIncludeHeader].(string)
	include, err := ParseFlag(headerFlag)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrConfig, KeyIncludeHeader, err)
	}

	settings := Settings{
		IncludeHeader:  include,
		HeaderFlag:     headerFlag,
		LineTerminator: DefaultLineTerminator,
	}
	settings.FixedWidthEncoding = raw[KeyFixedWidthEncoding].(string)
	settings.DelimitedEncoding = raw[KeyDelimitedEncoding].(string)
	for _, key := range []string{KeyFixedWidthEncoding, KeyDelimitedEncoding} {
		if _, err := textenc.Lookup(raw[key].(string)); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrConfig, key, err)
		}
	}

	return &Layout{columns: columns, settings: settings}, nil
}

// checkTypes enforces that every top-level value is a string or a list of
// strings. It returns a copy with list values converted to []string.
func checkTypes(raw map[string]any) (map[string]any, error) {
	keys := make([]string, 0, len(raw))
	for key := range raw {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	out := make(map[string]any, len(raw))
	for _, key := range keys {
		switch value := raw[key].(type) {
		case string:
			out[key] = value
		case []string:
			out[key] = append([]string(nil), value...)
		case []any:
			items := make([]string, len(value))
			for i, item := range value {
				s, ok := item.(string)
				if !ok {
					return nil, fmt.Errorf("%w: the elements in %s have invalid type; allowed: string", ErrConfig, key)
				}
				items[i] = s
			}
			out[key] = items
		default:
			return nil, fmt.Errorf("%w: invalid value type for %s; allowed: string", ErrConfig, key)
		}
	}
	return out, nil
}

// New builds a layout directly from columns and settings, applying the same
// checks as FromMap where they apply.
func New(columns []Column, settings Settings) (*Layout, error) {
	for _, c := range columns {
		if c.Width <= 0 {
			return nil, fmt.Errorf("%w: width %d for column %q is not a positive integer", ErrConfig, c.Width, c.Name)
		}
	}
	if settings.LineTerminator == "" {
		settings.LineTerminator = DefaultLineTerminator
	}
	for _, name := range []string{settings.FixedWidthEncoding, settings.DelimitedEncoding} {
		if _, err := textenc.Lookup(name); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrConfig, err)
		}
	}
	return &Layout{columns: append([]Column(nil), columns...), settings: settings}, nil
}

// WithTerminator returns a copy of the layout that ends lines with term.
func (l *Layout) WithTerminator(term string) (*Layout, error) {
	if term == "" {
		return nil, fmt.Errorf("%w: line terminator must not be empty", ErrConfig)
	}
	clone := &Layout{columns: l.Columns(), settings: l.settings}
	clone.settings.LineTerminator = term
	return clone, nil
}

// Columns returns a copy of the ordered column list.
func (l *Layout) Columns() []Column {
	return append([]Column(nil), l.columns...)
}

// Settings returns the layout settings.
func (l *Layout) Settings() Settings {
	return l.settings
}

// Names returns the column names in declaration order.
func (l *Layout) Names() []string {
	names := make([]string, len(l.columns))
	for i, c := range l.columns {
		names[i] = c.Name
	}
	return names
}

// LineWidth is the sum of all column widths.
func (l *Layout) LineWidth() int {
	total := 0
	for _, c := range l.columns {
		total += c.Width
	}
	return total
}

// Spans returns the start and end offsets of every column.
func (l *Layout) Spans() []Span {
	spans := make([]Span, len(l.columns))
	offset := 0
	for i, c := range l.columns {
		spans[i] = Span{Column: c, Start: offset, End: offset + c.Width}
		offset += c.Width
	}
	return spans
}
