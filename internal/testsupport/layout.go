package testsupport

import (
	"strconv"
	"testing"

	"fwconv/internal/layout"
)

// LayoutOption customizes the generated test layout definition.
type LayoutOption func(map[string]any)

// SampleColumns mirrors the ten-column customer extract used across tests.
var SampleColumns = []layout.Column{
	{Name: "f1", Width: 5},
	{Name: "f2", Width: 12},
	{Name: "f3", Width: 3},
	{Name: "f4", Width: 2},
	{Name: "f5", Width: 13},
	{Name: "f6", Width: 7},
	{Name: "f7", Width: 10},
	{Name: "f8", Width: 13},
	{Name: "f9", Width: 20},
	{Name: "f10", Width: 13},
}

// LayoutConfig returns a raw layout definition seeded with SampleColumns,
// windows-1252 fixed-width encoding, utf-8 delimited encoding and headers on.
func LayoutConfig(opts ...LayoutOption) map[string]any {
	raw := map[string]any{
		layout.KeyFixedWidthEncoding: "windows-1252",
		layout.KeyIncludeHeader:      "True",
		layout.KeyDelimitedEncoding:  "utf-8",
	}
	WithColumns(SampleColumns...)(raw)
	for _, opt := range opts {
		opt(raw)
	}
	return raw
}

// NewLayout builds a validated layout for tests.
func NewLayout(t testing.TB, opts ...LayoutOption) *layout.Layout {
	t.Helper()

	l, err := layout.FromMap(LayoutConfig(opts...))
	if err != nil {
		t.Fatalf("layout.FromMap: %v", err)
	}
	return l
}

// WithColumns replaces the column names and offsets.
func WithColumns(columns ...layout.Column) LayoutOption {
	return func(raw map[string]any) {
		names := make([]any, len(columns))
		offsets := make([]any, len(columns))
		for i, c := range columns {
			names[i] = c.Name
			offsets[i] = strconv.Itoa(c.Width)
		}
		raw[layout.KeyColumnNames] = names
		raw[layout.KeyOffsets] = offsets
	}
}

// WithHeader sets the IncludeHeader flag text.
func WithHeader(flag string) LayoutOption {
	return func(raw map[string]any) {
		raw[layout.KeyIncludeHeader] = flag
	}
}

// WithEncodings sets the fixed-width and delimited encodings.
func WithEncodings(fixedWidth, delimited string) LayoutOption {
	return func(raw map[string]any) {
		raw[layout.KeyFixedWidthEncoding] = fixedWidth
		raw[layout.KeyDelimitedEncoding] = delimited
	}
}
