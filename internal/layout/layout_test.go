package layout_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"fwconv/internal/layout"
)

func sampleConfig() map[string]any {
	return map[string]any{
		"ColumnNames":        []any{"f1", "f2", "f3", "f4", "f5", "f6", "f7", "f8", "f9", "f10"},
		"Offsets":            []any{"5", "12", "3", "2", "13", "7", "10", "13", "20", "13"},
		"FixedWidthEncoding": "windows-1252",
		"IncludeHeader":      "True",
		"DelimitedEncoding":  "utf-8",
	}
}

func TestFromMapZipsColumnsInOrder(t *testing.T) {
	l, err := layout.FromMap(sampleConfig())
	if err != nil {
		t.Fatalf("FromMap returned error: %v", err)
	}
	want := []layout.Column{
		{"f1", 5}, {"f2", 12}, {"f3", 3}, {"f4", 2}, {"f5", 13},
		{"f6", 7}, {"f7", 10}, {"f8", 13}, {"f9", 20}, {"f10", 13},
	}
	if diff := cmp.Diff(want, l.Columns()); diff != "" {
		t.Fatalf("columns mismatch (-want +got):\n%s", diff)
	}
	settings := l.Settings()
	if !settings.IncludeHeader || settings.HeaderFlag != "True" {
		t.Fatalf("unexpected header settings: %+v", settings)
	}
	if settings.LineTerminator != "\n" {
		t.Fatalf("unexpected default terminator %q", settings.LineTerminator)
	}
	if settings.FixedWidthEncoding != "windows-1252" || settings.DelimitedEncoding != "utf-8" {
		t.Fatalf("unexpected encodings: %+v", settings)
	}
	if l.LineWidth() != 98 {
		t.Fatalf("line width = %d, want 98", l.LineWidth())
	}
}

func TestFromMapDoesNotMutateInput(t *testing.T) {
	raw := sampleConfig()
	if _, err := layout.FromMap(raw); err != nil {
		t.Fatalf("FromMap: %v", err)
	}
	if _, ok := raw["ColumnNames"].([]any); !ok {
		t.Fatalf("input map was rewritten: %T", raw["ColumnNames"])
	}
}

func TestFromMapRejectsInvalidConfigs(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(map[string]any)
	}{
		{"missing column names", func(m map[string]any) { delete(m, "ColumnNames") }},
		{"missing offsets", func(m map[string]any) { delete(m, "Offsets") }},
		{"missing fixed width encoding", func(m map[string]any) { delete(m, "FixedWidthEncoding") }},
		{"missing include header", func(m map[string]any) { delete(m, "IncludeHeader") }},
		{"missing delimited encoding", func(m map[string]any) { delete(m, "DelimitedEncoding") }},
		{"count mismatch", func(m map[string]any) { m["Offsets"] = []any{"5"} }},
		{"numeric offset element", func(m map[string]any) {
			m["Offsets"] = []any{5.0, "12", "3", "2", "13", "7", "10", "13", "20", "13"}
		}},
		{"boolean header flag", func(m map[string]any) { m["IncludeHeader"] = true }},
		{"non string extra key", func(m map[string]any) { m["Version"] = 2.0 }},
		{"column names as string", func(m map[string]any) { m["ColumnNames"] = "f1" }},
		{"encoding as list", func(m map[string]any) { m["FixedWidthEncoding"] = []any{"utf-8"} }},
		{"zero width", func(m map[string]any) {
			m["Offsets"] = []any{"0", "12", "3", "2", "13", "7", "10", "13", "20", "13"}
		}},
		{"non numeric width", func(m map[string]any) {
			m["Offsets"] = []any{"five", "12", "3", "2", "13", "7", "10", "13", "20", "13"}
		}},
		{"unknown header flag", func(m map[string]any) { m["IncludeHeader"] = "maybe" }},
		{"unknown encoding", func(m map[string]any) { m["DelimitedEncoding"] = "klingon-9" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := sampleConfig()
			tt.mutate(raw)
			_, err := layout.FromMap(raw)
			if !errors.Is(err, layout.ErrConfig) {
				t.Fatalf("FromMap error = %v, want ErrConfig", err)
			}
		})
	}
}

func TestFromMapAcceptsExtraStringKeys(t *testing.T) {
	raw := sampleConfig()
	raw["Description"] = "customer extract"
	raw["Tags"] = []any{"a", "b"}
	if _, err := layout.FromMap(raw); err != nil {
		t.Fatalf("FromMap returned error: %v", err)
	}
}

func TestParseFlag(t *testing.T) {
	tests := map[string]bool{
		"True": true, "true": true, "1": true, " yes ": true, "ON": true, "y": true, "T": true,
		"False": false, "false": false, "0": false, "": false, "no": false, "off": false, "F": false,
	}
	for input, want := range tests {
		got, err := layout.ParseFlag(input)
		if err != nil {
			t.Fatalf("ParseFlag(%q) error: %v", input, err)
		}
		if got != want {
			t.Fatalf("ParseFlag(%q) = %v, want %v", input, got, want)
		}
	}
	if _, err := layout.ParseFlag("sometimes"); err == nil {
		t.Fatal("expected error for unrecognized flag")
	}
}

func TestHeaderFlagFalseDisablesHeader(t *testing.T) {
	raw := sampleConfig()
	raw["IncludeHeader"] = "False"
	l, err := layout.FromMap(raw)
	if err != nil {
		t.Fatalf("FromMap: %v", err)
	}
	if l.Settings().IncludeHeader {
		t.Fatal("expected header disabled for \"False\"")
	}
	if l.Settings().HeaderFlag != "False" {
		t.Fatalf("header flag not stored verbatim: %q", l.Settings().HeaderFlag)
	}
}

func TestLoadReadsJSONFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "layout.json")
	doc := `{"ColumnNames":["f1","f2"],"Offsets":["5","12"],"FixedWidthEncoding":"windows-1252","IncludeHeader":"True","DelimitedEncoding":"utf-8"}`
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatalf("write layout: %v", err)
	}
	l, err := layout.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if diff := cmp.Diff([]string{"f1", "f2"}, l.Names()); diff != "" {
		t.Fatalf("names mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadFailures(t *testing.T) {
	dir := t.TempDir()
	if _, err := layout.Load(filepath.Join(dir, "missing.json")); !errors.Is(err, layout.ErrConfig) {
		t.Fatalf("missing file error = %v, want ErrConfig", err)
	}
	bad := filepath.Join(dir, "bad.json")
	if err := os.WriteFile(bad, []byte("{not json"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := layout.Load(bad); !errors.Is(err, layout.ErrConfig) {
		t.Fatalf("malformed file error = %v, want ErrConfig", err)
	}
	arr := filepath.Join(dir, "array.json")
	if err := os.WriteFile(arr, []byte("null"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := layout.Load(arr); !errors.Is(err, layout.ErrConfig) {
		t.Fatalf("null document error = %v, want ErrConfig", err)
	}
}

func TestSpansAndTerminator(t *testing.T) {
	l, err := layout.New([]layout.Column{{"f1", 5}, {"f2", 12}}, layout.Settings{
		FixedWidthEncoding: "utf-8",
		DelimitedEncoding:  "utf-8",
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	spans := l.Spans()
	if spans[0].Start != 0 || spans[0].End != 5 || spans[1].Start != 5 || spans[1].End != 17 {
		t.Fatalf("unexpected spans: %+v", spans)
	}

	crlf, err := l.WithTerminator("\r\n")
	if err != nil {
		t.Fatalf("WithTerminator: %v", err)
	}
	if crlf.Settings().LineTerminator != "\r\n" || l.Settings().LineTerminator != "\n" {
		t.Fatalf("terminator copy leaked: %q / %q", crlf.Settings().LineTerminator, l.Settings().LineTerminator)
	}
	if _, err := l.WithTerminator(""); !errors.Is(err, layout.ErrConfig) {
		t.Fatalf("empty terminator error = %v", err)
	}
}
