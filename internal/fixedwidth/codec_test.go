package fixedwidth_test

import (
	"encoding/json"
	"errors"
	"math"
	"strings"
	"testing"
	"unicode/utf8"

	"fwconv/internal/fixedwidth"
	"fwconv/internal/layout"
	"fwconv/internal/testsupport"
)

const (
	sampleHeader = "f1   f2          f3 f4f5           f6     f7        f8           f9                  f10          \n"
	sampleLine   = "Ms   Michael     32 vr40.7128      -74.005-100      1.0001       abcdefg1234###q     Pradnya      \n"
)

func sampleRecord() fixedwidth.Record {
	return fixedwidth.Record{
		"f1": "Ms", "f2": "Michael", "f3": 32, "f4": "vr", "f5": json.Number("40.7128"),
		"f6": json.Number("-74.005"), "f7": -100, "f8": json.Number("1.0001"),
		"f9": "abcdefg1234###q", "f10": "Pradnya",
	}
}

func twoColumnLayout(t *testing.T, header string) *layout.Layout {
	t.Helper()
	return testsupport.NewLayout(t,
		testsupport.WithColumns(layout.Column{Name: "f1", Width: 5}, layout.Column{Name: "f2", Width: 12}),
		testsupport.WithHeader(header),
	)
}

func TestRenderLineWithHeader(t *testing.T) {
	codec := fixedwidth.NewCodec(testsupport.NewLayout(t))
	codec.Update(sampleRecord())

	line, err := codec.RenderLine()
	if err != nil {
		t.Fatalf("RenderLine returned error: %v", err)
	}
	if line != sampleHeader+sampleLine {
		t.Fatalf("unexpected line:\n got %q\nwant %q", line, sampleHeader+sampleLine)
	}
	if !codec.HeaderEmitted() {
		t.Fatal("expected header to be marked emitted")
	}

	line, err = codec.RenderLine()
	if err != nil {
		t.Fatalf("second RenderLine returned error: %v", err)
	}
	if line != sampleLine {
		t.Fatalf("header repeated on second render: %q", line)
	}
}

func TestRenderLineEmptyValues(t *testing.T) {
	codec := fixedwidth.NewCodec(testsupport.NewLayout(t, testsupport.WithHeader("False")))
	rec := sampleRecord()
	rec["f4"] = ""
	rec["f8"] = nil
	codec.Update(rec)

	line, err := codec.RenderLine()
	if err != nil {
		t.Fatalf("RenderLine returned error: %v", err)
	}
	want := "Ms   Michael     32   40.7128      -74.005-100                   abcdefg1234###q     Pradnya      \n"
	if line != want {
		t.Fatalf("unexpected line:\n got %q\nwant %q", line, want)
	}
}

func TestRenderLineTwoColumnScenario(t *testing.T) {
	codec := fixedwidth.NewCodec(twoColumnLayout(t, "True"))
	codec.Update(fixedwidth.Record{"f1": "Ms", "f2": "Michael"})

	line, err := codec.RenderLine()
	if err != nil {
		t.Fatalf("RenderLine: %v", err)
	}
	if want := "f1   f2          \nMs   Michael     \n"; line != want {
		t.Fatalf("got %q want %q", line, want)
	}
}

func TestUpdateMergesIntoPreviousRecord(t *testing.T) {
	codec := fixedwidth.NewCodec(twoColumnLayout(t, "False"))
	codec.Update(fixedwidth.Record{"f1": "Ms", "f2": "Michael"})
	if _, err := codec.RenderLine(); err != nil {
		t.Fatalf("first render: %v", err)
	}

	codec.Update(fixedwidth.Record{"f1": "Mr"})
	line, err := codec.RenderLine()
	if err != nil {
		t.Fatalf("second render: %v", err)
	}
	if want := "Mr   Michael     \n"; line != want {
		t.Fatalf("expected stale f2 to carry over: got %q want %q", line, want)
	}

	codec.Reset()
	codec.Update(fixedwidth.Record{"f1": "Mr"})
	if _, err := codec.RenderLine(); !errors.Is(err, fixedwidth.ErrValidation) {
		t.Fatalf("after Reset expected required error, got %v", err)
	}
}

func TestRenderLineRequiredField(t *testing.T) {
	codec := fixedwidth.NewCodec(twoColumnLayout(t, "True"))
	codec.Update(fixedwidth.Record{"f1": "Ms"})

	line, err := codec.RenderLine()
	var verr *fixedwidth.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if verr.Field != "f2" || verr.Reason != fixedwidth.ReasonRequired {
		t.Fatalf("unexpected validation error: %+v", verr)
	}
	if err.Error() != "f2 required" {
		t.Fatalf("unexpected message %q", err.Error())
	}
	if line != "" {
		t.Fatalf("expected no output on failure, got %q", line)
	}
	if codec.HeaderEmitted() {
		t.Fatal("failed render must not consume the header")
	}
}

func TestRenderLineTooLong(t *testing.T) {
	codec := fixedwidth.NewCodec(twoColumnLayout(t, "True"))
	codec.Update(fixedwidth.Record{"f1": "Doctor", "f2": "Michael"})

	line, err := codec.RenderLine()
	var verr *fixedwidth.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if verr.Field != "f1" || verr.Reason != fixedwidth.ReasonTooLong || verr.Width != 5 || verr.Length != 6 {
		t.Fatalf("unexpected validation error: %+v", verr)
	}
	if !strings.HasPrefix(err.Error(), "f1 too long") {
		t.Fatalf("unexpected message %q", err.Error())
	}
	if line != "" || codec.HeaderEmitted() {
		t.Fatalf("expected no output and no header consumption, got %q", line)
	}

	codec.Update(fixedwidth.Record{"f1": "Dr"})
	line, err = codec.RenderLine()
	if err != nil {
		t.Fatalf("retry after fix: %v", err)
	}
	if want := "f1   f2          \nDr   Michael     \n"; line != want {
		t.Fatalf("got %q want %q", line, want)
	}
}

func TestRenderLineExactWidthAndRuneCounting(t *testing.T) {
	codec := fixedwidth.NewCodec(twoColumnLayout(t, "False"))
	codec.Update(fixedwidth.Record{"f1": "Zoë01", "f2": "exactlytwelv"})

	line, err := codec.RenderLine()
	if err != nil {
		t.Fatalf("RenderLine: %v", err)
	}
	if want := "Zoë01exactlytwelv\n"; line != want {
		t.Fatalf("got %q want %q", line, want)
	}
	if n := utf8.RuneCountInString(strings.TrimSuffix(line, "\n")); n != 17 {
		t.Fatalf("line width = %d runes, want 17", n)
	}
}

func TestRenderLineWidthInvariant(t *testing.T) {
	l := testsupport.NewLayout(t)
	crlf, err := l.WithTerminator("\r\n")
	if err != nil {
		t.Fatalf("WithTerminator: %v", err)
	}
	codec := fixedwidth.NewCodec(crlf)

	records := []fixedwidth.Record{
		sampleRecord(),
		{"f1": "", "f2": nil, "f3": 0, "f4": "a", "f5": 1.5, "f6": int64(-1), "f7": uint8(7), "f8": true, "f9": []byte("raw"), "f10": float32(2.25)},
	}
	for i, rec := range records {
		codec.Reset()
		codec.Update(rec)
		out, err := codec.RenderLine()
		if err != nil {
			t.Fatalf("record %d: %v", i, err)
		}
		lines := strings.SplitAfter(out, "\r\n")
		for _, line := range lines {
			if line == "" {
				continue
			}
			if got, want := utf8.RuneCountInString(line), l.LineWidth()+2; got != want {
				t.Fatalf("record %d: line %q has width %d, want %d", i, line, got, want)
			}
		}
	}
}

func TestFormatField(t *testing.T) {
	codec := fixedwidth.NewCodec(twoColumnLayout(t, "False"))
	codec.Update(fixedwidth.Record{"f1": nil, "f2": 42, "flag": false, "ratio": 0.25, "dec": json.Number("1.0001")})

	tests := map[string]string{"f1": "", "f2": "42", "flag": "False", "ratio": "0.25", "dec": "1.0001"}
	for name, want := range tests {
		got, err := codec.FormatField(name)
		if err != nil {
			t.Fatalf("FormatField(%q): %v", name, err)
		}
		if got != want {
			t.Fatalf("FormatField(%q) = %q, want %q", name, got, want)
		}
	}

	_, err := codec.FormatField("missing")
	var ferr *fixedwidth.FieldError
	if !errors.As(err, &ferr) || ferr.Field != "missing" || !errors.Is(err, fixedwidth.ErrField) {
		t.Fatalf("expected FieldError for missing field, got %v", err)
	}
}

func TestFormatFieldFloats(t *testing.T) {
	tests := []struct {
		value any
		want  string
	}{
		{1.0, "1.0"},
		{-2.5, "-2.5"},
		{math.Copysign(0, -1), "-0.0"},
		{0.0001, "0.0001"},
		{0.00001, "1e-05"},
		{1e15, "1000000000000000.0"},
		{1e16, "1e+16"},
		{1e21, "1e+21"},
		{1.5e300, "1.5e+300"},
		{float32(0.1), "0.1"},
		{float32(2.25), "2.25"},
		{math.NaN(), "nan"},
		{math.Inf(-1), "-inf"},
	}
	codec := fixedwidth.NewCodec(twoColumnLayout(t, "False"))
	for _, tt := range tests {
		codec.Update(fixedwidth.Record{"f1": tt.value})
		got, err := codec.FormatField("f1")
		if err != nil {
			t.Fatalf("FormatField(%v): %v", tt.value, err)
		}
		if got != tt.want {
			t.Fatalf("FormatField(%v) = %q, want %q", tt.value, got, tt.want)
		}
	}
}

func TestValidate(t *testing.T) {
	codec := fixedwidth.NewCodec(twoColumnLayout(t, "False"))
	if err := codec.Validate(); !errors.Is(err, fixedwidth.ErrValidation) {
		t.Fatalf("empty buffer: expected validation error, got %v", err)
	}
	codec.Update(fixedwidth.Record{"f1": "Ms", "f2": nil})
	if err := codec.Validate(); err != nil {
		t.Fatalf("present-but-nil should validate: %v", err)
	}
}

func TestBufferIsCopied(t *testing.T) {
	codec := fixedwidth.NewCodec(twoColumnLayout(t, "False"))
	codec.Update(fixedwidth.Record{"f1": "Ms"})
	buf := codec.Buffer()
	buf["f1"] = "changed"
	if got, _ := codec.FormatField("f1"); got != "Ms" {
		t.Fatalf("Buffer leaked internal state: %q", got)
	}
}
