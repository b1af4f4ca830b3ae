// Package sheet writes parsed fixed-width rows into an .xlsx workbook.
package sheet

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"fwconv/internal/fixedwidth"
)

// DefaultSheetName is used when no sheet name is supplied.
const DefaultSheetName = "Sheet1"

// WorkbookSink is a fixedwidth.RowSink that streams rows into the first sheet
// of a new workbook. The file is written when the sink is closed.
type WorkbookSink struct {
	path   string
	file   *excelize.File
	stream *excelize.StreamWriter
	row    int
	closed bool
}

// NewWorkbookSink prepares a workbook that will be saved to path.
func NewWorkbookSink(path, sheetName string) (*WorkbookSink, error) {
	sheetName = strings.TrimSpace(sheetName)
	if sheetName == "" {
		sheetName = DefaultSheetName
	}

	f := excelize.NewFile()
	if sheetName != DefaultSheetName {
		if err := f.SetSheetName(DefaultSheetName, sheetName); err != nil {
			_ = f.Close()
			return nil, fmt.Errorf("name sheet %q: %w", sheetName, err)
		}
	}
	stream, err := f.NewStreamWriter(sheetName)
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("open sheet stream: %w", err)
	}
	return &WorkbookSink{path: path, file: f, stream: stream}, nil
}

// WriteRow appends fields as the next spreadsheet row. Every cell is stored as
// text so values such as "0042" keep their leading zeros.
func (s *WorkbookSink) WriteRow(fields []string) error {
	if s.closed {
		return &fixedwidth.IOError{Op: "write", Path: s.path, Err: fixedwidth.ErrClosed}
	}
	s.row++
	cell, err := excelize.CoordinatesToCellName(1, s.row)
	if err != nil {
		return &fixedwidth.IOError{Op: "write", Path: s.path, Err: err}
	}
	values := make([]any, len(fields))
	for i, field := range fields {
		values[i] = field
	}
	if err := s.stream.SetRow(cell, values); err != nil {
		return &fixedwidth.IOError{Op: "write", Path: s.path, Err: err}
	}
	return nil
}

// Rows reports how many rows have been written.
func (s *WorkbookSink) Rows() int {
	return s.row
}

// Close flushes the sheet and saves the workbook.
func (s *WorkbookSink) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	defer s.file.Close()

	if err := s.stream.Flush(); err != nil {
		return &fixedwidth.IOError{Op: "write", Path: s.path, Err: err}
	}
	if err := s.file.SaveAs(s.path); err != nil {
		return &fixedwidth.IOError{Op: "open target", Path: s.path, Err: err}
	}
	return nil
}
