package fixedwidth

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"strings"

	"fwconv/internal/layout"
	"fwconv/internal/logging"
	"fwconv/internal/textenc"
)

// maxLineBytes bounds a single source line.
const maxLineBytes = 1 << 20

// RowSink receives parsed rows.
type RowSink interface {
	WriteRow(fields []string) error
	Close() error
}

// ParseStats summarizes a parse run.
type ParseStats struct {
	Lines int `json:"lines"`
}

// Parser slices fixed-width lines into fields.
type Parser struct {
	layout  *layout.Layout
	columns []layout.Column
	logger  *slog.Logger
}

// NewParser returns a parser for l. A nil logger discards log output.
func NewParser(l *layout.Layout, logger *slog.Logger) *Parser {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Parser{layout: l, columns: l.Columns(), logger: logger}
}

// SplitLine slices one line into whitespace-trimmed fields. Offsets advance by
// each column width in runes; columns past the end of the line are empty.
func (p *Parser) SplitLine(line string) []string {
	line = strings.TrimRight(line, "\r\n")
	runes := []rune(line)
	fields := make([]string, len(p.columns))
	offset := 0
	for i, col := range p.columns {
		start := min(offset, len(runes))
		end := min(offset+col.Width, len(runes))
		fields[i] = strings.TrimSpace(string(runes[start:end]))
		offset += col.Width
	}
	return fields
}

// ParseTo reads fixed-width lines from src, decoded from the layout's
// fixed-width encoding, and hands each sliced row to sink. It does not close
// sink.
func (p *Parser) ParseTo(ctx context.Context, src io.Reader, sink RowSink) (ParseStats, error) {
	var stats ParseStats
	reader, err := textenc.NewReader(src, p.layout.Settings().FixedWidthEncoding)
	if err != nil {
		return stats, err
	}

	scanner := bufio.NewScanner(reader)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	scanner.Split(splitLines(p.layout.Settings().LineTerminator))
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return stats, err
		}
		if err := sink.WriteRow(p.SplitLine(scanner.Text())); err != nil {
			return stats, err
		}
		stats.Lines++
	}
	if err := scanner.Err(); err != nil {
		return stats, &IOError{Op: "read", Err: err}
	}
	return stats, nil
}

// Parse converts fixed-width src into comma-joined rows on dst, encoded with
// the layout's delimited encoding. dst is flushed but not closed.
func (p *Parser) Parse(ctx context.Context, src io.Reader, dst io.Writer) (ParseStats, error) {
	sink, err := NewDelimitedSink(dst, p.layout.Settings().DelimitedEncoding)
	if err != nil {
		return ParseStats{}, err
	}
	stats, err := p.ParseTo(ctx, src, sink)
	if closeErr := sink.Close(); err == nil {
		err = closeErr
	}
	return stats, err
}

// ParseFile converts the fixed-width file at source into a delimited file at
// target. Both files are closed on every return path.
func (p *Parser) ParseFile(ctx context.Context, source, target string) (stats ParseStats, err error) {
	in, err := os.Open(source)
	if err != nil {
		return stats, &IOError{Op: "open source", Path: source, Err: err}
	}
	defer in.Close()

	out, err := os.Create(target)
	if err != nil {
		return stats, &IOError{Op: "open target", Path: target, Err: err}
	}
	defer func() {
		if closeErr := out.Close(); closeErr != nil && err == nil {
			err = &IOError{Op: "close", Path: target, Err: closeErr}
		}
	}()

	p.logger.Debug("parsing fixed-width file",
		logging.String("source", source),
		logging.String("target", target),
	)
	stats, err = p.Parse(ctx, in, out)
	if err != nil {
		var ioErr *IOError
		if errors.As(err, &ioErr) && ioErr.Path == "" {
			ioErr.Path = pathForOp(ioErr.Op, source, target)
		}
		return stats, err
	}
	p.logger.Info("parsed fixed-width file",
		logging.String("source", source),
		logging.String("target", target),
		logging.Lines(stats.Lines),
	)
	return stats, nil
}

func pathForOp(op, source, target string) string {
	if op == "read" {
		return source
	}
	return target
}

// splitLines returns a bufio.SplitFunc that ends a line at "\n", "\r\n",
// "\r" or term, whichever comes first. The terminator is not part of the
// token.
func splitLines(term string) bufio.SplitFunc {
	var custom []byte
	switch term {
	case "", "\n", "\r", "\r\n":
	default:
		custom = []byte(term)
	}
	return func(data []byte, atEOF bool) (int, []byte, error) {
		if atEOF && len(data) == 0 {
			return 0, nil, nil
		}
		for i := 0; i < len(data); i++ {
			if custom != nil {
				rest := data[i:]
				if bytes.HasPrefix(rest, custom) {
					return i + len(custom), data[:i], nil
				}
				if !atEOF && bytes.HasPrefix(custom, rest) {
					return 0, nil, nil
				}
			}
			switch data[i] {
			case '\n':
				return i + 1, data[:i], nil
			case '\r':
				if i+1 < len(data) {
					if data[i+1] == '\n' {
						return i + 2, data[:i], nil
					}
					return i + 1, data[:i], nil
				}
				if !atEOF {
					return 0, nil, nil
				}
				return i + 1, data[:i], nil
			}
		}
		if atEOF {
			return len(data), data, nil
		}
		return 0, nil, nil
	}
}
