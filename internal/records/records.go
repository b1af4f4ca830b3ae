// Package records decodes newline-delimited JSON objects into fixed-width
// records. Number literals are kept verbatim as json.Number so decimal values
// render exactly as they were written.
package records

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/buger/jsonparser"

	"fwconv/internal/fixedwidth"
)

const maxRecordBytes = 4 << 20

// Decode parses a single JSON object into a record.
func Decode(data []byte) (fixedwidth.Record, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || data[0] != '{' {
		return nil, errors.New("record must be a JSON object")
	}

	rec := fixedwidth.Record{}
	err := jsonparser.ObjectEach(data, func(key, value []byte, dataType jsonparser.ValueType, _ int) error {
		name := string(key)
		v, err := parseValue(dataType, value)
		if err != nil {
			return fmt.Errorf("key %q: %w", name, err)
		}
		rec[name] = v
		return nil
	})
	if err != nil {
		return nil, err
	}
	return rec, nil
}

func parseValue(dataType jsonparser.ValueType, data []byte) (any, error) {
	switch dataType {
	case jsonparser.Null:
		return nil, nil
	case jsonparser.Boolean:
		return jsonparser.ParseBoolean(data)
	case jsonparser.Number:
		return json.Number(string(data)), nil
	case jsonparser.String:
		return jsonparser.ParseString(data)
	case jsonparser.Array, jsonparser.Object:
		return nil, fmt.Errorf("nested %s values are not supported", dataType)
	default:
		return nil, fmt.Errorf("unsupported value %q", data)
	}
}

// Each decodes every non-blank line of r and calls fn with its 1-based line
// number. Iteration stops at the first error.
func Each(r io.Reader, fn func(line int, rec fixedwidth.Record) error) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxRecordBytes)
	line := 0
	for scanner.Scan() {
		line++
		raw := bytes.TrimSpace(scanner.Bytes())
		if len(raw) == 0 {
			continue
		}
		rec, err := Decode(raw)
		if err != nil {
			return fmt.Errorf("line %d: %w", line, err)
		}
		if err := fn(line, rec); err != nil {
			return err
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read records: %w", err)
	}
	return nil
}
