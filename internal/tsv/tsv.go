// Package tsv reads and writes tab-separated record files.
//
// A record file has a header row naming the columns followed by one row per
// record. Values are written so that Read returns what was written:
//
//   - numbers use the shortest float form and read back as float64
//   - booleans are written true/false and read back as bool
//   - lists and mappings are JSON encoded
//   - nil and missing values are written blank, and blank cells are
//     left out of the record when read
//   - strings are written as is, unless they could be mistaken for one of
//     the forms above, in which case they are written as a JSON string
//
// Files written by other tools, such as MRIQC group reports, read the same
// way: numeric cells become float64 and everything else a string.
package tsv

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/hickst/qmtools/internal/model"
)

// Table is a parsed record file.
type Table struct {
	// Header lists the column names in file order.
	Header []string

	// Rows holds one record per data row. Blank cells are absent.
	Rows []model.Record
}

// Column returns the values of column name in row order.
// Rows without the column yield nil.
func (t *Table) Column(name string) []any {
	out := make([]any, len(t.Rows))
	for i, row := range t.Rows {
		out[i] = row[name]
	}
	return out
}

// HasColumn reports whether the header contains name.
func (t *Table) HasColumn(name string) bool {
	for _, h := range t.Header {
		if h == name {
			return true
		}
	}
	return false
}

// Write writes a header of fields followed by one row per record.
// Record keys not in fields are dropped.
func Write(w io.Writer, fields []string, records []model.Record) error {
	cw := csv.NewWriter(w)
	cw.Comma = '\t'

	if err := cw.Write(fields); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	row := make([]string, len(fields))
	for i, rec := range records {
		for j, f := range fields {
			cell, err := FormatValue(rec[f])
			if err != nil {
				return fmt.Errorf("record %d field %s: %w", i, f, err)
			}
			row[j] = cell
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write record %d: %w", i, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("failed to flush records: %w", err)
	}
	return nil
}

// WriteFile writes records to path, creating parent directories.
func WriteFile(path string, fields []string, records []model.Record) (err error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", path, err)
	}
	f, err := os.Create(path) //nolint:gosec // path is chosen by the user
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close %s: %w", path, cerr)
		}
	}()
	return Write(f, fields, records)
}

// Read parses a record file.
func Read(r io.Reader) (*Table, error) {
	cr := csv.NewReader(r)
	cr.Comma = '\t'
	cr.LazyQuotes = true
	cr.ReuseRecord = true

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: missing header row", model.ErrMalformedInput)
		}
		return nil, fmt.Errorf("%w: failed to read header: %w", model.ErrMalformedInput, err)
	}
	t := &Table{Header: append([]string(nil), header...)}

	for line := 2; ; line++ {
		cells, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %w", model.ErrMalformedInput, line, err)
		}
		rec := make(model.Record, len(cells))
		for i, cell := range cells {
			if cell == "" {
				continue
			}
			rec[t.Header[i]] = ParseValue(cell)
		}
		t.Rows = append(t.Rows, rec)
	}
	return t, nil
}

// ReadFile parses the record file at path.
// A missing file is reported as model.ErrNotFound.
func ReadFile(path string) (*Table, error) {
	f, err := os.Open(path) //nolint:gosec // path is chosen by the user
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: input file %s", model.ErrNotFound, path)
		}
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	t, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}

// FormatValue renders one cell.
func FormatValue(v any) (string, error) {
	switch val := v.(type) {
	case nil:
		return "", nil
	case string:
		if needsQuoting(val) {
			b, err := json.Marshal(val)
			if err != nil {
				return "", fmt.Errorf("failed to encode string: %w", err)
			}
			return string(b), nil
		}
		return val, nil
	case bool:
		return strconv.FormatBool(val), nil
	case float64:
		return strconv.FormatFloat(val, 'g', -1, 64), nil
	case float32:
		return strconv.FormatFloat(float64(val), 'g', -1, 32), nil
	case int:
		return strconv.Itoa(val), nil
	case int64:
		return strconv.FormatInt(val, 10), nil
	case json.Number:
		return val.String(), nil
	default:
		b, err := json.Marshal(val)
		if err != nil {
			return "", fmt.Errorf("failed to encode value: %w", err)
		}
		return string(b), nil
	}
}

// ParseValue converts one non-blank cell back into a value.
func ParseValue(cell string) any {
	switch cell[0] {
	case '[', '{', '"':
		var v any
		if err := json.Unmarshal([]byte(cell), &v); err == nil {
			return v
		}
		return cell
	}
	if b, ok := parseBool(cell); ok {
		return b
	}
	if f, err := strconv.ParseFloat(cell, 64); err == nil {
		return f
	}
	return cell
}

func parseBool(s string) (bool, bool) {
	switch s {
	case "true", "True", "TRUE":
		return true, true
	case "false", "False", "FALSE":
		return false, true
	}
	return false, false
}

// needsQuoting reports whether s would not read back as the same string.
func needsQuoting(s string) bool {
	if s == "" {
		return true
	}
	back, ok := ParseValue(s).(string)
	return !ok || back != s
}

// OutputFilename returns the default file name for records of modality
// fetched at t, for example bold_20240131_142501-000123.tsv.
func OutputFilename(modality model.Modality, t time.Time) string {
	return fmt.Sprintf("%s_%s-%06d.tsv", modality, t.Format("20060102_150405"), t.Nanosecond()/1000)
}
