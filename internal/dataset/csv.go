package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// CSVOptions controls how LoadCSV reads a file.
type CSVOptions struct {
	// Comma is the field separator. Default: ','.
	Comma rune

	// Header marks the first record as column names.
	Header bool

	// LabelColumn selects the class column by header name or 0-based
	// index. Empty means the file has no labels. Class values are mapped to
	// labels in order of first appearance.
	LabelColumn string

	// Name overrides the data set name. Default: the file name without
	// extension.
	Name string
}

// LoadCSV reads a numeric table from path. Every column other than the
// label column must parse as a float.
func LoadCSV(path string, opts CSVOptions) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("dataset: open csv: %w", err)
	}
	defer f.Close()

	if opts.Name == "" {
		opts.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return ReadCSV(f, opts)
}

// ReadCSV parses a numeric table from r. See LoadCSV.
func ReadCSV(r io.Reader, opts CSVOptions) (*Dataset, error) {
	cr := csv.NewReader(r)
	if opts.Comma != 0 {
		cr.Comma = opts.Comma
	}
	cr.TrimLeadingSpace = true
	cr.Comment = '#'

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("dataset: read csv: %w", err)
	}

	var header []string
	if opts.Header {
		if len(records) == 0 {
			return nil, fmt.Errorf("%w: %q has no header", ErrEmpty, opts.Name)
		}
		header, records = records[0], records[1:]
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: %q has no rows", ErrEmpty, opts.Name)
	}

	width := len(records[0])
	labelCol, err := resolveColumn(opts.LabelColumn, header, width)
	if err != nil {
		return nil, fmt.Errorf("dataset %q: %w", opts.Name, err)
	}

	ds := &Dataset{Name: opts.Name}
	if header != nil {
		for j, name := range header {
			if j != labelCol {
				ds.Columns = append(ds.Columns, name)
			}
		}
	}

	classIDs := make(map[string]int)
	for i, rec := range records {
		line := i + 1
		if opts.Header {
			line++
		}
		row := make([]float64, 0, width)
		for j, field := range rec {
			if j == labelCol {
				id, ok := classIDs[field]
				if !ok {
					id = len(ds.Classes)
					classIDs[field] = id
					ds.Classes = append(ds.Classes, field)
				}
				ds.Labels = append(ds.Labels, id)
				continue
			}
			x, err := strconv.ParseFloat(field, 64)
			if err != nil {
				var numErr *strconv.NumError
				if errors.As(err, &numErr) {
					err = numErr.Err
				}
				return nil, fmt.Errorf("dataset %q: line %d column %d: %q: %w", opts.Name, line, j, field, err)
			}
			row = append(row, x)
		}
		ds.Features = append(ds.Features, row)
	}

	if err := ds.Validate(); err != nil {
		return nil, err
	}
	return ds, nil
}

// resolveColumn maps a column name or index to an index, or -1 for "".
func resolveColumn(col string, header []string, width int) (int, error) {
	if col == "" {
		return -1, nil
	}
	for j, name := range header {
		if name == col {
			return j, nil
		}
	}
	idx, err := strconv.Atoi(col)
	if err != nil {
		return 0, fmt.Errorf("label column %q not found", col)
	}
	if idx < 0 || idx >= width {
		return 0, fmt.Errorf("label column %d out of range [0,%d)", idx, width)
	}
	return idx, nil
}
