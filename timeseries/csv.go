package timeseries

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// CSVOptions holds options for loading a batch from a wide CSV file, where
// every column (apart from an optional date column) is one series.
type CSVOptions struct {
	DateColumn string // Column name holding timestamps; skipped when set
	HasHeader  bool   // Whether the CSV has a header row (default: true)
	Delimiter  rune   // Field delimiter (default: ',')
	SkipRows   int    // Number of rows to skip at the start
}

// DefaultCSVOptions returns default options for CSV loading.
func DefaultCSVOptions() *CSVOptions {
	return &CSVOptions{
		HasHeader: true,
		Delimiter: ',',
	}
}

// LoadCSV loads a batch of series from a wide CSV file.
func LoadCSV(filename string, opts *CSVOptions) (*Batch, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return LoadCSVFromReader(file, opts)
}

// LoadCSVFromReader loads a batch of series from an io.Reader.
func LoadCSVFromReader(r io.Reader, opts *CSVOptions) (*Batch, error) {
	if opts == nil {
		opts = DefaultCSVOptions()
	}

	reader := csv.NewReader(r)
	reader.Comma = opts.Delimiter
	if reader.Comma == 0 {
		reader.Comma = ','
	}
	reader.TrimLeadingSpace = true

	for i := 0; i < opts.SkipRows; i++ {
		if _, err := reader.Read(); err != nil {
			return nil, err
		}
	}

	dateIdx := -1
	var names []string
	if opts.HasHeader {
		header, err := reader.Read()
		if err != nil {
			return nil, err
		}
		for i, h := range header {
			h = strings.TrimSpace(strings.Trim(h, "\""))
			if dateIdx == -1 && (h == opts.DateColumn || (opts.DateColumn == "" && (h == "ds" || h == "date" || h == "Date"))) {
				dateIdx = i
				continue
			}
			names = append(names, h)
		}
	}

	var cols [][]float64
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		if cols == nil {
			width := len(record)
			if dateIdx >= 0 {
				width--
			}
			cols = make([][]float64, width)
		}

		j := 0
		for i, field := range record {
			if i == dateIdx {
				continue
			}
			if j >= len(cols) {
				return nil, errors.New("timeseries: ragged CSV row")
			}
			field = strings.TrimSpace(strings.Trim(field, "\""))
			val, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, fmt.Errorf("timeseries: parsing %q: %w", field, err)
			}
			cols[j] = append(cols[j], val)
			j++
		}
	}

	batch, err := FromColumns(cols)
	if err != nil {
		return nil, err
	}
	if len(names) == len(cols) {
		return batch.WithNames(names)
	}
	return batch, nil
}
