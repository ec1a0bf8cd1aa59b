// Package results reads detector result tables into raw detection rows.
package results

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/afero"

	"github.com/tphakala/birdnet-sql/internal/detection"
	"github.com/tphakala/birdnet-sql/internal/errors"
)

// Columns names the CSV header fields holding each detection value.
type Columns struct {
	Start      string
	End        string
	Confidence string
	Metric     string
	Label      string // optional
}

// DefaultColumns returns the header names written by the BirdNET result exporter.
func DefaultColumns() Columns {
	return Columns{
		Start:      "start_detection",
		End:        "end_detection",
		Confidence: "confidence",
		Metric:     "hr",
		Label:      "label",
	}
}

// Reader loads result files from a filesystem.
type Reader struct {
	fs      afero.Fs
	columns Columns
}

// NewReader returns a Reader for fs using the given header names.
func NewReader(fs afero.Fs, columns Columns) *Reader {
	return &Reader{fs: fs, columns: columns}
}

// columnIndex maps each wanted field to its position in the header.
type columnIndex struct {
	start, end, confidence, metric int
	label                          int // -1 when absent
	extra                          []extraColumn
}

// extraColumn is a named header field not mapped to a detection value.
type extraColumn struct {
	name string
	pos  int
}

// ReadFile reads all rows of the result file at path, stamping each with fileID.
// A file without data rows yields an empty slice and no error.
func (r *Reader) ReadFile(path, fileID string) ([]detection.RawDetection, error) {
	f, err := r.fs.Open(path)
	if err != nil {
		return nil, errors.New(fmt.Errorf("opening results file: %w", err)).
			Component("results").
			Category(errors.CategoryFileIO).
			FileContext(path).
			Build()
	}
	defer f.Close()

	rows, err := r.Read(f, fileID)
	if err != nil {
		return nil, errors.New(err).
			Component("results").
			FileContext(path).
			Build()
	}
	return rows, nil
}

// Read parses CSV data from src.
func (r *Reader) Read(src io.Reader, fileID string) ([]detection.RawDetection, error) {
	cr := csv.NewReader(src)
	cr.ReuseRecord = true
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return []detection.RawDetection{}, nil
	}
	if err != nil {
		return nil, parseError(fmt.Errorf("reading header: %w", err), 1)
	}

	idx, err := r.index(header)
	if err != nil {
		return nil, err
	}

	rows := make([]detection.RawDetection, 0)
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			var perr *csv.ParseError
			if errors.As(err, &perr) {
				return nil, parseError(perr.Err, perr.Line)
			}
			return nil, parseError(err, 0)
		}
		line, _ := cr.FieldPos(0)

		row, err := idx.parse(record, fileID)
		if err != nil {
			return nil, parseError(err, line)
		}
		rows = append(rows, row)
	}

	return rows, nil
}

func (r *Reader) index(header []string) (columnIndex, error) {
	names := make([]string, len(header))
	positions := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.TrimSpace(name)
		if i == 0 {
			name = strings.TrimPrefix(name, "\ufeff")
		}
		names[i] = name
		positions[name] = i
	}

	idx := columnIndex{label: -1}
	var missing []string
	for _, c := range []struct {
		name string
		dst  *int
	}{
		{r.columns.Start, &idx.start},
		{r.columns.End, &idx.end},
		{r.columns.Confidence, &idx.confidence},
		{r.columns.Metric, &idx.metric},
	} {
		pos, ok := positions[c.name]
		if !ok {
			missing = append(missing, c.name)
			continue
		}
		*c.dst = pos
	}
	if len(missing) > 0 {
		return idx, errors.Newf("missing required columns: %s", strings.Join(missing, ", ")).
			Component("results").
			Category(errors.CategoryFileParsing).
			Context("columns", strings.Join(header, ",")).
			Build()
	}

	if pos, ok := positions[r.columns.Label]; ok && r.columns.Label != "" {
		idx.label = pos
	}

	// Unnamed columns such as an exported row index are skipped; a repeated name keeps its last column.
	for i, name := range names {
		if name == "" || positions[name] != i || idx.mapped(i) {
			continue
		}
		idx.extra = append(idx.extra, extraColumn{name: name, pos: i})
	}
	return idx, nil
}

func (idx columnIndex) mapped(pos int) bool {
	return pos == idx.start || pos == idx.end || pos == idx.confidence ||
		pos == idx.metric || pos == idx.label
}

func (idx columnIndex) parse(record []string, fileID string) (detection.RawDetection, error) {
	row := detection.RawDetection{FileID: fileID}

	var err error
	if row.Start, err = parseNumber(record, idx.start); err != nil {
		return row, err
	}
	if row.End, err = parseNumber(record, idx.end); err != nil {
		return row, err
	}
	if row.Confidence, err = parseNumber(record, idx.confidence); err != nil {
		return row, err
	}
	if row.Metric, err = parseNumber(record, idx.metric); err != nil {
		return row, err
	}
	if idx.label >= 0 && idx.label < len(record) {
		row.Label = strings.TrimSpace(record[idx.label])
	}
	if len(idx.extra) > 0 {
		row.Extra = make(map[string]string, len(idx.extra))
		for _, c := range idx.extra {
			if c.pos < len(record) {
				row.Extra[c.name] = strings.TrimSpace(record[c.pos])
			}
		}
	}
	return row, nil
}

func parseNumber(record []string, i int) (float64, error) {
	if i >= len(record) {
		return 0, fmt.Errorf("record has %d fields, want at least %d", len(record), i+1)
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(record[i]), 64)
	if err != nil {
		return 0, fmt.Errorf("field %d: %w", i+1, err)
	}
	return v, nil
}

func parseError(err error, line int) error {
	return errors.New(fmt.Errorf("line %d: %w", line, err)).
		Component("results").
		Category(errors.CategoryFileParsing).
		Context("line", line).
		Build()
}
