// Package recording reads recording metadata encoded in result file names.
package recording

import (
	"fmt"
	"path"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/tphakala/birdnet-sql/internal/errors"
)

// Layouts used for the stored date and detection time columns.
const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04:05"
)

var (
	// ErrNoTimestamp means the filename carries no recognised timestamp token.
	ErrNoTimestamp = errors.NewStd("no timestamp found in filename")

	// ErrLocationIndex means the configured location index is outside the path.
	ErrLocationIndex = errors.NewStd("location index out of range")
)

// timestampPattern pairs a filename token with its time layout.
type timestampPattern struct {
	name   string
	re     *regexp.Regexp
	layout string
}

// timestampPatterns are tried in order, most constrained first. Tokens may sit
// anywhere in the name. Only the bare date needs a non-digit (or the string start)
// before it, so it never matches the tail of a longer digit run.
var timestampPatterns = []timestampPattern{
	{"YYYY-MM-DD_HHMMSS", regexp.MustCompile(`(?i)(\d{4}-\d{2}-\d{2}_\d{6})\.csv`), "2006-01-02_150405"},
	{"YYYYMMDD_HHMMSS", regexp.MustCompile(`(?i)(\d{8}_\d{6})\.csv`), "20060102_150405"},
	{"YYYYMMDD-HHMMSS", regexp.MustCompile(`(?i)(\d{8}-\d{6})\.csv`), "20060102-150405"},
	{"YYYYMMDDHHMMSS", regexp.MustCompile(`(?i)(\d{14})\.csv`), "20060102150405"},
	{"YYYYMMDD", regexp.MustCompile(`(?i)(?:^|\D)(\d{8})\.csv`), "20060102"},
}

// Options control how a filename is split into metadata.
type Options struct {
	LocationIndex int  // path segment holding the location, negative counts from the end
	IncludePrefix bool // set Metadata.Prefix from the base name
}

// Metadata is everything derived from a single result filename.
type Metadata struct {
	Filename  string    // filename as given
	Timestamp time.Time // recording start, wall clock time
	Date      string    // Timestamp formatted with DateLayout
	Location  string    // path segment selected by Options.LocationIndex
	FileID    string    // base name without extension
	Prefix    string    // base name up to the first "_", empty unless requested
	Pattern   string    // name of the timestamp pattern that matched
}

// ParseTimestamp extracts the recording start time from filename. The returned
// pattern name identifies which token format matched.
func ParseTimestamp(filename string) (ts time.Time, pattern string, err error) {
	for _, p := range timestampPatterns {
		m := p.re.FindStringSubmatch(filename)
		if m == nil {
			continue
		}
		parsed, perr := time.Parse(p.layout, m[1])
		if perr != nil {
			return time.Time{}, "", noTimestamp(filename, fmt.Sprintf("token %q is not a valid %s timestamp", m[1], p.name))
		}
		return parsed, p.name, nil
	}
	return time.Time{}, "", noTimestamp(filename, "")
}

func noTimestamp(filename, detail string) error {
	err := ErrNoTimestamp
	if detail != "" {
		err = fmt.Errorf("%w: %s", ErrNoTimestamp, detail)
	}
	return errors.New(err).
		Component("recording").
		Category(errors.CategoryInputSkipped).
		FileContext(filename).
		Build()
}

// Location returns the path segment of filename at index. Negative indexes count
// from the last segment, so -1 is the base name and -2 its directory.
func Location(filename string, index int) (string, error) {
	segments := strings.Split(filepath.ToSlash(filename), "/")

	i := index
	if i < 0 {
		i += len(segments)
	}
	if i < 0 || i >= len(segments) {
		return "", errors.New(fmt.Errorf("%w: index %d, path has %d segments", ErrLocationIndex, index, len(segments))).
			Component("recording").
			Category(errors.CategoryConfiguration).
			FileContext(filename).
			Context("location_index", index).
			Build()
	}
	return segments[i], nil
}

// FileID returns the base name of filename without its extension.
func FileID(filename string) string {
	base := path.Base(filepath.ToSlash(filename))
	return strings.TrimSuffix(base, path.Ext(base))
}

// Prefix returns the part of the base name before the first underscore, or the
// whole base name when it has none.
func Prefix(filename string) string {
	id := FileID(filename)
	before, _, _ := strings.Cut(id, "_")
	return before
}

// Resolve derives all metadata for filename. A missing timestamp is reported as an
// input-skipped error; a bad location index as a configuration error.
func Resolve(filename string, opts Options) (*Metadata, error) {
	ts, pattern, err := ParseTimestamp(filename)
	if err != nil {
		return nil, err
	}

	location, err := Location(filename, opts.LocationIndex)
	if err != nil {
		return nil, err
	}

	md := &Metadata{
		Filename:  filename,
		Timestamp: ts,
		Date:      ts.Format(DateLayout),
		Location:  location,
		FileID:    FileID(filename),
		Pattern:   pattern,
	}
	if opts.IncludePrefix {
		md.Prefix = Prefix(filename)
	}
	return md, nil
}

// DetectionTime returns the wall clock time at offset seconds into the recording.
// Fractional seconds are truncated.
func (m *Metadata) DetectionTime(offset float64) string {
	return DetectionTime(m.Timestamp, offset)
}

// DetectionTime formats ts plus offset seconds as a time of day.
func DetectionTime(ts time.Time, offset float64) string {
	d := time.Duration(offset * float64(time.Second)).Truncate(time.Second)
	return ts.Add(d).Format(TimeLayout)
}
