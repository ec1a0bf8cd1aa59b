package detection

import (
	"math"
	"time"

	"github.com/tphakala/birdnet-sql/internal/errors"
)

// maxOffset is the largest offset, in seconds, that still fits a time.Duration.
var maxOffset = time.Duration(math.MaxInt64).Seconds()

// Validate checks the input invariants Aggregate relies on. The first violation
// is returned as a validation error naming the zero-based row index.
func Validate(rows []RawDetection) error {
	seen := make(map[string]bool)

	for i, row := range rows {
		if err := validateRow(row); err != nil {
			return invalidRow(i, row, err.Error())
		}

		if i == 0 || rows[i-1].FileID != row.FileID {
			if seen[row.FileID] {
				return invalidRow(i, row, "rows for the file are not contiguous")
			}
			seen[row.FileID] = true
			continue
		}

		if row.Start < rows[i-1].Start {
			return invalidRow(i, row, "start offset decreases within the file")
		}
	}

	return nil
}

func validateRow(row RawDetection) error {
	switch {
	case math.IsNaN(row.Start) || math.IsNaN(row.End):
		return errors.NewStd("offset is not a number")
	case math.IsInf(row.Start, 0) || math.IsInf(row.End, 0) || row.End >= maxOffset:
		return errors.NewStd("offset is out of range")
	case row.Start < 0:
		return errors.NewStd("start offset is negative")
	case row.End <= row.Start:
		return errors.NewStd("end offset is not after start offset")
	case math.IsNaN(row.Confidence) || row.Confidence < 0 || row.Confidence > 1:
		return errors.NewStd("confidence is outside [0,1]")
	case math.IsNaN(row.Metric) || math.IsInf(row.Metric, 0) || row.Metric < 0:
		return errors.NewStd("metric is negative or not finite")
	}
	return nil
}

func invalidRow(index int, row RawDetection, reason string) error {
	return errors.Newf("invalid detection row %d: %s", index, reason).
		Component("detection").
		Category(errors.CategoryValidation).
		Context("row", index).
		Context("file_id", row.FileID).
		Context("start", row.Start).
		Context("end", row.End).
		Build()
}
