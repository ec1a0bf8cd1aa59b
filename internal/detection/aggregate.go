package detection

import (
	"gonum.org/v1/gonum/stat"
)

// Annotated is a raw row together with the state carried by the aggregation fold.
type Annotated struct {
	RawDetection
	Continuation   bool    // row extends the previous row's run
	Keep           bool    // row closes its run and emits an Event
	EffectiveStart float64 // start of the run's first row
	RunID          int     // zero-based run index within the input
}

// Annotate walks rows once and marks run membership. The returned slice has
// one entry per input row in input order.
func Annotate(rows []RawDetection, policy Policy) []Annotated {
	out := make([]Annotated, len(rows))

	runID := -1
	var effectiveStart float64
	for i, row := range rows {
		continuation := i > 0 && policy.Continues(rows[i-1], row)
		if !continuation {
			runID++
			effectiveStart = row.Start
		}
		out[i] = Annotated{
			RawDetection:   row,
			Continuation:   continuation,
			EffectiveStart: effectiveStart,
			RunID:          runID,
		}
		if i > 0 && !continuation {
			out[i-1].Keep = true
		}
	}
	if len(out) > 0 {
		out[len(out)-1].Keep = true
	}

	return out
}

// Aggregate validates rows and collapses them into events.
//
// rows must be grouped by FileID and ordered by Start within each file; the
// order is checked, not repaired. An empty input yields an empty result. On a
// validation error no events are returned.
func Aggregate(rows []RawDetection, policy Policy) ([]Event, error) {
	if err := Validate(rows); err != nil {
		return nil, err
	}
	return collapse(Annotate(rows, policy)), nil
}

// collapse turns annotated rows into one Event per run.
func collapse(rows []Annotated) []Event {
	events := make([]Event, 0)

	var confidences, metrics []float64
	for _, row := range rows {
		confidences = append(confidences, row.Confidence)
		metrics = append(metrics, row.Metric)

		if !row.Keep {
			continue
		}

		events = append(events, Event{
			FileID:     row.FileID,
			Start:      row.EffectiveStart,
			End:        row.End,
			Duration:   row.End - row.EffectiveStart,
			Label:      row.Label,
			Confidence: stat.Mean(confidences, nil),
			Metric:     stat.Mean(metrics, nil),
			Rows:       len(confidences),
			Extra:      row.Extra,
		})
		confidences = confidences[:0]
		metrics = metrics[:0]
	}

	return events
}
