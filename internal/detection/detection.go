// Package detection coalesces per-window detector output into events.
//
// A results file lists one row per analysed window. When a call spans several
// windows, consecutive rows describe the same occurrence; Aggregate folds such
// rows into a single Event whose confidence and metric are averaged over the run.
package detection

// RawDetection is one row of a results file.
type RawDetection struct {
	FileID     string  // identity of the recording the row came from
	Start      float64 // window start, seconds from the start of the recording
	End        float64 // window end, seconds from the start of the recording
	Label      string  // species label, may be empty
	Confidence float64 // detector confidence in [0,1]
	Metric     float64 // secondary quality metric ("hr"), non-negative

	Extra map[string]string // other columns of the row by header name, nil when none
}

// Event is a maximal run of contiguous detections.
type Event struct {
	FileID     string
	Start      float64 // start of the first row in the run
	End        float64 // end of the last row in the run
	Duration   float64 // End - Start
	Label      string  // label of the row closing the run
	Confidence float64 // mean confidence over the run
	Metric     float64 // mean metric over the run
	Rows       int     // number of rows merged

	Extra map[string]string // other columns of the row closing the run
}

// Policy is the quality gate a row must pass to extend the run before it.
type Policy struct {
	ConfidenceGate float64 // confidence must be strictly above this
	MetricGate     float64 // metric must be strictly above this
}

// Default gate values.
const (
	DefaultConfidenceGate = 0.95
	DefaultMetricGate     = 0.05
)

// DefaultPolicy returns the gate used by BirdNET result imports.
func DefaultPolicy() Policy {
	return Policy{
		ConfidenceGate: DefaultConfidenceGate,
		MetricGate:     DefaultMetricGate,
	}
}

// Continues reports whether next extends the run that prev belongs to.
//
// Only next is gated: a strong row extends a run even when the row before it is
// weak, while a weak row always starts a new run.
func (p Policy) Continues(prev, next RawDetection) bool {
	return prev.FileID == next.FileID &&
		prev.End == next.Start &&
		next.Confidence > p.ConfidenceGate &&
		next.Metric > p.MetricGate
}
