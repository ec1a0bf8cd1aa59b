package detection

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tphakala/birdnet-sql/internal/errors"
)

var approx = cmpopts.EquateApprox(0, 1e-9)

func row(start, end, confidence, metric float64) RawDetection {
	return RawDetection{FileID: "rec", Start: start, End: end, Confidence: confidence, Metric: metric}
}

func TestAggregate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		rows []RawDetection
		want []Event
	}{
		{
			name: "gap breaks the run",
			rows: []RawDetection{
				row(0, 10, 0.99, 0.2),
				row(10, 20, 0.99, 0.2),
				row(25, 30, 0.99, 0.2),
			},
			want: []Event{
				{FileID: "rec", Start: 0, End: 20, Duration: 20, Confidence: 0.99, Metric: 0.2, Rows: 2},
				{FileID: "rec", Start: 25, End: 30, Duration: 5, Confidence: 0.99, Metric: 0.2, Rows: 1},
			},
		},
		{
			name: "low confidence on incoming row",
			rows: []RawDetection{
				row(0, 10, 0.99, 0.2),
				row(10, 20, 0.90, 0.2),
			},
			want: []Event{
				{FileID: "rec", Start: 0, End: 10, Duration: 10, Confidence: 0.99, Metric: 0.2, Rows: 1},
				{FileID: "rec", Start: 10, End: 20, Duration: 10, Confidence: 0.90, Metric: 0.2, Rows: 1},
			},
		},
		{
			name: "low metric on incoming row",
			rows: []RawDetection{
				row(0, 3, 0.99, 0.2),
				row(3, 6, 0.99, 0.05),
			},
			want: []Event{
				{FileID: "rec", Start: 0, End: 3, Duration: 3, Confidence: 0.99, Metric: 0.2, Rows: 1},
				{FileID: "rec", Start: 3, End: 6, Duration: 3, Confidence: 0.99, Metric: 0.05, Rows: 1},
			},
		},
		{
			name: "gate applies to incoming row only",
			rows: []RawDetection{
				row(0, 10, 0.50, 0.01),
				row(10, 20, 0.99, 0.2),
			},
			want: []Event{
				{FileID: "rec", Start: 0, End: 20, Duration: 20, Confidence: 0.745, Metric: 0.105, Rows: 2},
			},
		},
		{
			name: "confidence exactly at gate does not continue",
			rows: []RawDetection{
				row(0, 3, 0.99, 0.2),
				row(3, 6, 0.95, 0.2),
			},
			want: []Event{
				{FileID: "rec", Start: 0, End: 3, Duration: 3, Confidence: 0.99, Metric: 0.2, Rows: 1},
				{FileID: "rec", Start: 3, End: 6, Duration: 3, Confidence: 0.95, Metric: 0.2, Rows: 1},
			},
		},
		{
			name: "single row",
			rows: []RawDetection{
				{FileID: "rec", Start: 3, End: 6, Label: "Turdus merula_Eurasian Blackbird", Confidence: 0.7, Metric: 0.3},
			},
			want: []Event{
				{FileID: "rec", Start: 3, End: 6, Duration: 3, Label: "Turdus merula_Eurasian Blackbird", Confidence: 0.7, Metric: 0.3, Rows: 1},
			},
		},
		{
			name: "empty input",
			rows: nil,
			want: []Event{},
		},
		{
			name: "file boundary breaks the run",
			rows: []RawDetection{
				{FileID: "a", Start: 0, End: 3, Confidence: 0.99, Metric: 0.2},
				{FileID: "b", Start: 3, End: 6, Confidence: 0.99, Metric: 0.2},
			},
			want: []Event{
				{FileID: "a", Start: 0, End: 3, Duration: 3, Confidence: 0.99, Metric: 0.2, Rows: 1},
				{FileID: "b", Start: 3, End: 6, Duration: 3, Confidence: 0.99, Metric: 0.2, Rows: 1},
			},
		},
		{
			name: "label comes from the closing row",
			rows: []RawDetection{
				{FileID: "rec", Start: 0, End: 3, Label: "first", Confidence: 0.96, Metric: 0.1},
				{FileID: "rec", Start: 3, End: 6, Label: "second", Confidence: 0.98, Metric: 0.3},
				{FileID: "rec", Start: 6, End: 9, Label: "third", Confidence: 1.0, Metric: 0.2},
			},
			want: []Event{
				{FileID: "rec", Start: 0, End: 9, Duration: 9, Label: "third", Confidence: 0.98, Metric: 0.2, Rows: 3},
			},
		},
		{
			name: "extra columns come from the closing row",
			rows: []RawDetection{
				{FileID: "rec", Start: 0, End: 3, Confidence: 0.99, Metric: 0.2, Extra: map[string]string{"species": "first"}},
				{FileID: "rec", Start: 3, End: 6, Confidence: 0.99, Metric: 0.2, Extra: map[string]string{"species": "second"}},
			},
			want: []Event{
				{FileID: "rec", Start: 0, End: 6, Duration: 6, Confidence: 0.99, Metric: 0.2, Rows: 2, Extra: map[string]string{"species": "second"}},
			},
		},
		{
			name: "runs sharing a start stay separate",
			rows: []RawDetection{
				row(0, 3, 0.99, 0.2),
				row(0, 3, 0.50, 0.2),
				row(3, 6, 0.99, 0.2),
			},
			want: []Event{
				{FileID: "rec", Start: 0, End: 3, Duration: 3, Confidence: 0.99, Metric: 0.2, Rows: 1},
				{FileID: "rec", Start: 0, End: 6, Duration: 6, Confidence: 0.745, Metric: 0.2, Rows: 2},
			},
		},
		{
			name: "overlapping windows never merge",
			rows: []RawDetection{
				row(0, 3, 0.99, 0.2),
				row(1.5, 4.5, 0.99, 0.2),
				row(3, 6, 0.99, 0.2),
			},
			want: []Event{
				{FileID: "rec", Start: 0, End: 3, Duration: 3, Confidence: 0.99, Metric: 0.2, Rows: 1},
				{FileID: "rec", Start: 1.5, End: 4.5, Duration: 3, Confidence: 0.99, Metric: 0.2, Rows: 1},
				{FileID: "rec", Start: 3, End: 6, Duration: 3, Confidence: 0.99, Metric: 0.2, Rows: 1},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := Aggregate(tt.rows, DefaultPolicy())
			require.NoError(t, err)
			require.NotNil(t, got)
			if diff := cmp.Diff(tt.want, got, approx); diff != "" {
				t.Errorf("Aggregate() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestAnnotate(t *testing.T) {
	t.Parallel()

	rows := []RawDetection{
		row(0, 3, 0.4, 0.01),
		row(3, 6, 0.99, 0.2),
		row(6, 9, 0.99, 0.2),
		row(9, 12, 0.3, 0.2),
		row(12, 15, 0.99, 0.2),
	}

	got := Annotate(rows, DefaultPolicy())
	require.Len(t, got, len(rows))

	wantContinuation := []bool{false, true, true, false, true}
	wantKeep := []bool{false, false, true, false, true}
	wantStart := []float64{0, 0, 0, 9, 9}
	wantRun := []int{0, 0, 0, 1, 1}

	for i := range got {
		assert.Equal(t, wantContinuation[i], got[i].Continuation, "continuation row %d", i)
		assert.Equal(t, wantKeep[i], got[i].Keep, "keep row %d", i)
		assert.InDelta(t, wantStart[i], got[i].EffectiveStart, 1e-12, "effective start row %d", i)
		assert.Equal(t, wantRun[i], got[i].RunID, "run row %d", i)
	}
}

func TestAggregateCustomPolicy(t *testing.T) {
	t.Parallel()

	rows := []RawDetection{
		row(0, 3, 0.6, 0.2),
		row(3, 6, 0.6, 0.2),
	}

	got, err := Aggregate(rows, Policy{ConfidenceGate: 0.5, MetricGate: 0.1})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.InDelta(t, 6.0, got[0].End, 1e-12)

	got, err = Aggregate(rows, DefaultPolicy())
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestAggregateRejectsInvalidInput(t *testing.T) {
	t.Parallel()

	rows := []RawDetection{
		row(0, 3, 0.99, 0.2),
		row(6, 9, 0.99, 0.2),
		row(3, 6, 0.99, 0.2),
	}

	got, err := Aggregate(rows, DefaultPolicy())
	require.Error(t, err)
	assert.Nil(t, got, "no partial result")
	assert.True(t, errors.IsCategory(err, errors.CategoryValidation))
	assert.Contains(t, err.Error(), "row 2")
}

func TestAggregateRejectsNonFiniteValues(t *testing.T) {
	t.Parallel()

	for name, rows := range map[string][]RawDetection{
		"infinite end":    {row(0, math.Inf(1), 0.99, 0.2)},
		"infinite metric": {row(0, 3, 0.99, math.Inf(1))},
		"huge offset":     {row(0, 3, 0.99, 0.2), row(3, 1e300, 0.99, 0.2)},
	} {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			got, err := Aggregate(rows, DefaultPolicy())
			require.Error(t, err)
			assert.Nil(t, got)
			assert.True(t, errors.IsCategory(err, errors.CategoryValidation))
		})
	}
}

// randomRows builds a well-formed results file with a mix of contiguous runs,
// gaps, weak rows and several files.
func randomRows(r *rand.Rand, n int) []RawDetection {
	rows := make([]RawDetection, 0, n)
	file := 0
	start := 0.0
	for range n {
		if r.IntN(20) == 0 {
			file++
			start = 0
		}
		if r.IntN(4) == 0 {
			start += float64(r.IntN(3) + 1)
		}
		end := start + 3
		rows = append(rows, RawDetection{
			FileID:     string(rune('a' + file)),
			Start:      start,
			End:        end,
			Confidence: r.Float64(),
			Metric:     r.Float64() * 0.3,
		})
		start = end
	}
	return rows
}

func TestAggregatePartitionProperties(t *testing.T) {
	t.Parallel()

	r := rand.New(rand.NewPCG(1, 2))
	for trial := range 200 {
		rows := randomRows(r, r.IntN(60))

		events, err := Aggregate(rows, DefaultPolicy())
		require.NoError(t, err, "trial %d", trial)

		total := 0
		next := 0
		for i, ev := range events {
			require.Positive(t, ev.Rows, "trial %d event %d", trial, i)

			run := rows[next : next+ev.Rows]
			assert.Equal(t, run[0].Start, ev.Start, "trial %d event %d start", trial, i)
			assert.Equal(t, run[len(run)-1].End, ev.End, "trial %d event %d end", trial, i)
			assert.GreaterOrEqual(t, ev.Duration, run[0].End-run[0].Start)
			for _, member := range run {
				assert.Equal(t, ev.FileID, member.FileID, "trial %d event %d crosses files", trial, i)
			}
			if i > 0 {
				prev := events[i-1]
				assert.False(t, prev.FileID == ev.FileID && ev.Start < prev.Start, "trial %d order", trial)
				assert.False(t, DefaultPolicy().Continues(rows[next-1], rows[next]), "trial %d event %d not maximal", trial, i)
			}

			total += ev.Rows
			next += ev.Rows
		}
		assert.Equal(t, len(rows), total, "trial %d: every row in exactly one event", trial)
	}
}
