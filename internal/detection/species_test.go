package detection

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseSpeciesString(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input          string
		wantScientific string
		wantCommon     string
		wantCode       string
	}{
		{"Turdus merula_Eurasian Blackbird", "Turdus merula", "Eurasian Blackbird", ""},
		{"Parus major_Great Tit_gretit1", "Parus major", "Great Tit", "gretit1"},
		{"Engine", "Engine", "Engine", ""},
		{"", "", "", ""},
		{"a_b_c_d", "a", "b", "c_d"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()

			scientific, common, code := ParseSpeciesString(tt.input)
			assert.Equal(t, tt.wantScientific, scientific)
			assert.Equal(t, tt.wantCommon, common)
			assert.Equal(t, tt.wantCode, code)
		})
	}
}
