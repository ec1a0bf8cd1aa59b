package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildDefaults(t *testing.T) {
	t.Parallel()

	ee := New(fmt.Errorf("test error")).Build()

	assert.Equal(t, "test error", ee.Error())
	assert.Equal(t, ComponentUnknown, ee.GetComponent())
	assert.Equal(t, CategoryGeneric, ee.Category)
	assert.False(t, ee.GetTimestamp().IsZero())
}

func TestBuildInheritsWrappedCategory(t *testing.T) {
	t.Parallel()

	inner := New(NewStd("bad row")).Category(CategoryValidation).Build()
	outer := New(fmt.Errorf("aggregate: %w", inner)).Component("importer").Build()

	assert.Equal(t, CategoryValidation, outer.Category)
	assert.Equal(t, "importer", outer.GetComponent())
	assert.True(t, IsCategory(outer, CategoryValidation))
}

func TestFileContext(t *testing.T) {
	t.Parallel()

	ee := Newf("cannot open").
		Category(CategoryFileIO).
		FileContext("site1/20240101_120000.CSV").
		Build()

	ctx := ee.GetContext()
	require.NotNil(t, ctx)
	assert.Equal(t, "site1/20240101_120000.CSV", ctx["file"])
	assert.Equal(t, "csv", ctx["file_extension"])

	// returned map is a copy
	ctx["file"] = "changed"
	assert.Equal(t, "site1/20240101_120000.CSV", ee.GetContext()["file"])
}

func TestClassification(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		category  ErrorCategory
		skippable bool
		fatal     bool
	}{
		{"skipped input", CategoryInputSkipped, true, false},
		{"validation", CategoryValidation, false, false},
		{"parsing", CategoryFileParsing, false, false},
		{"configuration", CategoryConfiguration, false, true},
		{"database", CategoryDatabase, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := fmt.Errorf("wrapped: %w", Newf("boom").Category(tt.category).Build())
			assert.Equal(t, tt.skippable, IsSkippable(err))
			assert.Equal(t, tt.fatal, IsFatal(err))
		})
	}

	assert.False(t, IsSkippable(fmt.Errorf("plain")))
	assert.False(t, IsFatal(nil))
}

func TestIsMatchesCategory(t *testing.T) {
	t.Parallel()

	sentinel := NewStd("no timestamp")
	ee := New(sentinel).Category(CategoryInputSkipped).Build()

	assert.True(t, Is(ee, sentinel))
	assert.True(t, Is(ee, &EnhancedError{Category: CategoryInputSkipped}))
	assert.False(t, Is(ee, &EnhancedError{Category: CategoryDatabase}))
}
