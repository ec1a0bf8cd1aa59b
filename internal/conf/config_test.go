package conf

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/tphakala/birdnet-sql/internal/detection"
	"github.com/tphakala/birdnet-sql/internal/errors"
)

func TestLoadDefaults(t *testing.T) {
	settings, err := Load(NewViper())
	require.NoError(t, err)

	assert.Equal(t, -1, settings.Input.LocationIndex)
	assert.False(t, settings.Input.Prefix)
	assert.Equal(t, "*.csv", settings.Input.Pattern)
	assert.Equal(t, "start_detection", settings.Input.Columns.Start)
	assert.Equal(t, "end_detection", settings.Input.Columns.End)
	assert.Equal(t, "confidence", settings.Input.Columns.Confidence)
	assert.Equal(t, "hr", settings.Input.Columns.Metric)
	assert.InDelta(t, 0.95, settings.Aggregation.ConfidenceGate, 1e-12)
	assert.InDelta(t, 0.05, settings.Aggregation.MetricGate, 1e-12)
	assert.Equal(t, detection.DefaultPolicy(), detection.Policy{
		ConfidenceGate: settings.Aggregation.ConfidenceGate,
		MetricGate:     settings.Aggregation.MetricGate,
	})
	assert.Equal(t, "detections", settings.Output.Table)
	assert.Equal(t, 500, settings.Output.BatchSize)
	assert.True(t, settings.Output.SQLite.Enabled)
	assert.Equal(t, "common.sqlite", settings.Output.SQLite.Path)
	assert.False(t, settings.Output.MySQL.Enabled)
	assert.Equal(t, "info", settings.Logging.Level)
}

func TestReadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "import.yaml")
	content := `
input:
  locationindex: -2
  prefix: true
  columns:
    metric: loudness
output:
  table: birds
  sqlite:
    path: /tmp/birds.db
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	v := NewViper()
	require.NoError(t, ReadConfigFile(v, path))

	settings, err := Load(v)
	require.NoError(t, err)

	assert.Equal(t, -2, settings.Input.LocationIndex)
	assert.True(t, settings.Input.Prefix)
	assert.Equal(t, "loudness", settings.Input.Columns.Metric)
	assert.Equal(t, "start_detection", settings.Input.Columns.Start, "unset keys keep defaults")
	assert.Equal(t, "birds", settings.Output.Table)
	assert.Equal(t, "/tmp/birds.db", settings.Output.SQLite.Path)
}

func TestReadConfigFileMissing(t *testing.T) {
	err := ReadConfigFile(NewViper(), filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.True(t, errors.IsCategory(err, errors.CategoryConfiguration))
}

func TestEnvironmentOverride(t *testing.T) {
	t.Setenv("BIRDNETSQL_OUTPUT_TABLE", "from_env")
	t.Setenv("BIRDNETSQL_INPUT_LOCATIONINDEX", "-3")

	settings, err := Load(NewViper())
	require.NoError(t, err)

	assert.Equal(t, "from_env", settings.Output.Table)
	assert.Equal(t, -3, settings.Input.LocationIndex)
}

func TestDebugRaisesLogLevel(t *testing.T) {
	v := NewViper()
	v.Set("debug", true)

	settings, err := Load(v)
	require.NoError(t, err)
	assert.Equal(t, "debug", settings.Logging.Level)
}

func TestLoadRejectsInvalidSettings(t *testing.T) {
	v := NewViper()
	v.Set("output.table", "drop table;")

	_, err := Load(v)
	require.Error(t, err)
	assert.True(t, errors.IsCategory(err, errors.CategoryConfiguration))

	var ve ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Len(t, ve.Errors, 1)
}

func TestMarshalYAMLConfigRedactsPassword(t *testing.T) {
	settings, err := Load(NewViper())
	require.NoError(t, err)
	settings.Output.MySQL.Password = "hunter2"

	data, err := settings.MarshalYAMLConfig()
	require.NoError(t, err)
	assert.NotContains(t, string(data), "hunter2")
	assert.Equal(t, "hunter2", settings.Output.MySQL.Password, "original settings untouched")

	var decoded Settings
	require.NoError(t, yaml.Unmarshal(data, &decoded))
	assert.Equal(t, settings.Output.Table, decoded.Output.Table)
	assert.Equal(t, settings.Input.Columns, decoded.Input.Columns)
}

func TestBindFlagsOverridesConfig(t *testing.T) {
	v := NewViper()

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("database", DefaultSQLitePath, "")
	flags.Int("location-index", DefaultLocationIndex, "")
	flags.Bool("recreate", false, "")
	require.NoError(t, BindFlags(v, flags))

	v.Set("output.table", "from_config")
	require.NoError(t, flags.Parse([]string{"--database", "/tmp/out.sqlite", "--location-index=-3"}))

	settings, err := Load(v)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/out.sqlite", settings.Output.SQLite.Path)
	assert.Equal(t, -3, settings.Input.LocationIndex)
	assert.False(t, settings.Output.Recreate, "unset flag keeps the default")
	assert.Equal(t, "from_config", settings.Output.Table)
}
