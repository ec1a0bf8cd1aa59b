// conf/config.go settings for the results importer
package conf

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/tphakala/birdnet-sql/internal/errors"
)

// EnvPrefix is the prefix of environment variables overriding configuration keys,
// e.g. BIRDNETSQL_OUTPUT_SQLITE_PATH for output.sqlite.path.
const EnvPrefix = "BIRDNETSQL"

// Settings contains all configuration options for an import run.
type Settings struct {
	Debug bool `yaml:"debug"` // true to enable debug logging

	Input       InputConfig       `yaml:"input"`
	Aggregation AggregationConfig `yaml:"aggregation"`
	Output      OutputConfig      `yaml:"output"`
	Logging     LoggingConfig     `yaml:"logging"`
	Metrics     MetricsConfig     `yaml:"metrics"`
}

// InputConfig controls how result files are found and how their names are read.
type InputConfig struct {
	LocationIndex int           `yaml:"locationindex"` // path segment holding the site name, negative counts from the end
	Prefix        bool          `yaml:"prefix"`        // true to store the part of the filename before the first "_"
	Pattern       string        `yaml:"pattern"`       // glob used by the directory command
	Recursive     bool          `yaml:"recursive"`     // true to descend into subdirectories
	Columns       ColumnsConfig `yaml:"columns"`       // CSV header names
}

// ColumnsConfig maps detection fields to CSV header names.
type ColumnsConfig struct {
	Start      string `yaml:"start"`
	End        string `yaml:"end"`
	Confidence string `yaml:"confidence"`
	Metric     string `yaml:"metric"`
	Label      string `yaml:"label"` // optional, empty disables the label
}

// AggregationConfig holds the quality gate a row must pass to extend a run.
type AggregationConfig struct {
	ConfidenceGate float64 `yaml:"confidencegate"`
	MetricGate     float64 `yaml:"metricgate"`
}

// OutputConfig selects the database and target table.
type OutputConfig struct {
	Table     string `yaml:"table"`     // table receiving the events
	Recreate  bool   `yaml:"recreate"`  // drop the table before the first write
	BatchSize int    `yaml:"batchsize"` // rows per INSERT statement

	SQLite SQLiteConfig `yaml:"sqlite"`
	MySQL  MySQLConfig  `yaml:"mysql"`
}

// SQLiteConfig configures the SQLite output.
type SQLiteConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// MySQLConfig configures the MySQL output.
type MySQLConfig struct {
	Enabled      bool   `yaml:"enabled"`
	Username     string `yaml:"username"`
	Password     string `yaml:"password"`     // may reference environment variables, ${VAR}
	PasswordFile string `yaml:"passwordfile"` // read the password from this file instead
	Database     string `yaml:"database"`
	Host         string `yaml:"host"`
	Port         string `yaml:"port"`
}

// LoggingConfig configures console and file logging.
type LoggingConfig struct {
	Level string `yaml:"level"` // trace, debug, info, warn, error
	File  string `yaml:"file"`  // optional JSON log file
}

// MetricsConfig configures the Prometheus textfile written at the end of a run.
type MetricsConfig struct {
	Textfile string `yaml:"textfile"`
}

// NewViper returns a viper instance with defaults and environment overrides applied.
func NewViper() *viper.Viper {
	v := viper.New()
	setDefaultConfig(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return v
}

// ReadConfigFile loads configFile into v. With an empty configFile the default config
// paths are searched and a missing config.yaml is not an error.
func ReadConfigFile(v *viper.Viper, configFile string) error {
	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return errors.New(fmt.Errorf("error reading config file: %w", err)).
				Component("conf").
				Category(errors.CategoryConfiguration).
				FileContext(configFile).
				Build()
		}
		return nil
	}

	v.SetConfigName("config")
	v.SetConfigType("yaml")

	configPaths, err := GetDefaultConfigPaths()
	if err != nil {
		return err
	}
	for _, path := range configPaths {
		v.AddConfigPath(path)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return errors.New(fmt.Errorf("fatal error reading config file: %w", err)).
			Component("conf").
			Category(errors.CategoryConfiguration).
			Build()
	}

	return nil
}

// Load unmarshals v into Settings and validates the result.
func Load(v *viper.Viper) (*Settings, error) {
	settings := &Settings{}

	if err := v.Unmarshal(settings); err != nil {
		return nil, errors.New(fmt.Errorf("error unmarshaling config into struct: %w", err)).
			Component("conf").
			Category(errors.CategoryConfiguration).
			Build()
	}

	if settings.Debug && settings.Logging.Level == DefaultLogLevel {
		settings.Logging.Level = "debug"
	}

	if err := ValidateSettings(settings); err != nil {
		return nil, errors.New(fmt.Errorf("error validating settings: %w", err)).
			Component("conf").
			Category(errors.CategoryConfiguration).
			Build()
	}

	return settings, nil
}
