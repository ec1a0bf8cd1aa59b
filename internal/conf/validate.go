// conf/validate.go

package conf

import (
	"fmt"
	"path/filepath"
	"regexp"
	"slices"
)

// tableNamePattern restricts table names to plain SQL identifiers
var tableNamePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

var validLogLevels = []string{"trace", "debug", "info", "warn", "error"}

// ValidationError represents a collection of validation errors
type ValidationError struct {
	Errors []string
}

// Error returns a string representation of the validation errors
func (ve ValidationError) Error() string {
	return fmt.Sprintf("Validation errors: %v", ve.Errors)
}

// ValidateSettings validates the entire Settings struct
func ValidateSettings(settings *Settings) error {
	ve := ValidationError{}

	ve.Errors = append(ve.Errors, validateInputSettings(&settings.Input)...)
	ve.Errors = append(ve.Errors, validateAggregationSettings(&settings.Aggregation)...)
	ve.Errors = append(ve.Errors, validateOutputSettings(&settings.Output)...)

	if !slices.Contains(validLogLevels, settings.Logging.Level) {
		ve.Errors = append(ve.Errors, fmt.Sprintf("logging level %q must be one of %v", settings.Logging.Level, validLogLevels))
	}

	if len(ve.Errors) > 0 {
		return ve
	}
	return nil
}

// validateInputSettings checks the file pattern and required column names
func validateInputSettings(settings *InputConfig) []string {
	var errs []string

	if settings.Pattern == "" {
		errs = append(errs, "input pattern must not be empty")
	} else if _, err := filepath.Match(settings.Pattern, ""); err != nil {
		errs = append(errs, fmt.Sprintf("input pattern %q is invalid: %v", settings.Pattern, err))
	}

	required := map[string]string{
		"start":      settings.Columns.Start,
		"end":        settings.Columns.End,
		"confidence": settings.Columns.Confidence,
		"metric":     settings.Columns.Metric,
	}
	for _, key := range []string{"start", "end", "confidence", "metric"} {
		if required[key] == "" {
			errs = append(errs, fmt.Sprintf("input column name for %s must not be empty", key))
		}
	}

	return errs
}

// validateAggregationSettings checks that gates are usable thresholds
func validateAggregationSettings(settings *AggregationConfig) []string {
	var errs []string

	if settings.ConfidenceGate < 0 || settings.ConfidenceGate > 1 {
		errs = append(errs, "aggregation confidence gate must be between 0 and 1")
	}
	if settings.MetricGate < 0 {
		errs = append(errs, "aggregation metric gate must not be negative")
	}

	return errs
}

// validateOutputSettings checks the table name and that exactly one database is selected
func validateOutputSettings(settings *OutputConfig) []string {
	var errs []string

	if !tableNamePattern.MatchString(settings.Table) {
		errs = append(errs, fmt.Sprintf("output table %q is not a valid table name", settings.Table))
	}
	if settings.BatchSize <= 0 {
		errs = append(errs, "output batch size must be greater than 0")
	}

	switch {
	case settings.SQLite.Enabled && settings.MySQL.Enabled:
		errs = append(errs, "only one of output.sqlite and output.mysql can be enabled")
	case !settings.SQLite.Enabled && !settings.MySQL.Enabled:
		errs = append(errs, "one of output.sqlite or output.mysql must be enabled")
	}

	if settings.SQLite.Enabled && settings.SQLite.Path == "" {
		errs = append(errs, "output.sqlite.path is required when SQLite output is enabled")
	}

	if settings.MySQL.Enabled {
		if settings.MySQL.Host == "" {
			errs = append(errs, "output.mysql.host is required when MySQL output is enabled")
		}
		if settings.MySQL.Database == "" {
			errs = append(errs, "output.mysql.database is required when MySQL output is enabled")
		}
		if settings.MySQL.Username == "" {
			errs = append(errs, "output.mysql.username is required when MySQL output is enabled")
		}
	}

	return errs
}
