// conf/defaults.go default values for settings
package conf

import (
	"github.com/spf13/viper"

	"github.com/tphakala/birdnet-sql/internal/detection"
)

// Default values shared with flag definitions.
const (
	DefaultLocationIndex  = -1
	DefaultPattern        = "*.csv"
	DefaultConfidenceGate = detection.DefaultConfidenceGate
	DefaultMetricGate     = detection.DefaultMetricGate
	DefaultTable          = "detections"
	DefaultBatchSize      = 500
	DefaultSQLitePath     = "common.sqlite"
	DefaultLogLevel       = "info"
)

// setDefaultConfig sets default values for the configuration.
func setDefaultConfig(v *viper.Viper) {
	v.SetDefault("debug", false)

	v.SetDefault("input.locationindex", DefaultLocationIndex)
	v.SetDefault("input.prefix", false)
	v.SetDefault("input.pattern", DefaultPattern)
	v.SetDefault("input.recursive", false)

	v.SetDefault("input.columns.start", "start_detection")
	v.SetDefault("input.columns.end", "end_detection")
	v.SetDefault("input.columns.confidence", "confidence")
	v.SetDefault("input.columns.metric", "hr")
	v.SetDefault("input.columns.label", "label")

	v.SetDefault("aggregation.confidencegate", DefaultConfidenceGate)
	v.SetDefault("aggregation.metricgate", DefaultMetricGate)

	v.SetDefault("output.table", DefaultTable)
	v.SetDefault("output.recreate", false)
	v.SetDefault("output.batchsize", DefaultBatchSize)

	v.SetDefault("output.sqlite.enabled", true)
	v.SetDefault("output.sqlite.path", DefaultSQLitePath)

	v.SetDefault("output.mysql.enabled", false)
	v.SetDefault("output.mysql.username", "")
	v.SetDefault("output.mysql.password", "")
	v.SetDefault("output.mysql.passwordfile", "")
	v.SetDefault("output.mysql.database", "")
	v.SetDefault("output.mysql.host", "localhost")
	v.SetDefault("output.mysql.port", "3306")

	v.SetDefault("logging.level", DefaultLogLevel)
	v.SetDefault("logging.file", "")

	v.SetDefault("metrics.textfile", "")
}
