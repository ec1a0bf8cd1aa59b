package conf

import (
	"fmt"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// flagKeys maps command line flag names to configuration keys.
var flagKeys = map[string]string{
	"debug":          "debug",
	"database":       "output.sqlite.path",
	"table":          "output.table",
	"location-index": "input.locationindex",
	"prefix":         "input.prefix",
	"recreate":       "output.recreate",
	"metrics-file":   "metrics.textfile",
	"recursive":      "input.recursive",
	"pattern":        "input.pattern",
}

// BindFlags binds every known flag present in flags to its configuration key, so
// an explicitly set flag takes precedence over the config file and environment.
func BindFlags(v *viper.Viper, flags *pflag.FlagSet) error {
	for name, key := range flagKeys {
		flag := flags.Lookup(name)
		if flag == nil {
			continue
		}
		if err := v.BindPFlag(key, flag); err != nil {
			return fmt.Errorf("error binding flag %s: %w", name, err)
		}
	}
	return nil
}
