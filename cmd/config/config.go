package config

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tphakala/birdnet-sql/internal/runtime"
)

// Command creates the config command printing the effective settings.
func Command(rt *runtime.Context) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration",
		Long:  "Print the configuration after merging defaults, config file, environment and flags, as YAML.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := rt.Settings.MarshalYAMLConfig()
			if err != nil {
				return err
			}
			_, err = fmt.Fprint(cmd.OutOrStdout(), string(out))
			return err
		},
	}
}
