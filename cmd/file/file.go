package file

import (
	"github.com/spf13/cobra"

	"github.com/tphakala/birdnet-sql/internal/importer"
	"github.com/tphakala/birdnet-sql/internal/runtime"
)

// Command creates the file command importing result files given on the command line.
func Command(rt *runtime.Context) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "file [results.csv...]",
		Short: "Import result files",
		Long:  `Import one or more BirdNET result files in the order given.`,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return importer.FileImport(cmd.Context(), rt, args)
		},
	}

	return cmd
}
