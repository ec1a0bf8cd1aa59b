package directory

import (
	"github.com/spf13/cobra"

	"github.com/tphakala/birdnet-sql/internal/conf"
	"github.com/tphakala/birdnet-sql/internal/importer"
	"github.com/tphakala/birdnet-sql/internal/runtime"
)

// Command creates a new cobra.Command for directory imports.
func Command(rt *runtime.Context) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "directory [path]",
		Short: "Import all result files in a directory",
		Long:  "Provide a directory path to import every file matching the input pattern, in lexical order.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return importer.DirectoryImport(cmd.Context(), rt, args[0])
		},
	}

	setupFlags(cmd)

	return cmd
}

// setupFlags defines flags specific to the directory command.
func setupFlags(cmd *cobra.Command) {
	cmd.Flags().BoolP("recursive", "r", false, "Recursively import subdirectories")
	cmd.Flags().String("pattern", conf.DefaultPattern, "Glob matched against file names")
}
