package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tphakala/birdnet-sql/cmd/config"
	"github.com/tphakala/birdnet-sql/cmd/directory"
	"github.com/tphakala/birdnet-sql/cmd/file"
	"github.com/tphakala/birdnet-sql/internal/conf"
	"github.com/tphakala/birdnet-sql/internal/logger"
	"github.com/tphakala/birdnet-sql/internal/runtime"
)

// RootCommand creates and returns the root command
func RootCommand(rt *runtime.Context) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "birdnet-sql",
		Short: "Import BirdNET detection results into a SQL database",
		Long: `Reads BirdNET result CSV files, merges consecutive high confidence detections
into events and appends them to a SQLite or MySQL table. The recording date,
time and location are taken from each result file's path.`,
		Version:       rt.Build.String(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Set up the global flags for the root command.
	setupFlags(rootCmd, rt)

	rootCmd.AddCommand(
		file.Command(rt),
		directory.Command(rt),
		config.Command(rt),
	)

	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if err := conf.BindFlags(rt.Viper, cmd.Flags()); err != nil {
			return err
		}
		return initialize(rt)
	}

	return rootCmd
}

// initialize loads the configuration and sets up logging before any subcommand runs.
func initialize(rt *runtime.Context) error {
	if err := conf.ReadConfigFile(rt.Viper, rt.ConfigFile); err != nil {
		return err
	}

	settings, err := conf.Load(rt.Viper)
	if err != nil {
		return err
	}
	rt.Settings = settings

	logCfg := &logger.LoggingConfig{
		DefaultLevel: settings.Logging.Level,
		Console:      &logger.ConsoleOutput{Enabled: true, Level: settings.Logging.Level},
	}
	if settings.Logging.File != "" {
		logCfg.FileOutput = &logger.FileOutput{
			Enabled: true,
			Path:    settings.Logging.File,
			Level:   settings.Logging.Level,
		}
	}

	centralLogger, err := logger.NewCentralLogger(logCfg)
	if err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}
	rt.Logger = centralLogger
	logger.SetGlobal(centralLogger)

	if used := rt.Viper.ConfigFileUsed(); used != "" {
		rt.Module("main").Debug("loaded configuration", logger.String("path", used))
	}
	return nil
}

// setupFlags defines flags that are global to the command line interface
func setupFlags(rootCmd *cobra.Command, rt *runtime.Context) {
	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&rt.ConfigFile, "config", "c", "", "Path to config file (default searches ., ~/.config/birdnet-sql, /etc/birdnet-sql)")
	flags.BoolP("debug", "d", false, "Enable debug output")
	flags.String("database", conf.DefaultSQLitePath, "Path of the SQLite database to create or update")
	flags.String("table", conf.DefaultTable, "Table receiving the imported events")
	flags.Int("location-index", conf.DefaultLocationIndex, "Path segment holding the location, negative counts from the end")
	flags.Bool("prefix", false, "Store the part of the filename before the first underscore")
	flags.Bool("recreate", false, "Drop the table before importing")
	flags.String("metrics-file", "", "Write Prometheus metrics of the run to this file")
}
