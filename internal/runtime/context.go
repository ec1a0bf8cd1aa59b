// Package runtime holds the state shared by commands during a single invocation
package runtime

import (
	"io"
	"os"

	"github.com/spf13/afero"
	"github.com/spf13/viper"

	"github.com/tphakala/birdnet-sql/internal/buildinfo"
	"github.com/tphakala/birdnet-sql/internal/conf"
	"github.com/tphakala/birdnet-sql/internal/logger"
)

// Context is created once in main and filled in by the root command before a
// subcommand runs.
type Context struct {
	Build      *buildinfo.Context
	Viper      *viper.Viper
	ConfigFile string // explicit --config path, empty to search the defaults

	Settings *conf.Settings        // loaded in the root command pre-run
	Logger   *logger.CentralLogger // nil until Settings are loaded

	Fs     afero.Fs  // filesystem result files are read from
	Stdout io.Writer // destination of the run summary
}

// NewContext returns a Context reading from the OS filesystem.
func NewContext(build *buildinfo.Context) *Context {
	return &Context{
		Build:  build,
		Viper:  conf.NewViper(),
		Fs:     afero.NewOsFs(),
		Stdout: os.Stdout,
	}
}

// Module returns a module logger, falling back to the global logger before
// Settings are loaded.
func (c *Context) Module(name string) logger.Logger {
	if c.Logger == nil {
		return logger.Global().Module(name)
	}
	return c.Logger.Module(name)
}

// Close flushes and closes the logger.
func (c *Context) Close() error {
	if c.Logger == nil {
		return nil
	}
	return c.Logger.Close()
}
