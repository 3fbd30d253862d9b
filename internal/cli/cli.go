package cli

import (
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/meetingkit/pkg/buildinfo"
	"github.com/matzehuels/meetingkit/pkg/cache"
	"github.com/matzehuels/meetingkit/pkg/config"
	"github.com/matzehuels/meetingkit/pkg/registry"
	"github.com/matzehuels/meetingkit/pkg/transport"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for display.
	appName = "meetingkit"

	// defaultAddr is where "serve" listens unless --addr is given.
	defaultAddr = ":8080"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// ConfigPath is the TOML file given with --config. Empty means
	// defaults plus environment only.
	ConfigPath string

	// Verbose is set by --verbose and lowers the log level to debug.
	Verbose bool
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           appName,
		Short:         "Meetingkit manages API clients for the enterprise meeting platform",
		Long:          `Meetingkit creates, caches and inspects the per-service API clients (meeting, user, room, recording, webhook, sync) of the enterprise meeting platform.`,
		Version:       buildinfo.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if c.Verbose {
				c.SetLogLevel(LogDebug)
			}
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVarP(&c.ConfigPath, "config", "c", "", "path to a TOML config file")
	root.PersistentFlags().BoolVarP(&c.Verbose, "verbose", "v", false, "enable debug logging")

	// Register all subcommands
	root.AddCommand(c.clientsCommand())
	root.AddCommand(c.meetingCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())

	return root
}

// =============================================================================
// Shared Helpers
// =============================================================================

// loadConfig reads defaults, the --config file and MEETINGKIT_* variables.
func (c *CLI) loadConfig() (config.Config, error) {
	cfg, err := config.Load(c.ConfigPath)
	if err != nil {
		return config.Config{}, err
	}
	if cfg.Debug {
		c.SetLogLevel(LogDebug)
	}
	return cfg, nil
}

// newRegistry wires transport, response cache and logger into a registry.
// The caller closes the returned cache.
func (c *CLI) newRegistry(cfg config.Config, opts ...registry.Option) (*registry.Registry, cache.Cache, error) {
	respCache, err := cache.FromConfig(cfg.ResponseCache)
	if err != nil {
		return nil, nil, err
	}
	t := transport.New(cfg, transport.WithLogger(c.Logger))

	opts = append([]registry.Option{
		registry.WithLogger(c.Logger),
		registry.WithCache(respCache),
	}, opts...)
	return registry.New(cfg, t, opts...), respCache, nil
}
