package cli

import (
	"context"
	"io"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/topoviz/pkg/buildinfo"
	"github.com/matzehuels/topoviz/pkg/cache"
	"github.com/matzehuels/topoviz/pkg/config"
	"github.com/matzehuels/topoviz/pkg/errors"
	"github.com/matzehuels/topoviz/pkg/pipeline"
	"github.com/matzehuels/topoviz/pkg/source"
	"github.com/matzehuels/topoviz/pkg/visualizer"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "topoviz"

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
	Config *config.Config

	configPath string
	verbose    bool
}

// New creates a new CLI instance with a default logger and configuration.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Config: config.Default(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "topoviz lays out and draws live network topologies",
		Long:         `topoviz reads network device and connection records, lays them out with a force-directed simulation, and draws them as SVG, PNG, Graphviz or a live terminal view.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if c.verbose {
				c.SetLogLevel(LogDebug)
			}
			cfg, err := config.Load(c.configPath)
			if err != nil {
				return err
			}
			c.Config = cfg
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default "+config.Path()+")")

	root.AddCommand(c.renderCommand())
	root.AddCommand(c.viewCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.seedCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Factories
// =============================================================================

// newCache opens the configured cache backend. noCache forces the null
// cache. The result reports hits and misses through the cache hooks.
func (c *CLI) newCache(ctx context.Context, noCache bool) (cache.Cache, error) {
	cc := c.Config.Cache
	if noCache || cc.Backend == config.CacheNone {
		return cache.NewNullCache(), nil
	}
	switch cc.Backend {
	case config.CacheRedis:
		rc, err := cache.NewRedisCache(ctx, cache.RedisConfig{
			Addr:     cc.RedisAddr,
			Password: cc.RedisPassword,
			DB:       cc.RedisDB,
			Prefix:   cc.RedisPrefix,
		})
		if err != nil {
			return nil, err
		}
		return cache.Instrument(rc), nil
	default:
		dir, err := c.cacheDir()
		if err != nil {
			c.Logger.Warn("no cache directory, caching disabled", "err", err)
			return cache.NewNullCache(), nil
		}
		fc, err := cache.NewFileCache(dir)
		if err != nil {
			return nil, err
		}
		return cache.Instrument(fc), nil
	}
}

// newKeyer scopes cache keys by build version so entries written by an
// older binary are never read back.
func newKeyer() cache.Keyer {
	return cache.NewScopedKeyer(cache.NewDefaultKeyer(), buildinfo.Version)
}

// cacheDir returns the configured cache directory or the user cache dir.
func (c *CLI) cacheDir() (string, error) {
	if c.Config.Cache.Dir != "" {
		return c.Config.Cache.Dir, nil
	}
	return cache.DefaultDir()
}

// sourceOptions builds source options from the configuration.
func (c *CLI) sourceOptions(ch cache.Cache) source.Options {
	sc := c.Config.Source
	return source.Options{
		Cache:           ch,
		Keyer:           newKeyer(),
		TTL:             c.Config.Cache.TTL.Duration,
		HTTPTimeout:     sc.HTTPTimeout.Duration,
		MongoDatabase:   sc.MongoDatabase,
		NodesCollection: sc.NodesCollection,
		EdgesCollection: sc.EdgesCollection,
		Logger:          c.Logger,
	}
}

// openSource resolves a location against the configured cache.
func (c *CLI) openSource(ctx context.Context, location string, noCache bool) (source.Source, cache.Cache, error) {
	ch, err := c.newCache(ctx, noCache)
	if err != nil {
		return nil, nil, err
	}
	src, err := source.Open(location, c.sourceOptions(ch))
	if err != nil {
		_ = ch.Close()
		return nil, nil, err
	}
	return src, ch, nil
}

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(ctx context.Context, noCache bool) (*pipeline.Runner, error) {
	ch, err := c.newCache(ctx, noCache)
	if err != nil {
		return nil, err
	}
	r := pipeline.NewRunner(ch, newKeyer(), c.Logger)
	r.Sources = c.sourceOptions(ch)
	return r, nil
}

// newVisualizer builds a visualizer from the configuration.
func (c *CLI) newVisualizer(logger *log.Logger) *visualizer.Visualizer {
	return visualizer.New(visualizer.Options{
		Width:       c.Config.Render.Width,
		Height:      c.Config.Render.Height,
		Simulation:  c.Config.SimulationOptions(),
		Interaction: c.Config.InteractionOptions(),
		Render:      c.Config.RenderOptions(),
		Logger:      logger,
	})
}

// =============================================================================
// Options Helpers
// =============================================================================

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return []string{pipeline.FormatSVG}
	}
	return strings.Split(s, ",")
}

// sourceArg returns the source location argument, defaulting to the sample.
func sourceArg(args []string) string {
	if len(args) == 0 {
		return source.SampleLocation
	}
	return args[0]
}

// describe formats an error for the terminal, dropping the code prefix of
// structured errors.
func describe(err error) string {
	if code := errors.GetCode(err); code != "" {
		return errors.UserMessage(err) + " (" + strings.ToLower(string(code)) + ")"
	}
	return err.Error()
}
