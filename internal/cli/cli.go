// Package cli implements the quasiclique command-line interface.
//
// # Commands
//
//   - run: search every partition of an edge list for its best quasi-clique
//   - classify: report whether input lines are edge or membership records
//   - schema: show the type registry built from a schema file
//   - render: draw one partition with its quasi-clique highlighted
//   - cache: manage the result cache
//   - version: print build information
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. The logger is
// attached to the command context and retrieved with loggerFromContext.
package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/quasiclique/pkg/buildinfo"
	"github.com/matzehuels/quasiclique/pkg/cache"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "quasiclique"

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

	// In and Out are the defaults for "-" input and output paths.
	In  io.Reader
	Out io.Writer

	verbose bool
}

// New creates a new CLI instance logging to w.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		In:     os.Stdin,
		Out:    os.Stdout,
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	versionTemplate := buildinfo.Template()
	root := &cobra.Command{
		Use:   appName,
		Short: "Find dense quasi-cliques in typed bipartite graphs",
		Long: `quasiclique searches partitioned, multi-relation bipartite edge lists for
approximately maximal groups of core nodes that share many non-core neighbors
across every declared relation kind.`,
		Version:       buildinfo.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if c.verbose {
				c.SetLogLevel(LogDebug)
			}
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(versionTemplate)
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "enable verbose logging and output")

	root.AddCommand(c.runCommand())
	root.AddCommand(c.classifyCommand())
	root.AddCommand(c.schemaCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.versionCommand())

	return root
}

// Execute runs the command line in args against ctx.
func (c *CLI) Execute(ctx context.Context, args []string) error {
	root := c.RootCommand()
	root.SetArgs(args)
	root.SetIn(c.In)
	root.SetOut(c.Out)
	return root.ExecuteContext(ctx)
}

// =============================================================================
// Cache Factory
// =============================================================================

type cacheFlags struct {
	noCache  bool
	dir      string
	redisURL string
}

func (f *cacheFlags) register(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&f.noCache, "no-cache", false, "disable the result cache")
	cmd.Flags().StringVar(&f.dir, "cache-dir", "", "result cache directory (default: $XDG_CACHE_HOME/"+appName+")")
	cmd.Flags().StringVar(&f.redisURL, "redis-url", "", "store results in Redis instead of on disk (redis://host:port/db)")
}

// open returns the cache selected by the flags. A home directory that cannot
// be resolved disables caching instead of failing the command.
func (f *cacheFlags) open(ctx context.Context) (cache.Cache, error) {
	switch {
	case f.noCache:
		return cache.NewNullCache(), nil
	case f.redisURL != "":
		return cache.NewRedisCache(ctx, f.redisURL)
	case f.dir != "":
		return cache.NewFileCache(f.dir)
	}
	dir, err := cacheDir()
	if err != nil {
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/quasiclique/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// openInput opens path for reading, with "-" or "" meaning the CLI's input.
func (c *CLI) openInput(path string) (io.ReadCloser, error) {
	if path == "" || path == "-" {
		return io.NopCloser(c.In), nil
	}
	return os.Open(path)
}
