// Package cli implements the citegraph command-line interface.
//
// This package provides commands for exploring a paper's backward citation
// graph interactively, rendering one-shot graphs to SVG/DOT/JSON, serving
// the HTTP proxy API, and managing the response cache. The CLI is built
// using cobra and supports verbose logging via the charmbracelet/log
// library.
//
// # Commands
//
//   - explore: Interactive terminal exploration of a citation graph
//   - render: One-shot search → expand → render to a file
//   - serve: Run the HTTP proxy and render API
//   - cache: Manage the API response cache
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Loggers are
// passed through context.Context to allow structured progress tracking.
package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/citegraph/citegraph/pkg/buildinfo"
	"github.com/citegraph/citegraph/pkg/cache"
	"github.com/citegraph/citegraph/pkg/source/openalex"
)

// appName is the application name used for directories and display.
const appName = "citegraph"

// Execute runs the citegraph CLI and returns an error if any command fails.
func Execute(ctx context.Context) error {
	var (
		verbose    bool
		configPath string
	)

	c := &CLI{}

	root := &cobra.Command{
		Use:          "citegraph",
		Short:        "Citegraph explores backward citation graphs of academic papers",
		Long:         `Citegraph searches for an academic paper and incrementally explores the papers it references, as an interactive tree or a rendered node-link diagram.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level := log.InfoLevel
			if verbose {
				level = log.DebugLevel
			}
			c.Logger = newLogger(os.Stderr, level)

			cfg, err := LoadConfig(configPath)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			c.Config = cfg

			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().StringVar(&configPath, "config", "", "path to config file")

	root.AddCommand(c.exploreCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root.ExecuteContext(ctx)
}

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
	Config Config
}

// newSource creates the OpenAlex client configured from the loaded config.
// If noCache is true, response caching is disabled.
func (c *CLI) newSource(ctx context.Context, noCache bool) (*openalex.Client, cache.Cache, error) {
	backend, err := c.newCache(ctx, noCache)
	if err != nil {
		return nil, nil, err
	}
	client := openalex.NewClient(backend, openalex.Config{
		BaseURL:       c.Config.API.BaseURL,
		Mailto:        c.Config.API.Mailto,
		CacheTTL:      c.Config.Cache.TTL.Duration,
		MaxReferences: c.Config.API.MaxReferences,
	})
	return client, backend, nil
}

// newCache creates the configured cache backend.
func (c *CLI) newCache(ctx context.Context, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}

	switch c.Config.Cache.Backend {
	case "", "file":
		dir := c.Config.Cache.Dir
		if dir == "" {
			d, err := cacheDir()
			if err != nil {
				return cache.NewNullCache(), nil
			}
			dir = d
		}
		return cache.NewFileCache(dir)
	case "memory":
		return cache.NewMemoryCache(), nil
	case "null":
		return cache.NewNullCache(), nil
	case "redis":
		r := c.Config.Cache.Redis
		return cache.NewRedisCache(ctx, cache.RedisConfig{
			Addr:     r.Addr,
			Password: r.Password,
			DB:       r.DB,
		})
	case "mongo":
		m := c.Config.Cache.Mongo
		return cache.NewMongoCache(ctx, cache.MongoConfig{
			URI:        m.URI,
			Database:   m.Database,
			Collection: m.Collection,
		})
	default:
		return nil, fmt.Errorf("unknown cache backend: %q", c.Config.Cache.Backend)
	}
}
