package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/citegraph/citegraph/pkg/pipeline"
)

// renderCommand creates the one-shot render command.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		depth    int
		format   string
		output   string
		detailed bool
		maxRefs  int
		noCache  bool
	)

	cmd := &cobra.Command{
		Use:   "render <title>",
		Short: "Search a paper and render its citation graph to a file",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)
			title := strings.Join(args, " ")

			src, backend, err := c.newSource(ctx, noCache)
			if err != nil {
				return err
			}
			defer backend.Close()

			if maxRefs == 0 {
				maxRefs = c.Config.API.MaxReferences
			}
			opts := pipeline.Options{
				Title:         title,
				Depth:         depth,
				Format:        format,
				Detailed:      detailed,
				MaxReferences: maxRefs,
			}

			prog := newProgress(logger)
			result, err := pipeline.NewRunner(src, logger).Execute(ctx, opts)
			if err != nil {
				return err
			}
			prog.done(fmt.Sprintf("Explored %d nodes, %d edges",
				result.Stats.NodeCount, result.Stats.EdgeCount))

			if output == "" {
				output = defaultOutput(title, opts.Format)
			}
			if err := os.WriteFile(output, result.Artifact, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", output, err)
			}

			printSuccess("Rendered citation graph")
			printFile(output)
			printDetail("%d fetches, %d cache hits", result.Stats.Fetches, result.Stats.CacheHits)
			return nil
		},
	}

	cmd.Flags().IntVarP(&depth, "depth", "d", pipeline.DefaultDepth, "expansion depth (1 = direct references)")
	cmd.Flags().StringVarP(&format, "format", "f", pipeline.FormatSVG, "output format: svg, dot, or json")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default derived from title)")
	cmd.Flags().BoolVar(&detailed, "detailed", false, "include venue and citation counts in labels")
	cmd.Flags().IntVar(&maxRefs, "max-references", 0, "cap references per paper (0 = unlimited)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the API response cache")

	return cmd
}

// defaultOutput derives a filesystem-friendly output name from the title.
func defaultOutput(title, format string) string {
	slug := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			return r
		case r >= 'A' && r <= 'Z':
			return r + ('a' - 'A')
		case r == ' ' || r == '-' || r == '_':
			return '-'
		default:
			return -1
		}
	}, title)
	slug = strings.Trim(slug, "-")
	if slug == "" {
		slug = "citations"
	}
	if len(slug) > 60 {
		slug = slug[:60]
	}
	return slug + "." + format
}
