package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/citegraph/citegraph/pkg/errors"
	"github.com/citegraph/citegraph/pkg/explorer"
)

// exploreCommand creates the interactive exploration command.
func (c *CLI) exploreCommand() *cobra.Command {
	var (
		maxRefs int
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "explore <title>",
		Short: "Interactively explore a paper's backward citation graph",
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
			session := explorer.NewSession(src, explorer.Options{
				MaxReferences: maxRefs,
			})
			logger.Debug("session started", "session", session.ID, "title", title)

			prog := newProgress(logger)
			root, err := session.Search(ctx, title)
			if err != nil {
				if root.IsZero() {
					return err
				}
				// Root is seeded; the TUI can retry the expansion.
				printError("Initial expansion failed: %s", errors.UserMessage(err))
			}
			node, _ := session.Model().Node(root)
			prog.done(fmt.Sprintf("Found %q", node.Paper.Title))

			program := tea.NewProgram(NewExploreModel(ctx, session), tea.WithAltScreen())
			if _, err := program.Run(); err != nil {
				return fmt.Errorf("run explorer: %w", err)
			}

			stats := session.Stats()
			printSuccess("Explored %d nodes, %d edges", stats.Nodes, stats.Edges)
			printDetail("%d fetches, %d cache hits", stats.Fetches, stats.CacheHits)
			return nil
		},
	}

	cmd.Flags().IntVar(&maxRefs, "max-references", 0, "cap references per paper (0 = unlimited)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the API response cache")

	return cmd
}
