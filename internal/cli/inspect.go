package cli

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/railyard/pkg/diagram"
)

// inspectCommand creates the inspect command for browsing a diagram document.
func (c *CLI) inspectCommand() *cobra.Command {
	var plain bool

	cmd := &cobra.Command{
		Use:   "inspect [diagram.json]",
		Short: "Browse the boxes and connectors of a diagram",
		Long: `Browse the boxes and connectors of a diagram.

Opens an interactive table of every positioned box in painting order. Press
tab to switch to the connectors. With --plain the first page is printed
without starting the interactive view.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := diagram.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("load diagram %s: %w", args[0], err)
			}
			model := NewDiagramModel(doc)
			if plain {
				model.Height = len(doc.Diagram.Nodes)
				fmt.Fprintln(cmd.OutOrStdout(), model.View())
				return nil
			}

			loggerFromContext(cmd.Context()).Debug("inspecting diagram", "boxes", len(doc.Diagram.Nodes), "connectors", len(doc.Diagram.Connects))
			_, err = tea.NewProgram(model).Run()
			return err
		},
	}

	cmd.Flags().BoolVar(&plain, "plain", false, "print the box table and exit")

	return cmd
}
