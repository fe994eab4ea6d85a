package cli

import (
	"github.com/spf13/cobra"

	"github.com/rshade/pokedeck/internal/tui"
)

// NewBrowseCmd creates the browse command, the interactive gallery.
func NewBrowseCmd() *cobra.Command {
	var client clientFlags

	cmd := &cobra.Command{
		Use:   "browse",
		Short: "Browse the catalog in an interactive gallery",
		Long: `Opens a scrollable gallery of catalog records. New pages are requested
automatically as the bottom of the list comes into view.

Keys: ↑/↓ or j/k to move, enter to open details, esc or x to close them,
r to reload from the first page, d to toggle the debug panel, q to quit.
Cards and the detail close control can also be clicked.

When stdout is not a terminal the records are printed as a table instead. On
terminals that cannot host the gallery (CI, TERM=dumb) they are printed as
coloured cards.`,
		Example: `  # Browse the local catalog server
  pokedeck browse

  # Browse another server with bigger pages
  pokedeck browse --base-url http://catalog.internal:8080 --page-size 50`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			switch mode := tui.DetectOutputMode(false, false, false); mode {
			case tui.OutputModeStyled:
				logger.Debug().Stringer("mode", mode).Msg("terminal cannot host the gallery, printing cards")
				return runList(cmd, &client, OutputCards, 0)
			case tui.OutputModePlain:
				logger.Debug().Stringer("mode", mode).Msg("stdout is not an interactive terminal, falling back to list")
				return runList(cmd, &client, OutputTable, 0)
			case tui.OutputModeInteractive:
			}

			backend, err := client.resolve(cmd)
			if err != nil {
				return err
			}
			ctrl, err := newController(cmd, backend)
			if err != nil {
				return err
			}
			return tui.Run(cmd.Context(), ctrl)
		},
	}

	client.register(cmd)
	return cmd
}
