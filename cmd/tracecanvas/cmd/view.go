package cmd

import (
	"github.com/spf13/cobra"

	"github.com/OpenTraceLab/TraceCanvas/internal/ui"
)

var viewCmd = &cobra.Command{
	Use:   "view [schematic_file]",
	Short: "Open the interactive schematic viewer",
	Long: `Launch the graphical viewer.

Controls:
  Left-drag      pan
  Scroll         zoom at cursor
  Click          select item
  F              fit page
  Z              zoom to selection
  Ctrl+O         open file
  Ctrl+T         toggle light/dark theme`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := ""
		if len(args) > 0 {
			path = args[0]
		}
		return ui.Run(path, ui.Options{
			Dark:    viewDark,
			MinZoom: viewMinZoom,
			MaxZoom: viewMaxZoom,
		})
	},
}

var (
	viewDark    bool
	viewMinZoom float64
	viewMaxZoom float64
)

func init() {
	viewCmd.Flags().BoolVar(&viewDark, "dark", false, "start with the dark color theme")
	viewCmd.Flags().Float64Var(&viewMinZoom, "min-zoom", 0.1, "minimum zoom factor")
	viewCmd.Flags().Float64Var(&viewMaxZoom, "max-zoom", 1000, "maximum zoom factor")
	rootCmd.AddCommand(viewCmd)
}
