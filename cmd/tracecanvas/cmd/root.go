package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "tracecanvas",
	Short: "TraceCanvas - KiCad schematic viewer and inspector",
	Long: `TraceCanvas renders and inspects KiCad schematic files (.kicad_sch).

Examples:
  tracecanvas view board.kicad_sch     # Open the interactive viewer
  tracecanvas info board.kicad_sch     # Show schematic summary
  tracecanvas inspect board.kicad_sch  # Dump the s-expression structure`,
	Version: "0.1.0",
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
