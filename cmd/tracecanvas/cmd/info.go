package cmd

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/OpenTraceLab/TraceCanvas/pkg/schematic"
)

var infoCmd = &cobra.Command{
	Use:   "info <schematic_file> [reference]",
	Short: "Show schematic information",
	Long: `Display information about a KiCad schematic file.

Without a reference argument: shows a schematic summary.
With a reference argument: shows details for that component.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runInfo,
}

func init() {
	rootCmd.AddCommand(infoCmd)
}

func runInfo(cmd *cobra.Command, args []string) error {
	doc, err := schematic.LoadFile(args[0])
	if err != nil {
		return fmt.Errorf("error parsing schematic: %w", err)
	}

	if len(args) >= 2 {
		return showSymbolDetails(doc, args[1])
	}

	showSummary(doc, args[0])
	return nil
}

func showSummary(doc *schematic.Document, filename string) {
	fmt.Printf("Schematic: %s\n", filename)
	fmt.Printf("Version: %d\n", doc.Version)
	if doc.Generator != "" {
		fmt.Printf("Generator: %s\n", doc.Generator)
	}
	if doc.Paper != "" {
		fmt.Printf("Paper: %s\n", doc.Paper)
	}
	fmt.Println()

	if doc.Title.Title != "" || doc.Title.Revision != "" {
		fmt.Println("Title Block:")
		if doc.Title.Title != "" {
			fmt.Printf("  Title: %s\n", doc.Title.Title)
		}
		if doc.Title.Date != "" {
			fmt.Printf("  Date: %s\n", doc.Title.Date)
		}
		if doc.Title.Revision != "" {
			fmt.Printf("  Revision: %s\n", doc.Title.Revision)
		}
		if doc.Title.Company != "" {
			fmt.Printf("  Company: %s\n", doc.Title.Company)
		}
		fmt.Println()
	}

	fmt.Println("Statistics:")
	fmt.Printf("  Components: %d\n", len(doc.Symbols))
	fmt.Printf("  Library symbols: %d\n", len(doc.Library))
	fmt.Printf("  Wires: %d\n", len(doc.Wires))
	fmt.Printf("  Buses: %d\n", len(doc.Buses))
	fmt.Printf("  Junctions: %d\n", len(doc.Junctions))
	fmt.Printf("  Labels: %d\n", len(doc.Labels))
	fmt.Printf("  Global labels: %d\n", len(doc.GlobalLabels))
	fmt.Printf("  Hierarchical labels: %d\n", len(doc.HierLabels))
	fmt.Printf("  Sheets: %d\n", len(doc.Sheets))
	fmt.Printf("  No-connects: %d\n", len(doc.NoConnects))
	fmt.Println()

	if len(doc.Symbols) > 0 {
		fmt.Println("Components:")
		byPrefix := make(map[string][]string)
		for _, sym := range doc.Symbols {
			ref := sym.Reference()
			if ref == "" {
				continue
			}
			prefix := refPrefix(ref)
			byPrefix[prefix] = append(byPrefix[prefix], ref)
		}

		prefixes := make([]string, 0, len(byPrefix))
		for p := range byPrefix {
			prefixes = append(prefixes, p)
		}
		sort.Strings(prefixes)

		for _, prefix := range prefixes {
			refs := byPrefix[prefix]
			sort.Strings(refs)
			fmt.Printf("  %s: %s\n", prefix, strings.Join(refs, ", "))
		}
		fmt.Println()
	}

	if nets := doc.NetNames(); len(nets) > 0 {
		fmt.Printf("Nets (%d): %s\n", len(nets), strings.Join(nets, ", "))
	}
}

func showSymbolDetails(doc *schematic.Document, ref string) error {
	sym := doc.SymbolByReference(ref)
	if sym == nil {
		return fmt.Errorf("component %q not found", ref)
	}

	fmt.Printf("Component: %s\n", ref)
	fmt.Printf("Library ID: %s\n", sym.LibID)
	fmt.Printf("Position: (%.2f, %.2f) rotation %.0f\n", sym.At.X, sym.At.Y, sym.Angle.Degrees())
	if sym.Mirror != "" {
		fmt.Printf("Mirror: %s\n", sym.Mirror)
	}
	if sym.Unit > 1 {
		fmt.Printf("Unit: %d\n", sym.Unit)
	}
	fmt.Println()

	fmt.Println("Properties:")
	for _, prop := range sym.Properties {
		hidden := ""
		if prop.Effects.Hidden {
			hidden = " (hidden)"
		}
		fmt.Printf("  %s: %s%s\n", prop.Name, prop.Value, hidden)
	}

	if sym.Lib != nil {
		var pins int
		for _, unit := range sym.Lib.UnitsFor(sym.Unit) {
			pins += len(unit.Pins)
		}
		fmt.Printf("\nPins: %d\n", pins)
		for _, unit := range sym.Lib.UnitsFor(sym.Unit) {
			for _, pin := range unit.Pins {
				name := pin.Name
				if name == "~" {
					name = ""
				}
				fmt.Printf("  %s %s (%s)\n", pin.Number, name, pin.Electrical)
			}
		}
	}
	return nil
}

func refPrefix(ref string) string {
	for i, r := range ref {
		if r >= '0' && r <= '9' {
			return ref[:i]
		}
	}
	return ref
}
