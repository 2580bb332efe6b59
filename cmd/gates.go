package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/initiation/internal/gates"
)

var gatesCmd = &cobra.Command{
	Use:   "gates",
	Short: "Browse the gate table",
}

var gatesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all gates (answers are never shown)",
	RunE: func(cmd *cobra.Command, args []string) error {
		kind, _ := cmd.Flags().GetString("kind")

		var defs []gates.Definition
		for _, d := range gates.Default().All() {
			if kind != "" && string(d.Kind) != kind {
				continue
			}
			defs = append(defs, d)
		}
		if len(defs) == 0 {
			return fmt.Errorf("no gates found for kind %q", kind)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%-4s  %-10s  %-24s  %s\n", "ID", "Title", "Kind", "Input")
		fmt.Fprintln(out, strings.Repeat("─", 52))

		for _, d := range defs {
			input := "word"
			if d.TakesLayout() {
				input = fmt.Sprintf("%d tiles", gates.JigsawSlots)
			}
			fmt.Fprintf(out, "%-4d  %-10s  %-24s  %s\n", d.ID, d.Title, d.Kind, input)
		}

		fmt.Fprintf(out, "\n%d gates\n", len(defs))
		return nil
	},
}

func init() {
	gatesListCmd.Flags().String("kind", "", "Filter by kind (e.g. jigsaw)")

	gatesCmd.AddCommand(gatesListCmd)
	gatesCmd.AddCommand(previewCmd)
}
