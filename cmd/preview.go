package cmd

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/initiation/internal/gates"
)

var previewCmd = &cobra.Command{
	Use:   "preview",
	Short: "Try answers against one gate (nothing is recorded)",
	Long: `Show a gate and check answers read from stdin.

This is a stateless rehearsal tool for the host: no store, no attempt log,
no approval. Useful for checking prompts and the feedback lines before a
session. For the jigsaw gate, separate tiles with spaces.`,
	RunE: runPreview,
}

func init() {
	previewCmd.Flags().Int("gate", 1, "Gate ID (1-9)")
}

func runPreview(cmd *cobra.Command, args []string) error {
	id, _ := cmd.Flags().GetInt("gate")

	def, err := gates.Default().Get(id)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	scanner := bufio.NewScanner(cmd.InOrStdin())

	fmt.Fprintf(out, "── %s ──\n", def.Title)
	fmt.Fprintln(out, def.Prompt)
	if def.TakesLayout() {
		fmt.Fprintf(out, "\nTiles: %s\n", strings.Join(def.Tiles, "  "))
	}

	var tries, correct int
	for {
		fmt.Fprint(out, "\nYour answer: ")
		if !scanner.Scan() {
			fmt.Fprintln(out, "\n(input closed)")
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		sub := gates.Text(line)
		if def.TakesLayout() {
			sub = gates.Layout(strings.Fields(line)...)
		}
		tries++
		ok, msg := def.Check(sub)
		if ok {
			correct++
			fmt.Fprintf(out, "\033[32m✓ %s\033[0m\n", msg)
		} else {
			fmt.Fprintf(out, "\033[31m✗ %s\033[0m\n", msg)
		}
	}

	fmt.Fprintf(out, "── Summary: %d/%d correct ──\n", correct, tries)
	return nil
}
