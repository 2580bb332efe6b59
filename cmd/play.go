package cmd

import (
	"github.com/spf13/cobra"
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Open the gates in the terminal UI",
	Annotations: map[string]string{
		tuiAnnotation: "true",
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd)
	},
}

func init() {
	playCmd.Flags().Bool("skip-intro", false, "Start directly on the open gate")
}
