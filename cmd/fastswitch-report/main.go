// fastswitch-report renders usage insights from an exported usage file.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/fastswitch/tracker/pkg/report"
)

func main() {
	var summaryOnly bool

	rootCmd := &cobra.Command{
		Use:   "fastswitch-report <export.json>",
		Short: "Analyze exported FastSwitch usage data",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			export, err := report.Load(args[0])
			if err != nil {
				return err
			}
			if len(export.DailyData) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No usage data found in the file.")
				return nil
			}

			summary := report.Summarize(export)
			summary.Render(cmd.OutOrStdout(), summaryOnly)
			return nil
		},
		SilenceUsage: true,
	}

	rootCmd.Flags().BoolVar(&summaryOnly, "summary", false, "Show summary only")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
