package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "lifecycle-monthly",
	Short: "Monthly customer lifecycle classification for A/B test analysis",
	Long: `lifecycle-monthly derives a per-customer monthly lifecycle fact table
(active / churned / reactivated / inactive, plus a frequency-change
label) from cleaned order, consumer, merchant and A/B assignment
datasets, to measure the effect of a test-group treatment on
purchasing behavior.`,
	SilenceUsage: true,
}

// Execute runs the root command. Called once from main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
