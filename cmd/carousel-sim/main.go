// Command carousel-sim runs a carousel on virtual time and prints every
// frame it renders.
package main

import (
	"os"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "carousel-sim",
	Short: "Step a testimonial carousel through a scripted timeline.",
	Long: `carousel-sim drives a carousel controller on a virtual clock, so ` +
		`transitions, auto-play and dropped requests can be inspected ` +
		`deterministically without a browser.`,
	SilenceUsage: true,
}

func main() {
	rootCmd.AddCommand(runCmd)
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
