package cmd

import (
	"fmt"
	"os"

	"github.com/3218923350/ai4s-enum/internal/version"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:     "enumctl",
	Version: version.Version,
	Short:   "enumctl — launch long-running jobs as detached background processes",
	Long: `enumctl starts long-running programs detached from your shell session.
Define jobs in a YAML config file (working directory, env file, command,
log file) and run "enumctl start" to launch them all in the background
with their output captured. Launched PIDs are tracked so jobs can be
inspected, stopped, and restarted later.`,
}

func init() {
	rootCmd.InitDefaultVersionFlag()
	rootCmd.Flags().Lookup("version").Shorthand = "v"
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, err)
	os.Exit(1)
}
