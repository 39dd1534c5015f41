package cmd

import (
	"github.com/3218923350/ai4s-enum/internal/config"
	"github.com/3218923350/ai4s-enum/internal/launcher"

	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run <config-name> <job-name>",
	Short: "Run a single job in the foreground",
	Long: `Run one job attached to the current terminal instead of detaching it.
Useful for debugging a job definition before starting it in the
background. The job runs inside a PTY when stdout is a terminal.`,
	Args: cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.Load(args[0])
		if err != nil {
			fatal(err)
		}
		job, err := cfg.FindJob(args[1])
		if err != nil {
			fatal(err)
		}
		if err := launcher.RunForeground(job); err != nil {
			fatal(err)
		}
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
}
