package cmd

import (
	"github.com/3218923350/ai4s-enum/internal/config"
	"github.com/3218923350/ai4s-enum/internal/launcher"
	"github.com/3218923350/ai4s-enum/internal/logger"

	"github.com/spf13/cobra"
)

var startAppend bool

var startCmd = &cobra.Command{
	Use:   "start [config-name]",
	Short: "Launch all jobs in a config as detached background processes",
	Long: `Launch every job defined in a config file. Each job is started in its
own session with stdout and stderr redirected to its log file, so it
keeps running after this command (and your shell) exit. The command
returns as soon as all jobs are spawned; it never waits for them.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.Load(args[0])
		if err != nil {
			fatal(err)
		}
		logger.Border()
		if err := launcher.LaunchAll(cfg, args[0], launcher.Options{Append: startAppend}); err != nil {
			fatal(err)
		}
		logger.Border()
	},
}

func init() {
	startCmd.Flags().BoolVar(&startAppend, "append", false, "Append to existing log files instead of overwriting them")
	rootCmd.AddCommand(startCmd)
}
