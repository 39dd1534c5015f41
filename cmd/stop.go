package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/3218923350/ai4s-enum/internal/logger"
	"github.com/3218923350/ai4s-enum/internal/pidfile"

	"github.com/spf13/cobra"
)

var stopPID int

var stopCmd = &cobra.Command{
	Use:   "stop [config-name]",
	Short: "Stop tracked background jobs",
	Long: `Stop every tracked job of a config, or a single job with --pid.
Jobs receive SIGTERM first and are killed after a grace period.`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if stopPID > 0 {
			if len(args) > 0 {
				fatal(fmt.Errorf("pass either a config name or --pid, not both"))
			}
			stopSingle(stopPID)
			return
		}

		if len(args) == 0 {
			fatal(fmt.Errorf("config name or --pid is required"))
		}
		if err := pidfile.KillAllWithCallback(args[0], logger.Stop); err != nil {
			fatal(fmt.Errorf("failed to stop background jobs: %w", err))
		}
	},
}

func stopSingle(pid int) {
	configName, jobName, entry, err := pidfile.FindByPID(pid)
	if err != nil {
		fatal(err)
	}

	logger.Stop(jobName, entry.CommandLine(), pid)

	_ = pidfile.GracefulKill(pid, 10*time.Second)

	if err := pidfile.RemoveEntry(configName, jobName, pid); err != nil {
		fmt.Fprintf(os.Stderr, "⚠️  Warning: failed to remove PID entry: %v\n", err)
	}

	logger.Stopped(jobName)
}

func init() {
	stopCmd.Flags().IntVar(&stopPID, "pid", 0, "Stop a single job by PID")
	rootCmd.AddCommand(stopCmd)
}
