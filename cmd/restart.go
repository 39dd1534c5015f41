package cmd

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/3218923350/ai4s-enum/internal/config"
	"github.com/3218923350/ai4s-enum/internal/launcher"
	"github.com/3218923350/ai4s-enum/internal/logger"
	"github.com/3218923350/ai4s-enum/internal/pidfile"

	"github.com/spf13/cobra"
)

var restartAppend bool

var restartCmd = &cobra.Command{
	Use:   "restart <PID>",
	Short: "Restart a tracked background job by PID",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		pid, err := strconv.Atoi(args[0])
		if err != nil {
			fatal(fmt.Errorf("invalid PID: %s", args[0]))
		}

		configName, jobName, entry, err := pidfile.FindByPID(pid)
		if err != nil {
			fatal(err)
		}

		logger.Stop(jobName, entry.CommandLine(), pid)
		_ = pidfile.GracefulKill(pid, 10*time.Second)

		job := config.Job{
			Name:    jobName,
			Dir:     entry.Dir,
			Command: entry.Command,
			EnvFile: entry.EnvFile,
			LogFile: entry.LogFile,
		}
		newPID, err := launcher.Launch(job, launcher.Options{Append: restartAppend})
		if err != nil {
			logger.Fail(jobName, entry.CommandLine(), err)
			_ = pidfile.RemoveEntry(configName, jobName, pid)
			os.Exit(1)
		}

		if err := pidfile.RemoveEntry(configName, jobName, pid); err != nil {
			fmt.Fprintf(os.Stderr, "⚠️  Warning: failed to remove old PID entry: %v\n", err)
		}

		if err := pidfile.Append(configName, jobName, pidfile.Entry{
			PID:     newPID,
			Command: entry.Command,
			Dir:     entry.Dir,
			EnvFile: entry.EnvFile,
			LogFile: entry.LogFile,
		}); err != nil {
			fmt.Fprintf(os.Stderr, "⚠️  Warning: failed to save new PID entry: %v\n", err)
		}

		logger.Background(jobName, entry.CommandLine(), newPID)
	},
}

func init() {
	restartCmd.Flags().BoolVar(&restartAppend, "append", false, "Append to the existing log file instead of overwriting it")
	rootCmd.AddCommand(restartCmd)
}
