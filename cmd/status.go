package cmd

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/3218923350/ai4s-enum/internal/pidfile"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status [config-name]",
	Short: "Show tracked background jobs",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		var allData map[string]map[string][]pidfile.Entry

		if len(args) == 1 {
			configName := args[0]
			jobs, err := pidfile.LoadAll(configName)
			if err != nil {
				fatal(err)
			}
			if len(jobs) > 0 {
				allData = map[string]map[string][]pidfile.Entry{
					configName: jobs,
				}
			}
		} else {
			var err error
			allData, err = pidfile.LoadAllConfigs()
			if err != nil {
				fatal(err)
			}
		}

		if len(allData) == 0 {
			fmt.Println("No background jobs found.")
			return
		}

		t := table.NewWriter()
		t.SetOutputMirror(os.Stdout)
		t.AppendHeader(table.Row{"CONFIG", "JOB", "COMMAND", "DIR", "PID", "UPTIME", "STATUS"})
		for configName, jobs := range allData {
			for jobName, entries := range jobs {
				for _, e := range entries {
					t.AppendRow(table.Row{
						configName, jobName, e.CommandLine(), shortenHome(e.Dir),
						e.PID, uptime(e), colorizeStatus(pidfile.IsRunning(e.PID)),
					})
				}
			}
		}
		t.Render()
	},
}

func uptime(e pidfile.Entry) string {
	if e.StartedAt.IsZero() || !pidfile.IsRunning(e.PID) {
		return "-"
	}
	return time.Since(e.StartedAt).Round(time.Second).String()
}

func colorizeStatus(running bool) string {
	if running {
		return text.Colors{text.FgGreen}.Sprint("Running")
	}
	return text.Colors{text.FgRed}.Sprint("Dead")
}

func shortenHome(path string) string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return path
	}
	if path == home {
		return "~"
	}
	if strings.HasPrefix(path, home+"/") {
		return "~" + path[len(home):]
	}
	return path
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
