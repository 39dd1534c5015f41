package cmd

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/3218923350/ai4s-enum/internal/logger"
	"github.com/3218923350/ai4s-enum/internal/pidfile"

	"github.com/spf13/cobra"
)

var (
	tailLines int
	noFollow  bool
)

var logsCmd = &cobra.Command{
	Use:   "logs <PID>",
	Short: "Stream the log file of a background job",
	Long: `Attach to a background job and stream its log output.
Press Ctrl-C to detach (the job keeps running).`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		pid, err := strconv.Atoi(args[0])
		if err != nil {
			fatal(fmt.Errorf("invalid PID: %s", args[0]))
		}

		_, jobName, entry, err := pidfile.FindByPID(pid)
		if err != nil {
			fatal(err)
		}

		if _, err := os.Stat(entry.LogFile); err != nil {
			fatal(fmt.Errorf("log file not found: %s", entry.LogFile))
		}

		logger.Attach(jobName, entry.CommandLine(), pid)

		f, err := os.Open(entry.LogFile)
		if err != nil {
			fatal(fmt.Errorf("failed to open log file: %w", err))
		}
		defer func() { _ = f.Close() }()

		if tailLines > 0 {
			seekToLastNLines(f, tailLines)
		}

		if noFollow {
			if _, err := io.Copy(os.Stdout, f); err != nil {
				fatal(fmt.Errorf("read error: %w", err))
			}
			return
		}

		followLog(f, jobName, pid)
	},
}

// followLog streams new log content until the job exits or the user
// interrupts. The job itself is never touched; only its log is read.
func followLog(f *os.File, jobName string, pid int) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	reader := bufio.NewReader(f)
	for {
		line, err := reader.ReadBytes('\n')
		if err == nil {
			_, _ = os.Stdout.Write(line)
			continue
		}

		if err != io.EOF {
			fmt.Fprintf(os.Stderr, "\nread error: %v\n", err)
			return
		}

		if len(line) > 0 {
			_, _ = os.Stdout.Write(line)
		}

		if !pidfile.IsRunning(pid) {
			remaining, _ := io.ReadAll(reader)
			if len(remaining) > 0 {
				_, _ = os.Stdout.Write(remaining)
			}
			logger.ProcessExited(jobName, pid)
			return
		}

		select {
		case <-sigCh:
			logger.Detach(jobName)
			return
		case <-time.After(100 * time.Millisecond):
		}
	}
}

// seekToLastNLines positions the file so that the last n lines remain
// to be read. Scans backward from EOF in chunks for memory efficiency.
func seekToLastNLines(f *os.File, n int) {
	const chunkSize = 8192

	fi, err := f.Stat()
	if err != nil || fi.Size() == 0 {
		return
	}

	size := fi.Size()
	buf := make([]byte, chunkSize)
	newlines := 0
	offset := size
	firstChunk := true

	for offset > 0 {
		readSize := int64(chunkSize)
		if readSize > offset {
			readSize = offset
		}
		offset -= readSize

		nRead, err := f.ReadAt(buf[:readSize], offset)
		if err != nil && err != io.EOF {
			_, _ = f.Seek(0, io.SeekStart)
			return
		}

		startIdx := nRead - 1
		if firstChunk && nRead > 0 && buf[nRead-1] == '\n' {
			startIdx = nRead - 2
		}
		firstChunk = false

		for i := startIdx; i >= 0; i-- {
			if buf[i] == '\n' {
				newlines++
				if newlines >= n {
					_, _ = f.Seek(offset+int64(i)+1, io.SeekStart)
					return
				}
			}
		}
	}

	_, _ = f.Seek(0, io.SeekStart)
}

func init() {
	logsCmd.Flags().IntVar(&tailLines, "tail", 0, "Number of lines to show from the end of the log")
	logsCmd.Flags().BoolVar(&noFollow, "no-follow", false, "Print existing log and exit without streaming")
	rootCmd.AddCommand(logsCmd)
}
