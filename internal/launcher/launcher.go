package launcher

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/3218923350/ai4s-enum/internal/config"
	"github.com/3218923350/ai4s-enum/internal/envfile"
	"github.com/3218923350/ai4s-enum/internal/logger"
	"github.com/3218923350/ai4s-enum/internal/pidfile"
)

type Options struct {
	// Append opens the log file in append mode instead of truncating it.
	Append bool
}

// Launch starts the job's command as a detached background process:
// working directory set to the job dir, environment extended from the
// job's env file, stdout and stderr combined into the job's log file,
// and the child placed outside the parent's session so it survives the
// parent's exit. The handle is released immediately and never waited on.
//
// The only fatal conditions are a bad job directory and a bad env file;
// both are checked before anything is spawned. Once the child has
// started, Launch reports success regardless of what the child later does.
func Launch(job config.Job, opts Options) (int, error) {
	if err := validateJobDir(job); err != nil {
		return 0, err
	}

	env, err := jobEnvironment(job)
	if err != nil {
		return 0, err
	}

	logFile, err := openLogFile(job.LogFile, opts.Append)
	if err != nil {
		return 0, err
	}

	cmd := exec.Command(job.Command[0], job.Command[1:]...)
	cmd.Dir = job.Dir
	cmd.Env = env
	cmd.Stdin = nil
	cmd.Stdout = logFile
	cmd.Stderr = logFile
	setSysProcAttr(cmd)

	if err := cmd.Start(); err != nil {
		_ = logFile.Close()
		return 0, fmt.Errorf("job %q: failed to start %q: %w", job.Name, job.CommandLine(), err)
	}

	// The child holds its own descriptor now.
	_ = logFile.Close()

	pid := cmd.Process.Pid
	_ = cmd.Process.Release()
	return pid, nil
}

// LaunchAll launches every job in the config in order and records each
// PID in the registry. The first pre-spawn failure aborts the remaining
// jobs; already-launched children keep running.
func LaunchAll(cfg *config.Config, configName string, opts Options) error {
	for _, job := range cfg.Jobs {
		logger.Launch(job.Name, job.CommandLine())

		pid, err := Launch(job, opts)
		if err != nil {
			logger.Fail(job.Name, job.CommandLine(), err)
			return err
		}

		if err := pidfile.Append(configName, job.Name, pidfile.Entry{
			PID:     pid,
			Command: job.Command,
			Dir:     job.Dir,
			EnvFile: job.EnvFile,
			LogFile: job.LogFile,
		}); err != nil {
			logger.Warn(job.Name, fmt.Sprintf("failed to record PID %d: %v", pid, err))
		}

		logger.Background(job.Name, job.CommandLine(), pid)
	}
	return nil
}

func validateJobDir(job config.Job) error {
	info, err := os.Stat(job.Dir)
	if err != nil {
		return fmt.Errorf("job %q: dir %q does not exist: %w", job.Name, job.Dir, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("job %q: dir %q is not a directory", job.Name, job.Dir)
	}
	return nil
}

func jobEnvironment(job config.Job) ([]string, error) {
	if job.EnvFile == "" {
		return os.Environ(), nil
	}
	env, err := envfile.Load(job.EnvFile)
	if err != nil {
		return nil, fmt.Errorf("job %q: %w", job.Name, err)
	}
	return env, nil
}

func openLogFile(path string, appendMode bool) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory for %q: %w", path, err)
	}
	flags := os.O_CREATE | os.O_WRONLY | os.O_TRUNC
	if appendMode {
		flags = os.O_CREATE | os.O_WRONLY | os.O_APPEND
	}
	f, err := os.OpenFile(path, flags, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file %q: %w", path, err)
	}
	return f, nil
}
