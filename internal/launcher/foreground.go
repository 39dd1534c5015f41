package launcher

import (
	"fmt"
	"os"
	"os/exec"

	"github.com/3218923350/ai4s-enum/internal/config"
)

// RunForeground runs the job attached to the current terminal instead of
// detaching it. When stdout is a terminal and the platform supports it,
// the child runs inside a PTY so it behaves as it would interactively.
// The same pre-spawn checks apply as for Launch.
func RunForeground(job config.Job) error {
	if err := validateJobDir(job); err != nil {
		return err
	}

	env, err := jobEnvironment(job)
	if err != nil {
		return err
	}

	cmd := exec.Command(job.Command[0], job.Command[1:]...)
	cmd.Dir = job.Dir
	cmd.Env = env

	if hasPTYSupport() && isTerminal(os.Stdout) {
		if err := execWithPTY(cmd); err != nil {
			return fmt.Errorf("job %q: %w", job.Name, err)
		}
		return nil
	}

	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("job %q: command %q failed: %w", job.Name, job.CommandLine(), err)
	}
	return nil
}
