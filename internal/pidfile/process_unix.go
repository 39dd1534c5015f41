//go:build !windows

package pidfile

import (
	"os"
	"syscall"
	"time"
)

func IsRunning(pid int) bool {
	p, err := os.FindProcess(pid)
	if err != nil {
		return false
	}
	return p.Signal(syscall.Signal(0)) == nil
}

// GracefulKill sends SIGTERM, waits up to timeout for the process to
// exit, then falls back to SIGKILL. The child runs in its own session,
// so the signal must target the PID directly.
func GracefulKill(pid int, timeout time.Duration) error {
	p, err := os.FindProcess(pid)
	if err != nil {
		return err
	}
	if err := p.Signal(syscall.SIGTERM); err != nil {
		return err
	}

	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if !IsRunning(pid) {
			return nil
		}
		time.Sleep(100 * time.Millisecond)
	}
	return p.Signal(syscall.SIGKILL)
}
