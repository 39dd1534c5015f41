//go:build windows

package pidfile

import (
	"os"
	"time"
)

func IsRunning(pid int) bool {
	p, err := os.FindProcess(pid)
	if err != nil {
		return false
	}
	// On Windows, Signal only supports os.Kill and os.Interrupt.
	// If Kill returns "process already finished", the process is dead.
	return p.Signal(os.Kill) == nil
}

// GracefulKill has no SIGTERM equivalent on Windows; the process is
// terminated directly.
func GracefulKill(pid int, _ time.Duration) error {
	p, err := os.FindProcess(pid)
	if err != nil {
		return err
	}
	return p.Kill()
}
