//go:build !windows

package launcher

import (
	"os/exec"
	"syscall"
)

// setSysProcAttr places the child in its own session so it keeps running
// after the parent exits and never sees signals sent to the parent's
// controlling terminal.
func setSysProcAttr(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setsid: true}
}
