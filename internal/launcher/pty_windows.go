//go:build windows

package launcher

import (
	"os"
	"os/exec"
)

func hasPTYSupport() bool { return false }

func isTerminal(_ *os.File) bool { return false }

func execWithPTY(_ *exec.Cmd) error {
	panic("execWithPTY called on unsupported platform")
}
