package logger

import (
	"fmt"
	"io"
	"math/rand"
	"os"
	"strings"
	"sync"

	"github.com/jedib0t/go-pretty/v6/text"
	"golang.org/x/term"
)

var (
	mu  sync.Mutex
	out io.Writer = os.Stdout

	jobColors    = map[string]text.Colors{}
	colorPalette = []text.Color{
		text.FgHiGreen,
		text.FgHiMagenta,
		text.FgHiYellow,
		text.FgHiBlue,
		text.FgHiRed,
		text.FgGreen,
		text.FgMagenta,
		text.FgYellow,
		text.FgBlue,
		text.FgRed,
	}
	shuffledPalette []text.Color
	shuffleIdx      int
)

func init() {
	shufflePalette()
}

func shufflePalette() {
	shuffledPalette = make([]text.Color, len(colorPalette))
	copy(shuffledPalette, colorPalette)
	rand.Shuffle(len(shuffledPalette), func(i, j int) {
		shuffledPalette[i], shuffledPalette[j] = shuffledPalette[j], shuffledPalette[i]
	})
	shuffleIdx = 0
}

const defaultBorderWidth = 60

func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	out = w
}

func ResetColors() {
	mu.Lock()
	defer mu.Unlock()
	jobColors = map[string]text.Colors{}
	shufflePalette()
}

func getJobColor(jobName string) text.Colors {
	if c, ok := jobColors[jobName]; ok {
		return c
	}
	c := text.Colors{shuffledPalette[shuffleIdx%len(shuffledPalette)]}
	shuffleIdx++
	jobColors[jobName] = c
	return c
}

func prefix(jobName string) string {
	return getJobColor(jobName).Sprintf("%s", jobName)
}

func colorCmd(cmd string) string {
	return text.Colors{text.FgCyan}.Sprint(cmd)
}

func colorPID(pid int) string {
	return text.Colors{text.FgYellow}.Sprintf("%d", pid)
}

func terminalWidth() int {
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
		return w
	}
	return defaultBorderWidth
}

func writef(format string, args ...any) {
	mu.Lock()
	defer mu.Unlock()
	_, _ = fmt.Fprintf(out, format, args...)
}

func Border() {
	writef("%s\n", strings.Repeat("=", terminalWidth()))
}

func Launch(jobName, cmd string) {
	writef("🚀 [%s] Launching: %s\n", prefix(jobName), colorCmd(cmd))
}

func Background(jobName, cmd string, pid int) {
	writef("🔄 [%s] Background: %s (PID: %s)\n", prefix(jobName), colorCmd(cmd), colorPID(pid))
}

func Fail(jobName, cmd string, err error) {
	writef("❌ [%s] Failed: %s — %s\n", prefix(jobName), colorCmd(cmd), err)
}

func Stop(jobName, cmd string, pid int) {
	writef("🛑 [%s] Stopping: %s (PID: %s)\n", prefix(jobName), colorCmd(cmd), colorPID(pid))
}

func Stopped(jobName string) {
	writef("✅ [%s] Stopped successfully\n", prefix(jobName))
}

func Attach(jobName, cmd string, pid int) {
	writef("📎 [%s] Attached: %s (PID: %s)\n", prefix(jobName), colorCmd(cmd), colorPID(pid))
}

func Detach(jobName string) {
	writef("📎 [%s] Detached\n", prefix(jobName))
}

func ProcessExited(jobName string, pid int) {
	writef("💀 [%s] Process exited (PID: %s)\n", prefix(jobName), colorPID(pid))
}

func Warn(jobName, msg string) {
	writef("⚠️  [%s] %s\n", prefix(jobName), msg)
}
