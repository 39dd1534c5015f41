package launcher

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/3218923350/ai4s-enum/internal/config"
	"github.com/3218923350/ai4s-enum/internal/logger"
	"github.com/3218923350/ai4s-enum/internal/pidfile"
)

func init() {
	logger.SetOutput(os.Stderr)
}

func testJob(t *testing.T, command ...string) config.Job {
	t.Helper()
	dir := t.TempDir()
	return config.Job{
		Name:    "test-job",
		Dir:     dir,
		Command: command,
		LogFile: filepath.Join(dir, "test-job.log"),
	}
}

func writeEnvFile(t *testing.T, job *config.Job, content string) {
	t.Helper()
	path := filepath.Join(job.Dir, ".env")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	job.EnvFile = path
}

func killLater(t *testing.T, pid int) {
	t.Helper()
	t.Cleanup(func() { _ = pidfile.GracefulKill(pid, time.Second) })
}

// waitForLog polls the log file until it contains want or the timeout
// expires. The child writes asynchronously after Launch returns.
func waitForLog(t *testing.T, path, want string) string {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	var last string
	for time.Now().Before(deadline) {
		data, err := os.ReadFile(path)
		if err == nil {
			last = string(data)
			if strings.Contains(last, want) {
				return last
			}
		}
		time.Sleep(50 * time.Millisecond)
	}
	t.Fatalf("log %s never contained %q, last content: %q", path, want, last)
	return ""
}

func TestLaunchWritesEnvToLog(t *testing.T) {
	job := testJob(t, "sh", "-c", `echo "$FOO"`)
	writeEnvFile(t, &job, "FOO=bar\n")

	pid, err := Launch(job, Options{})
	if err != nil {
		t.Fatalf("Launch() error: %v", err)
	}
	if pid <= 0 {
		t.Fatalf("Launch() pid = %d, want > 0", pid)
	}
	killLater(t, pid)

	waitForLog(t, job.LogFile, "bar")
}

func TestLaunchRunsInJobDir(t *testing.T) {
	job := testJob(t, "sh", "-c", "pwd")

	pid, err := Launch(job, Options{})
	if err != nil {
		t.Fatalf("Launch() error: %v", err)
	}
	killLater(t, pid)

	waitForLog(t, job.LogFile, job.Dir)
}

func TestLaunchCombinesStderr(t *testing.T) {
	job := testJob(t, "sh", "-c", "echo to-stdout; echo to-stderr >&2")

	pid, err := Launch(job, Options{})
	if err != nil {
		t.Fatalf("Launch() error: %v", err)
	}
	killLater(t, pid)

	out := waitForLog(t, job.LogFile, "to-stderr")
	if !strings.Contains(out, "to-stdout") {
		t.Errorf("log missing stdout line: %q", out)
	}
}

func TestLaunchMissingDir(t *testing.T) {
	job := config.Job{
		Name:    "bad",
		Dir:     "/nonexistent/path/xyz",
		Command: []string{"sh", "-c", "true"},
		LogFile: filepath.Join(t.TempDir(), "bad.log"),
	}

	pid, err := Launch(job, Options{})
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if pid != 0 {
		t.Errorf("pid = %d, want 0", pid)
	}
	if !strings.Contains(err.Error(), "does not exist") {
		t.Errorf("error = %q, want containing 'does not exist'", err.Error())
	}
	if _, statErr := os.Stat(job.LogFile); !os.IsNotExist(statErr) {
		t.Error("log file should not be created when the dir check fails")
	}
}

func TestLaunchDirIsFile(t *testing.T) {
	dir := t.TempDir()
	f := filepath.Join(dir, "file.txt")
	if err := os.WriteFile(f, []byte("hello"), 0644); err != nil {
		t.Fatal(err)
	}

	job := config.Job{
		Name:    "bad",
		Dir:     f,
		Command: []string{"sh", "-c", "true"},
		LogFile: filepath.Join(dir, "bad.log"),
	}

	_, err := Launch(job, Options{})
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if !strings.Contains(err.Error(), "is not a directory") {
		t.Errorf("error = %q, want containing 'is not a directory'", err.Error())
	}
}

func TestLaunchMissingEnvFile(t *testing.T) {
	job := testJob(t, "sh", "-c", "true")
	job.EnvFile = filepath.Join(job.Dir, "nope.env")

	pid, err := Launch(job, Options{})
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if pid != 0 {
		t.Errorf("pid = %d, want 0", pid)
	}
	if !strings.Contains(err.Error(), "failed to load env file") {
		t.Errorf("error = %q, want containing 'failed to load env file'", err.Error())
	}
	if _, statErr := os.Stat(job.LogFile); !os.IsNotExist(statErr) {
		t.Error("log file should not be created when the env check fails")
	}
}

func TestLaunchDoesNotWaitForChild(t *testing.T) {
	job := testJob(t, "sh", "-c", "sleep 30")

	start := time.Now()
	pid, err := Launch(job, Options{})
	elapsed := time.Since(start)

	if err != nil {
		t.Fatalf("Launch() error: %v", err)
	}
	killLater(t, pid)

	if elapsed > 2*time.Second {
		t.Errorf("Launch() took %v with a sleeping child, want prompt return", elapsed)
	}
}

func TestLaunchOverwritesLog(t *testing.T) {
	job := testJob(t, "sh", "-c", "echo fresh")
	if err := os.WriteFile(job.LogFile, []byte("stale content\n"), 0644); err != nil {
		t.Fatal(err)
	}

	pid, err := Launch(job, Options{})
	if err != nil {
		t.Fatalf("Launch() error: %v", err)
	}
	killLater(t, pid)

	out := waitForLog(t, job.LogFile, "fresh")
	if strings.Contains(out, "stale content") {
		t.Errorf("log still contains previous content: %q", out)
	}
}

func TestLaunchAppendKeepsLog(t *testing.T) {
	job := testJob(t, "sh", "-c", "echo fresh")
	if err := os.WriteFile(job.LogFile, []byte("previous run\n"), 0644); err != nil {
		t.Fatal(err)
	}

	pid, err := Launch(job, Options{Append: true})
	if err != nil {
		t.Fatalf("Launch() error: %v", err)
	}
	killLater(t, pid)

	out := waitForLog(t, job.LogFile, "fresh")
	if !strings.Contains(out, "previous run") {
		t.Errorf("append mode lost previous content: %q", out)
	}
}

func TestLaunchTwiceSpawnsTwoChildren(t *testing.T) {
	job := testJob(t, "sh", "-c", "sleep 30")

	pid1, err := Launch(job, Options{})
	if err != nil {
		t.Fatalf("first Launch() error: %v", err)
	}
	killLater(t, pid1)

	pid2, err := Launch(job, Options{})
	if err != nil {
		t.Fatalf("second Launch() error: %v", err)
	}
	killLater(t, pid2)

	if pid1 == pid2 {
		t.Errorf("both launches returned PID %d, want independent children", pid1)
	}
}

func TestLaunchAll(t *testing.T) {
	oldBase := pidfile.BaseDir
	pidfile.BaseDir = t.TempDir()
	defer func() { pidfile.BaseDir = oldBase }()

	jobA := testJob(t, "sh", "-c", "echo a-done")
	jobA.Name = "job-a"
	jobB := testJob(t, "sh", "-c", "echo b-done")
	jobB.Name = "job-b"

	cfg := &config.Config{Jobs: []config.Job{jobA, jobB}}
	if err := LaunchAll(cfg, "testcfg", Options{}); err != nil {
		t.Fatalf("LaunchAll() error: %v", err)
	}

	entries, err := pidfile.LoadAll("testcfg")
	if err != nil {
		t.Fatalf("LoadAll() error: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("len(entries) = %d, want 2", len(entries))
	}
	for _, name := range []string{"job-a", "job-b"} {
		recorded, ok := entries[name]
		if !ok || len(recorded) != 1 {
			t.Fatalf("job %q not recorded: %v", name, entries)
		}
		killLater(t, recorded[0].PID)
		if recorded[0].PID <= 0 {
			t.Errorf("job %q recorded PID %d, want > 0", name, recorded[0].PID)
		}
	}

	waitForLog(t, jobA.LogFile, "a-done")
	waitForLog(t, jobB.LogFile, "b-done")
}

func TestLaunchAllAbortsOnBadJob(t *testing.T) {
	oldBase := pidfile.BaseDir
	pidfile.BaseDir = t.TempDir()
	defer func() { pidfile.BaseDir = oldBase }()

	bad := config.Job{
		Name:    "bad",
		Dir:     "/nonexistent/path/xyz",
		Command: []string{"sh", "-c", "true"},
		LogFile: filepath.Join(t.TempDir(), "bad.log"),
	}
	after := testJob(t, "sh", "-c", "echo ran")
	after.Name = "after"

	cfg := &config.Config{Jobs: []config.Job{bad, after}}
	err := LaunchAll(cfg, "testcfg", Options{})
	if err == nil {
		t.Fatal("expected error, got nil")
	}

	entries, loadErr := pidfile.LoadAll("testcfg")
	if loadErr != nil {
		t.Fatalf("LoadAll() error: %v", loadErr)
	}
	if len(entries) != 0 {
		t.Errorf("entries = %v, want none after aborted launch", entries)
	}
	if _, statErr := os.Stat(after.LogFile); !os.IsNotExist(statErr) {
		t.Error("jobs after the failed one should not have been launched")
	}
}
