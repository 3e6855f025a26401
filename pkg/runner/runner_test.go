//go:build unix

package runner

import (
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"

	"gotest.tools/v3/assert"
)

// TestMain lets the test binary itself serve as the re-exec target:
// startChildStage calls os.Executable(), which in a `go test` binary is
// the compiled test binary, so the child preparation stage must be
// reachable from here exactly as it is from cmd/unixrunner's main().
func TestMain(m *testing.M) {
	if IsChildStage() {
		RunChildStage()
		return
	}
	os.Exit(m.Run())
}

func newTestRunner(t *testing.T, configure func(*Parameters)) *Runner {
	t.Helper()
	r := New()
	r.Params.Executable = "/bin/true"
	configure(&r.Params)
	return r
}

func TestExecuteExitZero(t *testing.T) {
	r := newTestRunner(t, func(p *Parameters) {
		p.Executable = "/bin/true"
	})
	r.Execute()

	res := r.Results()
	assert.Equal(t, res.Status, StatusOK)
	assert.Equal(t, res.ExitCode, 0)
	assert.Equal(t, res.Signal, 0)
}

func TestExecuteExitNonZero(t *testing.T) {
	r := newTestRunner(t, func(p *Parameters) {
		p.Executable = "/bin/false"
	})
	r.Execute()

	res := r.Results()
	assert.Equal(t, res.Status, StatusRuntimeError)
	assert.Equal(t, res.ExitCode, 1)
	assert.Equal(t, res.Signal, 0)
}

func TestExecuteSignalDeath(t *testing.T) {
	shPath, err := exec.LookPath("sh")
	assert.NilError(t, err)

	r := newTestRunner(t, func(p *Parameters) {
		p.Executable = shPath
		p.Args = []string{"-c", "kill -SEGV $$"}
	})
	r.Execute()

	res := r.Results()
	assert.Equal(t, res.Status, StatusRuntimeError)
	assert.Equal(t, res.ExitCode, 0)
	assert.Assert(t, res.Signal != 0)
}

func TestExecuteTimeLimit(t *testing.T) {
	shPath, err := exec.LookPath("sh")
	assert.NilError(t, err)

	r := newTestRunner(t, func(p *Parameters) {
		p.Executable = shPath
		p.Args = []string{"-c", "while :; do :; done"}
		p.TimeLimit = 0.3
		p.IdleLimit = 10
		p.MemoryLimit = 64
	})
	r.Execute()

	res := r.Results()
	assert.Equal(t, res.Status, StatusTimeLimit)
}

func TestExecuteIdleLimit(t *testing.T) {
	sleepPath, err := exec.LookPath("sleep")
	assert.NilError(t, err)

	r := newTestRunner(t, func(p *Parameters) {
		p.Executable = sleepPath
		p.Args = []string{"5"}
		p.TimeLimit = 10
		p.IdleLimit = 0.3
		p.MemoryLimit = 64
	})

	start := time.Now()
	r.Execute()
	elapsed := time.Since(start)

	res := r.Results()
	assert.Equal(t, res.Status, StatusIdleLimit)
	assert.Assert(t, elapsed < 4*time.Second)
}

// TestExecuteMemoryLimit mirrors spec.md §8 scenario 6: a child that
// allocates and touches a buffer well past memoryLimit must be killed
// with status=MEMORY_LIMIT.
func TestExecuteMemoryLimit(t *testing.T) {
	shPath, err := exec.LookPath("sh")
	assert.NilError(t, err)

	r := newTestRunner(t, func(p *Parameters) {
		p.Executable = shPath
		// Materializes an 80 MiB string into the shell's own memory, well
		// past the 32 MiB memoryLimit below, then sleeps so the monitor
		// has time to sample it before the program would exit on its own.
		p.Args = []string{"-c", "v=$(head -c 83886080 /dev/zero | tr '\\0' 'a'); sleep 5"}
		p.TimeLimit = 10
		p.IdleLimit = 10
		p.MemoryLimit = 32
	})
	r.Execute()

	res := r.Results()
	assert.Equal(t, res.Status, StatusMemoryLimit)
}

func TestExecuteValidationFailureIsRunFail(t *testing.T) {
	r := newTestRunner(t, func(p *Parameters) {
		p.Executable = "/nonexistent/binary"
	})
	r.Execute()

	res := r.Results()
	assert.Equal(t, res.Status, StatusRunFail)
	assert.Assert(t, len(res.Comment) > 0)
}

func TestExecuteClearEnvAndEnvSubstitution(t *testing.T) {
	shPath, err := exec.LookPath("sh")
	assert.NilError(t, err)

	dir := t.TempDir()
	out := filepath.Join(dir, "out.txt")

	r := newTestRunner(t, func(p *Parameters) {
		p.Executable = shPath
		p.Args = []string{"-c", "printf env=%s \"$HELLO\""}
		p.ClearEnv = true
		p.Env = map[string]string{"HELLO": "world"}
		p.StdoutRedir = out
	})
	r.Execute()

	res := r.Results()
	assert.Equal(t, res.Status, StatusOK)

	data, err := os.ReadFile(out)
	assert.NilError(t, err)
	assert.Equal(t, string(data), "env=world")
}

func TestExecuteStdinRedirection(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.txt")
	out := filepath.Join(dir, "out.txt")
	assert.NilError(t, os.WriteFile(in, []byte("hello from stdin"), 0o644))

	catPath, err := exec.LookPath("cat")
	assert.NilError(t, err)

	r := newTestRunner(t, func(p *Parameters) {
		p.Executable = catPath
		p.StdinRedir = in
		p.StdoutRedir = out
	})
	r.Execute()

	res := r.Results()
	assert.Equal(t, res.Status, StatusOK)

	data, err := os.ReadFile(out)
	assert.NilError(t, err)
	assert.Equal(t, string(data), "hello from stdin")
}

func TestExecuteRejectsReentrantUseWhileRunning(t *testing.T) {
	sleepPath, err := exec.LookPath("sleep")
	assert.NilError(t, err)

	first := newTestRunner(t, func(p *Parameters) {
		p.Executable = sleepPath
		p.Args = []string{"1"}
	})

	done := make(chan struct{})
	go func() {
		first.Execute()
		close(done)
	}()

	// Give the first run a moment to register itself as the active child.
	time.Sleep(200 * time.Millisecond)

	second := newTestRunner(t, func(p *Parameters) {
		p.Executable = "/bin/true"
	})
	second.Execute()
	assert.Equal(t, second.Results().Status, StatusRunFail)

	<-done
}
