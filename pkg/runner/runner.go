//go:build unix

package runner

import (
	"fmt"
	"os"
	"os/exec"
	"syscall"

	"golang.org/x/sys/unix"

	"github.com/taker-project/unixrunner/internal/pkg/platform"
	"github.com/taker-project/unixrunner/internal/pkg/rerrors"
	"github.com/taker-project/unixrunner/internal/pkg/rlog"
)

// Runner executes a single child program under the limits described by
// its Parameters, and records the outcome in its RunResults. A Runner
// holds one Parameters/RunResults pair; spec.md §3's lifecycle ("a caller
// mutates [defaults], then invokes execute() exactly once") is enforced
// by rejecting re-entrant Execute calls, not by discarding the Runner
// after use.
type Runner struct {
	Params  Parameters
	results RunResults
}

// New returns a Runner with default Parameters (spec.md §3).
func New() *Runner {
	return &Runner{
		Params:  NewParameters(),
		results: newRunResults(),
	}
}

// Results returns the outcome of the most recently completed Execute
// call. It holds a StatusNone result until Execute returns.
func (r *Runner) Results() RunResults {
	return r.results
}

// Execute validates r.Params, runs the child to completion (or until a
// limit kills it), and populates r.Results. A panic escaping the monitor
// loop is recovered here and mapped to RUN_FAIL, per spec.md §7.
func (r *Runner) Execute() {
	defer func() {
		if rec := recover(); rec != nil {
			r.results = newRunResults()
			r.results.Status = StatusRunFail
			r.results.Comment = fmt.Sprintf("internal error: %v", rec)
		}
	}()
	r.results = r.doExecute()
}

func (r *Runner) doExecute() RunResults {
	results := newRunResults()

	if err := r.Params.Validate(); err != nil {
		results.Status = StatusRunFail
		results.Comment = err.Error()
		return results
	}

	cmd, specW, failR, err := startChildStage(r.Params)
	if err != nil {
		results.Status = StatusRunFail
		results.Comment = err.Error()
		return results
	}

	lock, err := acquireActiveChild(cmd.Process.Pid)
	if err != nil {
		_ = cmd.Process.Kill()
		results.Status = StatusRunFail
		results.Comment = err.Error()
		return results
	}
	defer lock.release()

	stopForwarding := installSignalForwarding()
	defer stopForwarding()

	timer := platform.NewTimer()

	if err := specW.Close(); err != nil {
		rlog.Warningf("closing spec pipe write end: %s", err)
	}

	handshake, err := readFailure(failR)
	if err != nil {
		results.Status = StatusRunFail
		results.Comment = rerrors.WrapOS(err, "failure pipe handshake").Error()
		_ = cmd.Process.Kill()
		reapChild(cmd.Process.Pid)
		return results
	}
	if !handshake.Exited {
		results.Status = StatusRunFail
		results.Comment = rerrors.NewChildPreExecError(handshake.Message, nil).Error()
		reapChild(cmd.Process.Pid)
		return results
	}

	return monitorChild(cmd.Process.Pid, timer, r.Params)
}

// startChildStage re-executes this binary into the child preparation
// stage (see stage.go), handing it the spec pipe's read end and the
// failure pipe's write end as inherited file descriptors, and writes the
// child spec to the spec pipe. It returns the started command and the
// parent's ends of both pipes; the caller is responsible for closing specW
// and reading failR.
func startChildStage(p Parameters) (cmd *exec.Cmd, specW *os.File, failR *os.File, err error) {
	self, err := os.Executable()
	if err != nil {
		return nil, nil, nil, rerrors.WrapOS(err, "locating own executable for re-exec")
	}

	specR, specWLocal, err := os.Pipe()
	if err != nil {
		return nil, nil, nil, rerrors.WrapOS(err, "creating spec pipe")
	}
	failRLocal, failW, err := os.Pipe()
	if err != nil {
		specR.Close()
		specWLocal.Close()
		return nil, nil, nil, rerrors.WrapOS(err, "creating failure pipe")
	}

	cmd = exec.Command(self)
	cmd.Env = append(os.Environ(), stageEnvVar+"=1")
	cmd.ExtraFiles = []*os.File{specR, failW}
	cmd.Stdin = nil
	cmd.Stdout = nil
	cmd.Stderr = os.Stderr
	// New session/process group: this attribute is applied in the forked
	// process before it execs the stage, so it survives the stage's later
	// exec into the real target (spec.md §4.3 step 1).
	cmd.SysProcAttr = &syscall.SysProcAttr{Setsid: true}

	if err := cmd.Start(); err != nil {
		specR.Close()
		specWLocal.Close()
		failRLocal.Close()
		failW.Close()
		return nil, nil, nil, rerrors.WrapOS(err, "starting child preparation stage")
	}

	// The child now owns its copies of specR/failW; release ours.
	specR.Close()
	failW.Close()

	spec := newChildSpec(p)
	if err := writeChildSpec(specWLocal, spec); err != nil {
		specWLocal.Close()
		failRLocal.Close()
		_ = cmd.Process.Kill()
		reapChild(cmd.Process.Pid)
		return nil, nil, nil, rerrors.WrapOS(err, "writing child spec")
	}

	return cmd, specWLocal, failRLocal, nil
}

// reapChild performs a blocking reap of pid on the startup paths, once the
// child has been SIGKILLed or has exited after reporting a pre-exec
// failure. The monitor loop reaps a limit-killed child itself.
func reapChild(pid int) {
	var ws unix.WaitStatus
	_, _ = unix.Wait4(pid, &ws, 0, nil)
}
