//go:build unix

package runner

import (
	"encoding/json"
	"io"
	"os"
	"os/exec"
	"syscall"

	"golang.org/x/sys/unix"

	"github.com/taker-project/unixrunner/internal/pkg/platform"
	"github.com/taker-project/unixrunner/internal/pkg/rerrors"
)

// childExitFailure is the internal-only exit status a child stage uses to
// signal that it reported a pre-exec failure down the failure pipe,
// spec.md §4.3: "A successful exec closes the write end... calling
// _exit(42)". It is never observable outside this process: the parent
// always reaps this exit status itself, inside the startup handshake,
// before it ever becomes a RunResults field.
const childExitFailure = 42

// runChildStage is the re-executed child stage's entire body. It is
// ordered exactly as spec.md §4.3 specifies: RLIMITs, chdir, stdio
// redirection, environment, argv, exec. Session/process-group membership
// (spec.md's step 1) is set by the parent on the exec.Cmd that launched
// this stage, since that applies in the forked process before it execs
// this stage and so carries across the exec performed here.
func runChildStage() {
	// The marker that got us here must never reach the target program's
	// environment, regardless of ClearEnv.
	os.Unsetenv(stageEnvVar)

	specFile := os.NewFile(stageSpecFD, "spec-pipe")
	failFile := os.NewFile(stageFailFD, "fail-pipe")
	// ExtraFiles descriptors are inherited without close-on-exec; set it so
	// a successful exec of the target closes the write end.
	syscall.CloseOnExec(stageFailFD)

	spec, err := decodeChildSpec(specFile)
	if err != nil {
		childFail(failFile, "reading child spec", err)
	}
	specFile.Close()

	if err := platform.SetLimit(unix.RLIMIT_CPU, spec.CPULimitSeconds); err != nil {
		childFail(failFile, "installing RLIMIT_CPU", err)
	}
	for _, res := range []int{unix.RLIMIT_AS, unix.RLIMIT_DATA, unix.RLIMIT_STACK} {
		if err := platform.SetLimit(res, spec.MemoryLimitBytes); err != nil {
			childFail(failFile, "installing memory RLIMIT", err)
		}
	}

	if spec.WorkingDir != "" {
		if err := os.Chdir(spec.WorkingDir); err != nil {
			childFail(failFile, "changing working directory", err)
		}
	}

	if err := platform.Redirect(0, spec.StdinRedir, os.O_RDONLY, 0); err != nil {
		childFail(failFile, "redirecting stdin", err)
	}
	if err := platform.Redirect(1, spec.StdoutRedir, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644); err != nil {
		childFail(failFile, "redirecting stdout", err)
	}
	if err := platform.Redirect(2, spec.StderrRedir, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644); err != nil {
		childFail(failFile, "redirecting stderr", err)
	}

	if spec.ClearEnv {
		os.Clearenv()
	}
	for k, v := range spec.Env {
		os.Setenv(k, v)
	}

	execPath := spec.Executable
	if needsPathLookup(execPath) {
		resolved, err := exec.LookPath(execPath)
		if err != nil {
			childFail(failFile, "resolving executable", err)
		}
		execPath = resolved
	}

	argv := append([]string{spec.Executable}, spec.Args...)
	err = syscall.Exec(execPath, argv, os.Environ())
	// Reaching this line at all is itself the failure spec.md §4.3 calls
	// out: exec only returns on error.
	childFail(failFile, "exec", err)
}

// needsPathLookup reports whether execPath has to be resolved against
// PATH, i.e. it names a bare command rather than a relative or absolute
// path (the same rule exec.Command/exec.LookPath apply).
func needsPathLookup(execPath string) bool {
	for _, c := range execPath {
		if c == '/' {
			return false
		}
	}
	return true
}

// childFail reports message/cause down the failure pipe and terminates
// the process with childExitFailure. It never returns.
//
// The failure is built as a rerrors.ChildPreExecError, spec.md §7's third
// error kind: a syscall failing in the child before exec, delivered
// through the failure pipe rather than returned in the usual Go sense.
func childFail(failFile *os.File, message string, cause error) {
	full := rerrors.NewChildPreExecError(message, cause)
	// Best effort: if the write itself fails there is nothing left to
	// report to, the parent will see a short read and fail the run as a
	// protocol violation instead.
	_ = writeFailure(failFile, full.Error())
	os.Exit(childExitFailure)
}

func decodeChildSpec(r io.Reader) (childSpec, error) {
	var spec childSpec
	err := json.NewDecoder(r).Decode(&spec)
	return spec, err
}
