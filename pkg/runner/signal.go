package runner

import (
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sys/unix"

	"github.com/taker-project/unixrunner/internal/pkg/rlog"
)

// forwardedSignals mirrors spec.md §4.4's "Signal forwarding": SIGINT,
// SIGTERM and SIGQUIT delivered to the parent are turned into a SIGKILL
// of the child (through its process group, whose id Setsid makes equal to
// the child's pid, so it reaches the whole group) followed by a SIGKILL of
// the parent's own process group.
var forwardedSignals = []os.Signal{syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT}

// installSignalForwarding registers the process-wide forwarding behavior
// for the duration of one child's lifetime. Callers must have already
// registered that child via acquireActiveChild: the handler reads the pid
// to kill from activeChildPID itself, rather than from a value captured
// at installation time, so there is exactly one source of truth for
// "which child is active" even if a second registration path is ever
// added. The returned func restores the previous (default) disposition;
// spec.md §9's "saved and restored on scope exit" is expressed here as
// signal.Stop, Go's equivalent of restoring a saved sigaction.
func installSignalForwarding() (stop func()) {
	ch := make(chan os.Signal, 2)
	signal.Notify(ch, forwardedSignals...)

	done := make(chan struct{})
	go func() {
		for {
			select {
			case sig := <-ch:
				rlog.Debugf("forwarding %s to child group", sig)
				killChildAndSelf()
			case <-done:
				return
			}
		}
	}()

	return func() {
		signal.Stop(ch)
		close(done)
	}
}

// killChildAndSelf is the body of the forwarded-signal handler. It only
// ever reads the pid from activeChildPID and issues kills; per spec.md §5
// it never mutates runner state, and EPERM/ESRCH from a race against an
// already-reaped child are ignored, not surfaced.
func killChildAndSelf() {
	if pid := activeChildPID.Load(); pid != 0 {
		_ = unix.Kill(-int(pid), unix.SIGKILL)
	}
	_ = unix.Kill(0, unix.SIGKILL)
}
