//go:build unix

package runner

import (
	"time"

	"golang.org/x/sys/unix"

	"github.com/taker-project/unixrunner/internal/pkg/platform"
	"github.com/taker-project/unixrunner/internal/pkg/platform/procstat"
)

// pollInterval is the monitor loop's sampling resolution, spec.md §4.4.
const pollInterval = 10 * time.Millisecond

// monitorChild is the parent's monitor loop, spec.md §4.4: poll the child
// non-blockingly, refresh live CPU/memory samples while it runs, evaluate
// limits every tick, and translate the final wait status plus rusage into
// a verdict once the child changes state.
func monitorChild(pid int, timer *platform.Timer, params Parameters) RunResults {
	results := newRunResults()
	results.Status = StatusRunning

	var peakLiveMemoryMiB float64
	sampledLive := false

	for {
		var ws unix.WaitStatus
		var ru unix.Rusage

		wpid, err := unix.Wait4(pid, &ws, unix.WNOHANG|unix.WUNTRACED, &ru)
		switch {
		case err != nil:
			_ = unix.Kill(pid, unix.SIGKILL)
			results.Status = StatusRunFail
			results.Comment = platform.DecodeErrno("wait4 failed", err)
			return results

		case wpid == 0:
			// Child is still running.
			if sample, ok := procstat.Sample(pid); ok {
				sampledLive = true
				results.Time = sample.CPUSeconds
				if sample.VirtualMiB > peakLiveMemoryMiB {
					peakLiveMemoryMiB = sample.VirtualMiB
				}
				results.Memory = peakLiveMemoryMiB
			}
			results.ClockTime = timer.ElapsedSeconds()

			if evaluateLimits(&results, params) {
				_ = unix.Kill(pid, unix.SIGKILL)
				var reapStatus unix.WaitStatus
				_, _ = unix.Wait4(pid, &reapStatus, 0, nil)
				return results
			}

			time.Sleep(pollInterval)

		default:
			if ws.Stopped() {
				// spec.md §9: a stopped child is a non-terminal state;
				// keep polling, never attempt to resume it. Sleep the same
				// as the still-running branch so a repeatedly stopped
				// child doesn't busy-spin the parent.
				time.Sleep(pollInterval)
				continue
			}

			results.ClockTime = timer.ElapsedSeconds()
			results.Time = platform.TimevalToSeconds(platform.SumTimeval(ru.Utime, ru.Stime))
			if !sampledLive {
				results.Memory = float64(ru.Maxrss) * platform.MaxRSSUnitBytes / (1 << 20)
				results.Comment = "memory measurement is not precise!"
			}

			translateWaitStatus(&results, ws)
			// Re-evaluate once more: a runaway SIGKILLed for exceeding a
			// limit must still report that limit, not RUNTIME_ERROR
			// (spec.md §4.4, "After this translation...").
			evaluateLimits(&results, params)
			return results
		}
	}
}

// evaluateLimits checks the three independent ceilings and reports
// whether any was exceeded. Checks run time, then idle, then memory, so
// when several are exceeded on the same tick the last assignment wins —
// the reference priority from spec.md §4.4: memory dominates idle
// dominates time.
func evaluateLimits(r *RunResults, p Parameters) bool {
	exceeded := false
	if r.Time > p.TimeLimit {
		r.Status = StatusTimeLimit
		exceeded = true
	}
	if r.ClockTime > p.IdleLimit {
		r.Status = StatusIdleLimit
		exceeded = true
	}
	if r.Memory > p.MemoryLimit {
		r.Status = StatusMemoryLimit
		exceeded = true
	}
	return exceeded
}

// translateWaitStatus maps a terminal wait status onto exitCode/signal/
// status, spec.md §4.4's "Final translation from wait-status".
func translateWaitStatus(r *RunResults, ws unix.WaitStatus) {
	switch {
	case ws.Exited():
		r.ExitCode = ws.ExitStatus()
		r.Signal = 0
		if r.ExitCode == 0 {
			r.Status = StatusOK
		} else {
			r.Status = StatusRuntimeError
		}
	case ws.Signaled():
		sig := ws.Signal()
		r.ExitCode = 0
		r.Signal = int(sig)
		r.SignalName = sig.String()
		r.Status = StatusRuntimeError
	}
}
