package runner

import (
	"sync"
	"sync/atomic"

	"github.com/pkg/errors"
)

// activeChildPID is the process-global "active child" registration spec.md
// §5/§9 describes: a single word, read opportunistically from signal
// context, written only while constructing/destroying an activeChildLock.
// A zero value means no child is currently registered.
var activeChildPID atomic.Int64

// activeChildMu serializes construction of activeChildLock values; it is
// never touched from signal-handling code, only from the goroutine that
// owns Execute().
var activeChildMu sync.Mutex

// ErrAlreadyRunning is returned by acquireActiveChild when a Runner (or
// another Runner in the same process) already has a live child registered;
// Execute then reports RUN_FAIL with this error's text as the comment.
// spec.md §3: "Re-entering execute() while status = RUNNING fails
// deterministically."
var ErrAlreadyRunning = errors.New("a child is already registered for this process")

// activeChildLock is the scoped guard spec.md §9 calls for: acquiring it
// registers pid as the process-wide active child, and only one may be
// registered at a time. Releasing it (on every exit path, via defer)
// clears the registration.
type activeChildLock struct {
	pid int
}

func acquireActiveChild(pid int) (*activeChildLock, error) {
	activeChildMu.Lock()
	defer activeChildMu.Unlock()

	if !activeChildPID.CompareAndSwap(0, int64(pid)) {
		return nil, ErrAlreadyRunning
	}
	return &activeChildLock{pid: pid}, nil
}

func (l *activeChildLock) release() {
	activeChildPID.CompareAndSwap(int64(l.pid), 0)
}
