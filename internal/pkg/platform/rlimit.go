package platform

import (
	"github.com/pkg/errors"
	"golang.org/x/sys/unix"
)

// SetLimit installs both the soft and hard ceiling of resource to value,
// clamped against the current hard ceiling.
//
// This is original_source's updateLimit(): read the current hard ceiling;
// if it is infinite, value becomes both soft and hard; otherwise both are
// set to min(value, current hard). The parent is the authoritative source
// of the eventual verdict — RLIMITs installed here are a last-resort
// safety net, not the mechanism that produces TIME_LIMIT/MEMORY_LIMIT.
func SetLimit(resource int, value uint64) error {
	var cur unix.Rlimit
	if err := unix.Getrlimit(resource, &cur); err != nil {
		return errors.Wrap(err, "getrlimit")
	}

	lim := unix.Rlimit{Cur: value, Max: value}
	if cur.Max != unix.RLIM_INFINITY && value > cur.Max {
		lim.Cur = cur.Max
		lim.Max = cur.Max
	}

	if err := unix.Setrlimit(resource, &lim); err != nil {
		return errors.Wrap(err, "setrlimit")
	}
	return nil
}
