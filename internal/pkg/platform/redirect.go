package platform

import (
	"os"

	"github.com/pkg/errors"
	"golang.org/x/sys/unix"
)

// nullDevice is substituted for an empty redirection path, matching
// spec.md §3's "an empty redirection path means attach this descriptor to
// the null device".
const nullDevice = "/dev/null"

// Redirect opens path (or /dev/null if path is empty) with flags/mode and
// duplicates it onto fd, closing the freshly opened descriptor afterward.
//
// Ported from original_source's redirectDescriptor(): errno from a failed
// dup2 is preserved across the cleanup close, though in this Go port the
// caller receives a wrapped error rather than inspecting errno directly.
func Redirect(fd int, path string, flags int, mode os.FileMode) error {
	if path == "" {
		path = nullDevice
	}

	src, err := unix.Open(path, flags, uint32(mode))
	if err != nil {
		return errors.Wrapf(err, "open %q", path)
	}
	defer unix.Close(src)

	if err := unix.Dup2(src, fd); err != nil {
		return errors.Wrapf(err, "dup2 onto fd %d", fd)
	}
	return nil
}
