package platform

import (
	"os"
	"syscall"
)

const (
	readPerm  = 0o444
	writePerm = 0o222
	execPerm  = 0o111
)

// effectivePermissions returns the stat mode bits that apply to the
// calling identity (owner bits if euid matches, else group bits if egid
// matches, else other bits), or -1 if the path does not exist or is not a
// type this runner is willing to touch.
//
// This mirrors original_source's filePermissions(): identity-matched
// lookup, advisory only, not a TOCTOU-safe access check.
func effectivePermissions(fileName string) int {
	var st syscall.Stat_t
	if err := syscall.Stat(fileName, &st); err != nil {
		return -1
	}

	switch st.Mode & syscall.S_IFMT {
	case syscall.S_IFREG, syscall.S_IFLNK, syscall.S_IFBLK, syscall.S_IFCHR:
	default:
		return -1
	}

	mode := int(st.Mode & 0o777)
	switch {
	case st.Uid == uint32(os.Geteuid()):
		return mode & 0o700
	case st.Gid == uint32(os.Getegid()):
		return mode & 0o070
	default:
		return mode & 0o007
	}
}

// IsGood reports whether fileName exists and is a type this runner will
// operate on (regular file, symlink, block or character device).
func IsGood(fileName string) bool {
	return effectivePermissions(fileName) >= 0
}

// IsReadable reports whether the calling identity can read fileName.
//
// effectivePermissions already narrows the stat mode down to a single
// owner/group/other triad, left in its original bit position, so a plain
// AND against a mask covering all three triads (readPerm/writePerm/
// execPerm) picks out the right bit regardless of which triad applied.
func IsReadable(fileName string) bool {
	bits := effectivePermissions(fileName)
	return bits >= 0 && bits&readPerm != 0
}

// IsWritable reports whether the calling identity can write fileName.
func IsWritable(fileName string) bool {
	bits := effectivePermissions(fileName)
	return bits >= 0 && bits&writePerm != 0
}

// IsExecutable reports whether the calling identity can execute fileName.
func IsExecutable(fileName string) bool {
	bits := effectivePermissions(fileName)
	return bits >= 0 && bits&execPerm != 0
}

// DirectoryExists reports whether fileName names a traversable directory.
func DirectoryExists(fileName string) bool {
	st, err := os.Stat(fileName)
	if err != nil {
		return false
	}
	return st.IsDir()
}
