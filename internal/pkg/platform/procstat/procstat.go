// Package procstat samples a running child's live CPU time and memory
// footprint. It is Linux-only (via /proc/<pid>/stat); on other platforms
// Sample is a no-op that reports ok=false, and the parent monitor falls
// back to the final rusage at termination, exactly as spec.md §4.4
// describes ("When /proc is unavailable, the live sample is a no-op").
package procstat

// Sample is one point-in-time read of a process's cumulative CPU time and
// virtual memory size.
type Sample struct {
	CPUSeconds float64
	VirtualMiB float64
}

// Supported reports whether live sampling is available on this platform.
func Supported() bool {
	return supported
}

// Sample reads the current CPU time and virtual memory size of pid. ok is
// false if the sample could not be taken (platform unsupported, or the
// process has already exited).
func Sample(pid int) (s Sample, ok bool) {
	return sample(pid)
}
