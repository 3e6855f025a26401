package procstat

import (
	"os"
	"strconv"
	"strings"
)

const supported = true

// clockTicksPerSecond is the kernel's USER_HZ, almost universally 100 on
// Linux; sysconf(_SC_CLK_TCK) is the correct way to discover it but not
// exposed by golang.org/x/sys/unix, so it is hard-coded here to the
// compile-time value glibc ships on every mainstream Linux target.
const clockTicksPerSecond = 100

// sample parses /proc/<pid>/stat the way spec.md §4.4 specifies: skip to
// the closing ')' of the command field (which may itself contain spaces
// or parentheses), then index remaining fields by position — field 14
// (utime), field 15 (stime), field 23 (vsize), all counted from field 1
// being the pid.
func sample(pid int) (Sample, bool) {
	raw, err := os.ReadFile("/proc/" + strconv.Itoa(pid) + "/stat")
	if err != nil {
		return Sample{}, false
	}

	content := string(raw)
	closeParen := strings.LastIndexByte(content, ')')
	if closeParen < 0 || closeParen+2 >= len(content) {
		return Sample{}, false
	}

	fields := strings.Fields(content[closeParen+2:])
	// fields[0] corresponds to stat field 3 (state); field N (1-indexed,
	// counting pid as field 1) is therefore fields[N-3].
	const (
		utimeField = 14
		stimeField = 15
		vsizeField = 23
	)
	need := vsizeField - 3
	if len(fields) <= need {
		return Sample{}, false
	}

	utime, err1 := strconv.ParseUint(fields[utimeField-3], 10, 64)
	stime, err2 := strconv.ParseUint(fields[stimeField-3], 10, 64)
	vsize, err3 := strconv.ParseUint(fields[vsizeField-3], 10, 64)
	if err1 != nil || err2 != nil || err3 != nil {
		return Sample{}, false
	}

	return Sample{
		CPUSeconds: float64(utime+stime) / clockTicksPerSecond,
		VirtualMiB: float64(vsize) / (1 << 20),
	}, true
}
