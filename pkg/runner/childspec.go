package runner

import (
	"encoding/json"
	"io"
	"math"
)

// childSpec is the message the parent hands the re-executed child stage
// over the spec pipe (see stage.go). It carries everything spec.md §4.3's
// child-preparation steps need, already resolved from Parameters — in
// particular the RLIMIT values, which are derived from TimeLimit/
// MemoryLimit once, on the parent side, rather than recomputed by the
// child.
type childSpec struct {
	Executable string            `json:"executable"`
	Args       []string          `json:"args"`
	Env        map[string]string `json:"env"`
	ClearEnv   bool              `json:"clear_env"`
	WorkingDir string            `json:"working_dir"`

	StdinRedir  string `json:"stdin_redir"`
	StdoutRedir string `json:"stdout_redir"`
	StderrRedir string `json:"stderr_redir"`

	CPULimitSeconds  uint64 `json:"cpu_limit_seconds"`
	MemoryLimitBytes uint64 `json:"memory_limit_bytes"`
}

// cpuLimitSlack is added to TimeLimit before installing RLIMIT_CPU so the
// kernel does not race the parent's own time-limit check — spec.md §4.3:
// "the +0.2 slack prevents the kernel from killing the child before the
// parent's own check fires and wins the race". This is the specified
// behavior per spec.md §9's resolved open question, not the ceil(timeLimit)
// variant also seen in one revision of the original source.
const cpuLimitSlack = 0.2

// memoryLimitMultiplier is applied to MemoryLimit before installing
// RLIMIT_AS/DATA/STACK. The 2x multiplier is deliberate policy (spec.md
// §4.3): the parent's live sampling is the authoritative memory verdict,
// RLIMITs are only a final safety net.
const memoryLimitMultiplier = 2

func newChildSpec(p Parameters) childSpec {
	return childSpec{
		Executable:       p.Executable,
		Args:             append([]string(nil), p.Args...),
		Env:              p.Env,
		ClearEnv:         p.ClearEnv,
		WorkingDir:       p.WorkingDir,
		StdinRedir:       p.StdinRedir,
		StdoutRedir:      p.StdoutRedir,
		StderrRedir:      p.StderrRedir,
		CPULimitSeconds:  uint64(math.Ceil(p.TimeLimit + cpuLimitSlack)),
		MemoryLimitBytes: uint64(p.MemoryLimit * memoryLimitMultiplier * (1 << 20)),
	}
}

// writeChildSpec encodes spec as JSON onto w, the parent's write end of
// the spec pipe.
func writeChildSpec(w io.Writer, spec childSpec) error {
	return json.NewEncoder(w).Encode(spec)
}
