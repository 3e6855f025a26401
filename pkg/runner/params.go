// Package runner implements the sandboxed process runner: the Parameters/
// RunResults contract, child preparation, and the parent monitor and
// verdict engine described in spec.md.
package runner

import (
	"encoding/json"

	"github.com/taker-project/unixrunner/internal/pkg/platform"
	"github.com/taker-project/unixrunner/internal/pkg/rerrors"
)

// Default parameter values, spec.md §3.
const (
	DefaultTimeLimit   = 2.0
	DefaultIdleLimit   = 7.0
	DefaultMemoryLimit = 256.0
	// idleLimitMultiplier is applied to TimeLimit when idle-limit is
	// absent from the input JSON (spec.md §6).
	idleLimitMultiplier = 3.5
)

// Parameters is the runner's input contract: limits, the program to run,
// its environment, and its stream redirections. A Parameters value is
// immutable once Validate succeeds.
type Parameters struct {
	TimeLimit   float64 `json:"time-limit"`
	IdleLimit   float64 `json:"idle-limit"`
	MemoryLimit float64 `json:"memory-limit"`

	Executable string   `json:"executable"`
	Args       []string `json:"args"`

	ClearEnv bool              `json:"clear-env"`
	Env      map[string]string `json:"env"`

	WorkingDir string `json:"working-dir"`

	StdinRedir  string `json:"stdin-redir"`
	StdoutRedir string `json:"stdout-redir"`
	StderrRedir string `json:"stderr-redir"`
}

// NewParameters returns a Parameters value populated with spec.md §3's
// defaults.
func NewParameters() Parameters {
	return Parameters{
		TimeLimit:   DefaultTimeLimit,
		IdleLimit:   DefaultIdleLimit,
		MemoryLimit: DefaultMemoryLimit,
	}
}

// paramsWire is the decode-time wire shape: its pointer fields let the
// JSON codec tell apart "idle-limit omitted" from "idle-limit explicitly equal to the
// default", since the former derives its default from time-limit instead
// of from a fixed constant (spec.md §6).
type paramsWire struct {
	TimeLimit   *float64          `json:"time-limit"`
	IdleLimit   *float64          `json:"idle-limit"`
	MemoryLimit *float64          `json:"memory-limit"`
	Executable  *string           `json:"executable"`
	Args        []string          `json:"args"`
	ClearEnv    *bool             `json:"clear-env"`
	Env         map[string]string `json:"env"`
	WorkingDir  *string           `json:"working-dir"`
	StdinRedir  *string           `json:"stdin-redir"`
	StdoutRedir *string           `json:"stdout-redir"`
	StderrRedir *string           `json:"stderr-redir"`
}

// DecodeParameters parses a Parameters JSON document, applying spec.md §3
// defaults for any absent key and the idle-limit-from-time-limit rule for
// an absent "idle-limit".
func DecodeParameters(data []byte) (Parameters, error) {
	var wire paramsWire
	if err := json.Unmarshal(data, &wire); err != nil {
		return Parameters{}, rerrors.WrapValidation(err, "malformed parameters JSON")
	}

	p := NewParameters()
	if wire.TimeLimit != nil {
		p.TimeLimit = *wire.TimeLimit
	}
	if wire.IdleLimit != nil {
		p.IdleLimit = *wire.IdleLimit
	} else {
		p.IdleLimit = idleLimitMultiplier * p.TimeLimit
	}
	if wire.MemoryLimit != nil {
		p.MemoryLimit = *wire.MemoryLimit
	}
	if wire.Executable != nil {
		p.Executable = *wire.Executable
	}
	p.Args = wire.Args
	if wire.ClearEnv != nil {
		p.ClearEnv = *wire.ClearEnv
	}
	p.Env = wire.Env
	if wire.WorkingDir != nil {
		p.WorkingDir = *wire.WorkingDir
	}
	if wire.StdinRedir != nil {
		p.StdinRedir = *wire.StdinRedir
	}
	if wire.StdoutRedir != nil {
		p.StdoutRedir = *wire.StdoutRedir
	}
	if wire.StderrRedir != nil {
		p.StderrRedir = *wire.StderrRedir
	}
	return p, nil
}

// Validate checks the invariants spec.md §3/§4.2 place on Parameters.
// Writable checks on output redirections are deliberately not performed
// (those files are created, not required to pre-exist — spec.md §4.2).
func (p Parameters) Validate() error {
	if p.TimeLimit <= 0 {
		return rerrors.NewValidationError("time-limit must be strictly positive, got %v", p.TimeLimit)
	}
	if p.IdleLimit <= 0 {
		return rerrors.NewValidationError("idle-limit must be strictly positive, got %v", p.IdleLimit)
	}
	if p.MemoryLimit <= 0 {
		return rerrors.NewValidationError("memory-limit must be strictly positive, got %v", p.MemoryLimit)
	}
	if !platform.IsExecutable(p.Executable) {
		return rerrors.NewValidationError("executable %q does not exist or is not executable", p.Executable)
	}
	if p.WorkingDir != "" && !platform.DirectoryExists(p.WorkingDir) {
		return rerrors.NewValidationError("working-dir %q is not a traversable directory", p.WorkingDir)
	}
	if p.StdinRedir != "" && !platform.IsReadable(p.StdinRedir) {
		return rerrors.NewValidationError("stdin-redir %q is not readable", p.StdinRedir)
	}
	return nil
}
