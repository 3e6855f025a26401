package runner

import "encoding/json"

// Status is the runner's verdict tag, spec.md §3.
type Status int

const (
	StatusOK Status = iota
	StatusTimeLimit
	StatusIdleLimit
	StatusMemoryLimit
	StatusRuntimeError
	StatusSecurityError
	StatusRunFail
	StatusRunning
	StatusNone
)

var statusNames = [...]string{
	"ok",
	"time-limit",
	"idle-limit",
	"memory-limit",
	"runtime-error",
	"security-error",
	"run-fail",
	"running",
	"none",
}

// String renders the lowercase-hyphen tag spec.md §6 uses on the wire.
func (s Status) String() string {
	if int(s) < 0 || int(s) >= len(statusNames) {
		return "none"
	}
	return statusNames[s]
}

// MarshalJSON implements json.Marshaler.
func (s Status) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// UnmarshalJSON implements json.Unmarshaler.
func (s *Status) UnmarshalJSON(data []byte) error {
	var tag string
	if err := json.Unmarshal(data, &tag); err != nil {
		return err
	}
	for i, name := range statusNames {
		if name == tag {
			*s = Status(i)
			return nil
		}
	}
	*s = StatusNone
	return nil
}

// RunResults is the runner's output contract, spec.md §3. It is mutated
// only by the parent monitor and is frozen once Execute returns.
type RunResults struct {
	Time      float64 `json:"time"`
	ClockTime float64 `json:"clock-time"`
	Memory    float64 `json:"memory"`
	ExitCode  int     `json:"exitcode"`
	Signal    int     `json:"signal"`
	Status    Status  `json:"status"`
	Comment   string  `json:"comment"`

	// SignalName is only populated (and only ever marshalled) when
	// Signal is non-zero, per spec.md §6.
	SignalName string `json:"signal-name,omitempty"`
}

// newRunResults returns a RunResults in its pre-execution StatusNone
// state.
func newRunResults() RunResults {
	return RunResults{Status: StatusNone}
}

// EncodeJSON renders r as the RunResults JSON document spec.md §6
// describes.
func (r RunResults) EncodeJSON() ([]byte, error) {
	return json.Marshal(r)
}
