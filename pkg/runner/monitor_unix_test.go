//go:build unix

package runner

import (
	"testing"

	"gotest.tools/v3/assert"
)

func TestEvaluateLimitsMemory(t *testing.T) {
	p := NewParameters()
	p.Executable = "/bin/true"
	p.TimeLimit = 10
	p.IdleLimit = 10
	p.MemoryLimit = 32

	results := newRunResults()
	results.Time = 1
	results.ClockTime = 1
	results.Memory = 64

	exceeded := evaluateLimits(&results, p)
	assert.Assert(t, exceeded)
	assert.Equal(t, results.Status, StatusMemoryLimit)
}

// TestEvaluateLimitsPriorityMemoryOverIdleOverTime pins down spec.md
// §4.4's stated priority: when several ceilings are exceeded on the same
// tick, memory wins over idle, which wins over time.
func TestEvaluateLimitsPriorityMemoryOverIdleOverTime(t *testing.T) {
	p := NewParameters()
	p.Executable = "/bin/true"
	p.TimeLimit = 1
	p.IdleLimit = 1
	p.MemoryLimit = 1

	results := newRunResults()
	results.Time = 2
	results.ClockTime = 2
	results.Memory = 2

	exceeded := evaluateLimits(&results, p)
	assert.Assert(t, exceeded)
	assert.Equal(t, results.Status, StatusMemoryLimit)
}

func TestEvaluateLimitsIdleOverTimeWhenMemoryOK(t *testing.T) {
	p := NewParameters()
	p.Executable = "/bin/true"
	p.TimeLimit = 1
	p.IdleLimit = 1
	p.MemoryLimit = 256

	results := newRunResults()
	results.Time = 2
	results.ClockTime = 2
	results.Memory = 1

	exceeded := evaluateLimits(&results, p)
	assert.Assert(t, exceeded)
	assert.Equal(t, results.Status, StatusIdleLimit)
}

func TestEvaluateLimitsWithinAllLimits(t *testing.T) {
	p := NewParameters()
	p.Executable = "/bin/true"

	results := newRunResults()
	results.Time = 0.1
	results.ClockTime = 0.1
	results.Memory = 1

	assert.Assert(t, !evaluateLimits(&results, p))
}
