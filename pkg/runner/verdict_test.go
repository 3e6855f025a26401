package runner

import (
	"encoding/json"
	"testing"

	"gotest.tools/v3/assert"
)

func TestStatusJSONRoundTrip(t *testing.T) {
	for _, s := range []Status{
		StatusOK, StatusTimeLimit, StatusIdleLimit, StatusMemoryLimit,
		StatusRuntimeError, StatusSecurityError, StatusRunFail, StatusRunning, StatusNone,
	} {
		data, err := json.Marshal(s)
		assert.NilError(t, err)

		var got Status
		assert.NilError(t, json.Unmarshal(data, &got))
		assert.Equal(t, got, s)
	}
}

func TestStatusStringTags(t *testing.T) {
	assert.Equal(t, StatusOK.String(), "ok")
	assert.Equal(t, StatusTimeLimit.String(), "time-limit")
	assert.Equal(t, StatusMemoryLimit.String(), "memory-limit")
	assert.Equal(t, StatusRunFail.String(), "run-fail")
}

func TestRunResultsEncodeJSONOmitsEmptySignalName(t *testing.T) {
	r := newRunResults()
	r.Status = StatusOK

	data, err := r.EncodeJSON()
	assert.NilError(t, err)

	var decoded map[string]interface{}
	assert.NilError(t, json.Unmarshal(data, &decoded))
	_, present := decoded["signal-name"]
	assert.Assert(t, !present)
}

func TestRunResultsEncodeJSONIncludesSignalName(t *testing.T) {
	r := newRunResults()
	r.Signal = 11
	r.SignalName = "segmentation fault"
	r.Status = StatusRuntimeError

	data, err := r.EncodeJSON()
	assert.NilError(t, err)

	var decoded map[string]interface{}
	assert.NilError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, decoded["signal-name"], "segmentation fault")
}

func TestNewRunResultsStartsAsNone(t *testing.T) {
	assert.Equal(t, newRunResults().Status, StatusNone)
}
