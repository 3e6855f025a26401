package procstat

import (
	"os"
	"runtime"
	"testing"

	"gotest.tools/v3/assert"
)

func TestSampleSelf(t *testing.T) {
	if runtime.GOOS != "linux" {
		t.Skip("live sampling is Linux-only")
	}

	s, ok := Sample(os.Getpid())
	assert.Assert(t, ok)
	assert.Assert(t, s.CPUSeconds >= 0)
	assert.Assert(t, s.VirtualMiB > 0)
}

func TestSampleUnknownPIDFails(t *testing.T) {
	if runtime.GOOS != "linux" {
		t.Skip("live sampling is Linux-only")
	}

	_, ok := Sample(1 << 30)
	assert.Assert(t, !ok)
}

func TestSupportedMatchesPlatform(t *testing.T) {
	assert.Equal(t, Supported(), runtime.GOOS == "linux")
}
