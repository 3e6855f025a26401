package runner

import (
	"testing"

	"gotest.tools/v3/assert"
)

func TestAcquireActiveChildRejectsSecondRegistration(t *testing.T) {
	lock, err := acquireActiveChild(1234)
	assert.NilError(t, err)
	defer lock.release()

	_, err = acquireActiveChild(5678)
	assert.Equal(t, err, ErrAlreadyRunning)
}

func TestReleaseFreesTheSlot(t *testing.T) {
	lock, err := acquireActiveChild(111)
	assert.NilError(t, err)
	lock.release()

	lock2, err := acquireActiveChild(222)
	assert.NilError(t, err)
	lock2.release()
}
