package runner

import (
	"encoding/binary"
	"io"
	"os"

	"github.com/pkg/errors"
)

// The failure pipe carries at most one message: a 4-byte big-endian
// length prefix followed by that many bytes of UTF-8 text. A successful
// exec closes the write end (it is close-on-exec) and the parent observes
// plain EOF instead — spec.md §4.3's "Failure channel".
const failPrefixSize = 4

// writeFailure sends message down the failure pipe and is the only way a
// child-stage failure is ever communicated to the parent.
func writeFailure(w *os.File, message string) error {
	buf := make([]byte, failPrefixSize+len(message))
	binary.BigEndian.PutUint32(buf, uint32(len(message)))
	copy(buf[failPrefixSize:], message)
	_, err := w.Write(buf)
	return err
}

// failureReadResult is the outcome of reading the failure pipe once,
// blocking, at parent startup (spec.md §4.4's "Startup").
type failureReadResult struct {
	// Exited is true when the pipe hit EOF with zero bytes read: the
	// child's exec succeeded.
	Exited bool
	// Message is populated when the child reported a pre-exec failure.
	Message string
}

// readFailure performs the blocking length-prefix read spec.md §4.4
// describes. Any partial read of the length prefix is a protocol
// violation and is surfaced as an OSError, never silently ignored.
func readFailure(r *os.File) (failureReadResult, error) {
	prefix := make([]byte, failPrefixSize)
	n, err := io.ReadFull(r, prefix)
	switch {
	case err == io.EOF && n == 0:
		return failureReadResult{Exited: true}, nil
	case err != nil:
		return failureReadResult{}, errors.Wrap(err, "failure pipe protocol violation reading length prefix")
	}

	length := binary.BigEndian.Uint32(prefix)
	message := make([]byte, length)
	if _, err := io.ReadFull(r, message); err != nil {
		return failureReadResult{}, errors.Wrap(err, "failure pipe protocol violation reading message body")
	}

	return failureReadResult{Message: string(message)}, nil
}
