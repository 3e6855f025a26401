package platform

// DecodeErrno formats message the way original_source's
// getFullErrorMessage() does: the bare message when cause is nil, else
// "message: cause".
func DecodeErrno(message string, cause error) string {
	if cause == nil {
		return message
	}
	return message + ": " + cause.Error()
}

// MaxRSSUnitBytes is the multiplier that converts rusage.Maxrss into
// bytes. Linux reports ru_maxrss in KiB; Darwin reports it in bytes
// directly. Ported from original_source's maxRssBytes constant, which
// the original selected at compile time via `#if defined(__APPLE__)`.
const MaxRSSUnitBytes = maxRSSUnitBytes
