package platform

import "golang.org/x/sys/unix"

const usecInSecond = 1_000_000

// SumTimeval adds two timevals, normalizing the microsecond field back
// into [0, 1e6). Ported from original_source's timeSum().
func SumTimeval(a, b unix.Timeval) unix.Timeval {
	res := unix.Timeval{
		Sec:  a.Sec + b.Sec,
		Usec: a.Usec + b.Usec,
	}
	if res.Usec >= usecInSecond {
		res.Sec++
		res.Usec -= usecInSecond
	}
	return res
}

// DiffTimeval computes finish - start, normalizing the microsecond field
// back into [0, 1e6). Ported from original_source's timeDifference().
func DiffTimeval(start, finish unix.Timeval) unix.Timeval {
	res := unix.Timeval{
		Sec:  finish.Sec - start.Sec,
		Usec: finish.Usec - start.Usec,
	}
	if res.Usec < 0 {
		res.Sec--
		res.Usec += usecInSecond
	}
	return res
}

// TimevalToSeconds converts a timeval to a fractional-second float.
// Ported from original_source's timevalToDouble().
func TimevalToSeconds(v unix.Timeval) float64 {
	return float64(v.Sec) + float64(v.Usec)/usecInSecond
}
