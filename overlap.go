package delta16

// findOverlap greedily scans a and b in lockstep from index 0, looking for
// the longest run of matching bytes while tolerating up to maxErrorRun
// consecutive mismatches. The first matching position becomes the returned
// start; trailing mismatches are trimmed from the returned length so that
// a[start] == b[start] and a[start+length-1] == b[start+length-1].
//
// prefix restarts the search once within the first prefix+maxErrorRun bytes:
// a mismatch run that ends early in that window discards its candidate start
// and keeps scanning, since it likely landed on noise rather than the real
// overlap. ok is false if no byte in range(min(len(a), len(b))) ever matches.
func findOverlap(a, b []byte, maxErrorRun, prefix int) (start, length int, ok bool) {
	limit := len(a)
	if len(b) < limit {
		limit = len(b)
	}

	err := 0
	i := 0
	started := false
	for i < limit {
		if a[i] != b[i] {
			err++
		} else {
			err = 0
			if !started {
				started = true
				start = i
			}
		}
		i++
		if err > maxErrorRun && started {
			if i < prefix+maxErrorRun {
				started = false
			} else {
				break
			}
		}
	}

	if !started {
		return 0, 0, false
	}
	n := i - start - err
	return start, n, true
}
