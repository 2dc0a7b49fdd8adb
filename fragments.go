package delta16

// findFragments discovers aligned matching regions between dst and src. It
// scans dst in blockSize-wide chunks, scores every possible source offset by
// counting equal bytes against that chunk (ties broken toward the lowest
// source offset, matching this package's np.argmax-derived reference
// behavior), then extends any sufficiently strong candidate into a full
// overlap via findOverlap. Matches are returned in increasing,
// non-overlapping destination order.
//
// Scores are computed with a direct O(len(src) * blockSize) byte-count
// rather than a vectorized comparison matrix; this preserves the
// first-index tie-break that downstream fragment placement depends on.
func findFragments(dst, src []byte, blockSize int) []IndexMapping {
	if len(dst) == 0 || len(src) == 0 {
		return nil
	}

	minSize := blockSize
	minOverlap := max(2, blockSize/2)
	bs := min(blockSize, len(src))
	numOffsets := len(src) - bs + 1

	var matches []IndexMapping
	iDst := 0
	for iDst < len(dst) {
		chunkLen := min(bs, len(dst)-iDst)
		chunk := dst[iDst : iDst+chunkLen]

		bestScore := -1
		bestSrc := 0
		for o := 0; o < numOffsets; o++ {
			score := countEqual(chunk, src[o:o+chunkLen])
			if score > bestScore {
				bestScore = score
				bestSrc = o
			}
		}

		matched := false
		if bestScore >= minOverlap {
			lookback := 0
			if len(matches) > 0 {
				last := matches[len(matches)-1]
				lookback = min(iDst-last.MapEnd(), iDst, bestSrc)
			}
			start, n, ok := findOverlap(dst[iDst-lookback:], src[bestSrc-lookback:], minSize/4, lookback)
			if !ok {
				panic("delta16: findFragments: expected overlap after scoring above threshold")
			}
			if n >= minSize {
				match := IndexMapping{
					Start:  bestSrc - lookback + start,
					Offset: iDst - bestSrc,
					Length: n,
				}
				matches = append(matches, match)
				iDst = match.MapEnd()
				matched = true
			}
		}
		if !matched {
			iDst += bs
		}
	}

	return matches
}

// countEqual returns the number of positions where a and b agree, over
// min(len(a), len(b)) positions.
func countEqual(a, b []byte) int {
	n := min(len(a), len(b))
	count := 0
	for i := 0; i < n; i++ {
		if a[i] == b[i] {
			count++
		}
	}
	return count
}
