package delta16

// DefaultBlockSize is the fragment-search granularity used when the caller
// does not pick one explicitly.
const DefaultBlockSize = 64

// Encode produces the delta that transforms d.Src (based at d.SrcAddr) into
// dst (based at d.SrcAddr too, i.e. no relocation offset), using
// DefaultBlockSize for fragment search.
func (d *Delta16) Encode(dst []byte) []byte {
	return d.EncodeAt(dst, d.SrcAddr, DefaultBlockSize)
}

// EncodeAt produces the delta that transforms d.Src into dst, where dst is
// based at dstAddr. Size/address violations are programmer errors and panic.
func (d *Delta16) EncodeAt(dst []byte, dstAddr, blockSize int) []byte {
	validateBounds(d.SrcAddr, len(d.Src), "source")
	validateBounds(dstAddr, len(dst), "destination")

	body := encodeBody(dst, d.Src, dstAddr, d.SrcAddr, blockSize)

	out := make([]byte, 0, 10+len(body)+2)
	out = append(out, packU16(0x0d16)...)
	out = append(out, packU16(d.SrcAddr)...)
	out = append(out, packU16(len(d.Src))...)
	out = append(out, packU16(fletcher16(d.Src))...)
	out = append(out, packU16(dstAddr)...)
	out = append(out, body...)
	out = append(out, packU16(fletcher16(dst))...)
	return out
}

// pendingEmitter buffers instructions through a one-step peephole merge: a
// deferred CPY is held back one step so it can fold into a following MOV 1 /
// RPL 1 as CPM/CPR.
type pendingEmitter struct {
	out        []byte
	pendingCPY int
}

const maxFourBitChunk = 15 + 255

func (e *pendingEmitter) emit(op Op, n int, data []byte) {
	if e.pendingCPY > 0 && op == OpMOV && n == 1 {
		merged := e.pendingCPY
		e.pendingCPY = 0
		if merged <= maxFourBitChunk {
			e.raw(OpCPM, merged, nil)
			return
		}
		e.raw(OpCPY, merged, nil)
		e.raw(OpMOV, 1, nil)
		return
	}
	if e.pendingCPY > 0 && op == OpRPL && n == 1 {
		merged := e.pendingCPY
		e.pendingCPY = 0
		if merged <= maxFourBitChunk {
			e.raw(OpCPR, merged, data)
			return
		}
		e.raw(OpCPY, merged, nil)
		e.raw(OpRPL, 1, data)
		return
	}

	if e.pendingCPY > 0 {
		e.raw(OpCPY, e.pendingCPY, nil)
		e.pendingCPY = 0
	}
	if op == OpCPY {
		e.pendingCPY = n
		return
	}
	e.raw(op, n, data)
}

func (e *pendingEmitter) raw(op Op, n int, data []byte) {
	e.out = append(e.out, encodeInstruction(op, n, data)...)
}

func (e *pendingEmitter) finish() []byte {
	if e.pendingCPY > 0 {
		e.raw(OpCPY, e.pendingCPY, nil)
		e.pendingCPY = 0
	}
	e.raw(OpEND, 0, nil)
	return e.out
}

// encodeBody runs the full encoder pipeline: find fragments, build the
// relocation table they imply, walk the fragment list emitting INS/SKP for
// the gaps between fragments and run-length-coded CPY/RPL/MOV for the
// aligned regions (classified by relocation-aware diffing), and merge
// adjacent instructions through the peephole emitter.
func encodeBody(dst, src []byte, dstAddr, srcAddr, blockSize int) []byte {
	fragments := findFragments(dst, src, blockSize)
	table := NewRelocationTable(fragments, srcAddr, dstAddr-srcAddr)

	// sentinel marks the end of dst so the loop below always has a "next
	// fragment" to measure the trailing gap against.
	fragments = append(fragments, IndexMapping{Start: 0, Offset: len(dst), Length: 0})

	e := &pendingEmitter{}
	iSrc, iDst := 0, 0

	for len(fragments) > 0 {
		fragment := fragments[0]
		fragments = fragments[1:]

		nDst := fragment.MapStart() - iDst
		nSrc := 0
		if !fragment.Empty() {
			nSrc = fragment.Start - iSrc
		}
		if nDst < 0 {
			panic("delta16: encodeBody: fragments not sequential in destination order")
		}

		if nDst > 0 {
			e.emit(OpINS, nDst, dst[iDst:iDst+nDst])
			iDst += nDst
		}
		if nSrc != 0 {
			e.emit(OpSKP, nSrc, nil)
			iSrc += nSrc
		}

		if fragment.Empty() {
			break
		}

		tail := min(fragments[0].MapStart()-fragment.MapEnd(), len(src)-fragment.End())
		n := fragment.Length + tail
		dstFrag := dst[fragment.MapStart():][:n]
		srcFrag := src[fragment.Start:][:n]

		diff := classifyDiff(dstFrag, srcFrag, fragment.Length, table)

		for _, run := range runLengthEncode(diff) {
			switch run.value {
			case 0:
				e.emit(OpCPY, run.length, nil)
			case 1:
				e.emit(OpRPL, run.length, dst[iDst:iDst+run.length])
			case 2:
				if run.length%2 != 0 {
					panic("delta16: encodeBody: MOV run has odd length")
				}
				e.emit(OpMOV, run.length/2, nil)
			}
			iDst += run.length
			iSrc += run.length
		}
	}

	if iDst != len(dst) {
		panic("delta16: encodeBody: did not consume all of dst")
	}
	return e.finish()
}

// classifyDiff builds a per-byte classification: 0 where dstFrag/srcFrag
// agree, 1 where they differ, 2 where a disagreeing pair of bytes forms a
// pointer that the relocation table maps from src to dst. The scan may
// truncate before fragLen+tail bytes if it enters the tail extension and
// finds a mismatch that isn't relocatable.
func classifyDiff(dstFrag, srcFrag []byte, fragLen int, table *RelocationTable) []byte {
	n := len(dstFrag)
	diff := make([]byte, n)
	for i := 0; i < n; i++ {
		if dstFrag[i] != srcFrag[i] {
			diff[i] = 1
		}
	}

	for i := 0; i < len(diff); i++ {
		if diff[i] != 1 {
			continue
		}
		switch {
		case i > 0 && diff[i-1] == 1 && relocatesTo(srcFrag[i-1:], dstFrag[i-1:], table):
			diff[i-1] = 2
			diff[i] = 2
		case i+1 < len(diff) && relocatesTo(srcFrag[i:], dstFrag[i:], table):
			diff[i] = 2
			diff[i+1] = 2
		case i >= fragLen:
			return diff[:i]
		}
	}
	return diff
}

// relocatesTo reports whether the u16 at the front of src, once relocated,
// equals the u16 at the front of dst. Both slices must have at least 2 bytes.
func relocatesTo(src, dst []byte, table *RelocationTable) bool {
	relocated, ok := table.Relocate(addrU16(src))
	return ok && relocated == addrU16(dst)
}

type diffRun struct {
	value  byte
	length int
}

// runLengthEncode groups consecutive equal values in diff into runs.
func runLengthEncode(diff []byte) []diffRun {
	var runs []diffRun
	for _, v := range diff {
		if len(runs) > 0 && runs[len(runs)-1].value == v {
			runs[len(runs)-1].length++
		} else {
			runs = append(runs, diffRun{value: v, length: 1})
		}
	}
	return runs
}

// validateBounds panics if addr/length violate the 16-bit address-space
// constraints. These are programmer errors, not data errors: the caller
// controls both src and dst.
func validateBounds(addr, length int, label string) {
	if length < 0 || length > 0xffff {
		panic("delta16: " + label + " length out of range")
	}
	if addr < 0 || addr+length > 0x10000 {
		panic("delta16: " + label + " address range exceeds 16 bits")
	}
}
