package delta16

// headerSize is the number of bytes before the instruction stream begins:
// magic(2) + src_addr(2) + src_len(2) + src_checksum(2) + dst_addr(2).
const headerSize = 10

// Decode reverses EncodeAt, producing the destination bytes encoded in delta.
// It verifies the header against d.Src/d.SrcAddr, reconstructs the
// relocation table implied by the instruction stream in a first pass, then
// materializes the destination in a second pass and checks its checksum.
func (d *Delta16) Decode(delta []byte) ([]byte, error) {
	if len(delta) < headerSize+1+2 {
		return nil, &FormatError{Err: ErrTruncated}
	}
	if addrU16(delta[0:2]) != 0x0d16 {
		return nil, &FormatError{Err: ErrBadMagic}
	}
	if addrU16(delta[2:4]) != d.SrcAddr || addrU16(delta[4:6]) != len(d.Src) {
		return nil, &IntegrityError{Err: ErrSourceMismatch}
	}
	wantSrcSum := addrU16(delta[6:8])
	if gotSrcSum := fletcher16(d.Src); gotSrcSum != wantSrcSum {
		return nil, &IntegrityError{Err: ErrSourceChecksum, Expected: wantSrcSum, Got: gotSrcSum}
	}
	dstAddr := addrU16(delta[8:10])

	body := delta[headerSize : len(delta)-2]
	wantDstSum := addrU16(delta[len(delta)-2:])

	table, err := synthesizeRelocationTable(body, d.SrcAddr, dstAddr)
	if err != nil {
		return nil, err
	}

	dst, err := materialize(body, d.Src, table)
	if err != nil {
		return nil, err
	}

	if gotDstSum := fletcher16(dst); gotDstSum != wantDstSum {
		return nil, &IntegrityError{Err: ErrDestChecksum, Expected: wantDstSum, Got: gotDstSum}
	}
	return dst, nil
}

// synthesizeRelocationTable is decode pass 1: walk the instruction body
// using the identity relocator (no MOV/CPM output is materialized in this
// pass, so no real relocation is ever needed), opening a candidate
// IndexMapping whenever a CPY/CPR/CPM/RPL/MOV run begins and closing it
// when an INS/SKP/END breaks the run.
func synthesizeRelocationTable(body []byte, srcAddr, dstAddr int) (*RelocationTable, error) {
	var entries []IndexMapping
	var open *IndexMapping

	iSrc, iDst := 0, 0
	pos := 0
	for {
		inst, n, err := decodeInstruction(body[pos:])
		if err != nil {
			return nil, err
		}
		pos += n

		switch inst.Op {
		case OpEND, OpINS, OpSKP:
			if open != nil {
				open.Length = iSrc - open.Start
				entries = append(entries, *open)
				open = nil
			}
		default:
			if open == nil {
				open = &IndexMapping{Start: iSrc, Offset: iDst - iSrc}
			}
		}

		if inst.Op == OpEND {
			if pos != len(body) {
				return nil, &SemanticError{Err: ErrTrailingData, Offset: pos}
			}
			break
		}

		var advErr error
		iSrc, iDst, advErr = advanceCursors(inst, iSrc, iDst)
		if advErr != nil {
			return nil, advErr
		}
	}

	return NewRelocationTable(entries, srcAddr, dstAddr-srcAddr), nil
}

// materialize is decode pass 2: walk the instruction body again, this time
// emitting destination bytes and resolving MOV/CPM pointers through table.
func materialize(body, src []byte, table *RelocationTable) ([]byte, error) {
	var dst []byte
	iSrc, iDst := 0, 0
	pos := 0
	for {
		inst, n, err := decodeInstruction(body[pos:])
		if err != nil {
			return nil, err
		}
		pos += n

		switch inst.Op {
		case OpEND:
			return dst, nil
		case OpCPY:
			if iSrc+inst.N > len(src) {
				return nil, &SemanticError{Err: ErrCursorRange, Offset: pos}
			}
			dst = append(dst, src[iSrc:iSrc+inst.N]...)
		case OpCPR:
			if iSrc+inst.N > len(src) {
				return nil, &SemanticError{Err: ErrCursorRange, Offset: pos}
			}
			dst = append(dst, src[iSrc:iSrc+inst.N]...)
			dst = append(dst, inst.Data[:1]...)
		case OpCPM:
			if iSrc+inst.N+2 > len(src) {
				return nil, &SemanticError{Err: ErrCursorRange, Offset: pos}
			}
			dst = append(dst, src[iSrc:iSrc+inst.N]...)
			relocated, ok := table.Relocate(addrU16(src[iSrc+inst.N:]))
			if !ok {
				return nil, &SemanticError{Err: ErrUnmappedPointer, Offset: pos}
			}
			dst = append(dst, packU16(relocated)...)
		case OpINS:
			dst = append(dst, inst.Data...)
		case OpSKP:
			// no destination output
		case OpRPL:
			dst = append(dst, inst.Data...)
		case OpMOV:
			if iSrc+2*inst.N > len(src) {
				return nil, &SemanticError{Err: ErrCursorRange, Offset: pos}
			}
			for k := 0; k < inst.N; k++ {
				relocated, ok := table.Relocate(addrU16(src[iSrc+2*k:]))
				if !ok {
					return nil, &SemanticError{Err: ErrUnmappedPointer, Offset: pos}
				}
				dst = append(dst, packU16(relocated)...)
			}
		}

		var advErr error
		iSrc, iDst, advErr = advanceCursors(inst, iSrc, iDst)
		if advErr != nil {
			return nil, advErr
		}
	}
}

// advanceCursors applies the per-op cursor advance. iSrc wraps modulo 2^16
// after SKP; iDst never wraps.
func advanceCursors(inst Instruction, iSrc, iDst int) (int, int, error) {
	switch inst.Op {
	case OpEND:
		return iSrc, iDst, nil
	case OpCPY:
		return iSrc + inst.N, iDst + inst.N, nil
	case OpCPR:
		return iSrc + inst.N + 1, iDst + inst.N + 1, nil
	case OpCPM:
		return iSrc + inst.N + 2, iDst + inst.N + 2, nil
	case OpINS:
		return iSrc, iDst + inst.N, nil
	case OpSKP:
		return (iSrc + inst.N) & 0xffff, iDst, nil
	case OpRPL:
		return iSrc + inst.N, iDst + inst.N, nil
	case OpMOV:
		return iSrc + 2*inst.N, iDst + 2*inst.N, nil
	default:
		return iSrc, iDst, nil
	}
}
