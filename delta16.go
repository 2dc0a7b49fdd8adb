// Package delta16 implements a binary delta codec for small (<=65535 byte)
// address-space artifacts such as ROM images and firmware. Applying a
// delta produced by Encode to its source reconstructs the destination
// exactly, including relocation of 16-bit absolute pointers embedded in the
// payload when a fragment of the source reappears at a different base
// address in the destination.
//
// The codec is purely functional at this boundary: Encode and Decode consume
// immutable byte slices and produce a new one. There is no suspension, no
// shared mutable state, and no I/O; a Delta16 value may be used from multiple
// goroutines concurrently as long as callers don't mutate its Src slice
// in place.
package delta16

// Delta16 binds a source blob (and its base address) for repeated encode or
// decode calls against different destinations, mirroring the reference
// implementation's Delta16(src, src_addr) constructor.
type Delta16 struct {
	// Src is the source blob deltas are computed against or applied to.
	Src []byte
	// SrcAddr is Src's base address in the 16-bit address space.
	SrcAddr int
}

// New returns a Delta16 bound to src at srcAddr.
func New(src []byte, srcAddr int) *Delta16 {
	return &Delta16{Src: src, SrcAddr: srcAddr}
}

// Encode computes the delta that turns src into dst, both based at srcAddr,
// using DefaultBlockSize for fragment search.
func Encode(src []byte, srcAddr int, dst []byte) []byte {
	return New(src, srcAddr).Encode(dst)
}

// EncodeAt computes the delta that turns src (based at srcAddr) into dst
// (based at dstAddr), searching for fragments with the given blockSize.
func EncodeAt(src []byte, srcAddr int, dst []byte, dstAddr, blockSize int) []byte {
	return New(src, srcAddr).EncodeAt(dst, dstAddr, blockSize)
}

// Decode applies delta to src (based at srcAddr) and returns the
// reconstructed destination bytes.
func Decode(src []byte, srcAddr int, delta []byte) ([]byte, error) {
	return New(src, srcAddr).Decode(delta)
}
