package delta16

// IndexMapping represents the half-open source interval [start, start+length)
// reappearing in the destination at [start+offset, start+offset+length). A
// zero-length mapping is the "empty" sentinel used to mark the tail of a
// fragment list.
type IndexMapping struct {
	Start  int
	Offset int
	Length int
}

// Empty reports whether the mapping covers zero bytes.
func (m IndexMapping) Empty() bool {
	return m.Length == 0
}

// End returns the exclusive end of the source interval.
func (m IndexMapping) End() int {
	return m.Start + m.Length
}

// MapStart returns the start of the destination interval this mapping covers.
func (m IndexMapping) MapStart() int {
	return m.Start + m.Offset
}

// MapEnd returns the exclusive end of the destination interval.
func (m IndexMapping) MapEnd() int {
	return m.MapStart() + m.Length
}

// Map translates a source index i into its destination index, or reports ok
// = false if i falls outside [Start, End).
func (m IndexMapping) Map(i int) (mapped int, ok bool) {
	if m.Start <= i && i < m.End() {
		return i + m.Offset, true
	}
	return 0, false
}

// RelocationTable is an ordered list of IndexMappings used to relocate a
// 16-bit pointer found in the source to its corresponding destination
// address. Lookups return the first entry that contains the address, so
// where entries overlap in source space the earlier entry wins.
type RelocationTable struct {
	entries []IndexMapping
}

// NewRelocationTable builds a table from entries expressed relative to
// addr_start (added to each entry's Start) and addr_offset (added to each
// entry's Offset), matching the encoder/decoder convention of tracking
// fragments in buffer-relative indices and shifting them to absolute
// addresses only at relocation time.
func NewRelocationTable(entries []IndexMapping, addrStart, addrOffset int) *RelocationTable {
	shifted := make([]IndexMapping, len(entries))
	for i, e := range entries {
		shifted[i] = IndexMapping{
			Start:  e.Start + addrStart,
			Offset: e.Offset + addrOffset,
			Length: e.Length,
		}
	}
	return &RelocationTable{entries: shifted}
}

// Relocate maps a source address to its destination address, scanning entries
// in order and returning the first hit. ok is false if no entry contains
// addr; this is the relocation-failure sentinel, distinct from any valid
// 16-bit value.
func (t *RelocationTable) Relocate(addr int) (relocated int, ok bool) {
	for _, e := range t.entries {
		if m, hit := e.Map(addr); hit {
			return m, true
		}
	}
	return 0, false
}
