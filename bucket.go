package cuckoo

// emptySlot marks an unoccupied bucket slot. Fingerprints are always
// derived to be non-zero, so the sentinel can never collide with a stored
// value.
const emptySlot uint32 = 0

// bucket is a fixed-capacity group of fingerprint slots. It is a window
// into the filter's flat slot array; the window length is the filter's
// slots-per-bucket setting and never changes after construction. All
// operations scan at most len(b) slots, a small constant.
type bucket []uint32

// set overwrites slot i with fp. The caller guarantees i < len(b).
func (b bucket) set(i int, fp uint32) {
	b[i] = fp
}

// reset clears slot i back to empty.
func (b bucket) reset(i int) {
	b[i] = emptySlot
}

// get returns the fingerprint stored at slot i, or the empty sentinel.
func (b bucket) get(i int) uint32 {
	return b[i]
}

// hasRoom returns the index of the first empty slot, or false if the
// bucket is full.
func (b bucket) hasRoom() (int, bool) {
	for i, fp := range b {
		if fp == emptySlot {
			return i, true
		}
	}
	return 0, false
}

// contains reports whether some slot holds exactly fp.
func (b bucket) contains(fp uint32) bool {
	for _, slot := range b {
		if slot == fp {
			return true
		}
	}
	return false
}

// find returns the index of the first slot holding fp, or false if no
// slot does.
func (b bucket) find(fp uint32) (int, bool) {
	for i, slot := range b {
		if slot == fp {
			return i, true
		}
	}
	return 0, false
}
