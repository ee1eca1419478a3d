package spp

// sequenceTracker watches the 14-bit packet sequence count of inbound
// packets for continuity, same idea as a dropped-VCDU counter check one
// layer down.
type sequenceTracker struct {
	// Last observed count, -1 until the first packet arrives.
	last int32
}

func newSequenceTracker() sequenceTracker {
	return sequenceTracker{last: -1}
}

// Observe records count and reports whether continuity was broken. The first
// observation never reports loss. The tracker always resynchronizes to the
// latest count, so a single gap is flagged exactly once.
func (t *sequenceTracker) Observe(count uint16) bool {
	if t.last < 0 {
		t.last = int32(count)
		return false
	}
	expected := uint16(t.last+1) & sequenceCountMask
	t.last = int32(count)
	return count != expected
}
