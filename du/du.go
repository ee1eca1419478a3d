package du

import "errors"

// ErrAlreadyChained is returned by Append when the node already has a
// successor. Overwriting would silently orphan the old chain.
var ErrAlreadyChained = errors.New("data unit already has a successor")

// DataUnit is one node in a singly linked chain of buffers. Chains let a
// packet be built around a payload without ever copying the payload bytes:
// the header lives in its own node and the payload nodes follow it.
//
// Ownership is exclusive and moves with the handle: whoever holds the head
// pointer owns the whole chain, and every Append, Pop or Transfer hands that
// ownership on. A chain is never shared between two owners.
type DataUnit struct {
	buf  []byte
	next *DataUnit
}

// Wrap borrows a caller-owned buffer as a single data unit. The caller keeps
// responsibility for the backing memory; no bytes are copied.
func Wrap(buf []byte) *DataUnit {
	return &DataUnit{buf: buf}
}

// Alloc returns a data unit backed by a fresh zeroed buffer of n bytes,
// owned by the protocol layer that requested it. Used for header nodes.
func Alloc(n int) *DataUnit {
	return &DataUnit{buf: make([]byte, n)}
}

// Size returns the size of this node only, in bytes.
func (d *DataUnit) Size() int {
	return len(d.buf)
}

// Bytes exposes this node's buffer.
func (d *DataUnit) Bytes() []byte {
	return d.buf
}

// TotalSize returns the size of this node plus every chained successor.
func (d *DataUnit) TotalSize() int {
	if d.next != nil {
		return len(d.buf) + d.next.TotalSize()
	}
	return len(d.buf)
}

// Length returns the number of nodes in the chain starting here.
func (d *DataUnit) Length() int {
	if d.next != nil {
		return d.next.Length() + 1
	}
	return 1
}

// Append attaches next as this node's successor, taking ownership of it and
// everything chained behind it.
func (d *DataUnit) Append(next *DataUnit) error {
	if d.next != nil {
		return ErrAlreadyChained
	}
	d.next = next
	return nil
}

// Pop detaches the successor and returns ownership of it to the caller,
// leaving this node a singleton. Returns nil if there is no successor.
func (d *DataUnit) Pop() *DataUnit {
	next := d.next
	d.next = nil
	return next
}

// Next is a read-only borrow of the successor; ownership stays put.
func (d *DataUnit) Next() *DataUnit {
	return d.next
}
