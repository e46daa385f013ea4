// Package latest provides the lock-free latest-value buffer used to hand
// decoded telemetry from a network goroutine to a real-time consumer.
//
// The buffer is strictly single-writer/single-reader: one listener goroutine
// calls Write, one consumer calls Read and Version. Neither side ever blocks
// or allocates. It is not a queue — a slow reader observes only the most
// recently published record and may skip intermediate writes entirely.
package latest

import "sync/atomic"

// Buffer holds the two most recent records of type T plus a monotonic
// version counter. The zero value is ready to use and Read returns the zero
// T until the first Write.
//
// Write copies the record into the inactive slot, publishes it by storing
// the slot index, then bumps the version. Go's atomics are sequentially
// consistent, so a reader that observes the new index also observes the
// fully written slot contents. A reader may see a version one ahead of the
// slot it loaded; that is benign under the latest-value contract.
type Buffer[T any] struct {
	slots   [2]T
	active  atomic.Int32
	version atomic.Uint64
}

// Write publishes rec as the latest value. Must only be called from the
// buffer's single writer.
func (b *Buffer[T]) Write(rec T) {
	inactive := 1 - b.active.Load()
	b.slots[inactive] = rec
	b.active.Store(inactive)
	b.version.Add(1)
}

// Read returns the most recently published record. Wait-free; safe to call
// from the real-time consumer concurrently with Write.
func (b *Buffer[T]) Read() T {
	return b.slots[b.active.Load()]
}

// Version returns the number of completed writes. It increases by exactly
// one per Write and never decreases; consumers compare it against their last
// seen value to detect fresh data.
func (b *Buffer[T]) Version() uint64 {
	return b.version.Load()
}
