package evt

import (
	"sync/atomic"

	"github.com/rigado/tlmbox/stm32wb/shm"
)

// Box owns one detached event node living in the coprocessor pool. The node
// was removed from its queue before handoff, so the Box is the only
// reference. Release returns the buffer to the memory manager; the pool is
// five buffers deep, so holding boxes indefinitely starves the coprocessor.
type Box struct {
	mem      *shm.Region
	node     shm.Addr
	serial   int // byte capacity from the kind byte to the end of the buffer
	release  func(shm.Addr)
	released uint32
}

// NewBox wraps a detached event node. serialCap is the number of valid
// bytes from the kind byte onward; release is invoked exactly once.
func NewBox(mem *shm.Region, node shm.Addr, serialCap int, release func(shm.Addr)) *Box {
	return &Box{mem: mem, node: node, serial: serialCap, release: release}
}

// Node is the bus address of the underlying packet.
func (b *Box) Node() shm.Addr { return b.node }

// Event returns a copy of the serialized event. Copying out keeps the
// shared buffer's lifetime decoupled from the returned bytes, so Release
// may run before the consumer finishes parsing.
func (b *Box) Event() Event {
	const headerSize = 8 // intrusive link node in front of the serial bytes

	capacity := b.serial
	if capacity > HeaderSize+MaxPayload {
		capacity = HeaderSize + MaxPayload
	}
	raw := b.mem.Bytes(b.node+headerSize, capacity)

	e := make(Event, len(raw))
	copy(e, raw)

	// clamp to the declared length when it is sane
	if n := HeaderSize + int(e.PayloadLength()); n < len(e) {
		e = e[:n]
	}
	return e
}

// Release hands the buffer back to the coprocessor pool. Safe to call more
// than once; only the first call moves the buffer.
func (b *Box) Release() {
	if !atomic.CompareAndSwapUint32(&b.released, 0, 1) {
		return
	}
	b.release(b.node)
}
