package mbox

import (
	"github.com/rigado/tlmbox/stm32wb/mbox/ill"
	"github.com/rigado/tlmbox/stm32wb/shm"
)

// memoryManager returns borrowed event buffers to the coprocessor. It never
// allocates: the pool belongs to the coprocessor, buffers only transit the
// host during event delivery. Dropped buffers collect on a host-local ring
// and move to the shared free queue in batches, one batch per release
// channel cycle.
type memoryManager struct {
	m *TlMbox
}

func newMemoryManager(m *TlMbox) *memoryManager {
	return &memoryManager{m: m}
}

// EvtDrop takes a consumer-released event buffer. If the release channel is
// quiet the batch ships immediately; otherwise the buffer waits for the
// coprocessor to drain the previous batch.
func (mm *memoryManager) EvtDrop(node shm.Addr) {
	m := mm.m
	ill.InsertTail(m.mem, m.lay.LocalFreeBufQueue, node)

	if m.ctl.IsTxPending(ChanMMRelease) {
		mm.shipFreeBufs()
	}
}

// releaseHandler runs from the TX interrupt once the coprocessor has taken
// the previous batch. An empty local ring leaves the channel idle.
func (mm *memoryManager) releaseHandler() {
	mm.shipFreeBufs()
}

func (mm *memoryManager) shipFreeBufs() {
	m := mm.m
	if ill.DrainInto(m.mem, m.lay.LocalFreeBufQueue, m.lay.FreeBufQueue) > 0 {
		m.ctl.Send(ChanMMRelease)
	}
}
