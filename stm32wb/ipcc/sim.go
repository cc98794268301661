package ipcc

import (
	"sync"
	"sync/atomic"
)

// Sim is a register-level IPCC model. The CPU1 side implements Controller;
// the C2-prefixed methods are the coprocessor's half, used by test harnesses
// and in-process coprocessor models.
//
// Interrupts are delivered by calling the bound handlers synchronously on
// the goroutine that flips the flag, under a single lock: the hardware has
// one IPCC priority level, so the RX and TX handlers never preempt each
// other.
type Sim struct {
	rxPending [NumChannels + 1]uint32
	rxMask    [NumChannels + 1]uint32
	txBusy    [NumChannels + 1]uint32

	isrMu sync.Mutex
	rxFn  func()
	txFn  func()
}

func NewSim() *Sim {
	return &Sim{}
}

func (s *Sim) Init() error {
	for ch := 1; ch <= NumChannels; ch++ {
		atomic.StoreUint32(&s.rxPending[ch], 0)
		atomic.StoreUint32(&s.rxMask[ch], 0)
		atomic.StoreUint32(&s.txBusy[ch], 0)
	}
	return nil
}

func (s *Sim) valid(ch Channel) bool {
	return ch >= 1 && ch <= NumChannels
}

func (s *Sim) IsRxPending(ch Channel) bool {
	if !s.valid(ch) {
		return false
	}
	return atomic.LoadUint32(&s.rxPending[ch]) == 1 && atomic.LoadUint32(&s.rxMask[ch]) == 0
}

func (s *Sim) IsTxPending(ch Channel) bool {
	if !s.valid(ch) {
		return false
	}
	return atomic.LoadUint32(&s.txBusy[ch]) == 0
}

func (s *Sim) Send(ch Channel) {
	if !s.valid(ch) {
		return
	}
	atomic.StoreUint32(&s.txBusy[ch], 1)
}

func (s *Sim) ClearRx(ch Channel) {
	if !s.valid(ch) {
		return
	}
	atomic.StoreUint32(&s.rxPending[ch], 0)
}

func (s *Sim) MaskRx(ch Channel) {
	if !s.valid(ch) {
		return
	}
	atomic.StoreUint32(&s.rxMask[ch], 1)
}

func (s *Sim) BindRx(fn func()) { s.rxFn = fn }
func (s *Sim) BindTx(fn func()) { s.txFn = fn }

// C2Send raises a CPU2 -> CPU1 channel and pends the RX interrupt.
func (s *Sim) C2Send(ch Channel) {
	if !s.valid(ch) {
		return
	}
	atomic.StoreUint32(&s.rxPending[ch], 1)

	s.isrMu.Lock()
	fn := s.rxFn
	if fn != nil {
		fn()
	}
	s.isrMu.Unlock()
}

// C2IsPending reports whether the host raised a CPU1 -> CPU2 channel the
// coprocessor has not yet drained.
func (s *Sim) C2IsPending(ch Channel) bool {
	if !s.valid(ch) {
		return false
	}
	return atomic.LoadUint32(&s.txBusy[ch]) == 1
}

// C2Complete drains a CPU1 -> CPU2 channel on behalf of the coprocessor and
// pends the TX interrupt toward the host.
func (s *Sim) C2Complete(ch Channel) {
	if !s.valid(ch) {
		return
	}
	atomic.StoreUint32(&s.txBusy[ch], 0)

	s.isrMu.Lock()
	fn := s.txFn
	if fn != nil {
		fn()
	}
	s.isrMu.Unlock()
}
