package mbox

import (
	"context"
	"sync"

	"github.com/pkg/errors"

	"github.com/rigado/tlmbox/stm32wb/mbox/evt"
	"github.com/rigado/tlmbox/stm32wb/mbox/ill"
)

// sysChannel carries SHCI traffic: the boot handshake, stack configuration
// commands and their responses, and asynchronous system events. One command
// slot exists; the coprocessor overwrites it in place with the response
// event and then frees the IPCC channel, which is the completion signal.
type sysChannel struct {
	m *TlMbox

	cmdMu sync.Mutex
	rspCh chan struct{}
}

func newSysChannel(m *TlMbox) *sysChannel {
	return &sysChannel{
		m:     m,
		rspCh: make(chan struct{}, 1),
	}
}

// evtHandler drains the system event queue into the consumer channel and
// acknowledges the IPCC channel afterwards. Invoked from the RX interrupt.
// The first thing to ever arrive here is the coprocessor-ready
// notification.
func (s *sysChannel) evtHandler() {
	m := s.m
	for {
		node, ok := ill.RemoveHead(m.mem, m.lay.SysEvtQueue)
		if !ok {
			break
		}
		m.deliver(node)
	}
	m.ctl.ClearRx(ChanSysEvent)
}

// cmdRspHandler runs from the TX interrupt once the coprocessor has freed
// the command-response channel. Pushing the token only while the channel is
// actually free keeps a waiter from being released by an interrupt meant
// for another channel.
func (s *sysChannel) cmdRspHandler() {
	m := s.m
	m.mem.Lock()
	if m.ctl.IsTxPending(ChanSysCmdRsp) {
		select {
		case s.rspCh <- struct{}{}:
		default:
		}
	}
	m.mem.Unlock()
}

// sendCmdSync writes a SHCI command, raises the channel and blocks until
// the coprocessor takes it. The command buffer must not be touched while
// the channel is raised, hence the single-writer lock.
func (s *sysChannel) sendCmdSync(ctx context.Context, opcode uint16, payload []byte) (evt.CommandComplete, error) {
	m := s.m
	if len(payload) > 255 {
		return nil, errors.Errorf("sys command payload too long: %d", len(payload))
	}

	s.cmdMu.Lock()
	defer s.cmdMu.Unlock()

	m.mem.Lock()
	m.mem.SetUint8(m.lay.SysCmdBuf+cmdKindOff, KindSysCmd)
	m.mem.SetUint16(m.lay.SysCmdBuf+cmdOpcodeOff, opcode)
	m.mem.SetUint8(m.lay.SysCmdBuf+cmdLenOff, uint8(len(payload)))
	m.mem.CopyIn(m.lay.SysCmdBuf+cmdPayloadOff, payload)
	m.ctl.Send(ChanSysCmdRsp)

	// the channel is busy from here on, so any token still in rspCh
	// predates this command
	select {
	case <-s.rspCh:
	default:
	}
	m.mem.Unlock()

	select {
	case <-s.rspCh:
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	return s.readResponse(opcode)
}

// readResponse reinterprets the command buffer, which the coprocessor has
// overwritten with a command-complete shaped event.
func (s *sysChannel) readResponse(opcode uint16) (evt.CommandComplete, error) {
	m := s.m

	raw := m.mem.Bytes(m.lay.SysCmdBuf+PacketHeaderSize, cmdBufSize-PacketHeaderSize)
	e := make(evt.Event, len(raw))
	copy(e, raw)

	cc := evt.CommandComplete(e.Payload())
	if got := cc.CommandOpcode(); got != opcode {
		return cc, errors.Errorf("sys response opcode mismatch: sent 0x%04x, got 0x%04x", opcode, got)
	}
	return cc, nil
}
