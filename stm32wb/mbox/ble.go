package mbox

import (
	"context"

	"github.com/pkg/errors"

	"github.com/rigado/tlmbox/stm32wb/mbox/ill"
)

// bleChannel carries HCI traffic: commands out through the BLE command
// buffer, events in through the BLE event queue, ACL data through the
// single reserved ACL buffer.
type bleChannel struct {
	m *TlMbox

	// aclFree holds a token while the ACL buffer may be written. Guarded
	// together with aclInFlight by the region critical section so a TX
	// interrupt can't refill the token between buffer write and raise.
	aclFree     chan struct{}
	aclInFlight bool
}

func newBleChannel(m *TlMbox) *bleChannel {
	b := &bleChannel{
		m:       m,
		aclFree: make(chan struct{}, 1),
	}
	b.aclFree <- struct{}{}
	return b
}

// sendCmd copies buf, kind byte first, into the BLE command buffer and
// raises the command channel. buf is fully copied before the raise, the
// caller keeps it. A still-raised channel means the previous command has
// not been taken; this layer loses the command rather than stall or
// corrupt the buffer the coprocessor is reading.
func (b *bleChannel) sendCmd(buf []byte) error {
	m := b.m
	if len(buf) > cmdBufSize-PacketHeaderSize-1 {
		return errors.Errorf("ble command too long: %d", len(buf))
	}

	m.mem.Lock()
	defer m.mem.Unlock()

	if !m.ctl.IsTxPending(ChanBleCmd) {
		m.log.Warnf("ble command channel busy, dropping command")
		return nil
	}

	m.mem.SetUint8(m.lay.BleCmdBuf+cmdKindOff, KindBleCmd)
	m.mem.CopyIn(m.lay.BleCmdBuf+cmdOpcodeOff, buf)
	m.ctl.Send(ChanBleCmd)
	return nil
}

// sendAcl copies an ACL packet, kind byte first, into the reserved ACL
// buffer. Only one packet may be in flight; the call blocks until the
// coprocessor acknowledges the previous one.
func (b *bleChannel) sendAcl(ctx context.Context, pkt []byte) error {
	m := b.m
	if len(pkt) > aclBufSize-PacketHeaderSize-1 {
		return errors.Errorf("acl packet too long: %d", len(pkt))
	}

	select {
	case <-b.aclFree:
	case <-ctx.Done():
		return ctx.Err()
	}

	m.mem.Lock()
	b.aclInFlight = true
	m.mem.SetUint8(m.lay.HciAclDataBuf+aclKindOff, KindAclData)
	m.mem.CopyIn(m.lay.HciAclDataBuf+aclHandleOff, pkt)
	m.ctl.Send(ChanHciAclData)
	m.mem.Unlock()
	return nil
}

// aclAckHandler runs from the TX interrupt. The channel going free while a
// packet was in flight is the coprocessor's acknowledge; hand the buffer
// token back to the next sender.
func (b *bleChannel) aclAckHandler() {
	m := b.m
	m.mem.Lock()
	if b.aclInFlight && m.ctl.IsTxPending(ChanHciAclData) {
		b.aclInFlight = false
		select {
		case b.aclFree <- struct{}{}:
		default:
		}
	}
	m.mem.Unlock()
}

// evtHandler detaches everything on the BLE event queue, hands it to the
// consumer and acknowledges the IPCC channel after detachment. Invoked from
// the RX interrupt.
func (b *bleChannel) evtHandler() {
	m := b.m
	for {
		node, ok := ill.RemoveHead(m.mem, m.lay.EvtQueue)
		if !ok {
			break
		}
		m.deliver(node)
	}
	m.ctl.ClearRx(ChanBleEvent)
}
