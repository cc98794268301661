// Package mbox drives the transport-layer mailbox between the application
// CPU and the BLE radio coprocessor on STM32WB parts: descriptor tables in
// shared SRAM, intrusive queues carrying commands, events and ACL data, and
// the IPCC channel signalling around them.
package mbox

import (
	"context"
	"sync/atomic"

	"github.com/pkg/errors"

	"github.com/rigado/tlmbox"
	"github.com/rigado/tlmbox/stm32wb/ipcc"
	"github.com/rigado/tlmbox/stm32wb/mbox/evt"
	"github.com/rigado/tlmbox/stm32wb/mbox/ill"
	"github.com/rigado/tlmbox/stm32wb/shm"
)

const defaultEvtChanCap = 5

// TlMbox is the host side of the transport-layer mailbox. Construct exactly
// one per shared region with New; there is no teardown, the shared
// structures live for the life of the process.
type TlMbox struct {
	mem *shm.Region
	ctl ipcc.Controller
	lay Layout
	log tlmbox.Logger

	chEvtCap int
	chEvt    chan *evt.Box
	dropped  uint64

	sys *sysChannel
	ble *bleChannel
	mm  *memoryManager
}

// New lays the descriptor tables out in mem, initializes the IPCC driver
// and binds the interrupt handlers. It must run before any coprocessor
// traffic; the coprocessor reads the reference table at boot.
func New(mem *shm.Region, ctl ipcc.Controller, opts ...tlmbox.Option) (*TlMbox, error) {
	m := &TlMbox{
		mem:      mem,
		ctl:      ctl,
		chEvtCap: defaultEvtChanCap,
		log:      tlmbox.GetLogger().ChildLogger(map[string]interface{}{"pkg": "mbox"}),
	}
	for _, o := range opts {
		if err := o(m); err != nil {
			return nil, errors.Wrap(err, "can't set options")
		}
	}

	if need := RequiredSize(mem.Base()); mem.Size() < need {
		return nil, errors.Errorf("region too small: have %d, need %d", mem.Size(), need)
	}
	if !mem.Claim() {
		return nil, errors.New("region already owned by a mailbox")
	}

	m.lay = NewLayout(mem.Base())
	m.chEvt = make(chan *evt.Box, m.chEvtCap)

	m.initTables()

	if err := ctl.Init(); err != nil {
		return nil, errors.Wrap(err, "can't init ipcc")
	}

	m.sys = newSysChannel(m)
	m.ble = newBleChannel(m)
	m.mm = newMemoryManager(m)

	ctl.BindRx(m.rxISR)
	ctl.BindTx(m.txISR)

	m.log.Debugf("mailbox tables at 0x%08x, %d bytes", uint32(mem.Base()), int(m.lay.End-mem.Base()))
	return m, nil
}

// initTables zeroes both shared spans and rebuilds every descriptor table.
// The reference table carries all nine subordinate table pointers even for
// stacks this driver never talks to; the coprocessor validates the full
// layout at boot.
func (m *TlMbox) initTables() {
	mem, lay := m.mem, m.lay

	mem.Zero(lay.RefTable, refTableSize)
	mem.Zero(lay.Mem1Start, int(lay.Mem1End-lay.Mem1Start))
	mem.Zero(lay.Mem2Start, int(lay.Mem2End-lay.Mem2Start))

	mem.SetUint32(lay.RefTable+refDeviceInfoOff, uint32(lay.DeviceInfoTable))
	mem.SetUint32(lay.RefTable+refBleOff, uint32(lay.BleTable))
	mem.SetUint32(lay.RefTable+refThreadOff, uint32(lay.ThreadTable))
	mem.SetUint32(lay.RefTable+refSysOff, uint32(lay.SysTable))
	mem.SetUint32(lay.RefTable+refMemManagerOff, uint32(lay.MemManagerTable))
	mem.SetUint32(lay.RefTable+refTracesOff, uint32(lay.TracesTable))
	mem.SetUint32(lay.RefTable+refMac802154Off, uint32(lay.Mac802154Table))
	mem.SetUint32(lay.RefTable+refZigbeeOff, uint32(lay.ZigbeeTable))
	mem.SetUint32(lay.RefTable+refLldTestsOff, uint32(lay.LldTestsTable))
	mem.SetUint32(lay.RefTable+refBleLldOff, uint32(lay.BleLldTable))

	mem.SetUint32(lay.BleTable+bleTabCmdOff, uint32(lay.BleCmdBuf))
	mem.SetUint32(lay.BleTable+bleTabCsOff, uint32(lay.CsBuffer))
	mem.SetUint32(lay.BleTable+bleTabEvtQueueOff, uint32(lay.EvtQueue))
	mem.SetUint32(lay.BleTable+bleTabAclOff, uint32(lay.HciAclDataBuf))

	mem.SetUint32(lay.SysTable+sysTabCmdOff, uint32(lay.SysCmdBuf))
	mem.SetUint32(lay.SysTable+sysTabQueueOff, uint32(lay.SysEvtQueue))

	mem.SetUint32(lay.MemManagerTable+mmTabSpareBleOff, uint32(lay.BleSpareEvtBuf))
	mem.SetUint32(lay.MemManagerTable+mmTabSpareSysOff, uint32(lay.SysSpareEvtBuf))
	mem.SetUint32(lay.MemManagerTable+mmTabBlePoolOff, uint32(lay.EvtPool))
	mem.SetUint32(lay.MemManagerTable+mmTabBlePoolSizeOff, PoolSize)
	mem.SetUint32(lay.MemManagerTable+mmTabFreeQueueOff, uint32(lay.FreeBufQueue))

	ill.Init(mem, lay.EvtQueue)
	ill.Init(mem, lay.SysEvtQueue)
	ill.Init(mem, lay.FreeBufQueue)
	ill.Init(mem, lay.LocalFreeBufQueue)
}

// Layout exposes the computed table addresses. Harnesses playing the
// coprocessor need them; applications do not.
func (m *TlMbox) Layout() Layout { return m.lay }

// Read awaits the next event from the coprocessor. The returned box must be
// released when the payload is no longer needed or the five-buffer pool
// drains dry.
func (m *TlMbox) Read(ctx context.Context) (*evt.Box, error) {
	select {
	case b := <-m.chEvt:
		return b, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// DroppedEvents counts events discarded because the consumer channel was
// full. Their buffers went straight back to the pool.
func (m *TlMbox) DroppedEvents() uint64 {
	return atomic.LoadUint64(&m.dropped)
}

// SendBleCmd copies an HCI command (opcode, parameter length, parameters)
// into the BLE command buffer and raises the BLE command channel. The
// caller keeps ownership of buf. The completion event arrives on Read.
func (m *TlMbox) SendBleCmd(buf []byte) error {
	return m.ble.sendCmd(buf)
}

// SendAcl copies an HCI ACL data packet (handle, data length, data) into
// the ACL buffer and raises the ACL channel. A single ACL buffer exists, so
// the call blocks while a previous packet is still in flight.
func (m *TlMbox) SendAcl(ctx context.Context, pkt []byte) error {
	return m.ble.sendAcl(ctx, pkt)
}

// SendSysCmd issues a system (SHCI) command and blocks until the
// coprocessor acknowledges it, returning the command-complete payload the
// coprocessor wrote back over the command buffer.
func (m *TlMbox) SendSysCmd(ctx context.Context, opcode uint16, payload []byte) (evt.CommandComplete, error) {
	return m.sys.sendCmdSync(ctx, opcode, payload)
}

// ShciBleInit configures and starts the BLE stack on the coprocessor. It
// blocks until the completion event arrives.
func (m *TlMbox) ShciBleInit(ctx context.Context, p ShciBleInitParams) error {
	cc, err := m.sys.sendCmdSync(ctx, ShciOpcodeBleInit, p.encode())
	if err != nil {
		return errors.Wrap(err, "can't init ble stack")
	}
	if st := cc.Status(); st != 0 {
		return errors.Errorf("ble stack init failed with status 0x%02x", st)
	}
	return nil
}

// rxISR services the IPCC_C1_RX interrupt: a CPU2 -> CPU1 channel went
// pending. Anything not mapped to the system or BLE event queues is
// spurious and gets masked.
func (m *TlMbox) rxISR() {
	switch {
	case m.ctl.IsRxPending(ChanSysEvent):
		m.sys.evtHandler()
	case m.ctl.IsRxPending(ChanBleEvent):
		m.ble.evtHandler()
	default:
		m.maskSpuriousRx()
	}
}

func (m *TlMbox) maskSpuriousRx() {
	for ch := ipcc.Channel(1); ch <= ipcc.NumChannels; ch++ {
		if ch == ChanSysEvent || ch == ChanBleEvent {
			continue
		}
		if m.ctl.IsRxPending(ch) {
			m.log.Warnf("masking unmapped ipcc rx channel %d", ch)
			m.ctl.MaskRx(ch)
		}
	}
}

// txISR services the IPCC_C1_TX interrupt: the coprocessor drained
// something the host raised. Channels rest in the free state, so each
// handler checks its own channel and acts only when it has work pending.
func (m *TlMbox) txISR() {
	if m.ctl.IsTxPending(ChanSysCmdRsp) {
		m.sys.cmdRspHandler()
	}
	if m.ctl.IsTxPending(ChanMMRelease) {
		m.mm.releaseHandler()
	}
	if m.ctl.IsTxPending(ChanHciAclData) {
		m.ble.aclAckHandler()
	}
}

// deliver pushes a detached event node to the consumer. On backpressure the
// event is dropped and its buffer returned to the pool: the coprocessor
// must never stall on the host, and losing an event beats deadlock.
func (m *TlMbox) deliver(node shm.Addr) {
	box := evt.NewBox(m.mem, node, bleEvtFrameSize, m.mm.EvtDrop)
	select {
	case m.chEvt <- box:
	default:
		atomic.AddUint64(&m.dropped, 1)
		m.log.Warnf("event channel full, dropping event at 0x%08x", uint32(node))
		m.mm.EvtDrop(node)
	}
}

// SetEventChannelCapacity implements tlmbox.MboxOption.
func (m *TlMbox) SetEventChannelCapacity(n int) error {
	if n <= 0 {
		return errors.Errorf("invalid event channel capacity %d", n)
	}
	m.chEvtCap = n
	return nil
}

// SetLogger implements tlmbox.MboxOption.
func (m *TlMbox) SetLogger(l tlmbox.Logger) error {
	if l == nil {
		return errors.New("nil logger")
	}
	m.log = l
	return nil
}
