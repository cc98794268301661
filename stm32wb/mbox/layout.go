package mbox

import "github.com/rigado/tlmbox/stm32wb/shm"

// Table byte sizes. The coprocessor validates this layout at boot, so even
// tables nothing on the host uses must be allocated and pointed to.
const (
	refTableSize        = 10 * shm.WordSize
	deviceInfoTableSize = 4 + 12 + 16 // safe-boot, FUS, wireless descriptors
	bleTableSize        = 4 * shm.WordSize
	threadTableSize     = 3 * shm.WordSize
	sysTableSize        = 2 * shm.WordSize
	memManagerTableSize = 7 * shm.WordSize
	tracesTableSize     = 1 * shm.WordSize
	mac802154TableSize  = 3 * shm.WordSize
	zigbeeTableSize     = 3 * shm.WordSize
	lldTestsTableSize   = 2 * shm.WordSize
	bleLldTableSize     = 2 * shm.WordSize
)

// Reference table slots, in the order the coprocessor expects them.
const (
	refDeviceInfoOff = 0 * shm.WordSize
	refBleOff        = 1 * shm.WordSize
	refThreadOff     = 2 * shm.WordSize
	refSysOff        = 3 * shm.WordSize
	refMemManagerOff = 4 * shm.WordSize
	refTracesOff     = 5 * shm.WordSize
	refMac802154Off  = 6 * shm.WordSize
	refZigbeeOff     = 7 * shm.WordSize
	refLldTestsOff   = 8 * shm.WordSize
	refBleLldOff     = 9 * shm.WordSize
)

// Device-info descriptor offsets.
const (
	diSafeBootVersionOff = 0
	diFusVersionOff      = 4
	diFusMemorySizeOff   = 8
	diFusInfoOff         = 12
	diWirelessVersionOff = 16
	diWirelessMemoryOff  = 20
	diWirelessStackOff   = 24
	diWirelessRsvdOff    = 28
)

// BLE table field offsets.
const (
	bleTabCmdOff      = 0 * shm.WordSize
	bleTabCsOff       = 1 * shm.WordSize
	bleTabEvtQueueOff = 2 * shm.WordSize
	bleTabAclOff      = 3 * shm.WordSize
)

// SYS table field offsets.
const (
	sysTabCmdOff   = 0 * shm.WordSize
	sysTabQueueOff = 1 * shm.WordSize
)

// Memory-manager table field offsets.
const (
	mmTabSpareBleOff    = 0 * shm.WordSize
	mmTabSpareSysOff    = 1 * shm.WordSize
	mmTabBlePoolOff     = 2 * shm.WordSize
	mmTabBlePoolSizeOff = 3 * shm.WordSize
	mmTabFreeQueueOff   = 4 * shm.WordSize
	mmTabTracesPoolOff  = 5 * shm.WordSize
	mmTabTracesSizeOff  = 6 * shm.WordSize
)

// Layout fixes the bus address of every shared object. The reference table
// sits first, the descriptor tables follow in the MB_MEM1 span, the queues
// and buffers in the MB_MEM2 span. The local free-buffer sentinel is
// host-private but still bus addressable, since pool nodes link onto it.
type Layout struct {
	RefTable shm.Addr

	Mem1Start       shm.Addr
	DeviceInfoTable shm.Addr
	BleTable        shm.Addr
	ThreadTable     shm.Addr
	LldTestsTable   shm.Addr
	BleLldTable     shm.Addr
	SysTable        shm.Addr
	MemManagerTable shm.Addr
	TracesTable     shm.Addr
	Mac802154Table  shm.Addr
	ZigbeeTable     shm.Addr
	FreeBufQueue    shm.Addr
	Mem1End         shm.Addr

	Mem2Start      shm.Addr
	CsBuffer       shm.Addr
	EvtQueue       shm.Addr
	SysEvtQueue    shm.Addr
	SysCmdBuf      shm.Addr
	EvtPool        shm.Addr
	SysSpareEvtBuf shm.Addr
	BleSpareEvtBuf shm.Addr
	BleCmdBuf      shm.Addr
	HciAclDataBuf  shm.Addr
	Mem2End        shm.Addr

	LocalFreeBufQueue shm.Addr
	End               shm.Addr
}

// NewLayout computes the layout for a region based at base. Every object is
// word aligned so the link words admit atomic access.
func NewLayout(base shm.Addr) Layout {
	cur := base
	place := func(size int) shm.Addr {
		a := cur
		cur += shm.Addr((size + shm.WordSize - 1) &^ (shm.WordSize - 1))
		return a
	}

	var l Layout
	l.RefTable = place(refTableSize)

	l.Mem1Start = cur
	l.DeviceInfoTable = place(deviceInfoTableSize)
	l.BleTable = place(bleTableSize)
	l.ThreadTable = place(threadTableSize)
	l.LldTestsTable = place(lldTestsTableSize)
	l.BleLldTable = place(bleLldTableSize)
	l.SysTable = place(sysTableSize)
	l.MemManagerTable = place(memManagerTableSize)
	l.TracesTable = place(tracesTableSize)
	l.Mac802154Table = place(mac802154TableSize)
	l.ZigbeeTable = place(zigbeeTableSize)
	l.FreeBufQueue = place(PacketHeaderSize)
	l.Mem1End = cur

	l.Mem2Start = cur
	l.CsBuffer = place(csBufSize)
	l.EvtQueue = place(PacketHeaderSize)
	l.SysEvtQueue = place(PacketHeaderSize)
	l.SysCmdBuf = place(cmdBufSize)
	l.EvtPool = place(PoolSize)
	l.SysSpareEvtBuf = place(spareEvtBufSize)
	l.BleSpareEvtBuf = place(spareEvtBufSize)
	l.BleCmdBuf = place(cmdBufSize)
	l.HciAclDataBuf = place(aclBufSize)
	l.Mem2End = cur

	l.LocalFreeBufQueue = place(PacketHeaderSize)
	l.End = cur

	return l
}

// RequiredSize is the region size a layout based at base needs.
func RequiredSize(base shm.Addr) int {
	l := NewLayout(base)
	return int(l.End - base)
}
