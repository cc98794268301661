package mbox

import (
	"github.com/rigado/tlmbox/stm32wb/mbox/evt"
	"github.com/rigado/tlmbox/stm32wb/mbox/ill"
)

// Packet kind discriminators, the first byte after the link node.
const (
	KindBleCmd    uint8 = 0x01
	KindAclData   uint8 = 0x02
	KindBleEvt    uint8 = 0x04
	KindOtCmd     uint8 = 0x08
	KindOtRsp     uint8 = 0x09
	KindCliCmd    uint8 = 0x0a
	KindOtNotif   uint8 = 0x0c
	KindOtAck     uint8 = 0x0d
	KindCliNotif  uint8 = 0x0e
	KindCliAck    uint8 = 0x0f
	KindSysCmd    uint8 = 0x10
	KindSysRsp    uint8 = 0x11
	KindSysEvt    uint8 = 0x12
	KindLocCmd    uint8 = 0x20
	KindLocRsp    uint8 = 0x21
	KindTracesApp uint8 = 0x40
	KindTracesWl  uint8 = 0x41
)

const (
	// PacketHeaderSize is the intrusive link node in front of every packet.
	PacketHeaderSize = ill.NodeSize

	// EvtHeaderSize is kind + event code + payload length.
	EvtHeaderSize = evt.HeaderSize

	csEvtSize = 4 // status, num packets, opcode

	// EvtMaxPayload bounds the payload the event pool buffers carry.
	EvtMaxPayload = evt.MaxPayload

	// EvtQueueLen is the coprocessor-side depth of the BLE event pool.
	EvtQueueLen = 5

	bleEvtFrameSize = EvtHeaderSize + EvtMaxPayload

	// PoolSize is the byte size of the event pool the coprocessor carves
	// buffers out of.
	PoolSize = EvtQueueLen * 4 * ((PacketHeaderSize + bleEvtFrameSize + 3) / 4)

	// cmdBufSize holds header, kind, opcode, length and a worst-case
	// payload.
	cmdBufSize = PacketHeaderSize + 1 + 2 + 1 + 255

	// aclBufSize uses the vendor-fixed 5+251 serial size.
	aclBufSize = PacketHeaderSize + 5 + 251

	spareEvtBufSize = PacketHeaderSize + EvtHeaderSize + 255

	csBufSize = PacketHeaderSize + EvtHeaderSize + csEvtSize
)

// Serialized field offsets from the start of a packet.
const (
	cmdKindOff    = PacketHeaderSize
	cmdOpcodeOff  = PacketHeaderSize + 1
	cmdLenOff     = PacketHeaderSize + 3
	cmdPayloadOff = PacketHeaderSize + 4

	evtKindOff    = PacketHeaderSize
	evtCodeOff    = PacketHeaderSize + 1
	evtLenOff     = PacketHeaderSize + 2
	evtPayloadOff = PacketHeaderSize + 3

	aclKindOff    = PacketHeaderSize
	aclHandleOff  = PacketHeaderSize + 1
	aclLenOff     = PacketHeaderSize + 3
	aclPayloadOff = PacketHeaderSize + 5
)

// SHCI opcodes and subevents used by the system channel.
const (
	ShciOpcodeBleInit uint16 = 0xfc66

	// ShciSubEvtReady is the asynchronous "coprocessor ready" notification
	// posted on the system queue after boot.
	ShciSubEvtReady uint16 = 0x9200
)
