package mbox

import "encoding/binary"

// ShciBleInitParams is the parameter block of the SHCI BLE-init command,
// serialized to the 31-byte layout the radio firmware expects.
type ShciBleInitParams struct {
	// BleBufferAddress and BleBufferSize are reserved for future use and
	// shall be zero.
	BleBufferAddress uint32
	BleBufferSize    uint32

	NumAttrRecord    uint16
	NumAttrServ      uint16
	AttrValueArrSize uint16

	NumOfLinks uint8

	ExtendedPacketLengthEnable uint8

	PrWriteListSize uint8
	MblockCount     uint8

	AttMtu uint16

	// Sleep clock accuracy, in the ranges defined by the HCI spec.
	PeriphSca uint16
	MasterSca uint8

	// RngMode selects where random numbers come from on the radio core.
	RngMode uint8

	// LsSource selects the low-speed clock: 0 LSE, 1 internal.
	LsSource uint8

	MaxConnEventLength uint32

	// HsStartupTime is the HSE startup time in 625/256 us units.
	HsStartupTime uint16
}

const shciBleInitParamsSize = 31

func (p ShciBleInitParams) encode() []byte {
	b := make([]byte, shciBleInitParamsSize)
	binary.LittleEndian.PutUint32(b[0:], p.BleBufferAddress)
	binary.LittleEndian.PutUint32(b[4:], p.BleBufferSize)
	binary.LittleEndian.PutUint16(b[8:], p.NumAttrRecord)
	binary.LittleEndian.PutUint16(b[10:], p.NumAttrServ)
	binary.LittleEndian.PutUint16(b[12:], p.AttrValueArrSize)
	b[14] = p.NumOfLinks
	b[15] = p.ExtendedPacketLengthEnable
	b[16] = p.PrWriteListSize
	b[17] = p.MblockCount
	binary.LittleEndian.PutUint16(b[18:], p.AttMtu)
	binary.LittleEndian.PutUint16(b[20:], p.PeriphSca)
	b[22] = p.MasterSca
	b[23] = p.RngMode
	b[24] = p.LsSource
	binary.LittleEndian.PutUint32(b[25:], p.MaxConnEventLength)
	binary.LittleEndian.PutUint16(b[29:], p.HsStartupTime)
	return b
}

// DefaultShciBleInitParams mirrors the vendor reference configuration.
func DefaultShciBleInitParams() ShciBleInitParams {
	return ShciBleInitParams{
		NumAttrRecord:              68,
		NumAttrServ:                8,
		AttrValueArrSize:           1344,
		NumOfLinks:                 2,
		ExtendedPacketLengthEnable: 1,
		PrWriteListSize:            0x3a,
		MblockCount:                0x79,
		AttMtu:                     156,
		PeriphSca:                  500,
		MasterSca:                  0,
		RngMode:                    1,
		LsSource:                   1,
		MaxConnEventLength:         0xffffffff,
		HsStartupTime:              0x148,
	}
}
