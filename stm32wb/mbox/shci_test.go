package mbox

import (
	"bytes"
	"testing"
)

func TestShciBleInitParamsEncode(t *testing.T) {
	p := ShciBleInitParams{
		BleBufferAddress:           0x04030201,
		BleBufferSize:              0x08070605,
		NumAttrRecord:              0x0a09,
		NumAttrServ:                0x0c0b,
		AttrValueArrSize:           0x0e0d,
		NumOfLinks:                 0x0f,
		ExtendedPacketLengthEnable: 0x10,
		PrWriteListSize:            0x11,
		MblockCount:                0x12,
		AttMtu:                     0x1413,
		PeriphSca:                  0x1615,
		MasterSca:                  0x17,
		RngMode:                    0x18,
		LsSource:                   0x19,
		MaxConnEventLength:         0x1d1c1b1a,
		HsStartupTime:              0x1f1e,
	}

	got := p.encode()
	if len(got) != shciBleInitParamsSize {
		t.Fatalf("encoded %d bytes", len(got))
	}

	want := make([]byte, shciBleInitParamsSize)
	for i := range want {
		want[i] = byte(i + 1)
	}
	if !bytes.Equal(got, want) {
		t.Fatalf("encoded\n got % x\nwant % x", got, want)
	}
}
