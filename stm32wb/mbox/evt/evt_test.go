package evt

import (
	"bytes"
	"testing"
)

func TestEventAccessors(t *testing.T) {
	e := Event{0x04, 0x0e, 0x04, 0x01, 0x00, 0x00, 0x00}

	if e.Kind() != 0x04 {
		t.Fatalf("kind 0x%02x", e.Kind())
	}
	if e.Code() != CommandCompleteCode {
		t.Fatalf("code 0x%02x", e.Code())
	}
	if e.PayloadLength() != 4 {
		t.Fatalf("length %d", e.PayloadLength())
	}
	if !bytes.Equal(e.Payload(), []byte{0x01, 0x00, 0x00, 0x00}) {
		t.Fatalf("payload % x", e.Payload())
	}
	if e.Truncated() {
		t.Fatal("well-formed event reported truncated")
	}
}

func TestEventTruncation(t *testing.T) {
	// declared length 20, only 5 payload bytes present
	e := Event{0x04, 0xff, 20, 1, 2, 3, 4, 5}

	if !e.Truncated() {
		t.Fatal("truncated event not reported")
	}
	if !bytes.Equal(e.Payload(), []byte{1, 2, 3, 4, 5}) {
		t.Fatalf("payload % x", e.Payload())
	}

	empty := Event{0x04, 0xff}
	if empty.Payload() != nil {
		t.Fatalf("payload of headerless event: % x", empty.Payload())
	}
}

func TestCommandComplete(t *testing.T) {
	cc := CommandComplete{0x01, 0x4c, 0xfc, 0x00, 0xaa}

	if cc.NumHCICommandPackets() != 1 {
		t.Fatalf("num packets %d", cc.NumHCICommandPackets())
	}
	if cc.CommandOpcode() != 0xfc4c {
		t.Fatalf("opcode 0x%04x", cc.CommandOpcode())
	}
	if cc.Status() != 0 {
		t.Fatalf("status 0x%02x", cc.Status())
	}
	if !bytes.Equal(cc.ReturnParameters(), []byte{0x00, 0xaa}) {
		t.Fatalf("params % x", cc.ReturnParameters())
	}

	short := CommandComplete{0x01}
	if _, err := short.CommandOpcodeWErr(); err == nil {
		t.Fatal("no error on short payload")
	}
	if short.CommandOpcode() != 0xffff {
		t.Fatalf("default opcode 0x%04x", short.CommandOpcode())
	}
}

func TestCommandStatus(t *testing.T) {
	cs := CommandStatus{0x0c, 0x01, 0x4c, 0xfc}
	if cs.Status() != 0x0c {
		t.Fatalf("status 0x%02x", cs.Status())
	}
	if cs.NumHCICommandPackets() != 1 {
		t.Fatalf("num packets %d", cs.NumHCICommandPackets())
	}
	if cs.CommandOpcode() != 0xfc4c {
		t.Fatalf("opcode 0x%04x", cs.CommandOpcode())
	}
}
