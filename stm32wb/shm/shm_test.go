package shm

import (
	"bytes"
	"testing"
)

const base = Addr(0x20030000)

func TestAccessors(t *testing.T) {
	r, err := NewRegion(base, 256)
	if err != nil {
		t.Fatal(err)
	}

	r.SetUint8(base+1, 0xab)
	if got := r.Uint8(base + 1); got != 0xab {
		t.Fatalf("Uint8 = 0x%02x", got)
	}

	// unaligned, must come back little-endian
	r.SetUint16(base+3, 0xfc66)
	if got := r.Bytes(base+3, 2); !bytes.Equal(got, []byte{0x66, 0xfc}) {
		t.Fatalf("Uint16 bytes = % x", got)
	}
	if got := r.Uint16(base + 3); got != 0xfc66 {
		t.Fatalf("Uint16 = 0x%04x", got)
	}

	r.SetUint32(base+5, 0x01020304)
	if got := r.Bytes(base+5, 4); !bytes.Equal(got, []byte{0x04, 0x03, 0x02, 0x01}) {
		t.Fatalf("Uint32 bytes = % x", got)
	}
	if got := r.Uint32(base + 5); got != 0x01020304 {
		t.Fatalf("Uint32 = 0x%08x", got)
	}
}

func TestAtomicWordsMatchByteView(t *testing.T) {
	r, err := NewRegion(base, 64)
	if err != nil {
		t.Fatal(err)
	}

	r.StoreUint32(base+8, 0x20030040)
	if got := r.Uint32(base + 8); got != 0x20030040 {
		t.Fatalf("byte view = 0x%08x after atomic store", got)
	}

	r.SetUint32(base+12, 0xdeadbeef)
	if got := r.LoadUint32(base + 12); got != 0xdeadbeef {
		t.Fatalf("atomic view = 0x%08x after byte store", got)
	}
}

func TestOutOfRangeIsInert(t *testing.T) {
	r, err := NewRegion(base, 16)
	if err != nil {
		t.Fatal(err)
	}

	// none of these may fault
	r.SetUint32(base+20, 1)
	r.SetUint32(base-4, 1)
	r.Zero(base+100, 8)
	if got := r.Uint32(base + 20); got != 0 {
		t.Fatalf("out-of-range read = %d", got)
	}
	if got := r.Uint32(base + 14); got != 0 {
		t.Fatalf("straddling read = %d", got)
	}
	if r.Contains(base+8, 9) {
		t.Fatal("Contains accepted straddling span")
	}
	if !r.Contains(base, 16) {
		t.Fatal("Contains rejected full span")
	}
}

func TestZeroAndCopy(t *testing.T) {
	r, err := NewRegion(base, 32)
	if err != nil {
		t.Fatal(err)
	}

	if n := r.CopyIn(base+4, []byte{1, 2, 3, 4}); n != 4 {
		t.Fatalf("CopyIn = %d", n)
	}
	r.Zero(base+5, 2)
	if got := r.Bytes(base+4, 4); !bytes.Equal(got, []byte{1, 0, 0, 4}) {
		t.Fatalf("after zero: % x", got)
	}
}

func TestRegionBounds(t *testing.T) {
	if _, err := NewRegion(base, 0); err == nil {
		t.Fatal("empty region accepted")
	}

	// a region may run right up to the top of the 32-bit bus
	if _, err := NewRegion(0xffffff00, 0x100); err != nil {
		t.Fatal(err)
	}
	if _, err := NewRegion(0xffffff00, 0x101); err == nil {
		t.Fatal("region past the top of the bus accepted")
	}
	if _, err := NewRegion(0xffffffff, 2); err == nil {
		t.Fatal("region wrapping the bus accepted")
	}
}

func TestClaim(t *testing.T) {
	r, err := NewRegion(base, 16)
	if err != nil {
		t.Fatal(err)
	}
	if !r.Claim() {
		t.Fatal("first claim failed")
	}
	if r.Claim() {
		t.Fatal("second claim succeeded")
	}
}
