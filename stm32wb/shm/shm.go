// Package shm models the SRAM2 region shared between the application CPU and
// the radio coprocessor on STM32WB parts. Pointers stored into the region are
// 32-bit bus addresses, the pointer width of the Cortex-M0+ on the far side,
// so the descriptor tables come out bit-exact with what the radio firmware
// dereferences.
package shm

import (
	"encoding/binary"
	"sync"
	"sync/atomic"
	"unsafe"

	"github.com/pkg/errors"
)

// Addr is a bus address inside the shared region.
type Addr uint32

// WordSize is the coprocessor pointer width in bytes.
const WordSize = 4

// Region is a span of shared SRAM. The embedded mutex is the critical
// section standing in for masking the IPCC interrupt: the RX/TX handler
// paths and every caller-side list manipulation take it for the duration of
// the access.
type Region struct {
	mu      sync.Mutex
	base    Addr
	buf     []byte
	claimed uint32
	munmap  func() error
}

// NewRegion returns a heap-backed region of size bytes whose first byte has
// bus address base.
func NewRegion(base Addr, size int) (*Region, error) {
	if size <= 0 {
		return nil, errors.New("shm: non-positive region size")
	}
	if uint64(base)+uint64(size) > 1<<32 {
		return nil, errors.Errorf("shm: region [0x%08x..+%d] overflows the bus", uint32(base), size)
	}
	return &Region{base: base, buf: make([]byte, size)}, nil
}

func (r *Region) Base() Addr { return r.base }
func (r *Region) Size() int  { return len(r.buf) }

// Lock enters the region critical section.
func (r *Region) Lock() { r.mu.Lock() }

// Unlock leaves the region critical section.
func (r *Region) Unlock() { r.mu.Unlock() }

// Claim marks the region as owned by a driver instance. It returns false if
// the region was already claimed; the descriptor tables admit one owner.
func (r *Region) Claim() bool {
	return atomic.CompareAndSwapUint32(&r.claimed, 0, 1)
}

// Close releases any mapping backing the region. Heap-backed regions are a
// no-op.
func (r *Region) Close() error {
	if r.munmap == nil {
		return nil
	}
	f := r.munmap
	r.munmap = nil
	return f()
}

// Contains reports whether [a, a+n) lies inside the region.
func (r *Region) Contains(a Addr, n int) bool {
	if a < r.base || n < 0 {
		return false
	}
	off := int(a - r.base)
	return off <= len(r.buf) && n <= len(r.buf)-off
}

// span clamps [a, a+n) to the region and returns the backing slice. Accesses
// outside the region read as empty rather than faulting; the transport layer
// never panics on a bad coprocessor pointer.
func (r *Region) span(a Addr, n int) []byte {
	if a < r.base {
		return nil
	}
	off := int(a - r.base)
	if off >= len(r.buf) {
		return nil
	}
	if n > len(r.buf)-off {
		n = len(r.buf) - off
	}
	return r.buf[off : off+n]
}

// Bytes returns a view of [a, a+n), clamped to the region.
func (r *Region) Bytes(a Addr, n int) []byte {
	return r.span(a, n)
}

// CopyIn copies p into the region at a and returns the number of bytes
// written.
func (r *Region) CopyIn(a Addr, p []byte) int {
	return copy(r.span(a, len(p)), p)
}

// Zero clears [a, a+n).
func (r *Region) Zero(a Addr, n int) {
	s := r.span(a, n)
	for i := range s {
		s[i] = 0
	}
}

func (r *Region) Uint8(a Addr) uint8 {
	s := r.span(a, 1)
	if len(s) < 1 {
		return 0
	}
	return s[0]
}

func (r *Region) SetUint8(a Addr, v uint8) {
	s := r.span(a, 1)
	if len(s) < 1 {
		return
	}
	s[0] = v
}

// Uint16 reads a little-endian uint16 at a. Packed fields carry no alignment
// guarantee, so reads go byte-wise.
func (r *Region) Uint16(a Addr) uint16 {
	s := r.span(a, 2)
	if len(s) < 2 {
		return 0
	}
	return binary.LittleEndian.Uint16(s)
}

func (r *Region) SetUint16(a Addr, v uint16) {
	s := r.span(a, 2)
	if len(s) < 2 {
		return
	}
	binary.LittleEndian.PutUint16(s, v)
}

func (r *Region) Uint32(a Addr) uint32 {
	s := r.span(a, 4)
	if len(s) < 4 {
		return 0
	}
	return binary.LittleEndian.Uint32(s)
}

func (r *Region) SetUint32(a Addr, v uint32) {
	s := r.span(a, 4)
	if len(s) < 4 {
		return
	}
	binary.LittleEndian.PutUint32(s, v)
}

// LoadUint32 performs an acquire load of the 32-bit word at a. The address
// must be 4-aligned; misaligned or out-of-range words fall back to a plain
// read. Supported hosts are little-endian like the radio core, so the atomic
// view and the byte view of a word agree.
func (r *Region) LoadUint32(a Addr) uint32 {
	s := r.span(a, 4)
	if len(s) < 4 || a%4 != 0 {
		return r.Uint32(a)
	}
	return atomic.LoadUint32((*uint32)(unsafe.Pointer(&s[0])))
}

// StoreUint32 performs a release store of the 32-bit word at a. See
// LoadUint32 for the alignment contract.
func (r *Region) StoreUint32(a Addr, v uint32) {
	s := r.span(a, 4)
	if len(s) < 4 || a%4 != 0 {
		r.SetUint32(a, v)
		return
	}
	atomic.StoreUint32((*uint32)(unsafe.Pointer(&s[0])), v)
}
