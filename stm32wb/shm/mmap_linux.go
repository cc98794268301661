//go:build linux
// +build linux

package shm

import (
	"os"

	"github.com/pkg/errors"
	"golang.org/x/sys/unix"
)

// MapRegion maps size bytes of the file at path as a shared region with bus
// base address base. The mapping is MAP_SHARED, so a second process mapping
// the same file sees every table and queue, which is how an out-of-process
// coprocessor model is attached.
func MapRegion(path string, base Addr, size int) (*Region, error) {
	if size <= 0 {
		return nil, errors.New("shm: non-positive region size")
	}

	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o600)
	if err != nil {
		return nil, errors.Wrap(err, "can't open shared region backing file")
	}
	defer f.Close()

	if err := f.Truncate(int64(size)); err != nil {
		return nil, errors.Wrap(err, "can't size shared region backing file")
	}

	buf, err := unix.Mmap(int(f.Fd()), 0, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		return nil, errors.Wrap(err, "can't map shared region")
	}

	return &Region{
		base: base,
		buf:  buf,
		munmap: func() error {
			return unix.Munmap(buf)
		},
	}, nil
}
