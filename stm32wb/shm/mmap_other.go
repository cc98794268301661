//go:build !linux
// +build !linux

package shm

import "github.com/pkg/errors"

// MapRegion is a dummy function for non-Linux platforms.
func MapRegion(path string, base Addr, size int) (*Region, error) {
	return nil, errors.New("file-backed regions are only available on linux")
}
