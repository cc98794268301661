package evt

import (
	"encoding/binary"
	"fmt"
)

func getByte(b []byte, i int, def uint8) (uint8, error) {
	if i >= len(b) {
		return def, fmt.Errorf("buffer too short: have %v, want %v", len(b), i+1)
	}
	return b[i], nil
}

func getUint16LE(b []byte, i int, def uint16) (uint16, error) {
	if i+2 > len(b) {
		return def, fmt.Errorf("buffer too short: have %v, want %v", len(b), i+2)
	}
	return binary.LittleEndian.Uint16(b[i:]), nil
}

func getBytes(b []byte, i, n int) ([]byte, error) {
	if n < 0 {
		if i > len(b) {
			return nil, fmt.Errorf("buffer too short: have %v, want %v", len(b), i)
		}
		return b[i:], nil
	}
	if i+n > len(b) {
		return nil, fmt.Errorf("buffer too short: have %v, want %v", len(b), i+n)
	}
	return b[i : i+n], nil
}
