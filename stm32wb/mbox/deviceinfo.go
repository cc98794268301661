package mbox

import (
	"github.com/rigado/tlmbox"
	"github.com/rigado/tlmbox/stm32wb/shm"
)

// deviceInfo resolves the device-info table through the reference table,
// the way the coprocessor intends it to be found.
func (m *TlMbox) deviceInfo() shm.Addr {
	return shm.Addr(m.mem.Uint32(m.lay.RefTable + refDeviceInfoOff))
}

// WirelessFwInfo returns a copy of the wireless-firmware descriptor. A zero
// version word means the coprocessor never booted and populated the table;
// the second return is false in that case.
func (m *TlMbox) WirelessFwInfo() (tlmbox.FirmwareInfo, bool) {
	di := m.deviceInfo()
	ver := m.mem.Uint32(di + diWirelessVersionOff)
	if ver == 0 {
		return tlmbox.FirmwareInfo{}, false
	}
	return tlmbox.FirmwareInfo{
		Version:    ver,
		MemorySize: m.mem.Uint32(di + diWirelessMemoryOff),
		InfoStack:  m.mem.Uint32(di + diWirelessStackOff),
	}, true
}

// SafeBootInfo returns the safe-boot descriptor, absent while its version
// word is zero.
func (m *TlMbox) SafeBootInfo() (tlmbox.SafeBootInfo, bool) {
	di := m.deviceInfo()
	ver := m.mem.Uint32(di + diSafeBootVersionOff)
	if ver == 0 {
		return tlmbox.SafeBootInfo{}, false
	}
	return tlmbox.SafeBootInfo{Version: ver}, true
}

// FusInfo returns the firmware-upgrade-service descriptor, absent while its
// version word is zero.
func (m *TlMbox) FusInfo() (tlmbox.FusInfo, bool) {
	di := m.deviceInfo()
	ver := m.mem.Uint32(di + diFusVersionOff)
	if ver == 0 {
		return tlmbox.FusInfo{}, false
	}
	return tlmbox.FusInfo{
		Version:    ver,
		MemorySize: m.mem.Uint32(di + diFusMemorySizeOff),
		Info:       m.mem.Uint32(di + diFusInfoOff),
	}, true
}
