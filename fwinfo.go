package tlmbox

// FirmwareInfo is a copy of the wireless-firmware descriptor the radio
// coprocessor publishes in the device-info table at boot.
//
// Version word:
//   - 0 -> 3   = build  - 0: untracked, 15: released, x: tracked version
//   - 4 -> 7   = branch - 0: mass market, x: ...
//   - 8 -> 15  = subversion
//   - 16 -> 23 = version minor
//   - 24 -> 31 = version major
//
// Memory-size word:
//   - 0 -> 7   = flash (number of 4k sectors)
//   - 8 -> 15  = reserved (shall be 0, may be used as flash extension)
//   - 16 -> 23 = SRAM2b (number of 1k sectors)
//   - 24 -> 31 = SRAM2a (number of 1k sectors)
type FirmwareInfo struct {
	Version    uint32
	MemorySize uint32
	InfoStack  uint32
}

func (f FirmwareInfo) VersionMajor() uint8 {
	return uint8(f.Version >> 24)
}

func (f FirmwareInfo) VersionMinor() uint8 {
	return uint8(f.Version >> 16)
}

func (f FirmwareInfo) Subversion() uint8 {
	return uint8(f.Version >> 8)
}

func (f FirmwareInfo) Branch() uint8 {
	return uint8(f.Version>>4) & 0x0f
}

func (f FirmwareInfo) Build() uint8 {
	return uint8(f.Version) & 0x0f
}

// FlashSize is the size of FLASH, expressed in number of 4K sectors.
func (f FirmwareInfo) FlashSize() uint8 {
	return uint8(f.MemorySize)
}

// Sram2aSize is the size of SRAM2a, expressed in number of 1K sectors.
func (f FirmwareInfo) Sram2aSize() uint8 {
	return uint8(f.MemorySize >> 24)
}

// Sram2bSize is the size of SRAM2b, expressed in number of 1K sectors.
func (f FirmwareInfo) Sram2bSize() uint8 {
	return uint8(f.MemorySize >> 16)
}

func (f FirmwareInfo) ReservedSize() uint8 {
	return uint8(f.MemorySize >> 8)
}

// SafeBootInfo is the safe-boot descriptor from the device-info table.
type SafeBootInfo struct {
	Version uint32
}

// FusInfo is the firmware-upgrade-service descriptor from the device-info
// table.
type FusInfo struct {
	Version    uint32
	MemorySize uint32
	Info       uint32
}
