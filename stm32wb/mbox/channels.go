package mbox

import "github.com/rigado/tlmbox/stm32wb/ipcc"

// IPCC channel assignments. These are contractual with the radio firmware
// and cannot be reassigned.

// CPU1 -> CPU2
const (
	ChanBleCmd      ipcc.Channel = 1
	ChanSysCmdRsp   ipcc.Channel = 2
	ChanThreadOtCmd ipcc.Channel = 3 // unused
	ChanMMRelease   ipcc.Channel = 4
	ChanHciAclData  ipcc.Channel = 6
)

// CPU2 -> CPU1
const (
	ChanBleEvent    ipcc.Channel = 1
	ChanSysEvent    ipcc.Channel = 2
	ChanThreadNotif ipcc.Channel = 3 // unused
	ChanTraces      ipcc.Channel = 4 // unused
	ChanMMNotifAck  ipcc.Channel = 5 // unused
	ChanHciAclAck   ipcc.Channel = 6
)
