// Package ipcc declares the contract of the inter-processor communication
// controller used by the mailbox transport: a hardware block exposing six
// per-direction channel flags plus two interrupt lines toward CPU1. The real
// register driver lives with the HAL; this package carries the interface the
// transport programs against and a register-level simulator for harnesses.
package ipcc

// Channel is an IPCC channel number, 1 through 6. The channel assignments
// are fixed by the radio firmware and live with the mailbox layout.
type Channel uint8

// NumChannels is the number of channels per direction on STM32WB.
const NumChannels = 6

// Controller is the channel-level view of the IPCC exposed to the mailbox.
// All operations are synchronous register accesses.
//
// Direction convention, seen from CPU1 (the host):
//   - RX channels carry CPU2 -> CPU1 traffic. A pending RX channel means the
//     coprocessor raised it and the host has not acknowledged yet.
//   - TX channels carry CPU1 -> CPU2 traffic. Send raises one; it stays
//     occupied until the coprocessor drains it. IsTxPending reports the
//     channel free, i.e. the previous raise was consumed.
type Controller interface {
	Init() error

	IsRxPending(ch Channel) bool
	IsTxPending(ch Channel) bool

	// Send raises a CPU1 -> CPU2 channel. The shared-memory writes backing
	// the transfer must be issued before the call.
	Send(ch Channel)

	// ClearRx acknowledges a CPU2 -> CPU1 channel.
	ClearRx(ch Channel)

	// MaskRx masks a CPU2 -> CPU1 channel so it no longer pends the RX
	// interrupt. Used to quiesce channels nothing is mapped to.
	MaskRx(ch Channel)

	// BindRx and BindTx install the interrupt handlers for the IPCC_C1_RX
	// and IPCC_C1_TX lines. Must be called before any traffic.
	BindRx(fn func())
	BindTx(fn func())
}
