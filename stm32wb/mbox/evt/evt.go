// Package evt provides views over transport event packets: the serialized
// form the coprocessor writes into shared memory, and the Box handle that
// carries a detached event node to the consumer.
package evt

// Event codes seen on the mailbox queues.
const (
	CommandCompleteCode = 0x0e
	CommandStatusCode   = 0x0f
	VendorCode          = 0xff
)

// MaxPayload is the largest event payload the coprocessor pool buffers
// carry.
const MaxPayload = 255

// HeaderSize is the kind + event-code + length prefix in front of the
// payload.
const HeaderSize = 3

// Event is the serialized event starting at the kind byte: kind, event
// code, payload length, payload.
type Event []byte

func (e Event) Kind() uint8 {
	v, _ := getByte(e, 0, 0)
	return v
}

func (e Event) Code() uint8 {
	v, _ := getByte(e, 1, 0)
	return v
}

func (e Event) PayloadLength() uint8 {
	v, _ := getByte(e, 2, 0)
	return v
}

// Payload returns the event body. A declared length running past the buffer
// is clamped; malformed packets deliver what fits.
func (e Event) Payload() []byte {
	if len(e) <= HeaderSize {
		return nil
	}
	n := int(e.PayloadLength())
	if n > len(e)-HeaderSize {
		n = len(e) - HeaderSize
	}
	return e[HeaderSize : HeaderSize+n]
}

// Truncated reports whether the declared payload length ran past the
// buffer.
func (e Event) Truncated() bool {
	return int(e.PayloadLength()) > len(e)-HeaderSize
}

// CommandComplete is the payload of a command-complete event.
type CommandComplete []byte

func (e CommandComplete) NumHCICommandPackets() uint8 {
	v, _ := e.NumHCICommandPacketsWErr()
	return v
}

func (e CommandComplete) CommandOpcode() uint16 {
	v, _ := e.CommandOpcodeWErr()
	return v
}

func (e CommandComplete) ReturnParameters() []byte {
	v, _ := e.ReturnParametersWErr()
	return v
}

// Status is the first return parameter, the HCI status of the completed
// command.
func (e CommandComplete) Status() uint8 {
	p := e.ReturnParameters()
	if len(p) == 0 {
		return 0
	}
	return p[0]
}

func (e CommandComplete) NumHCICommandPacketsWErr() (uint8, error) {
	return getByte(e, 0, 0)
}

func (e CommandComplete) CommandOpcodeWErr() (uint16, error) {
	return getUint16LE(e, 1, 0xffff)
}

func (e CommandComplete) ReturnParametersWErr() ([]byte, error) {
	return getBytes(e, 3, -1)
}

// CommandStatus is the payload of a command-status event.
type CommandStatus []byte

func (e CommandStatus) Status() uint8 {
	v, _ := getByte(e, 0, 0)
	return v
}

func (e CommandStatus) NumHCICommandPackets() uint8 {
	v, _ := getByte(e, 1, 0)
	return v
}

func (e CommandStatus) CommandOpcode() uint16 {
	v, _ := getUint16LE(e, 2, 0xffff)
	return v
}
