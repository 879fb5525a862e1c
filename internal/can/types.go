package can

import "errors"

// SocketCAN flag bits for can_id (same values as <linux/can.h>)
const (
	CAN_EFF_FLAG = 0x80000000
	CAN_RTR_FLAG = 0x40000000
	CAN_ERR_FLAG = 0x20000000
	CAN_SFF_MASK = 0x7FF
	CAN_EFF_MASK = 0x1FFFFFFF
	CAN_ERR_MASK = 0x1FFFFFFF // omit EFF, RTR, ERR flags
)

// MaxDataLen is the classic CAN payload size.
const MaxDataLen = 8

// Frame is a classic CAN frame as delivered by a raw CAN socket.
// CANID carries the EFF/RTR/ERR flags in its upper bits like SocketCAN.
// Len is payload length (0..8); only the first Len bytes are valid.
type Frame struct {
	CANID uint32
	Len   uint8
	Data  [MaxDataLen]byte
}

// IsError reports whether the frame is an error notification.
func (f Frame) IsError() bool { return f.CANID&CAN_ERR_FLAG != 0 }

// IsExtended reports whether the identifier uses the 29-bit format.
func (f Frame) IsExtended() bool { return f.CANID&CAN_EFF_FLAG != 0 }

// Payload returns the valid payload bytes.
func (f Frame) Payload() []byte {
	n := int(f.Len)
	if n > MaxDataLen {
		n = MaxDataLen
	}
	return f.Data[:n]
}

// Sentinel errors shared by frame sources so the read loop can classify
// failures with errors.Is regardless of backend.
var (
	// ErrMalformedFrame marks a frame that arrived truncated or corrupt; the
	// caller skips it and keeps reading.
	ErrMalformedFrame = errors.New("malformed frame")
	// ErrNoFrame means the read returned without a frame (receive timeout).
	ErrNoFrame = errors.New("no frame available")
)
