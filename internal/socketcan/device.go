//go:build linux

package socketcan

import (
	"encoding/binary"
	"errors"
	"fmt"
	"net"
	"time"

	"golang.org/x/sys/unix"

	"github.com/kstaniek/go-canerrdump/internal/can"
)

// Device is a raw CAN socket bound to one interface with an error filter.
type Device struct {
	fd int
}

// Config holds socket options applied by Open.
type Config struct {
	// ErrMask is installed as CAN_RAW_ERR_FILTER.
	ErrMask uint32
	// ReadTimeout bounds each blocking read so callers can observe
	// cancellation; zero blocks indefinitely.
	ReadTimeout time.Duration
}

func Open(iface string, cfg Config) (*Device, error) {
	fd, err := unix.Socket(unix.AF_CAN, unix.SOCK_RAW, unix.CAN_RAW)
	if err != nil {
		return nil, fmt.Errorf("socket(AF_CAN): %w", err)
	}
	if err := unix.SetsockoptInt(fd, unix.SOL_CAN_RAW, unix.CAN_RAW_FD_FRAMES, 0); err != nil {
		// Older kernels may not know this option; ignore ENOPROTOOPT
		if err != unix.ENOPROTOOPT {
			_ = unix.Close(fd)
			return nil, fmt.Errorf("disable CAN FD: %w", err)
		}
	}
	ifi, err := net.InterfaceByName(iface)
	if err != nil {
		_ = unix.Close(fd)
		return nil, fmt.Errorf("if %q: %w", iface, err)
	}
	sa := &unix.SockaddrCAN{Ifindex: ifi.Index}
	if err := unix.Bind(fd, sa); err != nil {
		_ = unix.Close(fd)
		return nil, fmt.Errorf("bind(can@%s): %w", iface, err)
	}
	if err := unix.SetsockoptInt(fd, unix.SOL_CAN_RAW, unix.CAN_RAW_ERR_FILTER, int(cfg.ErrMask)); err != nil {
		_ = unix.Close(fd)
		return nil, fmt.Errorf("set error filter 0x%08X: %w", cfg.ErrMask, err)
	}
	if cfg.ReadTimeout > 0 {
		tv := unix.NsecToTimeval(cfg.ReadTimeout.Nanoseconds())
		if err := unix.SetsockoptTimeval(fd, unix.SOL_SOCKET, unix.SO_RCVTIMEO, &tv); err != nil {
			_ = unix.Close(fd)
			return nil, fmt.Errorf("set read timeout: %w", err)
		}
	}
	return &Device{fd: fd}, nil
}

func (d *Device) Close() error { return unix.Close(d.fd) }

// ReadFrame reads one classic CAN frame from the raw CAN socket.
// A receive timeout yields can.ErrNoFrame and a truncated read yields
// can.ErrMalformedFrame; any other error is terminal for the socket.
func (d *Device) ReadFrame(fr *can.Frame) error {
	var buf [unix.CAN_MTU]byte // classic CAN MTU = 16 bytes
	n, err := unix.Read(d.fd, buf[:])
	if err != nil {
		if errors.Is(err, unix.EAGAIN) || errors.Is(err, unix.EINTR) {
			return can.ErrNoFrame
		}
		return err
	}
	return decodeFrame(buf[:n], fr)
}

// decodeFrame parses struct can_frame (linux/can.h):
//
//	can_id  u32   [0:4]  (includes EFF/RTR/ERR flags)
//	can_dlc u8    [4]
//	pad     3B    [5:8]
//	data    [8]   [8:16]
//
// The kernel provides fields in host byte order; little-endian on the
// targets we build for.
func decodeFrame(b []byte, fr *can.Frame) error {
	if len(b) != unix.CAN_MTU {
		return fmt.Errorf("%w: short read %d of %d bytes", can.ErrMalformedFrame, len(b), unix.CAN_MTU)
	}
	dlc := int(b[4])
	if dlc > can.MaxDataLen {
		dlc = can.MaxDataLen
	}
	*fr = can.Frame{CANID: binary.LittleEndian.Uint32(b[0:4]), Len: uint8(dlc)}
	copy(fr.Data[:], b[8:8+dlc])
	return nil
}
