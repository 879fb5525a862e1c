//go:build !linux

package socketcan

import (
	"errors"
	"time"

	"github.com/kstaniek/go-canerrdump/internal/can"
)

// ErrUnsupported is returned by Open on platforms without SocketCAN.
var ErrUnsupported = errors.New("socketcan unsupported on this platform")

type Device struct{}

type Config struct {
	ErrMask     uint32
	ReadTimeout time.Duration
}

func Open(iface string, cfg Config) (*Device, error) { return nil, ErrUnsupported }

func (d *Device) Close() error                  { return ErrUnsupported }
func (d *Device) ReadFrame(fr *can.Frame) error { return ErrUnsupported }
