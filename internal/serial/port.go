package serial

import (
	"time"

	"github.com/tarm/serial"
)

// Port abstracts tarm/serial for testability. The dumper never writes.
type Port interface {
	Read(p []byte) (int, error)
	Close() error
}

// Open opens a serial device; readTimeout bounds each Read so the caller can
// observe cancellation between reads.
func Open(name string, baud int, readTimeout time.Duration) (Port, error) {
	cfg := &serial.Config{Name: name, Baud: baud, ReadTimeout: readTimeout}
	return serial.OpenPort(cfg)
}
