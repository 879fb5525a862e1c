package serial

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/kstaniek/go-canerrdump/internal/can"
)

const (
	readBufSize = 4096
	// largeBufferReclaimThreshold is the capacity above which the drained
	// accumulation buffer is reallocated, so a burst of line noise does not
	// pin a large backing array.
	largeBufferReclaimThreshold = 16 * 1024
)

// Reader turns a serial byte stream into CAN frames one at a time.
type Reader struct {
	port    Port
	codec   Codec
	buf     []byte
	acc     *bytes.Buffer
	pending []can.Frame
	bad     int // rejected envelopes not yet reported
}

// NewReader wraps an open port.
func NewReader(p Port) *Reader {
	return &Reader{port: p, buf: make([]byte, readBufSize), acc: bytes.NewBuffer(nil)}
}

// ReadFrame returns the next decoded frame. It performs at most one port
// read per call and returns can.ErrNoFrame when that read produced no
// complete frame. Each envelope with a bad length or checksum is reported
// once as can.ErrMalformedFrame; port failures other than EOF are wrapped.
func (r *Reader) ReadFrame(fr *can.Frame) error {
	if err := r.malformed(); err != nil {
		return err
	}
	if r.next(fr) {
		return nil
	}
	n, err := r.port.Read(r.buf)
	if n > 0 {
		r.acc.Write(r.buf[:n])
		r.bad += r.codec.DecodeStream(r.acc, func(f can.Frame) { r.pending = append(r.pending, f) })
		if r.acc.Len() == 0 && cap(r.acc.Bytes()) > largeBufferReclaimThreshold {
			r.acc = bytes.NewBuffer(nil)
		}
	}
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		return fmt.Errorf("serial read: %w", err)
	}
	if err := r.malformed(); err != nil {
		return err
	}
	if r.next(fr) {
		return nil
	}
	return can.ErrNoFrame
}

func (r *Reader) malformed() error {
	if r.bad == 0 {
		return nil
	}
	r.bad--
	return fmt.Errorf("%w: bad serial envelope (length or checksum)", can.ErrMalformedFrame)
}

func (r *Reader) next(fr *can.Frame) bool {
	if len(r.pending) == 0 {
		return false
	}
	*fr = r.pending[0]
	r.pending = r.pending[1:]
	if len(r.pending) == 0 {
		r.pending = nil
	}
	return true
}

// Close closes the underlying port.
func (r *Reader) Close() error { return r.port.Close() }
