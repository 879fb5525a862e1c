package serial

import (
	"bytes"
	"encoding/binary"

	"github.com/kstaniek/go-canerrdump/internal/can"
)

// Codec decodes CAN frames from the Ampio UART stream.
type Codec struct{}

const (
	pre0 = 0x2D
	pre1 = 0xD4
)

// CompactBuffer reclaims consumed prefix capacity when underlying buffer
// grows too large relative to unread bytes. It returns true if compaction
// occurred.
func CompactBuffer(b *bytes.Buffer) bool {
	data := b.Bytes()
	if len(data) < 1024 {
		return false
	}
	if cap(data) > 0 && len(data)*4 < cap(data) {
		clone := make([]byte, len(data))
		copy(clone, data)
		b.Reset()
		_, _ = b.Write(clone)
		return true
	}
	return false
}

// DecodeStream consumes complete frames from in and emits them via out,
// leaving any partial frame buffered for the next call.
//
// Wire layout:
//
//	2D D4       preamble
//	LEN         id(4) + payload(0..8) + checksum(1)
//	ID          4 bytes big-endian, SocketCAN flag bits preserved
//	PAYLOAD     0..8 bytes
//	CHECKSUM    0x2D + LEN + sum(ID, PAYLOAD) mod 256
//
// Corrupt lengths and checksums are skipped and the decoder resyncs one byte
// further; the number of such rejects is returned.
func (Codec) DecodeStream(in *bytes.Buffer, out func(can.Frame)) (rejected int) {
	const (
		minLn = 4 + 0 + 1
		maxLn = 4 + can.MaxDataLen + 1
	)
	header := []byte{pre0, pre1}

	for {
		_ = CompactBuffer(in)
		data := in.Bytes()
		if len(data) < 3 { // need preamble + len
			return
		}

		i := bytes.Index(data, header)
		if i < 0 {
			// keep last byte in case next buffer starts with preamble second byte
			last := data[len(data)-1]
			in.Reset()
			if last == pre0 {
				_ = in.WriteByte(last)
			}
			return
		}
		if i > 0 {
			in.Next(i)
			continue
		}

		ln := int(data[2])
		if ln < minLn || ln > maxLn {
			rejected++
			in.Next(1)
			continue
		}
		req := 3 + ln
		if len(data) < req {
			return
		}

		sum := uint(pre0) + uint(data[2])
		for _, b := range data[3 : req-1] {
			sum += uint(b)
		}
		if byte(sum) != data[req-1] {
			rejected++
			in.Next(1)
			continue
		}

		payload := data[7 : req-1]
		var f can.Frame
		f.CANID = binary.BigEndian.Uint32(data[3:7]) | can.CAN_EFF_FLAG
		f.Len = uint8(len(payload))
		copy(f.Data[:], payload)

		out(f)
		in.Next(req)
	}
}
