//go:build linux

package socketcan

import (
	"encoding/binary"
	"errors"
	"testing"

	"golang.org/x/sys/unix"

	"github.com/kstaniek/go-canerrdump/internal/can"
)

func rawFrame(id uint32, dlc uint8, data ...byte) []byte {
	b := make([]byte, unix.CAN_MTU)
	binary.LittleEndian.PutUint32(b[0:4], id)
	b[4] = dlc
	copy(b[8:], data)
	return b
}

func TestDecodeFrame(t *testing.T) {
	var fr can.Frame
	raw := rawFrame(can.CAN_ERR_FLAG|0x6A, 8, 0x09, 0x00, 0x80, 0x00, 0xAA, 0x00, 0x00, 0x00)
	if err := decodeFrame(raw, &fr); err != nil {
		t.Fatalf("decodeFrame: %v", err)
	}
	if fr.CANID != can.CAN_ERR_FLAG|0x6A || fr.Len != 8 || fr.Data[0] != 0x09 || fr.Data[4] != 0xAA {
		t.Fatalf("unexpected frame: %+v", fr)
	}
}

func TestDecodeFrame_ClampsDLC(t *testing.T) {
	var fr can.Frame
	if err := decodeFrame(rawFrame(can.CAN_ERR_FLAG|0x100, 15), &fr); err != nil {
		t.Fatalf("decodeFrame: %v", err)
	}
	if fr.Len != can.MaxDataLen {
		t.Fatalf("dlc not clamped: %d", fr.Len)
	}
}

func TestDecodeFrame_ResetsPreviousPayload(t *testing.T) {
	fr := can.Frame{Len: 8, Data: [8]byte{1, 2, 3, 4, 5, 6, 7, 8}}
	if err := decodeFrame(rawFrame(can.CAN_ERR_FLAG|0x004, 2, 0x00, 0x40), &fr); err != nil {
		t.Fatalf("decodeFrame: %v", err)
	}
	if fr.Data[2] != 0 || fr.Data[7] != 0 {
		t.Fatalf("stale payload bytes kept: % X", fr.Data)
	}
}

func TestDecodeFrame_ShortRead(t *testing.T) {
	var fr can.Frame
	for _, n := range []int{0, 4, 8, unix.CAN_MTU - 1} {
		err := decodeFrame(make([]byte, n), &fr)
		if !errors.Is(err, can.ErrMalformedFrame) {
			t.Fatalf("n=%d: expected ErrMalformedFrame, got %v", n, err)
		}
	}
}
