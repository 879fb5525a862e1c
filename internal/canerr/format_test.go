package canerr

import (
	"strings"
	"testing"

	"github.com/kstaniek/go-canerrdump/internal/can"
)

func format(t *testing.T, fr can.Frame) string {
	t.Helper()
	e, ok := DecodeFrame(fr)
	if !ok {
		t.Fatalf("frame 0x%08X not classified as error frame", fr.CANID)
	}
	return Format(fr, e)
}

func TestFormat_Scenarios(t *testing.T) {
	tests := []struct {
		name string
		fr   can.Frame
		want string
	}{
		{
			name: "lostarb noack busoff protocol",
			fr:   errFrame(ClassLostArbit|ClassNoAck|ClassBusOff|ClassProtocol, 0x09, 0x00, 0x80, 0x00, 0xAA, 0x00, 0x00, 0x00),
			want: "0x06A [8] 09 00 80 00 AA 00 00 00  ERR=LostArBit09,NoAck,BusOff,Prot(Type(TX),Loc(Unspec))",
		},
		{
			name: "restarted no payload",
			fr:   errFrame(ClassRestarted),
			want: "0x100 [0]  ERR=Restarted",
		},
		{
			name: "extended header",
			fr: func() can.Frame {
				fr := errFrame(ClassBusOff|ClassTxTimeout, 0, 0, 0, 0, 0, 0, 0, 0)
				fr.CANID |= can.CAN_EFF_FLAG
				return fr
			}(),
			want: "0x00000041 [8] 00 00 00 00 00 00 00 00  ERR=TxTimeout,BusOff",
		},
		{
			name: "controller and counters",
			fr:   errFrame(ClassController|ClassCounters, 0x00, 0x14, 0x00, 0x00, 0x00, 0x00, 0x88, 0x05),
			want: "0x204 [8] 00 14 00 00 00 00 88 05  ERR=Count(TX=136,RX=5),Ctrl(WarningRX,PassiveRX)",
		},
		{
			name: "controller unspec active",
			fr:   errFrame(ClassController, 0x00, 0x40),
			want: "0x004 [2] 00 40  ERR=Ctrl(Active)",
		},
		{
			name: "protocol types and location",
			fr:   errFrame(ClassProtocol|ClassBusError, 0x00, 0x00, 0x81, 0x12, 0x00, 0x00, 0x00, 0x00),
			want: "0x088 [8] 00 00 81 12 00 00 00 00  ERR=BusError,Prot(Type(SingleBit,TX),Loc(INTERM))",
		},
		{
			name: "unknown location and transceiver",
			fr:   errFrame(ClassProtocol|ClassTransceiver, 0x00, 0x00, 0x00, 0xEE, 0x33, 0x00, 0x00, 0x00),
			want: "0x018 [8] 00 00 00 EE 33 00 00 00  ERR=Prot(Type(Unspec),Loc(Unknown)),Trans(Unknown)",
		},
		{
			name: "transceiver",
			fr:   errFrame(ClassTransceiver, 0x00, 0x00, 0x00, 0x00, 0x80, 0x00, 0x00, 0x00),
			want: "0x010 [8] 00 00 00 00 80 00 00 00  ERR=Trans(CanLoShortToCanHi)",
		},
		{
			name: "lost arbitration short payload",
			fr:   errFrame(ClassLostArbit|ClassCounters, 0x1C),
			want: "0x202 [1] 1C  ERR=LostArBit28,Count(TX=0,RX=0)",
		},
		{
			name: "every class",
			fr: errFrame(ClassTxTimeout|ClassLostArbit|ClassController|ClassProtocol|ClassTransceiver|
				ClassNoAck|ClassBusOff|ClassBusError|ClassRestarted|ClassCounters,
				0x03, 0x00, 0x00, 0x19, 0x04, 0x00, 0x01, 0x02),
			want: "0x3FF [8] 03 00 00 19 04 00 01 02  ERR=TxTimeout,LostArBit03,NoAck,BusOff,BusError,Restarted,Count(TX=1,RX=2),Ctrl(Unspec),Prot(Type(Unspec),Loc(ACK)),Trans(CanHiNoWire)",
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := format(t, tc.fr); got != tc.want {
				t.Fatalf("\n got  %q\n want %q", got, tc.want)
			}
		})
	}
}

func TestFormat_NoTrailingSeparators(t *testing.T) {
	for c := Class(0); c <= 0x3FF; c++ {
		for _, b := range []byte{0x00, 0x40, 0x80, 0xFF} {
			fr := errFrame(c, b, b, b, b, b, b, b, b)
			line := Format(fr, Decode(c, fr.Data, fr.Len))
			_, errPart, found := strings.Cut(line, " ERR=")
			if !found {
				t.Fatalf("missing ERR= in %q", line)
			}
			if strings.HasSuffix(errPart, ",") || strings.Contains(errPart, ",)") ||
				strings.Contains(errPart, ",,") || strings.HasPrefix(errPart, ",") {
				t.Fatalf("stray separator in %q", line)
			}
		}
	}
}

func TestFormat_Idempotent(t *testing.T) {
	fr := errFrame(ClassController|ClassProtocol|ClassCounters, 0x00, 0x3F, 0xFF, 0x1B, 0x00, 0x00, 0xFF, 0xFF)
	e, _ := DecodeFrame(fr)
	a := Format(fr, e)
	b := Format(fr, e)
	if a != b {
		t.Fatalf("format not stable:\n%q\n%q", a, b)
	}
}

func BenchmarkDecodeFormat(b *testing.B) {
	fr := errFrame(ClassLostArbit|ClassNoAck|ClassBusOff|ClassProtocol, 0x09, 0x00, 0x80, 0x00, 0xAA, 0x00, 0x00, 0x00)
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		e, _ := DecodeFrame(fr)
		_ = Format(fr, e)
	}
}
